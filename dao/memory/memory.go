package memory

import (
	"context"
	"sync"

	"booksProject/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store 进程内存储，本地开发和测试使用
type Store struct {
	mu    sync.RWMutex
	books map[models.BookID]models.Book
	// 保留插入顺序，FindAll 按插入顺序返回
	order []models.BookID
}

func New(seed ...models.Book) *Store {
	s := &Store{
		books: make(map[models.BookID]models.Book, len(seed)),
	}
	for _, book := range seed {
		if book.ID.IsZero() {
			book.ID = primitive.NewObjectID()
		}
		s.books[book.ID] = book
		s.order = append(s.order, book.ID)
	}
	return s
}

func (s *Store) FindAll(_ context.Context) ([]*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Book, 0, len(s.order))
	for _, id := range s.order {
		book := s.books[id]
		result = append(result, &book)
	}
	return result, nil
}

func (s *Store) FindOne(_ context.Context, filter models.BookFilter) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		book := s.books[id]
		if !filter.ID.IsZero() && book.ID != filter.ID {
			continue
		}
		if filter.Title != "" && book.Title != filter.Title {
			continue
		}
		return &book, nil
	}
	return nil, nil
}

func (s *Store) InsertOne(_ context.Context, book *models.Book) (models.BookID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := *book
	record.ID = primitive.NewObjectID()
	s.books[record.ID] = record
	s.order = append(s.order, record.ID)
	return record.ID, nil
}

func (s *Store) UpdateOne(_ context.Context, id models.BookID, fields *models.BookFields) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[id]
	if !ok {
		return 0, nil
	}

	updated := book
	if fields.Title != "" {
		updated.Title = fields.Title
	}
	if fields.Author != "" {
		updated.Author = fields.Author
	}
	if fields.Year != 0 {
		updated.Year = fields.Year
	}
	if updated == book {
		return 0, nil
	}
	s.books[id] = updated
	return 1, nil
}

func (s *Store) DeleteOne(_ context.Context, id models.BookID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return 0, nil
	}
	delete(s.books, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (s *Store) ParseID(raw string) (models.BookID, error) {
	return models.ParseBookID(raw)
}

func (s *Store) Close(_ context.Context) error {
	return nil
}
