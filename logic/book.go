package logic

import (
	"context"

	"booksProject/dao"
	"booksProject/models"

	"go.uber.org/zap"
)

// BookLogic 书籍的业务逻辑，存储通过构造函数注入
type BookLogic struct {
	store dao.Store
}

func NewBookLogic(store dao.Store) *BookLogic {
	return &BookLogic{store: store}
}

func (l *BookLogic) ListBooks(ctx context.Context) ([]*models.BookView, error) {
	books, err := l.store.FindAll(ctx)
	if err != nil {
		zap.L().Error("store.FindAll failed", zap.Error(err))
		return nil, ErrListBooks
	}

	views := make([]*models.BookView, 0, len(books))
	for _, book := range books {
		views = append(views, book.View())
	}
	return views, nil
}

func (l *BookLogic) GetBook(ctx context.Context, rawID string) (*models.BookView, error) {
	id, err := l.store.ParseID(rawID)
	if err != nil {
		return nil, ErrInvalidID
	}

	book, err := l.store.FindOne(ctx, models.BookFilter{ID: id})
	if err != nil {
		zap.L().Error("store.FindOne failed", zap.String("id", rawID), zap.Error(err))
		return nil, ErrInvalidID
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return book.View(), nil
}

// CreateBook 标题重复检查是先读后写，并发创建同名书籍时两个请求都可能成功
func (l *BookLogic) CreateBook(ctx context.Context, p *models.ParamCreateBook) (*models.BookView, error) {
	if p.Title == "" || p.Author == "" || p.Year == 0 {
		return nil, ErrMissingFields
	}

	// 1.判断书籍是否存在
	exist, err := l.store.FindOne(ctx, models.BookFilter{Title: p.Title})
	if err != nil {
		zap.L().Error("store.FindOne failed", zap.String("title", p.Title), zap.Error(err))
		return nil, ErrMissingFields
	}
	if exist != nil {
		return nil, ErrBookExist
	}

	// 2.入库
	book := &models.Book{
		Title:  p.Title,
		Author: p.Author,
		Year:   int(p.Year),
	}
	id, err := l.store.InsertOne(ctx, book)
	if err != nil {
		zap.L().Error("store.InsertOne failed", zap.String("title", p.Title), zap.Error(err))
		return nil, ErrMissingFields
	}
	book.ID = id
	return book.View(), nil
}

// UpdateBook 部分更新，只写入请求里非零值的字段
func (l *BookLogic) UpdateBook(ctx context.Context, rawID string, p *models.ParamUpdateBook) (*models.BookUpdated, error) {
	fields := p.Fields()
	if fields.IsEmpty() {
		return nil, ErrNoUpdateFields
	}

	id, err := l.store.ParseID(rawID)
	if err != nil {
		return nil, ErrInvalidIDOrBody
	}

	modified, err := l.store.UpdateOne(ctx, id, fields)
	if err != nil {
		zap.L().Error("store.UpdateOne failed", zap.String("id", rawID), zap.Error(err))
		return nil, ErrInvalidIDOrBody
	}
	// 值没有变化时 modified 也是 0，这里和不存在一样按 404 处理
	if modified == 0 {
		return nil, ErrBookNotFound
	}

	return &models.BookUpdated{
		ID:     rawID,
		Title:  fields.Title,
		Author: fields.Author,
		Year:   fields.Year,
	}, nil
}

func (l *BookLogic) DeleteBook(ctx context.Context, rawID string) error {
	id, err := l.store.ParseID(rawID)
	if err != nil {
		return ErrInvalidID
	}

	deleted, err := l.store.DeleteOne(ctx, id)
	if err != nil {
		zap.L().Error("store.DeleteOne failed", zap.String("id", rawID), zap.Error(err))
		return ErrInvalidID
	}
	if deleted == 0 {
		return ErrBookNotFound
	}
	return nil
}
