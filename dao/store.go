package dao

import (
	"context"

	"booksProject/models"
)

// Store 书籍的持久化接口，各个存储后端都要实现
type Store interface {
	FindAll(ctx context.Context) ([]*models.Book, error)
	// FindOne 没找到时返回 nil, nil
	FindOne(ctx context.Context, filter models.BookFilter) (*models.Book, error)
	InsertOne(ctx context.Context, book *models.Book) (models.BookID, error)
	// UpdateOne 返回实际被修改的记录数，值没变化也算 0
	UpdateOne(ctx context.Context, id models.BookID, fields *models.BookFields) (int64, error)
	DeleteOne(ctx context.Context, id models.BookID) (int64, error)
	ParseID(raw string) (models.BookID, error)
	Close(ctx context.Context) error
}
