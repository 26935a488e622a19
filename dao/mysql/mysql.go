/**
  @Go version: 1.19
  @project: booksProject
  @ide: GoLand
  @file: mysql.go
  @author: Lido
  @time: 2026-10-19 13:02
  @description: MySQL存储（sqlx）
*/
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"booksProject/models"
	"booksProject/settings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// id 由应用生成的 ObjectID，和 mongo 后端保持同样的格式
// title/author 用 TEXT 不限长度，utf8mb4_bin 按字节比较，大小写和重音都算不同的标题
const schema = `CREATE TABLE IF NOT EXISTS books (
	id CHAR(24) NOT NULL PRIMARY KEY,
	title TEXT CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
	author TEXT CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
	year INT NOT NULL
) DEFAULT CHARSET = utf8mb4 COLLATE = utf8mb4_bin`

type bookRow struct {
	ID     string `db:"id"`
	Title  string `db:"title"`
	Author string `db:"author"`
	Year   int    `db:"year"`
}

type Store struct {
	db *sqlx.DB
}

func Open(ctx context.Context, cfg *settings.MySQLConfig) (*Store, error) {
	// 也可以使用MustConnect连接不成功就panic
	db, err := sqlx.ConnectContext(ctx, "mysql", cfg.DSN)
	if err != nil {
		zap.L().Error("connect DB failed", zap.Error(err))
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	s := New(db)
	if err = s.CreateSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// CreateSchema 建表，表已存在时什么也不做
func (s *Store) CreateSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}
	return nil
}

func (s *Store) FindAll(ctx context.Context) ([]*models.Book, error) {
	sqlStr := `select id, title, author, year from books order by id`
	var rows []bookRow
	if err := s.db.SelectContext(ctx, &rows, sqlStr); err != nil {
		return nil, fmt.Errorf("select books: %w", err)
	}

	books := make([]*models.Book, 0, len(rows))
	for _, row := range rows {
		book, err := row.toBook()
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

func (s *Store) FindOne(ctx context.Context, filter models.BookFilter) (*models.Book, error) {
	var (
		conds []string
		args  []interface{}
	)
	if !filter.ID.IsZero() {
		conds = append(conds, "id = ?")
		args = append(args, filter.ID.Hex())
	}
	if filter.Title != "" {
		// utf8mb4_bin 会忽略末尾空格，转成二进制后逐字节比较
		conds = append(conds, "cast(title as binary) = cast(? as binary)")
		args = append(args, filter.Title)
	}

	sqlStr := `select id, title, author, year from books`
	if len(conds) > 0 {
		sqlStr += " where " + strings.Join(conds, " and ")
	}
	sqlStr += " limit 1"

	var row bookRow
	err := s.db.GetContext(ctx, &row, sqlStr, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select book: %w", err)
	}
	return row.toBook()
}

func (s *Store) InsertOne(ctx context.Context, book *models.Book) (models.BookID, error) {
	id := primitive.NewObjectID()
	sqlStr := `insert into books (id, title, author, year) values (:id, :title, :author, :year)`
	_, err := s.db.NamedExecContext(ctx, sqlStr, bookRow{
		ID:     id.Hex(),
		Title:  book.Title,
		Author: book.Author,
		Year:   book.Year,
	})
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert book: %w", err)
	}
	return id, nil
}

// UpdateOne 依赖 MySQL 默认的 affected rows 语义：值没有变化的行不计数
func (s *Store) UpdateOne(ctx context.Context, id models.BookID, fields *models.BookFields) (int64, error) {
	var sets []string
	args := map[string]interface{}{"id": id.Hex()}
	if fields.Title != "" {
		sets = append(sets, "title = :title")
		args["title"] = fields.Title
	}
	if fields.Author != "" {
		sets = append(sets, "author = :author")
		args["author"] = fields.Author
	}
	if fields.Year != 0 {
		sets = append(sets, "year = :year")
		args["year"] = fields.Year
	}
	if len(sets) == 0 {
		return 0, nil
	}

	sqlStr := `update books set ` + strings.Join(sets, ", ") + ` where id = :id`
	res, err := s.db.NamedExecContext(ctx, sqlStr, args)
	if err != nil {
		return 0, fmt.Errorf("update book: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) DeleteOne(ctx context.Context, id models.BookID) (int64, error) {
	sqlStr := `delete from books where id = ?`
	res, err := s.db.ExecContext(ctx, sqlStr, id.Hex())
	if err != nil {
		return 0, fmt.Errorf("delete book: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) ParseID(raw string) (models.BookID, error) {
	return models.ParseBookID(raw)
}

func (s *Store) Close(_ context.Context) error {
	return s.db.Close()
}

func (r bookRow) toBook() (*models.Book, error) {
	id, err := models.ParseBookID(r.ID)
	if err != nil {
		return nil, fmt.Errorf("corrupt book id %q: %w", r.ID, err)
	}
	return &models.Book{
		ID:     id,
		Title:  r.Title,
		Author: r.Author,
		Year:   r.Year,
	}, nil
}
