package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"booksProject/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(sqlx.NewDb(db, "mysql")), mock
}

var columns = []string{"id", "title", "author", "year"}

func TestFindAll(t *testing.T) {
	s, mock := newMockStore(t)
	first, second := primitive.NewObjectID(), primitive.NewObjectID()
	mock.ExpectQuery(regexp.QuoteMeta(`select id, title, author, year from books order by id`)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(first.Hex(), "Dune", "Herbert", 1965).
			AddRow(second.Hex(), "Emma", "Austen", 1815))

	books, err := s.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, &models.Book{ID: first, Title: "Dune", Author: "Herbert", Year: 1965}, books[0])
	assert.Equal(t, second, books[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAllEmpty(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(`select id, title, author, year from books order by id`)).
		WillReturnRows(sqlmock.NewRows(columns))

	books, err := s.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestFindOneByTitle(t *testing.T) {
	s, mock := newMockStore(t)
	id := primitive.NewObjectID()
	mock.ExpectQuery(regexp.QuoteMeta(`select id, title, author, year from books where cast(title as binary) = cast(? as binary) limit 1`)).
		WithArgs("Dune").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(id.Hex(), "Dune", "Herbert", 1965))

	book, err := s.FindOne(context.Background(), models.BookFilter{Title: "Dune"})
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, id, book.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSchema(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(schema)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.CreateSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())

	// 标题比较区分大小写和重音，且没有长度限制
	assert.Contains(t, schema, "title TEXT CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL")
	assert.Contains(t, schema, "author TEXT CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL")
	assert.NotContains(t, schema, "VARCHAR")
}

func TestCreateSchemaError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(schema)).WillReturnError(errors.New("access denied"))

	err := s.CreateSchema(context.Background())
	assert.ErrorContains(t, err, "create books table")
}

func TestFindOneByTitleAndID(t *testing.T) {
	s, mock := newMockStore(t)
	id := primitive.NewObjectID()
	mock.ExpectQuery(regexp.QuoteMeta(`select id, title, author, year from books where id = ? and cast(title as binary) = cast(? as binary) limit 1`)).
		WithArgs(id.Hex(), "dune ").
		WillReturnRows(sqlmock.NewRows(columns))

	book, err := s.FindOne(context.Background(), models.BookFilter{ID: id, Title: "dune "})
	require.NoError(t, err)
	assert.Nil(t, book)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOneAbsent(t *testing.T) {
	s, mock := newMockStore(t)
	id := primitive.NewObjectID()
	mock.ExpectQuery(regexp.QuoteMeta(`select id, title, author, year from books where id = ? limit 1`)).
		WithArgs(id.Hex()).
		WillReturnRows(sqlmock.NewRows(columns))

	book, err := s.FindOne(context.Background(), models.BookFilter{ID: id})
	require.NoError(t, err)
	assert.Nil(t, book)
}

func TestInsertOne(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`insert into books (id, title, author, year) values (?, ?, ?, ?)`)).
		WithArgs(sqlmock.AnyArg(), "Dune", "Herbert", int64(1965)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := s.InsertOne(context.Background(), &models.Book{Title: "Dune", Author: "Herbert", Year: 1965})
	require.NoError(t, err)
	assert.False(t, id.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOne(t *testing.T) {
	s, mock := newMockStore(t)
	id := primitive.NewObjectID()
	mock.ExpectExec(regexp.QuoteMeta(`update books set author = ?, year = ? where id = ?`)).
		WithArgs("Frank Herbert", int64(1966), id.Hex()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := s.UpdateOne(context.Background(), id, &models.BookFields{Author: "Frank Herbert", Year: 1966})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOneUnchanged(t *testing.T) {
	s, mock := newMockStore(t)
	id := primitive.NewObjectID()
	mock.ExpectExec(regexp.QuoteMeta(`update books set year = ? where id = ?`)).
		WithArgs(int64(1965), id.Hex()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := s.UpdateOne(context.Background(), id, &models.BookFields{Year: 1965})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestDeleteOne(t *testing.T) {
	s, mock := newMockStore(t)
	id := primitive.NewObjectID()
	mock.ExpectExec(regexp.QuoteMeta(`delete from books where id = ?`)).
		WithArgs(id.Hex()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := s.DeleteOne(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDeleteOneError(t *testing.T) {
	s, mock := newMockStore(t)
	id := primitive.NewObjectID()
	mock.ExpectExec(regexp.QuoteMeta(`delete from books where id = ?`)).
		WithArgs(id.Hex()).
		WillReturnError(errors.New("connection refused"))

	_, err := s.DeleteOne(context.Background(), id)
	assert.Error(t, err)
}
