package logic

import (
	"context"
	"errors"
	"testing"

	"booksProject/dao/memory"
	"booksProject/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("store down")

// brokenStore 除了 ParseID 以外所有调用都失败
type brokenStore struct{}

func (brokenStore) FindAll(context.Context) ([]*models.Book, error) { return nil, errStoreDown }
func (brokenStore) FindOne(context.Context, models.BookFilter) (*models.Book, error) {
	return nil, errStoreDown
}
func (brokenStore) InsertOne(context.Context, *models.Book) (models.BookID, error) {
	return primitive.NilObjectID, errStoreDown
}
func (brokenStore) UpdateOne(context.Context, models.BookID, *models.BookFields) (int64, error) {
	return 0, errStoreDown
}
func (brokenStore) DeleteOne(context.Context, models.BookID) (int64, error) { return 0, errStoreDown }
func (brokenStore) ParseID(raw string) (models.BookID, error)               { return models.ParseBookID(raw) }
func (brokenStore) Close(context.Context) error                             { return nil }

func dune() *models.ParamCreateBook {
	return &models.ParamCreateBook{Title: "Dune", Author: "Herbert", Year: 1965}
}

func TestCreateThenGet(t *testing.T) {
	ctx := context.Background()
	l := NewBookLogic(memory.New())

	created, err := l.CreateBook(ctx, dune())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := l.GetBook(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateDuplicateTitle(t *testing.T) {
	ctx := context.Background()
	l := NewBookLogic(memory.New())

	_, err := l.CreateBook(ctx, dune())
	require.NoError(t, err)

	_, err = l.CreateBook(ctx, &models.ParamCreateBook{Title: "Dune", Author: "Someone Else", Year: 2021})
	assert.ErrorIs(t, err, ErrBookExist)
}

func TestCreateMissingFields(t *testing.T) {
	l := NewBookLogic(memory.New())

	tests := []struct {
		name string
		p    *models.ParamCreateBook
	}{
		{name: "empty title", p: &models.ParamCreateBook{Author: "Herbert", Year: 1965}},
		{name: "empty author", p: &models.ParamCreateBook{Title: "Dune", Year: 1965}},
		{name: "zero year", p: &models.ParamCreateBook{Title: "Dune", Author: "Herbert"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.CreateBook(context.Background(), tc.p)
			assert.ErrorIs(t, err, ErrMissingFields)
		})
	}
}

func TestUpdateYearOnly(t *testing.T) {
	ctx := context.Background()
	l := NewBookLogic(memory.New())

	created, err := l.CreateBook(ctx, dune())
	require.NoError(t, err)

	updated, err := l.UpdateBook(ctx, created.ID, &models.ParamUpdateBook{Year: 1966})
	require.NoError(t, err)
	assert.Equal(t, &models.BookUpdated{ID: created.ID, Year: 1966}, updated)

	got, err := l.GetBook(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "Herbert", got.Author)
	assert.Equal(t, 1966, got.Year)
}

func TestUpdateErrors(t *testing.T) {
	ctx := context.Background()
	l := NewBookLogic(memory.New())

	created, err := l.CreateBook(ctx, dune())
	require.NoError(t, err)

	_, err = l.UpdateBook(ctx, created.ID, &models.ParamUpdateBook{})
	assert.ErrorIs(t, err, ErrNoUpdateFields)

	// 字段检查在 id 检查之前
	_, err = l.UpdateBook(ctx, "not-an-id", &models.ParamUpdateBook{})
	assert.ErrorIs(t, err, ErrNoUpdateFields)

	_, err = l.UpdateBook(ctx, "not-an-id", &models.ParamUpdateBook{Year: 1966})
	assert.ErrorIs(t, err, ErrInvalidIDOrBody)

	_, err = l.UpdateBook(ctx, primitive.NewObjectID().Hex(), &models.ParamUpdateBook{Year: 1966})
	assert.ErrorIs(t, err, ErrBookNotFound)

	// 新值和旧值相同，同样是 not found
	_, err = l.UpdateBook(ctx, created.ID, &models.ParamUpdateBook{Year: 1965})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteTwice(t *testing.T) {
	ctx := context.Background()
	l := NewBookLogic(memory.New())

	created, err := l.CreateBook(ctx, dune())
	require.NoError(t, err)

	require.NoError(t, l.DeleteBook(ctx, created.ID))
	assert.ErrorIs(t, l.DeleteBook(ctx, created.ID), ErrBookNotFound)

	_, err = l.GetBook(ctx, created.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestInvalidIDNeverNotFound(t *testing.T) {
	ctx := context.Background()
	l := NewBookLogic(memory.New())

	for _, raw := range []string{"not-an-id", "", "123", primitive.NewObjectID().Hex() + "/extra"} {
		_, err := l.GetBook(ctx, raw)
		assert.ErrorIs(t, err, ErrInvalidID, raw)

		_, err = l.UpdateBook(ctx, raw, &models.ParamUpdateBook{Title: "x"})
		assert.ErrorIs(t, err, ErrInvalidIDOrBody, raw)

		assert.ErrorIs(t, l.DeleteBook(ctx, raw), ErrInvalidID, raw)
	}
}

func TestListEmpty(t *testing.T) {
	books, err := NewBookLogic(memory.New()).ListBooks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestStoreFailuresAreFolded(t *testing.T) {
	ctx := context.Background()
	l := NewBookLogic(brokenStore{})
	id := primitive.NewObjectID().Hex()

	_, err := l.ListBooks(ctx)
	assert.ErrorIs(t, err, ErrListBooks)

	_, err = l.GetBook(ctx, id)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = l.CreateBook(ctx, dune())
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = l.UpdateBook(ctx, id, &models.ParamUpdateBook{Year: 1966})
	assert.ErrorIs(t, err, ErrInvalidIDOrBody)

	assert.ErrorIs(t, l.DeleteBook(ctx, id), ErrInvalidID)
}
