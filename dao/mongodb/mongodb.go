/**
  @Go version: 1.19
  @project: booksProject
  @ide: GoLand
  @file: mongodb.go
  @author: Lido
  @time: 2026-10-19 11:20
  @description: MongoDB存储
*/
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booksProject/models"
	"booksProject/settings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func Open(ctx context.Context, cfg *settings.MongoConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.ConnectTimeout)*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	zap.L().Info("connected to database",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection))

	return New(client.Database(cfg.Database).Collection(cfg.Collection)), nil
}

func New(coll *mongo.Collection) *Store {
	return &Store{
		client: coll.Database().Client(),
		coll:   coll,
	}
}

func (s *Store) FindAll(ctx context.Context) ([]*models.Book, error) {
	cursor, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}

	books := make([]*models.Book, 0)
	if err = cursor.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return books, nil
}

func (s *Store) FindOne(ctx context.Context, filter models.BookFilter) (*models.Book, error) {
	book := new(models.Book)
	err := s.coll.FindOne(ctx, toQuery(filter)).Decode(book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find book: %w", err)
	}
	return book, nil
}

func (s *Store) InsertOne(ctx context.Context, book *models.Book) (models.BookID, error) {
	// _id 交给驱动生成
	doc := bson.D{
		{Key: "title", Value: book.Title},
		{Key: "author", Value: book.Author},
		{Key: "year", Value: book.Year},
	}
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert book: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

func (s *Store) UpdateOne(ctx context.Context, id models.BookID, fields *models.BookFields) (int64, error) {
	set := bson.D{}
	if fields.Title != "" {
		set = append(set, bson.E{Key: "title", Value: fields.Title})
	}
	if fields.Author != "" {
		set = append(set, bson.E{Key: "author", Value: fields.Author})
	}
	if fields.Year != 0 {
		set = append(set, bson.E{Key: "year", Value: fields.Year})
	}

	query := bson.D{{Key: "_id", Value: id}}
	update := bson.D{{Key: "$set", Value: set}}
	res, err := s.coll.UpdateOne(ctx, query, update)
	if err != nil {
		return 0, fmt.Errorf("update book: %w", err)
	}
	return res.ModifiedCount, nil
}

func (s *Store) DeleteOne(ctx context.Context, id models.BookID) (int64, error) {
	query := bson.D{{Key: "_id", Value: id}}
	res, err := s.coll.DeleteOne(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("delete book: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *Store) ParseID(raw string) (models.BookID, error) {
	return models.ParseBookID(raw)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func toQuery(filter models.BookFilter) bson.D {
	query := bson.D{}
	if !filter.ID.IsZero() {
		query = append(query, bson.E{Key: "_id", Value: filter.ID})
	}
	if filter.Title != "" {
		query = append(query, bson.E{Key: "title", Value: filter.Title})
	}
	return query
}
