/**
  @Go version: 1.19
  @project: booksProject
  @ide: GoLand
  @file: redis.go
  @author: Lido
  @time: 2026-10-19 14:30
  @description: Redis存储，每本书一个hash，id集合单独存放
*/
package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"booksProject/models"
	"booksProject/settings"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	bookKeyPrefix = "book:"
	booksSetKey   = "books"
)

type Store struct {
	rdb *redis.Client
}

func Open(ctx context.Context, cfg *settings.RedisConfig) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password, // 密码
		DB:       cfg.DB,       // 数据库
		PoolSize: cfg.PoolSize, // 连接池大小
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(rdb), nil
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func bookKey(id string) string {
	return bookKeyPrefix + id
}

func (s *Store) FindAll(ctx context.Context) ([]*models.Book, error) {
	ids, err := s.rdb.SMembers(ctx, booksSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list book ids: %w", err)
	}
	// ObjectID 前 4 个字节是时间戳，排序后大致就是插入顺序
	sort.Strings(ids)

	books := make([]*models.Book, 0, len(ids))
	if len(ids) == 0 {
		return books, nil
	}

	cmds := make([]*redis.StringStringMapCmd, len(ids))
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, bookKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}

	for i, cmd := range cmds {
		fields := cmd.Val()
		// 集合里有 id 但 hash 已经被删掉了
		if len(fields) == 0 {
			continue
		}
		book, err := decodeBook(ids[i], fields)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}

func (s *Store) FindOne(ctx context.Context, filter models.BookFilter) (*models.Book, error) {
	if filter.ID.IsZero() {
		// 没有按标题的索引，只能全量扫描
		books, err := s.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		for _, book := range books {
			if filter.Title == "" || book.Title == filter.Title {
				return book, nil
			}
		}
		return nil, nil
	}

	fields, err := s.rdb.HGetAll(ctx, bookKey(filter.ID.Hex())).Result()
	if err != nil {
		return nil, fmt.Errorf("load book: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	book, err := decodeBook(filter.ID.Hex(), fields)
	if err != nil {
		return nil, err
	}
	if filter.Title != "" && book.Title != filter.Title {
		return nil, nil
	}
	return book, nil
}

func (s *Store) InsertOne(ctx context.Context, book *models.Book) (models.BookID, error) {
	id := primitive.NewObjectID()
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, bookKey(id.Hex()),
			"title", book.Title,
			"author", book.Author,
			"year", book.Year,
		)
		pipe.SAdd(ctx, booksSetKey, id.Hex())
		return nil
	})
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert book: %w", err)
	}
	return id, nil
}

// UpdateOne 在 WATCH 下比较新旧值，只写有变化的字段，没有变化时返回 0
func (s *Store) UpdateOne(ctx context.Context, id models.BookID, fields *models.BookFields) (int64, error) {
	key := bookKey(id.Hex())
	var modified int64

	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		if len(current) == 0 {
			return nil
		}

		var changes []interface{}
		if fields.Title != "" && current["title"] != fields.Title {
			changes = append(changes, "title", fields.Title)
		}
		if fields.Author != "" && current["author"] != fields.Author {
			changes = append(changes, "author", fields.Author)
		}
		if fields.Year != 0 && current["year"] != strconv.Itoa(fields.Year) {
			changes = append(changes, "year", fields.Year)
		}
		if len(changes) == 0 {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, changes...)
			return nil
		})
		if err == nil {
			modified = 1
		}
		return err
	}, key)
	if err != nil {
		return 0, fmt.Errorf("update book: %w", err)
	}
	return modified, nil
}

func (s *Store) DeleteOne(ctx context.Context, id models.BookID) (int64, error) {
	var del *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, bookKey(id.Hex()))
		pipe.SRem(ctx, booksSetKey, id.Hex())
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete book: %w", err)
	}
	return del.Val(), nil
}

func (s *Store) ParseID(raw string) (models.BookID, error) {
	return models.ParseBookID(raw)
}

func (s *Store) Close(_ context.Context) error {
	return s.rdb.Close()
}

func decodeBook(rawID string, fields map[string]string) (*models.Book, error) {
	id, err := models.ParseBookID(rawID)
	if err != nil {
		return nil, fmt.Errorf("corrupt book id %q: %w", rawID, err)
	}
	year, err := strconv.Atoi(fields["year"])
	if err != nil {
		return nil, fmt.Errorf("corrupt year for book %s: %w", rawID, err)
	}
	return &models.Book{
		ID:     id,
		Title:  fields["title"],
		Author: fields["author"],
		Year:   year,
	}, nil
}
