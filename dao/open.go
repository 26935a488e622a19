/**
  @Go version: 1.19
  @project: booksProject
  @ide: GoLand
  @file: open.go
  @author: Lido
  @time: 2026-10-19 11:05
  @description: 根据配置选择存储后端
*/
package dao

import (
	"context"
	"fmt"

	"booksProject/dao/memory"
	"booksProject/dao/mongodb"
	"booksProject/dao/mysql"
	"booksProject/dao/redis"
	"booksProject/settings"

	"go.uber.org/zap"
)

var (
	_ Store = (*mongodb.Store)(nil)
	_ Store = (*mysql.Store)(nil)
	_ Store = (*redis.Store)(nil)
	_ Store = (*memory.Store)(nil)
)

func Open(ctx context.Context, conf *settings.AppConfig) (Store, error) {
	driver := conf.StoreConfig.Driver
	zap.L().Debug("opening store", zap.String("driver", driver))

	var (
		store Store
		err   error
	)
	switch driver {
	case settings.DriverMongo:
		store, err = openMongo(ctx, conf.MongoConfig)
	case settings.DriverMySQL:
		store, err = openMySQL(ctx, conf.MySQLConfig)
	case settings.DriverRedis:
		store, err = openRedis(ctx, conf.RedisConfig)
	case settings.DriverMemory:
		store = memory.New()
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// 单独包一层，避免把 nil 指针装进接口
func openMongo(ctx context.Context, cfg *settings.MongoConfig) (Store, error) {
	s, err := mongodb.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openMySQL(ctx context.Context, cfg *settings.MySQLConfig) (Store, error) {
	s, err := mysql.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openRedis(ctx context.Context, cfg *settings.RedisConfig) (Store, error) {
	s, err := redis.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}
