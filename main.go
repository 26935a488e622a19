/**
  @Go version: 1.19
  @project: booksProject
  @ide: GoLand
  @file: main.go
  @author: Lido
  @time: 2026-10-19 15:40
  @description: 书籍CRUD服务入口
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booksProject/dao"
	"booksProject/logger"
	"booksProject/routes"
	"booksProject/settings"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// 0. flag参数指定配置文件
	var configFileName string
	flag.StringVar(&configFileName, "config", "./config.yaml", "配置文件")
	flag.Parse()

	// 1. 加载配置文件
	if err := settings.Init(configFileName); err != nil {
		fmt.Printf("init settings failed, err:%v\n", err)
		return err
	}
	if err := settings.Conf.Validate(); err != nil {
		if errors.Is(err, settings.ErrMissingMongoURL) {
			fmt.Println("No mongo url found!")
		} else {
			fmt.Printf("invalid settings, err:%v\n", err)
		}
		return err
	}

	// 2. 初始化日志
	if err := logger.Init(settings.Conf.LogConfig, settings.Conf.Mode); err != nil {
		fmt.Printf("init logger failed, err:%v\n", err)
		return err
	}
	defer zap.L().Sync()
	zap.L().Debug("logger init success...")

	// 配置文件修改后只热更新日志级别，存储地址需要重启
	settings.Watch(func(conf *settings.AppConfig) {
		if err := logger.SetLevel(conf.LogConfig.Level); err != nil {
			zap.L().Error("logger.SetLevel failed", zap.String("level", conf.LogConfig.Level), zap.Error(err))
		}
	})

	// 3. 初始化存储
	store, err := dao.Open(context.Background(), settings.Conf)
	if err != nil {
		zap.L().Error("init store failed", zap.String("driver", settings.Conf.StoreConfig.Driver), zap.Error(err))
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			zap.L().Error("close store failed", zap.Error(err))
		}
	}()
	zap.L().Info("store init success...", zap.String("driver", settings.Conf.StoreConfig.Driver))

	// 4. 路由注册
	r := routes.Setup(settings.Conf.Mode, store)

	// 5. 启动服务（优雅关机）
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", settings.Conf.Port),
		Handler: r,
	}
	serveErr := make(chan error, 1)
	go func() {
		zap.L().Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// 等待中断信号来优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		zap.L().Error("listen failed", zap.Error(err))
		return err
	case <-quit:
	}

	waitTime := time.Duration(settings.Conf.WaitTime) * time.Second
	zap.L().Info("shutting down server", zap.Duration("wait", waitTime))
	ctx, cancel := context.WithTimeout(context.Background(), waitTime)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("server shutdown failed", zap.Error(err))
		return err
	}

	zap.L().Info("server exited")
	return nil
}
