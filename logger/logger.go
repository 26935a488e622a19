/**
  @Go version: 1.19
  @project: booksProject
  @ide: GoLand
  @file: logger.go
  @author: Lido
  @time: 2026-10-19 10:40
  @description: zap日志库初始化以及gin的日志、recovery中间件
*/
package logger

import (
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"booksProject/settings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const RequestIDHeader = "X-Request-ID"

// 日志级别可以在运行时修改
var level = zap.NewAtomicLevel()

//
// @Title Init
// @Description 初始化zap日志库，替换全局logger
// @Param cfg 日志配置
// @Param mode dev模式下同时输出到终端
//
func Init(cfg *settings.LogConfig, mode string) (err error) {
	if err = SetLevel(cfg.Level); err != nil {
		return err
	}

	var cores []zapcore.Core
	if cfg.Filename != "" {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(getEncoderConfig()), getLogWriter(cfg), level))
	}
	if mode == "dev" || len(cores) == 0 {
		cores = append(cores, zapcore.NewCore(getEncoder(mode), zapcore.Lock(os.Stdout), level))
	}

	// zap.AddCaller() 记录调用函数的信息
	lg := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	zap.ReplaceGlobals(lg)
	return nil
}

// SetLevel 修改全局日志级别，空字符串按 info 处理
func SetLevel(text string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(text)); err != nil {
		return err
	}
	level.SetLevel(l)
	return nil
}

func getEncoderConfig() zapcore.EncoderConfig {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeDuration = zapcore.SecondsDurationEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return encoderConfig
}

func getEncoder(mode string) zapcore.Encoder {
	if mode == "dev" {
		// 输出到终端的格式
		encoderConfig := getEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	// 按照json格式编码格式
	return zapcore.NewJSONEncoder(getEncoderConfig())
}

func getLogWriter(cfg *settings.LogConfig) zapcore.WriteSyncer {
	lumberJackLogger := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,    // M
		MaxBackups: cfg.MaxBackups, // 最大备份数量
		MaxAge:     cfg.MaxAge,     // 最大备份天数
		Compress:   false,
	}
	return zapcore.AddSync(lumberJackLogger)
}

//
// @Title GinLogger
// @Description 接收gin框架默认的日志，并给每个请求带上 request id
// @Return gin.HandlerFunc
//
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		c.Next()

		cost := time.Since(start)
		zap.L().Info(path,
			zap.String("request_id", requestID),
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
			zap.Duration("cost", cost),
		)
	}
}

//
// @Title GinRecovery
// @Description recover掉项目可能出现的panic，并使用zap记录相关日志
// @Param stack 是否记录堆栈
// @Return gin.HandlerFunc
//
func GinRecovery(stack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// Check for a broken connection, as it is not really a
				// condition that warrants a panic stack trace.
				var brokenPipe bool
				if ne, ok := err.(*net.OpError); ok {
					if se, ok := ne.Err.(*os.SyscallError); ok {
						msg := strings.ToLower(se.Error())
						if strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer") {
							brokenPipe = true
						}
					}
				}

				httpRequest, _ := httputil.DumpRequest(c.Request, false)
				if brokenPipe {
					zap.L().Error(c.Request.URL.Path,
						zap.Any("error", err),
						zap.String("request", string(httpRequest)),
					)
					// If the connection is dead, we can't write a status to it.
					c.Error(err.(error)) // nolint: errcheck
					c.Abort()
					return
				}

				fields := []zap.Field{
					zap.Any("error", err),
					zap.String("request", string(httpRequest)),
				}
				if stack {
					fields = append(fields, zap.String("stack", string(debug.Stack())))
				}
				zap.L().Error("[Recovery from panic]", fields...)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
