/**
  @Go version: 1.19
  @project: booksProject
  @ide: GoLand
  @file: settings.go
  @author: Lido
  @time: 2026-10-19 10:12
  @description: 配置文件和环境变量的读取
*/
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

var ErrMissingMongoURL = errors.New("no mongo url found")

// Conf 全局变量，用来保存程序的所有配置信息
var Conf = new(AppConfig)

// 配置文件是否真的读到了，没读到就不监听
var fileLoaded bool

type AppConfig struct {
	Name         string `mapstructure:"name"`
	Mode         string `mapstructure:"mode"`
	Version      string `mapstructure:"version"`
	Port         int    `mapstructure:"port"`
	WaitTime     int    `mapstructure:"wait_time"`
	*LogConfig   `mapstructure:"log"`
	*StoreConfig `mapstructure:"store"`
	*MongoConfig `mapstructure:"mongo"`
	*MySQLConfig `mapstructure:"mysql"`
	*RedisConfig `mapstructure:"redis"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

type MongoConfig struct {
	URL            string `mapstructure:"url"`
	Database       string `mapstructure:"database"`
	Collection     string `mapstructure:"collection"`
	ConnectTimeout int    `mapstructure:"connect_timeout"`
}

type MySQLConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

func Init(configFileName string) (err error) {
	viper.Reset()
	fileLoaded = false

	setDefaults()
	if err = bindEnvs(); err != nil {
		return err
	}

	// 配置文件可以没有，地址之类的可以全部走环境变量
	if configFileName != "" {
		viper.SetConfigFile(configFileName)
		if err = viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("read config file %s: %w", configFileName, err)
			}
		} else {
			fileLoaded = true
		}
	}

	// 把读取到的配置信息反序列化到 Conf 变量中
	conf := new(AppConfig)
	if err = viper.Unmarshal(conf); err != nil {
		return fmt.Errorf("viper.Unmarshal failed: %w", err)
	}
	Conf = conf
	return nil
}

// Watch 监听配置文件，修改后重新加载到全局 Conf 并回调
func Watch(onChange func(conf *AppConfig)) {
	if !fileLoaded {
		return
	}

	viper.OnConfigChange(func(in fsnotify.Event) {
		zap.L().Info("config file changed, reloading", zap.String("file", in.Name))
		conf := new(AppConfig)
		if err := viper.Unmarshal(conf); err != nil {
			zap.L().Error("viper.Unmarshal failed", zap.Error(err))
			return
		}
		Conf = conf
		if onChange != nil {
			onChange(conf)
		}
	})
	viper.WatchConfig()
}

// Validate 检查启动必须的配置，当前选用的存储地址不能为空
func (c *AppConfig) Validate() error {
	switch c.StoreConfig.Driver {
	case DriverMongo:
		if c.MongoConfig.URL == "" {
			return ErrMissingMongoURL
		}
	case DriverMySQL:
		if c.MySQLConfig.DSN == "" {
			return errors.New("no mysql dsn found")
		}
	case DriverRedis:
		if c.RedisConfig.Addr == "" {
			return errors.New("no redis addr found")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreConfig.Driver)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("name", "booksProject")
	viper.SetDefault("mode", "dev")
	viper.SetDefault("version", "v0.1.0")
	viper.SetDefault("port", 4000)
	viper.SetDefault("wait_time", 5)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.filename", "")
	viper.SetDefault("log.max_size", 200)
	viper.SetDefault("log.max_age", 30)
	viper.SetDefault("log.max_backups", 7)

	viper.SetDefault("store.driver", DriverMongo)

	viper.SetDefault("mongo.url", "")
	viper.SetDefault("mongo.database", "library")
	viper.SetDefault("mongo.collection", "books")
	viper.SetDefault("mongo.connect_timeout", 30)

	viper.SetDefault("mysql.dsn", "")
	viper.SetDefault("mysql.max_open_conns", 20)
	viper.SetDefault("mysql.max_idle_conns", 10)

	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 20)
}

func bindEnvs() error {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	envs := map[string]string{
		"mongo.url":    "MONGO_URL",
		"store.driver": "STORE_DRIVER",
		"mysql.dsn":    "MYSQL_DSN",
		"redis.addr":   "REDIS_ADDR",
		"port":         "PORT",
		"mode":         "MODE",
		"log.level":    "LOG_LEVEL",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}
