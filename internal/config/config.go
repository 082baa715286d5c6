// Package config 负责加载和管理应用程序的配置。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// envPrefix 环境变量前缀，例如 CMS_DATABASE_MYSQL_DSN 覆盖 database.mysql.dsn。
const envPrefix = "CMS"

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Log           LogConfig           `mapstructure:"log"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Upload        UploadConfig        `mapstructure:"upload"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Setup         SetupConfig         `mapstructure:"setup"`
	Site          SiteConfig          `mapstructure:"site"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port               string   `mapstructure:"port"`
	Mode               string   `mapstructure:"mode"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig 存储 JWT 相关的配置。
type JWTConfig struct {
	Secret                   string `mapstructure:"secret"`
	AccessTokenExpireMinutes int    `mapstructure:"access_token_expire_minutes"`
	RefreshTokenExpireDays   int    `mapstructure:"refresh_token_expire_days"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// CacheConfig 响应缓存配置。Driver 为 redis 或 memory。
type CacheConfig struct {
	Driver            string `mapstructure:"driver"`
	DefaultTTLSeconds int    `mapstructure:"default_ttl_seconds"`
	Capacity          int    `mapstructure:"capacity"`
	Shards            int    `mapstructure:"shards"`
}

// StorageConfig 文件存储配置。Driver 为 local、minio 或 s3。
type StorageConfig struct {
	Driver string             `mapstructure:"driver"`
	Local  LocalStorageConfig `mapstructure:"local"`
	MinIO  MinIOConfig        `mapstructure:"minio"`
	S3     S3Config           `mapstructure:"s3"`
}

// LocalStorageConfig 本地磁盘存储配置。
type LocalStorageConfig struct {
	Dir          string `mapstructure:"dir"`
	PublicPrefix string `mapstructure:"public_prefix"`
}

// MinIOConfig 存储 MinIO 对象存储的配置。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// S3Config 存储 AWS S3 的配置。
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// UploadConfig 上传大小限制（MB）。
type UploadConfig struct {
	MaxImageSizeMB int `mapstructure:"max_image_size_mb"`
	MaxPDFSizeMB   int `mapstructure:"max_pdf_size_mb"`
}

// KafkaConfig 存储 Kafka 相关的配置。
type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// ElasticsearchConfig 存储 Elasticsearch 相关的配置。
type ElasticsearchConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addresses string `mapstructure:"addresses"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	IndexName string `mapstructure:"index_name"`
}

// SetupConfig 初始化用户所需的一次性令牌。
type SetupConfig struct {
	InitUsersToken string `mapstructure:"init_users_token"`
}

// SiteConfig 站点地址与 sitemap 刷新周期。
type SiteConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	SitemapRefresh string `mapstructure:"sitemap_refresh"`
}

// Init 从指定的路径读取 YAML 文件并解析到 Conf 变量中。
// 读取前先加载 .env（若存在），随后环境变量可覆盖任意配置项。
func Init(configPath string) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Errorf("读取 .env 文件失败: %w", err))
	}

	conf, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	Conf = conf
}

// Load 读取配置文件并返回解析结果，不修改全局变量。
func Load(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var conf Config
	if err := v.ReadInConfig(); err != nil {
		return conf, fmt.Errorf("读取配置文件失败: %w", err)
	}
	if err := v.Unmarshal(&conf); err != nil {
		return conf, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	return conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("jwt.access_token_expire_minutes", 30)
	v.SetDefault("jwt.refresh_token_expire_days", 7)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("cache.driver", "redis")
	v.SetDefault("cache.default_ttl_seconds", 60)
	v.SetDefault("cache.capacity", 10000)
	v.SetDefault("cache.shards", 10)
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.dir", "./uploads")
	v.SetDefault("storage.local.public_prefix", "/uploads")
	v.SetDefault("upload.max_image_size_mb", 5)
	v.SetDefault("upload.max_pdf_size_mb", 10)
	v.SetDefault("kafka.group_id", "portfolio-cms-consumer")
	v.SetDefault("elasticsearch.index_name", "articles")
	v.SetDefault("site.sitemap_refresh", "@every 30m")

	// 仅通过环境变量提供的键也需要在 viper 中注册，否则 Unmarshal 不会读取
	for _, key := range []string{
		"database.mysql.dsn", "database.redis.addr", "database.redis.password",
		"jwt.secret", "setup.init_users_token", "site.base_url",
		"storage.minio.endpoint", "storage.minio.access_key_id", "storage.minio.secret_access_key", "storage.minio.bucket_name",
		"storage.s3.bucket", "storage.s3.region", "storage.s3.access_key_id", "storage.s3.secret_access_key",
		"kafka.brokers", "kafka.topic",
		"elasticsearch.addresses", "elasticsearch.username", "elasticsearch.password",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("storage.minio.use_ssl", false)
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("elasticsearch.enabled", false)
}
