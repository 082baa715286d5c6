// Package database 负责初始化 MySQL 与 Redis 连接。
package database

import (
	"time"

	"portfolio-cms/pkg/log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitMySQL 初始化 MySQL 数据库连接并返回 *gorm.DB。
func InitMySQL(dsn string) *gorm.DB {
	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		// 将驱动错误翻译为 gorm.ErrDuplicatedKey 等通用错误
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("failed to connect database", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("MySQL database connected successfully")
	return DB
}
