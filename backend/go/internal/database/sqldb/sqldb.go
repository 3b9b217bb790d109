// Package sqldb 打开保存 profile 和 history 表的关系型数据库。
package sqldb

import (
	"context"
	"fmt"

	"Jaffer/backend/go/internal/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open 根据配置的驱动打开数据库。每次调用返回新的连接池，由调用方负责 Close。
func Open(cfg config.DatabaseConfigs) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}
	switch cfg.Driver {
	case "", "sqlite":
		return OpenSQLite(cfg.SQLite.Path, gormCfg)
	case "mysql":
		return openMySQL(cfg.MySQL, gormCfg)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// OpenSQLite 打开 SQLite 数据库文件。
// SQLite 只允许一个写者，连接池被限制为单连接，写操作因此串行执行。
func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("未配置 SQLite 数据库路径")
	}
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	}
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("无法打开 SQLite 数据库 '%s': %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("无法获取底层 SQL DB 实例: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Close 安全地关闭数据库连接。
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 SQL DB 实例失败: %w", err)
	}
	return sqlDB.Close()
}

// HealthCheck 检查数据库连接的健康状况。
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("数据库连接未初始化")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("无法获取底层 SQL DB 实例进行健康检查: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
