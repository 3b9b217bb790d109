package sqldb

import (
	"fmt"
	"time"

	"Jaffer/backend/go/internal/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// mysqlDSN 构建 DSN (Data Source Name) 字符串。
func mysqlDSN(cfg config.MySQLConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Username,
		cfg.Password,
		cfg.Address,
		cfg.Database,
	)
}

// openMySQL 使用 GORM 连接到 MySQL 数据库并配置连接池。
func openMySQL(cfg config.MySQLConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(mysqlDSN(cfg)), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("无法连接到 MySQL: %w", err)
	}

	// 获取底层 *sql.DB 实例，以便进行连接池配置。
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("无法获取底层 SQL DB 实例: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	return db, nil
}
