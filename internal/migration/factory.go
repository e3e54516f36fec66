package migration

import (
	"fmt"

	"github.com/BaSui01/formflow/config"
	"github.com/BaSui01/formflow/internal/database"
	"go.uber.org/zap"
)

// NewMigratorFromConfig 按数据库配置打开专用连接并创建迁移器
func NewMigratorFromConfig(cfg config.DatabaseConfig, logger *zap.Logger) (*DefaultMigrator, error) {
	driver, dsn, err := cfg.Dialect()
	if err != nil {
		return nil, err
	}
	dbType, err := ParseDatabaseType(driver)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(driver, dsn, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	m, err := NewMigrator(sqlDB, dbType, logger)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return m, nil
}
