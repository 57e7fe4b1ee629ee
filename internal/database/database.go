package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"applyAgent/internal/config"
)

// DB оборачивает gorm-подключение.
type DB struct {
	DB *gorm.DB
}

func New(cfg *config.Cfg, log *zap.Logger) (*DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.User, cfg.Database.Password, cfg.Database.Name)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{PrepareStmt: true})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к PostgreSQL: %w", err)
	}

	log.Info("подключение к БД установлено",
		zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))
	return &DB{DB: db}, nil
}

func (d *DB) Close(log *zap.Logger) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		log.Warn("не удалось получить соединение для закрытия", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("ошибка закрытия подключения к БД", zap.Error(err))
	}
}
