// Package migrations применяет SQL-миграции через golang-migrate.
package migrations

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"applyAgent/internal/config"
)

// Run применяет все неприменённые миграции. Отсутствие новых миграций
// ошибкой не считается.
func Run(cfg *config.Cfg, log *zap.Logger) error {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Database.User, cfg.Database.Password,
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	m, err := migrate.New(cfg.Migrations.Path, dsn)
	if err != nil {
		return fmt.Errorf("ошибка инициализации миграций: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("новых миграций нет")
			return nil
		}
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}

	log.Info("миграции применены")
	return nil
}
