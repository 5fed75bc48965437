package postgres

import (
	"log"
	"log/slog"

	"github.com/LavaJover/shvark-escrow-service/internal/config"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/migrate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MustInitDB opens the escrow database and brings its schema up to date.
func MustInitDB(cfg *config.EscrowConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.EscrowDB.Dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	if err := migrate.RunMigrations(cfg.EscrowDB.Dsn, cfg.Migrations.Path); err != nil {
		log.Fatalf("failed to apply migrations: %v\n", err)
	}
	slog.Info("escrow database ready", "migrations", cfg.Migrations.Path)

	return db
}
