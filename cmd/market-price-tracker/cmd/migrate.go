package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/market-price-tracker/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	RunE:  runMigrate,
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	repo, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.DSN(), log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer repo.Close()

	m, ok := repo.(store.Migrator)
	if !ok {
		log.Info("driver has no schema, nothing to migrate", "driver", cfg.Database.Driver)
		return nil
	}

	log.Info("running migrations", "driver", cfg.Database.Driver)
	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("migrations complete")
	return nil
}
