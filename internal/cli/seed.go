package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"coges-quiz-app/internal/config"
	"coges-quiz-app/internal/domain"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// NewSeedCmd loads a JSON file of tests into the tests collection. Tests are
// created out of band; the HTTP surface only reads them.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <tests.json>",
		Short: "Seed the tests collection from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cfg, args[0])
		},
	}
}

func runSeed(ctx context.Context, cfg config.Config, path string) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var tests []domain.Test
	if err := json.Unmarshal(raw, &tests); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	for _, test := range tests {
		if test.ID == "" {
			test.ID = uuid.NewString()
		}
		data, err := json.Marshal(test)
		if err != nil {
			return fmt.Errorf("marshal test %q: %w", test.Title, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO tests (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`,
			test.ID, string(data)); err != nil {
			return fmt.Errorf("insert test %q: %w", test.Title, err)
		}
		log.Printf("seeded test %s (%s)", test.ID, test.Title)
	}
	log.Printf("seeded %d tests", len(tests))
	return nil
}
