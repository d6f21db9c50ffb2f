package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awesome-restaurant/restaurant-api/internal/infrastructure/db/mongo"
	"github.com/awesome-restaurant/restaurant-api/internal/pkg/config"
	"github.com/awesome-restaurant/restaurant-api/pkg/logger"
)

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func ensureIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create the MongoDB indexes the API relies on",
		Long: `Creates, if missing:
- a unique index on users.email
- an owner index on carts.email
- a payment history index on payments (email, date desc)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "restaurant-api"})

			client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			targets := map[string]indexer{
				"users":    mongo.NewUserRepository(db),
				"carts":    mongo.NewCartRepository(db),
				"payments": mongo.NewPaymentRepository(client, db, cfg.Mongo.Transactions),
			}
			for name, repo := range targets {
				if err := repo.EnsureIndexes(ctx); err != nil {
					return fmt.Errorf("ensure %s indexes: %w", name, err)
				}
				log.Info().Str("collection", name).Msg("indexes ensured")
			}
			return nil
		},
	}
}
