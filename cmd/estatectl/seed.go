package main

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	redisad "real_estate/internal/adapters/redis"
	"real_estate/internal/app"
	"real_estate/internal/domain"
	"real_estate/internal/shared"
	mysqlrepo "real_estate/internal/storage/mysql"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

type propertyCreator interface {
	Create(ctx context.Context, p domain.Property) (domain.Property, error)
}

func loadFixtures() ([]domain.Property, error) {
	b, err := fixtureFS.ReadFile("fixtures/properties.json")
	if err != nil {
		return nil, err
	}
	var out []domain.Property
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return out, nil
}

// seedProperties creates every fixture with at most workers in flight.
func seedProperties(ctx context.Context, svc propertyCreator, props []domain.Property, workers int) (created, failed int64) {
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for _, p := range props {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("seeding interrupted")
			break
		}
		wg.Add(1)
		go func(p domain.Property) {
			defer wg.Done()
			defer sem.Release(1)

			out, err := svc.Create(ctx, p)
			if err != nil {
				atomic.AddInt64(&failed, 1)
				log.Warn().Str("title", p.Title).Err(err).Msg("seed failed")
				return
			}
			atomic.AddInt64(&created, 1)
			log.Debug().Str("id", out.ID).Str("title", out.Title).Msg("seeded")
		}(p)
	}
	wg.Wait()
	return created, failed
}

func seedCmd(cfg shared.Config) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample properties into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := mysqlrepo.New(db)
			n, err := repo.CountProperties(ctx, domain.PropertyCount{})
			if err != nil {
				return fmt.Errorf("count properties: %w", err)
			}
			if n > 0 && !force {
				fmt.Fprintf(cmd.OutOrStdout(), "database already has %d properties, skipping (use --force)\n", n)
				return nil
			}

			props, err := loadFixtures()
			if err != nil {
				return err
			}
			var cache domain.Cache = redisad.Nop{}
			if cfg.RedisAddr != "" {
				cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
			}
			log.Info().Int("fixtures", len(props)).Int("workers", cfg.SeedWorkers).Msg("seeding starting")

			created, failed := seedProperties(ctx, app.NewPropertyService(repo, cache), props, cfg.SeedWorkers)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d properties, %d failed\n", created, failed)
			if failed > 0 {
				return fmt.Errorf("%d fixtures failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "seed even when properties already exist")
	return cmd
}
