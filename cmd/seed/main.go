package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"seriespay/internal/config"
	pg "seriespay/internal/infra/db/postgres"
)

// Seeds a demo creator with one series and a few priced seasons so the
// checkout flow can be exercised against a fresh database.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// If a catalog already exists, do nothing.
	var n int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM creators`).Scan(&n); err != nil {
		log.Fatalf("count creators: %v", err)
	}
	if n > 0 {
		fmt.Printf("%d creators already present. No changes.\n", n)
		return
	}

	creatorID := uuid.NewString()
	seriesID := uuid.NewString()
	if _, err := pool.Exec(ctx,
		`INSERT INTO creators (id, email) VALUES ($1, $2)`,
		creatorID, "demo-creator@example.com"); err != nil {
		log.Fatalf("insert creator: %v", err)
	}
	if _, err := pool.Exec(ctx,
		`INSERT INTO series (id, creator_id, title) VALUES ($1, $2, $3)`,
		seriesID, creatorID, "The Midnight Courier"); err != nil {
		log.Fatalf("insert series: %v", err)
	}

	seasons := []struct {
		Title    string
		Price    *int64
		Episodes int
	}{
		{"Season 1", price(499), 12},
		{"Season 2", price(499), 10},
		{"Season 3", price(799), 14},
		{"Season 4 (coming soon)", nil, 0},
	}
	for _, s := range seasons {
		id := uuid.NewString()
		if _, err := pool.Exec(ctx,
			`INSERT INTO seasons (id, series_id, creator_id, title, price, episode_count)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, seriesID, creatorID, s.Title, s.Price, s.Episodes); err != nil {
			log.Fatalf("insert season %q: %v", s.Title, err)
		}
		if s.Price != nil {
			fmt.Printf("seeded: %s (id=%s, price=%d)\n", s.Title, id, *s.Price)
		} else {
			fmt.Printf("seeded: %s (id=%s, unpriced)\n", s.Title, id)
		}
	}

	fmt.Printf("creator=%s series=%s\n", creatorID, seriesID)
	fmt.Println("✅ Seeding complete.")
}

func price(v int64) *int64 { return &v }
