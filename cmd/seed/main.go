package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"bookstore/internal/book"
	"bookstore/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repo := book.NewPostgresRepo(pool, cfg.DBTimeout)

	inserted, skipped, err := seedBooks(ctx, repo, book.NewValidator(), sampleBooks())
	if err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	log.Printf("Seed complete: inserted=%d skipped=%d", inserted, skipped)
}

// seedBooks validates and inserts every payload, counting isbns that already exist as skipped.
func seedBooks(ctx context.Context, repo book.Repository, v *book.Validator, payloads []map[string]any) (inserted, skipped int, err error) {
	for _, payload := range payloads {
		b, msgs := v.Validate(payload, book.ModeCreate)
		if len(msgs) > 0 {
			return inserted, skipped, fmt.Errorf("invalid sample book %v: %v", payload["isbn"], msgs)
		}
		if _, err := repo.Insert(ctx, b); err != nil {
			if errors.Is(err, book.ErrDuplicateISBN) {
				skipped++
				continue
			}
			return inserted, skipped, fmt.Errorf("insert %s: %w", b.ISBN, err)
		}
		inserted++
	}
	return inserted, skipped, nil
}

func sampleBooks() []map[string]any {
	return []map[string]any{
		{
			"isbn":       "1673303056",
			"amazon_url": "https://www.amazon.com/Heart-Darkness-Joseph-Conrad",
			"author":     "Joseph Conrad",
			"language":   "English",
			"pages":      106,
			"publisher":  "Penguin",
			"title":      "Heart of Darkness",
			"year":       2019,
		},
		{
			"isbn":       "0393307050",
			"amazon_url": "https://www.amazon.com/Master-And-Commander",
			"author":     "Patrick O'Brian",
			"language":   "english",
			"pages":      400,
			"publisher":  "W. W. Norton & Company",
			"title":      "Master and Commander",
			"year":       2021,
		},
		{
			"isbn":       "0393308057",
			"amazon_url": "https://www.amazon.com/Post-Captain",
			"author":     "Patrick O'Brian",
			"language":   "english",
			"pages":      496,
			"publisher":  "W. W. Norton & Company",
			"title":      "Post Captain",
			"year":       1990,
		},
		{
			"isbn":       "0393309614",
			"amazon_url": "https://www.amazon.com/HMS-Surprise",
			"author":     "Patrick O'Brian",
			"language":   "english",
			"pages":      384,
			"publisher":  "W. W. Norton & Company",
			"title":      "HMS Surprise",
			"year":       1991,
		},
	}
}
