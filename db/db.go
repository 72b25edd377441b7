package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"

	"promofeed/amd"
)

// Snapshot is one observation of a promotion's key availability at a point
// in time. The series of snapshots tracks how quickly giveaways run out.
type Snapshot struct {
	RecordedAt    time.Time
	PromotionID   string
	Title         string
	Slug          string
	KeysAvailable int
	Status        string
}

// DB handles all snapshot store operations with a shared connection pool
type DB struct {
	db *sql.DB
}

func NewDB(path string) (*DB, error) {
	db, err := connection(path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return &DB{db: db}, nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

// RecordPromotions inserts one snapshot row per promotion with the given
// observation time. Rows that already exist for the same time and promotion
// are skipped, so re-running a backfill is idempotent.
func (db *DB) RecordPromotions(ctx context.Context, recordedAt time.Time, promotions []*amd.Promotion) error {
	if len(promotions) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	log.WithFields(log.Fields{
		"recorded_at": recordedAt.UTC().Format(time.RFC3339),
		"count":       len(promotions),
	}).Info("Recording availability snapshots")

	insert := sqlbuilder.SQLite.NewInsertBuilder()
	insert.InsertIgnoreInto("snapshots").Cols("recorded_at", "promotion_id", "title", "slug", "keys_available", "status")
	for _, promo := range promotions {
		insert.Values(recordedAt.UTC().Format(time.RFC3339), promo.ID, promo.Title, promo.Slug, promo.KeysAvailable, promo.Status)
	}
	query, args := insert.Build()

	if _, err := db.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert error: %w", err)
	}

	return nil
}

// ListSnapshots returns the whole availability series, oldest first.
func (db *DB) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select("recorded_at", "promotion_id", "title", "slug", "keys_available", "status").
		From("snapshots").
		OrderBy("recorded_at ASC", "promotion_id ASC")
	query, args := sb.Build()

	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var snapshot Snapshot
		var recordedAt string
		if err := rows.Scan(&recordedAt, &snapshot.PromotionID, &snapshot.Title, &snapshot.Slug, &snapshot.KeysAvailable, &snapshot.Status); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		snapshot.RecordedAt, err = time.Parse(time.RFC3339, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing recorded_at %q: %w", recordedAt, err)
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}
