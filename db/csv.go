package db

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

var csvHeader = []string{"timestamp", "promotion_id", "title", "slug", "keys_available", "status"}

// ExportCSV writes the full availability series to a CSV file, one row per
// snapshot, oldest first. The file is rewritten on every export so it always
// reflects the store.
func (db *DB) ExportCSV(ctx context.Context, path string) error {
	snapshots, err := db.ListSnapshots(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, snapshot := range snapshots {
		row := []string{
			snapshot.RecordedAt.UTC().Format(time.RFC3339),
			snapshot.PromotionID,
			snapshot.Title,
			snapshot.Slug,
			strconv.Itoa(snapshot.KeysAvailable),
			snapshot.Status,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}

	log.WithFields(log.Fields{
		"path": path,
		"rows": len(snapshots),
	}).Info("Exported availability series")

	return nil
}
