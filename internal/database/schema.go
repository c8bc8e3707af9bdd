package database

import (
	"context"
	"database/sql"
	"fmt"
)

// SeedRecord is one of the fixed sample students written into an empty table.
type SeedRecord struct {
	Name       string
	ClassLabel string
	Score      float64
}

// SeedRecords is inserted once, the first time Initialize finds the table empty.
var SeedRecords = []SeedRecord{
	{Name: "Nguyễn Văn An", ClassLabel: "CTK46", Score: 3.50},
	{Name: "Trần Thị Bình", ClassLabel: "CTK46", Score: 3.80},
	{Name: "Lê Hoàng Cường", ClassLabel: "CTK47", Score: 3.20},
	{Name: "Phạm Thu Dung", ClassLabel: "CTK47", Score: 3.00},
	{Name: "Võ Minh Em", ClassLabel: "CTK48", Score: 3.65},
}

// Initialize creates the students table if absent and seeds it when empty.
// It is safe to call on every start and returns the number of seed rows written.
func (db *DB) Initialize(ctx context.Context) (int, error) {
	seeded := 0
	err := db.WithConn(ctx, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, db.dialect.createStudentsTable); err != nil {
			return fmt.Errorf("create students table: %w", err)
		}

		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin seed: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
			return fmt.Errorf("count students: %w", err)
		}
		if count > 0 {
			return tx.Commit()
		}

		insert := db.dialect.Rebind(`INSERT INTO students (name, class_label, score) VALUES (?, ?, ?)`)
		for _, r := range SeedRecords {
			if _, err := tx.ExecContext(ctx, insert, r.Name, r.ClassLabel, r.Score); err != nil {
				return fmt.Errorf("seed student %q: %w", r.Name, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit seed: %w", err)
		}
		seeded = len(SeedRecords)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if seeded > 0 {
		db.log.Info().Int("count", seeded).Msg("Added sample students")
	}
	return seeded, nil
}
