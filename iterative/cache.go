package iterative

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// bestCache persists the best (lowest-distance) match seen so far for each
// reference id across every page pair, so a later page pair that reproduces
// a worse match for an already-resolved ref never overwrites the better one,
// and the whole cross-product never needs to be held in memory at once.
type bestCache struct {
	db *sql.DB
}

func openBestCache(path string) (*bestCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	const schema = `CREATE TABLE IF NOT EXISTS best_matches (
		ref_id TEXT PRIMARY KEY,
		target_id TEXT NOT NULL,
		distance REAL NOT NULL,
		done INTEGER NOT NULL DEFAULT 0
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &bestCache{db: db}, nil
}

func (c *bestCache) Close() error {
	return c.db.Close()
}

// Offer records (targetID, distance) as refID's best match if it improves on
// (or introduces) the existing entry.
func (c *bestCache) Offer(refID, targetID string, distance float64) error {
	var existing float64
	err := c.db.QueryRow(`SELECT distance FROM best_matches WHERE ref_id = ?`, refID).Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		_, err = c.db.Exec(`INSERT INTO best_matches (ref_id, target_id, distance) VALUES (?, ?, ?)`, refID, targetID, distance)
		return err
	case err != nil:
		return err
	case distance < existing:
		_, err = c.db.Exec(`UPDATE best_matches SET target_id = ?, distance = ? WHERE ref_id = ?`, targetID, distance, refID)
		return err
	default:
		return nil
	}
}

// MarkDone flags refID as settled: its best match is close enough (at or
// below the equality threshold) that no later page pair needs to
// re-evaluate it.
func (c *bestCache) MarkDone(refID string) error {
	_, err := c.db.Exec(`UPDATE best_matches SET done = 1 WHERE ref_id = ?`, refID)
	return err
}

// IsDone reports whether refID has already been settled.
func (c *bestCache) IsDone(refID string) (bool, error) {
	var done int
	err := c.db.QueryRow(`SELECT done FROM best_matches WHERE ref_id = ?`, refID).Scan(&done)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return done == 1, nil
}

// Entry is one row of the final best-match table.
type Entry struct {
	RefID    string
	TargetID string
	Distance float64
}

// All returns every recorded best match, for final result assembly.
func (c *bestCache) All() ([]Entry, error) {
	rows, err := c.db.Query(`SELECT ref_id, target_id, distance FROM best_matches`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.RefID, &e.TargetID, &e.Distance); err != nil {
			return nil, fmt.Errorf("iterative: scanning best_matches row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
