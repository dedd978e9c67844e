package mapstore

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/Garsondee/tilearena/internal/game"
)

// Postgres keeps layers in two tables, one row per key with the codes as JSONB.
type Postgres struct {
	db *sql.DB
}

// NewPostgres connects and creates the tables if they are missing.
func NewPostgres(connectionString string) (*Postgres, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Postgres{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Postgres) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS map_tiles (
		key TEXT PRIMARY KEY,
		cols INTEGER NOT NULL,
		rows INTEGER NOT NULL,
		tiles JSONB NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS map_overlays (
		key TEXT PRIMARY KEY,
		cols INTEGER NOT NULL,
		rows INTEGER NOT NULL,
		markers JSONB NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Records reads every tile row, then every overlay row, each ordered by key.
func (s *Postgres) Records() ([]game.MapRecord, error) {
	tiles, err := s.scan(`SELECT key, tiles FROM map_tiles ORDER BY key`, func(doc *mapDocument) *[][]string { return &doc.Tiles })
	if err != nil {
		return nil, err
	}
	overlays, err := s.scan(`SELECT key, markers FROM map_overlays ORDER BY key`, func(doc *mapDocument) *[][]string { return &doc.Markers })
	if err != nil {
		return nil, err
	}
	return append(tiles, overlays...), nil
}

func (s *Postgres) scan(query string, field func(*mapDocument) *[][]string) ([]game.MapRecord, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query maps: %w", err)
	}
	defer rows.Close()

	var recs []game.MapRecord
	for rows.Next() {
		var key, payload string
		if err := rows.Scan(&key, &payload); err != nil {
			return nil, fmt.Errorf("scan map row: %w", err)
		}
		var doc mapDocument
		if err := json.Unmarshal([]byte(payload), field(&doc)); err != nil {
			recs = append(recs, game.MapRecord{Key: key, Err: decodeFailed(key, err)})
			continue
		}
		recs = append(recs, doc.record(key))
	}
	return recs, rows.Err()
}

// SaveTiles upserts g under key.
func (s *Postgres) SaveTiles(key string, g *game.TileGrid) error {
	if _, err := kindOf(key); err != nil {
		return err
	}
	payload, err := json.Marshal(tileCodes(g))
	if err != nil {
		return err
	}
	query := `
	INSERT INTO map_tiles (key, cols, rows, tiles)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (key)
	DO UPDATE SET cols = $2, rows = $3, tiles = $4, updated_at = NOW()
	`
	if _, err := s.db.Exec(query, key, g.Cols, g.Rows, string(payload)); err != nil {
		return fmt.Errorf("save tiles %s: %w", key, err)
	}
	return nil
}

// SaveOverlay upserts o under key.
func (s *Postgres) SaveOverlay(key string, o *game.OverlayGrid) error {
	if _, err := kindOf(key); err != nil {
		return err
	}
	payload, err := json.Marshal(markerCodes(o))
	if err != nil {
		return err
	}
	query := `
	INSERT INTO map_overlays (key, cols, rows, markers)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (key)
	DO UPDATE SET cols = $2, rows = $3, markers = $4, updated_at = NOW()
	`
	if _, err := s.db.Exec(query, key, o.Cols, o.Rows, string(payload)); err != nil {
		return fmt.Errorf("save overlay %s: %w", key, err)
	}
	return nil
}

// Delete removes key from the table of its kind.
func (s *Postgres) Delete(key string) error {
	kind, err := kindOf(key)
	if err != nil {
		return err
	}
	query := `DELETE FROM map_tiles WHERE key = $1`
	if kind == game.RecordOverlay {
		query = `DELETE FROM map_overlays WHERE key = $1`
	}
	res, err := s.db.Exec(query, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return nil
}

// Close closes the connection pool.
func (s *Postgres) Close() error {
	return s.db.Close()
}
