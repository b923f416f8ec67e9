package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lijamez/tonbot-plugin-trivia/internal/domain"
)

// PackStore keeps trivia packs in a local SQLite file for standalone play,
// with no Postgres or Redis around.
type PackStore struct {
	db *sql.DB
}

func NewPackStore(path string) (*PackStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "trivia.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &PackStore{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *PackStore) Close() error {
	return s.db.Close()
}

func (s *PackStore) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS packs (
		name TEXT PRIMARY KEY,
		data TEXT NOT NULL
	);`)
	return err
}

// SavePack installs or replaces a pack under its metadata name.
func (s *PackStore) SavePack(ctx context.Context, pack domain.Pack) error {
	if strings.TrimSpace(pack.Metadata.Name) == "" {
		return errors.New("pack name is required")
	}
	data, err := json.Marshal(pack)
	if err != nil {
		return fmt.Errorf("marshal pack: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO packs (name, data) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data`,
		pack.Metadata.Name, string(data))
	return err
}

func (s *PackStore) LoadPack(ctx context.Context, name string) (domain.Pack, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM packs WHERE name = ?`, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Pack{}, domain.ErrPackNotFound
	}
	if err != nil {
		return domain.Pack{}, fmt.Errorf("load pack: %w", err)
	}
	var pack domain.Pack
	if err := json.Unmarshal([]byte(raw), &pack); err != nil {
		return domain.Pack{}, fmt.Errorf("unmarshal pack: %w", err)
	}
	return pack, nil
}

func (s *PackStore) ListPacks(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM packs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list packs: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan pack name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
