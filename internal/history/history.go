// Copyright (c) 2026 Keymaster Team
// aegis-otp - Aegis vault TOTP viewer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package history remembers which entries were viewed so the picker can list
// recently used entries first. Only a hash of each entry's UUID is stored,
// never a name or secret.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/toeirei/aegis-otp/internal/clock"
	"github.com/toeirei/aegis-otp/internal/logging"
	"github.com/toeirei/aegis-otp/internal/vault"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrUnsupportedBackend is returned by Open for unknown database types.
var ErrUnsupportedBackend = errors.New("history: unsupported database type")

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

type viewRow struct {
	bun.BaseModel `bun:"table:views"`

	EntryID    string    `bun:"entry_id,pk"`
	Hits       int       `bun:"hits,notnull"`
	LastViewed time.Time `bun:"last_viewed,notnull"`
}

// Store is a view history backed by SQLite, PostgreSQL or MySQL.
type Store struct {
	db    *bun.DB
	clock clock.Clocker
}

// Open connects to the history database, creating the schema if needed.
// dbType is one of "sqlite", "postgres" or "mysql".
func Open(ctx context.Context, dbType, dsn string, c clock.Clocker) (*Store, error) {
	driverName := dbType
	switch dbType {
	case "sqlite":
		if dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o700); err != nil {
				return nil, fmt.Errorf("create history directory: %w", err)
			}
		}
	case "postgres":
		// The pgx stdlib registers driver name "pgx".
		driverName = "pgx"
	case "mysql":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, dbType)
	}

	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if dbType == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	}

	db := createBunDB(sqlDB, dbType)
	if _, err := db.NewCreateTable().Model((*viewRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}
	if c == nil {
		c = clock.New()
	}
	logging.Debugf("history: opened %s store", dbType)
	return &Store{db: db, clock: c}, nil
}

func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EntryID is the key an entry is stored under: the SHA-256 of its UUID, or
// of issuer and name for entries without one.
func EntryID(e vault.Entry) string {
	key := e.UUID.String()
	if e.UUID == uuid.Nil {
		key = e.Issuer + "\x00" + e.Name
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Record counts one view of entry.
func (s *Store) Record(ctx context.Context, entry vault.Entry) error {
	id := EntryID(entry)
	now := s.clock.Now().UTC()
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var row viewRow
		err := tx.NewSelect().Model(&row).Where("entry_id = ?", id).Scan(ctx)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			row = viewRow{EntryID: id, Hits: 1, LastViewed: now}
			_, err = tx.NewInsert().Model(&row).Exec(ctx)
			return err
		case err != nil:
			return err
		}
		row.Hits++
		row.LastViewed = now
		_, err = tx.NewUpdate().Model(&row).WherePK().Exec(ctx)
		return err
	})
}

// Hits returns how often entry was viewed.
func (s *Store) Hits(ctx context.Context, entry vault.Entry) (int, error) {
	var row viewRow
	err := s.db.NewSelect().Model(&row).Where("entry_id = ?", EntryID(entry)).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return row.Hits, err
}

// Order returns entries with the most recently viewed first. Entries never
// viewed keep their relative order after those.
func (s *Store) Order(ctx context.Context, entries []vault.Entry) ([]vault.Entry, error) {
	var rows []viewRow
	if err := s.db.NewSelect().Model(&rows).Scan(ctx); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	last := lo.SliceToMap(rows, func(r viewRow) (string, time.Time) {
		return r.EntryID, r.LastViewed
	})

	out := make([]vault.Entry, len(entries))
	copy(out, entries)
	ids := lo.Map(out, func(e vault.Entry, _ int) string { return EntryID(e) })
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ta, aok := last[ids[idx[a]]]
		tb, bok := last[ids[idx[b]]]
		switch {
		case aok && bok:
			return ta.After(tb)
		default:
			return aok && !bok
		}
	})
	return lo.Map(idx, func(i int, _ int) vault.Entry { return out[i] }), nil
}
