// Package postgres persists workspace snapshots as jsonb documents,
// one row per workspace. The wholesale read-modify-write model keeps
// the storage semantics identical to the in-memory store, so the two
// are interchangeable behind the Repository interface.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"retaildesk/backend/internal/domain"
	"retaildesk/backend/internal/store"
)

type Store struct {
	db          *sql.DB
	workspaceID string
}

func New(ctx context.Context, databaseURL string, workspaceID string) (*Store, error) {
	if workspaceID == "" {
		return nil, store.ErrInvalidInput
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(16)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db, workspaceID: workspaceID}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS workspace_snapshots (
			workspace_id TEXT PRIMARY KEY,
			doc          JSONB NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (s *Store) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT doc FROM workspace_snapshots WHERE workspace_id = $1
	`, s.workspaceID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoProfile
		}
		return nil, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Printf("[postgres-store] WARN: snapshot for %q is corrupt: %v", s.workspaceID, err)
		return nil, store.ErrSnapshotCorrupt
	}
	if snap.Profile == nil {
		log.Printf("[postgres-store] WARN: snapshot for %q has no profile", s.workspaceID)
		return nil, store.ErrSnapshotCorrupt
	}
	return &snap, nil
}

func (s *Store) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	if snap.Profile == nil {
		return store.ErrInvalidInput
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workspace_snapshots (workspace_id, doc, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (workspace_id)
		DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
	`, s.workspaceID, raw)
	return err
}

func (s *Store) ResetSnapshot(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM workspace_snapshots WHERE workspace_id = $1
	`, s.workspaceID)
	return err
}
