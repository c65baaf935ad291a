package store

import (
	"context"
	"errors"

	"retaildesk/backend/internal/domain"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNoProfile       = errors.New("no business profile")
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
)

// Repository persists the workspace as one wholesale snapshot. The
// service layer mutates a copy and saves the whole document back, so
// the store never needs per-entity operations.
//
// LoadSnapshot returns ErrNoProfile when the workspace has never been
// onboarded (or was reset), and ErrSnapshotCorrupt when a stored
// document exists but cannot be decoded. Corrupt documents are never
// repaired; the caller routes the operator back through onboarding.
type Repository interface {
	LoadSnapshot(ctx context.Context) (*domain.Snapshot, error)
	SaveSnapshot(ctx context.Context, snap domain.Snapshot) error
	ResetSnapshot(ctx context.Context) error
}
