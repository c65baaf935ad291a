// Package service orchestrates the workspace: onboarding, resource
// management, the capture wizard, dashboard reporting, and the AI
// advisor. All state flows through the snapshot repository; every
// mutation loads the snapshot, edits a copy, and saves it back whole.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"retaildesk/backend/internal/ai"
	"retaildesk/backend/internal/analytics"
	"retaildesk/backend/internal/cache"
	"retaildesk/backend/internal/domain"
	"retaildesk/backend/internal/store"
	"retaildesk/backend/internal/wizard"
)

var ErrAlreadyOnboarded = errors.New("workspace already onboarded")

const demoTransactionCount = 500

type Service struct {
	repo      store.Repository
	reports   cache.ReportCache
	generator ai.Generator
	reportTTL time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*wizard.Session
}

func New(repo store.Repository, reports cache.ReportCache, generator ai.Generator, reportTTL time.Duration) *Service {
	if reports == nil {
		reports = cache.NoopReportCache{}
	}
	if reportTTL <= 0 {
		reportTTL = 15 * time.Minute
	}
	return &Service{
		repo:      repo,
		reports:   reports,
		generator: generator,
		reportTTL: reportTTL,
		now:       time.Now,
		sessions:  make(map[string]*wizard.Session),
	}
}

// Onboard creates the workspace profile and seeds the sector starter
// kit. It refuses to run over a healthy existing workspace but does
// accept a corrupt one, since re-onboarding is the recovery path.
func (s *Service) Onboard(ctx context.Context, req domain.OnboardingRequest) (*domain.Snapshot, error) {
	name := strings.TrimSpace(req.CompanyName)
	if name == "" {
		return nil, fmt.Errorf("%w: company name is required", store.ErrInvalidInput)
	}
	if !req.Sector.Valid() {
		return nil, fmt.Errorf("%w: unknown sector %q", store.ErrInvalidInput, req.Sector)
	}

	_, err := s.repo.LoadSnapshot(ctx)
	switch {
	case err == nil:
		return nil, ErrAlreadyOnboarded
	case errors.Is(err, store.ErrNoProfile), errors.Is(err, store.ErrSnapshotCorrupt):
	default:
		return nil, err
	}

	now := s.now()
	branches := req.Branches
	if len(branches) == 0 {
		branches = []domain.Branch{{ID: "br-main", Name: "Main Store", Location: "Commercial Hub"}}
	}

	roles, services, employees, inventory := buildSeedData(req.Sector, now)
	snap := domain.Snapshot{
		Profile: &domain.BusinessProfile{
			CompanyName: name,
			Sector:      req.Sector,
			Branches:    branches,
		},
		Roles:     roles,
		Services:  services,
		Employees: employees,
		Inventory: inventory,
	}
	if req.SeedDemoData {
		snap.Transactions = buildDemoTransactions(services, employees, demoTransactionCount, now)
	}

	if err := s.repo.SaveSnapshot(ctx, snap); err != nil {
		return nil, err
	}
	log.Printf("[service] onboarded workspace %q (%s)", name, req.Sector)
	return &snap, nil
}

// Workspace returns the full current snapshot.
func (s *Service) Workspace(ctx context.Context) (*domain.Snapshot, error) {
	return s.repo.LoadSnapshot(ctx)
}

// Exit wipes the workspace and abandons all open capture sessions.
// The next request lands on onboarding again.
func (s *Service) Exit(ctx context.Context) error {
	if err := s.repo.ResetSnapshot(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions = make(map[string]*wizard.Session)
	s.mu.Unlock()
	log.Printf("[service] workspace reset")
	return nil
}

// Dashboard runs the aggregation pipeline for the requested window.
// Month queries default to the current month and year when the caller
// leaves them zero.
func (s *Service) Dashboard(ctx context.Context, query domain.DashboardQuery) (*domain.DashboardReport, error) {
	if !query.Filter.Valid() {
		return nil, fmt.Errorf("%w: unknown filter %q", store.ErrInvalidInput, query.Filter)
	}
	now := s.now()
	if query.Filter == domain.FilterMonth {
		if query.Month == 0 {
			query.Month = int(now.Month())
		}
		if query.Year == 0 {
			query.Year = now.Year()
		}
		if query.Month < 1 || query.Month > 12 {
			return nil, fmt.Errorf("%w: month %d out of range", store.ErrInvalidInput, query.Month)
		}
	}

	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	report := analytics.Report(snap.Transactions, snap.Employees, snap.Roles, snap.Services, query, now)
	return &report, nil
}

// mutate applies fn to a loaded snapshot and persists the result. The
// snapshot save is the single commit point for every mutation in the
// service.
func (s *Service) mutate(ctx context.Context, fn func(*domain.Snapshot) error) (*domain.Snapshot, error) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(snap); err != nil {
		return nil, err
	}
	if err := s.repo.SaveSnapshot(ctx, *snap); err != nil {
		return nil, err
	}
	return snap, nil
}
