// Package memory is the in-process snapshot store used for local
// development and tests. It keeps one workspace snapshot behind a
// mutex and deep-copies on both sides of the boundary so callers can
// never alias internal state.
package memory

import (
	"context"
	"sync"
	"time"

	"retaildesk/backend/internal/domain"
	"retaildesk/backend/internal/store"
)

type Store struct {
	mu   sync.RWMutex
	snap *domain.Snapshot
}

func New() *Store {
	return &Store{}
}

// NewSeeded returns a store holding a small onboarded cafe workspace.
// Tests use it as a ready-made fixture instead of driving onboarding
// first.
func NewSeeded() *Store {
	joined := time.Date(2023, time.February, 15, 0, 0, 0, 0, time.UTC)
	snap := domain.Snapshot{
		Profile: &domain.BusinessProfile{
			CompanyName: "Hawkins Coffee",
			Sector:      domain.SectorCafe,
			Branches: []domain.Branch{
				{ID: "br-1", Name: "Main Store", Location: "Commercial Hub"},
			},
		},
		Roles: []domain.Role{
			{ID: "role-manager", Name: "Manager", IsServiceProvider: false},
			{ID: "role-cashier", Name: "Cashier", IsServiceProvider: true},
			{ID: "role-barista", Name: "Barista", IsServiceProvider: true},
		},
		Employees: []domain.Employee{
			{ID: "emp-nancy", Name: "Nancy Wheeler", RoleID: "role-manager", Salary: 35000, Status: domain.EmployeeActive, JoinedDate: joined},
			{ID: "emp-joyce", Name: "Joyce Byers", RoleID: "role-cashier", Salary: 15000, Status: domain.EmployeeActive, JoinedDate: joined},
			{ID: "emp-steve", Name: "Steve Harrington", RoleID: "role-barista", Salary: 18000, Status: domain.EmployeeActive, JoinedDate: joined},
		},
		Services: []domain.ServiceItem{
			{ID: "srv-espresso", Name: "Espresso", Price: 40, Category: "Coffee"},
			{ID: "srv-latte", Name: "Latte", Price: 60, Category: "Coffee"},
			{ID: "srv-croissant", Name: "Butter Croissant", Price: 140, Category: "Pastry"},
		},
		Inventory: []domain.InventoryItem{
			{ID: "inv-beans", Name: "Coffee Beans", Quantity: 50, Unit: domain.UnitKg, MinLevel: 10, Category: "Raw Material"},
			{ID: "inv-milk", Name: "Milk", Quantity: 120, Unit: domain.UnitLtr, MinLevel: 20, Category: "Dairy"},
		},
	}
	return &Store{snap: &snap}
}

func (s *Store) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil || s.snap.Profile == nil {
		return nil, store.ErrNoProfile
	}
	out := cloneSnapshot(*s.snap)
	return &out, nil
}

func (s *Store) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	if snap.Profile == nil {
		return store.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := cloneSnapshot(snap)
	s.snap = &stored
	return nil
}

func (s *Store) ResetSnapshot(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = nil
	return nil
}

func cloneSnapshot(in domain.Snapshot) domain.Snapshot {
	out := domain.Snapshot{
		Transactions: make([]domain.Transaction, len(in.Transactions)),
		Employees:    append([]domain.Employee(nil), in.Employees...),
		Roles:        append([]domain.Role(nil), in.Roles...),
		Services:     append([]domain.ServiceItem(nil), in.Services...),
		Inventory:    append([]domain.InventoryItem(nil), in.Inventory...),
	}
	if in.Profile != nil {
		profile := *in.Profile
		profile.Branches = append([]domain.Branch(nil), in.Profile.Branches...)
		out.Profile = &profile
	}
	for i, tx := range in.Transactions {
		cp := tx
		cp.EmployeeIDs = append([]string(nil), tx.EmployeeIDs...)
		cp.ServiceIDs = append([]string(nil), tx.ServiceIDs...)
		if tx.SplitDetails != nil {
			split := *tx.SplitDetails
			cp.SplitDetails = &split
		}
		out.Transactions[i] = cp
	}
	return out
}
