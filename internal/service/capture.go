package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"retaildesk/backend/internal/domain"
	"retaildesk/backend/internal/store"
	"retaildesk/backend/internal/wizard"
	"retaildesk/backend/internal/xid"
)

var ErrSessionNotFound = errors.New("capture session not found")

// CaptureState is the wire view of an in-progress capture session.
type CaptureState struct {
	ID            string               `json:"id"`
	Step          int                  `json:"step"`
	Staff         []wizard.Assignment  `json:"staff"`
	Cart          []wizard.CartLine    `json:"cart"`
	Customer      domain.Customer      `json:"customer"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Total         int64                `json:"total"`
	Split         domain.SplitDetails  `json:"split"`
}

// StartCapture opens a new wizard session. Sessions live in memory
// only; a draft is not part of the workspace until committed.
func (s *Service) StartCapture() CaptureState {
	id := xid.New("cap")
	session := wizard.NewSession()

	s.mu.Lock()
	s.sessions[id] = session
	state := s.stateLocked(id, session)
	s.mu.Unlock()
	return state
}

func (s *Service) Capture(id string) (CaptureState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return CaptureState{}, ErrSessionNotFound
	}
	return s.stateLocked(id, session), nil
}

func (s *Service) CaptureAdvance(id string) (CaptureState, error) {
	return s.withSession(id, func(session *wizard.Session) error {
		return session.Next()
	})
}

func (s *Service) CaptureBack(id string) (CaptureState, error) {
	return s.withSession(id, func(session *wizard.Session) error {
		session.Back()
		return nil
	})
}

// CaptureAssignStaff binds an employee to a role slot after checking
// the employee exists, is active, and actually holds that role.
func (s *Service) CaptureAssignStaff(ctx context.Context, id string, roleID string, employeeID string) (CaptureState, error) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return CaptureState{}, err
	}
	var emp *domain.Employee
	for i := range snap.Employees {
		if snap.Employees[i].ID == employeeID {
			emp = &snap.Employees[i]
			break
		}
	}
	if emp == nil {
		return CaptureState{}, fmt.Errorf("%w: employee %q", store.ErrNotFound, employeeID)
	}
	if emp.Status != domain.EmployeeActive {
		return CaptureState{}, fmt.Errorf("%w: employee %q is inactive", store.ErrInvalidInput, emp.Name)
	}
	if emp.RoleID != roleID {
		return CaptureState{}, fmt.Errorf("%w: employee %q does not hold that role", store.ErrInvalidInput, emp.Name)
	}

	return s.withSession(id, func(session *wizard.Session) error {
		return session.AssignStaff(roleID, employeeID)
	})
}

// CaptureAddItem puts one unit of a catalog service into the cart,
// capturing the current price.
func (s *Service) CaptureAddItem(ctx context.Context, id string, serviceID string) (CaptureState, error) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return CaptureState{}, err
	}
	var item *domain.ServiceItem
	for i := range snap.Services {
		if snap.Services[i].ID == serviceID {
			item = &snap.Services[i]
			break
		}
	}
	if item == nil {
		return CaptureState{}, fmt.Errorf("%w: service %q", store.ErrNotFound, serviceID)
	}

	return s.withSession(id, func(session *wizard.Session) error {
		return session.AddItem(item.ID, item.Name, item.Price)
	})
}

// CaptureAddManualItem adds an off-catalog line, for one-off charges
// the catalog does not carry.
func (s *Service) CaptureAddManualItem(id string, name string, price int64) (CaptureState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CaptureState{}, fmt.Errorf("%w: item name is required", store.ErrInvalidInput)
	}
	if price < 0 {
		return CaptureState{}, fmt.Errorf("%w: price must not be negative", store.ErrInvalidInput)
	}
	return s.withSession(id, func(session *wizard.Session) error {
		return session.AddItem(xid.New("custom"), name, price)
	})
}

func (s *Service) CaptureRemoveItem(id string, serviceID string) (CaptureState, error) {
	return s.withSession(id, func(session *wizard.Session) error {
		return session.RemoveItem(serviceID)
	})
}

func (s *Service) CaptureSetCustomer(id string, customer domain.Customer) (CaptureState, error) {
	return s.withSession(id, func(session *wizard.Session) error {
		return session.SetCustomer(customer)
	})
}

func (s *Service) CaptureSetPayment(id string, method domain.PaymentMethod) (CaptureState, error) {
	return s.withSession(id, func(session *wizard.Session) error {
		return session.SetPaymentMethod(method)
	})
}

// CaptureSetSplit adjusts one side of a split settlement; the other
// side follows so the halves always sum to the total.
func (s *Service) CaptureSetSplit(id string, cash *int64, upi *int64) (CaptureState, error) {
	return s.withSession(id, func(session *wizard.Session) error {
		if cash != nil {
			return session.SetSplitCash(*cash)
		}
		if upi != nil {
			return session.SetSplitUPI(*upi)
		}
		return fmt.Errorf("%w: cash or upi value required", store.ErrInvalidInput)
	})
}

// CaptureCommit finalizes the session into a transaction, prepends it
// to the ledger, and saves the snapshot. The session resets to a
// fresh staffing step only after the save succeeds, so a failed save
// keeps the draft intact.
func (s *Service) CaptureCommit(ctx context.Context, id string) (*domain.Transaction, error) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if session.Step() != wizard.StepReview {
		s.mu.Unlock()
		return nil, wizard.ErrWrongStep
	}
	draft := *session
	s.mu.Unlock()

	tx, err := draft.Commit(xid.New("txn"), s.now().UTC())
	if err != nil {
		return nil, err
	}

	_, err = s.mutate(ctx, func(snap *domain.Snapshot) error {
		snap.Transactions = append([]domain.Transaction{tx}, snap.Transactions...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if live, ok := s.sessions[id]; ok {
		live.Reset()
	}
	s.mu.Unlock()

	log.Printf("[service] transaction %s committed: ₹%d via %s", tx.ID, tx.TotalAmount, tx.PaymentMethod)
	return &tx, nil
}

// CaptureAbandon discards the draft entirely.
func (s *Service) CaptureAbandon(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Service) withSession(id string, fn func(*wizard.Session) error) (CaptureState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return CaptureState{}, ErrSessionNotFound
	}
	if err := fn(session); err != nil {
		return CaptureState{}, err
	}
	return s.stateLocked(id, session), nil
}

func (s *Service) stateLocked(id string, session *wizard.Session) CaptureState {
	return CaptureState{
		ID:            id,
		Step:          int(session.Step()),
		Staff:         session.Staff(),
		Cart:          session.Cart(),
		Customer:      session.Customer(),
		PaymentMethod: session.PaymentMethod(),
		Total:         session.Total(),
		Split:         session.Split(),
	}
}
