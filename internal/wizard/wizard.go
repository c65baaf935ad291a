// Package wizard holds the transaction capture state machine: five
// linear steps from staffing to review, with forward guards and the
// split settlement coupling. The session is an explicit container so
// the caller decides when state is committed or discarded.
package wizard

import (
	"errors"
	"strings"
	"time"

	"retaildesk/backend/internal/domain"
)

type Step int

const (
	StepStaffing   Step = 1
	StepCart       Step = 2
	StepClientInfo Step = 3
	StepSettlement Step = 4
	StepReview     Step = 5
)

var (
	ErrStaffRequired    = errors.New("at least one staff assignment is required")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrCustomerRequired = errors.New("customer name is required")
	ErrWrongStep        = errors.New("operation not allowed at current step")
	ErrInvalidPayment   = errors.New("invalid payment method")
)

// Assignment binds one role slot to one employee. A role can hold at
// most one employee at a time; reassigning replaces it in place.
type Assignment struct {
	RoleID     string `json:"role_id"`
	EmployeeID string `json:"employee_id"`
}

// CartLine captures the unit price at add time so later catalog edits
// cannot change a draft already in progress.
type CartLine struct {
	ServiceID string `json:"service_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Qty       int    `json:"qty"`
}

// Session is a single in-progress capture. It is not safe for
// concurrent use; the owner serializes access.
type Session struct {
	step      Step
	staff     []Assignment
	cart      []CartLine
	customer  domain.Customer
	payment   domain.PaymentMethod
	splitCash int64
}

func NewSession() *Session {
	return &Session{step: StepStaffing, payment: domain.PaymentCash}
}

func (s *Session) Step() Step { return s.step }

// Next advances one step if the current step's guard passes. Entering
// the settlement step seeds the split at half the total once, so the
// operator starts from an even division.
func (s *Session) Next() error {
	switch s.step {
	case StepStaffing:
		if len(s.staff) == 0 {
			return ErrStaffRequired
		}
	case StepCart:
		if len(s.cart) == 0 {
			return ErrCartEmpty
		}
	case StepClientInfo:
		if strings.TrimSpace(s.customer.Name) == "" {
			return ErrCustomerRequired
		}
	case StepReview:
		return nil
	}
	s.step++
	if s.step == StepSettlement && s.splitCash == 0 {
		if total := s.Total(); total > 0 {
			s.splitCash = total / 2
		}
	}
	return nil
}

// Back moves one step toward staffing, never past it. Earlier state
// stays intact so the operator can adjust and come forward again.
func (s *Session) Back() {
	if s.step > StepStaffing {
		s.step--
	}
}

func (s *Session) AssignStaff(roleID, employeeID string) error {
	if s.step != StepStaffing {
		return ErrWrongStep
	}
	for i := range s.staff {
		if s.staff[i].RoleID == roleID {
			s.staff[i].EmployeeID = employeeID
			return nil
		}
	}
	s.staff = append(s.staff, Assignment{RoleID: roleID, EmployeeID: employeeID})
	return nil
}

// AddItem adds one unit of a service to the cart, merging into an
// existing line when the service is already there.
func (s *Session) AddItem(serviceID, name string, unitPrice int64) error {
	if s.step != StepCart {
		return ErrWrongStep
	}
	for i := range s.cart {
		if s.cart[i].ServiceID == serviceID {
			s.cart[i].Qty++
			return nil
		}
	}
	s.cart = append(s.cart, CartLine{ServiceID: serviceID, Name: name, UnitPrice: unitPrice, Qty: 1})
	return nil
}

func (s *Session) RemoveItem(serviceID string) error {
	if s.step != StepCart {
		return ErrWrongStep
	}
	for i := range s.cart {
		if s.cart[i].ServiceID == serviceID {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Session) SetCustomer(c domain.Customer) error {
	if s.step != StepClientInfo {
		return ErrWrongStep
	}
	s.customer = c
	return nil
}

func (s *Session) SetPaymentMethod(m domain.PaymentMethod) error {
	if s.step != StepSettlement {
		return ErrWrongStep
	}
	if !m.Valid() {
		return ErrInvalidPayment
	}
	s.payment = m
	return nil
}

// SetSplitCash records the cash half of a split settlement. The value
// is clamped into [0, total] on read, so the UPI half is always the
// remainder.
func (s *Session) SetSplitCash(v int64) error {
	if s.step != StepSettlement {
		return ErrWrongStep
	}
	s.splitCash = v
	return nil
}

// SetSplitUPI adjusts the cash half so the two sides keep summing to
// the total.
func (s *Session) SetSplitUPI(v int64) error {
	if s.step != StepSettlement {
		return ErrWrongStep
	}
	s.splitCash = s.Total() - clamp(v, 0, s.Total())
	return nil
}

func (s *Session) Total() int64 {
	var total int64
	for _, line := range s.cart {
		total += line.UnitPrice * int64(line.Qty)
	}
	return total
}

// Split reports the effective division regardless of what raw value
// was last set: cash clamped into [0, total], UPI the remainder.
func (s *Session) Split() domain.SplitDetails {
	total := s.Total()
	cash := clamp(s.splitCash, 0, total)
	return domain.SplitDetails{Cash: cash, UPI: total - cash}
}

func (s *Session) Staff() []Assignment {
	out := make([]Assignment, len(s.staff))
	copy(out, s.staff)
	return out
}

func (s *Session) Cart() []CartLine {
	out := make([]CartLine, len(s.cart))
	copy(out, s.cart)
	return out
}

func (s *Session) Customer() domain.Customer { return s.customer }

func (s *Session) PaymentMethod() domain.PaymentMethod { return s.payment }

// Commit builds the immutable transaction and resets the session to a
// fresh staffing step. It is only legal at the review step; the
// guards on the way there guarantee the record is complete. Service
// ids are expanded to one entry per unit, staff ids keep assignment
// order, and split details are attached only for SPLIT settlements.
func (s *Session) Commit(id string, now time.Time) (domain.Transaction, error) {
	if s.step != StepReview {
		return domain.Transaction{}, ErrWrongStep
	}

	employeeIDs := make([]string, 0, len(s.staff))
	for _, a := range s.staff {
		if a.EmployeeID != "" {
			employeeIDs = append(employeeIDs, a.EmployeeID)
		}
	}
	var serviceIDs []string
	for _, line := range s.cart {
		for i := 0; i < line.Qty; i++ {
			serviceIDs = append(serviceIDs, line.ServiceID)
		}
	}

	tx := domain.Transaction{
		ID:            id,
		EmployeeIDs:   employeeIDs,
		ServiceIDs:    serviceIDs,
		Customer:      s.customer,
		PaymentMethod: s.payment,
		TotalAmount:   s.Total(),
		Date:          now,
	}
	if s.payment == domain.PaymentSplit {
		split := s.Split()
		tx.SplitDetails = &split
	}

	s.Reset()
	return tx, nil
}

// Reset discards all captured state, abandoning the draft.
func (s *Session) Reset() {
	*s = Session{step: StepStaffing, payment: domain.PaymentCash}
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
