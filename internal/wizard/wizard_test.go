package wizard

import (
	"errors"
	"testing"
	"time"

	"retaildesk/backend/internal/domain"
)

// drives a session through staffing and cart to the given step with a
// two-line cart totalling 140.
func sessionAt(t *testing.T, step Step) *Session {
	t.Helper()
	s := NewSession()
	if step == StepStaffing {
		return s
	}
	if err := s.AssignStaff("role-1", "emp-1"); err != nil {
		t.Fatalf("assign staff: %v", err)
	}
	if err := s.Next(); err != nil {
		t.Fatalf("advance to cart: %v", err)
	}
	if step == StepCart {
		return s
	}
	if err := s.AddItem("srv-1", "Espresso", 40); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := s.AddItem("srv-1", "Espresso", 40); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := s.AddItem("srv-2", "Bagel", 60); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := s.Next(); err != nil {
		t.Fatalf("advance to client info: %v", err)
	}
	if step == StepClientInfo {
		return s
	}
	if err := s.SetCustomer(domain.Customer{Name: "Nancy", Phone: "98765"}); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if err := s.Next(); err != nil {
		t.Fatalf("advance to settlement: %v", err)
	}
	if step == StepSettlement {
		return s
	}
	if err := s.Next(); err != nil {
		t.Fatalf("advance to review: %v", err)
	}
	return s
}

func TestForwardGuards(t *testing.T) {
	s := NewSession()
	if err := s.Next(); !errors.Is(err, ErrStaffRequired) {
		t.Fatalf("expected staff guard, got %v", err)
	}

	s = sessionAt(t, StepCart)
	if err := s.Next(); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected cart guard, got %v", err)
	}

	s = sessionAt(t, StepClientInfo)
	if err := s.SetCustomer(domain.Customer{Name: "   "}); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if err := s.Next(); !errors.Is(err, ErrCustomerRequired) {
		t.Fatalf("expected customer guard, got %v", err)
	}
}

func TestBackNeverLeavesRange(t *testing.T) {
	s := NewSession()
	s.Back()
	if s.Step() != StepStaffing {
		t.Fatalf("back below first step: %d", s.Step())
	}

	s = sessionAt(t, StepReview)
	if err := s.Next(); err != nil {
		t.Fatalf("next at review: %v", err)
	}
	if s.Step() != StepReview {
		t.Fatalf("advanced past review: %d", s.Step())
	}
	s.Back()
	if s.Step() != StepSettlement {
		t.Fatalf("expected settlement after back, got %d", s.Step())
	}
}

func TestCartTotals(t *testing.T) {
	s := sessionAt(t, StepCart)
	if err := s.AddItem("srv-1", "Espresso", 40); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.AddItem("srv-1", "Espresso", 40); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.AddItem("srv-2", "Bagel", 60); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := s.Total(); got != 140 {
		t.Fatalf("expected total 140, got %d", got)
	}
	lines := s.Cart()
	if len(lines) != 2 || lines[0].Qty != 2 || lines[1].Qty != 1 {
		t.Fatalf("unexpected cart lines %+v", lines)
	}

	if err := s.RemoveItem("srv-1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := s.Total(); got != 60 {
		t.Fatalf("expected total 60 after removal, got %d", got)
	}
}

func TestSplitDefaultsToHalfOnSettlementEntry(t *testing.T) {
	s := sessionAt(t, StepSettlement)
	split := s.Split()
	// Total 140: default split is floor(140/2) = 70 each.
	if split.Cash != 70 || split.UPI != 70 {
		t.Fatalf("expected 70/70 default, got %+v", split)
	}
}

func TestSplitCoupling(t *testing.T) {
	s := sessionAt(t, StepSettlement)
	if err := s.SetPaymentMethod(domain.PaymentSplit); err != nil {
		t.Fatalf("set method: %v", err)
	}

	if err := s.SetSplitCash(50); err != nil {
		t.Fatalf("set cash: %v", err)
	}
	if split := s.Split(); split.Cash != 50 || split.UPI != 90 {
		t.Fatalf("expected 50/90, got %+v", split)
	}

	if err := s.SetSplitUPI(140); err != nil {
		t.Fatalf("set upi: %v", err)
	}
	if split := s.Split(); split.Cash != 0 || split.UPI != 140 {
		t.Fatalf("expected 0/140, got %+v", split)
	}

	if err := s.SetSplitCash(9999); err != nil {
		t.Fatalf("set cash: %v", err)
	}
	if split := s.Split(); split.Cash != 140 || split.UPI != 0 {
		t.Fatalf("expected clamp to 140/0, got %+v", split)
	}

	if err := s.SetSplitCash(-10); err != nil {
		t.Fatalf("set cash: %v", err)
	}
	if split := s.Split(); split.Cash != 0 || split.UPI != 140 {
		t.Fatalf("expected clamp to 0/140, got %+v", split)
	}
}

func TestStepScopedMutations(t *testing.T) {
	s := sessionAt(t, StepSettlement)
	if err := s.AssignStaff("role-2", "emp-2"); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected wrong-step on staffing edit, got %v", err)
	}
	if err := s.AddItem("srv-9", "Latte", 55); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected wrong-step on cart edit, got %v", err)
	}
	if _, err := s.Commit("txn-x", time.Now()); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected wrong-step commit before review, got %v", err)
	}
}

func TestCommitBuildsTransactionAndResets(t *testing.T) {
	s := sessionAt(t, StepSettlement)
	if err := s.SetPaymentMethod(domain.PaymentSplit); err != nil {
		t.Fatalf("set method: %v", err)
	}
	if err := s.SetSplitCash(50); err != nil {
		t.Fatalf("set cash: %v", err)
	}
	if err := s.Next(); err != nil {
		t.Fatalf("advance to review: %v", err)
	}

	now := time.Date(2026, time.March, 14, 15, 0, 0, 0, time.UTC)
	tx, err := s.Commit("txn-1", now)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if tx.ID != "txn-1" || !tx.Date.Equal(now) {
		t.Fatalf("unexpected identity %+v", tx)
	}
	if len(tx.EmployeeIDs) != 1 || tx.EmployeeIDs[0] != "emp-1" {
		t.Fatalf("unexpected staff %v", tx.EmployeeIDs)
	}
	want := []string{"srv-1", "srv-1", "srv-2"}
	if len(tx.ServiceIDs) != len(want) {
		t.Fatalf("expected %d service units, got %v", len(want), tx.ServiceIDs)
	}
	for i, id := range want {
		if tx.ServiceIDs[i] != id {
			t.Fatalf("service unit %d: got %q want %q", i, tx.ServiceIDs[i], id)
		}
	}
	if tx.TotalAmount != 140 {
		t.Fatalf("expected total 140, got %d", tx.TotalAmount)
	}
	if tx.SplitDetails == nil || tx.SplitDetails.Cash != 50 || tx.SplitDetails.UPI != 90 {
		t.Fatalf("unexpected split %+v", tx.SplitDetails)
	}
	if tx.Customer.Name != "Nancy" {
		t.Fatalf("unexpected customer %+v", tx.Customer)
	}

	// Session is back at a clean staffing step.
	if s.Step() != StepStaffing {
		t.Fatalf("expected reset to staffing, got %d", s.Step())
	}
	if len(s.Staff()) != 0 || len(s.Cart()) != 0 || s.Total() != 0 {
		t.Fatalf("state survived reset")
	}
	if s.PaymentMethod() != domain.PaymentCash {
		t.Fatalf("payment method not reset: %v", s.PaymentMethod())
	}
}

func TestCommitWithoutSplitOmitsDetails(t *testing.T) {
	s := sessionAt(t, StepReview)
	tx, err := s.Commit("txn-2", time.Now())
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if tx.PaymentMethod != domain.PaymentCash {
		t.Fatalf("expected default CASH, got %v", tx.PaymentMethod)
	}
	if tx.SplitDetails != nil {
		t.Fatalf("split details on non-split settlement: %+v", tx.SplitDetails)
	}
}

func TestReassignReplacesRoleSlot(t *testing.T) {
	s := NewSession()
	if err := s.AssignStaff("role-1", "emp-1"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := s.AssignStaff("role-1", "emp-2"); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if err := s.AssignStaff("role-2", "emp-3"); err != nil {
		t.Fatalf("assign second role: %v", err)
	}
	staff := s.Staff()
	if len(staff) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(staff))
	}
	if staff[0].EmployeeID != "emp-2" || staff[1].EmployeeID != "emp-3" {
		t.Fatalf("unexpected assignments %+v", staff)
	}
}
