package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"retaildesk/backend/internal/ai"
	"retaildesk/backend/internal/domain"
	"retaildesk/backend/internal/store"
	"retaildesk/backend/internal/store/memory"
	"retaildesk/backend/internal/wizard"
)

var testNow = time.Date(2026, time.March, 14, 15, 0, 0, 0, time.UTC)

type fakeGenerator struct {
	reportText  string
	reportErr   error
	chatText    string
	chatErr     error
	reportCalls int
}

func (f *fakeGenerator) GenerateReport(_ context.Context, _ domain.BusinessProfile, _ domain.KPIMetrics, _ []domain.DailySales) (string, error) {
	f.reportCalls++
	return f.reportText, f.reportErr
}

func (f *fakeGenerator) Chat(_ context.Context, _ []domain.ChatTurn, _ string, _ string) (string, error) {
	return f.chatText, f.chatErr
}

func newTestService(t *testing.T) (*Service, *fakeGenerator) {
	t.Helper()
	gen := &fakeGenerator{reportText: "## Report", chatText: "Reply"}
	s := New(memory.NewSeeded(), nil, gen, time.Minute)
	s.now = func() time.Time { return testNow }
	return s, gen
}

func newEmptyService(t *testing.T) *Service {
	t.Helper()
	s := New(memory.New(), nil, &fakeGenerator{}, time.Minute)
	s.now = func() time.Time { return testNow }
	return s
}

func TestOnboardSeedsSectorKit(t *testing.T) {
	ctx := context.Background()
	s := newEmptyService(t)

	snap, err := s.Onboard(ctx, domain.OnboardingRequest{CompanyName: "Scoops Ahoy", Sector: domain.SectorCafe})
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if snap.Profile.CompanyName != "Scoops Ahoy" {
		t.Fatalf("unexpected profile %+v", snap.Profile)
	}
	if len(snap.Roles) != 8 || len(snap.Services) != 19 || len(snap.Employees) != 8 || len(snap.Inventory) != 9 {
		t.Fatalf("unexpected kit sizes: %d roles, %d services, %d employees, %d inventory",
			len(snap.Roles), len(snap.Services), len(snap.Employees), len(snap.Inventory))
	}
	if len(snap.Transactions) != 0 {
		t.Fatalf("expected no demo transactions by default, got %d", len(snap.Transactions))
	}
	if len(snap.Profile.Branches) != 1 || snap.Profile.Branches[0].Name != "Main Store" {
		t.Fatalf("expected default main branch, got %+v", snap.Profile.Branches)
	}

	// Every seeded employee resolves to a seeded role.
	roleIDs := make(map[string]bool)
	for _, r := range snap.Roles {
		roleIDs[r.ID] = true
	}
	for _, e := range snap.Employees {
		if !roleIDs[e.RoleID] {
			t.Fatalf("employee %q references unknown role %q", e.Name, e.RoleID)
		}
	}
}

func TestOnboardRejectsSecondRun(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	_, err := s.Onboard(ctx, domain.OnboardingRequest{CompanyName: "Again", Sector: domain.SectorCafe})
	if !errors.Is(err, ErrAlreadyOnboarded) {
		t.Fatalf("expected ErrAlreadyOnboarded, got %v", err)
	}
}

func TestOnboardValidation(t *testing.T) {
	ctx := context.Background()
	s := newEmptyService(t)

	if _, err := s.Onboard(ctx, domain.OnboardingRequest{CompanyName: "  ", Sector: domain.SectorCafe}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank name, got %v", err)
	}
	if _, err := s.Onboard(ctx, domain.OnboardingRequest{CompanyName: "X", Sector: "Bowling Alley"}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown sector, got %v", err)
	}
}

func TestOnboardDemoDataPopulatesLedger(t *testing.T) {
	ctx := context.Background()
	s := newEmptyService(t)

	snap, err := s.Onboard(ctx, domain.OnboardingRequest{CompanyName: "Demo", Sector: domain.SectorAuto, SeedDemoData: true})
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if len(snap.Transactions) != demoTransactionCount {
		t.Fatalf("expected %d demo transactions, got %d", demoTransactionCount, len(snap.Transactions))
	}
	for _, tx := range snap.Transactions[:10] {
		if tx.TotalAmount <= 0 || len(tx.ServiceIDs) != 1 || len(tx.EmployeeIDs) != 1 {
			t.Fatalf("malformed demo transaction %+v", tx)
		}
		if tx.PaymentMethod == domain.PaymentSplit {
			if tx.SplitDetails == nil || tx.SplitDetails.Cash+tx.SplitDetails.UPI != tx.TotalAmount {
				t.Fatalf("demo split does not sum to total: %+v", tx)
			}
		}
	}
}

func TestExitRequiresReOnboarding(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	if err := s.Exit(ctx); err != nil {
		t.Fatalf("exit: %v", err)
	}
	if _, err := s.Workspace(ctx); !errors.Is(err, store.ErrNoProfile) {
		t.Fatalf("expected ErrNoProfile after exit, got %v", err)
	}
	if _, err := s.Onboard(ctx, domain.OnboardingRequest{CompanyName: "Fresh", Sector: domain.SectorSalon}); err != nil {
		t.Fatalf("re-onboard after exit: %v", err)
	}
}

func TestHireEmployeeChecksRole(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	if _, err := s.HireEmployee(ctx, domain.EmployeeCreateRequest{Name: "Eddie", RoleID: "role-ghost"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown role, got %v", err)
	}

	emp, err := s.HireEmployee(ctx, domain.EmployeeCreateRequest{Name: "Eddie Munson", RoleID: "role-barista", Salary: 17000})
	if err != nil {
		t.Fatalf("hire: %v", err)
	}
	if emp.Status != domain.EmployeeActive || emp.ID == "" {
		t.Fatalf("unexpected employee %+v", emp)
	}

	views, err := s.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var found bool
	for _, v := range views {
		if v.ID == emp.ID {
			found = true
			if v.RoleName != "Barista" || !v.IsServiceProvider {
				t.Fatalf("role not resolved: %+v", v)
			}
		}
	}
	if !found {
		t.Fatalf("hired employee missing from listing")
	}
}

func TestUpdateEmployeeStatusToggle(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	inactive := domain.EmployeeInactive
	emp, err := s.UpdateEmployee(ctx, "emp-steve", domain.EmployeeUpdateRequest{Status: &inactive})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if emp.Status != domain.EmployeeInactive {
		t.Fatalf("status not applied: %+v", emp)
	}
}

func TestDeleteRoleWithEmployeesIsRejected(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	err := s.DeleteRole(ctx, "role-barista")
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected rejection while employees hold the role, got %v", err)
	}

	// After the barista leaves, the role can go.
	if err := s.DeleteEmployee(ctx, "emp-steve"); err != nil {
		t.Fatalf("delete employee: %v", err)
	}
	if err := s.DeleteRole(ctx, "role-barista"); err != nil {
		t.Fatalf("delete role after reassignment: %v", err)
	}
}

func TestCreateRoleRejectsDuplicateName(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	if _, err := s.CreateRole(ctx, domain.RoleCreateRequest{Name: "barista", IsServiceProvider: true}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

func TestInventoryAdjustments(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	item, err := s.AdjustInventory(ctx, "inv-beans", domain.InventoryAdjustRequest{Kind: domain.AdjustRestock, Amount: 25})
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if item.Quantity != 75 {
		t.Fatalf("expected 75 after restock, got %d", item.Quantity)
	}

	item, err = s.AdjustInventory(ctx, "inv-beans", domain.InventoryAdjustRequest{Kind: domain.AdjustWaste, Amount: 5})
	if err != nil {
		t.Fatalf("waste: %v", err)
	}
	if item.Quantity != 70 || item.Wastage != 5 {
		t.Fatalf("waste not tracked: %+v", item)
	}

	if _, err := s.AdjustInventory(ctx, "inv-beans", domain.InventoryAdjustRequest{Kind: domain.AdjustUse, Amount: 1000}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected stock floor, got %v", err)
	}
	if _, err := s.AdjustInventory(ctx, "inv-beans", domain.InventoryAdjustRequest{Kind: "teleport", Amount: 1}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected unknown kind rejection, got %v", err)
	}
}

func TestCaptureLifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	state := s.StartCapture()
	if state.Step != int(wizard.StepStaffing) {
		t.Fatalf("expected staffing step, got %d", state.Step)
	}

	if _, err := s.CaptureAssignStaff(ctx, state.ID, "role-barista", "emp-ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected unknown employee rejection, got %v", err)
	}
	if _, err := s.CaptureAssignStaff(ctx, state.ID, "role-manager", "emp-steve"); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected role mismatch rejection, got %v", err)
	}
	if _, err := s.CaptureAssignStaff(ctx, state.ID, "role-barista", "emp-steve"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := s.CaptureAdvance(state.ID); err != nil {
		t.Fatalf("advance to cart: %v", err)
	}

	if _, err := s.CaptureAddItem(ctx, state.ID, "srv-espresso"); err != nil {
		t.Fatalf("add espresso: %v", err)
	}
	if _, err := s.CaptureAddItem(ctx, state.ID, "srv-espresso"); err != nil {
		t.Fatalf("add espresso again: %v", err)
	}
	state, err := s.CaptureAddItem(ctx, state.ID, "srv-latte")
	if err != nil {
		t.Fatalf("add latte: %v", err)
	}
	if state.Total != 140 {
		t.Fatalf("expected total 140, got %d", state.Total)
	}

	if _, err := s.CaptureAdvance(state.ID); err != nil {
		t.Fatalf("advance to client info: %v", err)
	}
	if _, err := s.CaptureSetCustomer(state.ID, domain.Customer{Name: "Nancy", Phone: "987"}); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if _, err := s.CaptureAdvance(state.ID); err != nil {
		t.Fatalf("advance to settlement: %v", err)
	}
	if _, err := s.CaptureSetPayment(state.ID, domain.PaymentSplit); err != nil {
		t.Fatalf("set payment: %v", err)
	}
	cash := int64(50)
	state, err = s.CaptureSetSplit(state.ID, &cash, nil)
	if err != nil {
		t.Fatalf("set split: %v", err)
	}
	if state.Split.Cash != 50 || state.Split.UPI != 90 {
		t.Fatalf("unexpected split %+v", state.Split)
	}

	if _, err := s.CaptureCommit(ctx, state.ID); !errors.Is(err, wizard.ErrWrongStep) {
		t.Fatalf("expected commit rejection before review, got %v", err)
	}
	if _, err := s.CaptureAdvance(state.ID); err != nil {
		t.Fatalf("advance to review: %v", err)
	}

	tx, err := s.CaptureCommit(ctx, state.ID)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if tx.TotalAmount != 140 || tx.SplitDetails == nil || tx.SplitDetails.Cash != 50 {
		t.Fatalf("unexpected transaction %+v", tx)
	}

	// Ledger has the new transaction first, with names resolved.
	views, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(views) != 1 || views[0].ID != tx.ID {
		t.Fatalf("transaction not persisted first: %+v", views)
	}
	if views[0].EmployeeNames[0] != "Steve Harrington" {
		t.Fatalf("employee name not resolved: %v", views[0].EmployeeNames)
	}
	if strings.Join(views[0].ServiceNames, ",") != "Espresso,Espresso,Latte" {
		t.Fatalf("service units not resolved: %v", views[0].ServiceNames)
	}

	// Session reset for the next sale.
	fresh, err := s.Capture(state.ID)
	if err != nil {
		t.Fatalf("capture state: %v", err)
	}
	if fresh.Step != int(wizard.StepStaffing) || fresh.Total != 0 {
		t.Fatalf("session not reset: %+v", fresh)
	}
}

func TestCaptureAbandon(t *testing.T) {
	s, _ := newTestService(t)
	state := s.StartCapture()
	if err := s.CaptureAbandon(state.ID); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if _, err := s.Capture(state.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
}

func TestDashboardCountsCommittedSale(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	commitSale(t, s, "srv-espresso")

	report, err := s.Dashboard(ctx, domain.DashboardQuery{Filter: domain.FilterDay})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if report.Summary.Orders != 1 || report.Summary.Revenue != 40 {
		t.Fatalf("unexpected summary %+v", report.Summary)
	}
	if report.Summary.TopExpert != "Steve Harrington" {
		t.Fatalf("unexpected expert %q", report.Summary.TopExpert)
	}
	if len(report.PeakBuckets) != 24 {
		t.Fatalf("expected hour buckets, got %d", len(report.PeakBuckets))
	}
}

func TestDashboardRejectsUnknownFilter(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	if _, err := s.Dashboard(ctx, domain.DashboardQuery{Filter: "Year"}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected invalid filter rejection, got %v", err)
	}
}

func TestAdvisorReportErrorPropagates(t *testing.T) {
	ctx := context.Background()
	s, gen := newTestService(t)
	gen.reportErr = errors.New("upstream down")

	if _, err := s.AdvisorReport(ctx, domain.AdvisorReportRequest{}); err == nil {
		t.Fatalf("expected report error to propagate")
	}
}

func TestAdvisorReportEmptyFallback(t *testing.T) {
	ctx := context.Background()
	s, gen := newTestService(t)
	gen.reportText = "   "

	resp, err := s.AdvisorReport(ctx, domain.AdvisorReportRequest{})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if resp.Report != ai.ReportEmptyFallback {
		t.Fatalf("expected empty fallback, got %q", resp.Report)
	}
}

type fakeReportCache struct {
	entries map[string]*domain.AdvisorReportResponse
}

func (f *fakeReportCache) Get(_ context.Context, key string) (*domain.AdvisorReportResponse, bool, error) {
	if v, ok := f.entries[key]; ok {
		cp := *v
		return &cp, true, nil
	}
	return nil, false, nil
}

func (f *fakeReportCache) Set(_ context.Context, key string, value *domain.AdvisorReportResponse, _ time.Duration) error {
	cp := *value
	f.entries[key] = &cp
	return nil
}

func TestAdvisorReportServedFromCache(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{reportText: "## Report", chatText: "Reply"}
	s := New(memory.NewSeeded(), &fakeReportCache{entries: map[string]*domain.AdvisorReportResponse{}}, gen, time.Minute)
	s.now = func() time.Time { return testNow }

	req := domain.AdvisorReportRequest{Metrics: domain.KPIMetrics{TotalRevenue: 1000, CustomerCount: 12}}
	first, err := s.AdvisorReport(ctx, req)
	if err != nil {
		t.Fatalf("first report: %v", err)
	}
	if first.Cached || first.Report != "## Report" {
		t.Fatalf("unexpected first response %+v", first)
	}

	second, err := s.AdvisorReport(ctx, req)
	if err != nil {
		t.Fatalf("second report: %v", err)
	}
	if !second.Cached {
		t.Fatalf("expected cache hit on identical inputs")
	}
	if gen.reportCalls != 1 {
		t.Fatalf("generator called %d times, want 1", gen.reportCalls)
	}

	// Different KPIs miss the cache.
	req.Metrics.TotalRevenue = 2000
	third, err := s.AdvisorReport(ctx, req)
	if err != nil {
		t.Fatalf("third report: %v", err)
	}
	if third.Cached || gen.reportCalls != 2 {
		t.Fatalf("expected regeneration for new fingerprint (calls=%d)", gen.reportCalls)
	}
}

func TestChatFallbacks(t *testing.T) {
	ctx := context.Background()
	s, gen := newTestService(t)

	if _, err := s.Chat(ctx, domain.ChatRequest{Message: "  "}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected empty message rejection, got %v", err)
	}

	gen.chatErr = errors.New("network down")
	resp, err := s.Chat(ctx, domain.ChatRequest{Message: "How are sales?"})
	if err != nil {
		t.Fatalf("chat must not surface transport errors, got %v", err)
	}
	if resp.Reply != ai.ChatErrorFallback {
		t.Fatalf("expected error fallback, got %q", resp.Reply)
	}

	gen.chatErr = nil
	gen.chatText = ""
	resp, err = s.Chat(ctx, domain.ChatRequest{Message: "How are sales?"})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if resp.Reply != ai.ChatEmptyFallback {
		t.Fatalf("expected empty fallback, got %q", resp.Reply)
	}
}

// commitSale drives a full capture for one unit of the given service
// with Steve on the barista slot.
func commitSale(t *testing.T, s *Service, serviceID string) domain.Transaction {
	t.Helper()
	ctx := context.Background()
	state := s.StartCapture()
	if _, err := s.CaptureAssignStaff(ctx, state.ID, "role-barista", "emp-steve"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := s.CaptureAdvance(state.ID); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := s.CaptureAddItem(ctx, state.ID, serviceID); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := s.CaptureAdvance(state.ID); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := s.CaptureSetCustomer(state.ID, domain.Customer{Name: "Walk-in"}); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if _, err := s.CaptureAdvance(state.ID); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := s.CaptureAdvance(state.ID); err != nil {
		t.Fatalf("advance: %v", err)
	}
	tx, err := s.CaptureCommit(ctx, state.ID)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return *tx
}
