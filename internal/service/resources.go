package service

import (
	"context"
	"fmt"
	"strings"

	"retaildesk/backend/internal/domain"
	"retaildesk/backend/internal/store"
	"retaildesk/backend/internal/xid"
)

// --- Employees ---

// ListEmployees resolves each employee's role and counts the
// transactions the employee appears on, matching the employment view.
func (s *Service) ListEmployees(ctx context.Context) ([]domain.EmployeeView, error) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	rolesByID := make(map[string]domain.Role, len(snap.Roles))
	for _, r := range snap.Roles {
		rolesByID[r.ID] = r
	}
	served := make(map[string]int)
	for _, tx := range snap.Transactions {
		for _, eid := range tx.EmployeeIDs {
			served[eid]++
		}
	}

	views := make([]domain.EmployeeView, 0, len(snap.Employees))
	for _, e := range snap.Employees {
		role := rolesByID[e.RoleID]
		views = append(views, domain.EmployeeView{
			Employee:          e,
			RoleName:          role.Name,
			IsServiceProvider: role.IsServiceProvider,
			OrdersServed:      served[e.ID],
		})
	}
	return views, nil
}

func (s *Service) HireEmployee(ctx context.Context, req domain.EmployeeCreateRequest) (*domain.Employee, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: employee name is required", store.ErrInvalidInput)
	}
	if req.Salary < 0 {
		return nil, fmt.Errorf("%w: salary must not be negative", store.ErrInvalidInput)
	}

	emp := domain.Employee{
		ID:         xid.New("emp"),
		Name:       name,
		RoleID:     req.RoleID,
		Salary:     req.Salary,
		Status:     domain.EmployeeActive,
		JoinedDate: s.now().UTC(),
	}
	_, err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		if findRole(snap.Roles, req.RoleID) == nil {
			return fmt.Errorf("%w: role %q", store.ErrNotFound, req.RoleID)
		}
		snap.Employees = append(snap.Employees, emp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id string, req domain.EmployeeUpdateRequest) (*domain.Employee, error) {
	var updated domain.Employee
	_, err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		for i := range snap.Employees {
			if snap.Employees[i].ID != id {
				continue
			}
			e := &snap.Employees[i]
			if req.Name != nil {
				name := strings.TrimSpace(*req.Name)
				if name == "" {
					return fmt.Errorf("%w: employee name is required", store.ErrInvalidInput)
				}
				e.Name = name
			}
			if req.RoleID != nil {
				if findRole(snap.Roles, *req.RoleID) == nil {
					return fmt.Errorf("%w: role %q", store.ErrNotFound, *req.RoleID)
				}
				e.RoleID = *req.RoleID
			}
			if req.Salary != nil {
				if *req.Salary < 0 {
					return fmt.Errorf("%w: salary must not be negative", store.ErrInvalidInput)
				}
				e.Salary = *req.Salary
			}
			if req.Status != nil {
				if *req.Status != domain.EmployeeActive && *req.Status != domain.EmployeeInactive {
					return fmt.Errorf("%w: unknown status %q", store.ErrInvalidInput, *req.Status)
				}
				e.Status = *req.Status
			}
			updated = *e
			return nil
		}
		return fmt.Errorf("%w: employee %q", store.ErrNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		for i := range snap.Employees {
			if snap.Employees[i].ID == id {
				snap.Employees = append(snap.Employees[:i], snap.Employees[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: employee %q", store.ErrNotFound, id)
	})
	return err
}

// --- Roles ---

func (s *Service) ListRoles(ctx context.Context) ([]domain.Role, error) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Roles, nil
}

func (s *Service) CreateRole(ctx context.Context, req domain.RoleCreateRequest) (*domain.Role, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", store.ErrInvalidInput)
	}

	role := domain.Role{ID: xid.New("role"), Name: name, IsServiceProvider: req.IsServiceProvider}
	_, err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		for _, r := range snap.Roles {
			if strings.EqualFold(r.Name, name) {
				return fmt.Errorf("%w: role %q already exists", store.ErrInvalidInput, name)
			}
		}
		snap.Roles = append(snap.Roles, role)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// DeleteRole refuses to delete a role that still has employees
// assigned to it; reassign them first.
func (s *Service) DeleteRole(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		idx := -1
		for i := range snap.Roles {
			if snap.Roles[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: role %q", store.ErrNotFound, id)
		}
		for _, e := range snap.Employees {
			if e.RoleID == id {
				return fmt.Errorf("%w: role %q still assigned to %q", store.ErrInvalidInput, id, e.Name)
			}
		}
		snap.Roles = append(snap.Roles[:idx], snap.Roles[idx+1:]...)
		return nil
	})
	return err
}

// --- Service catalog ---

func (s *Service) ListServices(ctx context.Context) ([]domain.ServiceItem, error) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Services, nil
}

func (s *Service) CreateService(ctx context.Context, req domain.ServiceItemRequest) (*domain.ServiceItem, error) {
	if err := validateServiceRequest(req); err != nil {
		return nil, err
	}

	item := domain.ServiceItem{
		ID:       xid.New("srv"),
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price,
		Category: strings.TrimSpace(req.Category),
		Image:    req.Image,
	}
	_, err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		snap.Services = append(snap.Services, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) UpdateService(ctx context.Context, id string, req domain.ServiceItemRequest) (*domain.ServiceItem, error) {
	if err := validateServiceRequest(req); err != nil {
		return nil, err
	}

	var updated domain.ServiceItem
	_, err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		for i := range snap.Services {
			if snap.Services[i].ID == id {
				snap.Services[i].Name = strings.TrimSpace(req.Name)
				snap.Services[i].Price = req.Price
				snap.Services[i].Category = strings.TrimSpace(req.Category)
				snap.Services[i].Image = req.Image
				updated = snap.Services[i]
				return nil
			}
		}
		return fmt.Errorf("%w: service %q", store.ErrNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteService removes a catalog entry. Past transactions keep the
// id; the dashboard simply stops resolving it, which matches how the
// ledger treats retired services.
func (s *Service) DeleteService(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		for i := range snap.Services {
			if snap.Services[i].ID == id {
				snap.Services = append(snap.Services[:i], snap.Services[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: service %q", store.ErrNotFound, id)
	})
	return err
}

// --- Inventory ---

func (s *Service) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Inventory, nil
}

func (s *Service) CreateInventoryItem(ctx context.Context, req domain.InventoryItemRequest) (*domain.InventoryItem, error) {
	if err := validateInventoryRequest(req); err != nil {
		return nil, err
	}

	item := domain.InventoryItem{
		ID:       xid.New("inv"),
		Name:     strings.TrimSpace(req.Name),
		Quantity: req.Quantity,
		Unit:     req.Unit,
		MinLevel: req.MinLevel,
		Category: strings.TrimSpace(req.Category),
	}
	_, err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		snap.Inventory = append(snap.Inventory, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) UpdateInventoryItem(ctx context.Context, id string, req domain.InventoryItemRequest) (*domain.InventoryItem, error) {
	if err := validateInventoryRequest(req); err != nil {
		return nil, err
	}

	var updated domain.InventoryItem
	_, err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		for i := range snap.Inventory {
			if snap.Inventory[i].ID == id {
				snap.Inventory[i].Name = strings.TrimSpace(req.Name)
				snap.Inventory[i].Quantity = req.Quantity
				snap.Inventory[i].Unit = req.Unit
				snap.Inventory[i].MinLevel = req.MinLevel
				snap.Inventory[i].Category = strings.TrimSpace(req.Category)
				updated = snap.Inventory[i]
				return nil
			}
		}
		return fmt.Errorf("%w: inventory item %q", store.ErrNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// AdjustInventory moves stock: restock adds, use consumes, waste
// consumes and accumulates the wastage counter. Stock never goes
// negative.
func (s *Service) AdjustInventory(ctx context.Context, id string, req domain.InventoryAdjustRequest) (*domain.InventoryItem, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", store.ErrInvalidInput)
	}

	var updated domain.InventoryItem
	_, err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		for i := range snap.Inventory {
			if snap.Inventory[i].ID != id {
				continue
			}
			item := &snap.Inventory[i]
			switch req.Kind {
			case domain.AdjustRestock:
				item.Quantity += req.Amount
			case domain.AdjustUse:
				if item.Quantity < req.Amount {
					return fmt.Errorf("%w: only %d in stock", store.ErrInvalidInput, item.Quantity)
				}
				item.Quantity -= req.Amount
			case domain.AdjustWaste:
				if item.Quantity < req.Amount {
					return fmt.Errorf("%w: only %d in stock", store.ErrInvalidInput, item.Quantity)
				}
				item.Quantity -= req.Amount
				item.Wastage += req.Amount
			default:
				return fmt.Errorf("%w: unknown adjustment %q", store.ErrInvalidInput, req.Kind)
			}
			updated = *item
			return nil
		}
		return fmt.Errorf("%w: inventory item %q", store.ErrNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Service) DeleteInventoryItem(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		for i := range snap.Inventory {
			if snap.Inventory[i].ID == id {
				snap.Inventory = append(snap.Inventory[:i], snap.Inventory[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: inventory item %q", store.ErrNotFound, id)
	})
	return err
}

// --- Transactions ---

// ListTransactions returns the ledger newest-first with employee and
// service names resolved. Ids that no longer resolve render as-is so
// the ledger never hides history.
func (s *Service) ListTransactions(ctx context.Context) ([]domain.TransactionView, error) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	empNames := make(map[string]string, len(snap.Employees))
	for _, e := range snap.Employees {
		empNames[e.ID] = e.Name
	}
	srvNames := make(map[string]string, len(snap.Services))
	for _, sv := range snap.Services {
		srvNames[sv.ID] = sv.Name
	}

	views := make([]domain.TransactionView, 0, len(snap.Transactions))
	for _, tx := range snap.Transactions {
		view := domain.TransactionView{Transaction: tx}
		for _, eid := range tx.EmployeeIDs {
			view.EmployeeNames = append(view.EmployeeNames, nameOr(empNames, eid))
		}
		for _, sid := range tx.ServiceIDs {
			view.ServiceNames = append(view.ServiceNames, nameOr(srvNames, sid))
		}
		views = append(views, view)
	}
	return views, nil
}

// --- helpers ---

func findRole(roles []domain.Role, id string) *domain.Role {
	for i := range roles {
		if roles[i].ID == id {
			return &roles[i]
		}
	}
	return nil
}

func validateServiceRequest(req domain.ServiceItemRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: service name is required", store.ErrInvalidInput)
	}
	if req.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", store.ErrInvalidInput)
	}
	return nil
}

func validateInventoryRequest(req domain.InventoryItemRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: item name is required", store.ErrInvalidInput)
	}
	if req.Quantity < 0 || req.MinLevel < 0 {
		return fmt.Errorf("%w: quantities must not be negative", store.ErrInvalidInput)
	}
	return nil
}

func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}
