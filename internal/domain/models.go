package domain

import "time"

// Sector identifies the business vertical chosen at onboarding. It
// drives which seed catalog the workspace starts with.
type Sector string

const (
	SectorCafe    Sector = "Cafe & Bakery"
	SectorAuto    Sector = "Automotive Repair"
	SectorSalon   Sector = "Salon & Spa"
	SectorMedical Sector = "Pharmacy & Medical"
)

func (s Sector) Valid() bool {
	switch s {
	case SectorCafe, SectorAuto, SectorSalon, SectorMedical:
		return true
	}
	return false
}

type Branch struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type BusinessProfile struct {
	CompanyName string   `json:"company_name"`
	Sector      Sector   `json:"sector"`
	Branches    []Branch `json:"branches"`
}

type Role struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	IsServiceProvider bool   `json:"is_service_provider"`
}

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "Active"
	EmployeeInactive EmployeeStatus = "Inactive"
)

// Employee references its Role by id. The role name shown in listings
// is resolved at read time so renaming or deleting roles cannot leave
// stale denormalized copies behind.
type Employee struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	RoleID     string         `json:"role_id"`
	Salary     int64          `json:"salary"`
	Status     EmployeeStatus `json:"status"`
	JoinedDate time.Time      `json:"joined_date"`
}

type Unit string

const (
	UnitKg    Unit = "kg"
	UnitLbs   Unit = "lbs"
	UnitPcs   Unit = "pcs"
	UnitLtr   Unit = "ltr"
	UnitGal   Unit = "gal"
	UnitBox   Unit = "box"
	UnitPacks Unit = "packs"
	UnitTubes Unit = "tubes"
	UnitKits  Unit = "kits"
)

type InventoryItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Wastage  int64  `json:"wastage"`
	Unit     Unit   `json:"unit"`
	MinLevel int64  `json:"min_level"`
	Category string `json:"category"`
}

// LowStock reports whether the item has fallen to or below its
// configured minimum level.
func (i InventoryItem) LowStock() bool {
	return i.MinLevel > 0 && i.Quantity <= i.MinLevel
}

type ServiceItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
	Image    string `json:"image,omitempty"`
}

type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "CASH"
	PaymentUPI   PaymentMethod = "UPI"
	PaymentSplit PaymentMethod = "SPLIT"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentUPI, PaymentSplit:
		return true
	}
	return false
}

// SplitDetails records how a SPLIT settlement divided the total. The
// two parts always sum to the transaction total.
type SplitDetails struct {
	Cash int64 `json:"cash"`
	UPI  int64 `json:"upi"`
}

// Transaction is an immutable sale record. ServiceIDs carries one
// entry per unit sold, so a cart line with quantity three contributes
// three identical ids.
type Transaction struct {
	ID            string        `json:"id"`
	EmployeeIDs   []string      `json:"employee_ids"`
	ServiceIDs    []string      `json:"service_ids"`
	Customer      Customer      `json:"customer"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	SplitDetails  *SplitDetails `json:"split_details,omitempty"`
	TotalAmount   int64         `json:"total_amount"`
	Date          time.Time     `json:"date"`
}

// Snapshot is the wholesale persistence unit: the entire workspace
// state, saved as one document after every mutation.
type Snapshot struct {
	Profile      *BusinessProfile `json:"profile"`
	Transactions []Transaction    `json:"transactions"`
	Employees    []Employee       `json:"employees"`
	Roles        []Role           `json:"roles"`
	Services     []ServiceItem    `json:"services"`
	Inventory    []InventoryItem  `json:"inventory"`
}

type Actor struct {
	Subject string
	Role    string
}

// --- Dashboard reporting ---

type TimeFilter string

const (
	FilterDay   TimeFilter = "Day"
	FilterWeek  TimeFilter = "Week"
	FilterMonth TimeFilter = "Month"
)

func (f TimeFilter) Valid() bool {
	switch f {
	case FilterDay, FilterWeek, FilterMonth:
		return true
	}
	return false
}

// DashboardQuery selects the reporting window. Month and Year are
// consulted only when Filter is FilterMonth; Month is 1..12.
type DashboardQuery struct {
	Filter TimeFilter `json:"filter"`
	Month  int        `json:"month"`
	Year   int        `json:"year"`
}

type KPISummary struct {
	Revenue       int64  `json:"revenue"`
	Orders        int    `json:"orders"`
	AvgOrderValue int64  `json:"avg_order_value"`
	TopExpert     string `json:"top_expert"`
}

type PeakBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type RankedEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type PaymentSlice struct {
	Method PaymentMethod `json:"method"`
	Count  int           `json:"count"`
}

type DashboardReport struct {
	Query       DashboardQuery `json:"query"`
	Summary     KPISummary     `json:"summary"`
	PeakBuckets []PeakBucket   `json:"peak_buckets"`
	TopServices []RankedEntry  `json:"top_services"`
	TopStaff    []RankedEntry  `json:"top_staff"`
	PaymentMix  []PaymentSlice `json:"payment_mix"`
}

// DailySales is one calendar day of the revenue history fed to the
// advisor prompt.
type DailySales struct {
	Date      string `json:"date"`
	Revenue   int64  `json:"revenue"`
	Orders    int    `json:"orders"`
	Profit    int64  `json:"profit"`
	Customers int    `json:"customers"`
}

// --- Request / response payloads ---

type OnboardingRequest struct {
	CompanyName  string   `json:"company_name"`
	Sector       Sector   `json:"sector"`
	Branches     []Branch `json:"branches,omitempty"`
	SeedDemoData bool     `json:"seed_demo_data"`
}

type EmployeeCreateRequest struct {
	Name   string `json:"name"`
	RoleID string `json:"role_id"`
	Salary int64  `json:"salary"`
}

type EmployeeUpdateRequest struct {
	Name   *string         `json:"name,omitempty"`
	RoleID *string         `json:"role_id,omitempty"`
	Salary *int64          `json:"salary,omitempty"`
	Status *EmployeeStatus `json:"status,omitempty"`
}

// EmployeeView is an Employee with its role resolved and the number
// of transactions the employee appears on.
type EmployeeView struct {
	Employee
	RoleName          string `json:"role_name"`
	IsServiceProvider bool   `json:"is_service_provider"`
	OrdersServed      int    `json:"orders_served"`
}

type RoleCreateRequest struct {
	Name              string `json:"name"`
	IsServiceProvider bool   `json:"is_service_provider"`
}

type ServiceItemRequest struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
	Image    string `json:"image,omitempty"`
}

type InventoryItemRequest struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Unit     Unit   `json:"unit"`
	MinLevel int64  `json:"min_level"`
	Category string `json:"category"`
}

// InventoryAdjustRequest moves stock by a positive Amount in the
/// named direction: restock adds, use consumes, waste consumes and
// adds to the wastage counter.
type InventoryAdjustRequest struct {
	Kind   string `json:"kind"`
	Amount int64  `json:"amount"`
}

const (
	AdjustRestock = "restock"
	AdjustUse     = "use"
	AdjustWaste   = "waste"
)

// TransactionView resolves the id references on a Transaction into
// display names for the ledger listing.
type TransactionView struct {
	Transaction
	EmployeeNames []string `json:"employee_names"`
	ServiceNames  []string `json:"service_names"`
}

type UnlockRequest struct {
	PIN string `json:"pin"`
}

type UnlockResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
}

type AdvisorReportRequest struct {
	Metrics KPIMetrics `json:"metrics"`
}

type KPIMetrics struct {
	TotalRevenue  int64   `json:"total_revenue"`
	TotalProfit   int64   `json:"total_profit"`
	GrowthRate    float64 `json:"growth_rate"`
	CustomerCount int     `json:"customer_count"`
}

type AdvisorReportResponse struct {
	Report string `json:"report"`
	Cached bool   `json:"cached"`
}

type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type ChatRequest struct {
	History []ChatTurn `json:"history"`
	Message string     `json:"message"`
	Context string     `json:"context,omitempty"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
