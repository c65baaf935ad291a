package service

import (
	"math/rand"
	"time"

	"retaildesk/backend/internal/domain"
	"retaildesk/backend/internal/xid"
)

// Sector starter kits. Onboarding copies the kit for the chosen
// sector into the fresh workspace so the terminal is usable on day
// one: role ladder, service catalog, staff roster, stock list.

type seedRole struct {
	name     string
	provider bool
}

type seedService struct {
	name     string
	price    int64
	category string
}

type seedEmployee struct {
	name   string
	role   string
	salary int64
	joined string
}

type seedInventory struct {
	name     string
	quantity int64
	unit     domain.Unit
	minLevel int64
	category string
}

type sectorKit struct {
	roles     []seedRole
	services  []seedService
	employees []seedEmployee
	inventory []seedInventory
}

var sectorKits = map[domain.Sector]sectorKit{
	domain.SectorCafe: {
		roles: []seedRole{
			{"Manager", false},
			{"Cashier", true},
			{"Head Baker", true},
			{"Barista", true},
			{"Delivery Executive", false},
			{"Kitchen Assistant", false},
			{"Waiter", false},
			{"Cleaner", false},
		},
		services: []seedService{
			{"Espresso", 40, "Coffee"},
			{"Americano", 35, "Coffee"},
			{"Cappuccino", 55, "Coffee"},
			{"Latte", 60, "Coffee"},
			{"Mocha", 45, "Coffee"},
			{"Hot Chocolate", 30, "Hot Beverage"},
			{"Cold Coffee", 25, "Cold Beverage"},
			{"Masala Tea", 60, "Tea"},
			{"Avocado Toast", 120, "Food"},
			{"Butter Croissant", 140, "Pastry"},
			{"Chocolate Muffin", 120, "Muffin"},
			{"Blueberry Muffin", 130, "Muffin"},
			{"Brownie", 150, "Dessert"},
			{"CheeseCake Slice", 260, "Dessert"},
			{"ChocolateCake Slice", 220, "Dessert"},
			{"Veg Sandwich", 65, "Snack"},
			{"Grilled Cheese Sandwich", 50, "Snack"},
			{"Paneer Sandwich", 65, "Snack"},
			{"Garlic Bread", 40, "Snack"},
		},
		employees: []seedEmployee{
			{"Nancy Wheeler", "Manager", 35000, "2023-01-10"},
			{"Joyce Byers", "Cashier", 15000, "2023-02-15"},
			{"Robin Buckley", "Head Baker", 18000, "2023-02-15"},
			{"Steve Harrington", "Barista", 18000, "2023-02-15"},
			{"Jonathan Byers", "Delivery Executive", 16000, "2023-02-15"},
			{"Holly Wheeler", "Kitchen Assistant", 14000, "2023-02-15"},
			{"Argyle Huts", "Waiter", 10000, "2023-02-15"},
			{"Doris Driscoll", "Cleaner", 10000, "2023-03-01"},
		},
		inventory: []seedInventory{
			{"Coffee Beans", 50, domain.UnitKg, 10, "Raw Material"},
			{"Milk", 120, domain.UnitLtr, 20, "Dairy"},
			{"Flour", 120, domain.UnitLtr, 15, "Raw Material"},
			{"Butter", 120, domain.UnitLtr, 10, "Dairy"},
			{"Eggs", 120, domain.UnitPcs, 50, "Supplies"},
			{"Sugar", 30, domain.UnitKg, 5, "Raw Material"},
			{"Chocolate Syrup", 30, domain.UnitKg, 5, "Raw Material"},
			{"Paper Cups", 500, domain.UnitPcs, 100, "Supplies"},
			{"Paper Plates", 500, domain.UnitPcs, 100, "Supplies"},
		},
	},
	domain.SectorAuto: {
		roles: []seedRole{
			{"Workshop Manager", false},
			{"Service Advisor", true},
			{"Senior Mechanic", true},
			{"Junior Mechanic", true},
			{"Electrician", true},
			{"Cleaner", false},
		},
		services: []seedService{
			{"General Vehicle Inspection", 800, "Diagnostic"},
			{"Engine Diagnostics [OBD]", 1800, "Diagnostic"},
			{"Oil Change (Mineral)", 1200, "Maintenance"},
			{"Oil Change (Synthetic)", 2200, "Maintenance"},
			{"Wheel Alignment & Balancing", 1500, "Wheels"},
			{"Car Wash & Vacuum", 600, "Cleaning"},
			{"Clutch Overhaul", 9000, "Transmission"},
			{"Suspension Repair", 6500, "Mechanical"},
			{"Timing Belt Replacement", 7500, "Engine"},
			{"Battery Replacement", 5200, "Electrical"},
			{"Wiring Repair", 2500, "Electrical"},
			{"Headlight Restoration", 1200, "Electrical"},
			{"AC Gas Refill", 2500, "AC"},
			{"Full AC Service", 3800, "AC"},
		},
		employees: []seedEmployee{
			{"Jim Hopper", "Workshop Manager", 40000, "2022-11-20"},
			{"Mike Wheeler", "Service Advisor", 20000, "2022-11-20"},
			{"Murray Bauman", "Senior Mechanic", 30000, "2022-11-20"},
			{"Dustin Henderson", "Junior Mechanic", 18000, "2022-11-20"},
			{"Will Byers", "Electrician", 22000, "2023-01-05"},
			{"Fred Benson", "Cleaner", 12000, "2023-01-05"},
		},
		inventory: []seedInventory{
			{"Engine Oil (5W-30)", 200, domain.UnitLtr, 50, "Fluids"},
			{"Brake Pads", 40, domain.UnitPcs, 10, "Parts"},
			{"Headlight Bulbs", 60, domain.UnitPcs, 20, "Parts"},
			{"Coolant", 100, domain.UnitLtr, 25, "Fluids"},
			{"Spark Plugs", 100, domain.UnitPcs, 20, "Parts"},
			{"Air Filters", 100, domain.UnitPcs, 15, "Parts"},
		},
	},
	domain.SectorSalon: {
		roles: []seedRole{
			{"Salon Manager", false},
			{"Receptionist", true},
			{"Senior Stylist", true},
			{"Junior Stylist", true},
			{"Beautician", true},
			{"Massage Therapist", true},
			{"Cleaner", false},
		},
		services: []seedService{
			{"Men Haircut", 75, "Hair"},
			{"Women Haircut", 150, "Hair"},
			{"Kids Haircut", 75, "Hair"},
			{"Hair Wash & Blow Dry", 75, "Hair"},
			{"Hair Spa", 75, "Hair Care"},
			{"Global Hair Coloring", 55, "Coloring"},
			{"Root Touch Up", 55, "Coloring"},
			{"Keratin Treatment", 55, "Premium"},
			{"Smoothening", 55, "Premium"},
			{"Anti-Dandruff", 55, "Treatment"},
			{"Tan Removal", 55, "Treatment"},
			{"CleanUp", 55, "Skin"},
			{"Facial-Gold", 55, "Skin"},
			{"Facial-Fruit", 55, "Skin"},
			{"Full Body Massage", 55, "Spa"},
			{"Head Massage", 55, "Spa"},
			{"Threading (EyeBrow)", 55, "Grooming"},
			{"Waxing (Arms)", 55, "Grooming"},
			{"Waxing (Legs)", 55, "Grooming"},
			{"Beard Trim", 55, "Grooming"},
		},
		employees: []seedEmployee{
			{"Karen Wheeler", "Salon Manager", 32000, "2022-05-10"},
			{"Becky Ives", "Receptionist", 15000, "2022-05-10"},
			{"Max Mayfield", "Senior Stylist", 28000, "2022-05-10"},
			{"Jane Hopper", "Junior Stylist", 16000, "2022-05-10"},
			{"Tina Cline", "Beautician", 20000, "2022-05-10"},
			{"Nagma Khatoon", "Massage Therapist", 22000, "2022-05-10"},
			{"Keith Matty", "Cleaner", 12000, "2022-05-10"},
		},
		inventory: []seedInventory{
			{"Massage Oil", 15, domain.UnitLtr, 5, "Spa"},
			{"Shampoo", 20, domain.UnitLtr, 4, "Hair"},
			{"Hair Color", 50, domain.UnitTubes, 10, "Chemicals"},
			{"Facial Kits", 50, domain.UnitKits, 10, "Facial"},
			{"Wax", 50, domain.UnitKg, 8, "Chemicals"},
			{"Towels", 100, domain.UnitPcs, 20, "Supplies"},
		},
	},
	domain.SectorMedical: {
		roles: []seedRole{
			{"Store Manager", false},
			{"Billing Executive", true},
			{"Chief Pharmacist", true},
			{"Assistant Pharmacist", true},
			{"Inventory Assistant", false},
			{"Delivery Executive", false},
			{"Cleaner", false},
		},
		services: []seedService{
			{"Paracetamol 500mg", 22, "Fever/Pain"},
			{"Antacid Tablets", 18, "Digestive"},
			{"Cold & Flu Tablets", 35, "Cold"},
			{"ORS Sachet", 21, "Hydration"},
			{"Vitamin C Tablets", 25, "Supplements"},
			{"Antibiotics", 120, "Infection"},
			{"Diabetes Tablets", 95, "Chronic"},
			{"Blood Pressure Tablets", 110, "Chronic"},
			{"Thyroid Tablets", 145, "Hormonal"},
			{"Anti-Allergy", 60, "Allergy"},
			{"Insulin Vials", 620, "Diabetes"},
			{"Vaccines", 850, "Immunization"},
			{"Iron Injections", 1200, "Deficiency"},
			{"Emergency Injections", 95, "Emergency"},
		},
		employees: []seedEmployee{
			{"Ted Wheeler", "Store Manager", 30000, "2022-05-10"},
			{"Bob Newby", "Billing Executive", 40000, "2022-05-10"},
			{"Sam Owens", "Chief Pharmacist", 22000, "2022-05-10"},
			{"Tom Dimitri", "Assistant Pharmacist", 16000, "2022-05-10"},
			{"Alexei Utgoff", "Inventory Assistant", 15000, "2022-05-10"},
			{"Victor Creel", "Delivery Executive", 17000, "2022-05-10"},
			{"Kali Prasad", "Cleaner", 10000, "2022-05-10"},
		},
		inventory: []seedInventory{
			{"Medical Refrigerator", 15, domain.UnitPcs, 1, "Appliances"},
			{"Vaccine Ice Packs", 20, domain.UnitPacks, 5, "Storage"},
			{"Digital Thermometer", 50, domain.UnitPcs, 10, "Devices"},
			{"Cleaning Supplies", 50, domain.UnitPacks, 10, "Hygiene"},
			{"Towels", 100, domain.UnitPcs, 20, "Supplies"},
			{"Medicine Carry Bags", 100, domain.UnitPacks, 50, "Packaging"},
			{"Prescription Receipt Books", 100, domain.UnitPacks, 20, "Admin"},
			{"Syringes", 100, domain.UnitPcs, 100, "Surgical"},
			{"Gloves", 100, domain.UnitBox, 20, "Safety"},
		},
	},
}

// buildSeedData materializes a sector kit into real records with
// generated ids. Employee role names resolve to the freshly created
// role ids.
func buildSeedData(sector domain.Sector, now time.Time) ([]domain.Role, []domain.ServiceItem, []domain.Employee, []domain.InventoryItem) {
	kit, ok := sectorKits[sector]
	if !ok {
		return nil, nil, nil, nil
	}

	roles := make([]domain.Role, 0, len(kit.roles))
	roleIDByName := make(map[string]string, len(kit.roles))
	for _, r := range kit.roles {
		role := domain.Role{ID: xid.New("role"), Name: r.name, IsServiceProvider: r.provider}
		roles = append(roles, role)
		roleIDByName[r.name] = role.ID
	}

	services := make([]domain.ServiceItem, 0, len(kit.services))
	for _, s := range kit.services {
		services = append(services, domain.ServiceItem{
			ID:       xid.New("srv"),
			Name:     s.name,
			Price:    s.price,
			Category: s.category,
		})
	}

	employees := make([]domain.Employee, 0, len(kit.employees))
	for _, e := range kit.employees {
		joined, err := time.Parse("2006-01-02", e.joined)
		if err != nil {
			joined = now
		}
		employees = append(employees, domain.Employee{
			ID:         xid.New("emp"),
			Name:       e.name,
			RoleID:     roleIDByName[e.role],
			Salary:     e.salary,
			Status:     domain.EmployeeActive,
			JoinedDate: joined,
		})
	}

	inventory := make([]domain.InventoryItem, 0, len(kit.inventory))
	for _, i := range kit.inventory {
		inventory = append(inventory, domain.InventoryItem{
			ID:       xid.New("inv"),
			Name:     i.name,
			Quantity: i.quantity,
			Unit:     i.unit,
			MinLevel: i.minLevel,
			Category: i.category,
		})
	}

	return roles, services, employees, inventory
}

// buildDemoTransactions fabricates a month of sales history so a demo
// workspace has a populated dashboard. One random service and one
// random employee per sale, business hours only.
func buildDemoTransactions(services []domain.ServiceItem, employees []domain.Employee, count int, now time.Time) []domain.Transaction {
	if len(services) == 0 || len(employees) == 0 || count <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(now.UnixNano()))
	txs := make([]domain.Transaction, 0, count)
	for i := 0; i < count; i++ {
		srv := services[rng.Intn(len(services))]
		emp := employees[rng.Intn(len(employees))]

		day := now.AddDate(0, 0, -rng.Intn(30))
		at := time.Date(day.Year(), day.Month(), day.Day(), 9+rng.Intn(12), rng.Intn(60), 0, 0, now.Location())

		method := domain.PaymentUPI
		switch {
		case rng.Float64() < 0.3:
			method = domain.PaymentCash
		case rng.Float64() < 0.3:
			method = domain.PaymentSplit
		}

		tx := domain.Transaction{
			ID:            xid.New("txn"),
			EmployeeIDs:   []string{emp.ID},
			ServiceIDs:    []string{srv.ID},
			Customer:      domain.Customer{Name: "Verified Client", Phone: "99887-76655"},
			PaymentMethod: method,
			TotalAmount:   srv.Price,
			Date:          at,
		}
		if method == domain.PaymentSplit {
			cash := srv.Price / 2
			tx.SplitDetails = &domain.SplitDetails{Cash: cash, UPI: srv.Price - cash}
		}
		txs = append(txs, tx)
	}
	return txs
}
