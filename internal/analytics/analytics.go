// Package analytics computes the dashboard aggregations. Everything
// here is a pure function over a transaction slice so the service
// layer can run it against whatever window it has already loaded.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"retaildesk/backend/internal/domain"
)

const (
	topServicesLimit  = 8
	topEmployeesLimit = 5
	weekWindow        = 7 * 24 * time.Hour
)

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Filter returns the transactions inside the query window, preserving
// input order. Day means the same calendar date as now, Week a rolling
// seven-day window ending at now (inclusive lower bound), Month the
// calendar month and year named by the query.
func Filter(txs []domain.Transaction, query domain.DashboardQuery, now time.Time) []domain.Transaction {
	loc := now.Location()
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		txDate := tx.Date.In(loc)
		switch query.Filter {
		case domain.FilterDay:
			if sameCalendarDay(txDate, now) {
				out = append(out, tx)
			}
		case domain.FilterWeek:
			if !txDate.Before(now.Add(-weekWindow)) {
				out = append(out, tx)
			}
		case domain.FilterMonth:
			if int(txDate.Month()) == query.Month && txDate.Year() == query.Year {
				out = append(out, tx)
			}
		}
	}
	return out
}

// Summarize computes the KPI strip for an already-filtered window.
// The average rounds half up; an empty window yields zeros and the
// "N/A" expert sentinel.
func Summarize(filtered []domain.Transaction, employees []domain.Employee, roles []domain.Role) domain.KPISummary {
	var revenue int64
	for _, tx := range filtered {
		revenue += tx.TotalAmount
	}
	orders := len(filtered)

	var avg int64
	if orders > 0 {
		avg = int64(math.Round(float64(revenue) / float64(orders)))
	}

	topExpert := "N/A"
	if top := TopEmployees(filtered, employees, roles); len(top) > 0 {
		topExpert = top[0].Name
	}

	return domain.KPISummary{
		Revenue:       revenue,
		Orders:        orders,
		AvgOrderValue: avg,
		TopExpert:     topExpert,
	}
}

// PeakBuckets distributes the filtered transactions over the query's
// label set: 24 hour slots for Day, weekday names for Week, and one
// bucket per day of the selected month. Every label is present even
// at zero, and a transaction whose key falls outside the label set is
// dropped rather than invented a bucket for.
func PeakBuckets(filtered []domain.Transaction, query domain.DashboardQuery, now time.Time) []domain.PeakBucket {
	labels := bucketLabels(query)
	counts := make(map[string]int, len(labels))
	for _, l := range labels {
		counts[l] = 0
	}

	loc := now.Location()
	for _, tx := range filtered {
		key := bucketKey(tx.Date.In(loc), query.Filter)
		if _, ok := counts[key]; ok {
			counts[key]++
		}
	}

	out := make([]domain.PeakBucket, len(labels))
	for i, l := range labels {
		out[i] = domain.PeakBucket{Label: l, Count: counts[l]}
	}
	return out
}

// TopServices counts units sold per service name, resolving each id
// against the catalog. Ids with no catalog entry are skipped. Ties
// keep first-encounter order; at most eight entries are returned.
func TopServices(filtered []domain.Transaction, services []domain.ServiceItem) []domain.RankedEntry {
	names := make(map[string]string, len(services))
	for _, s := range services {
		names[s.ID] = s.Name
	}

	counts := make(map[string]int)
	var order []string
	for _, tx := range filtered {
		for _, sid := range tx.ServiceIDs {
			name, ok := names[sid]
			if !ok {
				continue
			}
			if _, seen := counts[name]; !seen {
				order = append(order, name)
			}
			counts[name]++
		}
	}

	return rank(order, counts, topServicesLimit)
}

// TopEmployees counts transaction participation per employee, limited
// to employees whose role provides services. Ties keep
// first-encounter order; at most five entries are returned.
func TopEmployees(filtered []domain.Transaction, employees []domain.Employee, roles []domain.Role) []domain.RankedEntry {
	providerRoles := make(map[string]bool, len(roles))
	for _, r := range roles {
		if r.IsServiceProvider {
			providerRoles[r.ID] = true
		}
	}
	byID := make(map[string]domain.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}

	counts := make(map[string]int)
	var order []string
	for _, tx := range filtered {
		for _, eid := range tx.EmployeeIDs {
			emp, ok := byID[eid]
			if !ok || !providerRoles[emp.RoleID] {
				continue
			}
			if _, seen := counts[emp.Name]; !seen {
				order = append(order, emp.Name)
			}
			counts[emp.Name]++
		}
	}

	return rank(order, counts, topEmployeesLimit)
}

// PaymentMix tallies settlement methods into the three fixed buckets.
// All three appear in CASH, UPI, SPLIT order regardless of counts, and
// a SPLIT settlement counts once as SPLIT.
func PaymentMix(filtered []domain.Transaction) []domain.PaymentSlice {
	methods := [3]domain.PaymentMethod{domain.PaymentCash, domain.PaymentUPI, domain.PaymentSplit}
	counts := map[domain.PaymentMethod]int{}
	for _, tx := range filtered {
		counts[tx.PaymentMethod]++
	}
	out := make([]domain.PaymentSlice, len(methods))
	for i, m := range methods {
		out[i] = domain.PaymentSlice{Method: m, Count: counts[m]}
	}
	return out
}

// Report runs the full aggregation pipeline for one query.
func Report(txs []domain.Transaction, employees []domain.Employee, roles []domain.Role, services []domain.ServiceItem, query domain.DashboardQuery, now time.Time) domain.DashboardReport {
	filtered := Filter(txs, query, now)
	return domain.DashboardReport{
		Query:       query,
		Summary:     Summarize(filtered, employees, roles),
		PeakBuckets: PeakBuckets(filtered, query, now),
		TopServices: TopServices(filtered, services),
		TopStaff:    TopEmployees(filtered, employees, roles),
		PaymentMix:  PaymentMix(filtered),
	}
}

// DailyHistory builds a per-calendar-day revenue series covering the
// last `days` days up to and including today. Days without sales are
// present with zeros so the series has a fixed length.
func DailyHistory(txs []domain.Transaction, days int, now time.Time) []domain.DailySales {
	if days <= 0 {
		return nil
	}
	loc := now.Location()
	index := make(map[string]int, days)
	out := make([]domain.DailySales, days)
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, i-(days-1))
		key := day.Format("2006-01-02")
		index[key] = i
		out[i] = domain.DailySales{Date: key}
	}
	for _, tx := range txs {
		key := tx.Date.In(loc).Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			continue
		}
		out[i].Revenue += tx.TotalAmount
		out[i].Orders++
		out[i].Customers++
	}
	return out
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func bucketLabels(query domain.DashboardQuery) []string {
	switch query.Filter {
	case domain.FilterDay:
		labels := make([]string, 24)
		for i := range labels {
			labels[i] = fmt.Sprintf("%02d:00", i)
		}
		return labels
	case domain.FilterWeek:
		return weekdayLabels[:]
	case domain.FilterMonth:
		n := daysInMonth(query.Month, query.Year)
		labels := make([]string, n)
		for i := range labels {
			labels[i] = fmt.Sprintf("%d", i+1)
		}
		return labels
	}
	return nil
}

func bucketKey(t time.Time, filter domain.TimeFilter) string {
	switch filter {
	case domain.FilterDay:
		return fmt.Sprintf("%02d:00", t.Hour())
	case domain.FilterWeek:
		return weekdayLabels[int(t.Weekday())]
	case domain.FilterMonth:
		return fmt.Sprintf("%d", t.Day())
	}
	return ""
}

// daysInMonth handles leap years through time.Date normalization: day
// zero of the following month is the last day of this one.
func daysInMonth(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func rank(order []string, counts map[string]int, limit int) []domain.RankedEntry {
	entries := make([]domain.RankedEntry, 0, len(order))
	for _, name := range order {
		entries = append(entries, domain.RankedEntry{Name: name, Count: counts[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
