package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"retaildesk/backend/internal/ai"
	"retaildesk/backend/internal/analytics"
	"retaildesk/backend/internal/domain"
	"retaildesk/backend/internal/store"
)

var ErrAdvisorUnavailable = errors.New("advisor is not configured")

// AdvisorReport generates the markdown insight report for the current
// workspace. Identical KPI snapshots are served from the report cache
// inside the TTL. Generation failures surface as errors; an empty
// model response degrades to the fixed fallback text.
func (s *Service) AdvisorReport(ctx context.Context, req domain.AdvisorReportRequest) (*domain.AdvisorReportResponse, error) {
	if s.generator == nil {
		return nil, ErrAdvisorUnavailable
	}
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	history := analytics.DailyHistory(snap.Transactions, 7, s.now())
	key := reportCacheKey(*snap.Profile, req.Metrics, history)

	if cached, ok, err := s.reports.Get(ctx, key); err != nil {
		log.Printf("[service] WARN: report cache get: %v", err)
	} else if ok {
		cached.Cached = true
		return cached, nil
	}

	text, err := s.generator.GenerateReport(ctx, *snap.Profile, req.Metrics, history)
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		text = ai.ReportEmptyFallback
	}

	resp := &domain.AdvisorReportResponse{Report: text}
	if err := s.reports.Set(ctx, key, resp, s.reportTTL); err != nil {
		log.Printf("[service] WARN: report cache set: %v", err)
	}
	return resp, nil
}

// Chat relays a conversation turn to the assistant. Unlike the
// report, chat never surfaces transport errors to the operator; the
// reply degrades to a fixed apology instead.
func (s *Service) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if s.generator == nil {
		return nil, ErrAdvisorUnavailable
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", store.ErrInvalidInput)
	}

	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	businessContext := req.Context
	if businessContext == "" {
		businessContext = defaultChatContext(snap, s.now)
	}

	reply, err := s.generator.Chat(ctx, req.History, message, businessContext)
	if err != nil {
		log.Printf("[service] WARN: chat failed: %v", err)
		return &domain.ChatResponse{Reply: ai.ChatErrorFallback}, nil
	}
	if strings.TrimSpace(reply) == "" {
		reply = ai.ChatEmptyFallback
	}
	return &domain.ChatResponse{Reply: reply}, nil
}

func reportCacheKey(profile domain.BusinessProfile, metrics domain.KPIMetrics, history []domain.DailySales) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%d|%d|%.2f|%d",
		profile.CompanyName, profile.Sector, len(profile.Branches),
		metrics.TotalRevenue, metrics.TotalProfit, metrics.GrowthRate, metrics.CustomerCount)
	for _, d := range history {
		fmt.Fprintf(h, "|%s:%d:%d", d.Date, d.Revenue, d.Orders)
	}
	return "advisor:report:" + hex.EncodeToString(h.Sum(nil))
}

func defaultChatContext(snap *domain.Snapshot, now func() time.Time) string {
	today := analytics.Filter(snap.Transactions, domain.DashboardQuery{Filter: domain.FilterDay}, now())
	summary := analytics.Summarize(today, snap.Employees, snap.Roles)
	return fmt.Sprintf("Company: %s. Sector: %s. Today: ₹%d revenue across %d orders.",
		snap.Profile.CompanyName, snap.Profile.Sector, summary.Revenue, summary.Orders)
}
