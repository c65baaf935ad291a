package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"retaildesk/backend/internal/domain"
)

func TestGenerateRequiresAPIKey(t *testing.T) {
	c := NewGeminiClient("", "gemini-3-flash-preview")
	_, err := c.GenerateReport(context.Background(), domain.BusinessProfile{}, domain.KPIMetrics{}, nil)
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestReportPromptContent(t *testing.T) {
	profile := domain.BusinessProfile{
		CompanyName: "Hawkins Coffee",
		Sector:      domain.SectorCafe,
		Branches:    []domain.Branch{{ID: "b1"}, {ID: "b2"}},
	}
	metrics := domain.KPIMetrics{TotalRevenue: 52000, TotalProfit: 18000, GrowthRate: 12.5, CustomerCount: 430}
	history := []domain.DailySales{
		{Date: "2026-03-13", Revenue: 900, Profit: 300},
		{Date: "2026-03-14", Revenue: 1200, Profit: 400},
	}

	prompt := buildReportPrompt(profile, metrics, history)
	for _, want := range []string{
		"Hawkins Coffee",
		string(domain.SectorCafe),
		"Branches: 2",
		"Total Revenue: ₹52000",
		"Growth Rate: 12.5%",
		"Date: 2026-03-14, Rev: ₹1200",
		"Format the output with Markdown",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestReportPromptKeepsLastSevenDays(t *testing.T) {
	var history []domain.DailySales
	for i := 0; i < 10; i++ {
		history = append(history, domain.DailySales{Date: fmt.Sprintf("2026-03-%02d", i+1), Revenue: int64(i)})
	}
	prompt := buildReportPrompt(domain.BusinessProfile{}, domain.KPIMetrics{}, history)
	if strings.Contains(prompt, "2026-03-03") {
		t.Fatalf("prompt includes day outside the 7-day trend")
	}
	if !strings.Contains(prompt, "2026-03-04") || !strings.Contains(prompt, "2026-03-10") {
		t.Fatalf("prompt missing expected trend days:\n%s", prompt)
	}
}
