package cache

import (
	"context"
	"time"

	"retaildesk/backend/internal/domain"
)

// ReportCache stores generated advisor reports keyed by a fingerprint
// of the inputs, so identical KPI snapshots do not hit the generative
// backend twice inside the TTL.
type ReportCache interface {
	Get(ctx context.Context, key string) (*domain.AdvisorReportResponse, bool, error)
	Set(ctx context.Context, key string, value *domain.AdvisorReportResponse, ttl time.Duration) error
}

type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string) (*domain.AdvisorReportResponse, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ *domain.AdvisorReportResponse, _ time.Duration) error {
	return nil
}
