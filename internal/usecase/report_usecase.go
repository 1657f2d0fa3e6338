package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/frank113/FinDash/internal/domain"
)

// ReportUseCase builds budget reports and trend series.
type ReportUseCase struct {
	ledgerStore   LedgerStore
	categoryStore CategoryStore
	cache         ReportCache
	group         singleflight.Group
}

// NewReportUseCase creates a new ReportUseCase. cache may be nil.
func NewReportUseCase(ledgerStore LedgerStore, categoryStore CategoryStore, cache ReportCache) *ReportUseCase {
	return &ReportUseCase{
		ledgerStore:   ledgerStore,
		categoryStore: categoryStore,
		cache:         cache,
	}
}

// MonthReportInput represents input for a single-month budget report.
// An empty Accounts slice means every account.
type MonthReportInput struct {
	Month    domain.Month
	Accounts []string
}

// MonthReport returns the budget-vs-goal report for one month, serving
// from the cache when a fresh copy exists.
func (uc *ReportUseCase) MonthReport(ctx context.Context, input MonthReportInput) (*domain.BudgetReport, error) {
	if input.Month.IsZero() {
		return nil, domain.ErrInvalidMonth
	}

	// 1. Cache first. Any cache failure degrades to a rebuild.
	key := reportCacheKey(input.Month, input.Accounts)
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, key); err == nil && raw != nil {
			var report domain.BudgetReport
			if err := json.Unmarshal(raw, &report); err == nil {
				return &report, nil
			}
		}
	}

	// 2. Build from a ledger snapshot. Concurrent requests for the same
	// key share one build instead of racing to snapshot the ledger.
	built, err, _ := uc.group.Do(key, func() (any, error) {
		report, err := uc.buildReport(ctx, input.Month, input.Accounts)
		if err != nil {
			return nil, err
		}

		// 3. Store for the next reader.
		if uc.cache != nil {
			if raw, err := json.Marshal(report); err == nil {
				_ = uc.cache.Set(ctx, key, raw, ReportCacheTTL)
			}
		}
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return built.(*domain.BudgetReport), nil
}

// TrendInput represents input for a multi-month report series.
type TrendInput struct {
	From     domain.Month
	To       domain.Month
	Accounts []string
}

// TrendReport returns one report per month from From through To
// inclusive. The series is built from a single snapshot so every month
// reflects the same ledger state.
func (uc *ReportUseCase) TrendReport(ctx context.Context, input TrendInput) ([]*domain.BudgetReport, error) {
	if err := domain.ValidateMonthRange(input.From, input.To); err != nil {
		return nil, err
	}

	ledger, err := uc.ledgerStore.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := uc.categoryStore.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Trend(ledger, input.From, input.To, input.Accounts, categories)
}

func (uc *ReportUseCase) buildReport(ctx context.Context, month domain.Month, accounts []string) (*domain.BudgetReport, error) {
	ledger, err := uc.ledgerStore.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := uc.categoryStore.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Aggregate(ledger, month, accounts, categories), nil
}

// reportCacheKey builds the cache key for a month report. The month
// leads so InvalidateMonths can drop every account scope of a month
// with one prefix match; the account set is sorted so equivalent
// requests share an entry.
func reportCacheKey(month domain.Month, accounts []string) string {
	scope := "all"
	if len(accounts) > 0 {
		sorted := append([]string(nil), accounts...)
		sort.Strings(sorted)
		scope = strings.Join(sorted, ",")
	}
	return fmt.Sprintf("report:%s:%s", month, scope)
}

// invalidateMonths drops cached reports for the given months after a
// ledger mutation. Best effort: a missed invalidation ages out with the
// cache TTL.
func invalidateMonths(ctx context.Context, cache ReportCache, months []domain.Month) {
	if cache == nil || len(months) == 0 {
		return
	}
	_ = cache.InvalidateMonths(ctx, months)
}

// invalidateAllReports drops every cached report. Used when category
// metadata changes, since goals and names shape every month's report.
func invalidateAllReports(ctx context.Context, cache ReportCache) {
	if cache == nil {
		return
	}
	_ = cache.InvalidateAll(ctx)
}
