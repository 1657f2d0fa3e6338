package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Import metrics
	ImportsCompleted prometheus.Counter
	ImportsFailed    prometheus.Counter
	ImportDuration   prometheus.Histogram
	RowsAdmitted     prometheus.Counter
	RowsDuplicate    prometheus.Counter
	RowsMalformed    prometheus.Counter

	// Transaction metrics
	SplitsCreated prometheus.Counter
	SplitsUndone  prometheus.Counter
	Categorized   *prometheus.CounterVec

	// Report metrics
	ReportsBuilt   prometheus.Counter
	ReportDuration prometheus.Histogram

	// Catalog metrics
	AccountsCreated   prometheus.Counter
	CategoriesCreated prometheus.Counter
	RulesCreated      prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Import metrics
		ImportsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "findash_imports_completed_total",
			Help: "Total number of statement imports committed",
		}),
		ImportsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "findash_imports_failed_total",
			Help: "Total number of statement imports that failed or aborted",
		}),
		ImportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "findash_import_duration_seconds",
			Help:    "Duration of statement imports",
			Buckets: prometheus.DefBuckets,
		}),
		RowsAdmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "findash_import_rows_admitted_total",
			Help: "Total statement rows admitted to the ledger",
		}),
		RowsDuplicate: promauto.NewCounter(prometheus.CounterOpts{
			Name: "findash_import_rows_duplicate_total",
			Help: "Total statement rows skipped as already imported",
		}),
		RowsMalformed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "findash_import_rows_malformed_total",
			Help: "Total statement rows rejected as malformed",
		}),

		// Transaction metrics
		SplitsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "findash_splits_created_total",
			Help: "Total number of transactions split into parts",
		}),
		SplitsUndone: promauto.NewCounter(prometheus.CounterOpts{
			Name: "findash_splits_undone_total",
			Help: "Total number of splits undone",
		}),
		Categorized: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findash_transactions_categorized_total",
				Help: "Total category assignments by action",
			},
			[]string{"action"},
		),

		// Report metrics
		ReportsBuilt: promauto.NewCounter(prometheus.CounterOpts{
			Name: "findash_reports_built_total",
			Help: "Total number of month reports served",
		}),
		ReportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "findash_report_duration_seconds",
			Help:    "Duration of report requests",
			Buckets: prometheus.DefBuckets,
		}),

		// Catalog metrics
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "findash_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		CategoriesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "findash_categories_created_total",
			Help: "Total number of categories created",
		}),
		RulesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "findash_rules_created_total",
			Help: "Total number of categorization rules created",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findash_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "findash_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}
