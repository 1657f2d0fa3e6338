package usecase

import "time"

// ReportCacheTTL bounds how stale a cached month report can get if
// invalidation is ever missed.
const ReportCacheTTL = 15 * time.Minute
