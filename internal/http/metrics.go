package http

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"giftledger/internal/core"
)

// handleMetrics provides ledger and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	entries := s.ledger.Entries()
	active := core.FilterByStatus(entries, core.StatusActive)
	completed := core.FilterByStatus(entries, core.StatusCompleted)

	rateLimitHits := atomic.LoadInt64(&s.metrics.rateLimitHits)
	suspicious := atomic.LoadInt64(&s.metrics.suspiciousRequests)
	uptime := time.Since(s.started)

	w.WriteHeader(http.StatusOK)

	// Prometheus text format
	fmt.Fprintf(w, "# HELP ledger_entries Current number of gift-card entries\n")
	fmt.Fprintf(w, "# TYPE ledger_entries gauge\n")
	fmt.Fprintf(w, "ledger_entries{status=\"active\"} %d\n", len(active))
	fmt.Fprintf(w, "ledger_entries{status=\"completed\"} %d\n\n", len(completed))

	fmt.Fprintf(w, "# HELP ledger_amount_won Summed entry amounts in won\n")
	fmt.Fprintf(w, "# TYPE ledger_amount_won gauge\n")
	fmt.Fprintf(w, "ledger_amount_won{status=\"active\"} %d\n", core.SumAmount(active))
	fmt.Fprintf(w, "ledger_amount_won{status=\"completed\"} %d\n\n", core.SumAmount(completed))

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", rateLimitHits)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", suspicious)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", s.rateLimiter.activeClients())

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", uptime.Seconds())
}
