package check

import (
	"context"

	"github.com/geradorbr/cnpj-tools/internal/config"
	applog "github.com/geradorbr/cnpj-tools/pkg/log"
)

// Summary aggregates one checker run.
type Summary struct {
	Total      int    // identifiers loaded from the input file
	Completed  int    // lookups that produced a result row
	OK         int    // rows where the source resolved the identifier
	Active     int    // rows whose status reads as an active registration
	Failed     int    // rows carrying a lookup error
	ReportPath string // CSV location
}

// Checker wires the fetcher chain, the provider and the report writer
// for one run.
type Checker struct {
	cfg *config.CheckConfig

	// provider and report, when set, bypass the configured source and
	// the CSV file. Tests inject stubs here.
	provider Provider
	report   *ReportWriter
}

// New builds a Checker from a validated configuration.
func New(cfg *config.CheckConfig) *Checker {
	return &Checker{cfg: cfg}
}

// newFetcherChain assembles the decorators inside-out: base transport,
// then throttling, then User-Agent injection, then retry. Retry sits
// outermost so every attempt is throttled and gets a fresh identity.
func (ck *Checker) newFetcherChain() (Fetcher, *HTTPFetcher, error) {
	base, err := NewHTTPFetcher(ck.cfg.TimeoutDuration(), ck.cfg.Proxies)
	if err != nil {
		return nil, nil, err
	}

	var f Fetcher = base
	if ck.cfg.RequestsPerSecond > 0 {
		f = NewRateLimitFetcher(f, ck.cfg.RequestsPerSecond)
	}
	f = NewUserAgentFetcher(f, nil)
	if ck.cfg.MaxRetries > 0 {
		f = NewRetryFetcher(f, ck.cfg.MaxRetries, ck.cfg.RetryDelayDuration())
	}

	return f, base, nil
}

// newProvider maps the configured provider name to an implementation.
// config validation has already constrained the value.
func (ck *Checker) newProvider(f Fetcher) Provider {
	if ck.cfg.Provider == "api" {
		return NewAPIProvider(f, "")
	}
	return NewBizProvider(f, "")
}

// Run checks every identifier in the input file and streams the rows to
// the CSV report. Cancellation stops the pool cleanly; everything
// written so far stays in the report.
func (ck *Checker) Run(ctx context.Context) (*Summary, error) {
	// The pool is fed from this derived context so that an early return
	// below always unwinds the feeder and the workers.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ids, err := ReadIdentifiers(ck.cfg.InputFile)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrNoIdentifiers
	}

	provider := ck.provider
	if provider == nil {
		chain, base, err := ck.newFetcherChain()
		if err != nil {
			return nil, err
		}
		defer base.CloseIdleConnections()

		provider = ck.newProvider(chain)
	}

	report := ck.report
	if report == nil {
		report, err = NewReportWriter(ck.cfg.OutputDir, provider.Name())
		if err != nil {
			return nil, err
		}
	}

	summary := &Summary{
		Total:      len(ids),
		ReportPath: report.Path(),
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"provider":    provider.Name(),
		"identifiers": len(ids),
		"workers":     ck.cfg.Workers,
		"report":      report.Path(),
	}).Info("starting catalog check")

	results := RunPool(ctx, provider, ids, ck.cfg.Workers)
	for r := range results {
		if err := report.Write(r); err != nil {
			// Release the pool before leaving: cancel stops the feeder and
			// unblocks pending sends, the drain lets the channel close.
			cancel()
			for range results {
			}
			_ = report.Close()
			return summary, err
		}

		summary.Completed++
		if r.Err != nil {
			summary.Failed++
			applog.WithComponentAndFields(component, applog.Fields{
				"identifier": r.Identifier.String(),
				"url":        r.SourceURL,
			}).WithError(r.Err).Warn("lookup failed")
			continue
		}
		if r.OK {
			summary.OK++
		}
		if isActiveStatus(r.Status) {
			summary.Active++
		}
	}

	if err := report.Close(); err != nil {
		return summary, err
	}

	if ctx.Err() != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"completed": summary.Completed,
			"total":     summary.Total,
		}).Warn("check interrupted; partial report kept")
		return summary, ctx.Err()
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"completed": summary.Completed,
		"ok":        summary.OK,
		"active":    summary.Active,
		"failed":    summary.Failed,
		"report":    summary.ReportPath,
	}).Info("catalog check finished")

	return summary, nil
}
