package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TickerPulse/internal/domain/models"
	domrepo "TickerPulse/internal/domain/repository"
	"TickerPulse/internal/services/signals"
	"TickerPulse/internal/services/technicals"
)

// AnalysisUseCase assembles full symbol reports on top of the Analyzer
// and publishes them for downstream consumers.
type AnalysisUseCase struct {
	an      *Analyzer
	reports domrepo.ReportPublisher // optional
	metrics domrepo.Metrics         // optional
	timeout time.Duration
}

func NewAnalysisUseCase(an *Analyzer, reports domrepo.ReportPublisher) *AnalysisUseCase {
	return &AnalysisUseCase{an: an, reports: reports, timeout: 10 * time.Second}
}

// SetMetrics injects the operational metrics recorder.
func (uc *AnalysisUseCase) SetMetrics(m domrepo.Metrics) { uc.metrics = m }

type AnalyzeParams struct {
	Symbol    string
	N         int
	Timeframe domrepo.Timeframe
	// WithIndicators includes the raw indicator snapshot in the report;
	// the score endpoints leave it off to keep payloads small.
	WithIndicators bool
}

func (uc *AnalysisUseCase) Analyze(ctx context.Context, p AnalyzeParams) (*models.SymbolReport, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.N <= 0 {
		p.N = 250
	}
	if p.N > 5000 {
		p.N = 5000
	}
	if p.Timeframe == "" {
		p.Timeframe = domrepo.DefaultTimeframe()
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	bars, err := uc.an.Bars(ctx, p.Symbol, p.N, p.Timeframe)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("analyze %s: no history: %w", p.Symbol, technicals.ErrInsufficientData)
	}

	set, errs := uc.an.ComputeIndicators(bars)
	opts := uc.an.OptionStats(ctx, p.Symbol)
	results := uc.an.BuildSignals(set, models.Volumes(bars), errs, opts)

	report := &models.SymbolReport{
		Symbol:    p.Symbol,
		Timeframe: string(p.Timeframe),
		Timestamp: time.Now(),
		Bars:      len(bars),
		Price:     set.Position.Price,
		Signals:   results,
		Score:     signals.Aggregate(results),
	}
	if p.WithIndicators {
		report.Indicators = set
	}
	if len(errs) > 0 {
		report.Errors = errs
	}

	if uc.reports != nil {
		// Best effort: a publish failure never fails the request, but it
		// is counted so a dead reports topic stays visible.
		if err := uc.reports.PublishReport(ctx, report); err != nil && uc.metrics != nil {
			uc.metrics.RecordError("report_publish")
		}
	}
	return report, nil
}

// Indicators returns the raw indicator snapshot without classification.
func (uc *AnalysisUseCase) Indicators(ctx context.Context, p AnalyzeParams) (*models.SymbolReport, error) {
	p.WithIndicators = true
	report, err := uc.Analyze(ctx, p)
	if err != nil {
		return nil, err
	}
	report.Signals = nil
	report.Score = models.AggregateScore{}
	return report, nil
}

// Score returns only the aggregate consensus for a symbol.
func (uc *AnalysisUseCase) Score(ctx context.Context, p AnalyzeParams) (*models.AggregateScore, error) {
	p.WithIndicators = false
	report, err := uc.Analyze(ctx, p)
	if err != nil {
		return nil, err
	}
	return &report.Score, nil
}

// Scan scores a watchlist concurrently. Per-symbol failures are reported
// inline so one bad symbol does not sink the whole scan; entries come
// back in input order.
func (uc *AnalysisUseCase) Scan(ctx context.Context, symbols []string, n int, tf domrepo.Timeframe) []models.ScanEntry {
	entries := make([]models.ScanEntry, len(symbols))
	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			score, err := uc.Score(ctx, AnalyzeParams{Symbol: sym, N: n, Timeframe: tf})
			if err != nil {
				entries[i] = models.ScanEntry{Symbol: sym, Error: err.Error()}
				return
			}
			entries[i] = models.ScanEntry{Symbol: sym, Score: *score}
		}(i, sym)
	}
	wg.Wait()
	return entries
}
