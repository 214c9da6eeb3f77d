package usecase

import (
	"context"
	"fmt"

	domrepo "TickerPulse/internal/domain/repository"
	pkgqueue "TickerPulse/pkg/queue"
)

// ScanPayload is the queue message for a background watchlist refresh.
type ScanPayload struct {
	Symbols []string `json:"symbols"`
	N       int      `json:"n"`
	TF      string   `json:"tf"`
}

// ScanJob refreshes watchlist reports off the request path. Each
// analyzed symbol is published to the reports topic as a side effect,
// keeping dashboard consumers warm between user requests.
type ScanJob struct {
	uc *AnalysisUseCase
}

func NewScanJob(uc *AnalysisUseCase) *ScanJob {
	return &ScanJob{uc: uc}
}

func (j *ScanJob) Name() string { return "watchlist_scan" }
func (j *ScanJob) Type() string { return "scan" }

func (j *ScanJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := pkgqueue.ParsePayload[ScanPayload](payload)
	if err != nil {
		return fmt.Errorf("scan payload: %w", err)
	}
	if len(p.Symbols) == 0 {
		return nil
	}
	tf := domrepo.NormalizeTimeframe(p.TF)
	for _, sym := range p.Symbols {
		// Analyze publishes the report; per-symbol failures are skipped
		// so one dead symbol cannot stall the refresh loop.
		_, _ = j.uc.Analyze(ctx, AnalyzeParams{Symbol: sym, N: p.N, Timeframe: tf})
	}
	return nil
}

var _ pkgqueue.Job = (*ScanJob)(nil)
