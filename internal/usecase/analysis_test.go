package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"TickerPulse/internal/domain/models"
	domrepo "TickerPulse/internal/domain/repository"
	"TickerPulse/internal/services/technicals"
)

type fakeBarStore struct {
	bars map[string][]models.Bar
	err  error
}

func (f *fakeBarStore) GetBars(ctx context.Context, symbol string, from, to time.Time, tf domrepo.Timeframe) ([]models.Bar, error) {
	return f.GetLatestNBars(ctx, symbol, 0, tf)
}

func (f *fakeBarStore) GetLatestNBars(_ context.Context, symbol string, n int, _ domrepo.Timeframe) ([]models.Bar, error) {
	if f.err != nil {
		return nil, f.err
	}
	bars := f.bars[symbol]
	if n > 0 && len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	return bars, nil
}

type fakeReportPublisher struct {
	published []*models.SymbolReport
	err       error
}

func (f *fakeReportPublisher) PublishReport(_ context.Context, r *models.SymbolReport) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, r)
	return nil
}

func (f *fakeReportPublisher) Close() error { return nil }

type countingMetrics struct {
	errs map[string]int
}

func (m *countingMetrics) RecordMessageSent(_, _ string)       {}
func (m *countingMetrics) RecordLastPrice(_ string, _ float64) {}
func (m *countingMetrics) RecordLatency(_ string, _ float64)   {}

func (m *countingMetrics) RecordError(kind string) {
	if m.errs == nil {
		m.errs = map[string]int{}
	}
	m.errs[kind]++
}

type fakeQuoteProvider struct {
	stats models.OptionStats
	err   error
}

func (f *fakeQuoteProvider) LastPrice(_ context.Context, _ string) (float64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeQuoteProvider) OptionStats(_ context.Context, symbol string) (models.OptionStats, error) {
	if f.err != nil {
		return models.OptionStats{}, f.err
	}
	s := f.stats
	s.Symbol = symbol
	return s, nil
}

// rampBars produces a gently rising daily series long enough for every
// indicator window.
func rampBars(symbol string, n int) []models.Bar {
	bars := make([]models.Bar, n)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		c := 100 + 0.1*float64(i)
		bars[i] = models.Bar{
			Bucket: start.AddDate(0, 0, i),
			Symbol: symbol,
			Open:   c - 0.05,
			High:   c + 0.5,
			Low:    c - 0.5,
			Close:  c,
			Volume: 1000 + float64(i%7)*50,
		}
	}
	return bars
}

func TestAnalyzeFullHistory(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{"AAPL": rampBars("AAPL", 250)}}
	pub := &fakeReportPublisher{}
	uc := NewAnalysisUseCase(NewAnalyzer(store, nil), pub)

	report, err := uc.Analyze(context.Background(), AnalyzeParams{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Bars != 250 {
		t.Fatalf("expected 250 bars, got %d", report.Bars)
	}
	if report.Errors != nil {
		t.Fatalf("full history should yield a complete snapshot, got errors %v", report.Errors)
	}
	// Eight classifiers without an options collaborator.
	if len(report.Signals) != 8 {
		t.Fatalf("expected 8 signals, got %d", len(report.Signals))
	}
	if report.Score.Total != len(report.Signals) {
		t.Fatalf("score total %d does not match %d signals", report.Score.Total, len(report.Signals))
	}
	wantPrice := 100 + 0.1*249
	if report.Price != wantPrice {
		t.Fatalf("expected price %v, got %v", wantPrice, report.Price)
	}
	if report.Indicators != nil {
		t.Fatal("indicators should be omitted unless requested")
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected 1 published report, got %d", len(pub.published))
	}
}

func TestAnalyzeWithOptionStats(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{"AAPL": rampBars("AAPL", 250)}}
	qp := &fakeQuoteProvider{stats: models.OptionStats{PutCallRatio: 0.5, IVRank: 25}}
	uc := NewAnalysisUseCase(NewAnalyzer(store, qp), nil)

	report, err := uc.Analyze(context.Background(), AnalyzeParams{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Signals) != 10 {
		t.Fatalf("expected 10 signals with options context, got %d", len(report.Signals))
	}
}

func TestAnalyzeOptionsFailureOmitsSignals(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{"AAPL": rampBars("AAPL", 250)}}
	qp := &fakeQuoteProvider{err: errors.New("provider down")}
	uc := NewAnalysisUseCase(NewAnalyzer(store, qp), nil)

	report, err := uc.Analyze(context.Background(), AnalyzeParams{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("a failing options provider must not fail the analysis: %v", err)
	}
	if len(report.Signals) != 8 {
		t.Fatalf("expected options signals omitted, got %d signals", len(report.Signals))
	}
}

func TestAnalyzeShortHistoryIsPartial(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{"AAPL": rampBars("AAPL", 5)}}
	uc := NewAnalysisUseCase(NewAnalyzer(store, nil), nil)

	report, err := uc.Analyze(context.Background(), AnalyzeParams{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("short history should degrade, not fail: %v", err)
	}
	for _, key := range []string{"rsi", "macd", "bollinger", "atr", "adx"} {
		if _, ok := report.Errors[key]; !ok {
			t.Errorf("expected %s in error map, got %v", key, report.Errors)
		}
	}
	// Moving-average and volume signals are always emitted.
	if len(report.Signals) == 0 {
		t.Fatal("partial report should still carry signals")
	}
	if report.Score.Total != len(report.Signals) {
		t.Fatalf("score total %d does not match %d signals", report.Score.Total, len(report.Signals))
	}
}

func TestAnalyzeNoHistory(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{}}
	uc := NewAnalysisUseCase(NewAnalyzer(store, nil), nil)

	_, err := uc.Analyze(context.Background(), AnalyzeParams{Symbol: "ZZZZ"})
	if !errors.Is(err, technicals.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestAnalyzeStoreError(t *testing.T) {
	store := &fakeBarStore{err: errors.New("connection refused")}
	uc := NewAnalysisUseCase(NewAnalyzer(store, nil), nil)

	_, err := uc.Analyze(context.Background(), AnalyzeParams{Symbol: "AAPL"})
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestAnalyzeRequiresSymbol(t *testing.T) {
	uc := NewAnalysisUseCase(NewAnalyzer(&fakeBarStore{}, nil), nil)
	if _, err := uc.Analyze(context.Background(), AnalyzeParams{}); err == nil {
		t.Fatal("expected error on empty symbol")
	}
}

func TestAnalyzePublishFailureIsBestEffort(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{"AAPL": rampBars("AAPL", 250)}}
	pub := &fakeReportPublisher{err: errors.New("broker down")}
	uc := NewAnalysisUseCase(NewAnalyzer(store, nil), pub)
	m := &countingMetrics{}
	uc.SetMetrics(m)

	if _, err := uc.Analyze(context.Background(), AnalyzeParams{Symbol: "AAPL"}); err != nil {
		t.Fatalf("publish failure must not fail the request: %v", err)
	}
	if got := m.errs["report_publish"]; got != 1 {
		t.Fatalf("expected 1 report_publish error recorded, got %d", got)
	}
}

func TestIndicatorsStripsClassification(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{"AAPL": rampBars("AAPL", 250)}}
	uc := NewAnalysisUseCase(NewAnalyzer(store, nil), nil)

	report, err := uc.Indicators(context.Background(), AnalyzeParams{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Indicators == nil {
		t.Fatal("expected raw indicator snapshot")
	}
	if report.Signals != nil {
		t.Fatalf("indicators endpoint must not carry signals, got %d", len(report.Signals))
	}
	if report.Score.Total != 0 {
		t.Fatalf("indicators endpoint must not carry a score, got %+v", report.Score)
	}
}

func TestScoreOnly(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{"AAPL": rampBars("AAPL", 250)}}
	uc := NewAnalysisUseCase(NewAnalyzer(store, nil), nil)

	score, err := uc.Score(context.Background(), AnalyzeParams{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score.Total != 8 {
		t.Fatalf("expected 8 aggregated signals, got %d", score.Total)
	}
	if score.BullishCount+score.BearishCount+score.NeutralCount != score.Total {
		t.Fatalf("counts do not sum to total: %+v", score)
	}
}

func TestScanPreservesOrderAndIsolatesFailures(t *testing.T) {
	store := &fakeBarStore{bars: map[string][]models.Bar{
		"AAA": rampBars("AAA", 250),
		"CCC": rampBars("CCC", 250),
	}}
	uc := NewAnalysisUseCase(NewAnalyzer(store, nil), nil)

	entries := uc.Scan(context.Background(), []string{"AAA", "BAD", "CCC"}, 250, domrepo.TF1d)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"AAA", "BAD", "CCC"} {
		if entries[i].Symbol != want {
			t.Fatalf("entry %d is %q, want %q", i, entries[i].Symbol, want)
		}
	}
	if entries[1].Error == "" {
		t.Fatal("expected inline error for unknown symbol")
	}
	if entries[0].Score.Total == 0 || entries[2].Score.Total == 0 {
		t.Fatalf("healthy symbols should score: %+v", entries)
	}
}
