package usecase

import (
	"context"
	"fmt"

	"TickerPulse/internal/domain/models"
	domrepo "TickerPulse/internal/domain/repository"
	"TickerPulse/internal/services/signals"
	"TickerPulse/internal/services/technicals"
)

// Analyzer computes the indicator snapshot and the classified signal list
// for one symbol from its bar history. Indicators are computed
// independently: one failing for lack of history does not block the rest,
// it is recorded in the per-indicator error map instead.
type Analyzer struct {
	store  domrepo.BarStore
	quotes domrepo.QuoteProvider // optional, nil disables options signals
}

func NewAnalyzer(store domrepo.BarStore, quotes domrepo.QuoteProvider) *Analyzer {
	return &Analyzer{store: store, quotes: quotes}
}

// Bars loads the latest n bars for a symbol.
func (a *Analyzer) Bars(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) ([]models.Bar, error) {
	bars, err := a.store.GetLatestNBars(ctx, symbol, n, tf)
	if err != nil {
		return nil, fmt.Errorf("get bars: %w", err)
	}
	return bars, nil
}

// ComputeIndicators builds the full indicator set from a bar window.
// The returned map holds the error text of every indicator that could
// not be computed; an empty map means a complete snapshot.
func (a *Analyzer) ComputeIndicators(bars []models.Bar) (*models.IndicatorSet, map[string]string) {
	closes := models.Closes(bars)
	highs := models.Highs(bars)
	lows := models.Lows(bars)
	volumes := models.Volumes(bars)

	set := &models.IndicatorSet{}
	errs := map[string]string{}

	if v, err := technicals.RSI(closes, technicals.DefaultRSIPeriod); err != nil {
		errs["rsi"] = err.Error()
	} else {
		set.RSI = v
	}

	set.MACD = technicals.MACD(closes, technicals.DefaultMACDFast, technicals.DefaultMACDSlow, technicals.DefaultMACDSignal)
	if len(set.MACD.MACDLine) == 0 {
		errs["macd"] = "insufficient history for macd"
	}

	if v, err := technicals.BollingerBands(closes, technicals.DefaultBollingerPeriod, technicals.DefaultBollingerMult); err != nil {
		errs["bollinger"] = err.Error()
	} else {
		set.Bollinger = v
	}

	if v, err := technicals.Stochastic(highs, lows, closes, technicals.DefaultStochasticK, technicals.DefaultStochasticD); err != nil {
		errs["stochastic"] = err.Error()
	} else {
		set.Stochastic = v
	}

	if v, err := technicals.ATR(highs, lows, closes, technicals.DefaultATRPeriod); err != nil {
		errs["atr"] = err.Error()
	} else {
		set.ATR = v
	}

	if v, err := technicals.OBV(closes, volumes); err != nil {
		errs["obv"] = err.Error()
	} else {
		set.OBV = v
	}

	if v, err := technicals.ADX(highs, lows, closes, technicals.DefaultADXPeriod); err != nil {
		errs["adx"] = err.Error()
	} else {
		set.ADX = v
	}

	set.Position = technicals.Position(closes)
	return set, errs
}

// BuildSignals classifies a computed indicator set into the signal list
// fed to the aggregator. Indicators recorded in errs are skipped, and
// the two options signals appear only when stats are present.
func (a *Analyzer) BuildSignals(set *models.IndicatorSet, volumes []float64, errs map[string]string, opts *models.OptionStats) []models.SignalResult {
	out := make([]models.SignalResult, 0, 10)

	if _, bad := errs["rsi"]; !bad {
		out = append(out, signals.RSISignal(set.RSI))
	}
	if _, bad := errs["macd"]; !bad {
		prev := 0.0
		if n := len(set.MACD.HistogramLine); n >= 2 {
			prev = set.MACD.HistogramLine[n-2]
		}
		out = append(out, signals.MACDSignal(set.MACD.Histogram, prev))
	}

	pos := set.Position
	out = append(out, signals.SMASignal(pos.Price, pos.SMA20, 20))
	out = append(out, signals.CrossSignal(pos.SMA50, pos.SMA200))

	if _, bad := errs["bollinger"]; !bad {
		out = append(out, signals.BollingerSignal(pos.Price, set.Bollinger))
	}
	if _, bad := errs["stochastic"]; !bad {
		out = append(out, signals.StochasticSignal(set.Stochastic.K))
	}

	if len(volumes) > 0 {
		avg, err := technicals.SMA(volumes, 20)
		if err != nil {
			avg = 0
		}
		out = append(out, signals.VolumeSignal(volumes[len(volumes)-1], avg))
	}
	if _, bad := errs["obv"]; !bad {
		out = append(out, signals.OBVSignal(set.OBV.Trend))
	}

	if opts != nil {
		out = append(out, signals.PutCallSignal(opts.PutCallRatio))
		out = append(out, signals.IVRankSignal(opts.IVRank))
	}
	return out
}

// OptionStats fetches options context for a symbol; a nil result means
// the collaborator is absent or failed and the two options signals are
// simply omitted.
func (a *Analyzer) OptionStats(ctx context.Context, symbol string) *models.OptionStats {
	if a.quotes == nil {
		return nil
	}
	stats, err := a.quotes.OptionStats(ctx, symbol)
	if err != nil {
		return nil
	}
	return &stats
}
