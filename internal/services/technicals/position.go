package technicals

import "TickerPulse/internal/domain/models"

// Position reports where the latest close sits relative to the standard
// moving averages. Windows longer than the available history fall back
// to the current price itself, which keeps small datasets usable at the
// cost of muting those comparisons.
func Position(closes []float64) models.PricePosition {
	if len(closes) == 0 {
		return models.PricePosition{}
	}
	price := closes[len(closes)-1]

	smaOr := func(period int) float64 {
		v, err := SMA(closes, period)
		if err != nil {
			return price
		}
		return v
	}
	emaOr := func(period int) float64 {
		s := EMASeries(closes, period)
		if len(s) == 0 {
			return price
		}
		return s[len(s)-1]
	}

	p := models.PricePosition{
		Price:  price,
		SMA20:  smaOr(20),
		SMA50:  smaOr(50),
		SMA200: smaOr(200),
		EMA12:  emaOr(12),
		EMA26:  emaOr(26),
	}
	p.AboveSMA20 = price > p.SMA20
	p.AboveSMA50 = price > p.SMA50
	p.AboveSMA200 = price > p.SMA200
	p.AboveEMA12 = price > p.EMA12
	p.AboveEMA26 = price > p.EMA26
	p.GoldenCross = p.SMA50 > p.SMA200
	p.DeathCross = p.SMA50 < p.SMA200
	return p
}
