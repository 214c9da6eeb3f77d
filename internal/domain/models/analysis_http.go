package models

// Requests for analysis HTTP endpoints. Defined in domain for consistency and reuse.

type AnalysisRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"250" validate:"gte=1,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1d" validate:"oneof=1m 5m 1d"`
}

type IndicatorsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"250" validate:"gte=1,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1d" validate:"oneof=1m 5m 1d"`
}

type ScoreRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"250" validate:"gte=1,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1d" validate:"oneof=1m 5m 1d"`
}

type BarsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	TF     string `query:"tf" json:"tf" default:"1d" validate:"oneof=1m 5m 1d"`
	Limit  int    `query:"limit" json:"limit" default:"10000" validate:"gte=1,lte=50000"`
}

type ScanRequest struct {
	Symbols string `query:"symbols" json:"symbols" validate:"required"`
	N       int    `query:"n" json:"n" default:"250" validate:"gte=1,lte=5000"`
	TF      string `query:"tf" json:"tf" default:"1d" validate:"oneof=1m 5m 1d"`
}
