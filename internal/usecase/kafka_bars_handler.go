package usecase

import (
	"context"
	"encoding/json"
	"time"

	"TickerPulse/internal/domain/models"
	domrepo "TickerPulse/internal/domain/repository"
	pkgkafka "TickerPulse/pkg/kafka"
)

// KafkaBarsHandler consumes sealed bars from Kafka and writes them to storage.
type KafkaBarsHandler struct {
	topic   string
	writer  domrepo.BarWriter
	metrics domrepo.Metrics
}

func NewKafkaBarsHandler(topic string, writer domrepo.BarWriter, metrics domrepo.Metrics) *KafkaBarsHandler {
	return &KafkaBarsHandler{topic: topic, writer: writer, metrics: metrics}
}

func (h *KafkaBarsHandler) Topic() string { return h.topic }

// incoming message schema: {symbol, bucket, o, h, l, c, v}
func (h *KafkaBarsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol string  `json:"symbol"`
		Bucket int64   `json:"bucket"`
		O      float64 `json:"o"`
		H      float64 `json:"h"`
		L      float64 `json:"l"`
		C      float64 `json:"c"`
		V      float64 `json:"v"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.Bucket > 1e11 { // ms
		m.Bucket = m.Bucket / 1000
	}
	// E2E latency from bucket close to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.Bucket, 0)).Seconds())

	start := time.Now()
	err := h.writer.StoreBar(ctx, &models.Bar{
		Bucket: time.Unix(m.Bucket, 0).UTC(),
		Symbol: m.Symbol,
		Open:   m.O,
		High:   m.H,
		Low:    m.L,
		Close:  m.C,
		Volume: m.V,
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordMessageSent("clickhouse", m.Symbol)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaBarsHandler)(nil)
