package bus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-equity/internal/logger"
	"github.com/rxtech-lab/argo-equity/internal/metrics"
	"github.com/rxtech-lab/argo-equity/internal/types"
	"github.com/rxtech-lab/argo-equity/mocks"
)

func BenchmarkPublish(b *testing.B) {
	m, err := metrics.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		b.Fatal(err)
	}

	eventBus := NewEventBus(logger.NewNop(), m)
	for range 8 {
		eventBus.Subscribe([]types.EventType{types.EventTypePriceBar, types.EventTypeMarketBar}, func(types.Event) error {
			return nil
		})
	}

	gen := mocks.NewDataGenerator(42)
	market := gen.Generate(mocks.DefaultConfig())
	config := mocks.DefaultConfig()
	config.Symbol = "AAPL"
	events := mocks.Interleave(
		mocks.Events(types.EventTypeMarketBar, market),
		mocks.Events(types.EventTypePriceBar, gen.GenerateCorrelated(market, config, 1.2, 0)),
	)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		eventBus.Publish(events[i%len(events)])
	}
}
