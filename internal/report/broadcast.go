package report

import (
	"fmt"
	"log/slog"
	"time"

	"arbscout/internal/model"
	"arbscout/internal/random"
)

// Broadcaster announces opportunities. Delivery is simulated: the opportunity
// is logged and a recipient count is drawn.
type Broadcaster struct {
	logger *slog.Logger
	rnd    random.Source
	now    func() time.Time
}

// NewBroadcaster creates a Broadcaster.
func NewBroadcaster(logger *slog.Logger, rnd random.Source) *Broadcaster {
	if rnd == nil {
		rnd = random.Default()
	}
	return &Broadcaster{logger: logger, rnd: rnd, now: time.Now}
}

// Broadcast logs opp at the given priority.
func (b *Broadcaster) Broadcast(opp model.ArbitrageOpportunity, priority model.Priority) (model.BroadcastReceipt, error) {
	if !priority.Valid() {
		return model.BroadcastReceipt{}, fmt.Errorf("unknown priority %q", priority)
	}
	recipients := random.IntRange(b.rnd, 10, 100)
	b.logger.Info("Broadcasting opportunity",
		"priority", priority,
		"symbol", opp.Symbol,
		"profitPercent", opp.ProfitPercent,
		"buyExchange", opp.BuyExchange,
		"sellExchange", opp.SellExchange,
		"recipients", recipients,
	)
	return model.BroadcastReceipt{
		Broadcasted:    true,
		Priority:       priority,
		RecipientCount: recipients,
		Timestamp:      b.now(),
	}, nil
}
