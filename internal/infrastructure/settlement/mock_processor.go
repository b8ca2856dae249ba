package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/port"
)

// mockProcessor approves every charge and issues a prefixed six-digit id.
type mockProcessor struct {
	logger  *slog.Logger
	method  string
	prefix  string
	message string
}

func (p mockProcessor) settle(ctx context.Context, txn model.Transaction) (model.SettlementResult, error) {
	if err := ctx.Err(); err != nil {
		return model.SettlementResult{}, fmt.Errorf("%s: %w", p.method, err)
	}
	id := fmt.Sprintf("%s%06d", p.prefix, 100000+rand.IntN(900000))

	p.logger.Info("payment settled",
		slog.String("channel", p.method),
		slog.String("settlement_id", id),
		slog.String("amount", txn.Amount().String()),
		slog.String("currency", txn.Currency()),
	)

	return model.SettlementResult{
		Channel:      p.method,
		SettlementID: id,
		Message:      p.message,
		Success:      true,
	}, nil
}

// All returns every built-in channel.
func All(logger *slog.Logger) []port.SettlementChannel {
	return []port.SettlementChannel{
		NewCreditCardChannel(logger),
		NewAlipayChannel(logger),
		NewWeChatPayChannel(logger),
	}
}
