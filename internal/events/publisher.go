package events

import (
	"time"

	"github.com/riteshkumar/account-ledger/internal/models"
)

const TopicTransactionRecorded = "transaction_recorded"

// Publisher emits domain events to downstream consumers. Publishing is
// best-effort: the transaction service logs failures and carries on, since
// the ledger row is the source of truth.
type Publisher interface {
	Publish(topic string, event any) error
}

// TransactionRecorded is emitted for every ledger append, successful or
// failed mutations alike.
type TransactionRecorded struct {
	TransactionID   string                       `json:"transaction_id"`
	AccountNumber   string                       `json:"account_number"`
	TransactionType models.TransactionType       `json:"transaction_type"`
	Result          models.TransactionResultType `json:"transaction_result_type"`
	Amount          int64                        `json:"amount"`
	BalanceSnapshot int64                        `json:"balance_snapshot"`
	OccurredAt      time.Time                    `json:"occurred_at"`
}

// NoopPublisher discards all events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(topic string, event any) error {
	return nil
}

var _ Publisher = NoopPublisher{}
