package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Transaction persisted record of a committed engine operation
type Transaction struct {
	ID        int64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	TraceID   string         `sql:"size:36;unique_index:idx_transactions_trace_id" json:"trace_id,omitempty"`
	Action    ActionType     `json:"action,omitempty"`
	Caller    string         `sql:"size:64;index:idx_transactions_caller" json:"caller,omitempty"`
	Target    string         `sql:"size:64;index:idx_transactions_target" json:"target,omitempty"`
	AssetID   string         `sql:"size:64" json:"asset_id,omitempty"`
	Amount    string         `sql:"size:80" json:"amount,omitempty"`
	Data      types.JSONText `sql:"type:TEXT" json:"data,omitempty"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP;index:idx_transactions_created_at" json:"created_at,omitempty"`
}

// SetEvents store the operation events as json data
func (t *Transaction) SetEvents(events []Event) {
	data, err := json.Marshal(events)
	if err != nil {
		data = []byte("[]")
	}

	t.Data = data
}

// UnmarshalEvents decode the operation events
func (t *Transaction) UnmarshalEvents() ([]Event, error) {
	var events []Event
	if len(t.Data) == 0 {
		return events, nil
	}

	if err := json.Unmarshal(t.Data, &events); err != nil {
		return nil, err
	}

	return events, nil
}

// TransactionStore transaction store interface
type TransactionStore interface {
	Create(ctx context.Context, transaction *Transaction) error
	FindByTraceID(ctx context.Context, traceID string) (*Transaction, error)
	List(ctx context.Context, offset time.Time, limit int) ([]*Transaction, error)
	ListByAccount(ctx context.Context, account string, limit int) ([]*Transaction, error)
}
