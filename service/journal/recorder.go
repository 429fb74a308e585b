package journal

import (
	"context"

	"dsc/core"
	"dsc/pkg/id"

	"github.com/fox-one/pkg/logger"
)

type traceKey struct{}

// WithTraceID pins the trace id of the operation run with ctx
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceIDFrom trace id pinned on ctx, empty if none
func TraceIDFrom(ctx context.Context) string {
	traceID, _ := ctx.Value(traceKey{}).(string)
	return traceID
}

// Recorder persists every committed operation as a transaction
type Recorder struct {
	transactions core.TransactionStore
}

// New new recorder
func New(transactions core.TransactionStore) *Recorder {
	return &Recorder{transactions: transactions}
}

// OnCommit implements core.EventSink
func (r *Recorder) OnCommit(ctx context.Context, op *core.Operation) {
	log := logger.FromContext(ctx)

	traceID := TraceIDFrom(ctx)
	if traceID == "" {
		traceID = id.GenTraceID()
	}

	transaction := Transaction(traceID, op)
	if err := r.transactions.Create(ctx, transaction); err != nil {
		log.WithError(err).Errorln("transactions.Create", traceID)
		return
	}

	log.Debugln("transaction recorded", traceID, op.Action)
}

// Transaction builds the record of op
func Transaction(traceID string, op *core.Operation) *core.Transaction {
	t := &core.Transaction{
		TraceID:   traceID,
		Action:    op.Action,
		Caller:    op.Caller,
		CreatedAt: op.CommittedAt,
	}

	if len(op.Events) > 0 {
		primary := op.Events[0]
		if op.Action == core.ActionTypeLiquidate {
			primary = op.Events[len(op.Events)-1]
		}

		t.Target = primary.From
		t.AssetID = primary.AssetID
		if primary.Amount != nil {
			t.Amount = primary.Amount.Dec()
		}
	}

	t.SetEvents(op.Events)
	return t
}
