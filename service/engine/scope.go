package engine

import (
	"context"

	"dsc/core"

	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/yiplee/structs"
)

// scope one guarded top-level operation
type scope struct {
	action    core.ActionType
	caller    string
	parts     []core.Revertible
	snapshots []int
	events    []core.Event
}

func (s *scope) emit(evt core.Event) {
	s.events = append(s.events, evt)
}

func (s *scope) revert() {
	for i := len(s.parts) - 1; i >= 0; i-- {
		s.parts[i].RevertToSnapshot(s.snapshots[i])
	}

	s.events = nil
}

func (s *scope) commit() {
	for i := len(s.parts) - 1; i >= 0; i-- {
		s.parts[i].Commit(s.snapshots[i])
	}
}

type eventView struct {
	Event   string `json:"event"`
	From    string `json:"from"`
	To      string `json:"to,omitempty"`
	AssetID string `json:"asset_id,omitempty"`
	Amount  string `json:"amount"`
}

func eventFields(evt core.Event) logrus.Fields {
	return structs.Map(eventView{
		Event:   string(evt.Type),
		From:    evt.From,
		To:      evt.To,
		AssetID: evt.AssetID,
		Amount:  evt.Amount.Dec(),
	})
}

// execute runs fn as one atomic operation
//
// A second guarded call while fn runs fails with ErrReentrantCall. When fn
// returns an error every revertible state holder is rolled back and no event
// is published.
func (e *Engine) execute(ctx context.Context, action core.ActionType, caller string, fn func(ctx context.Context, s *scope) error) error {
	if !e.entered.CompareAndSwap(false, true) {
		return core.ErrReentrantCall
	}
	defer e.entered.Store(false)

	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"action": action.String(),
		"caller": caller,
	})

	s := &scope{
		action:    action,
		caller:    caller,
		parts:     e.revertibles,
		snapshots: make([]int, len(e.revertibles)),
	}

	for i, part := range s.parts {
		s.snapshots[i] = part.Snapshot()
	}

	if err := fn(ctx, s); err != nil {
		s.revert()
		log.WithError(err).Debugln("operation reverted")
		return err
	}

	s.commit()

	op := &core.Operation{
		Action:      action,
		Caller:      caller,
		Events:      s.events,
		CommittedAt: e.now(),
	}

	for _, evt := range op.Events {
		log.WithFields(eventFields(evt)).Infoln("emit", evt.Type)
	}

	for _, sink := range e.sinks {
		sink.OnCommit(ctx, op)
	}

	return nil
}
