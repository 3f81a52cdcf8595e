package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/lingualeap-backend/internal/data/aggregates"
	"github.com/yungbote/lingualeap-backend/internal/platform/dbctx"
)

// InjectedTxRunner is a test helper for aggregate tests.
// It supports rollback/failure injection without touching a real DB. OnBegin and
// OnRollback let an in-memory store snapshot itself and restore on rollback.
type InjectedTxRunner struct {
	mu sync.Mutex

	FailBegin      error
	FailBeforeBody error
	FailCommit     error

	OnBegin    func()
	OnRollback func()

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	failBeforeBody := r.FailBeforeBody
	failCommit := r.FailCommit
	onBegin, onRollback := r.OnBegin, r.OnRollback
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	if onBegin != nil {
		onBegin()
	}
	rollback := func() {
		r.mu.Lock()
		r.RollbackCalls++
		r.mu.Unlock()
		if onRollback != nil {
			onRollback()
		}
	}
	if failBeforeBody != nil {
		rollback()
		return failBeforeBody
	}
	if fn == nil {
		r.mu.Lock()
		r.CommitCalls++
		r.mu.Unlock()
		return nil
	}
	if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
		rollback()
		return err
	}
	if failCommit != nil {
		rollback()
		return failCommit
	}
	r.mu.Lock()
	r.CommitCalls++
	r.mu.Unlock()
	return nil
}
