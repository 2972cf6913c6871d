package store

import (
	"context"
	"errors"

	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/state"
)

// operation — одна операция «с сервером»: флаг загрузки на время имитации задержки,
// контекст, отменяемый и вызывающим, и выходом из сессии.
type operation struct {
	s     *Store
	ctx   context.Context
	epoch uint64
	stop  func()
}

func (s *Store) begin(ctx context.Context) (*operation, error) {
	sctx, epoch := s.session()
	if sctx.Err() != nil {
		return nil, ErrClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	unlink := context.AfterFunc(sctx, cancel)
	op := &operation{s: s, ctx: ctx, epoch: epoch, stop: func() {
		unlink()
		cancel()
	}}
	if !s.apply(epoch, state.OperationStarted{}) {
		op.stop()
		return nil, ErrClosed
	}
	return op, nil
}

// wait имитирует задержку сервера.
func (op *operation) wait() error {
	return op.s.runner.Sleep(op.ctx, op.s.opts.SimulatedDelay)
}

func (op *operation) apply(a state.Action) bool {
	return op.s.apply(op.epoch, a)
}

// finish снимает флаг загрузки; ошибка, кроме отмены, попадает в состояние.
func (op *operation) finish(err error) {
	op.stop()
	msg := ""
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, ErrClosed) {
		msg = model.UserMessage(err)
	}
	op.s.apply(op.epoch, state.OperationFinished{Err: msg})
}
