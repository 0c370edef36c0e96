package interview

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// withRetry runs a collaborator call with a bounded timeout and one retry
// after a short backoff. Each attempt gets a fresh deadline. Failures after
// the retry are wrapped as *ErrCollaborator.
func (m *Manager) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempt := func() error {
		cctx, cancel := context.WithTimeout(ctx, m.cfg.CollaboratorTimeout)
		defer cancel()
		return fn(cctx)
	}

	err := attempt()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return &ErrCollaborator{Op: op, Err: ctx.Err()}
	}

	m.log.Warn("collaborator call failed, retrying",
		zap.String("op", op),
		zap.Error(err))

	select {
	case <-time.After(m.cfg.RetryBackoff):
	case <-ctx.Done():
		return &ErrCollaborator{Op: op, Err: ctx.Err()}
	}

	if err = attempt(); err != nil {
		return &ErrCollaborator{Op: op, Err: err}
	}
	return nil
}
