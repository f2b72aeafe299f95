// Package hook runs post-commit side effects: a short ordered list of
// closures executed only after the primary transactional write has succeeded.
// Each hook gets its own failure boundary, so a failing or panicking hook can
// affect neither its siblings nor the already-committed result.
package hook

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Hook is one best-effort side effect.
type Hook func(ctx context.Context) error

// Hooks accumulates side effects during a business operation. Zero value is
// usable. Not safe for concurrent Add; operations build their own list.
type Hooks struct {
	hooks []Hook
}

// Add appends a hook to run after commit.
func (h *Hooks) Add(fn Hook) {
	h.hooks = append(h.hooks, fn)
}

// Run executes all hooks in order. Errors and panics are logged and
// swallowed; Run never fails.
func (h *Hooks) Run(ctx context.Context, logger *zerolog.Logger) {
	for i, fn := range h.hooks {
		h.runOne(ctx, logger, i, fn)
	}
}

func (h *Hooks) runOne(ctx context.Context, logger *zerolog.Logger, i int, fn Hook) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Int("hook", i).
				Err(fmt.Errorf("panic: %v", r)).
				Msg("post-commit hook panicked")
		}
	}()

	if err := fn(ctx); err != nil {
		logger.Warn().Int("hook", i).Err(err).Msg("post-commit hook failed")
	}
}
