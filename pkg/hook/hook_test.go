package hook

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRunExecutesInOrder(t *testing.T) {
	logger := zerolog.Nop()
	var order []int

	var h Hooks
	h.Add(func(ctx context.Context) error {
		order = append(order, 1)
		return nil
	})
	h.Add(func(ctx context.Context) error {
		order = append(order, 2)
		return nil
	})

	h.Run(context.Background(), &logger)
	assert.Equal(t, []int{1, 2}, order)
}

func TestRunIsolatesFailures(t *testing.T) {
	logger := zerolog.Nop()
	var ran []string

	var h Hooks
	h.Add(func(ctx context.Context) error {
		ran = append(ran, "fail")
		return errors.New("smtp down")
	})
	h.Add(func(ctx context.Context) error {
		panic("broker gone")
	})
	h.Add(func(ctx context.Context) error {
		ran = append(ran, "ok")
		return nil
	})

	assert.NotPanics(t, func() {
		h.Run(context.Background(), &logger)
	})
	assert.Equal(t, []string{"fail", "ok"}, ran, "later hooks still run")
}

func TestRunEmpty(t *testing.T) {
	logger := zerolog.Nop()
	var h Hooks
	h.Run(context.Background(), &logger)
}
