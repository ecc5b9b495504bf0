package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/varunhm/honeynet/internal/logging"
)

func testManager() *Manager {
	return NewManager(logging.New(nil, "silent"))
}

func TestOnAndEmit(t *testing.T) {
	m := testManager()

	var got []Payload
	m.On(EventSessionTerminated, "recorder", func(_ context.Context, p Payload) error {
		got = append(got, p)
		return nil
	})

	m.Emit(context.Background(), EventSessionTerminated, map[string]any{"sessionId": "s-1"})

	assert.Len(t, got, 1)
	assert.Equal(t, EventSessionTerminated, got[0].Event)
	assert.Equal(t, "s-1", got[0].Data["sessionId"])
}

func TestEmitRunsHandlersInOrderDespiteErrors(t *testing.T) {
	m := testManager()

	var order []string
	m.On(EventCallbackDeadLetter, "first", func(_ context.Context, _ Payload) error {
		order = append(order, "first")
		return errors.New("boom")
	})
	m.On(EventCallbackDeadLetter, "second", func(_ context.Context, _ Payload) error {
		order = append(order, "second")
		return nil
	})

	m.Emit(context.Background(), EventCallbackDeadLetter, nil)

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestOff(t *testing.T) {
	m := testManager()

	var calls int
	m.On(EventTurnProcessed, "counter", func(_ context.Context, _ Payload) error {
		calls++
		return nil
	})
	assert.Equal(t, 1, m.Count(EventTurnProcessed))

	m.Off(EventTurnProcessed, "counter")
	assert.Equal(t, 0, m.Count(EventTurnProcessed))

	m.Emit(context.Background(), EventTurnProcessed, nil)
	assert.Zero(t, calls)
}

func TestEmitWithoutHandlersIsNoop(t *testing.T) {
	m := testManager()
	m.Emit(context.Background(), EventServerStart, nil)
}
