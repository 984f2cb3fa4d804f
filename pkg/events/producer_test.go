package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducer_MarshalError(t *testing.T) {
	t.Parallel()

	p := NewProducer([]string{"127.0.0.1:1"})
	defer p.Close()

	err := p.PublishEvent(context.Background(), "order_events", "k", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Marshal")
}

func TestEmit_RecordsEvent(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	Emit(context.Background(), rec, "order_events", "ORD-1", map[string]any{
		"type":    "order_created",
		"orderID": "ORD-1",
		"total":   int64(300),
	})

	got := rec.Events()
	require.Len(t, got, 1)
	assert.Equal(t, "order_events", got[0].Topic)
	assert.Equal(t, "ORD-1", got[0].Key)
	assert.Equal(t, "order_created", got[0].Event["type"])
	assert.EqualValues(t, 300, got[0].Event["total"])
	assert.Equal(t, []string{"order_created"}, rec.Types())
}

func TestEmit_SwallowsErrors(t *testing.T) {
	t.Parallel()

	rec := &Recorder{Err: errors.New("broker down")}
	assert.NotPanics(t, func() {
		Emit(context.Background(), rec, "t", "k", map[string]any{"type": "x"})
		Emit(context.Background(), nil, "t", "k", map[string]any{"type": "x"})
		Emit(context.Background(), Nop{}, "t", "k", map[string]any{"type": "x"})
	})
	assert.Empty(t, rec.Events())
}
