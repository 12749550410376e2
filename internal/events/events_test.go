package events

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := TickCompleted{
		Date:       "2026-10-19",
		Outcome:    OutcomeDeliveryFailed,
		TaskCount:  2,
		StatusCode: 502,
		Detail:     "Failed to send reminder: 502",
		Duration:   150 * time.Millisecond,
	}

	before := time.Now().UTC()
	event, err := NewEvent(TypeTickCompleted, payload)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeTickCompleted, event.Type)
	assert.False(t, event.CreatedAt.Before(before))

	var decoded TickCompleted
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewEvent_UnserializablePayload(t *testing.T) {
	_, err := NewEvent(TypeReminderAdded, math.Inf(1))
	assert.Error(t, err)
}

func TestNoopEmitter(t *testing.T) {
	var emitter EventEmitter = NoopEmitter{}
	assert.NoError(t, emitter.EmitEvent(context.Background(), &Event{Type: TypeRemindersDeleted}))
}
