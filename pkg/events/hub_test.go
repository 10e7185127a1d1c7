package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHub_PublishSubscribe(t *testing.T) {
	h := NewEventHub()
	ch := h.Subscribe()
	assert.Equal(t, 1, h.Subscribers())

	h.Publish(BatteryLow, ThresholdEvent{Percent: 4, Threshold: 5, Title: "↓ (4%)"})

	ev := <-ch
	assert.Equal(t, BatteryLow, ev.Name)
	payload, err := DecodeAs[ThresholdEvent](ev)
	require.NoError(t, err)
	assert.Equal(t, 4.0, payload.Percent)
	assert.Equal(t, "↓ (4%)", payload.Title)

	h.Unsubscribe(ch)
	assert.Equal(t, 0, h.Subscribers())
	_, ok := <-ch
	assert.False(t, ok)

	// unsubscribing twice is harmless
	h.Unsubscribe(ch)
}

func TestEventHub_DropsWhenFull(t *testing.T) {
	h := NewEventHub()
	ch := h.Subscribe()
	for i := 0; i < subscriberBuffer+10; i++ {
		h.Publish(BatteryRecovered, ThresholdEvent{Percent: float64(i)})
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestEventHub_Nil(t *testing.T) {
	var h *EventHub
	assert.NotPanics(t, func() { h.Publish(BatteryLow, nil) })
}

func TestDecodeAs_Empty(t *testing.T) {
	v, err := DecodeAs[AlertFailedEvent](Event{Name: AlertFailed})
	require.NoError(t, err)
	assert.Equal(t, AlertFailedEvent{}, v)
}

func TestEventHub_Close(t *testing.T) {
	h := NewEventHub()
	a, b := h.Subscribe(), h.Subscribe()
	h.Close()

	_, ok := <-a
	assert.False(t, ok)
	_, ok = <-b
	assert.False(t, ok)
	assert.Equal(t, 0, h.Subscribers())

	h.Unsubscribe(a)
}
