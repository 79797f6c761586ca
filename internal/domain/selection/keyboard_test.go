package selection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	require.Equal(t, KeyEscape, ParseKey("Escape"))
	require.Equal(t, KeyEscape, ParseKey("esc"))
	require.Equal(t, KeyArrowRight, ParseKey("ArrowRight"))
	require.Equal(t, KeyArrowRight, ParseKey(" right "))
	require.Equal(t, KeyArrowLeft, ParseKey("left"))
	require.Equal(t, Key("Enter"), ParseKey("Enter"))
}

func TestKeyBus_DispatchOrderAndUnsubscribe(t *testing.T) {
	bus := NewKeyBus()
	var calls []string

	first := bus.Subscribe(func(Key) bool {
		calls = append(calls, "first")
		return false
	})
	bus.Subscribe(func(Key) bool {
		calls = append(calls, "second")
		return true
	})

	require.True(t, bus.Dispatch(KeyEscape))
	require.Equal(t, []string{"first", "second"}, calls)

	first()
	first()
	require.Equal(t, 1, bus.Len())

	calls = nil
	bus.Dispatch(KeyEscape)
	require.Equal(t, []string{"second"}, calls)
}

func TestKeyBus_HandlerMayUnsubscribeItself(t *testing.T) {
	bus := NewKeyBus()
	var unsubscribe func()
	unsubscribe = bus.Subscribe(func(Key) bool {
		unsubscribe()
		return true
	})

	require.True(t, bus.Dispatch(KeyArrowLeft))
	require.Equal(t, 0, bus.Len())
	require.False(t, bus.Dispatch(KeyArrowLeft))
}
