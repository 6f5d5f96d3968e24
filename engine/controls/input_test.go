package controls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputRouter_DispatchOrder(t *testing.T) {
	r := NewInputRouter(800, 600)
	var calls []string

	r.Subscribe(InputHandler{OnPointerDown: func(PointerEvent) { calls = append(calls, "first") }})
	r.Subscribe(InputHandler{OnPointerDown: func(PointerEvent) { calls = append(calls, "second") }})
	r.Subscribe(InputHandler{})

	r.PointerDown(PointerEvent{})
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestInputRouter_Unsubscribe(t *testing.T) {
	r := NewInputRouter(800, 600)
	count := 0
	unsubscribe := r.Subscribe(InputHandler{OnWheel: func(WheelEvent) { count++ }})
	require.Equal(t, 1, r.Subscribers())

	r.Wheel(WheelEvent{DeltaY: 1})
	unsubscribe()
	unsubscribe()
	r.Wheel(WheelEvent{DeltaY: 1})

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, r.Subscribers())
}

func TestInputRouter_UnsubscribeDuringDispatch(t *testing.T) {
	r := NewInputRouter(800, 600)
	count := 0
	var unsubscribe func()
	unsubscribe = r.Subscribe(InputHandler{OnKeyDown: func(KeyEvent) {
		count++
		unsubscribe()
	}})
	r.Subscribe(InputHandler{OnKeyDown: func(KeyEvent) { count++ }})

	r.KeyDown(KeyEvent{})
	r.KeyDown(KeyEvent{})
	assert.Equal(t, 3, count)
}

func TestInputRouter_CaptureAndSize(t *testing.T) {
	r := NewInputRouter(800, 600)
	assert.False(t, r.Captured())
	r.CapturePointer()
	assert.True(t, r.Captured())
	r.ReleasePointer()
	assert.False(t, r.Captured())

	w, h := r.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	r.SetSize(1024, 768)
	w, h = r.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
}

func TestModifierKeyHas(t *testing.T) {
	mods := ModShift | ModAlt
	assert.True(t, mods.Has(ModShift))
	assert.True(t, mods.Has(DefaultPanModifiers))
	assert.False(t, mods.Has(ModControl|ModSuper))
	assert.False(t, ModifierKey(0).Has(ModShift))
}
