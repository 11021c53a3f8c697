package glimpse

import "testing"

func TestMouseDeltaAccumulation(t *testing.T) {
	var m MouseState

	// the first position only establishes the reference point
	m.position(100, 100)

	if m.DeltaX != 0 || m.DeltaY != 0 {
		t.Errorf("delta after first position = (%v, %v), want (0, 0)", m.DeltaX, m.DeltaY)
	}

	m.position(110, 95)
	m.position(115, 95)

	if m.DeltaX != 15 || m.DeltaY != -5 {
		t.Errorf("delta = (%v, %v), want (15, -5)", m.DeltaX, m.DeltaY)
	}

	m.nextTick()

	if m.DeltaX != 0 || m.DeltaY != 0 {
		t.Errorf("delta after nextTick = (%v, %v), want (0, 0)", m.DeltaX, m.DeltaY)
	}

	// deltas keep accumulating relative to the last position
	m.position(120, 100)

	if m.DeltaX != 5 || m.DeltaY != 5 {
		t.Errorf("delta = (%v, %v), want (5, 5)", m.DeltaX, m.DeltaY)
	}
}

func TestMouseScrollAccumulation(t *testing.T) {
	var m MouseState

	m.scroll(1)
	m.scroll(2)

	if m.ScrollY != 3 {
		t.Errorf("ScrollY = %v, want 3", m.ScrollY)
	}

	m.nextTick()

	if m.ScrollY != 0 {
		t.Errorf("ScrollY after nextTick = %v, want 0", m.ScrollY)
	}
}

func TestMouseButtons(t *testing.T) {
	var m MouseState

	m.press(MouseButtonLeft)

	if !m.Pressed[MouseButtonLeft] || !m.JustPressed[MouseButtonLeft] {
		t.Error("left button not recorded as pressed")
	}

	m.nextTick()

	if !m.Pressed[MouseButtonLeft] {
		t.Error("Pressed cleared by nextTick")
	}

	if m.JustPressed[MouseButtonLeft] {
		t.Error("JustPressed survived nextTick")
	}

	m.release(MouseButtonLeft)

	if m.Pressed[MouseButtonLeft] {
		t.Error("left button still pressed after release")
	}

	if !m.JustReleased[MouseButtonLeft] {
		t.Error("release not recorded in JustReleased")
	}
}
