package typing

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestAtMostOncePerWindow(t *testing.T) {
	clk := clockwork.NewFakeClock()
	d := NewDebouncer(clk, 3*time.Second)

	emitted := 0
	text := ""
	// 100 нажатий с шагом 50ms: 5 секунд непрерывного набора.
	for i := 0; i < 100; i++ {
		text += "a"
		if d.Input(text) {
			emitted++
		}
		clk.Advance(50 * time.Millisecond)
	}
	if emitted != 2 {
		t.Fatalf("emitted %d signals over 5s, want 2", emitted)
	}
}

func TestWindowBoundaries(t *testing.T) {
	clk := clockwork.NewFakeClock()
	d := NewDebouncer(clk, 3*time.Second)

	if !d.Input("h") {
		t.Fatal("first keystroke must emit")
	}
	clk.Advance(2999 * time.Millisecond)
	if d.Input("hi") {
		t.Fatal("must not emit inside the window")
	}
	clk.Advance(time.Millisecond)
	if !d.Input("hi!") {
		t.Fatal("must emit once the window elapsed")
	}
}

func TestBlankInputNeverEmits(t *testing.T) {
	d := NewDebouncer(clockwork.NewFakeClock(), 0)
	for _, s := range []string{"", "   ", "\n\t"} {
		if d.Input(s) {
			t.Errorf("Input(%q) emitted", s)
		}
	}
}

func TestResetOpensWindow(t *testing.T) {
	clk := clockwork.NewFakeClock()
	d := NewDebouncer(clk, 3*time.Second)
	d.Input("a")
	d.Reset()
	if !d.Input("b") {
		t.Fatal("after Reset the next keystroke must emit")
	}
}
