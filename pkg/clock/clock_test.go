package clock

import (
	"testing"
	"time"
)

func TestSystemNow(t *testing.T) {
	clk := NewSystem()

	before := uint64(time.Now().Unix())
	now := clk.Now()
	after := uint64(time.Now().Unix())

	if now < before || now > after {
		t.Errorf("system clock out of range: %d not in [%d, %d]", now, before, after)
	}
}

func TestManual(t *testing.T) {
	clk := NewManual(100)

	if got := clk.Now(); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}

	clk.Advance(50)
	if got := clk.Now(); got != 150 {
		t.Errorf("expected 150 after advance, got %d", got)
	}

	clk.Set(42)
	if got := clk.Now(); got != 42 {
		t.Errorf("expected 42 after set, got %d", got)
	}
}
