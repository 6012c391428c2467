package gpio

import (
	"testing"
	"time"
)

func TestDebouncerPressRelease(t *testing.T) {
	base := time.Now()
	at := func(ms int) time.Time { return base.Add(time.Duration(ms) * time.Millisecond) }
	d := newDebouncer(20 * time.Millisecond)

	if _, ok := d.sample(true, at(0)); ok {
		t.Fatal("edge fired before the hold window elapsed")
	}
	edge, ok := d.sample(true, at(20))
	if !ok || edge != Pressed {
		t.Fatalf("expected Pressed got %v %v", edge, ok)
	}
	if _, ok := d.sample(true, at(40)); ok {
		t.Fatal("steady level produced an edge")
	}

	if _, ok := d.sample(false, at(100)); ok {
		t.Fatal("edge fired before the hold window elapsed")
	}
	edge, ok = d.sample(false, at(125))
	if !ok || edge != Released {
		t.Fatalf("expected Released got %v %v", edge, ok)
	}
}

func TestDebouncerSuppressesBounce(t *testing.T) {
	base := time.Now()
	at := func(ms int) time.Time { return base.Add(time.Duration(ms) * time.Millisecond) }
	d := newDebouncer(20 * time.Millisecond)

	// contact bounce: rapid chatter right after the press
	samples := []struct {
		ms      int
		pressed bool
	}{
		{0, true}, {2, false}, {4, true}, {5, false}, {7, true},
		{12, true}, {20, true}, {28, true},
	}

	edges := 0
	for _, s := range samples {
		if edge, ok := d.sample(s.pressed, at(s.ms)); ok {
			edges++
			if edge != Pressed {
				t.Fatalf("expected Pressed got %v", edge)
			}
		}
	}
	if edges != 1 {
		t.Fatalf("expected exactly 1 edge for a bouncy press, got %d", edges)
	}
}

func TestDebouncerIgnoresShortGlitch(t *testing.T) {
	base := time.Now()
	at := func(ms int) time.Time { return base.Add(time.Duration(ms) * time.Millisecond) }
	d := newDebouncer(20 * time.Millisecond)

	d.sample(true, at(0))
	d.sample(false, at(5))
	if _, ok := d.sample(false, at(50)); ok {
		t.Fatal("glitch shorter than the hold window produced an edge")
	}
}
