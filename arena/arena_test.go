package arena

import "testing"

func TestArenaGrowAndReset(t *testing.T) {
	a := New()
	b1 := a.Append([]byte("hello"))
	if string(b1) != "hello" {
		t.Fatalf("got %q", b1)
	}
	a.Reset()
	if a.Len() != 0 {
		t.Fatalf("expected reset arena to have length 0, got %d", a.Len())
	}
	// capacity from the first call should be retained across reset.
	capBefore := a.Cap()
	b2 := a.Append([]byte("world!!"))
	if string(b2) != "world!!" {
		t.Fatalf("got %q", b2)
	}
	if a.Cap() < capBefore {
		t.Fatalf("capacity shrank across reset: %d -> %d", capBefore, a.Cap())
	}
}

func TestArenaHighWaterMark(t *testing.T) {
	a := New()
	a.Append(make([]byte, 100))
	a.Reset()
	a.Append(make([]byte, 10))
	st := StatsOf(a)
	if st.HighWater != 100 {
		t.Fatalf("expected high-water mark to track the larger of two calls, got %d", st.HighWater)
	}
	if st.Committed != 10 {
		t.Fatalf("expected committed to reflect only the latest call, got %d", st.Committed)
	}
}

func TestArenaFreeIsIdempotentOnNil(t *testing.T) {
	var a *Arena
	a.Free() // must not panic
}

func TestAcquireReleaseRoundTrip(t *testing.T) {
	a := Acquire()
	a.Append([]byte("x"))
	Release(a)
	b := Acquire()
	if b.Len() != 0 {
		t.Fatalf("pooled arena should come back reset, got len %d", b.Len())
	}
}
