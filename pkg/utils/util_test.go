package utils

import (
	"strings"
	"testing"
)

func TestGenHashID_RoundTrip(t *testing.T) {
	for _, id := range []uint64{1, 42, 1 << 40} {
		code, err := GenHashID("salt", 8, id)
		if err != nil {
			t.Fatalf("encode %d: %v", id, err)
		}
		if len(code) < 8 {
			t.Fatalf("code %q shorter than min length", code)
		}
		got, err := DecodeHashID("salt", 8, code)
		if err != nil || got != id {
			t.Fatalf("decode %q: got %d err=%v, want %d", code, got, err, id)
		}
	}
}

func TestGenHashID_SaltMatters(t *testing.T) {
	a, _ := GenHashID("salt-a", 8, 7)
	b, _ := GenHashID("salt-b", 8, 7)
	if a == b {
		t.Fatalf("different salts produced the same code %q", a)
	}
}

func TestPanicTrace(t *testing.T) {
	out := PanicTrace("boom")
	if !strings.HasPrefix(out, "boom\n") {
		t.Fatalf("unexpected trace %q", out)
	}
}
