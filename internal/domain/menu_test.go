package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	want := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"2026-10-19", "2026/10/19", " 2026-10-19 "} {
		got, err := ParseDay(raw, time.UTC)
		if err != nil {
			t.Fatalf("ParseDay(%q) error = %v", raw, err)
		}
		if !got.Equal(want) {
			t.Errorf("ParseDay(%q) = %v, want %v", raw, got, want)
		}
	}

	for _, raw := range []string{"2026-10-19garbage", "2026-10-19T00:00:00", "2026-13-40", "yesterday", ""} {
		if _, err := ParseDay(raw, time.UTC); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("ParseDay(%q) error = %v, want ErrInvalidRequest", raw, err)
		}
	}
}
