package form

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testGuard(now *time.Time) *Guard {
	g := NewGuard([]byte(strings.Repeat("k", 32)), 2*time.Second, 30*time.Minute)
	g.now = func() time.Time { return *now }
	return g
}

func TestGuard(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	g := testGuard(&now)

	tok, err := g.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}

	tests := []struct {
		name    string
		advance time.Duration
		want    error
	}{
		{"too fast", time.Second, ErrTooFast},
		{"accepted", 10 * time.Second, nil},
		{"expired", 31 * time.Minute, ErrExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			later := now.Add(tt.advance)
			g.now = func() time.Time { return later }
			if err := g.Check(tok); !errors.Is(err, tt.want) {
				t.Fatalf("Check = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGuard_RejectsForeignAndGarbage(t *testing.T) {
	now := time.Now()
	g := testGuard(&now)
	other := NewGuard([]byte(strings.Repeat("z", 32)), 0, time.Hour)

	tok, err := other.Token()
	if err != nil {
		t.Fatal(err)
	}
	for _, bad := range []string{"", "not-base64!", "YWJj", tok} {
		if err := g.Check(bad); !errors.Is(err, ErrBadToken) {
			t.Errorf("Check(%q) = %v, want ErrBadToken", bad, err)
		}
	}
}

func TestGuard_ShortSecretIsReplaced(t *testing.T) {
	g := NewGuard([]byte("short"), 0, time.Hour)
	if len(g.secret) != 32 {
		t.Fatalf("secret length = %d", len(g.secret))
	}
}

func TestGuard_ConsumeRejectsReplay(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	g := testGuard(&now)

	tok, err := g.Token()
	if err != nil {
		t.Fatal(err)
	}
	other, err := g.Token()
	if err != nil {
		t.Fatal(err)
	}
	later := now.Add(10 * time.Second)
	g.now = func() time.Time { return later }

	if err := g.Check(tok); err != nil {
		t.Fatalf("Check before Consume = %v", err)
	}
	g.Consume(tok)
	if err := g.Check(tok); !errors.Is(err, ErrUsed) {
		t.Fatalf("Check after Consume = %v, want ErrUsed", err)
	}
	if err := g.Check(other); err != nil {
		t.Fatalf("unrelated token = %v", err)
	}
	g.Consume("garbage") // ignored
}
