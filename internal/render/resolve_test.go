package render

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRegistry(t *testing.T) {
	t.Run("fulfills present markers", func(t *testing.T) {
		reg := NewRegistry()
		marker := reg.Register(context.Background(), func(context.Context) (string, error) {
			return "resolved", nil
		})
		texts, err := reg.Fulfill(context.Background(), []string{"a " + marker + " b"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if texts[0] != "a resolved b" {
			t.Fatalf("unexpected text: %q", texts[0])
		}
	})

	t.Run("replaces repeated markers", func(t *testing.T) {
		reg := NewRegistry()
		marker := reg.Register(context.Background(), func(context.Context) (string, error) {
			return "x", nil
		})
		texts, err := reg.Fulfill(context.Background(), []string{marker + marker})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if texts[0] != "xx" {
			t.Fatalf("unexpected text: %q", texts[0])
		}
	})

	t.Run("distinct markers per registration", func(t *testing.T) {
		reg := NewRegistry()
		a := reg.Register(context.Background(), func(context.Context) (string, error) { return "1", nil })
		b := reg.Register(context.Background(), func(context.Context) (string, error) { return "2", nil })
		if a == b {
			t.Fatalf("expected distinct markers, got %q twice", a)
		}
		texts, err := reg.Fulfill(context.Background(), []string{a + " " + b})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if texts[0] != "1 2" {
			t.Fatalf("unexpected text: %q", texts[0])
		}
	})

	t.Run("absent markers are not awaited", func(t *testing.T) {
		block := make(chan struct{})
		t.Cleanup(func() { close(block) })

		reg := NewRegistry()
		reg.Register(context.Background(), func(context.Context) (string, error) {
			<-block
			return "never used", nil
		})
		texts, err := reg.Fulfill(context.Background(), []string{"no markers here"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if texts[0] != "no markers here" {
			t.Fatalf("unexpected text: %q", texts[0])
		}
	})

	t.Run("propagates lookup errors", func(t *testing.T) {
		boom := errors.New("boom")
		reg := NewRegistry()
		marker := reg.Register(context.Background(), func(context.Context) (string, error) {
			return "", boom
		})
		if _, err := reg.Fulfill(context.Background(), []string{marker}); !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	})

	t.Run("marker shape", func(t *testing.T) {
		reg := NewRegistry()
		marker := reg.Register(context.Background(), func(context.Context) (string, error) { return "", nil })
		if !strings.HasPrefix(marker, "{%") || !strings.HasSuffix(marker, "%}") {
			t.Fatalf("unexpected marker shape: %q", marker)
		}
	})
}
