package process

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestBoundedBuffer - Output cap
// ---------------------------------------------------------------------------

func TestBoundedBuffer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		limit        int
		writes       []string
		wantContent  string
		wantOverflow bool
	}{
		{
			name:        "under limit",
			limit:       10,
			writes:      []string{"abc", "def"},
			wantContent: "abcdef",
		},
		{
			name:        "exactly at limit",
			limit:       6,
			writes:      []string{"abc", "def"},
			wantContent: "abcdef",
		},
		{
			name:         "crossing limit keeps prefix",
			limit:        4,
			writes:       []string{"abc", "def"},
			wantContent:  "abcd",
			wantOverflow: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := &boundedBuffer{limit: tt.limit}
			var lastErr error
			for _, w := range tt.writes {
				if _, err := b.Write([]byte(w)); err != nil {
					lastErr = err
				}
			}

			if got := b.String(); got != tt.wantContent {
				t.Errorf("content = %q, want %q", got, tt.wantContent)
			}
			if b.overflow != tt.wantOverflow {
				t.Errorf("overflow = %v, want %v", b.overflow, tt.wantOverflow)
			}
			if tt.wantOverflow && !errors.Is(lastErr, ErrOutputTooLarge) {
				t.Errorf("write error = %v, want ErrOutputTooLarge", lastErr)
			}
		})
	}
}

func TestCommand_String(t *testing.T) {
	t.Parallel()

	c := Command{Name: "pandoc", Args: []string{"in.md", "-o", "out.tex"}}
	if got, want := c.String(), "pandoc in.md -o out.tex"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
