package shared

import (
	"bytes"
	"strings"
	"testing"
)

func TestNormalizeTrackKey(t *testing.T) {
	tc := []struct {
		name   string
		title  string
		artist string
		want   string
	}{
		{
			name:   "basic normalization",
			title:  "Gerudo Valley",
			artist: "Koji Kondo",
			want:   "gerudo valley|koji kondo",
		},
		{
			name:   "extra whitespace",
			title:  "  Gerudo   Valley  ",
			artist: "  Koji   Kondo  ",
			want:   "gerudo valley|koji kondo",
		},
		{
			name:   "mixed case",
			title:  "GeRuDo VaLLeY",
			artist: "KoJi KoNdO",
			want:   "gerudo valley|koji kondo",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTrackKey(tt.title, tt.artist)
			if got != tt.want {
				t.Errorf("normalizeTrackKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || b == "" {
		t.Fatal("expected non-empty ids")
	}
	if a == b {
		t.Error("expected unique ids")
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]int{"tracks": 3}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if strings.Contains(string(compact), "\n") {
		t.Error("compact output should not contain newlines")
	}

	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if !strings.Contains(string(pretty), "\n") {
		t.Error("pretty output should be indented")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Info("bridge run started", "tracks", 42)

	out := buf.String()
	if !strings.Contains(out, "bridge run started") {
		t.Errorf("expected log message in output, got %q", out)
	}
	if !strings.Contains(out, "42") {
		t.Errorf("expected key-value pair in output, got %q", out)
	}
}

func TestGenerateState(t *testing.T) {
	first, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState failed: %v", err)
	}
	if len(first) != 32 {
		t.Errorf("expected 32 hex characters, got %d", len(first))
	}

	second, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState failed: %v", err)
	}
	if first == second {
		t.Error("expected unique state tokens")
	}
}
