package protocol_test

import (
	"testing"

	"github.com/omochice/toy-line-echo/pkg/protocol"
)

func TestFormatResponse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"simple", "hello", "Echoing: hello"},
		{"empty line", "", "Echoing: "},
		{"spaces preserved", "  padded  ", "Echoing:   padded  "},
		{"prefix-looking content", "Echoing: nested", "Echoing: Echoing: nested"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := protocol.FormatResponse(tt.line); got != tt.want {
				t.Errorf("FormatResponse(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseResponse(t *testing.T) {
	line, ok := protocol.ParseResponse("Echoing: hello")
	if !ok {
		t.Fatal("ParseResponse() ok = false, want true")
	}
	if line != "hello" {
		t.Errorf("ParseResponse() = %q, want %q", line, "hello")
	}
}

func TestParseResponse_EmptyLine(t *testing.T) {
	line, ok := protocol.ParseResponse("Echoing: ")
	if !ok {
		t.Fatal("ParseResponse() ok = false, want true")
	}
	if line != "" {
		t.Errorf("ParseResponse() = %q, want empty string", line)
	}
}

func TestParseResponse_MissingPrefix(t *testing.T) {
	if _, ok := protocol.ParseResponse("hello"); ok {
		t.Error("ParseResponse() ok = true for payload without prefix")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, line := range []string{"hello", "", "a b c", "Echoing: x"} {
		got, ok := protocol.ParseResponse(protocol.FormatResponse(line))
		if !ok || got != line {
			t.Errorf("round trip of %q = %q, ok=%v", line, got, ok)
		}
	}
}
