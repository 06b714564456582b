package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Input
	}{
		{"empty", "", Input{}},
		{"quit", "q", Input{Quit: true}},
		{"ctrl-c", "\x03", Input{Quit: true}},
		{"bare escape", "\x1b", Input{Quit: true}},
		{"pause", " ", Input{Pause: true}},
		{"double pause cancels", "pp", Input{}},
		{"restart", "r", Input{Restart: true}},
		{"speed keys", "++-=", Input{Faster: 3, Slower: 1}},
		{"arrows", "\x1b[A\x1b[C\x1b[B", Input{Faster: 2, Slower: 1}},
		{"unknown bytes", "xyz", Input{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse([]byte(tt.in))
			if got.Quit != tt.want.Quit || got.Pause != tt.want.Pause || got.Restart != tt.want.Restart ||
				got.Faster != tt.want.Faster || got.Slower != tt.want.Slower {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
			if string(got.Pressed) != tt.in {
				t.Errorf("Pressed = %q, want %q", got.Pressed, tt.in)
			}
		})
	}
}

func TestStreamClosesOnEOF(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("r")))

	var in Input
	deadline := time.Now().Add(2 * time.Second)
	restart := false
	for time.Now().Before(deadline) {
		in = ReadInput(s)
		restart = restart || in.Restart
		if in.Closed {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !in.Closed {
		t.Fatal("stream never reported Closed")
	}
	if !restart {
		t.Error("restart key was lost")
	}
}
