package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tomz197/clack/internal/config"
)

func TestPromptPower(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"4\n", 4},
		{"2", 2},
		{"\n", config.DefaultPower},
		{"", config.DefaultPower},
		{"pi\n", config.DefaultPower},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		if got := promptPower(strings.NewReader(tt.in), &out); got != tt.want {
			t.Errorf("promptPower(%q) = %d, want %d", tt.in, got, tt.want)
		}
		if out.String() != "Enter the number of digits: \n" {
			t.Errorf("prompt = %q", out.String())
		}
	}
}
