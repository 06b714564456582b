package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/tomz197/clack/internal/collide"
)

func TestSummary(t *testing.T) {
	if got := Summary(31); got != "There were 31 total collisions" {
		t.Errorf("Summary = %q", got)
	}
}

func TestFieldsOrder(t *testing.T) {
	res, err := collide.Run(context.Background(), collide.Options{Power: 0})
	if err != nil {
		t.Fatal(err)
	}
	data := Fields(0, res)
	want := []string{"power", "mass_ratio", "collisions", "wall_hits", "block_hits", "duration", "fingerprint"}
	keys := data.Keys()
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d = %q, want %q", i, keys[i], want[i])
		}
	}
	s := FieldsString(data)
	if !strings.HasPrefix(s, "power=0 mass_ratio=1 collisions=3 wall_hits=1 block_hits=2 ") {
		t.Errorf("FieldsString = %q", s)
	}
}

func TestWrite(t *testing.T) {
	res, err := collide.Run(context.Background(), collide.Options{Power: 1})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, 1, res, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "There were 31 total collisions\n" {
		t.Errorf("Write = %q", buf.String())
	}

	buf.Reset()
	if err := Write(&buf, 1, res, true); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("verbose output has %d lines:\n%s", len(lines), buf.String())
	}
	if lines[1] != "power=1" || lines[3] != "collisions=31" {
		t.Errorf("verbose lines = %q", lines)
	}
}
