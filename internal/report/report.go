// Package report turns a finished simulation into human-readable text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/tomz197/clack/internal/collide"
)

// Summary is the collision count line printed for every run.
func Summary(collisions int) string {
	return fmt.Sprintf("There were %d total collisions", collisions)
}

// Fields returns the run details in display order.
func Fields(power int, res collide.Result) *orderedmap.OrderedMap[string, any] {
	data := orderedmap.NewOrderedMap[string, any]()
	data.Set("power", power)
	data.Set("mass_ratio", res.MassRatio)
	data.Set("collisions", res.Collisions)
	data.Set("wall_hits", res.WallHits)
	data.Set("block_hits", res.BlockHits)
	if res.Timeline != nil {
		if last, ok := res.Timeline.Last(); ok {
			data.Set("duration", last.Time)
		}
		data.Set("fingerprint", fmt.Sprintf("%016x", res.Timeline.Fingerprint()))
	}
	return data
}

// FieldsString formats fields as space separated key=value pairs.
func FieldsString(data *orderedmap.OrderedMap[string, any]) string {
	parts := make([]string, 0, data.Len())
	for _, key := range data.Keys() {
		v, _ := data.Get(key)
		parts = append(parts, fmt.Sprintf("%s=%v", key, v))
	}
	return strings.Join(parts, " ")
}

// Write prints the summary line, followed by one key=value line per field
// when verbose is set.
func Write(w io.Writer, power int, res collide.Result, verbose bool) error {
	if _, err := fmt.Fprintln(w, Summary(res.Collisions)); err != nil {
		return err
	}
	if !verbose {
		return nil
	}
	data := Fields(power, res)
	for _, key := range data.Keys() {
		v, _ := data.Get(key)
		if _, err := fmt.Fprintf(w, "%s=%v\n", key, v); err != nil {
			return err
		}
	}
	return nil
}
