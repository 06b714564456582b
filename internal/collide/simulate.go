// Package collide computes every collision of the two-block-and-wall
// experiment and records the results on a searchable timeline.
package collide

import (
	"context"
	"fmt"
	"math"
)

// Initial conditions shared by every run.
const (
	InitialP1   = 0.02
	InitialV1   = 0.0
	InitialP2   = 0.05
	InitialV2   = -1.0
	WallPos     = 0.0
	LightMass   = 1.0
	HeavyOffset = 0.1 // added to P2 in every timeline value, for rendering
)

// cancelCheckEvery is how many events pass between context checks.
const cancelCheckEvery = 4096

// Event is the kind of collision chosen for one step.
type Event int

const (
	EventNone   Event = iota // no further collision is reachable
	EventWall                // light block hits the wall
	EventBlocks              // light block hits heavy block
)

func (e Event) String() string {
	switch e {
	case EventWall:
		return "wall"
	case EventBlocks:
		return "blocks"
	default:
		return "none"
	}
}

// Step describes one applied collision. Before and After hold physical
// positions, without HeavyOffset.
type Step struct {
	Event  Event
	Time   float64
	Before State
	After  State
}

// Options configures a run.
type Options struct {
	Power     int // heavy mass is 100^Power
	MaxEvents int // 0 means no ceiling

	// OnStep, if set, is called after every collision is applied.
	OnStep func(Step)
}

// Result is the outcome of a finished run.
type Result struct {
	Timeline   *Timeline
	Collisions int
	WallHits   int
	BlockHits  int
	MassRatio  float64
}

// HeavyMass returns 100^power.
func HeavyMass(power int) float64 {
	return math.Pow(100, float64(power))
}

// Simulate runs to completion and returns the timeline and the number of
// collisions. It panics if power is negative.
func Simulate(power int) (*Timeline, int) {
	res, err := Run(context.Background(), Options{Power: power})
	if err != nil {
		panic(err)
	}
	return res.Timeline, res.Collisions
}

// Run executes the event loop until no further collision is reachable, the
// event ceiling is exceeded or ctx is done.
// On failure the partial result is returned along with the error.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Power < 0 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidPower, opts.Power)
	}

	m1 := LightMass
	m2 := HeavyMass(opts.Power)
	// 2*m2 appears in the collision terms and must stay finite.
	if m2 > math.MaxFloat64/2 {
		return Result{}, fmt.Errorf("%w: 100^%d overflows float64", ErrInvalidPower, opts.Power)
	}
	p1, v1 := InitialP1, InitialV1
	p2, v2 := InitialP2, InitialV2

	res := Result{
		Timeline:  NewTimeline(64),
		MassRatio: m2 / m1,
	}
	elapsed := 0.0
	tl := res.Timeline
	if _, err := tl.insertOrReplace(elapsed, State{P1: p1, V1: v1, P2: p2 + HeavyOffset, V2: v2}, 0); err != nil {
		return res, err
	}

	// Mass terms are fixed for the run.
	sum := m1 + m2
	a11, a12 := (m1-m2)/sum, 2*m2/sum
	a21, a22 := 2*m1/sum, (m2-m1)/sum

	for {
		if res.Collisions%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return res, &SimulationError{Events: res.Collisions, Time: elapsed, Wrapped: err}
			}
		}

		wallTime := (WallPos - p1) / v1
		blockTime := (p2 - p1) / (v1 - v2)
		event, step := nextEvent(wallTime, blockTime)
		if event == EventNone {
			break
		}
		if opts.MaxEvents > 0 && res.Collisions >= opts.MaxEvents {
			return res, &SimulationError{Events: res.Collisions, Time: elapsed, Wrapped: ErrDidNotConverge}
		}

		before := State{P1: p1, V1: v1, P2: p2, V2: v2}
		elapsed += step
		switch event {
		case EventWall:
			p1 = WallPos
			p2 += v2 * step
			v1 = -v1
			res.WallHits++
		case EventBlocks:
			p1 += v1 * step
			p2 = p1
			v1, v2 = a11*v1+a12*v2, a21*v1+a22*v2
			res.BlockHits++
		}

		if opts.OnStep != nil {
			opts.OnStep(Step{Event: event, Time: elapsed, Before: before, After: State{P1: p1, V1: v1, P2: p2, V2: v2}})
		}

		res.Collisions++
		s := State{P1: p1, V1: v1, P2: p2 + HeavyOffset, V2: v2}
		if _, err := tl.insertOrReplace(elapsed, s, res.Collisions); err != nil {
			return res, &SimulationError{Events: res.Collisions, Time: elapsed, Wrapped: err}
		}
	}

	return res, nil
}

// nextEvent picks the earliest valid collision. A time is valid when it is
// finite and strictly positive. An exact tie goes to EventBlocks; the choice
// is arbitrary, not physical, and kept for output compatibility.
func nextEvent(wallTime, blockTime float64) (Event, float64) {
	wallOK := valid(wallTime)
	blockOK := valid(blockTime)
	switch {
	case wallOK && blockOK:
		if blockTime <= wallTime {
			return EventBlocks, blockTime
		}
		return EventWall, wallTime
	case wallOK:
		return EventWall, wallTime
	case blockOK:
		return EventBlocks, blockTime
	default:
		return EventNone, 0
	}
}

func valid(t float64) bool {
	return t > 0 && !math.IsInf(t, 0) && !math.IsNaN(t)
}
