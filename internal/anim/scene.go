package anim

import (
	"github.com/tomz197/clack/internal/collide"
	"github.com/tomz197/clack/internal/draw"
)

// Scene is what one frame shows.
type Scene struct {
	Light      draw.Rect
	Heavy      draw.Rect
	Collisions int  // collisions that have happened by this time
	Finished   bool // no more collisions after this time
}

// Layout places both blocks at simulated time t. ok is false when t is
// before the first snapshot and nothing should be drawn.
func Layout(tl *collide.Timeline, t float64) (Scene, bool) {
	i := tl.Index(t)
	if i < 0 {
		return Scene{}, false
	}
	e, _ := tl.At(t)
	x1, x2, _ := tl.Positions(t)

	light := blockRect(x1, LightSize)
	heavy := blockRect(x2, HeavySize)
	return Scene{
		Light:      light,
		Heavy:      heavy,
		Collisions: e.Collisions,
		Finished:   i == tl.Len()-1,
	}, true
}

// blockRect converts a normalized left edge and size to a square resting
// on the floor.
func blockRect(x, size float64) draw.Rect {
	side := size * ViewWidth * ScaleFactor
	return draw.Rect{
		X: x * ViewWidth * ScaleFactor,
		Y: FloorLevel*ViewHeight - side,
		W: side,
		H: side,
	}
}
