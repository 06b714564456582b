package anim

import "time"

// View resolution in logical units. Block positions are normalized and
// scaled by ScaleFactor*ViewWidth, so the visible track is [0, 1/ScaleFactor].
const (
	ViewWidth   = 800.0
	ViewHeight  = 600.0
	ScaleFactor = 2.0
	FloorLevel  = 0.8 // fraction of ViewHeight where blocks rest
)

// Block sizes, normalized like positions.
const (
	LightSize = 0.1
	HeavySize = 0.15
)

// Playback
const (
	DefaultTimeDivisor = 20.0 // real seconds per simulated second
	MinSpeed           = 1.0 / 16
	MaxSpeed           = 64.0
)

// Rendering
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
	MaxTermWidth    = 200
	MaxTermHeight   = 60
	statusRows      = 1 // reserved below the canvas
)
