package anim

import "time"

// Playback converts elapsed wall-clock time into simulated time.
// Simulated time advances by real seconds * speed / divisor while not paused.
type Playback struct {
	divisor float64
	speed   float64
	paused  bool
	now     float64
}

// NewPlayback creates a running playback at speed 1. A non-positive
// divisor uses DefaultTimeDivisor.
func NewPlayback(divisor float64) *Playback {
	if divisor <= 0 {
		divisor = DefaultTimeDivisor
	}
	return &Playback{divisor: divisor, speed: 1}
}

// Advance moves simulated time forward by a real-time delta.
func (p *Playback) Advance(d time.Duration) {
	if p.paused || d <= 0 {
		return
	}
	p.now += d.Seconds() * p.speed / p.divisor
}

// Time returns the current simulated time.
func (p *Playback) Time() float64 {
	return p.now
}

// Speed returns the current speed multiplier.
func (p *Playback) Speed() float64 {
	return p.speed
}

// Paused reports whether playback is paused.
func (p *Playback) Paused() bool {
	return p.paused
}

// TogglePause pauses or resumes.
func (p *Playback) TogglePause() {
	p.paused = !p.paused
}

// Faster doubles the speed n times, up to MaxSpeed.
func (p *Playback) Faster(n int) {
	for ; n > 0 && p.speed < MaxSpeed; n-- {
		p.speed *= 2
	}
}

// Slower halves the speed n times, down to MinSpeed.
func (p *Playback) Slower(n int) {
	for ; n > 0 && p.speed > MinSpeed; n-- {
		p.speed /= 2
	}
}

// Restart rewinds to time zero, keeping speed and pause state.
func (p *Playback) Restart() {
	p.now = 0
}
