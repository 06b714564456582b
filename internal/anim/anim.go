// Package anim plays a collision timeline back in a terminal.
package anim

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tomz197/clack/internal/collide"
	"github.com/tomz197/clack/internal/draw"
	"github.com/tomz197/clack/internal/input"
)

// Options configures a Player.
type Options struct {
	Power        int // shown in the status line
	TimeDivisor  float64
	TermSizeFunc draw.TermSizeFunc
}

// Player renders one timeline for one terminal.
type Player struct {
	timeline     *collide.Timeline
	power        int
	playback     *Playback
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates the whole frame for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	offsetCol    int
	offsetRow    int
	running      bool
}

// NewPlayer creates a player reading controls from r and drawing to w.
// The timeline must not be modified while the player runs.
func NewPlayer(tl *collide.Timeline, r *bufio.Reader, w io.Writer, opts Options) *Player {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, ViewWidth, ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Player{
		timeline:     tl,
		power:        opts.Power,
		playback:     NewPlayback(opts.TimeDivisor),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		offsetCol:    offsetCol,
		offsetRow:    offsetRow,
		running:      true,
	}
}

// Run plays the timeline until the user quits, the input closes or ctx is done.
func (p *Player) Run(ctx context.Context) error {
	draw.HideCursor(p.writer)
	defer draw.ShowCursor(p.writer)
	draw.ClearScreen(p.writer)

	lastTime := time.Now()

	for p.running {
		if ctx.Err() != nil {
			break
		}

		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		p.processInput()
		p.updateScreen()
		p.playback.Advance(delta)

		if err := p.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < TargetFrameTime {
			select {
			case <-ctx.Done():
			case <-time.After(TargetFrameTime - elapsed):
			}
		}
	}

	draw.ClearScreen(p.writer)
	return nil
}

// processInput applies pending key presses to the playback.
func (p *Player) processInput() {
	in := input.ReadInput(p.inputStream)
	if in.Quit || in.Closed {
		p.running = false
	}
	if in.Pause {
		p.playback.TogglePause()
	}
	if in.Restart {
		p.playback.Restart()
	}
	p.playback.Faster(in.Faster)
	p.playback.Slower(in.Slower)
}

// updateScreen follows terminal resizes, clamping to the max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area.
func (p *Player) updateScreen() {
	termWidth, termHeight, err := p.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != p.canvas.TerminalWidth() || renderHeight != p.canvas.TerminalHeight() ||
		offsetCol != p.offsetCol || offsetRow != p.offsetRow {
		draw.ClearScreen(p.chunkWriter)
		p.canvas.ForceRedraw()
	}

	p.canvas.Resize(renderWidth, renderHeight)
	p.canvas.SetOffset(offsetCol, offsetRow)
	p.chunkWriter.SetOffset(offsetCol, offsetRow)
	p.offsetCol, p.offsetRow = offsetCol, offsetRow
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area. One row is kept for the status line.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, MaxTermWidth)
	renderHeight = min(termHeight-statusRows, MaxTermHeight)
	renderWidth = max(renderWidth, 1)
	renderHeight = max(renderHeight, 1)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-statusRows-renderHeight)/2, 0)
	return
}

// drawFrame builds the frame in the chunk writer and flushes it once.
// Only changed canvas cells and the status row are sent.
func (p *Player) drawFrame() error {
	now := p.playback.Time()
	p.canvas.Clear()

	floor := FloorLevel * ViewHeight
	p.canvas.DrawLine(draw.Point{X: 0, Y: 0}, draw.Point{X: 0, Y: floor})
	p.canvas.DrawLine(draw.Point{X: 0, Y: floor}, draw.Point{X: ViewWidth, Y: floor})

	scene, ok := Layout(p.timeline, now)
	if ok {
		p.canvas.FillRect(scene.Light)
		p.canvas.FillRect(scene.Heavy)
	}

	if err := p.canvas.Render(p.chunkWriter); err != nil {
		return err
	}
	statusRow := p.canvas.TerminalHeight() + 1
	p.chunkWriter.ClearLine(1, statusRow)
	p.chunkWriter.WriteString(statusLine(p.power, now, p.playback, scene, ok))
	return p.chunkWriter.Flush()
}

// statusLine summarizes playback for the row under the canvas.
func statusLine(power int, now float64, pb *Playback, scene Scene, ok bool) string {
	collisions := 0
	if ok {
		collisions = scene.Collisions
	}
	s := fmt.Sprintf("power %d  t=%.4f  collisions %d  speed x%g", power, now, collisions, pb.Speed())
	switch {
	case pb.Paused():
		s += "  [paused]"
	case ok && scene.Finished:
		s += "  [done]"
	}
	return s + "  q quit  space pause  r restart  +/- speed"
}
