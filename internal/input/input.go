// Package input turns raw terminal bytes into animation controls.
package input

import (
	"bufio"
)

// Input holds the controls pressed since the previous read.
type Input struct {
	Quit    bool
	Pause   bool // toggle
	Restart bool
	Faster  int // number of speed-up presses
	Slower  int // number of slow-down presses
	Closed  bool
	Pressed []byte
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Parse(buf)
	in.Closed = s.closed
	return in
}

// Parse maps a batch of bytes to controls. Arrow keys are accepted for speed:
// up/right speed up, down/left slow down. Pause toggles cancel in pairs.
func Parse(buf []byte) Input {
	in := Input{Pressed: buf}
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A', 'C':
				in.Faster++
				i += 2
				continue
			case 'B', 'D':
				in.Slower++
				i += 2
				continue
			}
		}

		switch b {
		case 'q', 'Q', '\x03', '\x1b':
			in.Quit = true
		case ' ', 'p', 'P':
			in.Pause = !in.Pause
		case 'r', 'R':
			in.Restart = true
		case '+', '=':
			in.Faster++
		case '-', '_':
			in.Slower++
		}
	}
	return in
}
