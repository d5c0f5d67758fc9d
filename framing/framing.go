package framing

import "errors"

// Reserved byte values.
const (
	Start  byte = 0x12 // Start of frame
	End    byte = 0x13 // End of frame
	Escape byte = 0x7D // Next byte is a literal
)

// DefaultMaxFrameSize is the largest raw frame accepted when no other limit
// is configured.
const DefaultMaxFrameSize = 30

var (
	// ErrFrameTooLarge is returned by Encode when the payload exceeds the
	// maximum frame size.
	ErrFrameTooLarge = errors.New("framing: frame too large")
)

// ByteSink consumes one finished encoded frame.
type ByteSink func(encoded []byte)

// FrameSink consumes one decoded frame. The slice is only valid until the
// sink returns.
type FrameSink func(frame []byte)

// IsReserved reports whether b must be escaped inside a frame.
func IsReserved(b byte) bool {
	return b == Start || b == End || b == Escape
}

// MaxEncodedSize is the worst-case encoded length of a frame of n bytes.
func MaxEncodedSize(n int) int {
	return 2*n + 2
}

// Option configures an Encoder or Decoder.
type Option func(*options)

type options struct {
	maxFrameSize int
	observer     Observer
}

func defaultOptions() options {
	return options{maxFrameSize: DefaultMaxFrameSize}
}

// WithMaxFrameSize overrides DefaultMaxFrameSize. Non-positive values are
// ignored.
func WithMaxFrameSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxFrameSize = n
		}
	}
}

// WithObserver installs a hook invoked on every decoder transition.
// Encoders ignore it.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}
