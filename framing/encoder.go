package framing

import "fmt"

// Encoder stuffs payloads into delimited frames. It holds no per-call state
// and is safe for concurrent use.
type Encoder struct {
	maxFrameSize int
}

// NewEncoder creates an Encoder. Only WithMaxFrameSize has an effect.
func NewEncoder(opts ...Option) *Encoder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Encoder{maxFrameSize: o.maxFrameSize}
}

// MaxFrameSize returns the largest payload this encoder accepts.
func (e *Encoder) MaxFrameSize() int {
	return e.maxFrameSize
}

// AppendEncode appends the encoded form of payload to dst. On error dst is
// returned unchanged.
func (e *Encoder) AppendEncode(dst, payload []byte) ([]byte, error) {
	if len(payload) > e.maxFrameSize {
		return dst, fmt.Errorf("%w: %d bytes exceeds max %d", ErrFrameTooLarge, len(payload), e.maxFrameSize)
	}

	dst = append(dst, Start)
	for _, b := range payload {
		if IsReserved(b) {
			dst = append(dst, Escape)
		}
		dst = append(dst, b)
	}
	return append(dst, End), nil
}

// Encode builds the full encoded frame and hands it to sink in a single
// call. Nothing is written when the payload is too large.
func (e *Encoder) Encode(payload []byte, sink ByteSink) error {
	out, err := e.AppendEncode(make([]byte, 0, MaxEncodedSize(len(payload))), payload)
	if err != nil {
		return err
	}
	sink(out)
	return nil
}

var defaultEncoder = NewEncoder()

// Encode encodes payload with DefaultMaxFrameSize.
func Encode(payload []byte, sink ByteSink) error {
	return defaultEncoder.Encode(payload, sink)
}
