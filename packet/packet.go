package packet

import "time"

// Direction tells whether a frame was received or transmitted.
type Direction int

const (
	DirectionRX Direction = iota // Decoded from the link
	DirectionTX                  // Encoded and written to the link
)

func (d Direction) String() string {
	if d == DirectionTX {
		return "TX"
	}
	return "RX"
}

// Frame is one payload crossing the link, detached from the decoder's
// buffer so it can be handed to other goroutines.
type Frame struct {
	Seq       uint64 // per-direction sequence number, starting at 1
	Direction Direction
	Payload   []byte
	At        time.Time
}

// Clone returns a Frame that owns a copy of payload.
func Clone(seq uint64, dir Direction, payload []byte, at time.Time) Frame {
	return Frame{
		Seq:       seq,
		Direction: dir,
		Payload:   append([]byte{}, payload...),
		At:        at,
	}
}
