package framing

// Decoder reassembles frames from a byte stream fed in arbitrary chunks.
// State persists between Feed calls. A Decoder must not be used from more
// than one goroutine at a time.
type Decoder struct {
	state    State
	buf      frameBuffer
	observer Observer
	stats    Stats
}

// NewDecoder creates a Decoder in the WaitHeader state.
func NewDecoder(opts ...Option) *Decoder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Decoder{
		state:    WaitHeader,
		buf:      newFrameBuffer(o.maxFrameSize),
		observer: o.observer,
	}
}

// Feed runs every byte of p through the state machine, calling sink once
// for each frame completed along the way. Malformed input is absorbed by
// resynchronizing; Feed never fails.
func (d *Decoder) Feed(p []byte, sink FrameSink) {
	d.stats.BytesIn += uint64(len(p))

	for i := 0; i < len(p); {
		b := p[i]
		from := d.state
		step := Transition(from, b, d.buf.full())
		n := d.buf.len()

		switch step.Action {
		case ActionDiscard:
			d.stats.BytesDiscarded++
		case ActionBegin:
			d.buf.reset()
			n = 0
		case ActionAppend:
			d.buf.append(b)
			n++
		case ActionDeliver:
			d.stats.Frames++
			if sink != nil {
				sink(d.buf.bytes())
			}
			d.buf.reset()
		case ActionAbort:
			d.stats.countAbort(step.Reason)
			d.buf.reset()
		}
		d.state = step.Next

		if d.observer != nil {
			d.observer(Event{
				Byte:     b,
				Offset:   i,
				From:     from,
				To:       step.Next,
				Action:   step.Action,
				Reason:   step.Reason,
				Consumed: step.Consumed,
				Len:      n,
			})
		}

		if step.Consumed {
			i++
		}
	}
}

// Reset drops any partial frame and returns to WaitHeader. Counters are
// kept.
func (d *Decoder) Reset() {
	d.state = WaitHeader
	d.buf.reset()
}

// State returns the current state.
func (d *Decoder) State() State {
	return d.state
}

// Buffered returns the number of payload bytes held for the frame in
// progress.
func (d *Decoder) Buffered() int {
	return d.buf.len()
}

// MaxFrameSize returns the accumulator capacity.
func (d *Decoder) MaxFrameSize() int {
	return len(d.buf.data)
}

// Stats returns a snapshot of the decoder's counters.
func (d *Decoder) Stats() Stats {
	return d.stats
}
