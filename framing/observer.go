package framing

import "github.com/rs/zerolog"

// Event describes one decoder transition.
type Event struct {
	Byte     byte
	Offset   int // index of Byte within the chunk passed to Feed
	From     State
	To       State
	Action   Action
	Reason   Reason
	Consumed bool
	Len      int // bytes buffered; for deliver and abort, the size of the frame delivered or dropped
}

// Observer receives decoder events synchronously. It must not call back
// into the decoder.
type Observer func(Event)

// Observers fans one event out to several observers, skipping nil entries.
func Observers(obs ...Observer) Observer {
	return func(ev Event) {
		for _, o := range obs {
			if o != nil {
				o(ev)
			}
		}
	}
}

// Stats counts what a decoder has seen since it was created.
type Stats struct {
	BytesIn         uint64
	BytesDiscarded  uint64 // noise outside any frame
	Frames          uint64
	UnexpectedStart uint64
	Overflows       uint64
	BadEscapes      uint64
	BadStates       uint64
}

// Aborts is the total number of partial frames dropped.
func (s Stats) Aborts() uint64 {
	return s.UnexpectedStart + s.Overflows + s.BadEscapes + s.BadStates
}

func (s *Stats) countAbort(r Reason) {
	switch r {
	case ReasonUnexpectedStart:
		s.UnexpectedStart++
	case ReasonOverflow:
		s.Overflows++
	case ReasonBadEscape:
		s.BadEscapes++
	case ReasonBadState:
		s.BadStates++
	}
}

// TraceObserver logs every transition at trace level and aborts/deliveries
// at debug level.
func TraceObserver(logger zerolog.Logger) Observer {
	return func(ev Event) {
		var e *zerolog.Event
		switch ev.Action {
		case ActionAbort:
			e = logger.Debug().Str("reason", ev.Reason.String())
		case ActionDeliver:
			e = logger.Debug()
		default:
			e = logger.Trace()
		}
		e.Str("byte", byteName(ev.Byte)).
			Int("offset", ev.Offset).
			Stringer("from", ev.From).
			Stringer("to", ev.To).
			Stringer("action", ev.Action).
			Bool("consumed", ev.Consumed).
			Int("len", ev.Len).
			Msg("decoder transition")
	}
}
