package framing

// State is the decoder's position within a frame.
type State uint8

const (
	WaitHeader  State = iota // Between frames, skipping noise until Start
	InMessage                // Accumulating payload bytes
	AfterEscape              // Previous byte was Escape
)

func (s State) String() string {
	switch s {
	case WaitHeader:
		return "WAIT_HEADER"
	case InMessage:
		return "IN_MSG"
	case AfterEscape:
		return "AFTER_ESCAPE"
	default:
		return "UNKNOWN"
	}
}

// Action is what the decoder does with its accumulator on a transition.
type Action uint8

const (
	ActionDiscard Action = iota // Byte dropped, accumulator untouched
	ActionBegin                 // Start seen, accumulator cleared
	ActionEscape                // Escape consumed
	ActionAppend                // Byte appended to the accumulator
	ActionDeliver               // End seen, accumulator delivered and cleared
	ActionAbort                 // Partial frame dropped, byte replayed
)

func (a Action) String() string {
	switch a {
	case ActionDiscard:
		return "discard"
	case ActionBegin:
		return "begin"
	case ActionEscape:
		return "escape"
	case ActionAppend:
		return "append"
	case ActionDeliver:
		return "deliver"
	case ActionAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Reason explains an ActionAbort.
type Reason uint8

const (
	ReasonNone            Reason = iota
	ReasonUnexpectedStart        // Start inside a frame
	ReasonOverflow               // Frame longer than the maximum size
	ReasonBadEscape              // Escape followed by a non-reserved byte
	ReasonBadState               // Decoder state outside the known set
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUnexpectedStart:
		return "unexpected_start"
	case ReasonOverflow:
		return "overflow"
	case ReasonBadEscape:
		return "bad_escape"
	case ReasonBadState:
		return "bad_state"
	default:
		return "unknown"
	}
}

// Step is the outcome of feeding one byte to the state machine. When
// Consumed is false the same byte must be fed again from Next.
type Step struct {
	Next     State
	Action   Action
	Reason   Reason
	Consumed bool
}

func abort(reason Reason) Step {
	return Step{Next: WaitHeader, Action: ActionAbort, Reason: reason}
}

// Transition computes the decoder step for byte b in state s. full reports
// whether the accumulator is at capacity. It has no side effects.
func Transition(s State, b byte, full bool) Step {
	switch s {
	case WaitHeader:
		if b == Start {
			return Step{Next: InMessage, Action: ActionBegin, Consumed: true}
		}
		return Step{Next: WaitHeader, Action: ActionDiscard, Consumed: true}

	case InMessage:
		switch b {
		case Escape:
			return Step{Next: AfterEscape, Action: ActionEscape, Consumed: true}
		case End:
			return Step{Next: WaitHeader, Action: ActionDeliver, Consumed: true}
		case Start:
			return abort(ReasonUnexpectedStart)
		}
		if full {
			return abort(ReasonOverflow)
		}
		return Step{Next: InMessage, Action: ActionAppend, Consumed: true}

	case AfterEscape:
		if !IsReserved(b) {
			return abort(ReasonBadEscape)
		}
		if full {
			return abort(ReasonOverflow)
		}
		return Step{Next: InMessage, Action: ActionAppend, Consumed: true}
	}

	// Unknown state: drop whatever was collected and consume the byte.
	return Step{Next: WaitHeader, Action: ActionAbort, Reason: ReasonBadState, Consumed: true}
}
