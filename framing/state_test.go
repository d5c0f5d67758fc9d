package framing_test

import (
	"testing"

	"flagframe/framing"
	"github.com/stretchr/testify/assert"
)

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name  string
		state framing.State
		b     byte
		full  bool
		want  framing.Step
	}{
		{
			name:  "wait header start",
			state: framing.WaitHeader, b: framing.Start,
			want: framing.Step{Next: framing.InMessage, Action: framing.ActionBegin, Consumed: true},
		},
		{
			name:  "wait header noise",
			state: framing.WaitHeader, b: 0x42,
			want: framing.Step{Next: framing.WaitHeader, Action: framing.ActionDiscard, Consumed: true},
		},
		{
			name:  "wait header end is noise",
			state: framing.WaitHeader, b: framing.End,
			want: framing.Step{Next: framing.WaitHeader, Action: framing.ActionDiscard, Consumed: true},
		},
		{
			name:  "in message escape",
			state: framing.InMessage, b: framing.Escape,
			want: framing.Step{Next: framing.AfterEscape, Action: framing.ActionEscape, Consumed: true},
		},
		{
			name:  "in message escape when full",
			state: framing.InMessage, b: framing.Escape, full: true,
			want: framing.Step{Next: framing.AfterEscape, Action: framing.ActionEscape, Consumed: true},
		},
		{
			name:  "in message end",
			state: framing.InMessage, b: framing.End, full: true,
			want: framing.Step{Next: framing.WaitHeader, Action: framing.ActionDeliver, Consumed: true},
		},
		{
			name:  "in message start",
			state: framing.InMessage, b: framing.Start,
			want: framing.Step{Next: framing.WaitHeader, Action: framing.ActionAbort, Reason: framing.ReasonUnexpectedStart},
		},
		{
			name:  "in message data",
			state: framing.InMessage, b: 0x00,
			want: framing.Step{Next: framing.InMessage, Action: framing.ActionAppend, Consumed: true},
		},
		{
			name:  "in message overflow",
			state: framing.InMessage, b: 0x00, full: true,
			want: framing.Step{Next: framing.WaitHeader, Action: framing.ActionAbort, Reason: framing.ReasonOverflow},
		},
		{
			name:  "after escape reserved",
			state: framing.AfterEscape, b: framing.End,
			want: framing.Step{Next: framing.InMessage, Action: framing.ActionAppend, Consumed: true},
		},
		{
			name:  "after escape escape",
			state: framing.AfterEscape, b: framing.Escape,
			want: framing.Step{Next: framing.InMessage, Action: framing.ActionAppend, Consumed: true},
		},
		{
			name:  "after escape overflow",
			state: framing.AfterEscape, b: framing.Start, full: true,
			want: framing.Step{Next: framing.WaitHeader, Action: framing.ActionAbort, Reason: framing.ReasonOverflow},
		},
		{
			name:  "after escape plain byte",
			state: framing.AfterEscape, b: 0x41,
			want: framing.Step{Next: framing.WaitHeader, Action: framing.ActionAbort, Reason: framing.ReasonBadEscape},
		},
		{
			name:  "unknown state",
			state: framing.State(42), b: framing.Start,
			want: framing.Step{Next: framing.WaitHeader, Action: framing.ActionAbort, Reason: framing.ReasonBadState, Consumed: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, framing.Transition(tt.state, tt.b, tt.full))
		})
	}
}

func TestAbortsNeverConsume(t *testing.T) {
	for _, s := range []framing.State{framing.WaitHeader, framing.InMessage, framing.AfterEscape} {
		for b := 0; b < 256; b++ {
			for _, full := range []bool{false, true} {
				step := framing.Transition(s, byte(b), full)
				if step.Action == framing.ActionAbort {
					assert.False(t, step.Consumed, "%s 0x%02X full=%v", s, b, full)
					assert.Equal(t, framing.WaitHeader, step.Next)
				}
			}
		}
	}
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "IN_MSG", framing.InMessage.String())
	assert.Equal(t, "UNKNOWN", framing.State(9).String())
	assert.Equal(t, "deliver", framing.ActionDeliver.String())
	assert.Equal(t, "bad_escape", framing.ReasonBadEscape.String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "len=0 {}", framing.Format(nil))
	assert.Equal(t,
		"len=4 {START, 0x0A, ESCAPE, END}",
		framing.Format([]byte{framing.Start, 0x0A, framing.Escape, framing.End}))
}
