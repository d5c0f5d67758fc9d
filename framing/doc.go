// Package framing delimits binary frames on a byte stream using flag bytes
// with byte stuffing.
//
// An encoded frame is Start, the payload with every reserved byte preceded
// by Escape, then End. The Decoder is a streaming state machine that
// tolerates arbitrary chunking and resynchronizes on malformed input by
// replaying the offending byte from the WaitHeader state.
package framing
