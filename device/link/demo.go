package link

import (
	"io"

	"flagframe/framing"
)

var sampleFrame = []byte{0x10, 0x11, framing.Start, 0x42, 0x32, framing.Escape, framing.Escape, 0x46, framing.End, 0x64}

// demoStreams is replayed into every demo link: repeated start flags ahead
// of the sample frame, then a run that overflows a 30 byte frame before a
// short frame {0x01}.
var demoStreams = [][]byte{
	{
		framing.Start, framing.Start, framing.Start, framing.Start, 0x10,
		framing.Start, 0x10, 0x11, framing.Escape, framing.Start, 0x42, 0x32,
		framing.Escape, framing.Escape, framing.Escape, framing.Escape, 0x46,
		framing.Escape, framing.End, 0x64, framing.End, 0x45, 0x33,
	},
	{
		framing.Escape, framing.Start, 0x79, 0x0, 0x0, 0x0, 0x0, 0x4, 0x0, 0x00, 0x0,
		0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x31, 0x0, 0x0,
		0x55, 0x0, 0x0, 0x20, 0x0, 0x31, 0x0, 0x1, 0x0, framing.Start, 0x1, framing.End,
	},
}

// SampleFrame returns a copy of the demonstration payload, which contains
// every reserved byte.
func SampleFrame() []byte {
	return append([]byte{}, sampleFrame...)
}

// loopback echoes every write back to the reader.
type loopback struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func newLoopback(preload ...[]byte) *loopback {
	r, w := io.Pipe()
	l := &loopback{r: r, w: w}
	go func() {
		for _, chunk := range preload {
			if _, err := w.Write(chunk); err != nil {
				return
			}
		}
	}()
	return l
}

// connectDemo returns an in-memory link preloaded with demoStreams.
func connectDemo() io.ReadWriteCloser {
	return newLoopback(demoStreams...)
}

func (l *loopback) Read(p []byte) (int, error)  { return l.r.Read(p) }
func (l *loopback) Write(p []byte) (int, error) { return l.w.Write(p) }

// Close ends the stream: pending and future reads see io.EOF, writes fail.
func (l *loopback) Close() error {
	return l.w.Close()
}
