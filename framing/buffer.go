package framing

// frameBuffer is a fixed-capacity accumulator. Writes past capacity are
// rejected, never grown.
type frameBuffer struct {
	data []byte
	n    int
}

func newFrameBuffer(capacity int) frameBuffer {
	return frameBuffer{data: make([]byte, capacity)}
}

// append stores c and reports whether there was room for it.
func (b *frameBuffer) append(c byte) bool {
	if b.n >= len(b.data) {
		return false
	}
	b.data[b.n] = c
	b.n++
	return true
}

func (b *frameBuffer) full() bool {
	return b.n >= len(b.data)
}

func (b *frameBuffer) reset() {
	b.n = 0
}

func (b *frameBuffer) len() int {
	return b.n
}

func (b *frameBuffer) bytes() []byte {
	return b.data[:b.n]
}
