package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"flagframe/config"
	"flagframe/framing"
	"flagframe/metrics"
	"flagframe/packet"

	"github.com/rs/zerolog"
)

const defaultReadSize = 256

// Client owns one link and the decoder state for it. Start must be run by a
// single goroutine; Send may be called from any goroutine.
type Client struct {
	conn    io.ReadWriteCloser // The underlying connection (TCP, Serial, demo)
	encoder *framing.Encoder
	decoder *framing.Decoder

	metrics  *metrics.Metrics
	logger   zerolog.Logger
	readSize int
	now      func() time.Time

	writeMu sync.Mutex
	txSeq   uint64

	statsMu sync.Mutex
	stats   framing.Stats

	closeOnce sync.Once
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records link and decoder activity in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger used for connection events and tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithReadSize sets the size of each read from the link.
func WithReadSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.readSize = n
		}
	}
}

// Connect opens the link described by conf.Interface.
func Connect(conf config.Config, opts ...Option) (*Client, error) {
	var (
		conn io.ReadWriteCloser
		err  error
	)

	iface := conf.Interface
	switch iface.Type {
	case config.TypeSerial:
		conn, err = connectSerial(iface.Device, iface.Baud, iface.ReadTimeout.Duration)
	case config.TypeTCP:
		conn, err = connectTCP(iface.Device)
	case config.TypeDemo:
		conn = connectDemo()
	default:
		err = fmt.Errorf("%w: %q", config.ErrUnknownInterface, iface.Type)
	}
	if err != nil {
		return nil, err
	}

	c := NewClient(conn, conf.Framing, opts...)
	c.logger.Info().
		Str("type", iface.Type).
		Str("device", iface.Device).
		Int("max_frame_size", conf.Framing.MaxFrameSize).
		Msg("link connected")
	return c, nil
}

// NewClient wraps an already open connection.
func NewClient(conn io.ReadWriteCloser, conf config.FramingConfig, opts ...Option) *Client {
	c := &Client{
		conn:     conn,
		logger:   zerolog.Nop(),
		readSize: defaultReadSize,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	var observers []framing.Observer
	if c.metrics != nil {
		observers = append(observers, c.metrics.Observer())
	}
	if conf.Trace {
		observers = append(observers, framing.TraceObserver(c.logger.With().Str("component", "decoder").Logger()))
	}

	size := framing.WithMaxFrameSize(conf.MaxFrameSize)
	c.encoder = framing.NewEncoder(size)
	if len(observers) > 0 {
		c.decoder = framing.NewDecoder(size, framing.WithObserver(framing.Observers(observers...)))
	} else {
		c.decoder = framing.NewDecoder(size)
	}
	return c
}

// Start runs the read loop, sending every decoded frame to out until the
// link fails or ctx is cancelled. out is closed when Start returns. A clean
// end of stream returns nil.
func (c *Client) Start(ctx context.Context, out chan<- packet.Frame) error {
	defer close(out)

	var rxSeq uint64
	deliver := func(payload []byte) {
		rxSeq++
		frame := packet.Clone(rxSeq, packet.DirectionRX, payload, c.now())
		c.logger.Debug().Uint64("seq", rxSeq).Str("frame", framing.Format(payload)).Msg("frame received")
		select {
		case out <- frame:
		case <-ctx.Done():
		}
	}

	buf := make([]byte, c.readSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Serial ports return 0, nil when the read timeout expires.
		n, err := c.conn.Read(buf)
		if n > 0 {
			if c.metrics != nil {
				c.metrics.BytesReceived.Add(float64(n))
			}
			c.decoder.Feed(buf[:n], deliver)
			c.publishStats()
		}

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if errors.Is(err, io.EOF) {
				c.logger.Info().Msg("link closed by remote")
				return nil
			}
			if c.metrics != nil {
				c.metrics.ReadErrors.Inc()
			}
			return fmt.Errorf("read link: %w", err)
		}
	}
}

// Send encodes payload and writes it to the link as one frame.
func (c *Client) Send(payload []byte) (packet.Frame, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	var (
		n        int
		writeErr error
	)
	err := c.encoder.Encode(payload, func(encoded []byte) {
		n, writeErr = c.conn.Write(encoded)
	})
	if err != nil {
		if c.metrics != nil {
			c.metrics.EncodeErrors.Inc()
		}
		return packet.Frame{}, err
	}
	if writeErr != nil {
		return packet.Frame{}, fmt.Errorf("write link: %w", writeErr)
	}

	if c.metrics != nil {
		c.metrics.RecordSend(n)
	}
	c.txSeq++
	c.logger.Debug().Uint64("seq", c.txSeq).Int("encoded_len", n).Str("frame", framing.Format(payload)).Msg("frame sent")
	return packet.Clone(c.txSeq, packet.DirectionTX, payload, c.now()), nil
}

// Stats returns the decoder counters as of the last completed read.
func (c *Client) Stats() framing.Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

func (c *Client) publishStats() {
	st := c.decoder.Stats()
	c.statsMu.Lock()
	c.stats = st
	c.statsMu.Unlock()
}

// Close disconnects the client. It is safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}
