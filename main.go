package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"flagframe/config"
	"flagframe/device/link"
	"flagframe/framing"
	"flagframe/metrics"
	"flagframe/packet"
	"flagframe/ui/footer"
	"flagframe/ui/framelog"
	"flagframe/ui/header"
	"flagframe/ui/stats"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	statsWidth    = 24
	statsInterval = 500 * time.Millisecond
	logFile       = "flagframe.log"
)

// LinkClient is what the monitor needs from a link
type LinkClient interface {
	Send(payload []byte) (packet.Frame, error)
	Stats() framing.Stats
}

type statsTickMsg struct{}

type linkClosedMsg struct{}

type sendResultMsg struct {
	frame packet.Frame
	err   error
}

// model holds the application's state
type model struct {
	width  int
	height int

	headerModel   header.Model
	framelogModel framelog.Model
	statsModel    stats.Model
	footerModel   footer.Model

	client LinkClient
	frames <-chan packet.Frame
	sample []byte
}

func initialModel(linkName string, client LinkClient, frames <-chan packet.Frame) model {
	return model{
		width:         80,
		height:        24,
		headerModel:   header.New(linkName),
		framelogModel: framelog.New(),
		statsModel:    stats.New(),
		footerModel:   footer.New(),
		client:        client,
		frames:        frames,
		sample:        link.SampleFrame(),
	}
}

// listenForFrames waits for the next decoded frame
func (m model) listenForFrames() tea.Cmd {
	return func() tea.Msg {
		f, ok := <-m.frames
		if !ok {
			return linkClosedMsg{}
		}
		return f
	}
}

func tickStats() tea.Cmd {
	return tea.Tick(statsInterval, func(time.Time) tea.Msg {
		return statsTickMsg{}
	})
}

// sendCmd encodes and writes payload off the update loop
func (m model) sendCmd(payload []byte) tea.Cmd {
	return func() tea.Msg {
		f, err := m.client.Send(payload)
		return sendResultMsg{frame: f, err: err}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.listenForFrames(), tickStats())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case packet.Frame:
		m.framelogModel, _ = m.framelogModel.Update(msg)
		m.footerModel.SetStatus(fmt.Sprintf("last RX #%d (%d bytes)", msg.Seq, len(msg.Payload)))
		cmds = append(cmds, m.listenForFrames())

	case sendResultMsg:
		if msg.err != nil {
			m.footerModel.SetStatus("send failed: " + msg.err.Error())
			break
		}
		m.statsModel.AddSent()
		m.framelogModel, _ = m.framelogModel.Update(msg.frame)
		m.footerModel.SetStatus(fmt.Sprintf("sent TX #%d", msg.frame.Seq))

	case linkClosedMsg:
		m.footerModel.SetStatus("link closed")

	case statsTickMsg:
		m.statsModel.SetStats(m.client.Stats())
		cmds = append(cmds, tickStats())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		mainHeight := m.height - 2 // header + footer
		if mainHeight < 3 {
			mainHeight = 3
		}
		logWidth := m.width - statsWidth
		if logWidth < 10 {
			logWidth = 10
		}

		m.headerModel, _ = m.headerModel.Update(tea.WindowSizeMsg{Width: m.width, Height: 1})
		m.framelogModel, _ = m.framelogModel.Update(tea.WindowSizeMsg{Width: logWidth, Height: mainHeight})
		m.statsModel, _ = m.statsModel.Update(tea.WindowSizeMsg{Width: statsWidth, Height: mainHeight})
		m.footerModel, _ = m.footerModel.Update(tea.WindowSizeMsg{Width: m.width, Height: 1})

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "s":
			cmds = append(cmds, m.sendCmd(m.sample))
		}
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top,
		m.framelogModel.View(),
		m.statsModel.View(),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerModel.View(),
		middle,
		m.footerModel.View(),
	)
}

// runHeadless logs frames until the link closes or ctx is done. On a demo
// link the sample frame is sent once so the echo path is exercised.
func runHeadless(ctx context.Context, client LinkClient, frames <-chan packet.Frame, sendSample bool) error {
	if sendSample {
		if _, err := client.Send(link.SampleFrame()); err != nil {
			return fmt.Errorf("send sample: %w", err)
		}
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case f, ok := <-frames:
			if !ok {
				st := client.Stats()
				log.Info().
					Uint64("frames", st.Frames).
					Uint64("aborts", st.Aborts()).
					Uint64("noise", st.BytesDiscarded).
					Msg("link closed")
				return nil
			}
			log.Info().
				Uint64("seq", f.Seq).
				Int("len", len(f.Payload)).
				Str("frame", framing.Format(f.Payload)).
				Msg("frame")
		}
	}
}

func setupLogging(conf config.LogConfig, headless bool) (func(), error) {
	level, err := conf.ParseLevel()
	if err != nil {
		return nil, err
	}

	if headless {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
		return func() {}, nil
	}

	// The terminal belongs to the UI, so logs go to a file.
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger().Level(level)
	return func() { f.Close() }, nil
}

func loadConfig(path string) (config.Config, error) {
	conf, err := config.LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) && path == config.DefaultPath {
		return config.Default(), nil
	}
	return conf, err
}

func main() {
	configPath := flag.String("config", config.DefaultPath, "TOML or YAML config file")
	headless := flag.Bool("headless", false, "log frames instead of starting the terminal UI")
	flag.Parse()

	conf, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flagframe: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogging(conf.Log, *headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flagframe: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	m := metrics.NewMetrics()
	client, err := link.Connect(conf, link.WithMetrics(m), link.WithLogger(log.Logger))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to interface")
	}
	defer client.Close()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)

	frames := make(chan packet.Frame, 16)
	eg.Go(func() error {
		return client.Start(ctx, frames)
	})

	var srv *http.Server
	if conf.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		srv = &http.Server{Addr: conf.Metrics.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		eg.Go(func() error {
			log.Info().Str("address", conf.Metrics.Address).Msg("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	var program *tea.Program
	if !*headless {
		linkName := strings.TrimSpace(conf.Interface.Type + " " + conf.Interface.Device)
		program = tea.NewProgram(initialModel(linkName, client, frames), tea.WithAltScreen())
	}

	eg.Go(func() error {
		defer cancel()
		if program == nil {
			return runHeadless(ctx, client, frames, conf.Interface.Type == config.TypeDemo)
		}
		_, err := program.Run()
		return err
	})

	eg.Go(func() error {
		<-ctx.Done()
		if program != nil {
			program.Quit()
		}
		if srv != nil {
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			srv.Shutdown(shutdownCtx)
		}
		return client.Close()
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("exited program")
	}
}
