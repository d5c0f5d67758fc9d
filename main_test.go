package main

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"flagframe/framing"
	"flagframe/packet"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu    sync.Mutex
	sent  [][]byte
	err   error
	stats framing.Stats
}

func (f *fakeClient) Send(payload []byte) (packet.Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return packet.Frame{}, f.err
	}
	f.sent = append(f.sent, payload)
	return packet.Frame{Seq: uint64(len(f.sent)), Direction: packet.DirectionTX, Payload: payload}, nil
}

func (f *fakeClient) Stats() framing.Stats {
	return f.stats
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func TestModelRecordsReceivedFrames(t *testing.T) {
	frames := make(chan packet.Frame, 1)
	m := initialModel("demo", &fakeClient{}, frames)

	m, cmd := update(t, m, packet.Frame{Seq: 1, Payload: []byte{1, 2}})
	assert.NotNil(t, cmd, "keeps listening for frames")
	assert.Equal(t, 1, m.framelogModel.Len())
	assert.Equal(t, "last RX #1 (2 bytes)", m.footerModel.Status())
}

func TestModelSendSample(t *testing.T) {
	client := &fakeClient{}
	m := initialModel("demo", client, nil)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	require.NotNil(t, cmd)

	res := m.sendCmd(m.sample)()
	m, _ = update(t, m, res)

	require.Len(t, client.sent, 1)
	assert.Equal(t, m.sample, client.sent[0])
	assert.Equal(t, 1, m.framelogModel.Len())
	assert.Equal(t, "sent TX #1", m.footerModel.Status())
}

func TestModelSendFailure(t *testing.T) {
	client := &fakeClient{err: framing.ErrFrameTooLarge}
	m := initialModel("demo", client, nil)

	m, _ = update(t, m, m.sendCmd([]byte{1})())
	assert.Equal(t, 0, m.framelogModel.Len())
	assert.Contains(t, m.footerModel.Status(), "send failed")
}

func TestModelStatsTick(t *testing.T) {
	client := &fakeClient{stats: framing.Stats{Frames: 3, Overflows: 1}}
	m := initialModel("demo", client, nil)

	m, cmd := update(t, m, statsTickMsg{})
	assert.NotNil(t, cmd)
	assert.Contains(t, m.statsModel.Rows(), [2]string{"Frames RX", "3"})
	assert.Contains(t, m.statsModel.Rows(), [2]string{"Overflow", "1"})
}

func TestModelLinkClosed(t *testing.T) {
	frames := make(chan packet.Frame)
	close(frames)
	m := initialModel("demo", &fakeClient{}, frames)

	msg := m.listenForFrames()()
	assert.Equal(t, linkClosedMsg{}, msg)

	m, _ = update(t, m, msg)
	assert.Equal(t, "link closed", m.footerModel.Status())
}

func TestModelQuitAndResize(t *testing.T) {
	m := initialModel("demo", &fakeClient{}, nil)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.NotEmpty(t, m.View())

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRunHeadlessSendsSampleAndDrains(t *testing.T) {
	client := &fakeClient{}
	frames := make(chan packet.Frame, 2)
	frames <- packet.Frame{Seq: 1, Payload: []byte{0x01}}
	close(frames)

	err := runHeadless(context.Background(), client, frames, true)
	require.NoError(t, err)
	require.Len(t, client.sent, 1)
}

func TestRunHeadlessSendError(t *testing.T) {
	client := &fakeClient{err: errors.New("boom")}
	err := runHeadless(context.Background(), client, nil, true)
	assert.Error(t, err)
}

func TestRunHeadlessStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runHeadless(ctx, &fakeClient{}, make(chan packet.Frame), false) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("runHeadless did not stop")
	}
}

func TestLoadConfigMissingExplicitPath(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadConfigExample(t *testing.T) {
	conf, err := loadConfig("config.example.toml")
	require.NoError(t, err)
	assert.Equal(t, "demo", conf.Interface.Type)
}
