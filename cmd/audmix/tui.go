// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ik5/audmix/mixer"
)

const volumeStep mixer.Volume = 0.1

// track is one loaded file.
type track struct {
	name  string
	sound mixer.Sound
}

// Model is the bubbletea state of the interactive demo.
type Model struct {
	ctx    context.Context
	player player
	logger *slog.Logger
	output string

	tracks   []track
	stream   bool
	interval time.Duration

	playing []mixer.SoundID
	last    mixer.SoundID
	hasLast bool

	master   mixer.Volume
	lastVol  mixer.Volume
	lastErr  string
	quitting bool
}

func newModel(ctx context.Context, p player, tracks []track, opts modelOptions) Model {
	return Model{
		ctx:      ctx,
		player:   p,
		logger:   opts.logger,
		output:   opts.output,
		tracks:   tracks,
		stream:   opts.stream,
		interval: opts.interval,
		master:   opts.master,
		lastVol:  mixer.FullVolume,
	}
}

type modelOptions struct {
	logger   *slog.Logger
	output   string
	stream   bool
	interval time.Duration
	master   mixer.Volume
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.lastErr = ""

	switch key := msg.String(); key {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "x":
		for _, id := range m.playing {
			m.player.Stop(id)
		}
		m.playing = m.playing[:0]
		m.hasLast = false

	case "+", "=":
		m.setMaster(m.master + volumeStep)
	case "-":
		m.setMaster(m.master - volumeStep)

	case "]":
		m.setLast(m.lastVol + volumeStep)
	case "[":
		m.setLast(m.lastVol - volumeStep)

	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			m.play(int(key[0] - '1'))
		}
	}

	return m, nil
}

func (m *Model) play(i int) {
	if i >= len(m.tracks) {
		return
	}
	t := m.tracks[i]

	var (
		id  mixer.SoundID
		err error
	)
	if m.stream {
		id, err = startStream(m.ctx, m.player, t.sound, m.lastVol, m.interval, m.logger)
	} else {
		id, err = m.player.Play(mixer.NewPlayback().WithSound(t.sound).WithVolume(m.lastVol))
	}
	if err != nil {
		m.fail(fmt.Errorf("play %s: %w", t.name, err))
		return
	}

	m.logger.Info("playing", "track", t.name, "id", id, "style", t.sound.PlaybackStyle)
	m.playing = append(m.playing, id)
	m.last = id
	m.hasLast = true
}

func (m *Model) setMaster(v mixer.Volume) {
	v = clampVolume(v)
	if err := m.player.SetMasterVolume(v); err != nil {
		m.fail(err)
		return
	}
	m.master = v
}

func (m *Model) setLast(v mixer.Volume) {
	v = clampVolume(v)
	if m.hasLast {
		if err := m.player.SetVolume(m.last, v); err != nil {
			m.fail(err)
			return
		}
	}
	m.lastVol = v
}

func (m *Model) fail(err error) {
	m.logger.Warn("command failed", "err", err)
	m.lastErr = err.Error()
}

// clampVolume keeps slider steps inside [0, 1] and rounds away float drift.
func clampVolume(v mixer.Volume) mixer.Volume {
	v = mixer.Volume(float32(int(v*10+0.5)) / 10)
	return min(max(v, 0), mixer.FullVolume)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "audmix on %s\n\n", m.output)

	for i, t := range m.tracks {
		fmt.Fprintf(&b, "  %d  %-32s %-8s %5.1fs\n", i+1, truncate(t.name, 32),
			t.sound.PlaybackStyle, t.sound.Duration().Seconds())
	}

	fmt.Fprintf(&b, "\n  master [%s] %3.0f%%\n", renderBar(m.master, 10), m.master*100)
	fmt.Fprintf(&b, "  next   [%s] %3.0f%%\n", renderBar(m.lastVol, 10), m.lastVol*100)
	fmt.Fprintf(&b, "  started %d sounds\n", len(m.playing))

	if m.lastErr != "" {
		fmt.Fprintf(&b, "\n  error: %s\n", m.lastErr)
	}

	b.WriteString("\n  1-9:play  x:stop all  +/-:master  [/]:last sound  q:quit\n")
	return b.String()
}

func renderBar(v mixer.Volume, width int) string {
	filled := int(float32(v)*float32(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
