// SPDX-License-Identifier: EPL-2.0

// Command audmix plays audio files through the mixer.
//
//	audmix [flags] file...
//
// With the TUI, keys 1-9 start the matching file, x stops everything, +/-
// change the master volume, [ and ] the volume of the last started sound,
// and q quits. With -no-tui every file starts at once. -render writes the
// mix to a WAV file instead of playing it.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/host"
	"github.com/ik5/audmix/host/offline"
	"github.com/ik5/audmix/host/otohost"
	"github.com/ik5/audmix/host/pahost"
	"github.com/ik5/audmix/mixer"
)

var (
	backend    = flag.String("backend", "oto", "Audio output: oto, portaudio or offline")
	volume     = flag.Float64("volume", 1, "Initial master volume, 0 to 1")
	loop       = flag.Bool("loop", false, "Loop every file")
	stream     = flag.Bool("stream", false, "Feed files to the mixer in chunks instead of whole")
	chunkLen   = flag.Duration("chunk", 50*time.Millisecond, "Chunk length with -stream")
	renderPath = flag.String("render", "", "Mix offline into this WAV file and exit")
	resample   = flag.Bool("resample", false, "Resample files to the mixer's reference rate when loading")
	mono       = flag.Bool("mono", false, "Fold files to mono when loading")
	seconds    = flag.Float64("seconds", 0, "Play or render duration (default: longest file)")
	noTUI      = flag.Bool("no-tui", false, "Disable the TUI and log to stderr")
	logFile    = flag.String("log-file", "audmix.log", "Log file path")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] file...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "audmix:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	useTUI := !*noTUI && *renderPath == ""

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	if !useTUI {
		w = io.MultiWriter(os.Stderr, f)
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))

	master := mixer.Volume(*volume)
	if err := master.Validate(); err != nil {
		return fmt.Errorf("-volume: %w", err)
	}

	style := mixer.Once
	if *loop {
		style = mixer.Looped
	}

	var opts []audmix.LoadOption
	if *resample {
		opts = append(opts, audmix.WithSampleRate(mixer.ReferenceRate))
	}
	if *mono {
		opts = append(opts, audmix.WithChannels(1))
	}

	tracks, err := loadTracks(ctx, flag.Args(), style, logger, opts...)
	if err != nil {
		return err
	}

	if *renderPath != "" {
		out, err := os.Create(*renderPath)
		if err != nil {
			return err
		}
		defer out.Close()

		return render(out, tracks, renderOptions{
			seconds: *seconds,
			volume:  master,
			stream:  *stream,
			logger:  logger,
		})
	}

	h, err := selectHost(*backend)
	if err != nil {
		return err
	}

	m, err := mixer.New(h, mixer.WithVolume(master), mixer.WithLogger(logger))
	if err != nil {
		return err
	}
	defer m.Close()

	out := m.Output()
	if out.Status != mixer.StatusNoError {
		logger.Warn("output unavailable, playing silently", "status", out.Status)
	}
	if _, ok := h.(*offline.Host); ok {
		go pump(ctx, m, out.Config.SampleRate, offline.DefaultFramesPerBuffer)
	}

	if !useTUI {
		return playAll(ctx, m, tracks, logger)
	}

	model := newModel(ctx, m, tracks, modelOptions{
		logger:   logger,
		output:   fmt.Sprintf("%s (%s)", out.Device, out.Config),
		stream:   *stream,
		interval: *chunkLen,
		master:   master,
	})
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// loadTracks decodes every file concurrently, keeping argument order.
func loadTracks(ctx context.Context, paths []string, style mixer.PlaybackStyle, logger *slog.Logger, opts ...audmix.LoadOption) ([]track, error) {
	tracks := make([]track, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			sound, err := audmix.LoadSound(path, style, opts...)
			if err != nil {
				return err
			}
			logger.Info("loaded", "file", path,
				"rate", sound.SampleRate, "channels", sound.Channels, "duration", sound.Duration())

			tracks[i] = track{name: filepath.Base(path), sound: sound}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tracks, nil
}

func selectHost(name string) (host.Host, error) {
	switch name {
	case "oto":
		return otohost.New(), nil
	case "portaudio":
		return pahost.New(), nil
	case "offline":
		return offline.New(offline.NewDevice()), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

// pump drives a cooperative host in real time.
func pump(ctx context.Context, m *mixer.Mixer, rate, frames int) {
	if rate <= 0 {
		return
	}
	ticker := time.NewTicker(time.Duration(frames) * time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Frame()
		}
	}
}

// playAll starts every track at once and waits for the longest, or for
// -seconds when set.
func playAll(ctx context.Context, p player, tracks []track, logger *slog.Logger) error {
	wait := time.Duration(*seconds * float64(time.Second))
	for _, t := range tracks {
		var err error
		if *stream {
			_, err = startStream(ctx, p, t.sound, mixer.FullVolume, *chunkLen, logger)
		} else {
			_, err = p.Play(mixer.NewPlayback().WithSound(t.sound))
		}
		if err != nil {
			return fmt.Errorf("play %s: %w", t.name, err)
		}
		if *seconds <= 0 {
			wait = max(wait, t.sound.Duration())
		}
	}

	logger.Info("playing", "tracks", len(tracks), "for", wait)

	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}
	return nil
}
