// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"log/slog"

	"github.com/ik5/audmix/host"
	"github.com/ik5/audmix/utils"
)

// OutputInfo describes what the mixer is bound to.
type OutputInfo struct {
	Device string
	Config host.StreamConfig
	// RateMismatch is set when the device runs at a rate other than
	// ReferenceRate. Sounds then play at a shifted speed and pitch.
	RateMismatch bool
	Status       Status
}

// driver binds an engine to an output stream. The stream's fill callback is
// the only code that touches the engine once the stream has started.
type driver struct {
	logger  *slog.Logger
	onError func(error)

	status       Status
	device       string
	config       host.StreamConfig
	rateMismatch bool
	stream       host.Stream

	queue  commandQueue
	engine *engine

	// fill only
	initialized bool
	spare       []message
	warned      bool
}

func newDriver(h host.Host, eng *engine, logger *slog.Logger, onError func(error)) *driver {
	d := &driver{
		logger:  logger,
		onError: onError,
		engine:  eng,
		spare:   make([]message, 0, 16),
	}

	dev, err := h.DefaultOutputDevice()
	if err != nil || dev == nil {
		logger.Error("no sound device", "err", err)
		d.status = StatusNoDevice
		return d
	}
	d.device = dev.Name()

	cfg, mismatch, err := negotiate(dev, logger)
	d.config = cfg
	d.rateMismatch = mismatch
	if err != nil {
		logger.Error("unusable output format", "device", d.device, "err", err)
		d.status = StatusUnknownStreamFormat
		return d
	}

	stream, err := dev.OpenStream(cfg, d.fill)
	if err != nil {
		logger.Error("failed to open output stream", "device", d.device, "format", cfg.String(), "err", err)
		d.status = StatusOutputStream
		return d
	}
	d.stream = stream
	d.status = StatusNoError

	return d
}

// start begins playback. A driver without a stream closes its queue so
// later commands are dropped instead of piling up.
func (d *driver) start() {
	if d.stream == nil {
		d.queue.close()
		return
	}
	if err := d.stream.Play(); err != nil {
		d.logger.Error("failed to play output stream", "device", d.device, "err", err)
		d.status = StatusOutputStream
		d.queue.close()
		if cerr := d.stream.Close(); cerr != nil {
			d.logger.Warn("closing output stream", "err", cerr)
		}
		d.stream = nil
	}
}

// send enqueues msg. It never blocks on the audio goroutine.
func (d *driver) send(msg message) {
	d.queue.push(msg)
}

// fill is the host buffer callback.
func (d *driver) fill(buf host.Buffer) {
	if !d.initialized {
		d.engine.init(float32(d.config.SampleRate))
		d.initialized = true
	}

	batch := d.queue.swap(d.spare)
	for i, msg := range batch {
		if err := d.engine.handle(msg); err != nil {
			d.onError(err)
		}
		batch[i] = nil
	}
	d.spare = batch[:0]

	switch b := buf.(type) {
	case host.F32Buffer:
		for i := range b {
			b[i] = d.engine.nextValue()
		}
	case host.I16Buffer:
		for i := range b {
			b[i] = utils.Float32ToInt16(d.engine.nextValue())
		}
	case host.U16Buffer:
		for i := range b {
			b[i] = utils.Float32ToUint16(d.engine.nextValue())
		}
	case host.U8Buffer:
		clear(b)
		d.warnOnce(buf)
	case nil:
		// nothing to render, commands are still applied
	default:
		d.warnOnce(buf)
	}
}

func (d *driver) warnOnce(buf host.Buffer) {
	if d.warned {
		return
	}
	d.warned = true
	d.logger.Warn("cannot render buffer, writing silence", "format", buf.Format().String())
}

// frame pumps one buffer on cooperative hosts.
func (d *driver) frame() {
	if f, ok := d.stream.(host.Framer); ok {
		f.Frame()
	}
}

func (d *driver) info() OutputInfo {
	return OutputInfo{
		Device:       d.device,
		Config:       d.config,
		RateMismatch: d.rateMismatch,
		Status:       d.status,
	}
}

func (d *driver) close() error {
	d.queue.close()
	if d.stream == nil {
		return nil
	}
	if err := d.stream.Close(); err != nil {
		return fmt.Errorf("close output stream: %w", err)
	}
	return nil
}
