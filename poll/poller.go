// Package poll reads a temperature sensor at a fixed interval and reports every reading
// as a timestamped line.
package poll

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/mklimuk/thermo/environment"
)

const DefaultInterval = time.Second

// Reader is the part of a sensor driver the poller needs.
type Reader interface {
	ReadTemperature(ctx context.Context) (float32, error)
}

type Opts struct {
	Interval   time.Duration
	Clock      clock.Clock
	Output     io.Writer
	TimeFormat string
	Banner     string
	RangeCheck bool
	Logger     *slog.Logger
}

type Option func(*Opts)

func WithInterval(interval time.Duration) Option {
	return func(o *Opts) {
		o.Interval = interval
	}
}

func WithClock(c clock.Clock) Option {
	return func(o *Opts) {
		o.Clock = c
	}
}

func WithOutput(w io.Writer) Option {
	return func(o *Opts) {
		o.Output = w
	}
}

func WithTimeFormat(layout string) Option {
	return func(o *Opts) {
		o.TimeFormat = layout
	}
}

// WithBanner sets the line printed when polling starts; empty disables it.
func WithBanner(banner string) Option {
	return func(o *Opts) {
		o.Banner = banner
	}
}

// WithRangeCheck logs a warning for readings outside the sensor's nominal range.
// Such readings are still reported.
func WithRangeCheck(enabled bool) Option {
	return func(o *Opts) {
		o.RangeCheck = enabled
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Opts) {
		o.Logger = l
	}
}

// Stats counts readings reported by a poller.
type Stats struct {
	Readings int
	Failures int
}

type Poller struct {
	reader Reader
	config Opts

	mx    sync.Mutex
	stats Stats
}

func New(reader Reader, opts ...Option) (*Poller, error) {
	config := Opts{
		Interval:   DefaultInterval,
		Clock:      clock.New(),
		Output:     os.Stdout,
		TimeFormat: time.ANSIC,
		Banner:     "Starting TMP102 Temperature Driver...",
		Logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Interval <= 0 {
		return nil, fmt.Errorf("poll: invalid interval %s", config.Interval)
	}
	return &Poller{reader: reader, config: config}, nil
}

// Run reads the sensor immediately and then once per interval until ctx is done.
// Read failures are reported and polling continues; Run returns nil on cancellation.
func (p *Poller) Run(ctx context.Context) error {
	if p.config.Banner != "" {
		_, _ = fmt.Fprintln(p.config.Output, p.config.Banner)
	}
	ticker := p.config.Clock.Ticker(p.config.Interval)
	defer ticker.Stop()
	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll performs a single reading and reports it.
func (p *Poller) Poll(ctx context.Context) {
	temp, err := p.reader.ReadTemperature(ctx)
	ts := p.config.Clock.Now().Format(p.config.TimeFormat)
	p.mx.Lock()
	defer p.mx.Unlock()
	if err != nil {
		p.stats.Failures++
		p.config.Logger.Debug("sensor read failed", "error", err)
		_, _ = fmt.Fprintf(p.config.Output, "[%s] Error: Failed to read sensor\n", ts)
		return
	}
	p.stats.Readings++
	if p.config.RangeCheck && !environment.InNominalRange(temp) {
		p.config.Logger.Warn("reading outside nominal range", "temperature", temp,
			"min", environment.MinimumTemperature, "max", environment.MaximumTemperature)
	}
	_, _ = fmt.Fprintf(p.config.Output, "[%s] Temperature: %.2f °C\n", ts, temp)
}

func (p *Poller) Stats() Stats {
	p.mx.Lock()
	defer p.mx.Unlock()
	return p.stats
}
