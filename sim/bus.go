// Package sim provides a register bus that answers like a TMP102 without any hardware.
package sim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/mklimuk/thermo"
	"github.com/mklimuk/thermo/environment"
	"github.com/mklimuk/thermo/snsctx"
)

const (
	tempRegister = 0x00

	// raw counts for -40°C and 125°C
	defaultMinRaw int16 = -640
	defaultMaxRaw int16 = 2000
)

var _ thermo.RegisterBus = &Bus{}

// Write is a register write accepted by the simulated bus.
type Write struct {
	Address  byte
	Register byte
	Data     []byte
}

type BusOpts struct {
	Seed      uint64
	MinRaw    int16
	MaxRaw    int16
	Stimulus  func() int16
	Failure   func() error
	seedGiven bool
}

type BusOpt func(*BusOpts)

// WithSeed makes the generated sequence reproducible.
func WithSeed(seed uint64) BusOpt {
	return func(o *BusOpts) {
		o.Seed = seed
		o.seedGiven = true
	}
}

// WithRange limits generated raw counts to [min, max].
func WithRange(min, max int16) BusOpt {
	return func(o *BusOpts) {
		o.MinRaw = min
		o.MaxRaw = max
	}
}

// WithStimulus replaces the random generator with fn; fn returns signed 12-bit counts.
func WithStimulus(fn func() int16) BusOpt {
	return func(o *BusOpts) {
		o.Stimulus = fn
	}
}

// WithFailure is consulted before every transfer; a non-nil result fails the transfer.
func WithFailure(fn func() error) BusOpt {
	return func(o *BusOpts) {
		o.Failure = fn
	}
}

// Bus simulates a TMP102 on a register bus. Writes to any register are accepted and recorded.
// Only the temperature register can be read and only as a 2 byte word.
type Bus struct {
	mx     sync.Mutex
	config BusOpts
	rnd    *rand.Rand
	writes []Write
	reads  int
}

func NewBus(opts ...BusOpt) (*Bus, error) {
	config := BusOpts{
		MinRaw: defaultMinRaw,
		MaxRaw: defaultMaxRaw,
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.MinRaw > config.MaxRaw {
		return nil, fmt.Errorf("sim: invalid raw range [%d, %d]", config.MinRaw, config.MaxRaw)
	}
	if config.MinRaw < -2048 || config.MaxRaw > 2047 {
		return nil, fmt.Errorf("sim: raw range [%d, %d] does not fit 12 bits", config.MinRaw, config.MaxRaw)
	}
	seed := config.Seed
	if !config.seedGiven {
		seed = uint64(time.Now().UnixNano())
	}
	return &Bus{
		config: config,
		rnd:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

func (b *Bus) WriteRegister(ctx context.Context, address, register byte, data []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	if err := b.fail(); err != nil {
		return err
	}
	w := Write{Address: address, Register: register, Data: append([]byte(nil), data...)}
	b.writes = append(b.writes, w)
	snsctx.Logger(ctx).Debug("simulated write", "address", address, "register", register, "data", data)
	return nil
}

func (b *Bus) ReadRegister(ctx context.Context, address, register byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	if err := b.fail(); err != nil {
		return err
	}
	if register != tempRegister {
		return fmt.Errorf("sim: register %#04x: %w", register, thermo.ErrUnknownRegister)
	}
	if len(buffer) != 2 {
		return fmt.Errorf("sim: read of %d bytes: %w", len(buffer), thermo.ErrLength)
	}
	raw := b.next()
	copy(buffer, environment.EncodeTemperature(raw))
	b.reads++
	snsctx.Logger(ctx).Debug("simulated read", "address", address, "register", register, "raw", raw)
	return nil
}

// Writes returns a copy of all writes accepted so far.
func (b *Bus) Writes() []Write {
	b.mx.Lock()
	defer b.mx.Unlock()
	return append([]Write(nil), b.writes...)
}

// Reads returns the number of successful reads.
func (b *Bus) Reads() int {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.reads
}

func (b *Bus) fail() error {
	if b.config.Failure == nil {
		return nil
	}
	if err := b.config.Failure(); err != nil {
		return fmt.Errorf("sim: injected failure: %w", err)
	}
	return nil
}

func (b *Bus) next() int16 {
	if b.config.Stimulus != nil {
		return b.config.Stimulus()
	}
	span := int(b.config.MaxRaw) - int(b.config.MinRaw) + 1
	return b.config.MinRaw + int16(b.rnd.IntN(span))
}
