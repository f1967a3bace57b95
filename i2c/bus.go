package i2c

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mklimuk/thermo"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var _ thermo.I2CBus = &GenericBus{}
var _ thermo.RegisterBus = &GenericBus{}

// GenericBus is an I2C bus provided by periph.io, typically a Linux /dev/i2c-N device.
type GenericBus struct {
	bus i2c.Bus
}

func NewGenericBus(dev string) (*GenericBus, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("host driver loaded", "driver", driver.String())
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	return NewBus(bus), nil
}

// NewBus wraps an already opened periph bus.
func NewBus(bus i2c.Bus) *GenericBus {
	return &GenericBus{
		bus: bus,
	}
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), nil, buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), buffer, nil)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

// ReadRegister selects the register and reads it back in one combined transaction.
func (b *GenericBus) ReadRegister(ctx context.Context, address, register byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), []byte{register}, buffer)
	if err != nil {
		return fmt.Errorf("could not read register %#04x of device %x: %w", register, address, err)
	}
	return nil
}

func (b *GenericBus) WriteRegister(ctx context.Context, address, register byte, data []byte) error {
	w := make([]byte, 0, len(data)+1)
	w = append(w, register)
	w = append(w, data...)
	err := b.bus.Tx(uint16(address), w, nil)
	if err != nil {
		return fmt.Errorf("could not write register %#04x of device %x: %w", register, address, err)
	}
	return nil
}

func (b *GenericBus) SetSpeed(f physic.Frequency) error {
	return b.bus.SetSpeed(f)
}

func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

func (b *GenericBus) String() string {
	return b.bus.String()
}

func (b *GenericBus) Close() error {
	if c, ok := b.bus.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
