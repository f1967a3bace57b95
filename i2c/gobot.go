package i2c

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/thermo"
)

var _ thermo.I2CBus = &GobotBus{}
var _ thermo.RegisterBus = &GobotBus{}

// GobotBus talks to devices through a gobot I2C connector, e.g. a board adaptor.
// One connection is opened per device address and kept until Close.
type GobotBus struct {
	mx          sync.Mutex
	connector   i2c.Connector
	busNr       int
	connections map[byte]i2c.Connection
}

// NewGobotBus uses the given bus number of the connector; a negative number selects the
// connector's default bus.
func NewGobotBus(connector i2c.Connector, busNr int) *GobotBus {
	if busNr < 0 {
		busNr = connector.DefaultI2cBus()
	}
	return &GobotBus{
		connector:   connector,
		busNr:       busNr,
		connections: make(map[byte]i2c.Connection),
	}
}

func (b *GobotBus) connection(address byte) (i2c.Connection, error) {
	if c, ok := b.connections[address]; ok {
		return c, nil
	}
	c, err := b.connector.GetI2cConnection(int(address), b.busNr)
	if err != nil {
		return nil, fmt.Errorf("could not open connection to %x on bus %d: %w", address, b.busNr, err)
	}
	b.connections[address] = c
	return c, nil
}

func (b *GobotBus) ReadRegister(ctx context.Context, address, register byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.connection(address)
	if err != nil {
		return err
	}
	err = c.ReadBlockData(register, buffer)
	if err != nil {
		return fmt.Errorf("could not read register %#04x of device %x: %w", register, address, err)
	}
	return nil
}

func (b *GobotBus) WriteRegister(ctx context.Context, address, register byte, data []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.connection(address)
	if err != nil {
		return err
	}
	err = c.WriteBlockData(register, data)
	if err != nil {
		return fmt.Errorf("could not write register %#04x of device %x: %w", register, address, err)
	}
	return nil
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.connection(address)
	if err != nil {
		return err
	}
	n, err := c.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from device %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short read from device %x: %d of %d: %w", address, n, len(buffer), thermo.ErrLength)
	}
	return nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	c, err := b.connection(address)
	if err != nil {
		return err
	}
	_, err = c.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to device %x: %w", address, err)
	}
	return nil
}

func (b *GobotBus) Release(ctx context.Context) error {
	return nil
}

// Close closes all device connections opened so far.
func (b *GobotBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var errs []error
	for address, c := range b.connections {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("could not close connection to %x: %w", address, err))
		}
		delete(b.connections, address)
	}
	return errors.Join(errs...)
}
