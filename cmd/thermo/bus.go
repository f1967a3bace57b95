package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/thermo"
	"github.com/mklimuk/thermo/adapter"
	"github.com/mklimuk/thermo/environment"
	"github.com/mklimuk/thermo/i2c"
	"github.com/mklimuk/thermo/sim"
)

const releaseTimeout = 2 * time.Second

var newSimBus = sim.NewBus

type releaser interface {
	Release(ctx context.Context) error
}

// releaseOnClose releases the bus with ctx values but without its cancellation; commands
// close the bus after their context is done.
func releaseOnClose(ctx context.Context, r releaser) func() error {
	return func() error {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		return r.Release(rctx)
	}
}

// openBus returns the register bus selected by cfg and a function releasing it.
func openBus(ctx context.Context, cfg Config) (thermo.RegisterBus, func() error, error) {
	switch cfg.Adapter {
	case "sim":
		var opts []sim.BusOpt
		if cfg.Seed != nil {
			opts = append(opts, sim.WithSeed(*cfg.Seed))
		}
		bus, err := newSimBus(opts...)
		if err != nil {
			return nil, nil, err
		}
		return bus, func() error { return nil }, nil
	case "mcp2221":
		a := adapter.NewMCP2221()
		if err := a.Init(); err != nil {
			return nil, nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		return thermo.NewRegisterBus(a), releaseOnClose(ctx, a), nil
	case "generic":
		bus, err := i2c.NewGenericBus(cfg.Device)
		if err != nil {
			return nil, nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		if cfg.Speed != "" {
			var f physic.Frequency
			if err := f.Set(cfg.Speed); err != nil {
				_ = bus.Close()
				return nil, nil, fmt.Errorf("invalid bus speed %q: %w", cfg.Speed, err)
			}
			if err := bus.SetSpeed(f); err != nil {
				_ = bus.Close()
				return nil, nil, fmt.Errorf("could not set bus speed: %w", err)
			}
		}
		return bus, bus.Close, nil
	case "gobot", "nanopi":
		npi := nanopi.NewNeoAdaptor()
		if err := npi.I2cBusAdaptor.Connect(); err != nil {
			return nil, nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		bus := i2c.NewGobotBus(npi, cfg.Bus)
		return bus, func() error {
			return errors.Join(bus.Close(), npi.I2cBusAdaptor.Finalize())
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown adapter %q", cfg.Adapter)
	}
}

// openSensor opens the bus and creates the sensor on it; the sensor is not initialized.
func openSensor(ctx context.Context, cfg Config) (*environment.TMP102, func() error, error) {
	addr, err := cfg.DeviceAddress()
	if err != nil {
		return nil, nil, err
	}
	bus, closeBus, err := openBus(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return environment.NewTMP102(bus, environment.WithAddress(addr)), closeBus, nil
}
