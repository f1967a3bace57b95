package environment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
)

const tmp102Precision physic.Temperature = 62_500 * physic.MicroKelvin

// minimum time between two conversions in continuous mode at the default rate
const minSenseInterval = 125 * time.Millisecond

var _ conn.Resource = &Env{}
var _ physic.SenseEnv = &Env{}

// Env exposes a TMP102 through periph's physic.SenseEnv so it can be used with tools built
// around periph devices. All bus calls are made with the context given to NewEnv.
type Env struct {
	ctx    context.Context
	sensor *TMP102

	mu   sync.Mutex
	stop chan struct{}
}

func NewEnv(ctx context.Context, sensor *TMP102) *Env {
	return &Env{ctx: ctx, sensor: sensor}
}

func (e *Env) String() string {
	return e.sensor.String()
}

// Halt stops a running SenseContinuous. The sensor itself keeps converting.
func (e *Env) Halt() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
	return nil
}

// Sense reads the temperature into env. Pressure and humidity are left untouched.
func (e *Env) Sense(env *physic.Env) error {
	c, err := e.sensor.ReadTemperature(e.ctx)
	if err != nil {
		return err
	}
	env.Temperature = celsiusToTemperature(c)
	return nil
}

// SenseContinuous reads the sensor every interval until Halt is called or the context given
// to NewEnv is done. Failed readings are logged and skipped.
func (e *Env) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < minSenseInterval {
		return nil, fmt.Errorf("tmp102: invalid interval %s, minimum %s", interval, minSenseInterval)
	}
	e.mu.Lock()
	if e.stop != nil {
		e.mu.Unlock()
		return nil, errors.New("tmp102: continuous sensing already running")
	}
	stop := make(chan struct{})
	e.stop = stop
	e.mu.Unlock()

	ch := make(chan physic.Env, 16)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-e.ctx.Done():
				return
			case <-ticker.C:
				var env physic.Env
				if err := e.Sense(&env); err != nil {
					slog.Warn("continuous read failed", "sensor", e.sensor.String(), "error", err)
					continue
				}
				select {
				case ch <- env:
				default:
					// consumer is too slow, drop the reading
				}
			}
		}
	}()
	return ch, nil
}

// Precision reports the 0.0625°C step of the 12-bit conversion.
func (e *Env) Precision(env *physic.Env) {
	env.Temperature = tmp102Precision
	env.Pressure = 0
	env.Humidity = 0
}

func celsiusToTemperature(c float32) physic.Temperature {
	count := int64(math.Round(float64(c) / tmp102Resolution))
	return physic.ZeroCelsius + physic.Temperature(count)*tmp102Precision
}
