package environment

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mklimuk/thermo"
)

const (
	TMP102DefaultAddress = 0x48

	tmp102TempRegister   = 0x00
	tmp102ConfigRegister = 0x01

	// degrees Celsius per count in 12-bit mode
	tmp102Resolution = 0.0625
)

// Nominal operating range of the TMP102. Decoding never enforces it.
const (
	MinimumTemperature float32 = -40
	MaximumTemperature float32 = 125
)

// tmp102ConfigWord selects 12-bit resolution and continuous conversion.
var tmp102ConfigWord = [2]byte{0x60, 0xA0}

// ErrSensorUnavailable marks a temperature read that could not be completed by the transport.
var ErrSensorUnavailable = errors.New("tmp102: sensor unavailable")

// TMP102 represents a Texas Instruments TMP102 Digital Temperature Sensor
// See: https://www.ti.com/lit/ds/symlink/tmp102.pdf
//
// Usage: instantiate with NewTMP102, call Initialize(ctx) once, then ReadTemperature(ctx).
// The sensor borrows the bus and never closes it.
type TMP102 struct {
	transport thermo.RegisterBus
	address   byte
}

type TMP102Config struct {
	Address byte
}

type TMP102ConfigOption func(*TMP102Config)

func WithAddress(address byte) TMP102ConfigOption {
	return func(c *TMP102Config) {
		c.Address = address
	}
}

// NewTMP102 creates a TMP102 connector. It performs no bus traffic.
func NewTMP102(trans thermo.RegisterBus, opts ...TMP102ConfigOption) *TMP102 {
	config := &TMP102Config{
		Address: TMP102DefaultAddress,
	}
	for _, opt := range opts {
		opt(config)
	}
	return &TMP102{transport: trans, address: config.Address}
}

func (sensor *TMP102) Address() byte {
	return sensor.address
}

func (sensor *TMP102) String() string {
	return fmt.Sprintf("tmp102@%#04x", sensor.address)
}

// Initialize writes the configuration word to the configuration register.
// The written value is not read back.
func (sensor *TMP102) Initialize(ctx context.Context) error {
	word := tmp102ConfigWord
	err := sensor.transport.WriteRegister(ctx, sensor.address, tmp102ConfigRegister, word[:])
	if err != nil {
		return fmt.Errorf("tmp102: could not write configuration: %w", err)
	}
	return nil
}

// ReadTemperature reads the temperature register and returns its value in Celsius.
// Transport failures are reported as ErrSensorUnavailable joined with the cause.
func (sensor *TMP102) ReadTemperature(ctx context.Context) (float32, error) {
	resp := make([]byte, 2)
	err := sensor.transport.ReadRegister(ctx, sensor.address, tmp102TempRegister, resp)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSensorUnavailable, err)
	}
	return DecodeTemperature(resp), nil
}

// DecodeTemperature converts a temperature register image into Celsius. The 12-bit
// two's complement value is left-justified in the big-endian word; bits 3..0 are ignored.
func DecodeTemperature(resp []byte) float32 {
	// arithmetic shift keeps the sign of bit 15, which is bit 11 of the count
	raw := int16(binary.BigEndian.Uint16(resp)) >> 4
	return float32(raw) * tmp102Resolution
}

// EncodeTemperature packs a signed 12-bit count into the temperature register format.
// Counts outside [-2048, 2047] are truncated to their low 12 bits.
func EncodeTemperature(raw int16) []byte {
	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, uint16(raw)<<4)
	return out
}

// InNominalRange reports whether temp lies within the range the sensor is specified for.
func InNominalRange(temp float32) bool {
	return temp >= MinimumTemperature && temp <= MaximumTemperature
}
