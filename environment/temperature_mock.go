package environment

import (
	"context"
)

// TemperatureBehaviorFunc defines the function signature for temperature behavior.
// It returns the temperature in Celsius or an error.
type TemperatureBehaviorFunc func(ctx context.Context) (float32, error)

// MockTemperatureSensor is a mock implementation of a temperature sensor that uses a behavior function
// to produce results without requiring any hardware or bus.
// It can stand in for TMP102 wherever only ReadTemperature and Initialize are needed.
type MockTemperatureSensor struct {
	behavior    TemperatureBehaviorFunc
	initialized int
}

// NewMockTemperatureSensor creates a new mock temperature sensor with the given behavior function.
// The behavior function is called whenever ReadTemperature is invoked.
//
// Example usage:
//
//	sensor := NewMockTemperatureSensor(func(ctx context.Context) (float32, error) { return 25.0, nil })
func NewMockTemperatureSensor(behavior TemperatureBehaviorFunc) *MockTemperatureSensor {
	return &MockTemperatureSensor{behavior: behavior}
}

// Initialize only counts calls.
func (m *MockTemperatureSensor) Initialize(ctx context.Context) error {
	m.initialized++
	return nil
}

// Initialized returns how many times Initialize was called.
func (m *MockTemperatureSensor) Initialized() int {
	return m.initialized
}

// ReadTemperature returns the temperature by calling the behavior function.
func (m *MockTemperatureSensor) ReadTemperature(ctx context.Context) (float32, error) {
	return m.behavior(ctx)
}

// NewMockTMP102 creates a new mock TMP102 sensor (alias for NewMockTemperatureSensor).
func NewMockTMP102(behavior TemperatureBehaviorFunc) *MockTemperatureSensor {
	return NewMockTemperatureSensor(behavior)
}
