package environment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

func TestEnv_Sense(t *testing.T) {
	tests := []struct {
		bits     []byte
		expected physic.Temperature
	}{
		{[]byte{0x64, 0x00}, physic.ZeroCelsius + 100*physic.Kelvin},
		{[]byte{0x19, 0x00}, physic.ZeroCelsius + 25*physic.Kelvin},
		{[]byte{0x00, 0x00}, physic.ZeroCelsius},
		{[]byte{0xFF, 0xF0}, physic.ZeroCelsius - 62_500*physic.MicroKelvin},
		{[]byte{0xC9, 0x00}, physic.ZeroCelsius - 55*physic.Kelvin},
	}
	for _, test := range tests {
		bus := new(MockRegisterBus)
		bus.On("ReadRegister", mock.Anything, byte(0x48), byte(0x00), mock.Anything).Return(test.bits, nil).Once()
		e := NewEnv(context.Background(), NewTMP102(bus))

		var env physic.Env
		require.NoError(t, e.Sense(&env))
		assert.Equal(t, test.expected, env.Temperature, "read %.4f", env.Temperature.Celsius())
		bus.AssertExpectations(t)
	}
}

func TestEnv_SenseFailure(t *testing.T) {
	bus := new(MockRegisterBus)
	bus.On("ReadRegister", mock.Anything, byte(0x48), byte(0x00), mock.Anything).Return(nil, errors.New("nack")).Once()
	e := NewEnv(context.Background(), NewTMP102(bus))

	env := physic.Env{Temperature: physic.ZeroCelsius}
	err := e.Sense(&env)
	assert.ErrorIs(t, err, ErrSensorUnavailable)
	assert.Equal(t, physic.ZeroCelsius, env.Temperature)
}

func TestEnv_Precision(t *testing.T) {
	e := NewEnv(context.Background(), NewTMP102(new(MockRegisterBus)))
	var env physic.Env
	e.Precision(&env)
	assert.Equal(t, 62_500*physic.MicroKelvin, env.Temperature)
	assert.Equal(t, "tmp102@0x48", e.String())
}

func TestEnv_SenseContinuous(t *testing.T) {
	bus := new(MockRegisterBus)
	bus.On("ReadRegister", mock.Anything, byte(0x48), byte(0x00), mock.Anything).Return([]byte{0x32, 0x00}, nil)
	e := NewEnv(context.Background(), NewTMP102(bus))

	_, err := e.SenseContinuous(10 * time.Millisecond)
	assert.Error(t, err)

	ch, err := e.SenseContinuous(minSenseInterval)
	require.NoError(t, err)
	_, err = e.SenseContinuous(minSenseInterval)
	assert.Error(t, err, "second continuous sensing must be rejected")

	select {
	case env := <-ch:
		assert.Equal(t, physic.ZeroCelsius+50*physic.Kelvin, env.Temperature)
	case <-time.After(2 * time.Second):
		t.Fatal("no reading received")
	}
	require.NoError(t, e.Halt())
	for range ch {
		// drain until the goroutine closes the channel
	}
}
