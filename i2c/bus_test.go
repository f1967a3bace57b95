package i2c

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/mklimuk/thermo/environment"
)

const addr uint16 = 0x48

func TestGenericBus_DriverTraffic(t *testing.T) {
	ops := []i2ctest.IO{
		{Addr: addr, W: []byte{0x01, 0x60, 0xA0}},            // write the configuration
		{Addr: addr, W: []byte{0x00}, R: []byte{0x19, 0x00}}, // 25°C
		{Addr: addr, W: []byte{0x00}, R: []byte{0xE7, 0x00}}, // -25°C
		{Addr: addr, W: []byte{0x00}, R: []byte{0x7F, 0xF0}}, // max count
	}
	pb := &i2ctest.Playback{Ops: ops, DontPanic: true}
	record := &i2ctest.Record{Bus: pb}
	bus := NewBus(record)

	sensor := environment.NewTMP102(bus)
	ctx := context.Background()
	require.NoError(t, sensor.Initialize(ctx))
	for _, expected := range []float32{25.0, -25.0, 127.9375} {
		temp, err := sensor.ReadTemperature(ctx)
		require.NoError(t, err)
		assert.Equal(t, expected, temp)
	}
	require.NoError(t, pb.Close())

	if diff := cmp.Diff(ops, record.Ops, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("unexpected bus traffic (-want +got):\n%s", diff)
	}
}

func TestGenericBus_ReadFailure(t *testing.T) {
	pb := &i2ctest.Playback{DontPanic: true}
	bus := NewBus(pb)

	_, err := environment.NewTMP102(bus).ReadTemperature(context.Background())
	assert.ErrorIs(t, err, environment.ErrSensorUnavailable)
	assert.Contains(t, err.Error(), "could not read register 0x00 of device 48")
}

func TestGenericBus_AddressableTraffic(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: addr, W: []byte{0x00}},
			{Addr: addr, R: []byte{0x32, 0x00}},
		},
		DontPanic: true,
	}
	bus := NewBus(pb)
	ctx := context.Background()

	require.NoError(t, bus.WriteToAddr(ctx, 0x48, []byte{0x00}))
	buf := make([]byte, 2)
	require.NoError(t, bus.ReadFromAddr(ctx, 0x48, buf))
	assert.Equal(t, float32(50.0), environment.DecodeTemperature(buf))
	assert.NoError(t, bus.Close())
}
