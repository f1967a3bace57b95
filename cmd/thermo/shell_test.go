package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/thermo/environment"
	"github.com/mklimuk/thermo/sim"
)

func TestShell_Exec(t *testing.T) {
	color.NoColor = true
	bus, err := sim.NewBus(sim.WithStimulus(func() int16 { return 0x190 }))
	require.NoError(t, err)
	var out bytes.Buffer
	sh := &shell{sensor: environment.NewTMP102(bus), out: &out}
	ctx := context.Background()

	assert.False(t, sh.exec(ctx, "init"))
	assert.Contains(t, out.String(), "tmp102@0x48 configured")
	require.Len(t, bus.Writes(), 1)

	out.Reset()
	assert.False(t, sh.exec(ctx, "read"))
	assert.Equal(t, "🌡 25.00 °C\n", out.String())

	out.Reset()
	assert.False(t, sh.exec(ctx, "decode 0x7F 0xF0"))
	assert.Equal(t, "🌡 127.94 °C\n", out.String())

	out.Reset()
	assert.False(t, sh.exec(ctx, "frobnicate"))
	assert.Contains(t, out.String(), `unknown command "frobnicate"`)

	assert.False(t, sh.exec(ctx, "   "))
	assert.True(t, sh.exec(ctx, "quit"))
}

func TestShell_ReadFailure(t *testing.T) {
	color.NoColor = true
	bus, err := sim.NewBus(sim.WithFailure(func() error { return errors.New("nack") }))
	require.NoError(t, err)
	var out bytes.Buffer
	sh := &shell{sensor: environment.NewTMP102(bus), out: &out}

	assert.False(t, sh.exec(context.Background(), "read"))
	assert.Contains(t, out.String(), "ERROR")
	assert.Contains(t, out.String(), "sensor unavailable")
}
