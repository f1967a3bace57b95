package poll

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/thermo/environment"
	"github.com/mklimuk/thermo/sim"
)

func TestPoller_PollFormat(t *testing.T) {
	mockClock := clock.NewMock()
	var out bytes.Buffer
	sensor := environment.NewMockTMP102(func(ctx context.Context) (float32, error) { return 25.0, nil })
	p, err := New(sensor, WithClock(mockClock), WithOutput(&out))
	require.NoError(t, err)

	p.Poll(context.Background())

	expected := "[" + mockClock.Now().Format(time.ANSIC) + "] Temperature: 25.00 °C\n"
	assert.Equal(t, expected, out.String())
	assert.Equal(t, Stats{Readings: 1}, p.Stats())
}

func TestPoller_PollFailure(t *testing.T) {
	mockClock := clock.NewMock()
	var out bytes.Buffer
	sensor := environment.NewMockTMP102(func(ctx context.Context) (float32, error) {
		return 0, environment.ErrSensorUnavailable
	})
	p, err := New(sensor, WithClock(mockClock), WithOutput(&out), WithTimeFormat(time.RFC3339))
	require.NoError(t, err)

	p.Poll(context.Background())

	line := out.String()
	assert.Equal(t, "["+mockClock.Now().Format(time.RFC3339)+"] Error: Failed to read sensor\n", line)
	assert.NotContains(t, line, "Temperature")
	assert.Equal(t, Stats{Failures: 1}, p.Stats())
}

func TestPoller_NegativeAndRounding(t *testing.T) {
	var out bytes.Buffer
	sensor := environment.NewMockTMP102(func(ctx context.Context) (float32, error) { return -0.0625, nil })
	p, err := New(sensor, WithClock(clock.NewMock()), WithOutput(&out))
	require.NoError(t, err)
	p.Poll(context.Background())
	assert.True(t, strings.HasSuffix(out.String(), "] Temperature: -0.06 °C\n"), out.String())
}

func TestPoller_RangeCheckWarns(t *testing.T) {
	var out, logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	sensor := environment.NewMockTMP102(func(ctx context.Context) (float32, error) { return 127.9375, nil })
	p, err := New(sensor, WithClock(clock.NewMock()), WithOutput(&out), WithRangeCheck(true), WithLogger(logger))
	require.NoError(t, err)

	p.Poll(context.Background())
	assert.Contains(t, out.String(), "Temperature: 127.94 °C")
	assert.Contains(t, logs.String(), "reading outside nominal range")
}

func TestPoller_InvalidInterval(t *testing.T) {
	_, err := New(environment.NewMockTMP102(nil), WithInterval(0))
	assert.Error(t, err)
}

func TestPoller_RunUntilCancelled(t *testing.T) {
	mockClock := clock.NewMock()
	var out bytes.Buffer
	reads := make(chan struct{}, 10)
	calls := 0
	sensor := environment.NewMockTMP102(func(ctx context.Context) (float32, error) {
		calls++
		defer func() { reads <- struct{}{} }()
		if calls == 2 {
			return 0, errors.New("bus fault")
		}
		return 21.5, nil
	})
	p, err := New(sensor, WithClock(mockClock), WithOutput(&out), WithBanner("starting"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- p.Run(ctx)
	}()

	waitRead := func() {
		select {
		case <-reads:
		case <-time.After(2 * time.Second):
			t.Fatal("reading not performed")
		}
	}
	waitRead()
	mockClock.Add(DefaultInterval)
	waitRead()
	mockClock.Add(DefaultInterval)
	waitRead()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "starting", lines[0])
	assert.Contains(t, lines[1], "Temperature: 21.50 °C")
	assert.Contains(t, lines[2], "Error: Failed to read sensor")
	assert.Contains(t, lines[3], "Temperature: 21.50 °C")
	assert.Equal(t, Stats{Readings: 2, Failures: 1}, p.Stats())
}

func TestPoller_WithSimulatedDriver(t *testing.T) {
	bus, err := sim.NewBus(sim.WithStimulus(func() int16 { return 0x190 }))
	require.NoError(t, err)
	var out bytes.Buffer
	p, err := New(environment.NewTMP102(bus), WithClock(clock.NewMock()), WithOutput(&out))
	require.NoError(t, err)

	p.Poll(context.Background())
	assert.Contains(t, out.String(), "Temperature: 25.00 °C")
}
