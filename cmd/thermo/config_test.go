package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thermo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
adapter: generic
device: /dev/i2c-0
speed: 400kHz
address: "0x4A"
interval: 500ms
seed: 42
range_check: true
`), 0o600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "generic", cfg.Adapter)
	assert.Equal(t, "/dev/i2c-0", cfg.Device)
	assert.Equal(t, "400kHz", cfg.Speed)
	assert.Equal(t, -1, cfg.Bus)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(42), *cfg.Seed)
	assert.True(t, cfg.RangeCheck)
	addr, err := cfg.DeviceAddress()
	require.NoError(t, err)
	assert.Equal(t, byte(0x4A), addr)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
	addr, err := cfg.DeviceAddress()
	require.NoError(t, err)
	assert.Equal(t, byte(0x48), addr)
}

func TestLoadConfig_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thermo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("baud: 9600\n"), 0o600))
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestDeviceAddress(t *testing.T) {
	tests := []struct {
		given    string
		expected byte
		err      bool
	}{
		{"0x48", 0x48, false},
		{"72", 0x48, false},
		{"0b1001001", 0x49, false},
		{"0x7F", 0x7F, false},
		{"0x80", 0, true},
		{"0x100", 0, true},
		{"tmp", 0, true},
	}
	for _, test := range tests {
		t.Run(test.given, func(t *testing.T) {
			addr, err := Config{Address: test.given}.DeviceAddress()
			if test.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, addr)
		})
	}
}

func TestParseRegisterValue(t *testing.T) {
	tests := []struct {
		given    []string
		expected []byte
		err      bool
	}{
		{[]string{"1900"}, []byte{0x19, 0x00}, false},
		{[]string{"0x19", "0x00"}, []byte{0x19, 0x00}, false},
		{[]string{"FFF0"}, []byte{0xFF, 0xF0}, false},
		{[]string{"19"}, nil, true},
		{[]string{"190000"}, nil, true},
		{[]string{"xyz"}, nil, true},
	}
	for _, test := range tests {
		t.Run(test.given[0], func(t *testing.T) {
			raw, err := parseRegisterValue(test.given)
			if test.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, raw)
		})
	}
}
