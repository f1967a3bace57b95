package adapter

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/karalabe/hid"

	"github.com/mklimuk/thermo"
	"github.com/mklimuk/thermo/snsctx"
)

const VendorID = 0x04D8
const ProductID = 0x00DD

const reportSize = 64

// maxWriteSize is the payload that fits a single write report after the 4 byte header.
const maxWriteSize = reportSize - 4

// MCP2221 HID commands
const (
	cmdStatusSetParameters byte = 0x10
	cmdI2CWriteData        byte = 0x90
	cmdI2CReadData         byte = 0x91
	cmdI2CGetData          byte = 0x40

	cancelTransfer byte = 0x10

	statusBusy       byte = 0x01
	statusReadFailed byte = 0x41
	invalidDataSize  byte = 127
)

var ErrDeviceNotFound = errors.New("MCP2221 device not found")
var ErrAmbiguousDevice = errors.New("ambiguous device identification")

var _ thermo.I2CBus = &MCP2221{}

// Device is an opened HID device; satisfied by *hid.Device.
type Device interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

// Opener returns the HID device the adapter talks to.
type Opener func() (Device, error)

// MCP2221 is a Microchip USB to I2C bridge. Every command opens the HID device, sends one
// 64 byte report and reads one 64 byte response.
type MCP2221 struct {
	mx           sync.Mutex
	open         Opener
	request      []byte
	response     []byte
	responseWait time.Duration
}

type MCP2221Status struct {
	I2CDataBufferCounter   int    `yaml:"i2c_data_buffer_counter"`
	I2CSpeedDivider        int    `yaml:"i2c_speed_divider"`
	I2CTimeout             int    `yaml:"i2c_timeout"`
	CurrentAddress         string `yaml:"current_address"`
	LastWriteRequestedSize uint16 `yaml:"last_write_requested_size"`
	LastWriteSentSize      uint16 `yaml:"last_write_sent_size"`
	ReadPending            int    `yaml:"read_pending"`
}

type MCP2221Opt func(*MCP2221)

// WithOpener replaces HID enumeration, e.g. to select one of several adapters.
func WithOpener(o Opener) MCP2221Opt {
	return func(d *MCP2221) {
		d.open = o
	}
}

func WithResponseWait(wait time.Duration) MCP2221Opt {
	return func(d *MCP2221) {
		d.responseWait = wait
	}
}

func NewMCP2221(opts ...MCP2221Opt) *MCP2221 {
	d := &MCP2221{
		open:         openFirst,
		request:      make([]byte, reportSize),
		response:     make([]byte, reportSize),
		responseWait: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Init checks that exactly one adapter can be opened.
func (d *MCP2221) Init() error {
	dev, err := d.open()
	if err != nil {
		return err
	}
	return dev.Close()
}

func openFirst() (Device, error) {
	devs := hid.Enumerate(VendorID, ProductID)
	if len(devs) > 1 {
		return nil, ErrAmbiguousDevice
	}
	if len(devs) == 0 {
		return nil, ErrDeviceNotFound
	}
	dev, err := devs[0].Open()
	if err != nil {
		return nil, fmt.Errorf("error opening device: %w", err)
	}
	return dev, nil
}

func (d *MCP2221) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if len(buffer) > maxWriteSize {
		return fmt.Errorf("write of %d bytes to %x exceeds %d: %w", len(buffer), address, maxWriteSize, thermo.ErrLength)
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdI2CWriteData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address << 1
	if len(buffer) > 0 {
		copy(d.request[4:], buffer)
	}
	err := d.send(ctx)
	if err != nil {
		return fmt.Errorf("write to %x failed: %w", address, err)
	}
	// write could not be performed
	if d.response[1] == statusBusy {
		snsctx.Logger(ctx).Debug("adapter busy", "address", address)
		return thermo.ErrBusBusy
	}
	return nil
}

func (d *MCP2221) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdI2CReadData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address<<1 + 1
	err := d.send(ctx)
	if err != nil {
		return fmt.Errorf("bus read from %x failed: %w", address, err)
	}
	if d.response[1] == statusBusy {
		return thermo.ErrBusBusy
	}
	d.resetBuffers()
	d.request[0] = cmdI2CGetData
	err = d.send(ctx)
	if err != nil {
		return fmt.Errorf("error getting read data from adapter: %w", err)
	}
	if d.response[1] == statusReadFailed {
		return fmt.Errorf("error reading the I2C slave data from the I2C engine")
	}
	if d.response[3] == invalidDataSize || int(d.response[3]) != len(buffer) {
		return fmt.Errorf("invalid data size byte; expected %d, got %d: %w", len(buffer), d.response[3], thermo.ErrLength)
	}
	copy(buffer, d.response[4:])
	return nil
}

func (d *MCP2221) Status(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParameters
	err := d.send(ctx)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func bufferToStatus(buffer []byte) *MCP2221Status {
	/*
		9: Lower byte (16-bit value) of the requested I2C transfer length
		10: Higher byte (16-bit value) of the requested I2C transfer length
		11:	Lower byte (16-bit value) of the already transferred (through I2C) number of bytes
		12:	Higher byte (16-bit value) of the already transferred (through I2C) number of bytes
		13:	Internal I2C data buffer counter
		14: Current I2C communication speed divider value
		15: Current I2C timeout value
		16:	Lower byte (16-bit value) of the I2C address being used
		17:	Higher byte (16-bit value) of the I2C address being used
	*/
	status := &MCP2221Status{
		I2CDataBufferCounter: int(buffer[13]),
		I2CSpeedDivider:      int(buffer[14]),
		I2CTimeout:           int(buffer[15]),
		ReadPending:          int(buffer[25]),
		CurrentAddress:       hex.EncodeToString(buffer[16:18]),
	}
	status.LastWriteRequestedSize = binary.LittleEndian.Uint16(buffer[9:11])
	status.LastWriteSentSize = binary.LittleEndian.Uint16(buffer[11:13])
	return status
}

func (d *MCP2221) Release(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	_, err := d.releaseBus(ctx)
	return err
}

// ReleaseBus cancels the current I2C transfer and returns the resulting status.
func (d *MCP2221) ReleaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.releaseBus(ctx)
}

func (d *MCP2221) releaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.resetBuffers()
	d.request[0] = cmdStatusSetParameters
	d.request[2] = cancelTransfer
	err := d.send(ctx)
	if err != nil {
		return nil, fmt.Errorf("release request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func (d *MCP2221) send(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dev, err := d.open()
	if err != nil {
		return err
	}
	logger := snsctx.Logger(ctx)
	defer func() {
		if err := dev.Close(); err != nil {
			logger.Warn("could not close adapter", "error", err)
		}
	}()
	verbose := snsctx.IsVerbose(ctx)
	if verbose {
		logger.Debug("sending message to adapter", "request", hex.Dump(d.request))
	}
	n, err := dev.Write(d.request)
	if err != nil {
		return fmt.Errorf("could not write request: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short write: %d", n)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d.responseWait):
	}
	n, err = dev.Read(d.response)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short read: %d", n)
	}
	if verbose {
		logger.Debug("read message from adapter", "response", hex.Dump(d.response))
	}
	return nil
}

func (d *MCP2221) resetBuffers() {
	clear(d.request)
	clear(d.response)
}
