package thermo

import (
	"context"
	"errors"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

// ErrUnknownRegister is returned by register buses that do not recognize the requested register.
var ErrUnknownRegister = errors.New("unknown register")

// ErrLength is returned when a transport cannot satisfy the exact number of bytes requested.
var ErrLength = errors.New("unsupported transfer length")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus is a raw addressable bus: every transfer goes to a device address with no
// notion of device registers.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}

// RegisterBus is the transport a register oriented sensor driver talks to.
//
// WriteRegister writes all of data to the register of the device at address; the write
// either succeeds as a whole or returns an error. ReadRegister fills buffer completely from
// the register or returns an error, in which case the content of buffer is undefined.
type RegisterBus interface {
	WriteRegister(ctx context.Context, address, register byte, data []byte) error
	ReadRegister(ctx context.Context, address, register byte, buffer []byte) error
}
