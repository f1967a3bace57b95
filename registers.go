package thermo

import (
	"context"
	"fmt"
)

var _ RegisterBus = &AddressedRegisters{}

// AddressedRegisters implements register access on top of a raw I2CBus using the usual
// pointer register convention: the first byte written to the device selects the register.
type AddressedRegisters struct {
	bus I2CBus
}

func NewRegisterBus(bus I2CBus) *AddressedRegisters {
	return &AddressedRegisters{bus: bus}
}

// WriteRegister sends the register pointer followed by data in a single bus write.
func (r *AddressedRegisters) WriteRegister(ctx context.Context, address, register byte, data []byte) error {
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, register)
	buf = append(buf, data...)
	err := r.bus.WriteToAddr(ctx, address, buf)
	if err != nil {
		return fmt.Errorf("could not write register %#04x: %w", register, err)
	}
	return nil
}

// ReadRegister sets the register pointer and reads len(buffer) bytes back.
func (r *AddressedRegisters) ReadRegister(ctx context.Context, address, register byte, buffer []byte) error {
	err := r.bus.WriteToAddr(ctx, address, []byte{register})
	if err != nil {
		return fmt.Errorf("could not select register %#04x: %w", register, err)
	}
	err = r.bus.ReadFromAddr(ctx, address, buffer)
	if err != nil {
		return fmt.Errorf("could not read register %#04x: %w", register, err)
	}
	return nil
}
