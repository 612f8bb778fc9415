package i2c

import (
	periphi2c "periph.io/x/conn/v3/i2c"
	"tinygo.org/x/drivers"
)

// PeriphBus adapts a periph.io device handle to the drivers.I2C bus
// interface, for Linux hosts reaching the chip through /dev/i2c-N. The
// device handle already carries the chip address, so the address arguments
// of the bus interface are ignored.
type PeriphBus struct {
	dev *periphi2c.Dev
}

var _ drivers.I2C = (*PeriphBus)(nil)

// NewPeriphBus wraps an opened periph.io device handle.
func NewPeriphBus(dev *periphi2c.Dev) *PeriphBus {
	return &PeriphBus{dev: dev}
}

func (b *PeriphBus) Tx(addr uint16, w, r []byte) error {
	return b.dev.Tx(w, r)
}

func (b *PeriphBus) ReadRegister(addr uint8, r uint8, buf []byte) error {
	return b.dev.Tx([]byte{r}, buf)
}

func (b *PeriphBus) WriteRegister(addr uint8, r uint8, buf []byte) error {
	return b.dev.Tx(append([]byte{r}, buf...), nil)
}
