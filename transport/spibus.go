package transport

import (
	"tinygo.org/x/drivers"
)

// OutputPin is a push-pull GPIO. machine.Pin satisfies it.
type OutputPin interface {
	High()
	Low()
}

// SPIBus is a Bus on an SPI peripheral with a software chip select.
// SPI errors cannot be reported through Bus; the first one is kept and
// returned by Err.
type SPIBus struct {
	spi drivers.SPI
	sel OutputPin
	err error
}

func NewSPIBus(spi drivers.SPI, sel OutputPin) *SPIBus {
	sel.High()
	return &SPIBus{spi: spi, sel: sel}
}

func (b *SPIBus) Begin() { b.sel.Low() }
func (b *SPIBus) End()   { b.sel.High() }

func (b *SPIBus) Send(v byte) { b.transfer(v) }
func (b *SPIBus) Recv() byte  { return b.transfer(0) }

func (b *SPIBus) transfer(v byte) byte {
	r, err := b.spi.Transfer(v)
	if err != nil && b.err == nil {
		b.err = err
	}
	return r
}

// Err returns the first SPI error seen.
func (b *SPIBus) Err() error { return b.err }

// PinStrober pulses a SLP_TR pin.
type PinStrober struct {
	Pin OutputPin
}

func (s PinStrober) Strobe() {
	s.Pin.High()
	s.Pin.Low()
}
