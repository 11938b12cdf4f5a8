//go:build tinygo || baremetal

// Package at86rf drives the transceiver of an AT86RF23x dongle from
// TinyGo firmware.
package at86rf

import (
	"machine"
	"runtime/interrupt"
	"time"

	"tinygo.org/x/drivers/delay"

	"github.com/ystepanoff/zbjam/transport"
)

// Pins is the board wiring of the transceiver.
type Pins struct {
	ChipSel machine.Pin
	SLPTR   machine.Pin
	Reset   machine.Pin
	IRQ     machine.Pin
}

// Driver implements transport.Transceiver, transport.Ticker and
// transport.Locker.
type Driver struct {
	*transport.SPIBus
	spi  *machine.SPI
	pins Pins
	slp  transport.PinStrober
	irqs interrupt.State
}

func New(spi *machine.SPI, pins Pins) *Driver {
	return &Driver{spi: spi, pins: pins}
}

// Configure sets up the bus and pins and resets the transceiver.
func (d *Driver) Configure() error {
	if err := d.spi.Configure(machine.SPIConfig{
		Frequency: 4000000,
		Mode:      0,
	}); err != nil {
		return err
	}
	for _, p := range []machine.Pin{d.pins.ChipSel, d.pins.SLPTR, d.pins.Reset} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	d.pins.IRQ.Configure(machine.PinConfig{Mode: machine.PinInput})
	d.pins.SLPTR.Low()

	d.SPIBus = transport.NewSPIBus(d.spi, d.pins.ChipSel)
	d.slp = transport.PinStrober{Pin: d.pins.SLPTR}

	d.pins.Reset.Low()
	delay.Sleep(6 * time.Microsecond)
	d.pins.Reset.High()
	delay.Sleep(time.Microsecond)
	return nil
}

func (d *Driver) Strobe() { d.slp.Strobe() }

func (d *Driver) Delay(dur time.Duration) { delay.Sleep(dur) }

// FrameAvailable reports the level of the IRQ line.
func (d *Driver) FrameAvailable() bool { return d.pins.IRQ.Get() }

// Start runs tick every period from its own goroutine.
func (d *Driver) Start(period time.Duration, tick func()) {
	go func() {
		t := time.NewTicker(period)
		for range t.C {
			tick()
		}
	}()
}

// Lock masks interrupts; Unlock restores them.
func (d *Driver) Lock()   { d.irqs = interrupt.Disable() }
func (d *Driver) Unlock() { interrupt.Restore(d.irqs) }
