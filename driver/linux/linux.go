//go:build linux && !tinygo

// Package linux drives an AT86RF23x module wired to a Linux SPI bus and
// GPIO lines, for example on a Raspberry Pi header.
package linux

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/ystepanoff/zbjam/transport"
)

// Config names the bus and the GPIO lines. Pins use periph names such
// as "GPIO25".
type Config struct {
	SPIPort  string
	SPIClock physic.Frequency
	ChipSel  string
	SLPTR    string
	Reset    string
	IRQ      string
}

// DefaultConfig matches the usual Raspberry Pi wiring of an AT86RF233
// hat.
var DefaultConfig = Config{
	SPIPort:  "/dev/spidev0.0",
	SPIClock: 4 * physic.MegaHertz,
	ChipSel:  "GPIO8",
	SLPTR:    "GPIO25",
	Reset:    "GPIO24",
	IRQ:      "GPIO23",
}

// Driver implements transport.Transceiver, transport.Ticker and
// transport.Locker.
type Driver struct {
	*transport.SPIBus
	sync.Mutex

	port spi.PortCloser
	slp  transport.PinStrober
	rst  gpio.PinIO
	irq  gpio.PinIO
	log  *zap.SugaredLogger
	stop chan struct{}
	once sync.Once
}

func Open(cfg Config, log *zap.SugaredLogger) (*Driver, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.SPIPort == "" {
		cfg.SPIPort = DefaultConfig.SPIPort
	}
	if cfg.SPIClock == 0 {
		cfg.SPIClock = DefaultConfig.SPIClock
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("open SPI port %s: %w", cfg.SPIPort, err)
	}
	conn, err := p.Connect(cfg.SPIClock, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("connect SPI: %w", err)
	}

	pins := make(map[string]gpio.PinIO, 4)
	for _, name := range []string{cfg.ChipSel, cfg.SLPTR, cfg.Reset, cfg.IRQ} {
		pin := gpioreg.ByName(name)
		if pin == nil {
			p.Close()
			return nil, fmt.Errorf("open pin %q: not found", name)
		}
		pins[name] = pin
	}

	d := &Driver{
		port: p,
		rst:  pins[cfg.Reset],
		irq:  pins[cfg.IRQ],
		log:  log,
		stop: make(chan struct{}),
	}
	d.SPIBus = transport.NewSPIBus(spiConn{conn}, outPin{pins[cfg.ChipSel], log})
	d.slp = transport.PinStrober{Pin: outPin{pins[cfg.SLPTR], log}}

	if err := d.irq.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		p.Close()
		return nil, fmt.Errorf("configure IRQ pin: %w", err)
	}
	d.slp.Pin.Low()
	d.reset()
	log.Infow("transceiver opened", "spi", cfg.SPIPort, "clock", cfg.SPIClock.String())
	return d, nil
}

// reset pulses nRST, see AT86RF231 datasheet 7.1.4.5.
func (d *Driver) reset() {
	d.rst.Out(gpio.Low)
	d.Delay(6 * time.Microsecond)
	d.rst.Out(gpio.High)
	d.Delay(time.Microsecond)
}

func (d *Driver) Strobe() { d.slp.Strobe() }

// Delay spins; the kernel scheduler cannot sleep for tens of
// microseconds.
func (d *Driver) Delay(dur time.Duration) {
	for start := time.Now(); time.Since(start) < dur; {
	}
}

// Start runs tick from a goroutine every period until Close.
func (d *Driver) Start(period time.Duration, tick func()) {
	t := time.NewTicker(period)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-t.C:
				tick()
			case <-d.stop:
				return
			}
		}
	}()
}

// Serve calls handle on every rising edge of IRQ until ctx is done. The
// line stays high until IRQ_STATUS is read, so handle must read it.
func (d *Driver) Serve(ctx context.Context, handle func() bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !d.irq.WaitForEdge(100 * time.Millisecond) {
			continue
		}
		handle()
		if err := d.Err(); err != nil {
			return fmt.Errorf("spi: %w", err)
		}
	}
}

func (d *Driver) Close() error {
	d.once.Do(func() { close(d.stop) })
	d.irq.Halt()
	return d.port.Close()
}

// spiConn adapts a periph connection to drivers.SPI.
type spiConn struct {
	spi.Conn
}

func (c spiConn) Transfer(b byte) (byte, error) {
	w := [1]byte{b}
	var r [1]byte
	err := c.Conn.Tx(w[:], r[:])
	return r[0], err
}

type outPin struct {
	gpio.PinOut
	log *zap.SugaredLogger
}

func (p outPin) High() { p.set(gpio.High) }
func (p outPin) Low()  { p.set(gpio.Low) }

func (p outPin) set(l gpio.Level) {
	if err := p.Out(l); err != nil {
		p.log.Errorw("gpio write failed", "pin", p.Name(), "error", err)
	}
}
