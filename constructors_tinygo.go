//go:build tinygo || baremetal

// This file is built only for embedded targets (using real radio hardware).
package zbjam

import (
	"machine"

	"github.com/ystepanoff/zbjam/driver/at86rf"
)

// NewEngine configures the transceiver on spi and puts it in attack
// mode.
func NewEngine(id ID, p Params, family Family, spi *machine.SPI, pins at86rf.Pins) (*Engine, *at86rf.Driver, error) {
	drv := at86rf.New(spi, pins)
	if err := drv.Configure(); err != nil {
		return nil, nil, err
	}
	e, err := NewEngineWithDriver(id, p, drv, family)
	if err != nil {
		return nil, nil, err
	}
	e.Radio().Setup()
	return e, drv, nil
}
