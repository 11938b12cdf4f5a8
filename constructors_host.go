//go:build !tinygo && !baremetal

// This file is built only for non-embedded targets (host-based testing).
package zbjam

import (
	"github.com/ystepanoff/zbjam/driver/stub"
)

// NewEngine runs the attack on a simulated AT86RF231.
func NewEngine(id ID, p Params) (*Engine, *stub.Driver, error) {
	drv := stub.New(AT86RF231)
	e, err := NewEngineWithDriver(id, p, drv, AT86RF231)
	if err != nil {
		return nil, nil, err
	}
	e.Radio().Setup()
	return e, drv, nil
}
