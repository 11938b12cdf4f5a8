// Package zbjam provides a façade over the attack engine for firmware
// mains and host tools.
package zbjam

import (
	"github.com/ystepanoff/zbjam/attack"
	"github.com/ystepanoff/zbjam/dutycycle"
	"github.com/ystepanoff/zbjam/protocol"
	"github.com/ystepanoff/zbjam/transport"
)

// The platform constructors are split into build-tag specific files:
// - constructors_tinygo.go - firmware on a board with the transceiver on SPI (//go:build tinygo || baremetal)
// - constructors_host.go - the simulated transceiver (//go:build !tinygo && !baremetal)

type (
	Engine  = attack.Engine
	Attack  = attack.Attack
	ID      = attack.ID
	Stats   = attack.Stats
	Params  = protocol.Params
	Family  = protocol.Family
	Board   = protocol.Board
	Verdict = attack.Verdict
)

var (
	ErrUnknownAttack = protocol.ErrUnknownAttack
	ErrInvalidParams = protocol.ErrInvalidParams
	ErrUnknownBoard  = protocol.ErrUnknownBoard
)

// DefaultParams are the parameters firmware images are built with.
var DefaultParams = protocol.DefaultParams

const (
	AT86RF230 = protocol.AT86RF230
	AT86RF231 = protocol.AT86RF231
	AT86RF212 = protocol.AT86RF212

	Passthrough          = attack.Passthrough
	AckSpoof             = attack.AckSpoof
	RejoinResponseJam    = attack.RejoinResponseJam
	EPIDBeaconJam        = attack.EPIDBeaconJam
	DataRequestJam       = attack.DataRequestJam
	DataRequestSpoof     = attack.DataRequestSpoof
	DutyDataRequestSpoof = attack.DutyDataRequestSpoof
	DutyMLESpoof         = attack.DutyMLESpoof
	DutyFragmentSpoof    = attack.DutyFragmentSpoof
	LongBeaconJam        = attack.LongBeaconJam
	DiscoveryResponseJam = attack.DiscoveryResponseJam
	ForeignBeaconJam     = attack.ForeignBeaconJam
	FirstFragmentJam     = attack.FirstFragmentJam
)

func ParseID(s string) (ID, error) { return attack.ParseID(s) }

// NewEngineWithDriver builds the attack and wires it to trx. A driver
// that also provides a tick source or a critical section gets them used
// by the duty-cycle scheduler.
func NewEngineWithDriver(id ID, p Params, trx transport.Transceiver, family Family) (*Engine, error) {
	a, err := attack.New(id, p)
	if err != nil {
		return nil, err
	}
	cfg := attack.Config{
		Family: family,
		DutyCycle: dutycycle.Config{
			IdleSeconds:   p.IdleSeconds,
			ActiveSeconds: p.ActiveSeconds,
		},
	}
	if t, ok := trx.(transport.Ticker); ok {
		cfg.Ticker = t
	}
	if l, ok := trx.(transport.Locker); ok {
		cfg.Locker = l
	}
	return attack.NewEngine(a, trx, cfg), nil
}
