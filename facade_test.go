//go:build !tinygo && !baremetal

package zbjam

import (
	"errors"
	"testing"

	"github.com/ystepanoff/zbjam/protocol"
)

func TestNewEngine(t *testing.T) {
	e, drv, err := NewEngine(DataRequestJam, DefaultParams)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if drv.Status() != protocol.StatusRXOn {
		t.Errorf("status after NewEngine = 0x%02x, want RX_ON", drv.Status())
	}

	drv.InjectFrame([]byte{12, 0x63, 0x88, 0x05, 0xaa, 0x99, 0, 0, 0, 0, 0, 0, 0})
	if !e.Poll() {
		t.Fatalf("Poll() = false")
	}
	if st := e.Stats(); st.Matched != 1 {
		t.Errorf("Matched = %d, want 1", st.Matched)
	}
	if log := drv.GetTxLog(); len(log) != 1 || log[0].PHYLen != 1 {
		t.Errorf("tx = %v, want one 1-octet jam", log)
	}
}

func TestNewEngineErrors(t *testing.T) {
	if _, _, err := NewEngine(ID(99), DefaultParams); !errors.Is(err, ErrUnknownAttack) {
		t.Errorf("NewEngine(99) error = %v, want ErrUnknownAttack", err)
	}
	p := DefaultParams
	p.UDPSrcPort = 0
	if _, _, err := NewEngine(FirstFragmentJam, p); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("NewEngine with zero port error = %v, want ErrInvalidParams", err)
	}
}

func TestNewEngineWiresTicker(t *testing.T) {
	e, drv, err := NewEngine(DutyMLESpoof, DefaultParams)
	if err != nil {
		t.Fatal(err)
	}
	drv.InjectFrame([]byte{22})
	e.Poll()
	if drv.TickStarts() != 1 {
		t.Errorf("TickStarts() = %d, want the stub ticker armed", drv.TickStarts())
	}
}
