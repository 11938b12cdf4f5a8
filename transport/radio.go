package transport

import (
	proto "github.com/ystepanoff/zbjam/protocol"
)

// Radio is the register interface of an AT86RF23x reached over a Bus.
type Radio struct {
	bus    Bus
	family proto.Family
}

func NewRadio(bus Bus, family proto.Family) *Radio {
	return &Radio{bus: bus, family: family}
}

func (r *Radio) Family() proto.Family { return r.family }

func (r *Radio) ReadReg(reg byte) byte {
	r.bus.Begin()
	r.bus.Send(proto.CmdRegRead | reg&proto.RegAddrMask)
	v := r.bus.Recv()
	r.bus.End()
	return v
}

func (r *Radio) WriteReg(reg, v byte) {
	r.bus.Begin()
	r.bus.Send(proto.CmdRegWrite | reg&proto.RegAddrMask)
	r.bus.Send(v)
	r.bus.End()
}

// SubRegRead returns the field selected by mask, shifted down.
func (r *Radio) SubRegRead(reg, mask, shift byte) byte {
	return (r.ReadReg(reg) & mask) >> shift
}

// SubRegWrite replaces the field selected by mask, keeping the other bits.
func (r *Radio) SubRegWrite(reg, mask, shift, v byte) {
	cur := r.ReadReg(reg) &^ mask
	r.WriteReg(reg, cur|((v<<shift)&mask))
}

// Status returns TRX_STATUS with the CCA bits masked off.
func (r *Radio) Status() byte {
	return r.ReadReg(proto.RegTRXStatus) & proto.TRXStatusMask
}

// ForceState waits for any state transition in progress to finish, then
// issues cmd. There is no timeout: a transceiver that never leaves
// STATE_TRANSITION hangs the caller until the watchdog resets the board.
func (r *Radio) ForceState(cmd byte) {
	for r.Status() == proto.StatusStateTransition {
	}
	r.WriteReg(proto.RegTRXState, cmd)
}

// AwaitStatus spins until TRX_STATUS reads want.
func (r *Radio) AwaitStatus(want byte) {
	for r.Status() != want {
	}
}

// LeaveRX abandons the reception in progress and parks the PLL, ready
// to transmit.
func (r *Radio) LeaveRX() {
	r.ForceState(r.family.IdleCommand())
}

// ReadIRQ returns and clears IRQ_STATUS.
func (r *Radio) ReadIRQ() byte {
	return r.ReadReg(proto.RegIRQStatus)
}

// FramePending reports whether RX_START is latched, i.e. a frame is
// arriving and its PHR is in the buffer. Reading clears the latch and
// releases the IRQ line.
func (r *Radio) FramePending() bool {
	return r.ReadIRQ()&proto.IRQRXStart != 0
}

// WriteFrame loads the frame buffer with a PHY length and body. The
// radio transmits phyLen octets; anything past body is whatever the
// buffer already held.
func (r *Radio) WriteFrame(phyLen byte, body []byte) {
	r.bus.Begin()
	r.bus.Send(proto.CmdBufWrite)
	r.bus.Send(phyLen)
	for _, b := range body {
		r.bus.Send(b)
	}
	r.bus.End()
}

// Identity is what the part reports about itself.
type Identity struct {
	Part    byte
	Version byte
	ManID   uint16
}

func (r *Radio) Identify() Identity {
	return Identity{
		Part:    r.ReadReg(proto.RegPartNum),
		Version: r.ReadReg(proto.RegVersionNum),
		ManID:   uint16(r.ReadReg(proto.RegManID0)) | uint16(r.ReadReg(proto.RegManID1))<<8,
	}
}

// Setup prepares the transceiver for attack mode: automatic FCS on
// transmit, RX_START as the only interrupt source, receiver on. The
// frame buffer is read while the rest of the frame is still on air.
func (r *Radio) Setup() {
	r.ForceState(proto.TRXCmdForceTRXOff)
	r.AwaitStatus(proto.StatusTRXOff)
	switch r.family {
	case proto.AT86RF230:
		r.WriteReg(proto.RegPHYTXPwr, proto.TXAutoCRCOn230)
		r.WriteReg(proto.RegTRXCtrl1, proto.SPICmdModePHYRSSI<<proto.SPICmdModeShift)
	default:
		r.WriteReg(proto.RegTRXCtrl1,
			proto.TXAutoCRCOn|proto.SPICmdModePHYRSSI<<proto.SPICmdModeShift)
	}
	r.WriteReg(proto.RegIRQMask, proto.IRQRXStart)
	r.ReadIRQ()
	r.ForceState(proto.TRXCmdRXOn)
}
