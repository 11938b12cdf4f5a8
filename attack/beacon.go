package attack

import (
	proto "github.com/ystepanoff/zbjam/protocol"
)

const (
	epidBeaconPHYLen = 28
	longBeaconMinLen = 45
)

type epidBeacon struct {
	p proto.Params
}

func (a *epidBeacon) ID() ID { return EPIDBeaconJam }

func (a *epidBeacon) Classify(f *Frame) Outcome {
	if f.Length() != epidBeaconPHYLen {
		return ignore()
	}
	fcl := f.Next()
	if fcl&0x03 != proto.FrameTypeBeacon || proto.Secured(fcl) {
		return ignore()
	}
	fch := f.Next()
	if proto.FrameVersion(fch) != proto.FrameVersion2003 || proto.SrcAddrMode(fch) != proto.SrcAddrShort {
		return ignore()
	}
	f.Skip(1 + 2 + 2 + 2) // seq, source PAN, source, superframe
	if !f.Expect(0) || !f.Expect(0) || !f.Expect(0) { // GTS, pending, protocol ID
		return ignore()
	}
	f.Skip(2) // stack profile, router capacity
	if !f.ExpectUint32(uint32(a.p.EPID)) {
		return ignore()
	}
	return jam(1)
}

// longBeaconHeader checks the 2003 beacon header with an extended source
// up to the source PAN.
func longBeaconHeader(f *Frame, pan uint16) (byte, bool) {
	l := f.Length()
	if l < longBeaconMinLen || l&proto.PHYLenReserved != 0 {
		return 0, false
	}
	fcl := f.Next()
	if proto.FrameType(fcl) != proto.FrameTypeBeacon || proto.Secured(fcl) || proto.PANIDCompressed(fcl) {
		return 0, false
	}
	fch := f.Next()
	if proto.FrameVersion(fch) != proto.FrameVersion2003 ||
		proto.DstAddrMode(fch) != proto.DstAddrNone ||
		proto.SrcAddrMode(fch) != proto.SrcAddrExt {
		return 0, false
	}
	f.Skip(1)
	if !f.ExpectUint16(pan) {
		return 0, false
	}
	return l, true
}

type longBeacon struct {
	p proto.Params
}

func (a *longBeacon) ID() ID { return LongBeaconJam }

func (a *longBeacon) Classify(f *Frame) Outcome {
	l, ok := longBeaconHeader(f, a.p.PANID)
	if !ok {
		return ignore()
	}
	return jam(l - 20)
}

type foreignBeacon struct {
	p proto.Params
}

func (a *foreignBeacon) ID() ID { return ForeignBeaconJam }

func (a *foreignBeacon) Classify(f *Frame) Outcome {
	l, ok := longBeaconHeader(f, a.p.PANID)
	if !ok {
		return ignore()
	}
	if f.Uint64() == a.p.ExtendedSrcAddr {
		return ignore()
	}
	return jam(l - 30)
}
