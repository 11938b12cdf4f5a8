package attack

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/ystepanoff/zbjam/driver/stub"
	"github.com/ystepanoff/zbjam/dutycycle"
	proto "github.com/ystepanoff/zbjam/protocol"
)

type harness struct {
	t   *testing.T
	p   proto.Params
	e   *Engine
	drv *stub.Driver
}

func newHarness(t *testing.T, id ID, p proto.Params) *harness {
	t.Helper()
	a, err := New(id, p)
	if err != nil {
		t.Fatalf("New(%s): %v", id, err)
	}
	drv := stub.New(proto.AT86RF231)
	e := NewEngine(a, drv, Config{
		Family: proto.AT86RF231,
		DutyCycle: dutycycle.Config{
			IdleSeconds:   p.IdleSeconds,
			ActiveSeconds: p.ActiveSeconds,
		},
		Ticker: drv,
	})
	return &harness{t: t, p: p, e: e, drv: drv}
}

// feed delivers one received frame and runs the handler on a clean
// history.
func (h *harness) feed(frame []byte) bool {
	h.drv.InjectFrame(frame)
	h.drv.Reset()
	return h.e.HandleFrame()
}

// open arms the duty-cycle timer and lets the idle window run out.
func (h *harness) open() {
	h.t.Helper()
	h.feed(psdu(12))
	if h.drv.TickStarts() != 1 {
		h.t.Fatalf("timer not armed")
	}
	idle := max(h.p.IdleSeconds, 1)
	h.drv.Advance(time.Duration(idle) * time.Second)
	if got := h.e.Scheduler().Phase(); got != dutycycle.Wait {
		h.t.Fatalf("phase after idle window = %v, want wait", got)
	}
}

// psdu builds a received PSDU of phyLen octets after the length, with
// fields laid from index 1.
func psdu(phyLen int, fields ...byte) []byte {
	b := make([]byte, 1+phyLen)
	b[0] = byte(phyLen)
	copy(b[1:], fields)
	return b
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func le16(v uint16) []byte { return binary.LittleEndian.AppendUint16(nil, v) }
func le64(v uint64) []byte { return binary.LittleEndian.AppendUint64(nil, v) }
func be16(v uint16) []byte { return binary.BigEndian.AppendUint16(nil, v) }

const (
	otherExt = 0x1122334455667788
	peerExt  = 0x8877665544332211
)

// Frames that match each variant under DefaultParams.

func dataRequest(p proto.Params) []byte {
	return psdu(12, cat([]byte{0x63, 0x88, 0x05}, le16(p.PANID), le16(0x0000), le16(p.ShortDstAddr), []byte{0x04})...)
}

func securedDataRequest22(p proto.Params) []byte {
	return psdu(22, cat([]byte{0x6b, 0x98, 0x06}, le16(p.PANID), le16(0x0000), le16(p.ShortDstAddr))...)
}

func ackRequesting(p proto.Params, l int) []byte {
	return psdu(l, cat([]byte{0x61, 0x88, 0x33}, le16(p.PANID))...)
}

func rejoinResponse41(p proto.Params, nfch byte, l int) []byte {
	return psdu(l, cat(
		[]byte{0x41, 0x88, 0x10}, le16(p.PANID),
		le16(p.ShortDstAddr), le16(p.ShortSrcAddr),
		[]byte{0x09, nfch},
		le16(p.ShortDstAddr), le16(p.ShortSrcAddr),
		[]byte{0x01},
	)...)
}

func epidBeacon28(p proto.Params) []byte {
	return psdu(28, cat(
		[]byte{0x00, 0x80, 0x20}, le16(p.PANID), le16(p.ShortSrcAddr),
		[]byte{0xff, 0xcf, 0x00, 0x00, 0x00, 0x22, 0x84},
		binary.LittleEndian.AppendUint32(nil, uint32(p.EPID)),
	)...)
}

func longBeaconFrame(p proto.Params, l int, src uint64) []byte {
	return psdu(l, cat([]byte{0x00, 0xc0, 0x40}, le16(p.PANID), le64(src))...)
}

func discoveryFrame(p proto.Params, l int) []byte {
	return psdu(l, cat(
		[]byte{0x41, 0xdc, 0x50}, le16(p.PANID), le64(otherExt), le64(peerExt),
		[]byte{0x7f, 0x33, 0xf0, 0x4d, 0x4c, 0x4d, 0x4c, 0x12, 0x34, 0xff, 0x11},
	)...)
}

func firstFragment124(p proto.Params, dst, src uint64) []byte {
	return psdu(124, cat(
		[]byte{0x41, 0xdc, 0x60}, le16(p.PANID), le64(dst), le64(src),
		[]byte{0xc2, 0xc8, 0x00, 0x07, 0x7e, 0x33, 0xf0},
		be16(p.UDPSrcPort), be16(p.UDPDstPort),
	)...)
}
