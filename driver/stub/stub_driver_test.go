//go:build !tinygo && !baremetal

package stub

import (
	"testing"
	"time"

	proto "github.com/ystepanoff/zbjam/protocol"
	"github.com/ystepanoff/zbjam/transport"
)

var _ transport.Transceiver = (*Driver)(nil)
var _ transport.Ticker = (*Driver)(nil)

func TestInjectAndRead(t *testing.T) {
	d := New(proto.AT86RF231)
	d.InjectFrame([]byte{5, 0x02, 0x00, 0x07, 0xaa, 0xbb})

	r := transport.NewRadio(d, proto.AT86RF231)
	if got := d.Status(); got != proto.StatusBusyRX {
		t.Errorf("Status() = 0x%02x after InjectFrame, want BUSY_RX", got)
	}
	if got := d.Reg(proto.RegIRQStatus); got != proto.IRQRXStart {
		t.Errorf("IRQ_STATUS = 0x%02x after InjectFrame, want RX_START", got)
	}
	if !r.FramePending() {
		t.Fatalf("FramePending() = false after InjectFrame")
	}

	d.Begin()
	d.Send(proto.CmdBufRead)
	got := []byte{d.Recv(), d.Recv(), d.Recv()}
	d.End()
	if got[0] != 5 || got[1] != 0x02 || got[2] != 0x00 {
		t.Errorf("read % x, want 05 02 00", got)
	}
	if d.Consumed() != 3 {
		t.Errorf("Consumed() = %d, want 3", d.Consumed())
	}
}

func TestStrobeSendsBuffer(t *testing.T) {
	d := New(proto.AT86RF231)
	d.InjectFrame([]byte{12, 0x63, 0x88, 0x05})
	r := transport.NewRadio(d, proto.AT86RF231)

	r.LeaveRX()
	r.WriteFrame(2, nil)
	d.Strobe()

	log := d.GetTxLog()
	if len(log) != 1 {
		t.Fatalf("tx log = %d entries, want 1", len(log))
	}
	tx := log[0]
	if tx.PHYLen != 2 || tx.Frame[0] != 0x63 || tx.Frame[1] != 0x88 {
		t.Errorf("jam = %+v, want stale octets 63 88", tx)
	}
	if tx.Status != proto.StatusPLLOn {
		t.Errorf("status at strobe = 0x%02x, want PLL_ON", tx.Status)
	}
}

func TestStateTransitions(t *testing.T) {
	d := New(proto.AT86RF231, WithTransitionReads(2))
	r := transport.NewRadio(d, proto.AT86RF231)
	r.ForceState(proto.TRXCmdRXOn)

	if got := r.Status(); got != proto.StatusStateTransition {
		t.Errorf("Status() = 0x%02x, want STATE_TRANSITION", got)
	}
	if got := r.Status(); got != proto.StatusStateTransition {
		t.Errorf("Status() = 0x%02x, want STATE_TRANSITION", got)
	}
	if got := r.Status(); got != proto.StatusRXOn {
		t.Errorf("Status() = 0x%02x, want RX_ON", got)
	}
	if got := d.StateWrites(); len(got) != 1 || got[0] != proto.TRXCmdRXOn {
		t.Errorf("StateWrites() = % x, want 06", got)
	}
}

func TestVirtualTicker(t *testing.T) {
	d := New(proto.AT86RF231)
	ticks := 0
	d.Start(8*time.Millisecond, func() { ticks++ })
	d.Delay(20 * time.Millisecond)
	if ticks != 2 {
		t.Errorf("ticks after 20ms = %d, want 2", ticks)
	}
	d.Advance(time.Second - 20*time.Millisecond)
	if ticks != 125 {
		t.Errorf("ticks after 1s = %d, want 125", ticks)
	}
	if d.Now() != time.Second {
		t.Errorf("Now() = %v, want 1s", d.Now())
	}
	if d.TickStarts() != 1 {
		t.Errorf("TickStarts() = %d, want 1", d.TickStarts())
	}
}

func TestTxLogBounded(t *testing.T) {
	d := New(proto.AT86RF231)
	for i := 0; i < txLogCap+10; i++ {
		d.buf[0] = byte(i%100 + 1)
		d.Strobe()
	}
	log := d.DrainTx()
	if len(log) != txLogCap {
		t.Fatalf("log length = %d, want %d", len(log), txLogCap)
	}
	if log[0].PHYLen != 11 {
		t.Errorf("oldest entry PHYLen = %d, want 11", log[0].PHYLen)
	}
	if last := log[len(log)-1]; last.PHYLen != txLogCap+10 {
		t.Errorf("newest entry PHYLen = %d, want %d", last.PHYLen, txLogCap+10)
	}
	if len(d.GetTxLog()) != 0 {
		t.Errorf("GetTxLog() after DrainTx is not empty")
	}
}

func TestAutoCRC(t *testing.T) {
	for _, fam := range []proto.Family{proto.AT86RF230, proto.AT86RF231, proto.AT86RF212} {
		t.Run(fam.String(), func(t *testing.T) {
			d := New(fam)
			r := transport.NewRadio(d, fam)
			r.Setup()

			r.LeaveRX()
			r.WriteFrame(proto.AckPHYLen, []byte{0x02, 0x00, 0x2a})
			d.Strobe()

			tx := d.GetTxLog()[0]
			if !proto.CheckFCS(tx.Frame) {
				t.Errorf("frame % x has no valid FCS", tx.Frame)
			}
		})
	}
}
