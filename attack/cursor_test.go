package attack

import (
	"errors"
	"testing"
	"time"

	"github.com/ystepanoff/zbjam/driver/stub"
	proto "github.com/ystepanoff/zbjam/protocol"
)

func openCursor(frame []byte) (*Cursor, *stub.Driver) {
	drv := stub.New(proto.AT86RF231)
	drv.InjectFrame(frame)
	drv.Begin()
	drv.Send(proto.CmdBufRead)
	c := newCursor(drv, drv)
	return &c, drv
}

func expectPanic(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, want) {
			t.Errorf("panic = %v, want %v", r, want)
		}
	}()
	fn()
}

func TestCursorReads(t *testing.T) {
	c, drv := openCursor([]byte{7, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77})

	if l := c.Length(); l != 7 {
		t.Fatalf("Length() = %d, want 7", l)
	}
	if v := c.Uint16(); v != 0x2211 {
		t.Errorf("Uint16() = 0x%04x, want 0x2211", v)
	}
	if !c.Expect(0x33) {
		t.Errorf("Expect(0x33) = false")
	}
	if c.ExpectUint16(0x5544 ^ 0x0100) {
		t.Errorf("ExpectUint16 matched a different value")
	}
	// the mismatch stops at the second octet
	if c.Pos() != 6 {
		t.Errorf("Pos() = %d, want 6", c.Pos())
	}
	if v := c.ReadAt(6); v != 0x66 {
		t.Errorf("ReadAt(6) = 0x%02x, want 0x66", v)
	}
	c.Skip(1)
	if drv.Consumed() != 8 {
		t.Errorf("Consumed() = %d, want 8", drv.Consumed())
	}
	if ds := drv.Delays(); len(ds) != 7 || ds[0] != proto.ByteTime {
		t.Errorf("delays = %v, want seven byte times", ds)
	}
	if drv.Now() != 7*32*time.Microsecond {
		t.Errorf("Now() = %v", drv.Now())
	}
}

func TestCursorEarlyExit(t *testing.T) {
	c, drv := openCursor([]byte{10, 0xfe, 0xca, 0x00, 0xbe})
	c.Length()
	if c.ExpectUint32(0xbeefcafe) {
		t.Errorf("ExpectUint32 matched")
	}
	if drv.Consumed() != 4 {
		t.Errorf("Consumed() = %d, want 4", drv.Consumed())
	}
}

func TestCursorOrder(t *testing.T) {
	c, _ := openCursor([]byte{10, 1, 2, 3})
	c.Length()
	expectPanic(t, proto.ErrCursorOrder, func() { c.ReadAt(2) })

	c, _ = openCursor([]byte{10, 1, 2, 3})
	expectPanic(t, proto.ErrCursorOrder, func() { c.ReadAt(1) })
}

func TestCursorOverrun(t *testing.T) {
	c, _ := openCursor([]byte{3, 1, 2, 3, 4})
	c.Length()
	c.Skip(3)
	expectPanic(t, proto.ErrCursorOverrun, func() { c.Next() })

	// the reserved bit does not extend the frame
	c, _ = openCursor([]byte{0x82, 1, 2, 3})
	c.Length()
	c.Skip(2)
	expectPanic(t, proto.ErrCursorOverrun, func() { c.Next() })
}
