package attack

import (
	proto "github.com/ystepanoff/zbjam/protocol"
	"github.com/ystepanoff/zbjam/transport"
)

// Cursor reads the frame in flight from an open BUF_READ transaction.
// It only moves forward: every octet is received once, in wire order,
// with one byte time between reads. Reading past the declared PHY length
// or asking for a position that is not the next one panics.
type Cursor struct {
	bus   transport.Bus
	delay transport.Delayer
	pos   int
	limit int
}

func newCursor(bus transport.Bus, delay transport.Delayer) Cursor {
	return Cursor{bus: bus, delay: delay, limit: 1}
}

func (c *Cursor) reset() {
	c.pos = 0
	c.limit = 1
}

// Pos is the index of the next octet; it equals the number consumed.
func (c *Cursor) Pos() int { return c.pos }

// Next receives the next octet. The first octet is the PHY length and
// bounds every later read.
func (c *Cursor) Next() byte {
	if c.pos >= c.limit {
		panic(proto.ErrCursorOverrun)
	}
	if c.pos > 0 {
		c.delay.Delay(proto.ByteTime)
	}
	b := c.bus.Recv()
	if c.pos == 0 {
		c.limit = 1 + int(b&^proto.PHYLenReserved)
	}
	c.pos++
	return b
}

// ReadAt receives the octet at pos, which must be the next one.
func (c *Cursor) ReadAt(pos int) byte {
	if pos != c.pos {
		panic(proto.ErrCursorOrder)
	}
	return c.Next()
}

// Length receives the PHY length octet.
func (c *Cursor) Length() byte { return c.ReadAt(0) }

func (c *Cursor) Skip(n int) {
	for ; n > 0; n-- {
		c.Next()
	}
}

// Expect receives one octet and compares it with want.
func (c *Cursor) Expect(want byte) bool { return c.Next() == want }

// ExpectUint16 compares a little-endian field, stopping at the first
// octet that differs.
func (c *Cursor) ExpectUint16(want uint16) bool {
	return c.Expect(byte(want)) && c.Expect(byte(want>>8))
}

// ExpectUint32 is ExpectUint16 for four octets.
func (c *Cursor) ExpectUint32(want uint32) bool {
	for i := 0; i < 32; i += 8 {
		if !c.Expect(byte(want >> i)) {
			return false
		}
	}
	return true
}

func (c *Cursor) Uint16() uint16 {
	lo := c.Next()
	return uint16(lo) | uint16(c.Next())<<8
}

func (c *Cursor) Uint64() uint64 {
	var v uint64
	for i := 0; i < 64; i += 8 {
		v |= uint64(c.Next()) << i
	}
	return v
}
