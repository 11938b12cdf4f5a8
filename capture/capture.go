// Package capture reads and writes IEEE 802.15.4 frames in pcap files so
// recorded traffic can be replayed through the engine and its output
// inspected in Wireshark.
package capture

import (
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	proto "github.com/ystepanoff/zbjam/protocol"
)

// LINKTYPE_IEEE802_15_4_WITHFCS and LINKTYPE_IEEE802_15_4_NOFCS.
const (
	LinkTypeWithFCS = layers.LinkType(195)
	LinkTypeNoFCS   = layers.LinkType(230)
)

const fcsLen = 2

// Record is one captured frame as the transceiver buffer holds it: the
// PHY length octet followed by the MPDU, FCS included.
type Record struct {
	Time time.Time
	PSDU []byte
}

func (r Record) PHYLen() byte { return r.PSDU[0] }

type Reader struct {
	r     *pcapgo.Reader
	noFCS bool
}

// NewReader accepts 802.15.4 captures with or without the FCS. Frames
// recorded without it get two zero octets in its place.
func NewReader(r io.Reader) (*Reader, error) {
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	switch lt := pr.LinkType(); lt {
	case LinkTypeWithFCS:
		return &Reader{r: pr}, nil
	case LinkTypeNoFCS:
		return &Reader{r: pr, noFCS: true}, nil
	default:
		return nil, fmt.Errorf("%w: %d", proto.ErrLinkType, lt)
	}
}

// Next returns the next frame, or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	data, ci, err := r.r.ReadPacketData()
	if err != nil {
		return Record{}, err
	}
	n := len(data)
	if r.noFCS {
		n += fcsLen
	}
	if n == 0 || n > proto.MaxPSDU {
		return Record{}, fmt.Errorf("%w: %d octets at %s", proto.ErrFrameSize, n, ci.Timestamp.Format(time.RFC3339Nano))
	}
	psdu := make([]byte, 1+n)
	psdu[0] = byte(n)
	copy(psdu[1:], data)
	return Record{Time: ci.Timestamp, PSDU: psdu}, nil
}

// ReadAll collects every remaining frame.
func (r *Reader) ReadAll() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

type Writer struct {
	w *pcapgo.Writer
}

// NewWriter writes the file header of a capture with FCS.
func NewWriter(w io.Writer) (*Writer, error) {
	pw := pcapgo.NewWriter(w)
	if err := pw.WriteFileHeader(proto.MaxPSDU, LinkTypeWithFCS); err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	return &Writer{w: pw}, nil
}

// Write appends one MPDU, FCS octets included.
func (w *Writer) Write(at time.Time, mpdu []byte) error {
	if len(mpdu) == 0 || len(mpdu) > proto.MaxPSDU {
		return fmt.Errorf("%w: %d octets", proto.ErrFrameSize, len(mpdu))
	}
	ci := gopacket.CaptureInfo{
		Timestamp:     at,
		CaptureLength: len(mpdu),
		Length:        len(mpdu),
	}
	return w.w.WritePacket(ci, mpdu)
}

// WriteRecord appends a record read back from a Reader.
func (w *Writer) WriteRecord(r Record) error {
	return w.Write(r.Time, r.PSDU[1:])
}
