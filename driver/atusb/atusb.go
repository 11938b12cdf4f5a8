//go:build !tinygo && !baremetal

// Package atusb talks to a dongle running the stock ATUSB firmware over
// its USB vendor requests.
package atusb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"

	proto "github.com/ystepanoff/zbjam/protocol"
	"github.com/ystepanoff/zbjam/transport"
)

const (
	VendorID  gousb.ID = 0x20b7
	ProductID gousb.ID = 0x1540

	DefaultTimeout = 1000 * time.Millisecond
)

// Vendor requests.
const (
	reqID        = 0x00
	reqBuild     = 0x01
	reqReset     = 0x02
	reqRegWrite  = 0x20
	reqRegRead   = 0x21
	reqEUI64Read = 0x51

	rtOut = 0x40 // vendor, device, host to device
	rtIn  = 0xc0 // vendor, device, device to host
)

var hwTypes = map[byte]proto.Board{
	1: proto.BoardATUSB,
	2: proto.BoardRZUSB,
	3: proto.BoardHULUSB,
}

// controller is the part of *gousb.Device the dongle needs.
type controller interface {
	Control(rType, request uint8, val, idx uint16, data []byte) (int, error)
}

// Dongle is an opened ATUSB-protocol device.
type Dongle struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	ctrl controller
	log  *zap.SugaredLogger
}

// Open opens the first dongle with the ATUSB VID:PID.
func Open(log *zap.SugaredLogger) (*Dongle, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithVIDPID(VendorID, ProductID)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("open %s:%s: %w", VendorID, ProductID, err)
	}
	if dev == nil {
		ctx.Close()
		return nil, proto.ErrDeviceNotFound
	}
	dev.ControlTimeout = DefaultTimeout
	log.Debugw("dongle opened", "bus", dev.Desc.Bus, "address", dev.Desc.Address)
	return &Dongle{ctx: ctx, dev: dev, ctrl: dev, log: log}, nil
}

func newDongle(ctrl controller, log *zap.SugaredLogger) *Dongle {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Dongle{ctrl: ctrl, log: log}
}

func (d *Dongle) Close() error {
	var err error
	if d.dev != nil {
		err = d.dev.Close()
	}
	if d.ctx != nil {
		err = errors.Join(err, d.ctx.Close())
	}
	return err
}

func (d *Dongle) in(req uint8, val, idx uint16, n int) ([]byte, error) {
	buf := make([]byte, n)
	got, err := d.ctrl.Control(rtIn, req, val, idx, buf)
	if err != nil {
		return nil, fmt.Errorf("request 0x%02x: %w", req, err)
	}
	return buf[:got], nil
}

func (d *Dongle) out(req uint8, val, idx uint16) error {
	if _, err := d.ctrl.Control(rtOut, req, val, idx, nil); err != nil {
		return fmt.Errorf("request 0x%02x: %w", req, err)
	}
	return nil
}

// Version is the firmware protocol version and hardware type.
type Version struct {
	Major, Minor byte
	HWType       byte
}

// Board maps the hardware type to a known board.
func (v Version) Board() (proto.Board, bool) {
	b, ok := hwTypes[v.HWType]
	return b, ok
}

func (d *Dongle) Version() (Version, error) {
	b, err := d.in(reqID, 0, 0, 3)
	if err != nil {
		return Version{}, err
	}
	if len(b) != 3 {
		return Version{}, fmt.Errorf("ID: short reply of %d bytes", len(b))
	}
	return Version{Major: b[0], Minor: b[1], HWType: b[2]}, nil
}

// Build returns the firmware build string.
func (d *Dongle) Build() (string, error) {
	b, err := d.in(reqBuild, 0, 0, 64)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *Dongle) ReadReg(reg byte) (byte, error) {
	b, err := d.in(reqRegRead, 0, uint16(reg), 1)
	if err != nil {
		return 0, err
	}
	if len(b) != 1 {
		return 0, fmt.Errorf("REG_READ 0x%02x: empty reply", reg)
	}
	return b[0], nil
}

func (d *Dongle) WriteReg(reg, v byte) error {
	return d.out(reqRegWrite, uint16(v), uint16(reg))
}

// EUI64 returns the IEEE address stored in the dongle. The octets are
// kept in transmission order.
func (d *Dongle) EUI64() (uint64, error) {
	b, err := d.in(reqEUI64Read, 0, 0, 8)
	if err != nil {
		return 0, err
	}
	if len(b) != 8 {
		return 0, fmt.Errorf("EUI64_READ: short reply of %d bytes", len(b))
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Identify reads the transceiver identification registers.
func (d *Dongle) Identify() (transport.Identity, error) {
	var id transport.Identity
	var lo, hi byte
	var err error
	for _, r := range []struct {
		reg byte
		dst *byte
	}{
		{proto.RegPartNum, &id.Part},
		{proto.RegVersionNum, &id.Version},
		{proto.RegManID0, &lo},
		{proto.RegManID1, &hi},
	} {
		if *r.dst, err = d.ReadReg(r.reg); err != nil {
			return id, err
		}
	}
	id.ManID = uint16(lo) | uint16(hi)<<8
	return id, nil
}

// Reset reboots the dongle.
func (d *Dongle) Reset() error {
	d.log.Infow("resetting dongle")
	return d.out(reqReset, 0, 0)
}
