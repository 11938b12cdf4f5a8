// Package config loads the TOML file shared by the host tools. Firmware
// images take their parameters at build time and never read it.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ystepanoff/zbjam/attack"
	proto "github.com/ystepanoff/zbjam/protocol"
)

// Hex is an unsigned value written as a string, "0x99aa", or a bare
// integer.
type Hex uint64

func (h *Hex) UnmarshalText(b []byte) error {
	v, err := strconv.ParseUint(strings.ReplaceAll(string(b), "_", ""), 0, 64)
	if err != nil {
		return err
	}
	*h = Hex(v)
	return nil
}

func (h Hex) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("0x%x", uint64(h))), nil
}

// ParamsFile overrides DefaultParams field by field. Unset keys keep
// the default.
type ParamsFile struct {
	PANID           *Hex    `toml:"pan_id"`
	ShortDstAddr    *Hex    `toml:"short_dst"`
	ShortSrcAddr    *Hex    `toml:"short_src"`
	ExtendedDstAddr *Hex    `toml:"ext_dst"`
	ExtendedSrcAddr *Hex    `toml:"ext_src"`
	EPID            *Hex    `toml:"epid"`
	FrameCounter    *Hex    `toml:"frame_counter"`
	KeySeqNum       *Hex    `toml:"key_seq_num"`
	KeySource       *Hex    `toml:"key_source"`
	KeyIndex        *Hex    `toml:"key_index"`
	UDPChecksum     *Hex    `toml:"udp_checksum"`
	DatagramTag     *Hex    `toml:"datagram_tag"`
	UDPSrcPort      *Hex    `toml:"udp_src_port"`
	UDPDstPort      *Hex    `toml:"udp_dst_port"`
	IdleSeconds     *uint32 `toml:"idle_seconds"`
	ActiveSeconds   *uint32 `toml:"active_seconds"`
}

type Replay struct {
	Input  string `toml:"input"`
	Output string `toml:"output"`
	// Gap is the inter-frame time used when the capture has none.
	GapMicros int64 `toml:"gap_us"`
}

// Linux wiring of a transceiver on a host SPI port, periph.io names.
type Linux struct {
	SPIPort    string `toml:"spi_port"`
	SPIClockHz int64  `toml:"spi_clock_hz"`
	ChipSel    string `toml:"chip_select"`
	SLPTR      string `toml:"slp_tr"`
	Reset      string `toml:"reset"`
	IRQ        string `toml:"irq"`
}

type Log struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// File is the on-disk layout.
type File struct {
	Attack string     `toml:"attack,omitempty"`
	Board  string     `toml:"board"`
	Params ParamsFile `toml:"params"`
	Replay Replay     `toml:"replay"`
	Linux  Linux      `toml:"linux"`
	Log    Log        `toml:"log"`
}

// Config is a validated File.
type Config struct {
	Attack    attack.ID
	HasAttack bool
	Board     proto.Board
	Params    proto.Params
	Replay    Replay
	Linux     Linux
	Log       Log
}

func Default() Config {
	return Config{
		Board:  proto.BoardATUSB,
		Params: proto.DefaultParams,
		Replay: Replay{GapMicros: 10000},
		Linux: Linux{
			SPIPort:    "/dev/spidev0.0",
			SPIClockHz: 4000000,
			ChipSel:    "GPIO8",
			SLPTR:      "GPIO25",
			Reset:      "GPIO24",
			IRQ:        "GPIO23",
		},
		Log: Log{Level: "info"},
	}
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes data on top of Default. Keys it does not know are an
// error.
func Parse(data []byte) (Config, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", proto.ErrInvalidConfig, err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", proto.ErrInvalidConfig, strings.Join(keys, ", "))
	}
	return f.resolve(Default())
}

func (f File) resolve(c Config) (Config, error) {
	if f.Attack != "" {
		id, err := attack.ParseID(f.Attack)
		if err != nil {
			return Config{}, err
		}
		c.Attack, c.HasAttack = id, true
	}
	if f.Board != "" {
		b, err := proto.ParseBoard(f.Board)
		if err != nil {
			return Config{}, err
		}
		c.Board = b
	}

	var err error
	c.Params, err = f.Params.apply(c.Params)
	if err != nil {
		return Config{}, err
	}
	if err := c.Params.Validate(); err != nil {
		return Config{}, err
	}

	if f.Replay.Input != "" {
		c.Replay.Input = f.Replay.Input
	}
	if f.Replay.Output != "" {
		c.Replay.Output = f.Replay.Output
	}
	if f.Replay.GapMicros < 0 {
		return Config{}, fmt.Errorf("%w: replay.gap_us %d", proto.ErrInvalidConfig, f.Replay.GapMicros)
	}
	if f.Replay.GapMicros > 0 {
		c.Replay.GapMicros = f.Replay.GapMicros
	}

	mergeString(&c.Linux.SPIPort, f.Linux.SPIPort)
	mergeString(&c.Linux.ChipSel, f.Linux.ChipSel)
	mergeString(&c.Linux.SLPTR, f.Linux.SLPTR)
	mergeString(&c.Linux.Reset, f.Linux.Reset)
	mergeString(&c.Linux.IRQ, f.Linux.IRQ)
	if f.Linux.SPIClockHz > 0 {
		c.Linux.SPIClockHz = f.Linux.SPIClockHz
	}

	mergeString(&c.Log.Level, f.Log.Level)
	c.Log.Development = f.Log.Development
	return c, nil
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (pf ParamsFile) apply(p proto.Params) (proto.Params, error) {
	var err error
	set16 := func(dst *uint16, h *Hex, key string) {
		if h == nil || err != nil {
			return
		}
		if *h > 0xffff {
			err = fmt.Errorf("%w: params.%s 0x%x does not fit 16 bits", proto.ErrInvalidConfig, key, uint64(*h))
			return
		}
		*dst = uint16(*h)
	}
	set8 := func(dst *uint8, h *Hex, key string) {
		if h == nil || err != nil {
			return
		}
		if *h > 0xff {
			err = fmt.Errorf("%w: params.%s 0x%x does not fit 8 bits", proto.ErrInvalidConfig, key, uint64(*h))
			return
		}
		*dst = uint8(*h)
	}
	set32 := func(dst *uint32, h *Hex, key string) {
		if h == nil || err != nil {
			return
		}
		if *h > 0xffffffff {
			err = fmt.Errorf("%w: params.%s 0x%x does not fit 32 bits", proto.ErrInvalidConfig, key, uint64(*h))
			return
		}
		*dst = uint32(*h)
	}

	set16(&p.PANID, pf.PANID, "pan_id")
	set16(&p.ShortDstAddr, pf.ShortDstAddr, "short_dst")
	set16(&p.ShortSrcAddr, pf.ShortSrcAddr, "short_src")
	if pf.ExtendedDstAddr != nil {
		p.ExtendedDstAddr = uint64(*pf.ExtendedDstAddr)
	}
	if pf.ExtendedSrcAddr != nil {
		p.ExtendedSrcAddr = uint64(*pf.ExtendedSrcAddr)
	}
	if pf.EPID != nil {
		p.EPID = uint64(*pf.EPID)
	}
	set32(&p.FrameCounter, pf.FrameCounter, "frame_counter")
	set8(&p.KeySeqNum, pf.KeySeqNum, "key_seq_num")
	set32(&p.KeySource, pf.KeySource, "key_source")
	set8(&p.KeyIndex, pf.KeyIndex, "key_index")
	set16(&p.UDPChecksum, pf.UDPChecksum, "udp_checksum")
	set16(&p.DatagramTag, pf.DatagramTag, "datagram_tag")
	set16(&p.UDPSrcPort, pf.UDPSrcPort, "udp_src_port")
	set16(&p.UDPDstPort, pf.UDPDstPort, "udp_dst_port")
	if pf.IdleSeconds != nil {
		p.IdleSeconds = *pf.IdleSeconds
	}
	if pf.ActiveSeconds != nil {
		p.ActiveSeconds = *pf.ActiveSeconds
	}
	return p, err
}

func hex16(v uint16) *Hex { h := Hex(v); return &h }
func hex32(v uint32) *Hex { h := Hex(v); return &h }
func hex64(v uint64) *Hex { h := Hex(v); return &h }

// File turns c back into its on-disk layout with every key spelled out.
func (c Config) File() File {
	p := c.Params
	f := File{
		Board: c.Board.String(),
		Params: ParamsFile{
			PANID:           hex16(p.PANID),
			ShortDstAddr:    hex16(p.ShortDstAddr),
			ShortSrcAddr:    hex16(p.ShortSrcAddr),
			ExtendedDstAddr: hex64(p.ExtendedDstAddr),
			ExtendedSrcAddr: hex64(p.ExtendedSrcAddr),
			EPID:            hex64(p.EPID),
			FrameCounter:    hex32(p.FrameCounter),
			KeySeqNum:       hex16(uint16(p.KeySeqNum)),
			KeySource:       hex32(p.KeySource),
			KeyIndex:        hex16(uint16(p.KeyIndex)),
			UDPChecksum:     hex16(p.UDPChecksum),
			DatagramTag:     hex16(p.DatagramTag),
			UDPSrcPort:      hex16(p.UDPSrcPort),
			UDPDstPort:      hex16(p.UDPDstPort),
			IdleSeconds:     &p.IdleSeconds,
			ActiveSeconds:   &p.ActiveSeconds,
		},
		Replay: c.Replay,
		Linux:  c.Linux,
		Log:    c.Log,
	}
	if c.HasAttack {
		f.Attack = c.Attack.String()
	}
	return f
}

// Write encodes c as TOML.
func Write(w io.Writer, c Config) error {
	return toml.NewEncoder(w).Encode(c.File())
}
