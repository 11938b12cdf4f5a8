package protocol

import "testing"

func TestValidPHYLen(t *testing.T) {
	tests := []struct {
		name string
		l    byte
		want bool
	}{
		{"too short", 4, false},
		{"minimum", 5, true},
		{"maximum", MaxPSDU, true},
		{"reserved bit", 0x85, false},
		{"reserved bit only", 0x80, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidPHYLen(tt.l); got != tt.want {
				t.Errorf("ValidPHYLen(0x%02x) = %v, want %v", tt.l, got, tt.want)
			}
		})
	}
}

func TestFrameControlLow(t *testing.T) {
	// 0x63: command, ack request, PAN-ID compression
	fcl := byte(0x63)
	if got := FrameType(fcl); got != FrameTypeCommand {
		t.Errorf("FrameType() = %v, want %v", got, FrameTypeCommand)
	}
	if Secured(fcl) {
		t.Errorf("Secured() = true, want false")
	}
	if !AckRequested(fcl) {
		t.Errorf("AckRequested() = false, want true")
	}
	if !PANIDCompressed(fcl) {
		t.Errorf("PANIDCompressed() = false, want true")
	}
	if !Secured(0x6b) {
		t.Errorf("Secured(0x6b) = false, want true")
	}
}

func TestFrameControlHigh(t *testing.T) {
	tests := []struct {
		name     string
		fch      byte
		version  byte
		short    bool
		ext      bool
		dst, src byte
	}{
		{"short/short 2003", 0x88, FrameVersion2003, true, false, DstAddrShort, SrcAddrShort},
		{"ext/ext 2006", 0xdc, FrameVersion2006, false, true, DstAddrExt, SrcAddrExt},
		{"no dst, ext src", 0xc0, FrameVersion2003, false, false, DstAddrNone, SrcAddrExt},
		{"short src only", 0x80, FrameVersion2003, false, false, DstAddrNone, SrcAddrShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FrameVersion(tt.fch); got != tt.version {
				t.Errorf("FrameVersion() = 0x%02x, want 0x%02x", got, tt.version)
			}
			if got := ShortAddressed(tt.fch); got != tt.short {
				t.Errorf("ShortAddressed() = %v, want %v", got, tt.short)
			}
			if got := ExtAddressed(tt.fch); got != tt.ext {
				t.Errorf("ExtAddressed() = %v, want %v", got, tt.ext)
			}
			if got := DstAddrMode(tt.fch); got != tt.dst {
				t.Errorf("DstAddrMode() = 0x%02x, want 0x%02x", got, tt.dst)
			}
			if got := SrcAddrMode(tt.fch); got != tt.src {
				t.Errorf("SrcAddrMode() = 0x%02x, want 0x%02x", got, tt.src)
			}
		})
	}
}

func TestNWKOptionalLen(t *testing.T) {
	tests := []struct {
		nfch byte
		want int
	}{
		{0x02, 0},
		{0x0a, 8},
		{0x12, 8},
		{0x1a, 16},
		{0x1b, 17},
		{0x03, 1},
	}
	for _, tt := range tests {
		if got := NWKOptionalLen(tt.nfch); got != tt.want {
			t.Errorf("NWKOptionalLen(0x%02x) = %d, want %d", tt.nfch, got, tt.want)
		}
	}
}

func TestFirstFragment(t *testing.T) {
	for _, d := range []byte{0xc0, 0xc2, 0xc7} {
		if !FirstFragment(d) {
			t.Errorf("FirstFragment(0x%02x) = false, want true", d)
		}
	}
	for _, d := range []byte{0xe0, 0xe2, 0x7f, 0xc8} {
		if FirstFragment(d) {
			t.Errorf("FirstFragment(0x%02x) = true, want false", d)
		}
	}
}
