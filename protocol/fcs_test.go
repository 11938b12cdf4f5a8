package protocol

import "testing"

func TestFCS(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint16
	}{
		{"empty", nil, 0x0000},
		{"check string", []byte("123456789"), 0x2189},
		{"single zero", []byte{0x00}, 0x0000},
		{"ack seq 0x2a", []byte{0x02, 0x00, 0x2a}, 0x3be0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FCS(tt.data); got != tt.want {
				t.Errorf("FCS(% x) = 0x%04x, want 0x%04x", tt.data, got, tt.want)
			}
		})
	}
}

func TestPutCheckFCS(t *testing.T) {
	frame := []byte{0x02, 0x00, 0x2a, 0xff, 0xff}
	if CheckFCS(frame) {
		t.Fatalf("CheckFCS accepted a placeholder FCS")
	}
	PutFCS(frame)
	if !CheckFCS(frame) {
		t.Fatalf("CheckFCS rejected % x after PutFCS", frame)
	}
	if frame[0] != 0x02 || frame[2] != 0x2a {
		t.Errorf("PutFCS touched the header: % x", frame)
	}
	if frame[3] != 0xe0 || frame[4] != 0x3b {
		t.Errorf("FCS octets = % x, want e0 3b", frame[3:])
	}

	frame[1] ^= 0x01
	if CheckFCS(frame) {
		t.Errorf("CheckFCS accepted a corrupted frame")
	}

	short := []byte{0x01}
	PutFCS(short)
	if short[0] != 0x01 || CheckFCS(short) {
		t.Errorf("one-octet frame: % x", short)
	}
}
