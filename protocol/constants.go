package protocol

import "time"

// AT86RF23x SPI command prefixes.
const (
	CmdRegWrite  = 0xc0 // 11.. ....
	CmdRegRead   = 0x80 // 10.. ....
	CmdBufWrite  = 0x60 // 011. ....
	CmdBufRead   = 0x20 // 001. ....
	CmdSRAMWrite = 0x40 // 010. ....
	CmdSRAMRead  = 0x00 // 000. ....

	RegAddrMask = 0x3f
)

// Frame sizing and bus timing.
const (
	// MaxPSDU is the largest PHY payload, see AT86RF230 manual 8.1.
	MaxPSDU = 127

	// ByteTime is the minimum spacing between two frame-buffer reads
	// while the frame is still arriving (one octet at 250 kbit/s).
	ByteTime = 32 * time.Microsecond

	// TickPeriod is the duty-cycle timer period. TicksPerSecond ticks
	// advance the elapsed-seconds counter by one.
	TickPeriod     = 8 * time.Millisecond
	TicksPerSecond = 125
)

// Transceiver registers.
const (
	RegTRXStatus  = 0x01
	RegTRXState   = 0x02
	RegTRXCtrl0   = 0x03
	RegTRXCtrl1   = 0x04
	RegPHYTXPwr   = 0x05
	RegPHYRSSI    = 0x06
	RegPHYCCCCA   = 0x08
	RegIRQMask    = 0x0e
	RegIRQStatus  = 0x0f
	RegPartNum    = 0x1c
	RegVersionNum = 0x1d
	RegManID0     = 0x1e
	RegManID1     = 0x1f
	RegShortAddr0 = 0x20
	RegShortAddr1 = 0x21
	RegPANID0     = 0x22
	RegPANID1     = 0x23
	RegIEEEAddr0  = 0x24 // through 0x2b, LSB first
)

// TRX_STATUS values (low five bits).
const (
	TRXStatusMask = 0x1f

	StatusPOn             = 0x00
	StatusBusyRX          = 0x01
	StatusBusyTX          = 0x02
	StatusRXOn            = 0x06
	StatusTRXOff          = 0x08
	StatusPLLOn           = 0x09
	StatusSleep           = 0x0f
	StatusBusyRXAACK      = 0x11
	StatusBusyTXARET      = 0x12
	StatusRXAACKOn        = 0x16
	StatusTXARETOn        = 0x19
	StatusRXOnNoClk       = 0x1c
	StatusRXAACKOnNoClk   = 0x1d
	StatusBusyRXAACKNoClk = 0x1e
	StatusStateTransition = 0x1f
)

// TRX_STATE commands.
const (
	TRXCmdNOP         = 0x00
	TRXCmdTXStart     = 0x02
	TRXCmdForceTRXOff = 0x03
	TRXCmdForcePLLOn  = 0x04 // AT86RF231 and AT86RF212 only
	TRXCmdRXOn        = 0x06
	TRXCmdTRXOff      = 0x08
	TRXCmdPLLOn       = 0x09
	TRXCmdRXAACKOn    = 0x16
	TRXCmdTXARETOn    = 0x19
)

// IRQ_STATUS bits.
const (
	IRQPLLLock   = 1 << 0
	IRQPLLUnlock = 1 << 1
	IRQRXStart   = 1 << 2
	IRQTRXEnd    = 1 << 3
	IRQCCAEDDone = 1 << 4
	IRQAMI       = 1 << 5
	IRQTRXUR     = 1 << 6
	IRQBatLow    = 1 << 7
)

// TRX_CTRL_1 fields.
const (
	TXAutoCRCOn       = 1 << 5 // AT86RF231 and AT86RF212
	TXAutoCRCOn230    = 1 << 7 // AT86RF230 keeps it in PHY_TX_PWR
	SPICmdModeShift   = 2
	SPICmdModeMask    = 0x03
	SPICmdModePHYRSSI = 2
)

// PHY length byte.
const (
	PHYLenReserved = 0x80
)

// MAC frame control, low byte.
const (
	FrameTypeMask    = 0x07
	FrameTypeBeacon  = 0x00
	FrameTypeData    = 0x01
	FrameTypeAck     = 0x02
	FrameTypeCommand = 0x03

	SecurityEnabled  = 0x08
	FramePending     = 0x10
	AckRequest       = 0x20
	PANIDCompression = 0x40
)

// MAC frame control, high byte.
const (
	DstAddrModeMask = 0x0c
	DstAddrNone     = 0x00
	DstAddrShort    = 0x08
	DstAddrExt      = 0x0c

	FrameVersionMask = 0x30
	FrameVersion2003 = 0x00
	FrameVersion2006 = 0x10

	SrcAddrModeMask = 0xc0
	SrcAddrNone     = 0x00
	SrcAddrShort    = 0x80
	SrcAddrExt      = 0xc0
)

// MAC command identifiers.
const (
	MACCmdAssociationRequest = 0x01
	MACCmdDataRequest        = 0x04
)

// Zigbee NWK frame control.
const (
	NWKFrameTypeMask    = 0x03
	NWKFrameTypeData    = 0x00
	NWKFrameTypeCommand = 0x01

	// high byte
	NWKMulticast   = 0x01
	NWKSecurity    = 0x02
	NWKSourceRoute = 0x04
	NWKExtDst      = 0x08
	NWKExtSrc      = 0x10
)

// 6LoWPAN, MLE.
const (
	DispatchFragMask   = 0xf8
	DispatchFrag1      = 0xc0
	DispatchFragN      = 0xe0
	DispatchIPHC       = 0x7f // TF=11 NH=1 HLIM=11
	DispatchIPHCHlim64 = 0x7e
	DispatchIPHCHlim1  = 0x7d
	IPHCLinkLocal      = 0x33 // SAM=11 DAM=11, link-local from MAC
	NHCUDP             = 0xf0 // inline ports, inline checksum

	MLEPort           = 0x4d4c // 19788
	MLESecuritySuite  = 0x00
	MLEUnsecured      = 0xff
	MLEDiscoveryResp  = 0x11
	MLEDataRequestCmd = 0x07

	BroadcastPANID = 0xffff
)
