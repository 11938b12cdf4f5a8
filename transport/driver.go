package transport

import "time"

// Bus is the byte-synchronous control bus of the transceiver. Send and
// Recv each take one fixed byte time; a transaction is bracketed by
// Begin and End.
type Bus interface {
	Begin()
	Send(b byte)
	Recv() byte
	End()
}

// Strober pulses SLP_TR, which starts a transmission from PLL_ON.
type Strober interface {
	Strobe()
}

// Delayer busy-waits for a fixed duration.
type Delayer interface {
	Delay(d time.Duration)
}

// Ticker drives the periodic duty-cycle timer. Start is called at most
// once; tick runs in timer context and must not block.
type Ticker interface {
	Start(period time.Duration, tick func())
}

// Transceiver is what the attack engine drives while a frame is in
// flight.
type Transceiver interface {
	Bus
	Strober
	Delayer
}

// Locker brackets the read-modify-write sections shared between the
// frame handler and the timer handler. Firmware builds disable
// interrupts; host builds use a mutex.
type Locker interface {
	Lock()
	Unlock()
}
