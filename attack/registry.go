package attack

import (
	"fmt"
	"sort"

	proto "github.com/ystepanoff/zbjam/protocol"
)

const (
	Passthrough          ID = 0
	AckSpoof             ID = 4
	RejoinResponseJam    ID = 5
	EPIDBeaconJam        ID = 7
	DataRequestJam       ID = 11
	DataRequestSpoof     ID = 12
	DutyDataRequestSpoof ID = 13
	DutyMLESpoof         ID = 16
	DutyFragmentSpoof    ID = 18
	LongBeaconJam        ID = 19
	DiscoveryResponseJam ID = 20
	ForeignBeaconJam     ID = 22
	FirstFragmentJam     ID = 25
)

type entry struct {
	summary string
	gated   bool
	build   func(p proto.Params) Attack
}

var registry = map[ID]entry{
	Passthrough: {"pass every frame to the normal receive path", false,
		func(proto.Params) Attack { return passthrough{} }},
	AckSpoof: {"jam ack-requesting 2003 frames of the PAN, spoof the ack", false,
		func(p proto.Params) Attack { return newAckSpoof(p) }},
	RejoinResponseJam: {"jam Zigbee rejoin responses", false,
		func(p proto.Params) Attack { return &rejoinResponse{p: p} }},
	EPIDBeaconJam: {"jam 28-byte Zigbee beacons carrying the EPID", false,
		func(p proto.Params) Attack { return &epidBeacon{p: p} }},
	DataRequestJam: {"jam data requests of the PAN", false,
		func(p proto.Params) Attack { return &dataRequestJam{p: p} }},
	DataRequestSpoof: {"jam data requests, spoof ack and NWK data", false,
		func(p proto.Params) Attack { return newDataRequestSpoof(p) }},
	DutyDataRequestSpoof: {"duty-cycled data request spoof tracking the child", true,
		func(p proto.Params) Attack { return newDutyDataRequest(p) }},
	DutyMLESpoof: {"duty-cycled secured data request spoof with MLE", true,
		func(p proto.Params) Attack { return newDutyMLE(p) }},
	DutyFragmentSpoof: {"duty-cycled secured data request spoof with a fragment", true,
		func(p proto.Params) Attack { return newDutyFragment(p) }},
	LongBeaconJam: {"jam beacons of at least 45 bytes from the PAN", false,
		func(p proto.Params) Attack { return &longBeacon{p: p} }},
	DiscoveryResponseJam: {"jam Thread MLE discovery responses", false,
		func(p proto.Params) Attack { return &discoveryResponse{p: p} }},
	ForeignBeaconJam: {"jam long beacons not sent by the extended source", false,
		func(p proto.Params) Attack { return &foreignBeacon{p: p} }},
	FirstFragmentJam: {"jam first fragments to the UDP ports", false,
		func(p proto.Params) Attack { return &firstFragment{p: p} }},
}

// New builds the attack with the given parameters.
func New(id ID, p proto.Params) (Attack, error) {
	e, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", proto.ErrUnknownAttack, id)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return e.build(p), nil
}

// IDs lists the known attacks in ascending order.
func IDs() []ID {
	ids := make([]ID, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Summary is a one-line description of the attack.
func Summary(id ID) string { return registry[id].summary }

// Gated reports whether the attack runs under the duty-cycle scheduler.
func Gated(id ID) bool { return registry[id].gated }
