// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package protocol

// Start announces the protocol version the following packets speak.
// Every sync session opens with it, right after the Sync preamble.
type Start struct {
	version int
}

// NewStart creates the session-opening component for a version.
func NewStart(version int) *Start {
	return &Start{version: version}
}

// Packets returns the single framed start packet.
func (sf *Start) Packets() ([]Packet, error) {
	return framePackets([]byte{opStart, 0x00, 0x00, byte(sf.version)})
}

// End closes a sync session.
type End struct{}

// NewEnd creates the session-closing component.
func NewEnd() *End { return &End{} }

// Packets returns the single framed end packet.
func (sf *End) Packets() ([]Packet, error) {
	return framePackets([]byte{opEnd})
}

// Sync is the baud-lock preamble: one ping byte, a train of 0x55, then
// a fixed tail of 0xAA. It is the only component whose bytes go out
// unframed; the dongle consumes them before packet parsing starts.
type Sync struct {
	length int
}

// NewSync creates the preamble with the given 0x55 train length; zero
// selects DefaultSyncLength. Slow legacy dongles need a longer train.
func NewSync(length int) *Sync {
	if length <= 0 {
		length = DefaultSyncLength
	}
	return &Sync{length: length}
}

// Packets returns the raw preamble as one packet.
func (sf *Sync) Packets() ([]Packet, error) {
	out := make([]byte, 0, 1+sf.length+syncTailLength)
	out = append(out, syncPing)
	for i := 0; i < sf.length; i++ {
		out = append(out, syncTrain)
	}
	for i := 0; i < syncTailLength; i++ {
		out = append(out, syncTail)
	}
	return []Packet{out}, nil
}
