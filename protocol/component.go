// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package protocol models the Datalink protocol family: the packet
// builders for each component of a sync session, the per-version
// capability descriptors, and the registry that matches a live device
// to the protocol generation it speaks.
package protocol

import "github.com/openwrist/go-datalink/codec"

// Packet is one complete wire message. Most packets carry the length
// prefix and CRC suffix applied by the codec framing; the Sync preamble
// is the one deliberately raw exception.
type Packet []byte

// Component is one polymorphic unit of a sync session. Components are
// stateless value objects: all protocol limits are bound at
// construction, and Packets performs full validation before returning,
// so a whole workflow can be checked without touching the transport.
type Component interface {
	Packets() ([]Packet, error)
}

// Command opcodes shared across protocol generations.
const (
	opStart        byte = 0x20
	opEnd          byte = 0x21
	opTimeName     byte = 0x31
	opTime         byte = 0x32
	opAlarm        byte = 0x50
	opSoundOptions byte = 0x71

	// Sectioned uploads (EEPROM, wrist apps, sound themes) use a
	// header/data/end opcode triplet qualified by a section type byte.
	opSectHeader byte = 0x90
	opSectData   byte = 0x91
	opSectEnd    byte = 0x92
	opSectClear  byte = 0x93

	sectEeprom     byte = 0x01
	sectWristApp   byte = 0x02
	sectSoundTheme byte = 0x03
)

// Sync preamble bytes. The dongle's receive path locks its baud
// detection onto the 0x55 train before real packets start.
const (
	syncPing  byte = 0x78
	syncTrain byte = 0x55
	syncTail  byte = 0xAA
)

// DefaultSyncLength is the default 0x55 train length.
const DefaultSyncLength = 300

// syncTailLength is fixed by the firmware.
const syncTailLength = 40

func frame(payload []byte) (Packet, error) {
	framed, err := codec.Frame(payload)
	if err != nil {
		return nil, &CapacityError{Category: "packet payload", Count: len(payload), Max: codec.MaxPayloadLen}
	}
	return Packet(framed), nil
}

func framePackets(payloads ...[]byte) ([]Packet, error) {
	out := make([]Packet, 0, len(payloads))
	for _, p := range payloads {
		framed, err := frame(p)
		if err != nil {
			return nil, err
		}
		out = append(out, framed)
	}
	return out, nil
}
