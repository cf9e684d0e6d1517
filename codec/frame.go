// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package codec

import (
	"fmt"

	"github.com/sigurn/crc16"
)

// MaxPayloadLen is the largest payload a single packet can carry: the
// length prefix is self-inclusive and must fit in one byte.
const MaxPayloadLen = 254

var crcTable = crc16.MakeTable(crc16.CRC16_ARC)

// FrameLength prepends the self-inclusive length byte: len(payload)+1.
// Applied exactly once per packet, never nested. The payload must not
// exceed MaxPayloadLen; use Frame for a checked variant.
func FrameLength(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+1)
	out = append(out, byte(len(payload)+1))
	return append(out, payload...)
}

// FrameIntegrity appends the CRC16/ARC checksum over all bytes already
// present, high byte first. The algorithm and byte order were derived
// from reference captures of the Notebook Adapter dongle.
func FrameIntegrity(framed []byte) []byte {
	crc := crc16.Checksum(framed, crcTable)
	out := make([]byte, 0, len(framed)+2)
	out = append(out, framed...)
	return append(out, byte(crc>>8), byte(crc))
}

// Checksum returns the CRC16/ARC value of the framed bytes.
func Checksum(framed []byte) uint16 {
	return crc16.Checksum(framed, crcTable)
}

// Frame applies both wraps in order: length prefix, then integrity
// suffix. It rejects payloads whose length byte would overflow.
func Frame(payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadLen {
		return nil, fmt.Errorf("codec: payload length %d exceeds %d", len(payload), MaxPayloadLen)
	}
	return FrameIntegrity(FrameLength(payload)), nil
}
