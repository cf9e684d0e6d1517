// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package protocol

// SoundSettings holds the two global sound switches.
type SoundSettings struct {
	HourlyChime bool
	ButtonBeep  bool
}

// SoundOptions writes the global sound switches.
type SoundOptions struct {
	settings SoundSettings
}

// NewSoundOptions creates the sound options component.
func NewSoundOptions(s SoundSettings) *SoundOptions {
	return &SoundOptions{settings: s}
}

// Packets returns the single framed sound options packet.
func (sf *SoundOptions) Packets() ([]Packet, error) {
	chime := byte(0)
	if sf.settings.HourlyChime {
		chime = 1
	}
	beep := byte(0)
	if sf.settings.ButtonBeep {
		beep = 1
	}
	return framePackets([]byte{opSoundOptions, chime, beep})
}

// SoundTheme uploads a pre-built sound theme blob (an SPC file body) as
// a sectioned transfer: header, ordered data chunks, end.
type SoundTheme struct {
	blob []byte
	lim  Limits
}

// NewSoundTheme creates a sound theme upload bound to a generation's
// chunk size. The blob is produced externally and treated as opaque.
func NewSoundTheme(lim Limits, blob []byte) *SoundTheme {
	return &SoundTheme{blob: blob, lim: lim}
}

// Packets splits the blob into protocol-sized framed chunks.
func (sf *SoundTheme) Packets() ([]Packet, error) {
	return sectionPackets(sectSoundTheme, sf.blob, sf.lim.ChunkSize)
}

// WristApp uploads a pre-built wrist application blob (a ZAP image) as
// a sectioned transfer, identical to SoundTheme apart from the section
// type.
type WristApp struct {
	blob []byte
	lim  Limits
}

// NewWristApp creates a wrist application upload bound to a
// generation's chunk size.
func NewWristApp(lim Limits, blob []byte) *WristApp {
	return &WristApp{blob: blob, lim: lim}
}

// Packets splits the blob into protocol-sized framed chunks.
func (sf *WristApp) Packets() ([]Packet, error) {
	return sectionPackets(sectWristApp, sf.blob, sf.lim.ChunkSize)
}

// sectionPackets builds the header/data/end triplet of a sectioned
// upload, preserving chunk order. The data packets carry a 1-based
// sequence number so the firmware can detect a dropped chunk.
func sectionPackets(section byte, blob []byte, chunkSize int) ([]Packet, error) {
	if len(blob) == 0 {
		return nil, &ConfigurationError{Field: "upload blob", Reason: "empty"}
	}
	if chunkSize <= 0 {
		return nil, &ConfigurationError{Field: "chunk size", Reason: "not supported by this protocol"}
	}

	chunks := splitChunks(blob, chunkSize)
	if len(chunks) > 0xFF {
		return nil, &CapacityError{Category: "upload chunks", Count: len(chunks), Max: 0xFF}
	}

	payloads := make([][]byte, 0, len(chunks)+2)
	payloads = append(payloads, []byte{opSectHeader, section, byte(len(chunks))})
	for i, chunk := range chunks {
		data := make([]byte, 0, 3+len(chunk))
		data = append(data, opSectData, section, byte(i+1))
		data = append(data, chunk...)
		payloads = append(payloads, data)
	}
	payloads = append(payloads, []byte{opSectEnd, section})
	return framePackets(payloads...)
}

func splitChunks(blob []byte, size int) [][]byte {
	chunks := make([][]byte, 0, len(blob)/size+1)
	for len(blob) > size {
		chunks = append(chunks, blob[:size])
		blob = blob[size:]
	}
	if len(blob) > 0 {
		chunks = append(chunks, blob)
	}
	return chunks
}
