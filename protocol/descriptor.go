// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package protocol

import (
	"github.com/openwrist/go-datalink/codec"
)

// DateFormat selects how the watch renders dates.
type DateFormat string

// Date formats shared by the protocol family. Not every generation
// supports every selector; a descriptor's Limits lists the supported
// subset.
const (
	DateFormatMonthDayYear     DateFormat = "mm-dd-yy"
	DateFormatDayMonthYear     DateFormat = "dd-mm-yy"
	DateFormatYearMonthDay     DateFormat = "yy-mm-dd"
	DateFormatMonthDayYearDots DateFormat = "mm.dd.yy"
	DateFormatDayMonthYearDots DateFormat = "dd.mm.yy"
	DateFormatYearMonthDayDots DateFormat = "yy.mm.dd"
)

// dateFormatCodes are the wire values of the selectors.
var dateFormatCodes = map[DateFormat]byte{
	DateFormatMonthDayYear:     0,
	DateFormatDayMonthYear:     1,
	DateFormatYearMonthDay:     2,
	DateFormatMonthDayYearDots: 4,
	DateFormatDayMonthYearDots: 5,
	DateFormatYearMonthDayDots: 6,
}

// Capabilities is the feature set a protocol generation exposes, read
// by presentation layers through the registry.
type Capabilities struct {
	Time          bool
	Alarms        bool
	Eeprom        bool
	SoundOptions  bool
	SoundTheme    bool
	WristApps     bool
	Bidirectional bool
	MaxAlarms     int
}

// Limits carries every protocol-variable width and count the component
// builders need. Builders take Limits as explicit configuration instead
// of reading ambient protocol state, so a component tree is fully
// determined by its inputs.
type Limits struct {
	// Alphabet is the display alphabet dialect of this generation.
	Alphabet codec.Alphabet

	// AlarmMessageLength is the display width of an alarm message.
	AlarmMessageLength int
	// ZoneNameLength is the width of the per-zone label in the time
	// packet family; zero when the generation has no zone labels.
	ZoneNameLength int
	// DateFormats lists the selectors this generation accepts.
	DateFormats []DateFormat

	// ChunkSize is the data bytes per packet for sectioned uploads
	// (wrist applications, sound themes, EEPROM payload).
	ChunkSize int

	// EEPROM category caps and per-field text widths.
	MaxAppointments  int
	MaxAnniversaries int
	MaxPhoneNumbers  int
	MaxLists         int
	EepromTextLength int
	PhoneNameLength  int
}

// SupportsDateFormat reports whether the generation accepts the
// selector.
func (l Limits) SupportsDateFormat(f DateFormat) bool {
	for _, df := range l.DateFormats {
		if df == f {
			return true
		}
	}
	return false
}

// Descriptor is the static metadata of one protocol generation. The
// descriptor set is fixed at process start and read-only thereafter.
type Descriptor struct {
	// Version is the protocol number the device family speaks.
	Version int
	// Name is a human-readable protocol name.
	Name string
	// Devices lists device-model match strings, most specific first.
	Devices []string

	Capabilities Capabilities
	Limits       Limits
}

// Protocol is a descriptor resolved through the registry, ready to
// build components with the generation's limits.
type Protocol struct {
	desc *Descriptor
}

// Descriptor returns the static metadata.
func (sf *Protocol) Descriptor() *Descriptor { return sf.desc }

// Version returns the protocol number.
func (sf *Protocol) Version() int { return sf.desc.Version }

// Limits returns the generation's field widths and counts.
func (sf *Protocol) Limits() Limits { return sf.desc.Limits }

// Capabilities returns the generation's feature set.
func (sf *Protocol) Capabilities() Capabilities { return sf.desc.Capabilities }
