// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package protocol

import (
	"fmt"
	"time"

	"github.com/openwrist/go-datalink/codec"
)

// TimeSettings describes one time zone slot of the watch.
type TimeSettings struct {
	// Zone is the slot number, 1 or 2.
	Zone int
	// At is the timestamp to write.
	At time.Time
	// Use24h selects the 24-hour display.
	Use24h bool
	// Format is the date format selector.
	Format DateFormat
	// Name is an optional zone label; only generations with zone labels
	// transmit it, truncated to the label width.
	Name string
}

// Time writes the timestamp, hour format and date format of one zone.
type Time struct {
	settings TimeSettings
	lim      Limits
}

// NewTime creates a time component bound to a generation's limits.
func NewTime(lim Limits, s TimeSettings) *Time {
	return &Time{settings: s, lim: lim}
}

// Packets validates the settings and returns the framed time packet,
// plus the zone-label packet on generations that carry one.
func (sf *Time) Packets() ([]Packet, error) {
	s := sf.settings
	if s.Zone != 1 && s.Zone != 2 {
		return nil, &ConfigurationError{Field: "time zone", Reason: fmt.Sprintf("slot %d, must be 1 or 2", s.Zone)}
	}
	if !sf.lim.SupportsDateFormat(s.Format) {
		return nil, &ConfigurationError{Field: "date format", Reason: fmt.Sprintf("%q not supported by this protocol", s.Format)}
	}

	hourFormat := byte(1)
	if s.Use24h {
		hourFormat = 2
	}
	// Weekday on the wire counts from Monday.
	wday := (int(s.At.Weekday()) + 6) % 7

	payload := []byte{
		opTime,
		byte(s.Zone),
		byte(s.At.Second()),
		byte(s.At.Hour()),
		byte(s.At.Minute()),
		byte(s.At.Month()),
		byte(s.At.Day()),
		byte(s.At.Year() % 100),
		byte(wday),
		hourFormat,
		dateFormatCodes[s.Format],
	}

	payloads := [][]byte{payload}
	if sf.lim.ZoneNameLength > 0 {
		name := s.Name
		if name == "" {
			name = defaultZoneName(s.Zone, s.At)
		}
		label := codec.MapText(name, sf.lim.Alphabet, codec.MapOptions{
			MaxLength: sf.lim.ZoneNameLength,
			Pad:       true,
		})
		namePayload := append([]byte{opTimeName, byte(s.Zone)}, label...)
		payloads = append(payloads, namePayload)
	}
	return framePackets(payloads...)
}

// defaultZoneName mirrors the original software: an unnamed zone shows
// its UTC offset abbreviation, falling back to "tz" plus the slot.
func defaultZoneName(zone int, at time.Time) string {
	if name := at.Format("MST"); name != "" && name[0] != '+' && name[0] != '-' {
		return name
	}
	return fmt.Sprintf("tz%d", zone)
}
