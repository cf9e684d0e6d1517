// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package protocol

import (
	"fmt"

	"github.com/openwrist/go-datalink/codec"
)

// AlarmSettings describes one alarm slot.
type AlarmSettings struct {
	// Number is the slot, 1-based, bounded by the protocol's MaxAlarms.
	Number int
	// Hour and Minute are the trigger time.
	Hour, Minute int
	// Message is shown when the alarm fires, truncated to the
	// generation's message width.
	Message string
	// Audible selects beep versus silent display.
	Audible bool
}

// Alarm writes one alarm slot.
type Alarm struct {
	settings  AlarmSettings
	maxAlarms int
	lim       Limits
}

// NewAlarm creates an alarm component bound to a generation's limits.
func NewAlarm(lim Limits, maxAlarms int, s AlarmSettings) *Alarm {
	return &Alarm{settings: s, maxAlarms: maxAlarms, lim: lim}
}

// Packets validates the slot and time and returns the framed alarm
// packet.
func (sf *Alarm) Packets() ([]Packet, error) {
	s := sf.settings
	if s.Number < 1 || s.Number > sf.maxAlarms {
		return nil, &ConfigurationError{
			Field:  "alarm number",
			Reason: fmt.Sprintf("slot %d out of range [1, %d]", s.Number, sf.maxAlarms),
		}
	}
	if s.Hour < 0 || s.Hour > 23 || s.Minute < 0 || s.Minute > 59 {
		return nil, &ConfigurationError{
			Field:  "alarm time",
			Reason: fmt.Sprintf("%02d:%02d out of range", s.Hour, s.Minute),
		}
	}

	message := codec.MapText(s.Message, sf.lim.Alphabet, codec.MapOptions{
		MaxLength: sf.lim.AlarmMessageLength,
		Pad:       true,
	})
	audible := byte(0)
	if s.Audible {
		audible = 1
	}

	payload := make([]byte, 0, 6+len(message)+1)
	// The month/day pair is zero for a daily alarm; scheduled one-shot
	// alarms were dropped by every firmware revision we captured.
	payload = append(payload, opAlarm, byte(s.Number), byte(s.Hour), byte(s.Minute), 0, 0)
	payload = append(payload, message...)
	payload = append(payload, audible)
	return framePackets(payload)
}
