// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package protocol

import "github.com/openwrist/go-datalink/codec"

// allDateFormats is the full selector set of the 150-class firmware.
var allDateFormats = []DateFormat{
	DateFormatMonthDayYear,
	DateFormatDayMonthYear,
	DateFormatYearMonthDay,
	DateFormatMonthDayYearDots,
	DateFormatDayMonthYearDots,
	DateFormatYearMonthDayDots,
}

// dashDateFormats is the reduced set of the first generation.
var dashDateFormats = []DateFormat{
	DateFormatMonthDayYear,
	DateFormatDayMonthYear,
	DateFormatYearMonthDay,
}

// RegisterBuiltin installs the six known protocol generations. Call it
// once at startup; registering into a non-empty registry that already
// holds one of the versions fails with DuplicateProtocolError.
func RegisterBuiltin(r *Registry) error {
	for _, d := range builtinDescriptors() {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

func builtinDescriptors() []Descriptor {
	return []Descriptor{
		{
			Version: 1,
			Name:    "Protocol 1",
			Devices: []string{"Timex Datalink 50", "Timex Datalink 70", "Datalink 50", "Datalink 70"},
			Capabilities: Capabilities{
				Time: true, Alarms: true, Eeprom: true,
				MaxAlarms: 5,
			},
			Limits: Limits{
				Alphabet:           codec.Chars,
				AlarmMessageLength: 8,
				ZoneNameLength:     3,
				DateFormats:        dashDateFormats,
				ChunkSize:          32,
				MaxAppointments:    25, MaxAnniversaries: 15, MaxPhoneNumbers: 25, MaxLists: 10,
				EepromTextLength: 31, PhoneNameLength: 15,
			},
		},
		{
			Version: 3,
			Name:    "Protocol 3",
			Devices: []string{"Timex Datalink 150", "Datalink 150"},
			Capabilities: Capabilities{
				Time: true, Alarms: true, Eeprom: true,
				SoundOptions: true, SoundTheme: true, WristApps: true,
				MaxAlarms: 5,
			},
			Limits: Limits{
				Alphabet:           codec.Chars,
				AlarmMessageLength: 8,
				DateFormats:        allDateFormats,
				ChunkSize:          32,
				MaxAppointments:    50, MaxAnniversaries: 30, MaxPhoneNumbers: 50, MaxLists: 25,
				EepromTextLength: 31, PhoneNameLength: 15,
			},
		},
		{
			Version: 4,
			Name:    "Protocol 4",
			Devices: []string{"Timex Datalink 150s", "Datalink 150s", "Timex Internet Messenger", "Internet Messenger"},
			Capabilities: Capabilities{
				Time: true, Alarms: true, Eeprom: true,
				SoundOptions: true, SoundTheme: true, WristApps: true,
				Bidirectional: true,
				MaxAlarms:     5,
			},
			Limits: Limits{
				Alphabet:           codec.Chars,
				AlarmMessageLength: 8,
				DateFormats:        allDateFormats,
				ChunkSize:          32,
				MaxAppointments:    50, MaxAnniversaries: 30, MaxPhoneNumbers: 50, MaxLists: 25,
				EepromTextLength: 31, PhoneNameLength: 15,
			},
		},
		{
			Version: 6,
			Name:    "Protocol 6",
			Devices: []string{"Motorola Beepwear Pro", "Beepwear Pro", "Beepwear"},
			Capabilities: Capabilities{
				Time: true, Alarms: true, Eeprom: true,
				SoundOptions: true,
				MaxAlarms:    8,
			},
			Limits: Limits{
				Alphabet:           codec.CharsProtocol6,
				AlarmMessageLength: 16,
				DateFormats:        allDateFormats,
				ChunkSize:          32,
				MaxAppointments:    25, MaxAnniversaries: 15, MaxPhoneNumbers: 75, MaxLists: 10,
				EepromTextLength: 31, PhoneNameLength: 31,
			},
		},
		{
			Version: 7,
			Name:    "Protocol 7",
			Devices: []string{"DSI e-BRAIN", "e-BRAIN", "ebrain"},
			Capabilities: Capabilities{
				Eeprom: true,
			},
			Limits: Limits{
				Alphabet:        codec.Chars,
				DateFormats:     dashDateFormats,
				ChunkSize:       32,
				MaxAppointments: 50, MaxAnniversaries: 30, MaxPhoneNumbers: 50, MaxLists: 25,
				EepromTextLength: 31, PhoneNameLength: 15,
			},
		},
		{
			Version: 9,
			Name:    "Protocol 9",
			Devices: []string{"Timex Ironman Triathlon", "Ironman Triathlon", "Ironman"},
			Capabilities: Capabilities{
				Time: true, Alarms: true, Eeprom: true,
				SoundOptions:  true,
				Bidirectional: true,
				MaxAlarms:     10,
			},
			Limits: Limits{
				Alphabet:           codec.Chars,
				AlarmMessageLength: 16,
				ZoneNameLength:     3,
				DateFormats:        dashDateFormats,
				ChunkSize:          32,
				MaxAppointments:    10, MaxAnniversaries: 10, MaxPhoneNumbers: 100, MaxLists: 10,
				EepromTextLength: 31, PhoneNameLength: 31,
			},
		},
	}
}
