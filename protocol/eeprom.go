// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package protocol

import (
	"fmt"

	"github.com/openwrist/go-datalink/codec"
)

// eepromBaseAddress is where the scheduling database starts in the
// watch EEPROM. The header packet announces each category's absolute
// start address relative to this base.
const eepromBaseAddress = 0x0236

// noNotification is the wire value for a disabled appointment
// notification.
const noNotification byte = 0xFF

// Appointment is one dated, timed EEPROM entry.
type Appointment struct {
	Month, Day int
	// Hour and Minute are quantized to 15-minute steps on the wire.
	Hour, Minute int
	Message      string
}

// Anniversary is one dated EEPROM entry without a time of day.
type Anniversary struct {
	Month, Day int
	Message    string
}

// PhoneNumber is one phone book EEPROM entry. Type is a single
// qualifier glyph from the phone alphabet (h: home, w: work, c: cell,
// f: fax, p: pager); empty means unqualified.
type PhoneNumber struct {
	Name   string
	Number string
	Type   string
}

// ListEntry is one to-do list EEPROM entry. A nil Priority means
// unprioritized and encodes to zero.
type ListEntry struct {
	Entry    string
	Priority *int
}

// EepromData is the bundled scheduling database uploaded as one logical
// unit.
type EepromData struct {
	Appointments  []Appointment
	Anniversaries []Anniversary
	PhoneNumbers  []PhoneNumber
	Lists         []ListEntry

	// NotificationMinutes is the appointment notification lead time in
	// minutes, a multiple of 5 up to 30. Nil disables notification.
	NotificationMinutes *int
}

// Eeprom builds the sectioned upload of the whole scheduling database:
// a clear announcement, a header with section addresses and counts, the
// category-ordered payload split across data packets, and the end
// marker.
type Eeprom struct {
	data EepromData
	lim  Limits
}

// NewEeprom creates an EEPROM aggregate bound to a generation's limits.
func NewEeprom(lim Limits, d EepromData) *Eeprom {
	return &Eeprom{data: d, lim: lim}
}

// Packets validates counts and fields, encodes every entry, and returns
// the framed packet sequence.
func (sf *Eeprom) Packets() ([]Packet, error) {
	if err := sf.checkCapacity(); err != nil {
		return nil, err
	}
	notif, err := notificationCode(sf.data.NotificationMinutes)
	if err != nil {
		return nil, err
	}

	// Category order is fixed: appointments, anniversaries, phone
	// numbers, lists. The header carries each section's absolute start
	// address, so encoding order and address arithmetic must agree.
	sections := make([][]byte, 4)
	if sections[0], err = encodeAppointments(sf.data.Appointments, sf.lim); err != nil {
		return nil, err
	}
	if sections[1], err = encodeAnniversaries(sf.data.Anniversaries, sf.lim); err != nil {
		return nil, err
	}
	if sections[2], err = encodePhoneNumbers(sf.data.PhoneNumbers, sf.lim); err != nil {
		return nil, err
	}
	if sections[3], err = encodeLists(sf.data.Lists, sf.lim); err != nil {
		return nil, err
	}

	var payload []byte
	addrs := make([]uint16, 4)
	addr := uint16(eepromBaseAddress)
	for i, section := range sections {
		addrs[i] = addr
		addr += uint16(len(section))
		payload = append(payload, section...)
	}

	if sf.lim.ChunkSize <= 0 {
		return nil, &ConfigurationError{Field: "chunk size", Reason: "not supported by this protocol"}
	}
	chunks := splitChunks(payload, sf.lim.ChunkSize)
	if len(chunks) > 0xFF {
		return nil, &CapacityError{Category: "eeprom payload", Count: len(chunks), Max: 0xFF}
	}

	header := []byte{opSectHeader, sectEeprom, byte(len(chunks))}
	for _, a := range addrs {
		header = append(header, byte(a), byte(a>>8))
	}
	header = append(header,
		byte(len(sf.data.Appointments)),
		byte(len(sf.data.Anniversaries)),
		byte(len(sf.data.PhoneNumbers)),
		byte(len(sf.data.Lists)),
		notif,
	)

	payloads := make([][]byte, 0, len(chunks)+3)
	payloads = append(payloads, []byte{opSectClear, sectEeprom}, header)
	for i, chunk := range chunks {
		data := make([]byte, 0, 3+len(chunk))
		data = append(data, opSectData, sectEeprom, byte(i+1))
		data = append(data, chunk...)
		payloads = append(payloads, data)
	}
	payloads = append(payloads, []byte{opSectEnd, sectEeprom})
	return framePackets(payloads...)
}

func (sf *Eeprom) checkCapacity() error {
	checks := []struct {
		category string
		count    int
		max      int
	}{
		{"appointments", len(sf.data.Appointments), sf.lim.MaxAppointments},
		{"anniversaries", len(sf.data.Anniversaries), sf.lim.MaxAnniversaries},
		{"phone numbers", len(sf.data.PhoneNumbers), sf.lim.MaxPhoneNumbers},
		{"lists", len(sf.data.Lists), sf.lim.MaxLists},
	}
	for _, c := range checks {
		if c.count > c.max {
			return &CapacityError{Category: c.category, Count: c.count, Max: c.max}
		}
	}
	return nil
}

func notificationCode(minutes *int) (byte, error) {
	if minutes == nil {
		return noNotification, nil
	}
	m := *minutes
	if m < 0 || m > 30 || m%5 != 0 {
		return 0, &ConfigurationError{
			Field:  "notification minutes",
			Reason: fmt.Sprintf("%d, must be a multiple of 5 in [0, 30]", m),
		}
	}
	return byte(m / 5), nil
}

// quarterHour encodes a time of day at 15-minute resolution.
func quarterHour(hour, minute int) byte {
	return byte(hour*4 + minute/15)
}

func checkDate(category string, index, month, day int) error {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return &ConfigurationError{
			Field:  category + " date",
			Reason: fmt.Sprintf("entry %d: month %d day %d out of range", index+1, month, day),
		}
	}
	return nil
}

// eepromItem prefixes the body with its self-inclusive length byte, the
// per-entry format every category shares.
func eepromItem(body []byte) []byte {
	item := make([]byte, 0, len(body)+1)
	item = append(item, byte(len(body)+1))
	return append(item, body...)
}

func encodeAppointments(entries []Appointment, lim Limits) ([]byte, error) {
	var out []byte
	for i, e := range entries {
		if err := checkDate("appointment", i, e.Month, e.Day); err != nil {
			return nil, err
		}
		if e.Hour < 0 || e.Hour > 23 || e.Minute < 0 || e.Minute > 59 {
			return nil, &ConfigurationError{
				Field:  "appointment time",
				Reason: fmt.Sprintf("entry %d: %02d:%02d out of range", i+1, e.Hour, e.Minute),
			}
		}
		body := []byte{byte(e.Month), byte(e.Day), quarterHour(e.Hour, e.Minute)}
		body = append(body, codec.EncodeEepromText(e.Message, lim.EepromTextLength)...)
		out = append(out, eepromItem(body)...)
	}
	return out, nil
}

func encodeAnniversaries(entries []Anniversary, lim Limits) ([]byte, error) {
	var out []byte
	for i, e := range entries {
		if err := checkDate("anniversary", i, e.Month, e.Day); err != nil {
			return nil, err
		}
		body := []byte{byte(e.Month), byte(e.Day)}
		body = append(body, codec.EncodeEepromText(e.Message, lim.EepromTextLength)...)
		out = append(out, eepromItem(body)...)
	}
	return out, nil
}

func encodePhoneNumbers(entries []PhoneNumber, lim Limits) ([]byte, error) {
	var out []byte
	for _, e := range entries {
		typeIdx := codec.PhoneChars.Fallback()
		if e.Type != "" {
			mapped := codec.MapText(e.Type, codec.PhoneChars, codec.MapOptions{MaxLength: 1})
			typeIdx = mapped[0]
		}
		body := codec.EncodePhoneText(e.Number)
		body = append(body, typeIdx)
		body = append(body, codec.EncodeEepromText(e.Name, lim.PhoneNameLength)...)
		out = append(out, eepromItem(body)...)
	}
	return out, nil
}

func encodeLists(entries []ListEntry, lim Limits) ([]byte, error) {
	var out []byte
	for i, e := range entries {
		priority := byte(0)
		if e.Priority != nil {
			p := *e.Priority
			if p < 1 || p > 5 {
				return nil, &ConfigurationError{
					Field:  "list priority",
					Reason: fmt.Sprintf("entry %d: %d out of range [1, 5]", i+1, p),
				}
			}
			priority = byte(p)
		}
		body := []byte{priority}
		body = append(body, codec.EncodeEepromText(e.Entry, lim.EepromTextLength)...)
		out = append(out, eepromItem(body)...)
	}
	return out, nil
}
