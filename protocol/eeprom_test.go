// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openwrist/go-datalink/codec"
)

func intPtr(v int) *int { return &v }

func TestEepromPacketStructure(t *testing.T) {
	lim, _ := limitsFor(t, 3)
	minutes := 15
	packets, err := NewEeprom(lim, EepromData{
		Appointments: []Appointment{
			{Month: 9, Day: 15, Hour: 14, Minute: 30, Message: "dentist"},
		},
		Anniversaries: []Anniversary{
			{Month: 6, Day: 1, Message: "wedding"},
		},
		PhoneNumbers: []PhoneNumber{
			{Name: "marty", Number: "5551234", Type: "h"},
		},
		Lists: []ListEntry{
			{Entry: "buy milk", Priority: intPtr(3)},
		},
		NotificationMinutes: &minutes,
	}).Packets()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(packets), 4)

	// Clear announcement, then header.
	assert.Equal(t, []byte{0x93, 0x01}, checkFramed(t, packets[0]))

	header := checkFramed(t, packets[1])
	require.Len(t, header, 3+8+4+1)
	assert.Equal(t, byte(0x90), header[0])
	assert.Equal(t, byte(0x01), header[1])
	nChunks := int(header[2])
	assert.Equal(t, len(packets)-3, nChunks)

	// First section starts at the database base address.
	assert.Equal(t, byte(0x36), header[3])
	assert.Equal(t, byte(0x02), header[4])

	// Category counts, then the notification code (15 minutes -> 3).
	assert.Equal(t, []byte{1, 1, 1, 1}, header[11:15])
	assert.Equal(t, byte(3), header[15])

	// Data packets are sequence-numbered from 1.
	for i, p := range packets[2 : len(packets)-1] {
		payload := checkFramed(t, p)
		assert.Equal(t, byte(0x91), payload[0])
		assert.Equal(t, byte(0x01), payload[1])
		assert.Equal(t, byte(i+1), payload[2])
	}

	assert.Equal(t, []byte{0x92, 0x01}, checkFramed(t, packets[len(packets)-1]))
}

func TestEepromSectionAddresses(t *testing.T) {
	lim, _ := limitsFor(t, 3)
	packets, err := NewEeprom(lim, EepromData{
		Appointments: []Appointment{
			{Month: 1, Day: 2, Hour: 8, Minute: 0, Message: "one"},
			{Month: 3, Day: 4, Hour: 9, Minute: 15, Message: "two"},
		},
	}).Packets()
	require.NoError(t, err)
	header := checkFramed(t, packets[1])

	// Appointment section length: two items of
	// 1 (length) + 3 (date/time) + packed text bytes each.
	itemLen := func(msg string) int {
		return 4 + len(codec.EncodeEepromText(msg, lim.EepromTextLength))
	}
	apptStart := int(header[3]) | int(header[4])<<8
	annivStart := int(header[5]) | int(header[6])<<8
	phoneStart := int(header[7]) | int(header[8])<<8
	listStart := int(header[9]) | int(header[10])<<8

	assert.Equal(t, 0x0236, apptStart)
	assert.Equal(t, apptStart+itemLen("one")+itemLen("two"), annivStart)
	// Empty categories collapse to zero-length sections.
	assert.Equal(t, annivStart, phoneStart)
	assert.Equal(t, phoneStart, listStart)
}

func TestEepromCapacity(t *testing.T) {
	lim, _ := limitsFor(t, 1)
	entries := make([]Appointment, lim.MaxAppointments+1)
	for i := range entries {
		entries[i] = Appointment{Month: 1, Day: 1, Hour: 12, Message: "x"}
	}
	_, err := NewEeprom(lim, EepromData{Appointments: entries}).Packets()
	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, "appointments", capErr.Category)
	assert.Equal(t, lim.MaxAppointments, capErr.Max)
}

func TestListPriority(t *testing.T) {
	lim, _ := limitsFor(t, 3)

	// Out of range fails at build time.
	_, err := NewEeprom(lim, EepromData{
		Lists: []ListEntry{{Entry: "x", Priority: intPtr(6)}},
	}).Packets()
	var cfg *ConfigurationError
	require.ErrorAs(t, err, &cfg)

	// Nil encodes to 0, a set value round-trips.
	for _, tc := range []struct {
		priority *int
		want     byte
	}{
		{nil, 0},
		{intPtr(3), 3},
		{intPtr(1), 1},
		{intPtr(5), 5},
	} {
		section, err := encodeLists([]ListEntry{{Entry: "x", Priority: tc.priority}}, lim)
		require.NoError(t, err)
		// Item layout: length byte, then priority.
		assert.Equal(t, tc.want, section[1])
	}
}

func TestAppointmentQuarterHour(t *testing.T) {
	section, err := encodeAppointments([]Appointment{
		{Month: 9, Day: 15, Hour: 14, Minute: 30, Message: ""},
	}, Limits{EepromTextLength: 31})
	require.NoError(t, err)
	// Item layout: length, month, day, quantized time.
	assert.Equal(t, byte(9), section[1])
	assert.Equal(t, byte(15), section[2])
	assert.Equal(t, byte(14*4+2), section[3])
}

func TestAppointmentBadDate(t *testing.T) {
	lim, _ := limitsFor(t, 3)
	_, err := NewEeprom(lim, EepromData{
		Appointments: []Appointment{{Month: 13, Day: 1, Hour: 0}},
	}).Packets()
	var cfg *ConfigurationError
	require.ErrorAs(t, err, &cfg)
}

func TestNotificationMinutes(t *testing.T) {
	for _, tc := range []struct {
		minutes *int
		want    byte
		ok      bool
	}{
		{nil, 0xFF, true},
		{intPtr(0), 0, true},
		{intPtr(15), 3, true},
		{intPtr(30), 6, true},
		{intPtr(7), 0, false},
		{intPtr(35), 0, false},
		{intPtr(-5), 0, false},
	} {
		code, err := notificationCode(tc.minutes)
		if tc.ok {
			require.NoError(t, err)
			assert.Equal(t, tc.want, code)
		} else {
			assert.Error(t, err)
		}
	}
}

func TestPhoneEntryLayout(t *testing.T) {
	lim, _ := limitsFor(t, 3)
	section, err := encodePhoneNumbers([]PhoneNumber{
		{Name: "marty", Number: "5551234", Type: "w"},
	}, lim)
	require.NoError(t, err)

	// length, 6 packed number bytes, type glyph, packed name.
	require.Equal(t, int(section[0]), len(section))
	number := section[1:7]
	assert.Equal(t, codec.EncodePhoneText("5551234"), number)
	wIdx := codec.MapText("w", codec.PhoneChars, codec.MapOptions{})[0]
	assert.Equal(t, wIdx, section[7])
}
