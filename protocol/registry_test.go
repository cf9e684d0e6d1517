// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package protocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, RegisterBuiltin(r))
	return r
}

func TestRegisterDuplicate(t *testing.T) {
	r := newTestRegistry(t)
	err := r.Register(Descriptor{Version: 3, Name: "again"})
	var dup *DuplicateProtocolError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 3, dup.Version)
}

func TestCreateForVersion(t *testing.T) {
	r := newTestRegistry(t)

	p, err := r.CreateForVersion(3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Version())
	assert.True(t, p.Capabilities().WristApps)

	_, err = r.CreateForVersion(2)
	var unknown *UnknownProtocolError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 2, unknown.Version)
}

func TestMatchDeviceExplicitVersion(t *testing.T) {
	r := newTestRegistry(t)

	// The model string also matches protocol 3, but the explicit
	// version must rank first at full confidence.
	matches := r.MatchDevice(Fingerprint{Version: 3, Model: "Timex Datalink 150"})
	require.NotEmpty(t, matches)
	assert.Equal(t, 3, matches[0].Descriptor.Version)
	assert.Equal(t, 100, matches[0].Confidence)

	matches = r.MatchDevice(Fingerprint{Version: 9})
	require.Len(t, matches, 1)
	assert.Equal(t, 9, matches[0].Descriptor.Version)
	assert.Equal(t, 100, matches[0].Confidence)
}

func TestMatchDeviceModelString(t *testing.T) {
	r := newTestRegistry(t)

	matches := r.MatchDevice(Fingerprint{Model: "timex datalink 150"})
	require.NotEmpty(t, matches)
	assert.Equal(t, 3, matches[0].Descriptor.Version)
	assert.NotEmpty(t, matches[0].Reasons)

	// The 150s pattern is more specific than the plain 150 pattern.
	matches = r.MatchDevice(Fingerprint{Model: "Timex Datalink 150s"})
	require.NotEmpty(t, matches)
	assert.Equal(t, 4, matches[0].Descriptor.Version)
}

func TestMatchDeviceCaseInsensitive(t *testing.T) {
	r := newTestRegistry(t)
	upper := r.MatchDevice(Fingerprint{Model: "BEEPWEAR PRO"})
	lower := r.MatchDevice(Fingerprint{Model: "beepwear pro"})
	require.NotEmpty(t, upper)
	require.NotEmpty(t, lower)
	assert.Equal(t, upper[0].Descriptor.Version, lower[0].Descriptor.Version)
	assert.Equal(t, 6, upper[0].Descriptor.Version)
}

func TestMatchDeviceUnknown(t *testing.T) {
	r := newTestRegistry(t)
	assert.Empty(t, r.MatchDevice(Fingerprint{Model: "Casio F-91W"}))
	assert.Empty(t, r.MatchDevice(Fingerprint{}))

	_, err := r.CreateFromDevice(Fingerprint{Model: "Casio F-91W"})
	var nocompat *NoCompatibleProtocolError
	require.ErrorAs(t, err, &nocompat)
}

func TestCreateFromDevice(t *testing.T) {
	r := newTestRegistry(t)
	p, err := r.CreateFromDevice(Fingerprint{Model: "DSI e-BRAIN"})
	require.NoError(t, err)
	assert.Equal(t, 7, p.Version())
	assert.False(t, p.Capabilities().Time)
	assert.True(t, p.Capabilities().Eeprom)
}

func TestStatistics(t *testing.T) {
	r := newTestRegistry(t)
	stats := r.Statistics()
	assert.Equal(t, 6, stats.Protocols)
	require.Len(t, stats.Summaries, 6)
	assert.Equal(t, 1, stats.Summaries[0].Version)

	// DeviceCount is distinct device strings, case-folded, so two
	// descriptors sharing a model string count it once.
	distinct := make(map[string]struct{})
	for _, s := range stats.Summaries {
		for _, d := range s.Devices {
			distinct[strings.ToLower(d)] = struct{}{}
		}
	}
	assert.Equal(t, len(distinct), stats.DeviceCount)

	shared := NewRegistry()
	require.NoError(t, shared.Register(Descriptor{Version: 1, Name: "A", Devices: []string{"Shared Model", "Only A"}}))
	require.NoError(t, shared.Register(Descriptor{Version: 2, Name: "B", Devices: []string{"shared model"}}))
	assert.Equal(t, 2, shared.Statistics().DeviceCount)
}

func TestVersionsOrder(t *testing.T) {
	r := newTestRegistry(t)
	assert.Equal(t, []int{1, 3, 4, 6, 7, 9}, r.Versions())
}
