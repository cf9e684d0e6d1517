// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package protocol

// SyncData is the application payload of one sync session. Nil and
// empty fields are skipped; present fields must be supported by the
// selected protocol.
type SyncData struct {
	// SyncLength overrides the preamble train length; zero keeps the
	// default.
	SyncLength int

	Times        []TimeSettings
	Alarms       []AlarmSettings
	SoundOptions *SoundSettings
	// SoundTheme and WristApp are opaque pre-built blobs.
	SoundTheme []byte
	WristApp   []byte
	Eeprom     *EepromData
}

// CreateSyncWorkflow assembles the ordered component list of one sync
// session for a registered version: Sync, Start, the data components in
// protocol order, End. Unsupported data fails with ConfigurationError
// before any component builds a packet.
func (sf *Registry) CreateSyncWorkflow(version int, data SyncData) ([]Component, error) {
	d, err := sf.Descriptor(version)
	if err != nil {
		return nil, err
	}
	caps := d.Capabilities
	lim := d.Limits

	components := []Component{
		NewSync(data.SyncLength),
		NewStart(d.Version),
	}

	if len(data.Times) > 0 {
		if !caps.Time {
			return nil, &ConfigurationError{Field: "time", Reason: unsupportedBy(d)}
		}
		for _, s := range data.Times {
			components = append(components, NewTime(lim, s))
		}
	}
	if len(data.Alarms) > 0 {
		if !caps.Alarms {
			return nil, &ConfigurationError{Field: "alarms", Reason: unsupportedBy(d)}
		}
		for _, s := range data.Alarms {
			components = append(components, NewAlarm(lim, caps.MaxAlarms, s))
		}
	}
	if data.SoundOptions != nil {
		if !caps.SoundOptions {
			return nil, &ConfigurationError{Field: "sound options", Reason: unsupportedBy(d)}
		}
		components = append(components, NewSoundOptions(*data.SoundOptions))
	}
	if len(data.SoundTheme) > 0 {
		if !caps.SoundTheme {
			return nil, &ConfigurationError{Field: "sound theme", Reason: unsupportedBy(d)}
		}
		components = append(components, NewSoundTheme(lim, data.SoundTheme))
	}
	if len(data.WristApp) > 0 {
		if !caps.WristApps {
			return nil, &ConfigurationError{Field: "wrist application", Reason: unsupportedBy(d)}
		}
		components = append(components, NewWristApp(lim, data.WristApp))
	}
	if data.Eeprom != nil {
		if !caps.Eeprom {
			return nil, &ConfigurationError{Field: "eeprom data", Reason: unsupportedBy(d)}
		}
		components = append(components, NewEeprom(lim, *data.Eeprom))
	}

	components = append(components, NewEnd())
	return components, nil
}

// BuildPackets builds and concatenates the packets of a component list,
// validating every component before the first byte reaches a transport.
func BuildPackets(components []Component) ([]Packet, error) {
	var out []Packet
	for _, c := range components {
		packets, err := c.Packets()
		if err != nil {
			return nil, err
		}
		out = append(out, packets...)
	}
	return out, nil
}

func unsupportedBy(d *Descriptor) string {
	return "not supported by " + d.Name
}
