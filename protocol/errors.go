// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package protocol

import "fmt"

// ConfigurationError reports a field value the selected protocol cannot
// encode: an out-of-range alarm slot, an unsupported date format, a bad
// list priority. It is raised at build time, before any transport I/O.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CapacityError reports an EEPROM category holding more entries than
// the protocol allows, or a payload that cannot fit the packet size.
type CapacityError struct {
	Category string
	Count    int
	Max      int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s capacity exceeded: %d entries, protocol allows %d", e.Category, e.Count, e.Max)
}

// UnknownProtocolError reports a version with no registered descriptor.
type UnknownProtocolError struct {
	Version int
}

func (e *UnknownProtocolError) Error() string {
	return fmt.Sprintf("unknown protocol version %d", e.Version)
}

// DuplicateProtocolError reports a second registration of a version.
type DuplicateProtocolError struct {
	Version int
}

func (e *DuplicateProtocolError) Error() string {
	return fmt.Sprintf("protocol version %d already registered", e.Version)
}

// NoCompatibleProtocolError reports a device fingerprint that matched
// no registered descriptor.
type NoCompatibleProtocolError struct {
	Model string
}

func (e *NoCompatibleProtocolError) Error() string {
	if e.Model == "" {
		return "no compatible protocol for device"
	}
	return fmt.Sprintf("no compatible protocol for device %q", e.Model)
}
