// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package serialport adapts a physical serial port to the transport
// Channel contract using go.bug.st/serial.
package serialport

import (
	"errors"

	"go.bug.st/serial"

	"github.com/openwrist/go-datalink/transport"
)

// Port is a transport.Channel over a physical serial port.
type Port struct {
	port serial.Port
}

// New creates an unopened port channel.
func New() *Port { return &Port{} }

// Open opens and configures the port, classifying failures into typed
// connection errors.
func (sf *Port) Open(cfg transport.ChannelConfig) error {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: mapStopBits(cfg.StopBits),
		Parity:   mapParity(cfg.Parity),
	}
	port, err := serial.Open(cfg.Address, mode)
	if err != nil {
		return &transport.ConnectionError{
			Cause: classify(err),
			Port:  cfg.Address,
			Err:   err,
		}
	}
	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
			_ = port.Close()
			return &transport.ConnectionError{
				Cause: transport.CauseOpenFailed,
				Port:  cfg.Address,
				Err:   err,
			}
		}
	}
	sf.port = port
	return nil
}

// Close closes the port.
func (sf *Port) Close() error {
	if sf.port == nil {
		return nil
	}
	err := sf.port.Close()
	sf.port = nil
	return err
}

// Write pushes bytes to the port.
func (sf *Port) Write(p []byte) (int, error) {
	if sf.port == nil {
		return 0, transport.ErrNotConnected
	}
	return sf.port.Write(p)
}

// Read pulls available bytes from the port; go.bug.st/serial returns
// zero bytes on a read timeout, matching the Channel contract.
func (sf *Port) Read(p []byte) (int, error) {
	if sf.port == nil {
		return 0, transport.ErrNotConnected
	}
	return sf.port.Read(p)
}

func classify(err error) transport.ConnectCause {
	var portErr *serial.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case serial.PortBusy:
			return transport.CauseBusy
		case serial.PortNotFound:
			return transport.CauseNotFound
		}
	}
	return transport.CauseOpenFailed
}

// mapStopBits maps a stop bit count to serial.StopBits. Invalid values
// fall back to one stop bit.
func mapStopBits(s int) serial.StopBits {
	if s == 2 {
		return serial.TwoStopBits
	}
	return serial.OneStopBit
}

// mapParity maps 0/1/2 to none/odd/even. Invalid values fall back to
// no parity.
func mapParity(p int) serial.Parity {
	switch p {
	case 1:
		return serial.OddParity
	case 2:
		return serial.EvenParity
	default:
		return serial.NoParity
	}
}
