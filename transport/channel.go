// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package transport implements the serial reliability layer: one
// Session owning one byte channel, with the pacing, retry and reconnect
// behavior the unbuffered device receive path requires. The physical
// medium is abstracted behind Channel; serialport provides the
// production implementation.
package transport

import (
	"errors"
	"time"
)

// ChannelConfig holds the physical channel parameters. It mirrors a
// classic serial port setup but is agnostic to the medium.
type ChannelConfig struct {
	// Address is the channel address, e.g. "COM3" or "/dev/ttyUSB0".
	Address string
	// BaudRate is the line speed. The Datalink dongles run at 9600.
	BaudRate int
	// DataBits is the number of data bits, usually 8.
	DataBits int
	// StopBits is 1 or 2.
	StopBits int
	// Parity selects none (0), odd (1) or even (2).
	Parity int
	// ReadTimeout bounds a single low-level read; a timed-out read
	// returns zero bytes, not an error.
	ReadTimeout time.Duration
}

// Channel is the abstract byte stream the session drives. A concrete
// implementation (a serial port, a pty, an in-memory fake) supplies
// open/close/write/read; the session supplies everything else.
type Channel interface {
	Open(cfg ChannelConfig) error
	Close() error
	// Write pushes bytes to the device. Short writes are faults.
	Write(p []byte) (int, error)
	// Read fills p with available bytes, returning 0 on a timeout.
	Read(p []byte) (int, error)
}

// Options configures a Session. The zero value is not valid; call Valid
// to apply defaults and range-check, following the same pattern as the
// channel config.
type Options struct {
	Channel ChannelConfig

	// ByteSleep is the delay after each transmitted byte. The watch
	// samples the line optically and cannot absorb unthrottled bursts.
	ByteSleep time.Duration
	// PacketSleep is the delay between (not after) packets.
	PacketSleep time.Duration
	// ReadTimeout is the default accumulation window for Read.
	ReadTimeout time.Duration
	// MaxRetries bounds the retry wrappers.
	MaxRetries int
	// ReconnectAttempts and ReconnectBackoff shape Reconnect's linear
	// backoff.
	ReconnectAttempts int
	ReconnectBackoff  time.Duration
	// Verbose enables per-packet TX/RX logging.
	Verbose bool
}

// Documented defaults, tuned for the original 9600 baud dongle.
const (
	DefaultByteSleep         = 25 * time.Millisecond
	DefaultPacketSleep       = 250 * time.Millisecond
	DefaultReadTimeout       = 2 * time.Second
	DefaultMaxRetries        = 3
	DefaultReconnectAttempts = 3
	DefaultReconnectBackoff  = 500 * time.Millisecond
)

// Valid applies defaults and checks the options. Delays must be
// non-negative; zero disables the corresponding pacing.
func (sf *Options) Valid() error {
	if sf == nil {
		return errors.New("invalid nil options")
	}
	if sf.ByteSleep < 0 {
		return errors.New("byte sleep must be non-negative")
	}
	if sf.PacketSleep < 0 {
		return errors.New("packet sleep must be non-negative")
	}
	if sf.ReadTimeout < 0 {
		return errors.New("read timeout must be non-negative")
	}
	if sf.ReadTimeout == 0 {
		sf.ReadTimeout = DefaultReadTimeout
	}
	if sf.MaxRetries < 0 {
		return errors.New("max retries must be non-negative")
	}
	if sf.MaxRetries == 0 {
		sf.MaxRetries = DefaultMaxRetries
	}
	if sf.ReconnectAttempts <= 0 {
		sf.ReconnectAttempts = DefaultReconnectAttempts
	}
	if sf.ReconnectBackoff < 0 {
		return errors.New("reconnect backoff must be non-negative")
	}
	if sf.ReconnectBackoff == 0 {
		sf.ReconnectBackoff = DefaultReconnectBackoff
	}
	if sf.Channel.ReadTimeout <= 0 {
		sf.Channel.ReadTimeout = 100 * time.Millisecond
	}
	return nil
}

// DefaultOptions returns options with the documented defaults and the
// given channel address.
func DefaultOptions(address string) Options {
	return Options{
		Channel: ChannelConfig{
			Address:  address,
			BaudRate: 9600,
			DataBits: 8,
			StopBits: 1,
		},
		ByteSleep:         DefaultByteSleep,
		PacketSleep:       DefaultPacketSleep,
		ReadTimeout:       DefaultReadTimeout,
		MaxRetries:        DefaultMaxRetries,
		ReconnectAttempts: DefaultReconnectAttempts,
		ReconnectBackoff:  DefaultReconnectBackoff,
	}
}
