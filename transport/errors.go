// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package transport

import (
	"errors"
	"fmt"
)

// ErrAlreadyOpen is returned by Connect on a session that is already
// connected.
var ErrAlreadyOpen = errors.New("session already connected")

// ErrNotConnected is returned by operations on a session with no open
// channel.
var ErrNotConnected = errors.New("session not connected")

// ConnectCause classifies why opening the channel failed.
type ConnectCause int

const (
	// CauseOpenFailed is the generic open failure.
	CauseOpenFailed ConnectCause = iota
	// CauseBusy means the port exists but is held by another process.
	CauseBusy
	// CauseNotFound means the port does not exist.
	CauseNotFound
)

func (c ConnectCause) String() string {
	switch c {
	case CauseBusy:
		return "port busy"
	case CauseNotFound:
		return "port not found"
	default:
		return "open failed"
	}
}

// ConnectionError reports a failed channel open, sub-typed by cause.
type ConnectionError struct {
	Cause ConnectCause
	Port  string
	Err   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %s: %v", e.Port, e.Cause, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TransportError reports an I/O fault in the middle of a write or read.
// Disconnected marks faults that left the session without a usable
// channel; the retry wrappers reconnect on those.
type TransportError struct {
	Op           string
	Err          error
	Disconnected bool
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsDisconnection reports whether err is a fault that disconnected the
// session.
func IsDisconnection(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Disconnected
}

// RetryExhaustedError is returned when a retry wrapper runs out of
// attempts; it carries the last underlying fault.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }
