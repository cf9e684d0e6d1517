// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package transport

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/openwrist/go-datalink/clog"
)

// Session states
const (
	statusInitial uint32 = iota
	statusConnected
	statusDisconnected
)

// Session owns exactly one channel's state. It is not safe for
// concurrent use: callers serialize all operations per session, the
// same way a sync workflow is inherently sequential. Operations suspend
// only at I/O waits and pacing delays, all timer-driven.
type Session struct {
	opt     Options
	channel Channel
	status  uint32

	clog.Clog
}

// NewSession creates a session over a channel. Options are validated
// and defaulted; invalid options are replaced with DefaultOptions for
// the configured address, mirroring how the config layer degrades.
func NewSession(channel Channel, opt Options) *Session {
	sf := &Session{channel: channel}
	if err := opt.Valid(); err != nil {
		sf.opt = DefaultOptions(opt.Channel.Address)
	} else {
		sf.opt = opt
	}
	sf.Clog = clog.NewLogger(fmt.Sprintf("datalink [%s] => ", sf.opt.Channel.Address))
	sf.Clog.LogMode(sf.opt.Verbose)
	return sf
}

// Options returns the validated options in effect.
func (sf *Session) Options() Options { return sf.opt }

// IsConnected reports whether the session holds an open channel.
func (sf *Session) IsConnected() bool {
	return atomic.LoadUint32(&sf.status) == statusConnected
}

// Connect opens the channel once per session. A second Connect on an
// open session fails with ErrAlreadyOpen. Open failures come back as
// ConnectionError, classified by cause where the channel can tell.
func (sf *Session) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sf.IsConnected() {
		return ErrAlreadyOpen
	}

	sf.Debug("opening channel %s", sf.opt.Channel.Address)
	if err := sf.channel.Open(sf.opt.Channel); err != nil {
		var connErr *ConnectionError
		if !errors.As(err, &connErr) {
			err = &ConnectionError{Cause: CauseOpenFailed, Port: sf.opt.Channel.Address, Err: err}
		}
		sf.Error("open failed: %v", err)
		atomic.StoreUint32(&sf.status, statusDisconnected)
		return err
	}
	atomic.StoreUint32(&sf.status, statusConnected)
	sf.Debug("channel open")
	return nil
}

// Disconnect closes the channel. Closing an already-closed session is
// a no-op.
func (sf *Session) Disconnect() error {
	if !sf.IsConnected() {
		atomic.StoreUint32(&sf.status, statusDisconnected)
		return nil
	}
	atomic.StoreUint32(&sf.status, statusDisconnected)
	sf.Debug("closing channel")
	return sf.channel.Close()
}

// Write transmits the packets in call order, each fully completed
// before the next starts. Every byte goes out individually with the
// configured inter-byte delay; the inter-packet delay runs between
// packets, never after the last one. A channel fault mid-sequence marks
// the session disconnected and fails with TransportError.
func (sf *Session) Write(ctx context.Context, packets [][]byte) error {
	if !sf.IsConnected() {
		return ErrNotConnected
	}
	for i, packet := range packets {
		if i > 0 && sf.opt.PacketSleep > 0 {
			if err := sf.pause(ctx, sf.opt.PacketSleep); err != nil {
				return err
			}
		}
		sf.Debug("TX packet %d/%d [% X]", i+1, len(packets), packet)
		if err := sf.writePacket(ctx, packet); err != nil {
			return err
		}
	}
	return nil
}

func (sf *Session) writePacket(ctx context.Context, packet []byte) error {
	buf := make([]byte, 1)
	for _, b := range packet {
		buf[0] = b
		n, err := sf.channel.Write(buf)
		if err == nil && n != 1 {
			err = errors.New("short write")
		}
		if err != nil {
			atomic.StoreUint32(&sf.status, statusDisconnected)
			return &TransportError{Op: "write", Err: err, Disconnected: true}
		}
		if sf.opt.ByteSleep > 0 {
			if err := sf.pause(ctx, sf.opt.ByteSleep); err != nil {
				return err
			}
		}
	}
	return nil
}

// Read accumulates available bytes until the timeout elapses. A timeout
// yields whatever arrived, possibly nothing; most packets are
// unacknowledged, so an empty read is not an error.
func (sf *Session) Read(ctx context.Context, timeout time.Duration) ([]byte, error) {
	return sf.read(ctx, 0, timeout)
}

// ReadExactly accumulates bytes until n have arrived or the timeout
// elapses, returning a possibly-short buffer on timeout.
func (sf *Session) ReadExactly(ctx context.Context, n int, timeout time.Duration) ([]byte, error) {
	return sf.read(ctx, n, timeout)
}

func (sf *Session) read(ctx context.Context, want int, timeout time.Duration) ([]byte, error) {
	if !sf.IsConnected() {
		return nil, ErrNotConnected
	}
	if timeout <= 0 {
		timeout = sf.opt.ReadTimeout
	}
	deadline := time.Now().Add(timeout)

	var out []byte
	buf := make([]byte, 256)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		n, err := sf.channel.Read(buf)
		if err != nil {
			atomic.StoreUint32(&sf.status, statusDisconnected)
			return out, &TransportError{Op: "read", Err: err, Disconnected: true}
		}
		if n > 0 {
			out = append(out, buf[:n]...)
			if want > 0 && len(out) >= want {
				sf.Debug("RX %d bytes [% X]", len(out), out)
				return out[:want], nil
			}
		}
	}
	sf.Debug("RX %d bytes on timeout [% X]", len(out), out)
	return out, nil
}

// Reconnect tears the channel down and reopens it with linear backoff:
// the wait before attempt k is k times the base. Zero arguments fall
// back to the configured defaults.
func (sf *Session) Reconnect(ctx context.Context, maxAttempts int, backoffBase time.Duration) error {
	if maxAttempts <= 0 {
		maxAttempts = sf.opt.ReconnectAttempts
	}
	if backoffBase <= 0 {
		backoffBase = sf.opt.ReconnectBackoff
	}
	_ = sf.Disconnect()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if lastErr = sf.Connect(ctx); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
		if attempt < maxAttempts {
			sf.Warn("reconnect attempt %d/%d failed: %v", attempt, maxAttempts, lastErr)
			if err := sf.pause(ctx, time.Duration(attempt)*backoffBase); err != nil {
				return err
			}
		}
	}
	sf.Error("reconnect failed after %d attempts: %v", maxAttempts, lastErr)
	return lastErr
}

// WriteWithRetry writes the packets, absorbing disconnection faults: on
// each one it runs one reconnect cycle and restarts the whole write
// call, up to maxRetries attempts. Retrying restarts the full batch, so
// callers needing exactly-once delivery send one packet per call. On
// exhaustion it fails with RetryExhaustedError carrying the last fault.
func (sf *Session) WriteWithRetry(ctx context.Context, packets [][]byte, maxRetries int) error {
	if maxRetries <= 0 {
		maxRetries = sf.opt.MaxRetries
	}
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := sf.Write(ctx, packets)
		if err == nil {
			return nil
		}
		lastErr = err
		if !sf.retryable(err) {
			return err
		}
		sf.Warn("write attempt %d/%d failed: %v", attempt, maxRetries, err)
		if attempt < maxRetries {
			_ = sf.Reconnect(ctx, 1, 0)
		}
	}
	return &RetryExhaustedError{Attempts: maxRetries, Last: lastErr}
}

// ReadWithRetry reads with the same disconnection-absorbing policy as
// WriteWithRetry.
func (sf *Session) ReadWithRetry(ctx context.Context, n int, maxRetries int) ([]byte, error) {
	if maxRetries <= 0 {
		maxRetries = sf.opt.MaxRetries
	}
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		out, err := sf.ReadExactly(ctx, n, sf.opt.ReadTimeout)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !sf.retryable(err) {
			return out, err
		}
		sf.Warn("read attempt %d/%d failed: %v", attempt, maxRetries, err)
		if attempt < maxRetries {
			_ = sf.Reconnect(ctx, 1, 0)
		}
	}
	return nil, &RetryExhaustedError{Attempts: maxRetries, Last: lastErr}
}

// retryable reports whether the fault is one the retry wrappers absorb:
// a disconnection-classified transport fault, or the dropped-channel
// state it leaves behind.
func (sf *Session) retryable(err error) bool {
	return IsDisconnection(err) || errors.Is(err, ErrNotConnected)
}

// SyncResult carries the independent outcomes of one Sync call.
type SyncResult struct {
	WriteOK  bool
	ReadOK   bool
	Data     []byte
	WriteErr error
	ReadErr  error
}

// Sync composes a guarded write and an optional read under one retry
// policy. The two outcomes are independent: a failed write does not
// suppress the read attempt, since some firmware replies to partial
// uploads.
func (sf *Session) Sync(ctx context.Context, packets [][]byte, expectedReadBytes int) SyncResult {
	var result SyncResult
	result.WriteErr = sf.WriteWithRetry(ctx, packets, sf.opt.MaxRetries)
	result.WriteOK = result.WriteErr == nil

	if expectedReadBytes > 0 {
		result.Data, result.ReadErr = sf.ReadWithRetry(ctx, expectedReadBytes, sf.opt.MaxRetries)
		result.ReadOK = result.ReadErr == nil
	} else {
		result.ReadOK = true
	}
	return result
}

// pause is a timer-driven, context-aware sleep.
func (sf *Session) pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
