// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChannel plays the device end of the link: it records every byte
// write, serves a scripted read buffer, and injects faults on demand.
type fakeChannel struct {
	open       bool
	openCalls  int
	closeCalls int
	openErr    error

	writes     [][]byte
	writeFails int // inject this many consecutive write faults
	writeErr   error

	readData []byte
	readErr  error
}

func (f *fakeChannel) Open(cfg ChannelConfig) error {
	f.openCalls++
	if f.openErr != nil {
		return f.openErr
	}
	f.open = true
	return nil
}

func (f *fakeChannel) Close() error {
	f.closeCalls++
	f.open = false
	return nil
}

func (f *fakeChannel) Write(p []byte) (int, error) {
	if f.writeFails > 0 {
		f.writeFails--
		if f.writeErr != nil {
			return 0, f.writeErr
		}
		return 0, errors.New("device unplugged")
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	f.writes = append(f.writes, buf)
	return len(p), nil
}

func (f *fakeChannel) Read(p []byte) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	if len(f.readData) == 0 {
		// Emulate the blocking low-level read timeout.
		time.Sleep(time.Millisecond)
		return 0, nil
	}
	n := copy(p, f.readData)
	f.readData = f.readData[n:]
	return n, nil
}

func newTestSession(t *testing.T, ch Channel) *Session {
	t.Helper()
	opt := DefaultOptions("fake0")
	opt.ByteSleep = 0
	opt.PacketSleep = 0
	opt.ReadTimeout = 50 * time.Millisecond
	opt.ReconnectBackoff = time.Millisecond
	return NewSession(ch, opt)
}

func TestConnectAlreadyOpen(t *testing.T) {
	ch := &fakeChannel{}
	s := newTestSession(t, ch)
	require.NoError(t, s.Connect(context.Background()))
	assert.ErrorIs(t, s.Connect(context.Background()), ErrAlreadyOpen)
	assert.Equal(t, 1, ch.openCalls)
}

func TestConnectClassifiesFailure(t *testing.T) {
	ch := &fakeChannel{openErr: errors.New("resource temporarily unavailable")}
	s := newTestSession(t, ch)
	err := s.Connect(context.Background())
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, CauseOpenFailed, connErr.Cause)
	assert.False(t, s.IsConnected())

	// A channel that classifies its own failures passes through.
	ch = &fakeChannel{openErr: &ConnectionError{Cause: CauseBusy, Port: "fake0", Err: errors.New("held")}}
	s = newTestSession(t, ch)
	err = s.Connect(context.Background())
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, CauseBusy, connErr.Cause)
}

func TestWriteByteByByte(t *testing.T) {
	ch := &fakeChannel{}
	s := newTestSession(t, ch)
	require.NoError(t, s.Connect(context.Background()))

	packets := [][]byte{{0x01}, {0x02}, {0x03}}
	require.NoError(t, s.Write(context.Background(), packets))

	// Three single-byte packets with zero pacing: exactly three
	// one-byte channel writes.
	require.Len(t, ch.writes, 3)
	for i, w := range ch.writes {
		assert.Equal(t, []byte{byte(i + 1)}, w)
	}
}

func TestWriteSplitsPacketBytes(t *testing.T) {
	ch := &fakeChannel{}
	s := newTestSession(t, ch)
	require.NoError(t, s.Connect(context.Background()))

	require.NoError(t, s.Write(context.Background(), [][]byte{{0xAA, 0xBB, 0xCC}}))
	require.Len(t, ch.writes, 3)
}

func TestWriteNoTrailingPacketDelay(t *testing.T) {
	ch := &fakeChannel{}
	opt := DefaultOptions("fake0")
	opt.ByteSleep = 0
	opt.PacketSleep = 300 * time.Millisecond
	s := NewSession(ch, opt)
	require.NoError(t, s.Connect(context.Background()))

	// One packet: the inter-packet delay runs between packets only, so
	// nothing here should sleep.
	start := time.Now()
	require.NoError(t, s.Write(context.Background(), [][]byte{{0x01, 0x02}}))
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestWriteFaultDisconnects(t *testing.T) {
	ch := &fakeChannel{writeFails: 1}
	s := newTestSession(t, ch)
	require.NoError(t, s.Connect(context.Background()))

	err := s.Write(context.Background(), [][]byte{{0x01, 0x02}})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, te.Disconnected)
	assert.False(t, s.IsConnected())
}

func TestWriteNotConnected(t *testing.T) {
	s := newTestSession(t, &fakeChannel{})
	assert.ErrorIs(t, s.Write(context.Background(), [][]byte{{0x01}}), ErrNotConnected)
}

func TestReadTimeoutShortBuffer(t *testing.T) {
	ch := &fakeChannel{readData: []byte{0xAA, 0xBB}}
	s := newTestSession(t, ch)
	require.NoError(t, s.Connect(context.Background()))

	// Fewer bytes than requested: timeout yields the short buffer, not
	// an error.
	out, err := s.ReadExactly(context.Background(), 5, 30*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB}, out)
}

func TestReadExactlyStopsEarly(t *testing.T) {
	ch := &fakeChannel{readData: []byte{1, 2, 3, 4, 5, 6}}
	s := newTestSession(t, ch)
	require.NoError(t, s.Connect(context.Background()))

	out, err := s.ReadExactly(context.Background(), 4, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, out)
}

func TestReadFaultDisconnects(t *testing.T) {
	ch := &fakeChannel{readErr: errors.New("device unplugged")}
	s := newTestSession(t, ch)
	require.NoError(t, s.Connect(context.Background()))

	_, err := s.Read(context.Background(), 30*time.Millisecond)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.False(t, s.IsConnected())
}

func TestWriteWithRetryReconnectsOnce(t *testing.T) {
	ch := &fakeChannel{writeFails: 1}
	s := newTestSession(t, ch)
	require.NoError(t, s.Connect(context.Background()))

	err := s.WriteWithRetry(context.Background(), [][]byte{{0x01}}, 3)
	require.NoError(t, err)
	// Initial connect plus exactly one reconnect cycle.
	assert.Equal(t, 2, ch.openCalls)
	assert.Equal(t, [][]byte{{0x01}}, ch.writes)
}

func TestWriteWithRetryExhausted(t *testing.T) {
	ch := &fakeChannel{writeFails: 1 << 20}
	s := newTestSession(t, ch)
	require.NoError(t, s.Connect(context.Background()))

	err := s.WriteWithRetry(context.Background(), [][]byte{{0x01}}, 3)
	var exhausted *RetryExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)

	var te *TransportError
	assert.ErrorAs(t, exhausted.Last, &te)
}

func TestReconnectLinearBackoff(t *testing.T) {
	ch := &fakeChannel{openErr: errors.New("no such device")}
	s := newTestSession(t, ch)

	err := s.Reconnect(context.Background(), 3, time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, 3, ch.openCalls)
}

func TestSyncWriteOnly(t *testing.T) {
	ch := &fakeChannel{}
	s := newTestSession(t, ch)
	require.NoError(t, s.Connect(context.Background()))

	result := s.Sync(context.Background(), [][]byte{{0x01, 0x02}}, 0)
	assert.True(t, result.WriteOK)
	assert.True(t, result.ReadOK)
	assert.NoError(t, result.WriteErr)
}

func TestSyncWithRead(t *testing.T) {
	ch := &fakeChannel{readData: []byte{0x55, 0xAA}}
	s := newTestSession(t, ch)
	require.NoError(t, s.Connect(context.Background()))

	result := s.Sync(context.Background(), [][]byte{{0x01}}, 2)
	assert.True(t, result.WriteOK)
	assert.True(t, result.ReadOK)
	assert.Equal(t, []byte{0x55, 0xAA}, result.Data)
}

func TestOptionsValidation(t *testing.T) {
	opt := Options{ByteSleep: -1}
	assert.Error(t, opt.Valid())

	opt = Options{}
	require.NoError(t, opt.Valid())
	assert.Equal(t, DefaultReadTimeout, opt.ReadTimeout)
	assert.Equal(t, DefaultMaxRetries, opt.MaxRetries)
	assert.Equal(t, DefaultReconnectAttempts, opt.ReconnectAttempts)
}
