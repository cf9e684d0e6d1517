// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package clog provides a small leveled logging facade. Types that need
// diagnostics embed Clog and gain Debug/Warn/Error/Critical methods that
// can be switched on and off at runtime.
package clog

import (
	"log"
	"os"
)

// LogProvider is the interface a custom logging backend must implement.
type LogProvider interface {
	Critical(format string, v ...interface{})
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// Clog wraps a LogProvider with an enable switch.
type Clog struct {
	provider LogProvider
	enabled  bool
}

// NewLogger creates a Clog backed by the standard library logger with the
// given prefix. Logging is disabled until LogMode(true) is called.
func NewLogger(prefix string) Clog {
	return Clog{
		provider: &defaultProvider{logger: log.New(os.Stderr, prefix, log.LstdFlags)},
	}
}

// LogMode enables or disables log output.
func (sf *Clog) LogMode(enable bool) {
	sf.enabled = enable
}

// SetLogProvider replaces the logging backend.
func (sf *Clog) SetLogProvider(p LogProvider) {
	if p != nil {
		sf.provider = p
	}
}

// Critical logs a critical message.
func (sf Clog) Critical(format string, v ...interface{}) {
	if sf.enabled && sf.provider != nil {
		sf.provider.Critical(format, v...)
	}
}

// Error logs an error message.
func (sf Clog) Error(format string, v ...interface{}) {
	if sf.enabled && sf.provider != nil {
		sf.provider.Error(format, v...)
	}
}

// Warn logs a warning message.
func (sf Clog) Warn(format string, v ...interface{}) {
	if sf.enabled && sf.provider != nil {
		sf.provider.Warn(format, v...)
	}
}

// Debug logs a debug message.
func (sf Clog) Debug(format string, v ...interface{}) {
	if sf.enabled && sf.provider != nil {
		sf.provider.Debug(format, v...)
	}
}

type defaultProvider struct {
	logger *log.Logger
}

func (p *defaultProvider) Critical(format string, v ...interface{}) {
	p.logger.Printf("[C] "+format, v...)
}

func (p *defaultProvider) Error(format string, v ...interface{}) {
	p.logger.Printf("[E] "+format, v...)
}

func (p *defaultProvider) Warn(format string, v ...interface{}) {
	p.logger.Printf("[W] "+format, v...)
}

func (p *defaultProvider) Debug(format string, v ...interface{}) {
	p.logger.Printf("[D] "+format, v...)
}
