// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/openwrist/go-datalink/protocol"
	"github.com/openwrist/go-datalink/transport"
)

// fileConfig is the raw TOML shape of one sync job. Parsed fields are
// normalized into runConfig before anything touches the wire.
type fileConfig struct {
	Port       string `toml:"port"`
	Baud       int    `toml:"baud"`
	Protocol   int    `toml:"protocol"`
	Model      string `toml:"model"`
	Verbose    bool   `toml:"verbose"`
	SyncLength int    `toml:"sync_length"`

	Pacing struct {
		ByteSleep   string `toml:"byte_sleep"`
		PacketSleep string `toml:"packet_sleep"`
		MaxRetries  int    `toml:"max_retries"`
	} `toml:"pacing"`

	Time       []timeConfig  `toml:"time"`
	Alarm      []alarmConfig `toml:"alarm"`
	Sound      *soundConfig  `toml:"sound"`
	Eeprom     *eepromConfig `toml:"eeprom"`
	SoundTheme *blobConfig   `toml:"soundtheme"`
	WristApp   *blobConfig   `toml:"wristapp"`
}

type timeConfig struct {
	Zone       int    `toml:"zone"`
	At         string `toml:"at"`
	Use24h     bool   `toml:"use_24h"`
	DateFormat string `toml:"date_format"`
	Name       string `toml:"name"`
}

type alarmConfig struct {
	Number  int    `toml:"number"`
	Time    string `toml:"time"`
	Message string `toml:"message"`
	Audible bool   `toml:"audible"`
}

type soundConfig struct {
	HourlyChime bool `toml:"hourly_chime"`
	ButtonBeep  bool `toml:"button_beep"`
}

type eepromConfig struct {
	NotificationMinutes *int                `toml:"notification_minutes"`
	Appointments        []appointmentConfig `toml:"appointment"`
	Anniversaries       []anniversaryConfig `toml:"anniversary"`
	PhoneNumbers        []phoneConfig       `toml:"phone"`
	Lists               []listConfig        `toml:"list"`
}

type appointmentConfig struct {
	Date    string `toml:"date"`
	Time    string `toml:"time"`
	Message string `toml:"message"`
}

type anniversaryConfig struct {
	Date    string `toml:"date"`
	Message string `toml:"message"`
}

type phoneConfig struct {
	Name   string `toml:"name"`
	Number string `toml:"number"`
	Type   string `toml:"type"`
}

type listConfig struct {
	Entry    string `toml:"entry"`
	Priority *int   `toml:"priority"`
}

type blobConfig struct {
	File string `toml:"file"`
}

// runConfig is the normalized sync job.
type runConfig struct {
	Options transport.Options
	Verbose bool

	Version int
	Model   string

	Data protocol.SyncData
}

func loadConfig(path string) (runConfig, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return runConfig{}, fmt.Errorf("load config: %w", err)
	}

	if strings.TrimSpace(raw.Port) == "" {
		return runConfig{}, fmt.Errorf("config: port is required")
	}

	cfg := runConfig{
		Options: transport.DefaultOptions(strings.TrimSpace(raw.Port)),
		Verbose: raw.Verbose,
		Version: raw.Protocol,
		Model:   strings.TrimSpace(raw.Model),
	}
	cfg.Options.Verbose = raw.Verbose
	if raw.Baud > 0 {
		cfg.Options.Channel.BaudRate = raw.Baud
	}

	if meta.IsDefined("pacing", "byte_sleep") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Pacing.ByteSleep))
		if err != nil {
			return runConfig{}, fmt.Errorf("parse pacing.byte_sleep: %w", err)
		}
		cfg.Options.ByteSleep = d
	}
	if meta.IsDefined("pacing", "packet_sleep") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Pacing.PacketSleep))
		if err != nil {
			return runConfig{}, fmt.Errorf("parse pacing.packet_sleep: %w", err)
		}
		cfg.Options.PacketSleep = d
	}
	if raw.Pacing.MaxRetries > 0 {
		cfg.Options.MaxRetries = raw.Pacing.MaxRetries
	}

	cfg.Data.SyncLength = raw.SyncLength

	for i, t := range raw.Time {
		s, err := parseTimeConfig(t)
		if err != nil {
			return runConfig{}, fmt.Errorf("time %d: %w", i+1, err)
		}
		cfg.Data.Times = append(cfg.Data.Times, s)
	}

	for i, a := range raw.Alarm {
		s, err := parseAlarmConfig(a)
		if err != nil {
			return runConfig{}, fmt.Errorf("alarm %d: %w", i+1, err)
		}
		cfg.Data.Alarms = append(cfg.Data.Alarms, s)
	}

	if raw.Sound != nil {
		cfg.Data.SoundOptions = &protocol.SoundSettings{
			HourlyChime: raw.Sound.HourlyChime,
			ButtonBeep:  raw.Sound.ButtonBeep,
		}
	}

	if raw.Eeprom != nil {
		data, err := parseEepromConfig(*raw.Eeprom)
		if err != nil {
			return runConfig{}, err
		}
		cfg.Data.Eeprom = data
	}

	if raw.SoundTheme != nil {
		blob, err := os.ReadFile(raw.SoundTheme.File)
		if err != nil {
			return runConfig{}, fmt.Errorf("read sound theme: %w", err)
		}
		cfg.Data.SoundTheme = blob
	}
	if raw.WristApp != nil {
		blob, err := os.ReadFile(raw.WristApp.File)
		if err != nil {
			return runConfig{}, fmt.Errorf("read wrist application: %w", err)
		}
		cfg.Data.WristApp = blob
	}

	return cfg, nil
}

func parseTimeConfig(t timeConfig) (protocol.TimeSettings, error) {
	s := protocol.TimeSettings{
		Zone:   t.Zone,
		Use24h: t.Use24h,
		Format: protocol.DateFormatMonthDayYear,
		Name:   strings.TrimSpace(t.Name),
	}
	if s.Zone == 0 {
		s.Zone = 1
	}
	if t.DateFormat != "" {
		s.Format = protocol.DateFormat(strings.TrimSpace(t.DateFormat))
	}
	if t.At == "" {
		s.At = time.Now()
		return s, nil
	}
	at, err := parseTimestamp(t.At)
	if err != nil {
		return protocol.TimeSettings{}, err
	}
	s.At = at
	return s, nil
}

func parseAlarmConfig(a alarmConfig) (protocol.AlarmSettings, error) {
	hour, minute, err := parseClock(a.Time)
	if err != nil {
		return protocol.AlarmSettings{}, err
	}
	return protocol.AlarmSettings{
		Number:  a.Number,
		Hour:    hour,
		Minute:  minute,
		Message: a.Message,
		Audible: a.Audible,
	}, nil
}

func parseEepromConfig(e eepromConfig) (*protocol.EepromData, error) {
	data := &protocol.EepromData{NotificationMinutes: e.NotificationMinutes}

	for i, a := range e.Appointments {
		month, day, err := parseDate(a.Date)
		if err != nil {
			return nil, fmt.Errorf("appointment %d: %w", i+1, err)
		}
		hour, minute, err := parseClock(a.Time)
		if err != nil {
			return nil, fmt.Errorf("appointment %d: %w", i+1, err)
		}
		data.Appointments = append(data.Appointments, protocol.Appointment{
			Month: month, Day: day, Hour: hour, Minute: minute,
			Message: a.Message,
		})
	}
	for i, a := range e.Anniversaries {
		month, day, err := parseDate(a.Date)
		if err != nil {
			return nil, fmt.Errorf("anniversary %d: %w", i+1, err)
		}
		data.Anniversaries = append(data.Anniversaries, protocol.Anniversary{
			Month: month, Day: day, Message: a.Message,
		})
	}
	for _, p := range e.PhoneNumbers {
		data.PhoneNumbers = append(data.PhoneNumbers, protocol.PhoneNumber{
			Name: p.Name, Number: p.Number, Type: p.Type,
		})
	}
	for _, l := range e.Lists {
		data.Lists = append(data.Lists, protocol.ListEntry{
			Entry: l.Entry, Priority: l.Priority,
		})
	}
	return data, nil
}

// parseTimestamp accepts RFC 3339 or the bare local forms
// "2006-01-02 15:04:05" and "2006-01-02 15:04".
func parseTimestamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if at, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", v)
}

// parseClock parses "15:04".
func parseClock(v string) (hour, minute int, err error) {
	at, err := time.Parse("15:04", strings.TrimSpace(v))
	if err != nil {
		return 0, 0, fmt.Errorf("unrecognized time of day %q", v)
	}
	return at.Hour(), at.Minute(), nil
}

// parseDate parses "2006-01-02" or the yearless "01-02".
func parseDate(v string) (month, day int, err error) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{"2006-01-02", "01-02"} {
		if at, err := time.Parse(layout, v); err == nil {
			return int(at.Month()), at.Day(), nil
		}
	}
	return 0, 0, fmt.Errorf("unrecognized date %q", v)
}
