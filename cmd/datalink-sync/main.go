// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Command datalink-sync uploads a TOML-described payload (time, alarms,
// scheduling database, sound, wrist applications) to a Datalink watch
// over a serial dongle.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/openwrist/go-datalink/protocol"
	"github.com/openwrist/go-datalink/transport"
	"github.com/openwrist/go-datalink/transport/serialport"
)

func main() {
	configPath := flag.String("config", "datalink.toml", "path to the sync job config")
	dryRun := flag.Bool("dry-run", false, "build and validate the packet stream without opening the port")
	detectOnly := flag.Bool("detect", false, "print ranked protocol candidates for the configured model and exit")
	flag.Parse()

	if err := run(*configPath, *dryRun, *detectOnly); err != nil {
		fmt.Fprintf(os.Stderr, "datalink-sync: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, dryRun, detectOnly bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	registry := protocol.NewRegistry()
	if err := protocol.RegisterBuiltin(registry); err != nil {
		return err
	}

	fp := protocol.Fingerprint{Version: cfg.Version, Model: cfg.Model}
	matches := registry.MatchDevice(fp)
	if len(matches) == 0 {
		return &protocol.NoCompatibleProtocolError{Model: cfg.Model}
	}
	if detectOnly {
		printMatches(matches)
		return nil
	}

	selected := matches[0].Descriptor
	fmt.Printf("protocol %d (%s), confidence %d%%\n",
		selected.Version, selected.Name, matches[0].Confidence)

	components, err := registry.CreateSyncWorkflow(selected.Version, cfg.Data)
	if err != nil {
		return err
	}
	packets, err := protocol.BuildPackets(components)
	if err != nil {
		return err
	}

	total := 0
	raw := make([][]byte, len(packets))
	for i, p := range packets {
		raw[i] = p
		total += len(p)
	}
	fmt.Printf("%d packets, %d bytes\n", len(packets), total)
	if dryRun {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := transport.NewSession(serialport.New(), cfg.Options)
	if err := session.Connect(ctx); err != nil {
		return err
	}
	defer session.Disconnect()

	result := session.Sync(ctx, raw, 0)
	if !result.WriteOK {
		return result.WriteErr
	}
	fmt.Println("sync complete")
	return nil
}

func printMatches(matches []protocol.Match) {
	for _, m := range matches {
		fmt.Printf("%3d%%  protocol %d  %s\n", m.Confidence, m.Descriptor.Version, m.Descriptor.Name)
		for _, r := range m.Reasons {
			fmt.Printf("        %s\n", r)
		}
	}
}
