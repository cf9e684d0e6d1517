// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package protocol

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Fingerprint is a caller-supplied hint for protocol detection: an
// explicit version, a free-text model string, or both. Version zero
// means unset.
type Fingerprint struct {
	Version int
	Model   string
}

// Match is one ranked detection result. Confidence is 0-100; Reasons
// explains how the descriptor matched, for the caller to confirm or
// override.
type Match struct {
	Descriptor *Descriptor
	Confidence int
	Reasons    []string
}

// Registry is the process-wide version-to-descriptor map. It is
// populated once at startup and read-only thereafter; Register after
// that point is a caller error the registry reports, not locks against.
type Registry struct {
	mu       sync.RWMutex
	versions map[int]*Descriptor
	order    []int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{versions: make(map[int]*Descriptor)}
}

// Register adds one descriptor keyed by version. A second registration
// of the same version fails with DuplicateProtocolError.
func (sf *Registry) Register(d Descriptor) error {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	if _, ok := sf.versions[d.Version]; ok {
		return &DuplicateProtocolError{Version: d.Version}
	}
	desc := d
	sf.versions[d.Version] = &desc
	sf.order = append(sf.order, d.Version)
	return nil
}

// Descriptor returns the metadata registered for a version.
func (sf *Registry) Descriptor(version int) (*Descriptor, error) {
	sf.mu.RLock()
	defer sf.mu.RUnlock()
	d, ok := sf.versions[version]
	if !ok {
		return nil, &UnknownProtocolError{Version: version}
	}
	return d, nil
}

// Versions returns the registered versions in registration order.
func (sf *Registry) Versions() []int {
	sf.mu.RLock()
	defer sf.mu.RUnlock()
	out := make([]int, len(sf.order))
	copy(out, sf.order)
	return out
}

// CreateForVersion resolves a protocol instance bound to a registered
// descriptor's variants and limits.
func (sf *Registry) CreateForVersion(version int) (*Protocol, error) {
	d, err := sf.Descriptor(version)
	if err != nil {
		return nil, err
	}
	return &Protocol{desc: d}, nil
}

// MatchDevice ranks registered descriptors against a fingerprint. An
// explicit version is an exact match at confidence 100. Otherwise each
// descriptor's device strings are compared to the model by
// case-insensitive substring containment, confidence scaling with match
// specificity. Ties keep registration order. No match returns an empty
// slice, not an error: model strings reported by drivers vary across
// firmware revisions and localizations, so detection is best-effort by
// design.
func (sf *Registry) MatchDevice(fp Fingerprint) []Match {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	var matches []Match
	if fp.Version != 0 {
		if d, ok := sf.versions[fp.Version]; ok {
			matches = append(matches, Match{
				Descriptor: d,
				Confidence: 100,
				Reasons:    []string{fmt.Sprintf("explicit protocol %d", fp.Version)},
			})
		}
	}

	model := strings.ToLower(strings.TrimSpace(fp.Model))
	if model != "" {
		for _, version := range sf.order {
			if fp.Version != 0 && version == fp.Version {
				continue
			}
			d := sf.versions[version]
			confidence, reason := matchModel(d, model)
			if confidence > 0 {
				matches = append(matches, Match{
					Descriptor: d,
					Confidence: confidence,
					Reasons:    []string{reason},
				})
			}
		}
	}

	// Stable sort: ties stay in registration order. The explicit match,
	// appended first at 100, always ranks first.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

// matchModel scores one descriptor against a lower-cased model string.
// A longer device string matching a larger share of the model is a more
// specific, higher-confidence match.
func matchModel(d *Descriptor, model string) (int, string) {
	best := 0
	reason := ""
	for _, device := range d.Devices {
		dev := strings.ToLower(device)
		var matched string
		switch {
		case strings.Contains(model, dev):
			matched = dev
		case strings.Contains(dev, model):
			matched = model
		default:
			continue
		}
		// Scale into [50, 90] by the share of the model the device
		// string covers; an explicit version is always ranked above.
		confidence := 50 + 40*len(matched)/len(model)
		if confidence > 90 {
			confidence = 90
		}
		if confidence > best {
			best = confidence
			reason = fmt.Sprintf("model %q matches device string %q", model, device)
		}
	}
	return best, reason
}

// CreateFromDevice resolves the highest-confidence protocol for a
// fingerprint, failing with NoCompatibleProtocolError when detection
// comes back empty.
func (sf *Registry) CreateFromDevice(fp Fingerprint) (*Protocol, error) {
	matches := sf.MatchDevice(fp)
	if len(matches) == 0 {
		return nil, &NoCompatibleProtocolError{Model: fp.Model}
	}
	return &Protocol{desc: matches[0].Descriptor}, nil
}

// ProtocolSummary is one row of Statistics.
type ProtocolSummary struct {
	Version      int
	Name         string
	Devices      []string
	Capabilities Capabilities
}

// Statistics is a read-only report of the registered descriptor set.
type Statistics struct {
	Protocols   int
	DeviceCount int
	Summaries   []ProtocolSummary
}

// Statistics summarizes the registry for reporting surfaces. It is not
// on the write path.
func (sf *Registry) Statistics() Statistics {
	sf.mu.RLock()
	defer sf.mu.RUnlock()

	stats := Statistics{Protocols: len(sf.order)}
	seen := make(map[string]struct{})
	for _, version := range sf.order {
		d := sf.versions[version]
		for _, dev := range d.Devices {
			seen[strings.ToLower(dev)] = struct{}{}
		}
		stats.Summaries = append(stats.Summaries, ProtocolSummary{
			Version:      d.Version,
			Name:         d.Name,
			Devices:      append([]string(nil), d.Devices...),
			Capabilities: d.Capabilities,
		})
	}
	stats.DeviceCount = len(seen)
	return stats
}
