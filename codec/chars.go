// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package codec implements the byte-level primitives shared by all
// Datalink protocol generations: character-set mapping, sub-byte bit
// packing, and the length/CRC packet framing.
//
// The watches store text as continuous bit streams rather than
// byte-aligned characters, so the exact alphabet order, packing width
// and terminator handling here must match the firmware bit-for-bit.
package codec

import "strings"

// Alphabet is an ordered set of symbols legal for one class of device
// text. A symbol's position is its wire index. Every alphabet contains
// the space symbol, which doubles as the fallback for characters the
// device cannot display.
type Alphabet struct {
	name     string
	symbols  []rune
	index    map[rune]byte
	fallback byte // index of the space symbol
}

func newAlphabet(name, symbols string) Alphabet {
	a := Alphabet{
		name:    name,
		symbols: []rune(symbols),
		index:   make(map[rune]byte, len(symbols)),
	}
	fallback := -1
	for i, r := range a.symbols {
		a.index[r] = byte(i)
		if r == ' ' {
			fallback = i
		}
	}
	if fallback < 0 {
		panic("codec: alphabet " + name + " has no space symbol")
	}
	a.fallback = byte(fallback)
	return a
}

// The device alphabets. Symbol order is fixed by the firmware character
// generator ROM and was verified against byte captures of the original
// Notebook Adapter software.
var (
	// Chars is the general display alphabet used for alarm messages and
	// time-zone labels.
	Chars = newAlphabet("chars",
		"0123456789abcdefghijklmnopqrstuvwxyz !\"#$%&'()*+,-./:\\;=@?_|<>[")

	// CharsProtocol6 is the protocol 6 dialect; the Beepwear character
	// ROM swaps the final glyph.
	CharsProtocol6 = newAlphabet("chars6",
		"0123456789abcdefghijklmnopqrstuvwxyz !\"#$%&'()*+,-./:\\;=@?_|<>]")

	// EepromChars is the 63-symbol alphabet for EEPROM text fields.
	// Index 0x3F is reserved for the terminator and is deliberately
	// outside the printable set.
	EepromChars = newAlphabet("eeprom",
		"0123456789abcdefghijklmnopqrstuvwxyz !\"#$%&'()*+,-./:\\;=@?_|<>[")

	// PhoneChars is the 16-symbol alphabet for phone number fields:
	// digits plus the call-control glyphs c/f/h/p/w and space.
	PhoneChars = newAlphabet("phone", "0123456789cfhpw ")
)

// EepromTerminator is the sentinel index appended after EEPROM text,
// outside the printable alphabet.
const EepromTerminator byte = 0x3F

// EepromWidth and PhoneWidth are the packing widths of the two packed
// text classes.
const (
	EepromWidth = 6
	PhoneWidth  = 4
)

// PhoneFieldSymbols is the fixed symbol width of a phone number field.
// The field is self-delimiting, so no terminator is packed.
const PhoneFieldSymbols = 12

// Name returns the alphabet's name.
func (a Alphabet) Name() string { return a.name }

// Len returns the number of symbols in the alphabet.
func (a Alphabet) Len() int { return len(a.symbols) }

// Fallback returns the index of the space symbol.
func (a Alphabet) Fallback() byte { return a.fallback }

// MapOptions controls truncation and padding in MapText.
type MapOptions struct {
	// MaxLength caps the mapped symbol count. Zero means unlimited.
	MaxLength int
	// Pad right-pads the result with the fallback index up to MaxLength.
	Pad bool
}

// MapText maps text to a sequence of alphabet indices. Input is
// lower-cased first. Characters absent from the alphabet resolve to the
// fallback index instead of failing, so an upload degrades to readable
// output rather than aborting on an unsupported glyph.
func MapText(text string, a Alphabet, opt MapOptions) []byte {
	runes := []rune(strings.ToLower(text))
	if opt.MaxLength > 0 && len(runes) > opt.MaxLength {
		runes = runes[:opt.MaxLength]
	}
	size := len(runes)
	if opt.Pad && opt.MaxLength > size {
		size = opt.MaxLength
	}
	out := make([]byte, size)
	for i := range out {
		out[i] = a.fallback
	}
	for i, r := range runes {
		if idx, ok := a.index[r]; ok {
			out[i] = idx
		}
	}
	return out
}

// EncodeEepromText maps text through the EEPROM alphabet, appends the
// terminator sentinel and packs the result at 6-bit width.
func EncodeEepromText(text string, maxLength int) []byte {
	indices := MapText(text, EepromChars, MapOptions{MaxLength: maxLength})
	indices = append(indices, EepromTerminator)
	return PackBits(indices, EepromWidth)
}

// EncodePhoneText packs a phone number into its fixed 12-symbol field
// at 4-bit width. The result is always 6 bytes; short input is padded
// with the fallback index.
func EncodePhoneText(text string) []byte {
	indices := MapText(text, PhoneChars, MapOptions{MaxLength: PhoneFieldSymbols, Pad: true})
	return PackBits(indices, PhoneWidth)
}
