// Copyright 2026 The go-datalink Authors. All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package codec

// PackBits packs fixed-width values into a little-endian bit stream:
// values[i] occupies bits [i*width, (i+1)*width) of the output, bit 0
// being the least significant bit of the first byte. The result is
// ceil(len(values)*width/8) bytes, with a minimum of one zero byte so
// that an empty field still occupies storage on the device.
//
// Values wider than width are masked; the caller is expected to supply
// alphabet indices that already fit.
func PackBits(values []byte, width int) []byte {
	if width < 1 || width > 8 {
		panic("codec: bit width out of range")
	}
	mask := byte(1<<width - 1)
	out := make([]byte, 0, (len(values)*width+7)/8)

	var acc uint
	var nbits int
	for _, v := range values {
		acc |= uint(v&mask) << nbits
		nbits += width
		for nbits >= 8 {
			out = append(out, byte(acc))
			acc >>= 8
			nbits -= 8
		}
	}
	if nbits > 0 {
		out = append(out, byte(acc))
	}
	if len(out) == 0 {
		out = append(out, 0)
	}
	return out
}

// UnpackBits is the inverse of PackBits: it extracts count width-bit
// values from the little-endian bit stream in data. Missing trailing
// bits read as zero.
func UnpackBits(data []byte, width, count int) []byte {
	if width < 1 || width > 8 {
		panic("codec: bit width out of range")
	}
	mask := uint(1<<width - 1)
	out := make([]byte, count)
	for i := 0; i < count; i++ {
		bit := i * width
		var v uint
		for b := 0; b < width; b++ {
			idx := (bit + b) / 8
			if idx >= len(data) {
				break
			}
			if data[idx]&(1<<((bit+b)%8)) != 0 {
				v |= 1 << b
			}
		}
		out[i] = byte(v & mask)
	}
	return out
}
