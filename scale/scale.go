// Package scale converts unsigned values between the 7, 14, 16 and 32-bit
// domains of MIDI 1.0 and MIDI 2.0.
//
// Upscaling uses min-center-max bit replication: 0 maps to 0, the maximum
// to the maximum, and the exact midpoint to the exact midpoint. Values above
// the midpoint repeat their low bits into the vacated low bits of the
// result. Downscaling is a plain right shift, so Downscale(Upscale(v)) == v
// for every legal v.
package scale

import (
	"github.com/lysShub/netkit/debug"
	"github.com/lysShub/rawsock/test"
	"github.com/stretchr/testify/require"
)

// Upscale widens v from srcBits to dstBits, 1 < srcBits < dstBits <= 32.
func Upscale(v uint32, srcBits, dstBits uint) uint32 {
	if debug.Debug() {
		require.Greater(test.T(), srcBits, uint(1))
		require.Less(test.T(), srcBits, dstBits)
		require.LessOrEqual(test.T(), dstBits, uint(32))
		require.Less(test.T(), uint64(v), uint64(1)<<srcBits)
	}

	var (
		scaleBits = dstBits - srcBits
		shifted   = v << scaleBits
		center    = uint32(1) << (srcBits - 1)
	)
	if v <= center {
		return shifted
	}

	repeatBits := srcBits - 1
	repeat := v & (1<<repeatBits - 1)
	if scaleBits > repeatBits {
		repeat <<= scaleBits - repeatBits
	} else {
		repeat >>= repeatBits - scaleBits
	}
	for repeat != 0 {
		shifted |= repeat
		repeat >>= repeatBits
	}
	return shifted
}

// Downscale narrows v from srcBits to dstBits by dropping low bits.
func Downscale(v uint32, srcBits, dstBits uint) uint32 {
	if debug.Debug() {
		require.Less(test.T(), dstBits, srcBits)
	}
	return v >> (srcBits - dstBits)
}

func Upscale7To16(v uint8) uint16   { return uint16(Upscale(uint32(v&0x7f), 7, 16)) }
func Upscale7To32(v uint8) uint32   { return Upscale(uint32(v&0x7f), 7, 32) }
func Upscale14To16(v uint16) uint16 { return uint16(Upscale(uint32(v&0x3fff), 14, 16)) }
func Upscale14To32(v uint16) uint32 { return Upscale(uint32(v&0x3fff), 14, 32) }
func Upscale16To32(v uint16) uint32 { return Upscale(uint32(v), 16, 32) }

func Downscale16To7(v uint16) uint8   { return uint8(v >> 9) }
func Downscale32To7(v uint32) uint8   { return uint8(v >> 25) }
func Downscale16To14(v uint16) uint16 { return v >> 2 }
func Downscale32To14(v uint32) uint16 { return uint16(v >> 18) }
func Downscale32To16(v uint32) uint16 { return uint16(v >> 16) }
