package bytestream

// MIDI 1.0 byte stream markers
const (
	SysexStart = 0xf0
	SysexEnd   = 0xf7

	// bytes at or above RealTime are single byte real-time messages
	RealTime = 0xf8

	undefinedRealTime1 = 0xf9
	undefinedRealTime2 = 0xfd
)

// dataLen returns the number of data bytes following status, or -1 for
// statuses that are undefined or not followed by a fixed data count.
func dataLen(status uint8) int {
	switch status & 0xf0 {
	case 0x80, 0x90, 0xa0, 0xb0, 0xe0:
		return 2
	case 0xc0, 0xd0:
		return 1
	}

	switch status {
	case 0xf1, 0xf3: // MTC quarter frame, song select
		return 1
	case 0xf2: // song position pointer
		return 2
	case 0xf6, 0xf8, 0xfa, 0xfb, 0xfc, 0xfe, 0xff:
		return 0
	default: // 0xf0, 0xf4, 0xf5, 0xf7, 0xf9, 0xfd
		return -1
	}
}

func isChannelVoice(status uint8) bool {
	return status >= 0x80 && status < 0xf0
}
