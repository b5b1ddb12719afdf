package ump

// Uint7 is a 7-bit value, its top bit is always clear.
type Uint7 uint8

// Uint14 is a 14-bit value carried as two 7-bit bytes.
type Uint14 uint16

// Uint28 is a 28-bit value carried as four 7-bit bytes.
type Uint28 uint32

const (
	MaxUint7  Uint7  = 1<<7 - 1
	MaxUint14 Uint14 = 1<<14 - 1
	MaxUint28 Uint28 = 1<<28 - 1
)

func U7(v uint8) Uint7    { return Uint7(v) & MaxUint7 }
func U14(v uint16) Uint14 { return Uint14(v) & MaxUint14 }
func U28(v uint32) Uint28 { return Uint28(v) & MaxUint28 }

// U14From joins two 7-bit halves, lsb first.
func U14From(lsb, msb uint8) Uint14 {
	return Uint14(lsb&0x7f) | Uint14(msb&0x7f)<<7
}

func (v Uint14) LSB() uint8 { return uint8(v) & 0x7f }
func (v Uint14) MSB() uint8 { return uint8(v>>7) & 0x7f }
