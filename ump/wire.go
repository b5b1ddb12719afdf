package ump

import (
	"encoding/binary"

	"github.com/lysShub/netkit/packet"
	"github.com/pkg/errors"
)

// Encode appends the Size() words of p to to, most significant byte first.
func (p Packet) Encode(to *packet.Packet) {
	to.Append(AppendBinary(make([]byte, 0, p.Size()*4), p)...)
}

// Decode reads one packet from the head of from. The type tag in the first
// byte decides how many words are consumed.
func (p *Packet) Decode(from *packet.Packet) error {
	b := from.Bytes()
	n, err := packetLen(b)
	if err != nil {
		return err
	}

	*p = Packet{}
	for i := 0; i < n/4; i++ {
		p[i] = binary.BigEndian.Uint32(b[i*4:])
	}
	from.DetachN(n)
	return nil
}

// AppendBinary appends the wire form of p to dst.
func AppendBinary(dst []byte, p Packet) []byte {
	for _, w := range p.Words() {
		dst = binary.BigEndian.AppendUint32(dst, w)
	}
	return dst
}

// ReadPackets splits b into packets. b must hold a whole number of packets.
func ReadPackets(b []byte) ([]Packet, error) {
	var ps []Packet
	for len(b) > 0 {
		n, err := packetLen(b)
		if err != nil {
			return ps, err
		}

		var p Packet
		for i := 0; i < n/4; i++ {
			p[i] = binary.BigEndian.Uint32(b[i*4:])
		}
		ps = append(ps, p)
		b = b[n:]
	}
	return ps, nil
}

func packetLen(b []byte) (int, error) {
	if len(b) < 4 {
		return 0, errors.Errorf("too short %d", len(b))
	}
	t := Type(b[0] >> 4)
	n := t.Size() * 4
	if len(b) < n {
		return 0, errors.Errorf("%s packet require %d bytes, got %d", t, n, len(b))
	}
	return n, nil
}
