package tcp

import (
	"github.com/simkit/tcpverify/seqnum"
)

// Flags holds the TCP header flags carried by a segment.
type Flags uint8

// Header flag values.
const (
	FlagFin Flags = 1 << iota
	FlagSyn
	FlagRst
	FlagPsh
	FlagAck
)

// Has reports whether all flags in mask are set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// Segment is the unit of transfer between the two endpoints. DataLen is the
// payload length in bytes; the payload itself is synthetic.
type Segment struct {
	Flags   Flags
	SeqNum  seqnum.Value
	AckNum  seqnum.Value
	DataLen int
}

// logicalLen is the amount of sequence space the segment occupies, counting
// the SYN and FIN flags, which each consume one sequence number.
func (s *Segment) logicalLen() seqnum.Size {
	l := seqnum.Size(s.DataLen)
	if s.Flags.Has(FlagSyn) {
		l++
	}
	if s.Flags.Has(FlagFin) {
		l++
	}
	return l
}

// Role identifies one endpoint of a session in observation hooks.
type Role uint8

const (
	// RoleSender is the endpoint transmitting application data.
	RoleSender Role = iota
	// RoleReceiver is the endpoint consuming application data.
	RoleReceiver
)

// Peer returns the opposite endpoint.
func (r Role) Peer() Role {
	if r == RoleSender {
		return RoleReceiver
	}
	return RoleSender
}

// String returns the string representation of the endpoint role.
func (r Role) String() string {
	switch r {
	case RoleSender:
		return "sender"
	case RoleReceiver:
		return "receiver"
	default:
		return "unknown"
	}
}
