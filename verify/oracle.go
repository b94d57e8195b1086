package verify

import (
	"fmt"

	"github.com/simkit/tcpverify/seqnum"
)

// Oracle performs the single terminal check of a scenario: the number of
// segments implied by the observed cumulative acknowledgment must equal the
// total the instrumented congestion control reported.
//
// The expected count uses truncating integer division, matching the
// remainder-carrying accounting on the sender side; a partial final segment
// is therefore invisible to both sides and the comparison stays exact.
type Oracle struct {
	desc    string
	segSize int
}

// NewOracle creates an oracle for one scenario. desc is included in the
// mismatch diagnostic.
func NewOracle(desc string, segSize int) *Oracle {
	return &Oracle{desc: desc, segSize: segSize}
}

// Check compares the wire-derived segment count against the instrumented
// total and returns ErrAccountingMismatch (wrapped, with both values) on
// disagreement.
func (o *Oracle) Check(observedAck seqnum.Value, accountedSegments uint32) error {
	expected := uint32(observedAck) / uint32(o.segSize)
	if expected != accountedSegments {
		return fmt.Errorf("%w: %q expected %d segments from ack %d, congestion control reported %d",
			ErrAccountingMismatch, o.desc, expected, uint32(observedAck), accountedSegments)
	}
	return nil
}
