package verify

import (
	"fmt"
	"sort"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/simkit/tcpverify/seqnum"
	"github.com/simkit/tcpverify/tcp"
)

// Fixed configuration shared by every scenario in the default suite; only
// the DropSet (and, for the boundary scenario, the byte count) varies.
const (
	// DefaultSegmentSize is the maximum segment size used by the suite.
	DefaultSegmentSize = 500
	// DefaultSegmentCount is the number of full segments transferred.
	DefaultSegmentCount = 20
	// DefaultAppByteCount is the application byte volume of the suite.
	DefaultAppByteCount = DefaultSegmentSize * DefaultSegmentCount
)

// Scenario is one named configuration of the verification harness. Scenarios
// share no mutable state; Run builds fresh components for each invocation.
type Scenario struct {
	// Desc is the human-readable scenario identifier.
	Desc string
	// Drops is the set of sequence numbers discarded toward the receiver.
	Drops DropSet
	// AppByteCount overrides the transferred volume when non-zero.
	AppByteCount int
}

// Result captures the observable outcome of one scenario run.
type Result struct {
	// ObservedAck is the final cumulative acknowledgment seen on the wire.
	ObservedAck seqnum.Value
	// AccountingTotal is the summed segment count the instrumented
	// congestion control reported.
	AccountingTotal uint32
	// ExpectedSegments is ObservedAck divided by the segment size.
	ExpectedSegments uint32
	// States is the set of congestion states the sender visited.
	States tcp.CongStateSet
	// Elapsed is the virtual time the session consumed.
	Elapsed time.Duration
}

// Run executes one scenario to quiescence and applies the oracle check. The
// Result is returned even when the check fails, so callers can report both
// values.
func Run(s Scenario) (*Result, error) {
	appBytes := s.AppByteCount
	if appBytes == 0 {
		appBytes = DefaultAppByteCount
	}
	cfg := tcp.Config{
		MSS:           DefaultSegmentSize,
		AppByteCount:  appBytes,
		DelAckCount:   1,
		DelAckTimeout: 0,
		SACKEnabled:   false,
	}

	var total uint32
	ctl, err := NewInstrumentedControl(tcp.NewReno(), func(segmentsAcked int) {
		total += uint32(segmentsAcked)
	})
	if err != nil {
		return nil, err
	}

	sess, err := tcp.NewSession(cfg, ctl)
	if err != nil {
		return nil, err
	}
	if err := sess.SetErrorModel(NewSeqDropModel(s.Drops)); err != nil {
		return nil, err
	}

	obs := NewWireObserver()
	sess.OnReceive(obs.Observe)

	oracle := NewOracle(s.Desc, cfg.MSS)
	var checkErr error
	sess.OnFinalChecks(func() {
		checkErr = oracle.Check(obs.AckNumber(), total)
	})

	if err := sess.Run(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Desc, err)
	}

	res := &Result{
		ObservedAck:      obs.AckNumber(),
		AccountingTotal:  total,
		ExpectedSegments: uint32(obs.AckNumber()) / uint32(cfg.MSS),
		States:           sess.Sender().VisitedStates(),
		Elapsed:          sess.Elapsed(),
	}
	return res, checkErr
}

// Registry is an explicit scenario registry. It is populated by an
// initialization routine invoked from the test runner's entry point rather
// than by package-level side effects, so construction order stays visible.
type Registry struct {
	scenarios *xsync.MapOf[string, Scenario]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{scenarios: xsync.NewMapOf[string, Scenario]()}
}

// Register adds a scenario, rejecting empty or duplicate descriptions.
func (r *Registry) Register(s Scenario) error {
	if s.Desc == "" {
		return ErrEmptyDescription
	}
	if _, loaded := r.scenarios.LoadOrStore(s.Desc, s); loaded {
		return fmt.Errorf("%w: %q", ErrDuplicateScenario, s.Desc)
	}
	return nil
}

// Scenarios returns the registered scenarios sorted by description, for
// stable enumeration.
func (r *Registry) Scenarios() []Scenario {
	out := make([]Scenario, 0, r.scenarios.Size())
	r.scenarios.Range(func(_ string, s Scenario) bool {
		out = append(out, s)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Desc < out[j].Desc })
	return out
}

// DefaultSuite builds the registry of shipped scenarios:
//
//   - no drops, so the sender never leaves the open state;
//   - one mid-stream drop positioned to force disorder and fast recovery;
//   - one tail drop that starves fast retransmit of duplicate acks and
//     forces a retransmission timeout into the loss state;
//   - a transfer whose final segment is half-sized, exercising the
//     truncating segment arithmetic on both sides of the comparison.
func DefaultSuite() (*Registry, error) {
	reg := NewRegistry()
	suite := []Scenario{
		{Desc: "PktsAcked check while in OPEN state"},
		{Desc: "PktsAcked check while in all the states", Drops: NewDropSet(2001)},
		{Desc: "PktsAcked check with retransmission timeout", Drops: NewDropSet(9501)},
		{Desc: "PktsAcked check with partial final segment", AppByteCount: DefaultAppByteCount - DefaultSegmentSize/2},
	}
	for _, s := range suite {
		if err := reg.Register(s); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
