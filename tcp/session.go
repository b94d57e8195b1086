package tcp

import (
	"fmt"
	"time"

	"github.com/simkit/tcpverify/logger"
	"github.com/simkit/tcpverify/sim"
)

// Config holds the immutable parameters of one session.
type Config struct {
	// MSS is the maximum segment size in bytes.
	MSS int
	// AppByteCount is the number of application bytes the sender streams.
	AppByteCount int
	// DelAckCount is the number of segments the receiver may accumulate
	// before acknowledging. A count of 1 acknowledges every segment.
	DelAckCount int
	// DelAckTimeout bounds how long the receiver may delay an
	// acknowledgment. Zero disables delaying entirely.
	DelAckTimeout time.Duration
	// SACKEnabled requests selective acknowledgments. The model does not
	// implement them; setting this logs a warning and is otherwise ignored.
	SACKEnabled bool
	// Delay is the one-way propagation delay of the path.
	// Defaults to 10ms.
	Delay time.Duration
	// TimeLimit aborts the session if the virtual clock passes it.
	// Defaults to 60s.
	TimeLimit time.Duration
}

func (c *Config) applyDefaults() error {
	if c.MSS <= 0 {
		return fmt.Errorf("%w: MSS must be positive, got %d", ErrConfigInvalid, c.MSS)
	}
	if c.AppByteCount <= 0 {
		return fmt.Errorf("%w: AppByteCount must be positive, got %d", ErrConfigInvalid, c.AppByteCount)
	}
	if c.DelAckCount <= 0 {
		c.DelAckCount = 1
	}
	if c.Delay <= 0 {
		c.Delay = 10 * time.Millisecond
	}
	if c.TimeLimit <= 0 {
		c.TimeLimit = 60 * time.Second
	}
	return nil
}

// ErrorModel decides per segment whether the path toward the receiver
// delivers it. Returning false discards the segment silently.
type ErrorModel interface {
	// Admit reports whether the segment may be delivered.
	Admit(seg *Segment) bool
}

// TxHook observes a segment the given endpoint has just transmitted.
type TxHook func(seg *Segment, who Role)

// RxHook observes a segment the given endpoint has just received.
type RxHook func(seg *Segment, who Role)

// Session runs one sender/receiver pair over the discrete-event simulator.
// The congestion-control algorithm is installed at construction time, before
// the connection is established; the error model and observation hooks must
// be registered before Run.
type Session struct {
	cfg      Config
	clock    *sim.Simulator
	sender   *Sender
	receiver *Receiver
	logger   logger.Logger

	errModel    ErrorModel
	txHooks     []TxHook
	rxHooks     []RxHook
	finalChecks []func()

	running bool
}

// NewSession creates a session with the given configuration and
// congestion-control algorithm.
func NewSession(cfg Config, cc CongestionControl) (*Session, error) {
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if cc == nil {
		return nil, ErrNilCongestionControl
	}

	log := logger.GetLogger()
	if cfg.SACKEnabled {
		log.Warn("selective acknowledgments are not implemented; flag ignored")
	}

	s := &Session{
		cfg:    cfg,
		clock:  sim.New(),
		logger: log,
	}
	s.sender = newSender(s.clock, cc, cfg.MSS, cfg.AppByteCount, log)
	s.receiver = newReceiver(s.clock, cfg.DelAckCount, cfg.DelAckTimeout, log)
	s.sender.out = func(seg *Segment) { s.transmit(seg, RoleSender) }
	s.receiver.out = func(seg *Segment) { s.transmit(seg, RoleReceiver) }

	return s, nil
}

// Config returns the session configuration with defaults applied.
func (s *Session) Config() Config {
	return s.cfg
}

// Sender returns the sending endpoint.
func (s *Session) Sender() *Sender {
	return s.sender
}

// Receiver returns the receiving endpoint.
func (s *Session) Receiver() *Receiver {
	return s.receiver
}

// Elapsed returns the virtual time consumed so far.
func (s *Session) Elapsed() time.Duration {
	return s.clock.Now()
}

// SetErrorModel installs the admission decision for the path toward the
// receiver. It must be called before Run.
func (s *Session) SetErrorModel(m ErrorModel) error {
	if s.running {
		return ErrSessionRunning
	}
	s.errModel = m
	return nil
}

// OnTransmit registers a hook observing every transmitted segment,
// including segments the error model later discards.
func (s *Session) OnTransmit(h TxHook) {
	s.txHooks = append(s.txHooks, h)
}

// OnReceive registers a hook observing every delivered segment.
func (s *Session) OnReceive(h RxHook) {
	s.rxHooks = append(s.rxHooks, h)
}

// OnFinalChecks registers a callback invoked once after the session reaches
// quiescence, before Run returns.
func (s *Session) OnFinalChecks(fn func()) {
	s.finalChecks = append(s.finalChecks, fn)
}

// Run opens the connection, drives the simulation to quiescence, then
// invokes the final-check callbacks. It returns sim.ErrTimeLimit if the
// time limit was reached and ErrSessionStalled if the event queue drained
// before both endpoints finished.
func (s *Session) Run() error {
	s.running = true
	s.logger.Debug("session start", "mss", s.cfg.MSS, "app_bytes", s.cfg.AppByteCount)

	s.sender.connect()
	if err := s.clock.Run(s.cfg.TimeLimit); err != nil {
		return err
	}
	if !s.sender.done() || !s.receiver.done() {
		return fmt.Errorf("%w: received %d of %d bytes",
			ErrSessionStalled, s.receiver.ReceivedBytes(), s.cfg.AppByteCount)
	}

	s.logger.Debug("session quiescent", "elapsed", s.Elapsed(), "received_bytes", s.receiver.ReceivedBytes())
	for _, fn := range s.finalChecks {
		fn()
	}
	return nil
}

// transmit moves a segment from one endpoint toward the other, applying the
// error model on the receiver-ward path and delivering after the
// propagation delay.
func (s *Session) transmit(seg *Segment, from Role) {
	for _, h := range s.txHooks {
		h(seg, from)
	}

	if from == RoleSender && s.errModel != nil && !s.errModel.Admit(seg) {
		s.logger.Debug("segment discarded in transit", "seq", seg.SeqNum, "len", seg.DataLen)
		return
	}

	to := from.Peer()
	s.clock.Schedule(s.cfg.Delay, func() {
		for _, h := range s.rxHooks {
			h(seg, to)
		}
		if to == RoleSender {
			s.sender.handleSegment(seg)
		} else {
			s.receiver.handleSegment(seg)
		}
	})
}
