package agents

import (
	"time"

	"github.com/rs/zerolog"

	"disaster-response-simulation/impl/eventlogger"
	"disaster-response-simulation/impl/messages"
	"disaster-response-simulation/impl/report"
	"disaster-response-simulation/impl/transport"
)

// HandlerFunc reacts to one inbound message. It receives the sender's
// address and the parsed payload; any messages it emits go through the
// agent's Send.
type HandlerFunc func(sender string, payload messages.Payload)

// ProactiveFunc is a scheduled action evaluated once per loop iteration,
// after the iteration's counters have been updated. received reports
// whether a message arrived this cycle.
type ProactiveFunc func(state *State, received bool)

// State holds the per-agent mutable counters. It is owned by the agent's
// loop and never shared between agents.
type State struct {
	// CycleCount increments at the top of every loop iteration.
	CycleCount int
	// MessageCount increments once per successfully received message.
	MessageCount int

	// ActiveMissions is an extension point for tracking in-flight
	// dispatch requests; current logic never populates it.
	ActiveMissions []Mission
}

// Mission is an in-flight rescue dispatch.
type Mission struct {
	Action   string
	Location string
}

// LoopConfig fixes the timing of the communication loop.
type LoopConfig struct {
	// ReceiveTimeout bounds the wait for an inbound message at the top
	// of each iteration.
	ReceiveTimeout time.Duration
	// IdleInterval is the pause at the end of every iteration, whether
	// or not any work happened. It is the loop's only throttle.
	IdleInterval time.Duration
}

// Config assembles an agent.
type Config struct {
	Address   string
	Transport transport.Transport
	Log       *eventlogger.EventLogger
	Diag      zerolog.Logger
	Loop      LoopConfig

	// Collector is optional; a nil collector disables traffic counting.
	Collector *report.Collector
	// Now defaults to time.Now. Tests inject a fixed clock here.
	Now func() time.Time
}

// Agent is a role-neutral communicating actor: a handler table keyed by
// performative plus a set of proactive triggers, driven by one cyclic
// receive/dispatch/act loop. Roles are wired in by composition, see the
// coordinator and field packages.
type Agent struct {
	address   string
	transport transport.Transport
	log       *eventlogger.EventLogger
	diag      zerolog.Logger
	loop      LoopConfig
	collector *report.Collector
	now       func() time.Time

	state     State
	handlers  map[messages.Performative]HandlerFunc
	proactive []ProactiveFunc

	stop chan struct{}
	done chan struct{}
}

func New(config Config) *Agent {
	a := new(Agent)
	a.address = config.Address
	a.transport = config.Transport
	a.log = config.Log
	a.diag = config.Diag.With().Str("agent", config.Address).Logger()
	a.loop = config.Loop
	a.collector = config.Collector
	a.now = config.Now
	if a.now == nil {
		a.now = time.Now
	}
	a.handlers = make(map[messages.Performative]HandlerFunc)
	a.stop = make(chan struct{})
	a.done = make(chan struct{})
	return a
}

// Address returns the agent's own address.
func (a *Agent) Address() string {
	return a.address
}

// State exposes the loop-owned counters. Outside the loop it must only
// be read after Stop returned.
func (a *Agent) State() *State {
	return &a.state
}

// Now reads the agent's wall clock.
func (a *Agent) Now() time.Time {
	return a.now()
}

// Diag returns the agent-scoped diagnostic logger.
func (a *Agent) Diag() *zerolog.Logger {
	return &a.diag
}

// Handle registers the handler for a performative. Registration must
// finish before Start.
func (a *Agent) Handle(performative messages.Performative, handler HandlerFunc) {
	a.handlers[performative] = handler
}

// Proactive registers a scheduled action. Triggers run in registration
// order on every iteration, independently of one another.
func (a *Agent) Proactive(action ProactiveFunc) {
	a.proactive = append(a.proactive, action)
}

// Send constructs a message to the recipient, delivers it, and appends
// the SENT audit entry. A delivery failure is logged and returned; no
// audit entry is written for it.
func (a *Agent) Send(
	recipient string,
	performative messages.Performative,
	payload messages.Payload,
) error {
	msg := messages.NewMessage(performative, a.address, recipient, payload, a.now())

	if err := a.transport.Send(msg); err != nil {
		a.diag.Error().Err(err).Str("recipient", recipient).Msg("delivery failed")
		if a.collector != nil {
			a.collector.DeliveryFailed()
		}
		return err
	}

	a.log.LogSent(msg, a.now())
	if a.collector != nil {
		a.collector.MessageSent(performative)
	}
	return nil
}

// Start launches the communication loop.
func (a *Agent) Start() {
	a.diag.Info().Msg("agent starting")
	go a.run()
}

// Stop signals the loop and waits until it exits. The stop takes effect
// at an iteration boundary, never mid-handler: sends in flight from the
// current iteration complete before Stop returns.
func (a *Agent) Stop() {
	close(a.stop)
	<-a.done
	a.diag.Info().Msg("agent stopped")
}

func (a *Agent) run() {
	defer close(a.done)

	for {
		select {
		case <-a.stop:
			return
		default:
		}

		a.Step()

		select {
		case <-a.stop:
			return
		case <-time.After(a.loop.IdleInterval):
		}
	}
}

// Step runs one loop iteration, AWAIT_MESSAGE through MAYBE_PROACTIVE,
// without the trailing idle pause. Start schedules it; deterministic
// drivers and tests may call it directly instead of running the loop,
// never concurrently with it.
func (a *Agent) Step() {
	a.state.CycleCount++

	msg, received := a.transport.Receive(a.loop.ReceiveTimeout)
	if received {
		a.state.MessageCount++
		a.handleMessage(msg)
	}

	for _, action := range a.proactive {
		a.runProactive(action, received)
	}
}

func (a *Agent) handleMessage(msg *messages.Message) {
	a.log.LogReceived(msg, a.now())
	if a.collector != nil {
		a.collector.MessageReceived(msg.Performative, a.now().Sub(msg.Timestamp))
	}

	handler, ok := a.handlers[msg.Performative]
	if !ok {
		a.diag.Debug().
			Str("performative", string(msg.Performative)).
			Str("sender", msg.Sender).
			Msg("no handler for performative")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			a.diag.Error().
				Str("performative", string(msg.Performative)).
				Interface("panic", r).
				Msg("handler failed")
		}
	}()
	handler(msg.Sender, msg.Content())
}

func (a *Agent) runProactive(action ProactiveFunc, received bool) {
	defer func() {
		if r := recover(); r != nil {
			a.diag.Error().Interface("panic", r).Msg("proactive action failed")
		}
	}()
	action(&a.state, received)
}
