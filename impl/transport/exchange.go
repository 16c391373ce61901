package transport

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"disaster-response-simulation/impl/messages"
)

const inboxSize = 128

// Exchange is the in-process message fabric. Every attached address is
// backed by a protoactor actor feeding a buffered inbox channel, so
// delivery stays asynchronous while each agent keeps its pull-based
// receive-with-timeout.
type Exchange struct {
	system *actor.ActorSystem
	jitter *Jitter

	mu        sync.RWMutex
	endpoints map[string]*actor.PID
}

func NewExchange() *Exchange {
	e := new(Exchange)
	e.system = actor.NewActorSystem()
	e.endpoints = make(map[string]*actor.PID)
	return e
}

// WithJitter delays every delivery by a random duration drawn from j.
func (e *Exchange) WithJitter(j *Jitter) *Exchange {
	e.jitter = j
	return e
}

// Attach registers an address and returns the endpoint its agent
// receives on. Attaching the same address twice is an error.
func (e *Exchange) Attach(address string) (Transport, error) {
	inbox := make(chan *messages.Message, inboxSize)
	props := actor.PropsFromFunc(func(ctx actor.Context) {
		if msg, ok := ctx.Message().(*messages.Message); ok {
			select {
			case inbox <- msg:
			default:
				// inbox full, the message is dropped
			}
		}
	})

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.endpoints[address]; exists {
		return nil, fmt.Errorf("address %s is already attached", address)
	}

	pid, err := e.system.Root.SpawnNamed(props, address)
	if err != nil {
		return nil, fmt.Errorf("could not spawn endpoint for %s: %w", address, err)
	}
	e.endpoints[address] = pid

	return &endpoint{exchange: e, inbox: inbox}, nil
}

// Shutdown stops all endpoint actors. Messages still in flight are
// discarded.
func (e *Exchange) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for address, pid := range e.endpoints {
		e.system.Root.Stop(pid)
		delete(e.endpoints, address)
	}
}

func (e *Exchange) deliver(msg *messages.Message) error {
	e.mu.RLock()
	pid, ok := e.endpoints[msg.Recipient]
	e.mu.RUnlock()

	if !ok {
		return &DeliveryError{Recipient: msg.Recipient, Err: errors.New("unknown address")}
	}

	if e.jitter != nil {
		time.AfterFunc(e.jitter.Delay(), func() {
			e.system.Root.Send(pid, msg)
		})
		return nil
	}

	e.system.Root.Send(pid, msg)
	return nil
}

type endpoint struct {
	exchange *Exchange
	inbox    chan *messages.Message
}

func (t *endpoint) Send(msg *messages.Message) error {
	return t.exchange.deliver(msg)
}

func (t *endpoint) Receive(timeout time.Duration) (*messages.Message, bool) {
	if timeout <= 0 {
		select {
		case msg := <-t.inbox:
			return msg, true
		default:
			return nil, false
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-t.inbox:
		return msg, true
	case <-timer.C:
		return nil, false
	}
}
