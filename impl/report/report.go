package report

import (
	"fmt"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"disaster-response-simulation/impl/messages"
)

// Collector accumulates one agent's traffic counters over a run. Each
// agent owns its own collector; Summary is read after the agent stopped.
type Collector struct {
	mu sync.Mutex

	agent     string
	sent      map[messages.Performative]int
	received  map[messages.Performative]int
	latencies []float64 // seconds
	failures  int
}

func NewCollector(agent string) *Collector {
	c := new(Collector)
	c.agent = agent
	c.sent = make(map[messages.Performative]int)
	c.received = make(map[messages.Performative]int)
	return c
}

func (c *Collector) MessageSent(performative messages.Performative) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent[performative]++
}

func (c *Collector) MessageReceived(performative messages.Performative, latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received[performative]++
	c.latencies = append(c.latencies, latency.Seconds())
}

func (c *Collector) DeliveryFailed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures++
}

// Summary describes one agent's traffic at the end of a run.
type Summary struct {
	Agent    string
	Sent     int
	Received int
	Failures int

	// Latency statistics over all received messages, zero when fewer
	// than two messages arrived.
	MeanLatency   time.Duration
	StdDevLatency time.Duration
}

func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Summary{Agent: c.agent, Failures: c.failures}
	for _, n := range c.sent {
		s.Sent += n
	}
	for _, n := range c.received {
		s.Received += n
	}

	if len(c.latencies) > 1 {
		s.MeanLatency = secondsToDuration(stat.Mean(c.latencies, nil))
		s.StdDevLatency = secondsToDuration(stat.StdDev(c.latencies, nil))
	} else if len(c.latencies) == 1 {
		s.MeanLatency = secondsToDuration(c.latencies[0])
	}

	return s
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"%s: sent=%d received=%d failures=%d latency mean=%v stddev=%v",
		s.Agent, s.Sent, s.Received, s.Failures, s.MeanLatency, s.StdDevLatency)
}
