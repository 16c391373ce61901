package eventlogger

import (
	"fmt"
	"log"
	"strings"
	"time"

	"disaster-response-simulation/impl/messages"
	"disaster-response-simulation/impl/utils"
)

const bannerWidth = 70

// Direction of a logged message relative to the agent owning the log.
const (
	DirectionSent     = "SENT"
	DirectionReceived = "RECEIVED"
)

// EventLogger writes the append-only message audit log for one agent.
// Entries for sent and received messages share one shape and differ only
// in the direction marker. Output is byte-stable for a fixed clock, which
// the replay tests rely on; keep the underlying *log.Logger free of
// prefixes and flags.
type EventLogger struct {
	agent  string
	logger *log.Logger
}

// InitEventLogger creates the audit logger for one agent. The name is
// written as an "Agent:" line in every entry so that agents sharing a
// sink stay distinguishable; pass an empty name for a log file that
// serves a single agent.
func InitEventLogger(agent string, logger *log.Logger) *EventLogger {
	l := new(EventLogger)
	l.agent = agent
	l.logger = logger
	return l
}

// WriteHeader writes the banner that opens a fresh log file.
func (el *EventLogger) WriteHeader(title string, startedAt time.Time) {
	bar := strings.Repeat("=", bannerWidth)

	var b strings.Builder
	b.WriteString(bar + "\n")
	b.WriteString("AGENT COMMUNICATION LOG - " + title + "\n")
	b.WriteString("Started: " + utils.FormatTimestamp(startedAt) + "\n")
	b.WriteString(bar + "\n")

	el.logger.Print(b.String())
}

// LogSent records a message this agent sent.
func (el *EventLogger) LogSent(msg *messages.Message, at time.Time) {
	el.logEntry(DirectionSent, msg, msg.Recipient, at)
}

// LogReceived records a message this agent received.
func (el *EventLogger) LogReceived(msg *messages.Message, at time.Time) {
	el.logEntry(DirectionReceived, msg, msg.Sender, at)
}

func (el *EventLogger) logEntry(
	direction string,
	msg *messages.Message,
	counterparty string,
	at time.Time,
) {
	performative := string(msg.Performative)

	var b strings.Builder
	b.WriteString("\n" + strings.Repeat("=", bannerWidth) + "\n")
	b.WriteString(fmt.Sprintf(
		"[%s] %s - %s\n", utils.FormatTimestamp(at), direction, strings.ToUpper(performative)))
	b.WriteString(strings.Repeat("-", bannerWidth) + "\n")
	if el.agent != "" {
		b.WriteString("Agent: " + el.agent + "\n")
	}
	b.WriteString("From/To: " + counterparty + "\n")
	b.WriteString("Performative: " + performative + "\n")
	b.WriteString("Content: " + msg.Body + "\n")
	b.WriteString(strings.Repeat("=", bannerWidth) + "\n")

	el.logger.Print(b.String())
}
