package messages

import (
	"fmt"
	"time"
)

// Performative is the FIPA-ACL speech act tag carried by every message.
type Performative string

const (
	Inform         Performative = "inform"          // share information
	Request        Performative = "request"         // request action or information
	Propose        Performative = "propose"         // propose an action
	AcceptProposal Performative = "accept-proposal" // accept a proposal
	Refuse         Performative = "refuse"          // refuse a request
	Agree          Performative = "agree"           // agree to perform an action
	Confirm        Performative = "confirm"         // confirm truth of a statement
)

// Message is one ACL message between exactly one sender and one
// recipient. It is a value: construct it with NewMessage and do not
// mutate it afterwards. The timestamp records creation time for logging
// and latency measurement only, it carries no protocol ordering.
type Message struct {
	Performative Performative
	Sender       string
	Recipient    string
	Body         string
	Timestamp    time.Time
}

func NewMessage(
	performative Performative,
	sender string,
	recipient string,
	payload Payload,
	now time.Time,
) *Message {
	return &Message{
		Performative: performative,
		Sender:       sender,
		Recipient:    recipient,
		Body:         payload.Encode(),
		Timestamp:    now,
	}
}

// Content parses the message body, degrading to a raw-text payload on
// malformed bodies.
func (m *Message) Content() Payload {
	return ParsePayload(m.Body)
}

func (m *Message) ToString() string {
	return fmt.Sprintf("{%s %s->%s %s}", m.Performative, m.Sender, m.Recipient, m.Body)
}
