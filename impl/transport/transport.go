package transport

import (
	"fmt"
	"time"

	"disaster-response-simulation/impl/messages"
)

// Transport is one agent's endpoint into the message fabric. Send and
// Receive are the only operations the communication loop depends on;
// connection management, identity and delivery guarantees live behind
// this boundary.
type Transport interface {
	// Send delivers the message to its recipient. A *DeliveryError is
	// returned when the recipient is unknown or the fabric refuses the
	// message.
	Send(msg *messages.Message) error

	// Receive waits up to timeout for an inbound message. The second
	// return value is false when the timeout elapsed with no message,
	// which is a normal outcome, not an error. A non-positive timeout
	// polls without blocking.
	Receive(timeout time.Duration) (*messages.Message, bool)
}

// DeliveryError reports a failed send.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("delivery to %s failed", e.Recipient)
	}
	return fmt.Sprintf("delivery to %s failed: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
