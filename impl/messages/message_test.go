package messages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMessageEncodesPayload(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := NewMessage(Request, "coordinator", "fieldagent1",
		Payload{"request": "status_update"}, at)

	assert.Equal(t, Request, msg.Performative)
	assert.Equal(t, "coordinator", msg.Sender)
	assert.Equal(t, "fieldagent1", msg.Recipient)
	assert.Equal(t, `{"request":"status_update"}`, msg.Body)
	assert.Equal(t, at, msg.Timestamp)
}

func TestContentDegradesOnMalformedBody(t *testing.T) {
	msg := &Message{Performative: Inform, Body: "not json"}

	assert.Equal(t, Payload{"text": "not json"}, msg.Content())
}
