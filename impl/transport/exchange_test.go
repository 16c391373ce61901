package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disaster-response-simulation/impl/messages"
)

func TestExchangeRoundTrip(t *testing.T) {
	exchange := NewExchange()
	defer exchange.Shutdown()

	sender, err := exchange.Attach("coordinator")
	require.NoError(t, err)
	receiver, err := exchange.Attach("fieldagent1")
	require.NoError(t, err)

	msg := messages.NewMessage(messages.Request, "coordinator", "fieldagent1",
		messages.Payload{"request": "status_update"}, time.Now())
	require.NoError(t, sender.Send(msg))

	got, ok := receiver.Receive(time.Second)
	require.True(t, ok)
	assert.Equal(t, msg, got)
}

func TestUnknownRecipientFailsDelivery(t *testing.T) {
	exchange := NewExchange()
	defer exchange.Shutdown()

	sender, err := exchange.Attach("coordinator")
	require.NoError(t, err)

	msg := messages.NewMessage(messages.Inform, "coordinator", "nobody",
		messages.Payload{"status": "operational"}, time.Now())
	err = sender.Send(msg)

	var deliveryErr *DeliveryError
	require.ErrorAs(t, err, &deliveryErr)
	assert.Equal(t, "nobody", deliveryErr.Recipient)
}

func TestDuplicateAttachRejected(t *testing.T) {
	exchange := NewExchange()
	defer exchange.Shutdown()

	_, err := exchange.Attach("coordinator")
	require.NoError(t, err)

	_, err = exchange.Attach("coordinator")
	assert.Error(t, err)
}

func TestReceiveTimesOutWithoutMessage(t *testing.T) {
	exchange := NewExchange()
	defer exchange.Shutdown()

	endpoint, err := exchange.Attach("coordinator")
	require.NoError(t, err)

	msg, ok := endpoint.Receive(20 * time.Millisecond)
	assert.False(t, ok)
	assert.Nil(t, msg)

	msg, ok = endpoint.Receive(0)
	assert.False(t, ok)
	assert.Nil(t, msg)
}

func TestJitteredDeliveryArrives(t *testing.T) {
	exchange := NewExchange().WithJitter(NewJitter(time.Millisecond, 5*time.Millisecond, 7))
	defer exchange.Shutdown()

	sender, err := exchange.Attach("coordinator")
	require.NoError(t, err)
	receiver, err := exchange.Attach("fieldagent1")
	require.NoError(t, err)

	msg := messages.NewMessage(messages.Inform, "coordinator", "fieldagent1",
		messages.Payload{"status": "operational"}, time.Now())
	require.NoError(t, sender.Send(msg))

	_, ok := receiver.Receive(time.Second)
	assert.True(t, ok)
}

func TestJitterSeedReproducesDelays(t *testing.T) {
	first := NewJitter(time.Millisecond, 10*time.Millisecond, 42)
	second := NewJitter(time.Millisecond, 10*time.Millisecond, 42)

	for i := 0; i < 10; i++ {
		delay := first.Delay()
		assert.Equal(t, delay, second.Delay())
		assert.GreaterOrEqual(t, delay, time.Millisecond)
		assert.Less(t, delay, 10*time.Millisecond)
	}
}
