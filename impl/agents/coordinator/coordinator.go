package coordinator

import (
	"disaster-response-simulation/impl/agents"
	"disaster-response-simulation/impl/messages"
	"disaster-response-simulation/impl/utils"
)

// Config wires a coordinator agent.
type Config struct {
	Agent agents.Config

	// FieldAgents lists the addresses polled for status updates.
	FieldAgents []string
	// RescueAgent is the fixed dispatch target for rescue requests.
	RescueAgent string
}

// New builds the coordinator: the central agent that collects status
// reports from the field and dispatches rescue teams on disaster alerts.
func New(config Config) *agents.Agent {
	a := agents.New(config.Agent)
	c := &behaviour{
		agent:       a,
		fieldAgents: config.FieldAgents,
		rescueAgent: config.RescueAgent,
	}

	a.Handle(messages.Inform, c.handleInform)
	a.Handle(messages.Request, c.handleRequest)
	a.Handle(messages.Agree, c.handleAgree)
	a.Proactive(c.maybeRequestStatus)

	return a
}

type behaviour struct {
	agent       *agents.Agent
	fieldAgents []string
	rescueAgent string
}

// handleInform records a reported status and dispatches a rescue team
// when the report carries a disaster indicator.
func (c *behaviour) handleInform(sender string, payload messages.Payload) {
	c.agent.Diag().Info().
		Str("sender", sender).
		Str("status", payload.Get("status", "unknown")).
		Msg("status received")

	if payload.Has("disaster_detected") {
		c.agent.Diag().Warn().
			Str("sender", sender).
			Str("disaster", payload["disaster_detected"]).
			Str("location", payload.Get("location", "unknown")).
			Msg("disaster alert")
		c.dispatchRescueTeam(payload.Get("location", "unknown"))
	}
}

// handleRequest agrees to every request. The coordinator never refuses
// and models no negotiation state.
func (c *behaviour) handleRequest(sender string, payload messages.Payload) {
	requested := payload.Get("request", "unknown")

	c.agent.Diag().Info().
		Str("sender", sender).
		Str("request", requested).
		Msg("request received")

	_ = c.agent.Send(sender, messages.Agree, messages.Payload{
		"agreed_action": requested,
		"timestamp":     utils.FormatClock(c.agent.Now()),
	})
}

// handleAgree is purely observational.
func (c *behaviour) handleAgree(sender string, payload messages.Payload) {
	c.agent.Diag().Info().
		Str("sender", sender).
		Str("agreed_action", payload.Get("agreed_action", "unknown")).
		Msg("agreement received")
}

// maybeRequestStatus polls every known field agent on cycles with no
// inbound message while the received-message counter sits on a multiple
// of three.
func (c *behaviour) maybeRequestStatus(state *agents.State, received bool) {
	if received || state.MessageCount%3 != 0 {
		return
	}
	for _, address := range c.fieldAgents {
		_ = c.agent.Send(address, messages.Request, messages.Payload{
			"request":   "status_update",
			"timestamp": utils.FormatClock(c.agent.Now()),
		})
	}
}

// dispatchRescueTeam always targets the single configured rescue agent,
// regardless of the reported location.
func (c *behaviour) dispatchRescueTeam(location string) {
	_ = c.agent.Send(c.rescueAgent, messages.Request, messages.Payload{
		"request":   "deploy_rescue_team",
		"location":  location,
		"priority":  "high",
		"timestamp": utils.FormatClock(c.agent.Now()),
	})
	c.agent.Diag().Info().Str("location", location).Msg("rescue team dispatched")
}
