package field

import (
	"fmt"

	"disaster-response-simulation/impl/agents"
	"disaster-response-simulation/impl/messages"
	"disaster-response-simulation/impl/utils"
)

// disasters are the categories a field agent cycles through when
// raising alerts, indexed by CycleCount modulo their number.
var disasters = []string{"Fire", "Flood", "Earthquake", "Building Collapse"}

// Config wires a field agent.
type Config struct {
	Agent agents.Config

	// Name is the human readable agent name recorded in status reports
	// and audit entries.
	Name string
	// Coordinator is the address status and disaster reports go to.
	Coordinator string
}

// New builds a field agent: it answers status and rescue requests and
// proactively reports its status and detected disasters.
func New(config Config) *agents.Agent {
	a := agents.New(config.Agent)
	f := &behaviour{
		agent:       a,
		name:        config.Name,
		coordinator: config.Coordinator,
	}

	a.Handle(messages.Request, f.handleRequest)
	a.Proactive(f.maybeSendStatus)
	a.Proactive(f.maybeReportDisaster)

	return a
}

type behaviour struct {
	agent       *agents.Agent
	name        string
	coordinator string
}

// handleRequest dispatches on the requested action. Unrecognized actions
// are ignored.
func (f *behaviour) handleRequest(sender string, payload messages.Payload) {
	switch payload.Get("request", "") {
	case "status_update":
		f.sendStatusInform()

	case "deploy_rescue_team":
		location := payload.Get("location", "unknown")
		_ = f.agent.Send(sender, messages.Agree, messages.Payload{
			"agreed_action": "deploy_rescue_team",
			"location":      location,
			"eta":           "5 minutes",
			"timestamp":     utils.FormatClock(f.agent.Now()),
		})
		f.agent.Diag().Info().Str("location", location).Msg("deploying rescue team")
	}
}

// maybeSendStatus reports operational status every 4th cycle.
func (f *behaviour) maybeSendStatus(state *agents.State, _ bool) {
	if state.CycleCount%4 == 0 {
		f.sendStatusInform()
	}
}

// maybeReportDisaster raises an alert every 5th cycle, cycling
// deterministically through the disaster categories. It is independent
// of maybeSendStatus; both fire on cycles divisible by 20.
func (f *behaviour) maybeReportDisaster(state *agents.State, _ bool) {
	if state.CycleCount%5 != 0 {
		return
	}

	disasterType := disasters[state.CycleCount%len(disasters)]
	_ = f.agent.Send(f.coordinator, messages.Inform, messages.Payload{
		"status":            "alert",
		"disaster_detected": disasterType,
		"severity":          "high",
		"location":          zone(state.CycleCount),
		"timestamp":         utils.FormatClock(f.agent.Now()),
	})
	f.agent.Diag().Warn().
		Str("disaster", disasterType).
		Str("location", zone(state.CycleCount)).
		Msg("disaster detected")
}

func (f *behaviour) sendStatusInform() {
	_ = f.agent.Send(f.coordinator, messages.Inform, messages.Payload{
		"status":    "operational",
		"agent":     f.name,
		"location":  zone(f.agent.State().CycleCount),
		"resources": "available",
		"timestamp": utils.FormatClock(f.agent.Now()),
	})
}

// zone derives the location tag from the cycle counter.
func zone(cycle int) string {
	return fmt.Sprintf("Zone-%d", cycle%10)
}
