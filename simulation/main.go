package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	console "github.com/asynkron/goconsole"
	"github.com/rs/zerolog"

	"disaster-response-simulation/impl/agents"
	"disaster-response-simulation/impl/agents/coordinator"
	"disaster-response-simulation/impl/agents/field"
	"disaster-response-simulation/impl/config"
	"disaster-response-simulation/impl/eventlogger"
	"disaster-response-simulation/impl/report"
	"disaster-response-simulation/impl/transport"
	"disaster-response-simulation/impl/utils"
)

var (
	configFile = flag.String("config", "", "Path to the run configuration in yaml format")
	duration   = flag.Duration("duration", 0,
		"Overrides run_duration from the configuration")
)

func main() {
	flag.Parse()

	cfg, e := config.Load(*configFile)
	if e != nil {
		fmt.Fprintln(os.Stderr, e)
		os.Exit(1)
	}
	if *duration > 0 {
		cfg.RunDuration = config.Duration(*duration)
	}

	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	zerolog.SetGlobalLevel(level)
	diag := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	coordinatorFile := utils.OpenLogFile(cfg.CoordinatorLog)
	defer coordinatorFile.Close()
	fieldFile := utils.OpenLogFile(cfg.FieldLog)
	defer fieldFile.Close()

	exchange := transport.NewExchange()
	if cfg.Jitter.Enabled {
		exchange.WithJitter(transport.NewJitter(
			cfg.Jitter.Min.Std(), cfg.Jitter.Max.Std(), cfg.Jitter.Seed))
	}

	loop := agents.LoopConfig{
		ReceiveTimeout: cfg.ReceiveTimeout.Std(),
		IdleInterval:   cfg.IdleInterval.Std(),
	}

	coordinatorLog := eventlogger.InitEventLogger("", log.New(coordinatorFile, "", 0))
	coordinatorLog.WriteHeader("COORDINATOR", time.Now())

	coordinatorEndpoint, e := exchange.Attach(cfg.Coordinator)
	if e != nil {
		diag.Fatal().Err(e).Msg("could not attach coordinator")
	}

	fieldAddresses := make([]string, len(cfg.FieldAgents))
	for i, fa := range cfg.FieldAgents {
		fieldAddresses[i] = fa.Address
	}

	collectors := make([]*report.Collector, 0, len(cfg.FieldAgents)+1)
	coordinatorCollector := report.NewCollector(cfg.Coordinator)
	collectors = append(collectors, coordinatorCollector)

	fleet := []*agents.Agent{
		coordinator.New(coordinator.Config{
			Agent: agents.Config{
				Address:   cfg.Coordinator,
				Transport: coordinatorEndpoint,
				Log:       coordinatorLog,
				Diag:      diag,
				Loop:      loop,
				Collector: coordinatorCollector,
			},
			FieldAgents: fieldAddresses,
			RescueAgent: cfg.RescueAgent,
		}),
	}

	fieldSink := log.New(fieldFile, "", 0)
	for _, fa := range cfg.FieldAgents {
		endpoint, e := exchange.Attach(fa.Address)
		if e != nil {
			diag.Fatal().Err(e).Str("address", fa.Address).Msg("could not attach field agent")
		}
		collector := report.NewCollector(fa.Address)
		collectors = append(collectors, collector)

		fleet = append(fleet, field.New(field.Config{
			Agent: agents.Config{
				Address:   fa.Address,
				Transport: endpoint,
				Log:       eventlogger.InitEventLogger(fa.Name, fieldSink),
				Diag:      diag,
				Loop:      loop,
				Collector: collector,
			},
			Name:        fa.Name,
			Coordinator: cfg.Coordinator,
		}))
	}

	if *configFile != "" {
		watcher, e := config.NewWatcher(*configFile, func(next *config.Config) {
			if lvl, err := zerolog.ParseLevel(next.LogLevel); err == nil {
				zerolog.SetGlobalLevel(lvl)
				diag.Info().Str("log_level", next.LogLevel).Msg("log level updated")
			}
		})
		if e != nil {
			diag.Warn().Err(e).Msg("config watcher disabled")
		} else {
			defer watcher.Close()
		}
	}

	for _, a := range fleet {
		a.Start()
	}
	diag.Info().
		Int("agents", len(fleet)).
		Dur("duration", cfg.RunDuration.Std()).
		Msg("communication in progress, press Enter to stop early")

	stopped := make(chan struct{})
	go func() {
		_, _ = console.ReadLine()
		close(stopped)
	}()

	select {
	case <-time.After(cfg.RunDuration.Std()):
	case <-stopped:
	}

	for _, a := range fleet {
		a.Stop()
	}
	exchange.Shutdown()

	for _, c := range collectors {
		fmt.Println(c.Summary().String())
	}
	diag.Info().
		Str("coordinator_log", cfg.CoordinatorLog).
		Str("field_log", cfg.FieldLog).
		Msg("communication session completed")
}
