package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cuemby/chainflow/pkg/config"
	"github.com/cuemby/chainflow/pkg/engine"
	"github.com/cuemby/chainflow/pkg/log"
	"github.com/cuemby/chainflow/pkg/metrics"
	"github.com/cuemby/chainflow/pkg/telemetry"
)

var runCmd = &cobra.Command{
	Use:   "run -f topology.yaml",
	Short: "Build a chain-topology manifest and run its engine",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringP("file", "f", "", "topology YAML file to run (required)")
	runCmd.Flags().String("metrics-addr", "127.0.0.1:9090", "address to serve /metrics, /health, /ready and /live on")
	runCmd.Flags().String("admin-addr", "127.0.0.1:9091", "address to serve the send-event admin endpoint on")
	runCmd.Flags().String("telemetry-addr", "", "address to serve the live telemetry websocket on (disabled if empty)")
	_ = runCmd.MarkFlagRequired("file")
}

func runRun(cmd *cobra.Command, _ []string) error {
	filename, _ := cmd.Flags().GetString("file")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	adminAddr, _ := cmd.Flags().GetString("admin-addr")
	telemetryAddr, _ := cmd.Flags().GetString("telemetry-addr")

	cfg, err := config.Load(filename)
	if err != nil {
		return err
	}

	if cfg.Log.Level != "" {
		log.Init(log.Config{Level: log.Level(cfg.Log.Level), JSONOutput: cfg.Log.JSON})
	}

	tickerInterval, err := cfg.Engine.TickerDuration()
	if err != nil {
		return err
	}

	broker := telemetry.NewBroker()
	broker.Start()
	defer broker.Stop()

	metricsElementHook, metricsDispatchHook, metricsDropHook := metrics.Hooks()
	telemetryElementHook, telemetryDispatchHook, telemetryDropHook := telemetry.Hooks(broker)

	eng, err := buildEngine(cfg, engine.Config{
		Ticker:              engine.RealTicker(tickerInterval),
		SystemQueueCapacity: cfg.Engine.SystemQueueCapacity,
		ChainQueueCapacity:  cfg.Engine.ChainQueueCapacity,
		OnElementRun:        fanOutElementHooks(metricsElementHook, telemetryElementHook),
		OnDispatch:          fanOutDispatchHooks(metricsDispatchHook, telemetryDispatchHook),
		OnEventDropped:      fanOutDropHooks(metricsDropHook, telemetryDropHook),
	})
	if err != nil {
		return err
	}

	metrics.SetVersion(Version)
	metrics.BindEngine(eng)
	metrics.RegisterComponent("engine", true, "finalized")
	metrics.RegisterComponent("dual_queue", true, "finalized")
	metrics.RegisterComponent("telemetry", true, "running")

	collector := metrics.NewCollector(eng)
	collector.Start()
	defer collector.Stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/health", metrics.HealthHandler())
	mux.HandleFunc("/ready", metrics.ReadyHandler())
	mux.HandleFunc("/live", metrics.LivenessHandler())
	go func() {
		if err := http.ListenAndServe(metricsAddr, mux); err != nil && err != http.ErrServerClosed {
			log.Logger.Error().Err(err).Msg("metrics server error")
		}
	}()
	fmt.Printf("✓ metrics endpoint: http://%s/metrics\n", metricsAddr)

	adminMux := http.NewServeMux()
	adminMux.HandleFunc("/events", adminHandler(eng))
	go func() {
		if err := http.ListenAndServe(adminAddr, adminMux); err != nil && err != http.ErrServerClosed {
			log.Logger.Error().Err(err).Msg("admin server error")
		}
	}()
	fmt.Printf("✓ admin endpoint: http://%s/events\n", adminAddr)

	if telemetryAddr != "" {
		telemetryMux := http.NewServeMux()
		telemetryMux.HandleFunc("/telemetry", telemetry.Handler(broker))
		go func() {
			if err := http.ListenAndServe(telemetryAddr, telemetryMux); err != nil && err != http.ErrServerClosed {
				log.Logger.Error().Err(err).Msg("telemetry server error")
			}
		}()
		fmt.Printf("✓ telemetry endpoint: ws://%s/telemetry\n", telemetryAddr)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := eng.Start(); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	fmt.Println("chainflow is running. Press Ctrl+C to stop.")
	select {
	case <-sigCh:
		fmt.Println("\nshutting down...")
		if err := eng.TerminateSystem(); err != nil {
			return fmt.Errorf("terminate system: %w", err)
		}
		<-errCh
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("engine stopped with error: %w", err)
		}
		fmt.Println("engine exited: no active chains remained")
	}

	fmt.Println("✓ shutdown complete")
	return nil
}
