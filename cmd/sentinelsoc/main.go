package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"sentinelsoc/config"
	"sentinelsoc/internal/detect"
	"sentinelsoc/internal/input/csvfile"
	"sentinelsoc/internal/input/jsonfile"
	inputredis "sentinelsoc/internal/input/redis"
	"sentinelsoc/internal/logger"
	"sentinelsoc/internal/metrics"
	"sentinelsoc/internal/narrative"
	"sentinelsoc/internal/output/alerthttp"
	"sentinelsoc/internal/output/alertjson"
	"sentinelsoc/internal/output/triagejson"
	"sentinelsoc/internal/triage"
	"sentinelsoc/pkg/models"
)

func findConfigFile(configArg string) string {
	if configArg != "" {
		path := configArg
		if _, err := os.Stat(path); err == nil {
			return path
		}
		log.Printf("Warning: config file not found at %s, trying default locations", path)
	}

	if _, err := os.Stat("sentinelsoc.yml"); err == nil {
		return "sentinelsoc.yml"
	}

	exePath, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exePath)
		path := filepath.Join(exeDir, "sentinelsoc.yml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "sentinelsoc.yml"
}

func applyDefaults(cfg *config.Config) {
	sc := &cfg.Sentinel

	if sc.Input.AuthEvents == "" {
		sc.Input.AuthEvents = "data/auth_events.csv"
	}
	if sc.Input.HostInventory == "" {
		sc.Input.HostInventory = "data/host_inventory.csv"
	}
	if sc.Input.FirewallLogs == "" {
		sc.Input.FirewallLogs = "data/firewall_logs.csv"
	}
	if sc.Input.Events.Mode == "" {
		sc.Input.Events.Mode = "file"
	}
	if sc.Input.Events.File == "" {
		sc.Input.Events.File = "data/events.json"
	}
	if sc.Input.Events.Redis.Addr == "" {
		sc.Input.Events.Redis.Addr = "127.0.0.1:6379"
	}
	if sc.Input.Events.Redis.Key == "" {
		sc.Input.Events.Redis.Key = "security_events"
	}
	if sc.Input.Feedback == "" {
		sc.Input.Feedback = "data/feedback.json"
	}

	if sc.Triage.Workers <= 0 {
		sc.Triage.Workers = 4
	}

	if sc.Narrative.Model == "" {
		sc.Narrative.Model = "nousresearch/hermes-3-llama-3.1-405b"
	}
	if sc.Narrative.APIKeyEnv == "" {
		sc.Narrative.APIKeyEnv = "OPENROUTER_API_KEY"
	}
	if sc.Narrative.Temperature <= 0 {
		sc.Narrative.Temperature = 0.2
	}
	if sc.Narrative.Timeout <= 0 {
		sc.Narrative.Timeout = 60 * time.Second
	}

	if sc.Output.Alerts.Mode == "" {
		sc.Output.Alerts.Mode = "file"
	}
	if sc.Output.Alerts.File.Path == "" {
		sc.Output.Alerts.File.Path = "output/alerts.jsonl"
	}
	if sc.Output.Triage.Path == "" {
		sc.Output.Triage.Path = "output/triage.jsonl"
	}

	if sc.Metrics.Listen == "" {
		sc.Metrics.Listen = ":9109"
	}
	if sc.Logging.Level == "" {
		sc.Logging.Level = "info"
	}
}

func setup(configArg string) (*config.Config, *metrics.Metrics) {
	configPath := findConfigFile(configArg)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyDefaults(cfg)

	if err := logger.Init(cfg.Sentinel.Logging.Enabled, cfg.Sentinel.Logging.Level, cfg.Sentinel.Logging.File, cfg.Sentinel.Logging.Console); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Infof("SentinelSOC starting")
	logger.Infof("Config loaded from: %s", configPath)

	m, registry := metrics.NewMetrics()
	if cfg.Sentinel.Metrics.Enabled {
		metrics.Serve(cfg.Sentinel.Metrics.Listen, registry)
	}

	return cfg, m
}

func loadSources(ctx context.Context, cfg *config.Config, m *metrics.Metrics) detect.Sources {
	var src detect.Sources

	auth, skipped, err := csvfile.LoadAuthEvents(cfg.Sentinel.Input.AuthEvents)
	if err != nil {
		logger.Errorf("Failed to load auth events: %v", err)
	}
	src.Auth = auth
	m.RecordsSkipped.WithLabelValues("auth").Add(float64(skipped))

	hosts, skipped, err := csvfile.LoadHostInventory(cfg.Sentinel.Input.HostInventory)
	if err != nil {
		logger.Errorf("Failed to load host inventory: %v", err)
	}
	src.Hosts = hosts
	m.RecordsSkipped.WithLabelValues("hosts").Add(float64(skipped))

	firewall, skipped, err := csvfile.LoadFirewallLogs(cfg.Sentinel.Input.FirewallLogs)
	if err != nil {
		logger.Errorf("Failed to load firewall logs: %v", err)
	}
	src.Firewall = firewall
	m.RecordsSkipped.WithLabelValues("firewall").Add(float64(skipped))

	switch cfg.Sentinel.Input.Events.Mode {
	case "redis":
		consumer, err := inputredis.NewConsumer(inputredis.Config{
			Addr:     cfg.Sentinel.Input.Events.Redis.Addr,
			Password: cfg.Sentinel.Input.Events.Redis.Password,
			DB:       cfg.Sentinel.Input.Events.Redis.DB,
			Key:      cfg.Sentinel.Input.Events.Redis.Key,
			MaxDrain: cfg.Sentinel.Input.Events.Redis.MaxDrain,
		})
		if err != nil {
			logger.Errorf("Failed to create Redis consumer: %v", err)
			break
		}
		events, skipped, err := consumer.Drain(ctx)
		if err != nil {
			logger.Errorf("Failed to drain Redis events: %v", err)
		}
		src.Events = events
		m.RecordsSkipped.WithLabelValues("events").Add(float64(skipped))
		consumer.Close()
	default:
		events, err := jsonfile.LoadEvents(cfg.Sentinel.Input.Events.File)
		if err != nil {
			logger.Errorf("Failed to load events: %v", err)
		}
		src.Events = events
	}

	return src
}

func buildDetectEngine(cfg *config.Config, m *metrics.Metrics) *detect.Engine {
	var sigmaEngine *detect.SigmaEngine
	if cfg.Sentinel.Rules.Enabled && cfg.Sentinel.Rules.Path != "" {
		engine, stats, err := detect.NewSigmaEngine(cfg.Sentinel.Rules.Path)
		if err != nil {
			log.Fatalf("Failed to load Sigma rules: %v", err)
		}
		sigmaEngine = engine
		logger.Infof("Sigma rules loaded: loaded=%d skipped_complex=%d skipped_invalid=%d files=%d",
			stats.Loaded, stats.SkippedComplex, stats.SkippedInvalid, stats.TotalFiles)
		if stats.Loaded == 0 {
			logger.Warnf("No compatible Sigma rules loaded; rule matching is effectively disabled")
		}
	}

	return detect.NewEngine(detect.Config{
		TravelSpeedMPH:           cfg.Sentinel.Detect.TravelSpeedMPH,
		PatchHighDays:            cfg.Sentinel.Detect.PatchHighDays,
		PatchCriticalDays:        cfg.Sentinel.Detect.PatchCriticalDays,
		PortWhitelist:            cfg.Sentinel.Detect.PortWhitelist,
		HighRiskPorts:            cfg.Sentinel.Detect.HighRiskPorts,
		FailedLoginCount:         cfg.Sentinel.Detect.FailedLoginCount,
		FailedLoginWindowMinutes: cfg.Sentinel.Detect.FailedLoginWindow,
	}, sigmaEngine, m)
}

func writeAlerts(cfg *config.Config, alerts []*models.Alert) {
	switch cfg.Sentinel.Output.Alerts.Mode {
	case "file":
		w, err := alertjson.NewWriter(cfg.Sentinel.Output.Alerts.File.Path)
		if err != nil {
			log.Fatalf("Failed to create alert file writer: %v", err)
		}
		defer w.Close()
		if err := w.WriteAlerts(alerts); err != nil {
			log.Fatalf("Failed to write alerts: %v", err)
		}
		logger.Infof("Wrote %d alert(s) to %s", len(alerts), cfg.Sentinel.Output.Alerts.File.Path)
	case "http":
		w, err := alerthttp.NewWriter(alerthttp.Config{
			URL:     cfg.Sentinel.Output.Alerts.HTTP.URL,
			Timeout: cfg.Sentinel.Output.Alerts.HTTP.Timeout,
			Headers: cfg.Sentinel.Output.Alerts.HTTP.Headers,
		})
		if err != nil {
			log.Fatalf("Failed to create alert HTTP writer: %v", err)
		}
		if err := w.WriteAlerts(alerts); err != nil {
			log.Fatalf("Failed to post alerts: %v", err)
		}
		logger.Infof("Posted %d alert(s) to %s", len(alerts), cfg.Sentinel.Output.Alerts.HTTP.URL)
	default:
		log.Fatalf("Unknown alert output mode: %s", cfg.Sentinel.Output.Alerts.Mode)
	}
}

func buildTriageEngine(cfg *config.Config, m *metrics.Metrics) *triage.Engine {
	var provider narrative.Provider
	if cfg.Sentinel.Narrative.Enabled {
		apiKey := os.Getenv(cfg.Sentinel.Narrative.APIKeyEnv)
		client, err := narrative.NewOpenRouterClient(narrative.OpenRouterConfig{
			URL:         cfg.Sentinel.Narrative.URL,
			APIKey:      apiKey,
			Model:       cfg.Sentinel.Narrative.Model,
			Temperature: cfg.Sentinel.Narrative.Temperature,
			Timeout:     cfg.Sentinel.Narrative.Timeout,
		})
		if err != nil {
			logger.Warnf("Narrative provider unavailable, using fallback summaries: %v", err)
		} else {
			provider = client
		}
	}

	adjust := triage.AdjustConfig{
		StepUp:   cfg.Sentinel.Triage.StepUp,
		CapUp:    cfg.Sentinel.Triage.CapUp,
		StepDown: cfg.Sentinel.Triage.StepDown,
		CapDown:  cfg.Sentinel.Triage.CapDown,
	}
	if adjust == (triage.AdjustConfig{}) {
		adjust = triage.DefaultAdjustConfig()
	}

	return triage.NewEngine(triage.Config{
		Adjust:  adjust,
		Workers: cfg.Sentinel.Triage.Workers,
	}, provider, m)
}

func triageAlerts(ctx context.Context, cfg *config.Config, m *metrics.Metrics, alerts []*models.Alert) {
	history, err := jsonfile.LoadFeedback(cfg.Sentinel.Input.Feedback)
	if err != nil {
		logger.Warnf("Failed to load feedback history, proceeding without: %v", err)
	}

	engine := buildTriageEngine(cfg, m)
	records := engine.Run(ctx, alerts, history)

	w, err := triagejson.NewWriter(cfg.Sentinel.Output.Triage.Path)
	if err != nil {
		log.Fatalf("Failed to create triage writer: %v", err)
	}
	defer w.Close()
	if err := w.WriteRecords(records); err != nil {
		log.Fatalf("Failed to write triage records: %v", err)
	}
	logger.Infof("Wrote %d triage record(s) to %s", len(records), cfg.Sentinel.Output.Triage.Path)
}

func runDetect(args []string) {
	cfg, m := setup(firstArg(args))
	ctx := context.Background()

	src := loadSources(ctx, cfg, m)
	engine := buildDetectEngine(cfg, m)
	alerts := engine.Run(src)
	writeAlerts(cfg, alerts)

	logger.Infof("Detection finished: %d alert(s)", len(alerts))
}

func runTriage(args []string) {
	cfg, m := setup(firstArg(args))
	ctx := context.Background()

	alerts, err := alertjson.ReadAlerts(cfg.Sentinel.Output.Alerts.File.Path)
	if err != nil {
		log.Fatalf("Failed to read alerts: %v", err)
	}

	triageAlerts(ctx, cfg, m, alerts)
	logger.Infof("Triage finished")
}

func runAll(args []string) {
	cfg, m := setup(firstArg(args))
	ctx := context.Background()

	src := loadSources(ctx, cfg, m)
	engine := buildDetectEngine(cfg, m)
	alerts := engine.Run(src)
	writeAlerts(cfg, alerts)

	triageAlerts(ctx, cfg, m, alerts)
	logger.Infof("Run finished: %d alert(s)", len(alerts))
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "detect":
			runDetect(os.Args[2:])
			return
		case "triage":
			runTriage(os.Args[2:])
			return
		case "run":
			runAll(os.Args[2:])
			return
		default:
			// Backward-compatible mode: first arg is config path.
			runAll(os.Args[1:])
			return
		}
	}

	runAll(nil)
}
