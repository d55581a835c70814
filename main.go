package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"abandon-analyzer/analysis"
	"abandon-analyzer/config"
	"abandon-analyzer/errors"
	"abandon-analyzer/formatter"
	"abandon-analyzer/loader"
	"abandon-analyzer/metrics"
	"abandon-analyzer/models"
)

func main() {
	// Configure logger
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Environment supplies the flag defaults; flags win when both are set
	cfg := config.Load()
	inbound := flag.String("inbound", cfg.InboundPath, "Inbound queue log CSV file (required)")
	outbound := flag.String("outbound", cfg.OutboundPath, "Outbound dialer log CSV file (optional)")
	outputDir := flag.String("output-dir", cfg.OutputDir, "Directory for CSV report sheets")
	format := flag.String("format", cfg.Format, "Output format: text|json|csv")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Address to expose Prometheus metrics (e.g., :9090)")
	pushGateway := flag.String("push-url", cfg.PushURL, "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	wait := flag.Bool("wait", false, "Keep process running after completion to allow for metric scraping")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Warn().Str("level", *logLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Validate required inbound flag
	if *inbound == "" {
		fmt.Println("Error: -inbound flag is required")
		fmt.Println("\nUsage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Validate format enum
	validFormats := map[string]bool{"text": true, "json": true, "csv": true}
	if !validFormats[*format] {
		fmt.Printf("Error: format must be one of: text, json, csv (got: %s)\n", *format)
		os.Exit(1)
	}

	// Start metrics server if address provided
	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr)
	}

	bar := progressbar.Default(4)

	inboundRecords := loadLog(*inbound, loader.LoadInbound, true)
	bar.Add(1)

	var outboundRecords []models.CallRecord
	if *outbound != "" {
		outboundRecords = loadLog(*outbound, loader.LoadOutbound, false)
	} else {
		log.Warn().Msg("no outbound log given, recovery search is inbound-only")
	}
	bar.Add(1)

	analyzer := analysis.New(log.Logger)
	result := analyzer.Run(inboundRecords, outboundRecords, time.Now())
	bar.Add(1)

	switch *format {
	case "json":
		fmt.Print(formatter.FormatJSON(result))
	case "csv":
		writeSheets(*outputDir, result)
	default: // "text"
		fmt.Print(formatter.FormatText(result))
	}
	bar.Add(1)

	// Handle metrics pushing or waiting
	if *pushGateway != "" {
		if err := push.New(*pushGateway, "abandon_analyzer").Gatherer(metrics.Registry).Push(); err != nil {
			log.Error().Err(err).Msg("error pushing to Pushgateway")
		} else {
			log.Info().Msg("metrics pushed to Pushgateway")
		}
	}

	if *wait && *metricsAddr != "" {
		fmt.Println("\nProcess kept alive for metric scraping. Press Ctrl+C to exit.")
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		fmt.Println("\nExiting...")
	} else if *metricsAddr != "" && *pushGateway == "" {
		// Small delay to allow final scrape if not waiting explicitly
		// but typically batch jobs should use pushgateway or wait
		time.Sleep(100 * time.Millisecond)
	}
}

// loadLog reads one log file. A missing or unreadable inbound file is
// fatal; for the outbound file it only degrades the recovery search to
// inbound-only.
func loadLog(path string, load func(io.Reader) ([]models.CallRecord, []errors.Issue, error), required bool) []models.CallRecord {
	start := time.Now()
	file, err := os.Open(path)
	if err != nil {
		if required {
			log.Fatal().Err(err).Str("path", path).Msg("cannot open inbound log")
		}
		log.Warn().Err(err).Str("path", path).Msg("cannot open outbound log, recovery search is inbound-only")
		return nil
	}
	defer file.Close()

	records, issues, err := load(file)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("cannot read log")
	}
	metrics.LoadDurationSeconds.Observe(time.Since(start).Seconds())
	for _, issue := range issues {
		metrics.QualityIssuesTotal.WithLabelValues(string(issue.Kind)).Inc()
		log.Warn().Str("kind", string(issue.Kind)).Msg(issue.Detail)
	}
	if len(records) > 0 {
		metrics.RecordsReadTotal.WithLabelValues(string(records[0].Source)).Add(float64(len(records)))
	}
	log.Info().Str("path", path).Int("records", len(records)).Msg("log loaded")
	return records
}

func serveMetrics(addr string) {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok","service":"abandon-analyzer"}`)
	})
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	log.Info().Str("addr", addr).Msg("metrics server listening")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Error().Err(err).Msg("metrics server error")
	}
}

// writeSheets writes the six CSV report sheets under dir.
func writeSheets(dir string, result *analysis.Result) {
	sheets := map[string]func(*analysis.Result) string{
		"kpi_standard.csv":       formatter.FormatKPICSV,
		"initial_abandon.csv":    formatter.FormatInitialAbandonCSV,
		"recovery_details.csv":   formatter.FormatRecoveryCSV,
		"final_phone_status.csv": formatter.FormatPhoneStatusCSV,
		"team_assignments.csv":   formatter.FormatAssignmentsCSV,
		"daily_breakdown.csv":    formatter.FormatDailyCSV,
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("cannot create output directory")
	}
	for name, render := range sheets {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(render(result)), 0o644); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("cannot write report sheet")
		}
		log.Info().Str("path", path).Msg("report sheet written")
	}
}
