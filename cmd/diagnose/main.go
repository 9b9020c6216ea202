// Command diagnose scrapes every configured source once and reports what each
// adapter returned. It never sends notifications and never touches the
// seen-set, so it is safe to run against production configuration.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"blog-notifier/internal/config"
	"blog-notifier/internal/infra/scraper"
	"blog-notifier/internal/observability/logging"
)

// SourceDiagnostic is the outcome of scraping one source.
type SourceDiagnostic struct {
	Source       string `json:"source"`
	Kind         string `json:"kind"`
	URL          string `json:"url"`
	Status       string `json:"status"` // "OK", "EMPTY", "DISABLED", "CONFIG_ERROR"
	ItemCount    int    `json:"item_count"`
	LatestTitle  string `json:"latest_title,omitempty"`
	LatestURL    string `json:"latest_url,omitempty"`
	LatestDate   string `json:"latest_date,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
}

func main() {
	jsonOut := flag.Bool("json", false, "print the report as JSON")
	sourcesFile := flag.String("sources", os.Getenv("SOURCES_FILE"), "YAML sources override file")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	slog.SetDefault(logging.NewLogger())

	sources, err := config.LoadSources(*sourcesFile)
	if err != nil {
		slog.Error("failed to load sources", slog.Any("error", err))
		os.Exit(1)
	}

	factory := scraper.NewFactory(&http.Client{Timeout: 90 * time.Second})
	diagnostics := diagnose(context.Background(), factory, sources)

	if *jsonOut {
		err = writeJSONReport(os.Stdout, diagnostics)
	} else {
		err = writeReport(os.Stdout, diagnostics)
	}
	if err != nil {
		slog.Error("failed to write report", slog.Any("error", err))
		os.Exit(1)
	}

	for _, d := range diagnostics {
		if d.Status != "OK" && d.Status != "DISABLED" {
			os.Exit(2)
		}
	}
}

func diagnose(ctx context.Context, factory *scraper.Factory, sources []scraper.SourceConfig) []SourceDiagnostic {
	diagnostics := make([]SourceDiagnostic, 0, len(sources))
	for _, src := range sources {
		diag := SourceDiagnostic{Source: string(src.Source), Kind: src.Kind, URL: src.URL}

		if src.Disabled {
			diag.Status = "DISABLED"
			diagnostics = append(diagnostics, diag)
			continue
		}

		adapter, err := factory.NewAdapter(src)
		if err != nil {
			diag.Status = "CONFIG_ERROR"
			diag.ErrorMessage = err.Error()
			diagnostics = append(diagnostics, diag)
			continue
		}

		start := time.Now()
		items := adapter.Scrape(ctx)
		diag.ResponseTime = time.Since(start).Milliseconds()
		diag.ItemCount = len(items)

		if len(items) == 0 {
			diag.Status = "EMPTY"
			diag.ErrorMessage = "adapter returned no items; see the warning log above for the cause"
		} else {
			diag.Status = "OK"
			diag.LatestTitle = items[0].Title
			diag.LatestURL = items[0].URL
			diag.LatestDate = items[0].Date
		}
		diagnostics = append(diagnostics, diag)
	}
	return diagnostics
}

func writeReport(w io.Writer, diagnostics []SourceDiagnostic) error {
	var okCount int
	for _, d := range diagnostics {
		if d.Status == "OK" {
			okCount++
		}
	}

	if _, err := fmt.Fprintf(w, "Source diagnostic report (%s)\nWorking: %d/%d\n\n",
		time.Now().Format(time.RFC3339), okCount, len(diagnostics)); err != nil {
		return err
	}
	for _, d := range diagnostics {
		if _, err := fmt.Fprintf(w, "[%s] %s (%s)\n  URL: %s\n  Items: %d | Response: %dms\n",
			d.Status, d.Source, d.Kind, d.URL, d.ItemCount, d.ResponseTime); err != nil {
			return err
		}
		if d.LatestURL != "" {
			if _, err := fmt.Fprintf(w, "  Latest: %s (%s)\n  %s\n", d.LatestTitle, d.LatestDate, d.LatestURL); err != nil {
				return err
			}
		}
		if d.ErrorMessage != "" {
			if _, err := fmt.Fprintf(w, "  Error: %s\n", d.ErrorMessage); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func writeJSONReport(w io.Writer, diagnostics []SourceDiagnostic) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(diagnostics)
}
