package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/handiism/f1rdf/internal/config"
	"github.com/handiism/f1rdf/internal/ergast"
	"github.com/handiism/f1rdf/internal/export"
	"github.com/handiism/f1rdf/internal/http"
	"github.com/handiism/f1rdf/internal/logging"
	"github.com/handiism/f1rdf/internal/tui"
)

func main() {
	var (
		configFlag = flag.String("config", "", "Path to a JSON or YAML config file")
		outputFlag = flag.String("output", "", "Output directory (overrides config)")
		logFlag    = flag.String("log-file", "", "Write logs to this file instead of discarding them")
	)
	flag.Parse()

	if err := run(*configFlag, *outputFlag, *logFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, output, logPath string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	settings := config.DefaultSettings()
	if configPath != "" {
		var err error
		if settings, err = config.Load(configPath); err != nil {
			return err
		}
	} else if err := settings.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if output != "" {
		settings.OutputDir = output
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	// Log lines would draw over the UI, so they go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logging.SetupWriter(logOut, settings.LogLevel, settings.LogFormat)

	client := http.NewClient(
		http.WithUserAgent(settings.UserAgent),
		http.WithTimeout(settings.RequestTimeout.Duration),
	)
	provider := ergast.NewProvider(client, ergast.Config{BaseURL: settings.BaseURL, PageSize: settings.PageSize})

	return tui.Run(tui.Options{
		Provider:      provider,
		Calendar:      provider,
		Concurrency:   settings.MaxConcurrentSections,
		OutputDir:     settings.OutputDir,
		DefaultSeason: settings.DefaultSeason,
		Save: export.SaveOptions{
			SectionFiles: settings.WriteSectionFiles,
			Workbook:     settings.WriteWorkbook,
		},
	})
}
