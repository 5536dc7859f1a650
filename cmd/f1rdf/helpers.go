package main

import (
	"github.com/handiism/f1rdf/internal/config"
	"github.com/handiism/f1rdf/internal/ergast"
	"github.com/handiism/f1rdf/internal/fetch"
	"github.com/handiism/f1rdf/internal/http"
	"github.com/handiism/f1rdf/internal/section"
)

// newProvider builds the API provider from settings.
func newProvider(s *config.Settings) *ergast.Provider {
	client := http.NewClient(
		http.WithUserAgent(s.UserAgent+"/"+version),
		http.WithTimeout(s.RequestTimeout.Duration),
	)
	return ergast.NewProvider(client, ergast.Config{BaseURL: s.BaseURL, PageSize: s.PageSize})
}

func newOrchestrator(s *config.Settings, provider fetch.Provider, opts ...fetch.Option) *fetch.Orchestrator {
	opts = append([]fetch.Option{fetch.WithConcurrency(s.MaxConcurrentSections)}, opts...)
	return fetch.NewOrchestrator(section.Default(), provider, opts...)
}
