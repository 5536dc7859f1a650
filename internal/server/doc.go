// Package server exposes the section catalog and event exports over HTTP.
//
// Routes:
//
//	GET /healthz
//	GET /api/sections
//	GET /api/seasons/{season}/events
//	GET /api/seasons/{season}/events/{round}/archive?sections=race_results,circuit_info
//	GET /api/seasons/{season}/events/{round}/workbook?sections=all
//	GET /api/seasons/{season}/events/{round}/sections/{section}
//
// Every export request runs one fetch batch for the requested sections and
// streams the result. Errors use a JSON envelope:
//
//	{"error": "no sections selected", "code": "NO_SECTIONS"}
package server
