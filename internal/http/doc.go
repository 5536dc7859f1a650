// Package http provides the HTTP client used to talk to the race data API.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - JSON response decoding
//   - Typed errors for non-200 responses
//
// # Basic Usage
//
//	client := http.NewClient(http.WithUserAgent("f1rdf/1.0"))
//
//	var resp dto.Response
//	err := client.GetJSON(ctx, url, &resp)
//
//	var statusErr *http.StatusError
//	if errors.As(err, &statusErr) && statusErr.Code == 429 {
//	    // rate limited
//	}
package http
