package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/f1rdf/internal/fetch"
	"github.com/handiism/f1rdf/internal/model"
	"github.com/handiism/f1rdf/internal/section"
)

type fakeCalendar struct {
	events []model.Event
}

func (c fakeCalendar) Schedule(ctx context.Context, season int) ([]model.Event, error) {
	if season != 2024 {
		return nil, errors.New("upstream unavailable")
	}
	return c.events, nil
}

func (c fakeCalendar) EventByRound(ctx context.Context, key model.SelectionKey) (model.Event, error) {
	for _, e := range c.events {
		if e.Key() == key {
			return e, nil
		}
	}
	return model.Event{}, errors.New("not found")
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	provider := fetch.Dispatch{
		section.RaceResults: func(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
			tbl := model.NewTable("Position", "Driver")
			tbl.Append(1, "LEC")
			return model.TablePayload(tbl), nil
		},
		section.CircuitInfo: func(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
			return model.RecordPayload(model.NewRecord().Set("name", "Monte-Carlo")), nil
		},
		section.SprintResults: func(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
			return model.Payload{}, fetch.ErrNoData
		},
		section.LapTimes: func(ctx context.Context, key model.SelectionKey) (model.Payload, error) {
			return model.Payload{}, errors.New("timeout")
		},
	}
	calendar := fakeCalendar{events: []model.Event{{
		Season: 2024, Round: 8, Name: "Monaco Grand Prix", Country: "Monaco",
		Date:     time.Date(2024, 5, 26, 13, 0, 0, 0, time.UTC),
		Sessions: []model.Session{{Name: "Race", Start: time.Date(2024, 5, 26, 13, 0, 0, 0, time.UTC), HasTime: true}},
	}}}

	srv := New(fetch.NewOrchestrator(section.Default(), provider), calendar)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func decodeError(t *testing.T, body []byte) errorBody {
	t.Helper()
	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e))
	return e
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestSections(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/api/sections")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []sectionJSON
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, section.Default().Len())
	assert.Equal(t, section.RaceResults, got[0].ID)
	assert.Equal(t, "structured", got[2].Shape)
}

func TestEvents(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/api/seasons/2024/events")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var events []eventJSON
	require.NoError(t, json.Unmarshal(body, &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Monaco Grand Prix", events[0].Name)
	assert.Equal(t, "conventional", events[0].Format)

	resp, _ = get(t, ts, "/api/seasons/2023/events")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	resp, _ = get(t, ts, "/api/seasons/nineteen/events")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestArchive(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/api/seasons/2024/events/8/archive?sections=race_results,circuit_info,sprint_results,lap_times")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="F1_Data_2024_Monaco_Grand_Prix.zip"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, section.LapTimes, resp.Header.Get(headerFailed))
	assert.Equal(t, section.SprintResults, resp.Header.Get(headerEmpty))

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"race_results.csv", "circuit_info.json"}, names)
}

func TestArchive_BadRequests(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		path string
		code string
	}{
		{"no sections", "/api/seasons/2024/events/8/archive", codeNoSections},
		{"unknown section", "/api/seasons/2024/events/8/archive?sections=bogus", codeUnknownSection},
		{"bad round", "/api/seasons/2024/events/0/archive?sections=all", codeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, body).Code)
		})
	}
}

func TestArchive_UnknownEventName(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := get(t, ts, "/api/seasons/2024/events/3/archive?sections=race_results")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="F1_Data_2024_Round_3.zip"`, resp.Header.Get("Content-Disposition"))
}

func TestSection(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/api/seasons/2024/events/8/sections/race_results")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, "Position,Driver\n1,LEC\n", string(body))

	resp, body = get(t, ts, "/api/seasons/2024/events/8/sections/circuit_info")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"name":"Monte-Carlo"}`, string(body))

	resp, _ = get(t, ts, "/api/seasons/2024/events/8/sections/sprint_results")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = get(t, ts, "/api/seasons/2024/events/8/sections/lap_times")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	e := decodeError(t, body)
	assert.Equal(t, "timeout", e.Error)
	assert.Equal(t, section.LapTimes, e.Section)

	resp, _ = get(t, ts, "/api/seasons/2024/events/8/sections/bogus")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWorkbook(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/api/seasons/2024/events/8/workbook?sections=all")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, body)
	assert.Contains(t, resp.Header.Get(headerFailed), section.LapTimes)
	assert.Equal(t, section.SprintResults, resp.Header.Get(headerEmpty))
	assert.Equal(t, `attachment; filename="F1_Data_2024_Monaco_Grand_Prix.xlsx"`, resp.Header.Get("Content-Disposition"))

	resp, _ = get(t, ts, "/api/seasons/2024/events/8/workbook?sections=circuit_info")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
