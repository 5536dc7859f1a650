package ergast

import (
	"context"
	"fmt"

	"github.com/handiism/f1rdf/internal/ergast/dto"
	"github.com/handiism/f1rdf/internal/logging"
)

// pages fetches every page of a listing. Paging stops once offset reaches
// the total reported by the first page.
func (p *Provider) pages(ctx context.Context, path string) ([]dto.MRData, error) {
	var out []dto.MRData
	for offset := 0; ; offset += p.pageSize {
		url := fmt.Sprintf("%s/%s.json?limit=%d&offset=%d", p.baseURL, path, p.pageSize, offset)

		var resp dto.Response
		if err := p.client.GetJSON(ctx, url, &resp); err != nil {
			return nil, err
		}
		out = append(out, resp.MRData)

		_, _, total := resp.MRData.Paging()
		if offset+p.pageSize >= total {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	if len(out) > 1 {
		logging.FromContext(ctx).Debug("paged listing", "path", path, "pages", len(out))
	}
	return out, nil
}

// races fetches a race listing, merging entries for the same round that
// were split across pages.
func (p *Provider) races(ctx context.Context, path string) ([]dto.Race, error) {
	pages, err := p.pages(ctx, path)
	if err != nil {
		return nil, err
	}

	var races []dto.Race
	for _, page := range pages {
		for _, r := range page.Races() {
			if n := len(races); n > 0 && races[n-1].Season == r.Season && races[n-1].Round == r.Round {
				mergeRace(&races[n-1], r)
				continue
			}
			races = append(races, r)
		}
	}
	return races, nil
}

// standings fetches a standings listing across pages.
func (p *Provider) standings(ctx context.Context, path string) ([]dto.StandingsList, error) {
	pages, err := p.pages(ctx, path)
	if err != nil {
		return nil, err
	}
	var lists []dto.StandingsList
	for _, page := range pages {
		lists = append(lists, page.Standings()...)
	}
	return lists, nil
}

func mergeRace(dst *dto.Race, src dto.Race) {
	dst.Results = append(dst.Results, src.Results...)
	dst.SprintResults = append(dst.SprintResults, src.SprintResults...)
	dst.QualifyingResults = append(dst.QualifyingResults, src.QualifyingResults...)
	dst.PitStops = append(dst.PitStops, src.PitStops...)
	dst.Laps = append(dst.Laps, src.Laps...)
}
