package source

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/exebyp-rgb/celebgo/internal/config"
	"github.com/exebyp-rgb/celebgo/internal/metrics"
	"github.com/exebyp-rgb/celebgo/internal/model"
	"github.com/exebyp-rgb/celebgo/internal/normalize"
	"github.com/exebyp-rgb/celebgo/internal/util"
)

// page wraps one Discovery API listing response. totalPages absent
// means a single page.
type page struct {
	Embedded *struct {
		Events []normalize.Record `json:"events"`
	} `json:"_embedded"`
	Page *struct {
		TotalPages int `json:"totalPages"`
	} `json:"page"`
}

type ticketmasterSource struct {
	api     config.APIConfig
	fetch   config.FetchConfig
	client  *http.Client
	limiter *util.Limiter
	now     func() time.Time
}

// NewTicketmaster builds the country-sharded Discovery API source. The
// limiter is shared with any other caller so the whole run stays inside
// one concurrency/pacing budget.
func NewTicketmaster(api config.APIConfig, fetch config.FetchConfig, limiter *util.Limiter) Source {
	return &ticketmasterSource{
		api:     api,
		fetch:   fetch,
		client:  util.NewHTTPClient(api.Timeout.Std()),
		limiter: limiter,
		now:     time.Now,
	}
}

func (s *ticketmasterSource) Name() string { return "ticketmaster" }

// Fetch sweeps every configured country shard sequentially and returns
// the combined event list deduplicated by upstream id, last seen wins.
// Shard failures are absorbed: the shard keeps whatever it accumulated
// and the sweep continues.
func (s *ticketmasterSource) Fetch(ctx context.Context) ([]model.Event, error) {
	var all []model.Event
	for _, country := range s.fetch.Countries {
		evs, err := s.fetchCountry(ctx, country)
		if err != nil {
			log.Printf("fetch %s: %v", country, err)
			metrics.ShardFailures.WithLabelValues(country).Inc()
		}
		log.Printf("total events for %s: %d", country, len(evs))
		all = append(all, evs...)
		if ctx.Err() != nil {
			break
		}
	}
	log.Printf("total events fetched: %d", len(all))

	deduped := dedupeByID(all)
	log.Printf("unique events after deduplication: %d", len(deduped))
	return deduped, nil
}

// fetchCountry paginates one shard. On error the events accumulated so
// far are returned alongside it.
func (s *ticketmasterSource) fetchCountry(ctx context.Context, country string) ([]model.Event, error) {
	now := s.now().UTC()
	startWindow := now.Format("2006-01-02") + "T00:00:00Z"
	endWindow := now.AddDate(0, 0, s.fetch.DaysAhead).Format("2006-01-02") + "T23:59:59Z"

	var events []model.Event
	totalPages := 1
	for pageNum := 0; pageNum < totalPages && pageNum < s.fetch.MaxPages; pageNum++ {
		p, err := s.fetchPage(ctx, country, startWindow, endWindow, pageNum)
		if err != nil {
			return events, fmt.Errorf("page %d: %w", pageNum, err)
		}
		metrics.PagesFetched.WithLabelValues(country).Inc()

		accepted := 0
		if p.Embedded != nil {
			for _, rec := range p.Embedded.Events {
				ev, err := normalize.Event(rec)
				if err != nil {
					metrics.EventsRejected.WithLabelValues(country).Inc()
					continue
				}
				events = append(events, ev)
				accepted++
			}
		}
		metrics.EventsFetched.WithLabelValues(country).Add(float64(accepted))
		log.Printf("fetched page %d for %s: %d events", pageNum, country, accepted)

		totalPages = 1
		if p.Page != nil && p.Page.TotalPages > 0 {
			totalPages = p.Page.TotalPages
		}
	}
	return events, nil
}

func (s *ticketmasterSource) fetchPage(ctx context.Context, country, startWindow, endWindow string, pageNum int) (page, error) {
	u, err := url.Parse(strings.TrimRight(s.api.BaseURL, "/") + "/events.json")
	if err != nil {
		return page{}, err
	}
	q := u.Query()
	q.Set("apikey", s.api.Key)
	q.Set("countryCode", country)
	q.Set("startDateTime", startWindow)
	q.Set("endDateTime", endWindow)
	q.Set("size", fmt.Sprintf("%d", s.fetch.PageSize))
	q.Set("page", fmt.Sprintf("%d", pageNum))
	q.Set("sort", "date,asc")
	u.RawQuery = q.Encode()

	var body []byte
	err = s.limiter.Execute(ctx, func() error {
		return util.Retry(ctx, s.fetch.MaxRetries, s.fetch.RetryBackoff.Std(), func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
			if err != nil {
				return err
			}
			resp, err := s.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode/100 != 2 {
				io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
				return &util.HTTPError{Status: resp.StatusCode, URL: u.String()}
			}
			body, err = io.ReadAll(resp.Body)
			return err
		})
	})
	if err != nil {
		return page{}, err
	}

	var p page
	if err := json.Unmarshal(body, &p); err != nil {
		return page{}, fmt.Errorf("decode page: %w", err)
	}
	return p, nil
}

// dedupeByID keeps one event per upstream id, last seen wins, preserving
// the first-seen position of each id.
func dedupeByID(events []model.Event) []model.Event {
	index := make(map[string]int, len(events))
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if i, ok := index[ev.ID]; ok {
			out[i] = ev
			metrics.EventsDeduped.Inc()
			continue
		}
		index[ev.ID] = len(out)
		out = append(out, ev)
	}
	return out
}
