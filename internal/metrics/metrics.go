// Package metrics holds the run counters. They live on a private
// registry so a one-shot run can dump them to the log, and can be
// exposed over HTTP while the run is in flight when configured.
package metrics

import (
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	PagesFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "celebgo",
		Name:      "pages_fetched_total",
		Help:      "Upstream pages fetched per country shard",
	}, []string{"country"})

	EventsFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "celebgo",
		Name:      "events_fetched_total",
		Help:      "Events normalized successfully per country shard",
	}, []string{"country"})

	EventsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "celebgo",
		Name:      "events_rejected_total",
		Help:      "Upstream records rejected during normalization",
	}, []string{"country"})

	EventsDeduped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "celebgo",
		Name:      "events_deduped_total",
		Help:      "Duplicate records dropped by upstream id",
	})

	ShardFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "celebgo",
		Name:      "shard_failures_total",
		Help:      "Country shards aborted after retries were exhausted",
	}, []string{"country"})
)

func init() {
	registry.MustRegister(PagesFetched, EventsFetched, EventsRejected, EventsDeduped, ShardFailures)
}

// Serve exposes /metrics on addr for the duration of the run. Errors
// are logged, not fatal: metrics are diagnostics, not the pipeline.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("metrics listener: %v", err)
		}
	}()
}

// Dump renders the registry as sorted "name{labels} value" lines for
// the end-of-run log.
func Dump() string {
	mfs, err := registry.Gather()
	if err != nil {
		return ""
	}
	var out []string
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			out = append(out, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(out)
	return strings.Join(out, "\n")
}
