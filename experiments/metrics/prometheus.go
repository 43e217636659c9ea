package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// knownSources bounds the cardinality of the decision source label.
var knownSources = map[string]bool{
	"opening":  true,
	"swap":     true,
	"terminal": true,
	"bridge":   true,
	"search":   true,
	"panic":    true,
	"fallback": true,
}

func sanitizeSource(source string) string {
	if knownSources[source] {
		return source
	}
	return "unknown"
}

// Prometheus exports search and decision counters for every agent in the
// process. Create one per registry.
type Prometheus struct {
	episodes  *prometheus.CounterVec
	searches  *prometheus.CounterVec
	decisions *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	treeSize  *prometheus.GaugeVec
}

func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)
	return &Prometheus{
		episodes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hex",
			Subsystem: "search",
			Name:      "episodes_total",
			Help:      "Total MCTS episodes run by agent",
		}, []string{"agent"}),
		searches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hex",
			Subsystem: "search",
			Name:      "searches_total",
			Help:      "Total searches by agent and whether the tree was reused",
		}, []string{"agent", "tree"}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hex",
			Subsystem: "agent",
			Name:      "decisions_total",
			Help:      "Total moves chosen by agent and deciding layer",
		}, []string{"agent", "source"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hex",
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Wall-clock time per search",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		}, []string{"agent"}),
		treeSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hex",
			Subsystem: "search",
			Name:      "tree_nodes",
			Help:      "Number of nodes in the search tree after the last search",
		}, []string{"agent"}),
	}
}

// Collector returns a per-search collector for agent that also feeds the
// exported series when a search completes.
func (p *Prometheus) Collector(agent string) Collector {
	return &promCollector{Collector: NewCollector(), agent: agent, exporter: p}
}

func (p *Prometheus) ObserveDecision(agent, source string) {
	p.decisions.WithLabelValues(agent, sanitizeSource(source)).Inc()
}

type promCollector struct {
	Collector
	agent    string
	exporter *Prometheus
}

func (c *promCollector) Complete(treeSize, rootVisits, bestVisits int) SearchMetric {
	metric := c.Collector.Complete(treeSize, rootVisits, bestVisits)
	tree := "reused"
	if metric.IsTreeReset {
		tree = "reset"
	}
	c.exporter.episodes.WithLabelValues(c.agent).Add(float64(metric.Episodes))
	c.exporter.searches.WithLabelValues(c.agent, tree).Inc()
	c.exporter.duration.WithLabelValues(c.agent).Observe(metric.Duration.Seconds())
	c.exporter.treeSize.WithLabelValues(c.agent).Set(float64(treeSize))
	return metric
}
