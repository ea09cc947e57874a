//go:build prometheus

package filament

import "github.com/prometheus/client_golang/prometheus"

// PoolCollector exposes a Pool's counters as Prometheus metrics.
//
// Counters are read from the pool at scrape time and exported as
// const metrics, so no background updater goroutine is needed and
// counter totals never double-count across scrapes.
//
// Example usage:
//
//	pool := filament.NewPool(filament.PoolConfig{})
//	prometheus.MustRegister(filament.NewPoolCollector(pool))
//	http.Handle("/metrics", promhttp.Handler())
//
// Compiled only with the "prometheus" build tag:
//
//	go build -tags prometheus
type PoolCollector struct {
	pool *Pool

	gets     *prometheus.Desc
	puts     *prometheus.Desc
	hits     *prometheus.Desc
	misses   *prometheus.Desc
	discards *prometheus.Desc
	trims    *prometheus.Desc
	hitRate  *prometheus.Desc
}

// NewPoolCollector creates a collector for pool under the
// filament_pool_* metric namespace.
func NewPoolCollector(pool *Pool) *PoolCollector {
	fq := func(name string) string {
		return prometheus.BuildFQName("filament", "pool", name)
	}
	return &PoolCollector{
		pool:     pool,
		gets:     prometheus.NewDesc(fq("gets_total"), "Total number of buffer Get operations", nil, nil),
		puts:     prometheus.NewDesc(fq("puts_total"), "Total number of buffer Put operations", nil, nil),
		hits:     prometheus.NewDesc(fq("hits_total"), "Total number of pool hits (buffer reuse)", nil, nil),
		misses:   prometheus.NewDesc(fq("misses_total"), "Total number of pool misses (new construction)", nil, nil),
		discards: prometheus.NewDesc(fq("discards_total"), "Total number of invalid buffers discarded on Put", nil, nil),
		trims:    prometheus.NewDesc(fq("trims_total"), "Total number of oversized buffers hard-reset on Put", nil, nil),
		hitRate:  prometheus.NewDesc(fq("hit_rate"), "Current pool hit rate (0-100%)", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (pc *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- pc.gets
	ch <- pc.puts
	ch <- pc.hits
	ch <- pc.misses
	ch <- pc.discards
	ch <- pc.trims
	ch <- pc.hitRate
}

// Collect implements prometheus.Collector.
func (pc *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	m := pc.pool.Metrics()
	ch <- prometheus.MustNewConstMetric(pc.gets, prometheus.CounterValue, float64(m.Gets))
	ch <- prometheus.MustNewConstMetric(pc.puts, prometheus.CounterValue, float64(m.Puts))
	ch <- prometheus.MustNewConstMetric(pc.hits, prometheus.CounterValue, float64(m.Hits))
	ch <- prometheus.MustNewConstMetric(pc.misses, prometheus.CounterValue, float64(m.Misses))
	ch <- prometheus.MustNewConstMetric(pc.discards, prometheus.CounterValue, float64(m.Discards))
	ch <- prometheus.MustNewConstMetric(pc.trims, prometheus.CounterValue, float64(m.Trims))
	ch <- prometheus.MustNewConstMetric(pc.hitRate, prometheus.GaugeValue, m.HitRate())
}

// RegisterPoolMetrics registers a collector for pool with reg.
// Typically called once at startup with prometheus.DefaultRegisterer.
func RegisterPoolMetrics(reg prometheus.Registerer, pool *Pool) error {
	return reg.Register(NewPoolCollector(pool))
}
