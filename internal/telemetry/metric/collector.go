// Package metric provides Prometheus metrics for grcbridge.
package metric

import "github.com/prometheus/client_golang/prometheus"

// Occupancy reports current cache and token-store sizes. Implemented by
// the gateway wiring so the collector never imports the service layer.
type Occupancy struct {
	Containers int
	Levels     int
	FieldSets  int
	Tokens     int
}

// Collector exports occupancy gauges sampled at scrape time.
type Collector struct {
	sample func() Occupancy

	containers *prometheus.Desc
	levels     *prometheus.Desc
	fieldSets  *prometheus.Desc
	tokens     *prometheus.Desc
}

// NewCollector creates an occupancy collector around a sampling func.
func NewCollector(sample func() Occupancy) *Collector {
	return &Collector{
		sample: sample,
		containers: prometheus.NewDesc(
			"grcbridge_catalog_containers",
			"Containers held in the catalog cache.", nil, nil),
		levels: prometheus.NewDesc(
			"grcbridge_catalog_levels",
			"Level mappings held in the catalog cache.", nil, nil),
		fieldSets: prometheus.NewDesc(
			"grcbridge_catalog_field_sets",
			"Per-container field definition sets held in the catalog cache.", nil, nil),
		tokens: prometheus.NewDesc(
			"grcbridge_token_store_size",
			"Privacy tokens held in the in-memory token store.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.containers
	ch <- c.levels
	ch <- c.fieldSets
	ch <- c.tokens
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	occ := c.sample()
	ch <- prometheus.MustNewConstMetric(c.containers, prometheus.GaugeValue, float64(occ.Containers))
	ch <- prometheus.MustNewConstMetric(c.levels, prometheus.GaugeValue, float64(occ.Levels))
	ch <- prometheus.MustNewConstMetric(c.fieldSets, prometheus.GaugeValue, float64(occ.FieldSets))
	ch <- prometheus.MustNewConstMetric(c.tokens, prometheus.GaugeValue, float64(occ.Tokens))
}
