package api

import (
	"github.com/prometheus/client_golang/prometheus"

	"MiniMart/internal/platform"
)

// Collector exports registry table sizes at scrape time.
type Collector struct {
	platform *platform.Platform

	products *prometheus.Desc
	users    *prometheus.Desc
	orders   *prometheus.Desc
}

func NewCollector(p *platform.Platform) *Collector {
	return &Collector{
		platform: p,
		products: prometheus.NewDesc("minimart_products", "Products in the registry", nil, nil),
		users:    prometheus.NewDesc("minimart_users", "Users in the registry", nil, nil),
		orders:   prometheus.NewDesc("minimart_orders", "Orders in the registry", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.products
	ch <- c.users
	ch <- c.orders
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	products, users, orders := c.platform.Counts()
	ch <- prometheus.MustNewConstMetric(c.products, prometheus.GaugeValue, float64(products))
	ch <- prometheus.MustNewConstMetric(c.users, prometheus.GaugeValue, float64(users))
	ch <- prometheus.MustNewConstMetric(c.orders, prometheus.GaugeValue, float64(orders))
}
