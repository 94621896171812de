package statistics

import (
	"strconv"
	"sync"

	"codeberg.org/mutker/atkctl/internal/fancurve"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemCurve = "curve"

// CurveCollector exports the points of the curves last sent to the hardware.
type CurveCollector struct {
	mu     sync.RWMutex
	tables map[fancurve.Device]fancurve.Table

	degrees    *prometheus.Desc
	fanPercent *prometheus.Desc
}

func NewCurveCollector() *CurveCollector {
	return &CurveCollector{
		tables: make(map[fancurve.Device]fancurve.Table),
		degrees: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemCurve, "degrees"),
			"Temperature of a curve point in degrees Celsius",
			[]string{"device", "point"}, nil,
		),
		fanPercent: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemCurve, "fan_percent"),
			"Fan speed of a curve point in percent",
			[]string{"device", "point"}, nil,
		),
	}
}

func (collector *CurveCollector) Set(table fancurve.Table) {
	collector.mu.Lock()
	defer collector.mu.Unlock()
	collector.tables[table.Device()] = table
}

func (collector *CurveCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.degrees
	ch <- collector.fanPercent
}

// Collect implements required collect function for all prometheus collectors
func (collector *CurveCollector) Collect(ch chan<- prometheus.Metric) {
	collector.mu.RLock()
	defer collector.mu.RUnlock()

	for _, device := range fancurve.Devices() {
		table, ok := collector.tables[device]
		if !ok {
			continue
		}
		for _, index := range fancurve.Indices() {
			entry := table.Entry(index)
			point := strconv.Itoa(index.Ordinal())
			ch <- prometheus.MustNewConstMetric(collector.degrees, prometheus.GaugeValue, float64(entry.Degrees), device.String(), point)
			ch <- prometheus.MustNewConstMetric(collector.fanPercent, prometheus.GaugeValue, float64(entry.FanPercent), device.String(), point)
		}
	}
}
