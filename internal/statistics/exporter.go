package statistics

import (
	"net/http"
	"sync"

	"codeberg.org/mutker/atkctl/internal/atk"
	"codeberg.org/mutker/atkctl/internal/fancurve"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "atkctl"

	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Statistics owns a private registry so several instances can live in one
// process (tests, reloads).
type Statistics struct {
	registry *prometheus.Registry

	applies   *prometheus.CounterVec
	powerPlan *prometheus.GaugeVec
	adjusted  *prometheus.GaugeVec
	curves    *CurveCollector

	mu sync.Mutex
}

func New() *Statistics {
	s := &Statistics{
		registry: prometheus.NewRegistry(),
		applies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "apply_total",
			Help:      "Number of plan applies by plan name and result",
		}, []string{"plan", "result"}),
		powerPlan: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "power_plan",
			Help:      "1 for the power plan last sent to the hardware, 0 otherwise",
		}, []string{"plan"}),
		adjusted: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemCurve,
			Name:      "adjusted",
			Help:      "1 when the last curve sent for the device had to be auto-adjusted",
		}, []string{"device"}),
		curves: NewCurveCollector(),
	}

	s.registry.MustRegister(
		s.applies,
		s.powerPlan,
		s.adjusted,
		s.curves,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return s
}

// ObserveApply counts one apply of the named plan.
func (s *Statistics) ObserveApply(name string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	s.applies.WithLabelValues(name, result).Inc()
}

// ObservePowerPlan marks plan as the active hardware plan.
func (s *Statistics) ObservePowerPlan(plan atk.PowerPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, known := range atk.PowerPlans() {
		value := 0.0
		if known == plan {
			value = 1
		}
		s.powerPlan.WithLabelValues(known.String()).Set(value)
	}
}

// ObserveCurve records a curve that was sent to the hardware.
func (s *Statistics) ObserveCurve(table fancurve.Table, adjusted bool) {
	value := 0.0
	if adjusted {
		value = 1
	}
	s.adjusted.WithLabelValues(table.Device().String()).Set(value)
	s.curves.Set(table)
}

func (s *Statistics) Registry() *prometheus.Registry {
	return s.registry
}

// Handler serves the registry in the prometheus text format.
func (s *Statistics) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}
