package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder métricas Prometheus del motor de composición. Un *Recorder nil no registra nada.
type Recorder struct {
	transitions  *prometheus.CounterVec
	plans        *prometheus.CounterVec
	planDuration prometheus.Histogram
	efficiency   prometheus.Histogram
	stockErrors  prometheus.Counter
}

// NewRecorder crea y registra las métricas en reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pallets",
			Name:      "composition_transitions_total",
			Help:      "Transiciones de estado de composiciones.",
		}, []string{"from", "to"}),
		plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pallets",
			Name:      "composition_plans_total",
			Help:      "Cálculos de composición por resultado.",
		}, []string{"valid"}),
		planDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pallets",
			Name:      "composition_plan_duration_seconds",
			Help:      "Duración del cálculo de composición, incluyendo lecturas de catálogo.",
			Buckets:   prometheus.DefBuckets,
		}),
		efficiency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pallets",
			Name:      "composition_efficiency",
			Help:      "Eficiencia de las composiciones calculadas.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		}),
		stockErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pallets",
			Name:      "assemble_insufficient_stock_total",
			Help:      "Armados rechazados por stock insuficiente.",
		}),
	}
	reg.MustRegister(r.transitions, r.plans, r.planDuration, r.efficiency, r.stockErrors)
	return r
}

// Transition cuenta una transición de estado.
func (r *Recorder) Transition(from, to string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(from, to).Inc()
}

// Plan registra un cálculo de composición.
func (r *Recorder) Plan(started time.Time, efficiency float64, valid bool) {
	if r == nil {
		return
	}
	label := "false"
	if valid {
		label = "true"
	}
	r.plans.WithLabelValues(label).Inc()
	r.planDuration.Observe(time.Since(started).Seconds())
	r.efficiency.Observe(efficiency)
}

// InsufficientStock cuenta un armado rechazado.
func (r *Recorder) InsufficientStock() {
	if r == nil {
		return
	}
	r.stockErrors.Inc()
}
