package metrics

import (
	"fmt"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

type ErrorMetrics struct {
	PanicsTotal *prometheus.CounterVec
	ErrorsTotal *prometheus.CounterVec
	// failed transactions by instruction and decoded program error
	InstructionFailures *prometheus.CounterVec

	ComponentHealth *prometheus.GaugeVec
}

func NewErrorMetrics() *ErrorMetrics {
	return &ErrorMetrics{
		PanicsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "corecollection_panics_total",
				Help:        "Panics recovered per component",
				ConstLabels: constLabels(),
			},
			[]string{"component"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "corecollection_errors_total",
				Help:        "Errors per component and type",
				ConstLabels: constLabels(),
			},
			[]string{"component", "error_type"},
		),
		InstructionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "corecollection_instruction_failures_total",
				Help:        "Transactions rejected by the cluster, per instruction and failure",
				ConstLabels: constLabels(),
			},
			[]string{"instruction", "failure"},
		),
		ComponentHealth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "corecollection_component_health",
				Help:        "1 while the component is healthy, 0 otherwise",
				ConstLabels: constLabels(),
			},
			[]string{"component"},
		),
	}
}

func (e *ErrorMetrics) Register(reg *prometheus.Registry) {
	reg.MustRegister(
		e.PanicsTotal,
		e.ErrorsTotal,
		e.InstructionFailures,
		e.ComponentHealth,
	)
}

func TrackError(component, errorType string) {
	GetMetrics().Error.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// TrackInstructionFailure counts a rejected transaction. failure is the program
// error name, e.g. NoApprovals, or the builtin instruction error kind.
func TrackInstructionFailure(instruction, failure string) {
	GetMetrics().Error.InstructionFailures.WithLabelValues(instruction, failure).Inc()
}

func SetComponentHealth(component string, healthy bool) {
	var status float64
	if healthy {
		status = 1
	}
	GetMetrics().Error.ComponentHealth.WithLabelValues(component).Set(status)
}

// RecoverFromPanic marks component unhealthy and re-panics with the calling
// function attached. Use it deferred.
func RecoverFromPanic(component string) {
	r := recover()
	if r == nil {
		return
	}

	caller := "unknown"
	if pc, _, _, ok := runtime.Caller(2); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	GetMetrics().Error.PanicsTotal.WithLabelValues(component).Inc()
	TrackError(component, "panic")
	SetComponentHealth(component, false)

	panic(fmt.Sprintf("recovered panic in %s (%s): %v", component, caller, r))
}
