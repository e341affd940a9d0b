package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smartworkshop/workshopcost/pkg/types"
)

type metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	machinesChanged *prometheus.CounterVec
	fleetMachines   prometheus.Gauge
	fleetDailyCost  prometheus.Gauge
	fleetWarnings   prometheus.Gauge
}

// newMetrics uses its own registry so several servers can coexist in one
// process.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workshopcost",
			Name:      "api_requests_total",
			Help:      "API requests received, by method.",
		}, []string{"method"}),
		machinesChanged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workshopcost",
			Name:      "machines_changed_total",
			Help:      "Machines added to or removed from the fleet.",
		}, []string{"op"}),
		fleetMachines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "workshopcost",
			Name:      "fleet_machines",
			Help:      "Machines in the most recently computed report.",
		}),
		fleetDailyCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "workshopcost",
			Name:      "fleet_daily_cost",
			Help:      "Total daily bill of the most recently computed report.",
		}),
		fleetWarnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "workshopcost",
			Name:      "fleet_warnings",
			Help:      "Machines over the peak-hours threshold in the most recently computed report.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.requests,
		m.machinesChanged,
		m.fleetMachines,
		m.fleetDailyCost,
		m.fleetWarnings,
	)
	return m
}

func (m *metrics) observeReport(report types.CostReport) {
	m.fleetMachines.Set(float64(len(report.Results)))
	m.fleetDailyCost.Set(report.Totals.TotalDailyBill)
	m.fleetWarnings.Set(float64(report.WarningCount))
}

func (m *metrics) handler() http.Handler {
	// compression is left to gziphandler
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{DisableCompression: true})
}
