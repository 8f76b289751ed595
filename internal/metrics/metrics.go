// Package metrics exposes daemon state as Prometheus metrics: it pulls
// device counts from the Supervisor at scrape time and accumulates
// command/broadcast counters pushed by the IPC and supervisor packages.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DeviceStatusProvider exposes the Supervisor's aggregated device phases.
type DeviceStatusProvider interface {
	Serials() []string
}

// Collector is a prometheus.Collector gathering goxlrd state at scrape time.
type Collector struct {
	devices   DeviceStatusProvider
	startTime time.Time

	devicesDesc *prometheus.Desc
	uptimeDesc  *prometheus.Desc
}

// NewCollector creates a Collector pulling live device counts from devices.
func NewCollector(devices DeviceStatusProvider, startTime time.Time) *Collector {
	return &Collector{
		devices:   devices,
		startTime: startTime,
		devicesDesc: prometheus.NewDesc(
			"goxlrd_devices_attached",
			"Number of GoXLR devices currently attached and tracked",
			nil, nil,
		),
		uptimeDesc: prometheus.NewDesc(
			"goxlrd_uptime_seconds",
			"Seconds since the goxlrd process started",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.devicesDesc
	ch <- c.uptimeDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		c.devicesDesc, prometheus.GaugeValue,
		float64(len(c.devices.Serials())),
	)
	ch <- prometheus.MustNewConstMetric(
		c.uptimeDesc, prometheus.GaugeValue,
		time.Since(c.startTime).Seconds(),
	)
}

// CommandsTotal counts dispatched IPC DeviceCommand requests by outcome,
// incremented by internal/ipc.Dispatcher.Handle.
var CommandsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "goxlrd_commands_total",
		Help: "DeviceCommand requests handled, by outcome (ok, error)",
	},
	[]string{"outcome"},
)

// PatchesBroadcastTotal counts status patches published to WebSocket
// subscribers, incremented by internal/supervisor.Broadcaster.Publish.
var PatchesBroadcastTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "goxlrd_patches_broadcast_total",
		Help: "Status JSON-Patch frames published to WebSocket subscribers",
	},
)

// TransportRetriesTotal counts polled-backend read retries, incremented
// by internal/transport.Transport.sendOnce's read-after-Pipe retry loop.
var TransportRetriesTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "goxlrd_transport_read_retries_total",
		Help: "Polled USB backend read-after-Pipe retries across all devices",
	},
)

func init() {
	prometheus.MustRegister(CommandsTotal, PatchesBroadcastTotal, TransportRetriesTotal)
}
