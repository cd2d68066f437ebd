// Package telemetry holds the process-local metrics registry and tracer
// provider. Neither is ever exposed over HTTP — spec.md's non-goal of
// "no TCP/IP stack" rules out a scrape endpoint, so these exist purely
// for in-process instrumentation and tests.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	PacketsCaptured = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "corefw", Name: "packets_captured_total", Help: "Frames delivered to the promiscuous RX callback"},
		[]string{"channel"},
	)
	PacketsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "corefw", Name: "packets_dropped_total", Help: "Frames dropped before dispatch"},
		[]string{"reason"},
	)
	InjectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "corefw", Name: "injections_total", Help: "Raw frame injection attempts"},
		[]string{"kind"},
	)
	InjectionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "corefw", Name: "injection_errors_total", Help: "Failed raw frame injections"},
		[]string{"kind"},
	)
	EgressDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "corefw", Name: "egress_dropped_total", Help: "Egress lines dropped on mutex timeout or marshal failure"},
		[]string{"reason"},
	)
	HandshakeM1 = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "corefw", Name: "handshake_m1_total", Help: "EAPOL M1 frames observed"},
	)
	HandshakeM2 = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "corefw", Name: "handshake_m2_total", Help: "EAPOL M2 frames observed"},
	)
	HandshakeComplete = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "corefw", Name: "handshake_complete_total", Help: "Complete M1+M2 pairings emitted"},
	)

	registerOnce sync.Once
	registry     = prometheus.NewRegistry()
)

// Registry returns the process-local metrics registry (never scraped
// over the network). Nothing in this module calls it; heartbeat
// assembly reads runtime memory statistics instead.
func Registry() *prometheus.Registry {
	Init()
	return registry
}

// Init registers all metrics with the local registry. Idempotent.
func Init() {
	registerOnce.Do(func() {
		for _, c := range []prometheus.Collector{
			PacketsCaptured, PacketsDropped, InjectionsTotal, InjectionErrors,
			EgressDropped, HandshakeM1, HandshakeM2, HandshakeComplete,
		} {
			_ = registry.Register(c)
		}
	})
}
