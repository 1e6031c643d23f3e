// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package metrics

import (
	"net/http"

	"github.com/matt-FFFFFF/cmdhost/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cmdhost"

// Execution outcomes used as the outcome label.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var _ events.Listener = (*Collector)(nil)

// Collector implements events.Listener and records Prometheus metrics.
type Collector struct {
	registry     *prometheus.Registry
	registered   *prometheus.CounterVec
	unregistered *prometheus.CounterVec
	executions   *prometheus.CounterVec
	retries      *prometheus.CounterVec
	peerErrors   *prometheus.CounterVec
	active       *prometheus.GaugeVec
}

// New creates a Collector with its metrics registered on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		registered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_registered_total",
			Help:      "Number of command registrations.",
		}, []string{"source"}),
		unregistered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_unregistered_total",
			Help:      "Number of command registrations disposed.",
		}, []string{"source"}),
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_executions_total",
			Help:      "Number of command executions by outcome.",
		}, []string{"source", "outcome"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_retries_total",
			Help:      "Number of executions answered with a retry signal.",
		}, []string{"source"}),
		peerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "peer_errors_total",
			Help:      "Number of failed fire-and-forget peer notifications.",
		}, []string{"source"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "commands_active",
			Help:      "Number of commands currently registered.",
		}, []string{"source"}),
	}

	c.registry.MustRegister(
		c.registered,
		c.unregistered,
		c.executions,
		c.retries,
		c.peerErrors,
		c.active,
	)

	return c
}

// OnEvent implements events.Listener.
func (c *Collector) OnEvent(e events.Event) {
	switch e.Type {
	case events.EventRegistered:
		c.registered.WithLabelValues(e.Source).Inc()
		c.active.WithLabelValues(e.Source).Inc()
	case events.EventUnregistered:
		c.unregistered.WithLabelValues(e.Source).Inc()
		c.active.WithLabelValues(e.Source).Dec()
	case events.EventExecuted:
		c.executions.WithLabelValues(e.Source, OutcomeSuccess).Inc()
	case events.EventFailed:
		c.executions.WithLabelValues(e.Source, OutcomeFailure).Inc()
	case events.EventRetried:
		c.retries.WithLabelValues(e.Source).Inc()
	case events.EventPeerError:
		c.peerErrors.WithLabelValues(e.Source).Inc()
	}
}

// Registry returns the Prometheus registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
