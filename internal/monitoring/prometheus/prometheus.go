// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/canonical/lead-access-service/internal/logging"
	"github.com/canonical/lead-access-service/internal/monitoring"
)

var _ monitoring.MonitorInterface = (*Monitor)(nil)

type Monitor struct {
	service string

	responseTime           *prometheus.HistogramVec
	dependencyAvailability *prometheus.GaugeVec
	cycleDuration          *prometheus.HistogramVec

	logger logging.LoggerInterface
}

func (m *Monitor) GetService() string {
	return m.service
}

func (m *Monitor) SetResponseTimeMetric(tags map[string]string, value float64) error {
	if m.responseTime == nil {
		return fmt.Errorf("metric not instantiated")
	}

	m.responseTime.With(m.labels(tags, "route", "status")).Observe(value)

	return nil
}

func (m *Monitor) SetDependencyAvailability(tags map[string]string, value float64) error {
	if m.dependencyAvailability == nil {
		return fmt.Errorf("metric not instantiated")
	}

	m.dependencyAvailability.With(m.labels(tags, "component")).Set(value)

	return nil
}

func (m *Monitor) SetCycleMetric(tags map[string]string, value float64) error {
	if m.cycleDuration == nil {
		return fmt.Errorf("metric not instantiated")
	}

	m.cycleDuration.With(m.labels(tags, "outcome")).Observe(value)

	return nil
}

// labels copies only the known label names, a missing one is set to empty so
// With never panics on inconsistent cardinality
func (m *Monitor) labels(tags map[string]string, names ...string) prometheus.Labels {
	l := prometheus.Labels{"service": m.service}

	for _, n := range names {
		l[n] = tags[n]
	}

	return l
}

func (m *Monitor) registerHistograms() {
	m.responseTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_response_time_seconds",
			Help: "http_response_time_seconds",
		},
		[]string{"service", "route", "status"},
	)

	m.cycleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "monitoring_cycle_duration_seconds",
			Help:    "duration of a monitoring cycle",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"service", "outcome"},
	)

	for _, c := range []prometheus.Collector{m.responseTime, m.cycleDuration} {
		if err := prometheus.Register(c); err != nil {
			m.logger.Debugf("metric already registered: %v", err)
		}
	}
}

func (m *Monitor) registerGauges() {
	m.dependencyAvailability = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dependency_available",
			Help: "dependency_available",
		},
		[]string{"service", "component"},
	)

	if err := prometheus.Register(m.dependencyAvailability); err != nil {
		m.logger.Debugf("metric already registered: %v", err)
	}
}

func NewMonitor(service string, logger logging.LoggerInterface) *Monitor {
	m := new(Monitor)

	m.service = service
	m.logger = logger

	m.registerHistograms()
	m.registerGauges()

	return m
}
