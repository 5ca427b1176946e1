// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CatalogLoads counts full catalog reloads by outcome ("ok" or "failed").
	CatalogLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "popcheck_catalog_loads_total",
		Help: "Full catalog reloads by outcome.",
	}, []string{"status"})

	// CatalogItems tracks the size of the current in-memory catalog.
	CatalogItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "popcheck_catalog_items",
		Help: "Items in the current in-memory catalog.",
	})

	// ChecklistToggles counts accepted checklist toggles.
	ChecklistToggles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "popcheck_checklist_toggles_total",
		Help: "Accepted checklist toggles.",
	})

	// Submissions counts report submissions by mode and outcome.
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "popcheck_submissions_total",
		Help: "Report submissions by mode and outcome.",
	}, []string{"mode", "status"})
)
