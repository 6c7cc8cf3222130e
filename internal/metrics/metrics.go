// Package metrics holds Prometheus instruments used across Folio.  All
// collectors are registered with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// FormSubmissions counts submit attempts by form and outcome
	// (succeeded, invalid, failed, ignored, rejected).
	FormSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Form submit attempts partitioned by outcome.",
		}, []string{"form", "outcome"})

	// FieldValidations counts single-field validations by form and result.
	FieldValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_field_validations_total",
			Help: "Single-field validations partitioned by result.",
		}, []string{"form", "result"})

	// SubmitDuration observes time spent in post-submit actions.
	SubmitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "form_submit_duration_seconds",
			Help:    "Time spent running a form's post-submit actions.",
			Buckets: prometheus.DefBuckets,
		}, []string{"form"})

	// FormsLoaded reports how many form definitions are registered.
	FormsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "forms_loaded",
			Help: "Number of form definitions currently registered.",
		})

	// GalleryViews counts lightbox renders by gallery.
	GalleryViews = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_views_total",
			Help: "Gallery and lightbox views partitioned by gallery.",
		}, []string{"gallery"})

	// ProjectSearches counts project catalog queries that carry a search term.
	ProjectSearches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "project_searches_total",
			Help: "Project catalog requests with a search term.",
		})
)

func init() {
	prometheus.MustRegister(
		FormSubmissions,
		FieldValidations,
		SubmitDuration,
		FormsLoaded,
		GalleryViews,
		ProjectSearches,
	)
}
