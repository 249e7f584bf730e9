package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stratix_import_rows_total",
		Help: "Processed import rows by outcome status.",
	}, []string{"status"})

	importJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stratix_import_jobs_total",
		Help: "Finished import jobs by terminal status.",
	}, []string{"status"})
)
