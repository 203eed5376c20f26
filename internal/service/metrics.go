package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain metrics of the account lifecycle and the audit tracker.
// Доменные метрики жизненного цикла аккаунтов и трекера аудитов.
var (
	// accountTransitionsTotal counts account lifecycle transitions.
	// accountTransitionsTotal считает переходы жизненного цикла аккаунтов.
	accountTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_tracker_account_transitions_total",
			Help: "Total number of account lifecycle transitions",
		},
		[]string{"action"},
	)

	// mailDeliveriesTotal counts lifecycle mail by kind and result (sent, failed).
	mailDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_tracker_mail_deliveries_total",
			Help: "Total number of lifecycle mail deliveries",
		},
		[]string{"kind", "result"},
	)

	// signInsTotal counts sign-in outcomes (success, failure, locked, blocked).
	signInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_tracker_sign_ins_total",
			Help: "Total number of sign-in attempts by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	// resultsSubmittedTotal counts inspection results by status.
	// resultsSubmittedTotal считает результаты проверок по статусу.
	resultsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_tracker_results_submitted_total",
			Help: "Total number of inspection results submitted",
		},
		[]string{"status"},
	)

	// auditsCompletedTotal counts completions by path (auto, manual).
	// auditsCompletedTotal считает завершения по пути (auto, manual).
	auditsCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_tracker_audits_completed_total",
			Help: "Total number of audits completed",
		},
		[]string{"path"},
	)

	// entriesGeneratedTotal counts generated checklist entries.
	entriesGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_tracker_entries_generated_total",
			Help: "Total number of checklist entries generated",
		},
	)
)
