package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ShiftMetrics covers shift lifecycle, settlement and ledger activity.
type ShiftMetrics struct {
	ShiftsOpenedTotal   prometheus.CounterVec
	ShiftsClosedTotal   prometheus.CounterVec
	ShiftsLateTotal     prometheus.CounterVec
	OpenRejectedTotal   prometheus.CounterVec
	ShiftDurationHours  prometheus.HistogramVec
	LatenessMinutes     prometheus.HistogramVec

	GarantAppliedTotal  prometheus.CounterVec
	GarantAmountTotal   prometheus.CounterVec
	GarantPenaltyTotal  prometheus.CounterVec
	GarantBatchFailures prometheus.CounterVec

	LedgerEntriesTotal  prometheus.CounterVec
	LedgerAmountTotal   prometheus.CounterVec
	LedgerPostErrors    prometheus.CounterVec

	ReportBuildDuration prometheus.HistogramVec
}

func NewShiftMetrics() *ShiftMetrics {
	return &ShiftMetrics{
		ShiftsOpenedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shifts_opened_total",
				Help: "Shifts opened, by schedule and lateness",
			},
			[]string{"schedule_id", "late"},
		),

		ShiftsClosedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shifts_closed_total",
				Help: "Shifts closed",
			},
			[]string{"schedule_id"},
		),

		ShiftsLateTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shifts_late_total",
				Help: "Shifts opened after the grace cutoff",
			},
			[]string{"schedule_id"},
		),

		OpenRejectedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shift_open_rejected_total",
				Help: "Shift open attempts rejected by admission checks",
			},
			[]string{"reason"},
		),

		ShiftDurationHours: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shift_duration_hours",
				Help:    "Elapsed open-to-close shift duration in hours",
				Buckets: prometheus.LinearBuckets(1, 2, 12),
			},
			[]string{"schedule_id"},
		),

		LatenessMinutes: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shift_lateness_minutes",
				Help:    "Minutes past the grace cutoff for late opens",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
			[]string{"schedule_id"},
		),

		GarantAppliedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "garant_applied_total",
				Help: "Guarantee tasks applied",
			},
			[]string{"plan_id"},
		),

		GarantAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "garant_amount_total",
				Help: "Total guarantee amount posted to the ledger",
			},
			[]string{"plan_id"},
		),

		GarantPenaltyTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "garant_penalty_total",
				Help: "Total late penalty withheld from guarantees",
			},
			[]string{"plan_id"},
		),

		GarantBatchFailures: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "garant_batch_failures_total",
				Help: "Per-courier failures skipped by the settlement batch",
			},
			[]string{"reason"},
		),

		LedgerEntriesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_entries_total",
				Help: "Ledger entries posted, by transaction type",
			},
			[]string{"type"},
		),

		LedgerAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_amount_total",
				Help: "Absolute amount posted to the ledger, by transaction type",
			},
			[]string{"type"},
		),

		LedgerPostErrors: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_post_errors_total",
				Help: "Failed ledger postings",
			},
			[]string{"type"},
		),

		ReportBuildDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "settlement_report_build_seconds",
				Help:    "Time to build the settlement report",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"grouped"},
		),
	}
}

func (m *ShiftMetrics) RecordShiftOpened(scheduleID string, late bool, latenessMinutes int) {
	lateStr := "false"
	if late {
		lateStr = "true"
		m.ShiftsLateTotal.WithLabelValues(scheduleID).Inc()
		m.LatenessMinutes.WithLabelValues(scheduleID).Observe(float64(latenessMinutes))
	}
	m.ShiftsOpenedTotal.WithLabelValues(scheduleID, lateStr).Inc()
}

func (m *ShiftMetrics) RecordShiftClosed(scheduleID string, durationSeconds int64) {
	m.ShiftsClosedTotal.WithLabelValues(scheduleID).Inc()
	m.ShiftDurationHours.WithLabelValues(scheduleID).Observe(float64(durationSeconds) / 3600)
}

func (m *ShiftMetrics) RecordOpenRejected(reason string) {
	m.OpenRejectedTotal.WithLabelValues(reason).Inc()
}

func (m *ShiftMetrics) RecordGarantApplied(planID string, payable, penalty float64) {
	m.GarantAppliedTotal.WithLabelValues(planID).Inc()
	m.GarantAmountTotal.WithLabelValues(planID).Add(payable)
	m.GarantPenaltyTotal.WithLabelValues(planID).Add(penalty)
}

func (m *ShiftMetrics) RecordGarantBatchFailure(reason string) {
	m.GarantBatchFailures.WithLabelValues(reason).Inc()
}

func (m *ShiftMetrics) RecordLedgerEntry(txType string, amountAbs float64) {
	m.LedgerEntriesTotal.WithLabelValues(txType).Inc()
	m.LedgerAmountTotal.WithLabelValues(txType).Add(amountAbs)
}

func (m *ShiftMetrics) RecordLedgerError(txType string) {
	m.LedgerPostErrors.WithLabelValues(txType).Inc()
}

func (m *ShiftMetrics) RecordReportBuild(grouped bool, seconds float64) {
	g := "false"
	if grouped {
		g = "true"
	}
	m.ReportBuildDuration.WithLabelValues(g).Observe(seconds)
}
