package payroll

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	promClaims = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "payroll",
		Name:      "claims_total",
		Help:      "Number of delivered claims, including zero amount settlements.",
	})
	promPaid = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "payroll",
		Name:      "paid_amount_total",
		Help:      "Amount paid out of the treasury.",
	})
	promSettlements = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "payroll",
		Name:      "settlements_total",
		Help:      "Number of beneficiaries that settled a period.",
	})
	promGuardRejections = promauto.NewCounter(prometheus.CounterOpts{
		Subsystem: "payroll",
		Name:      "guard_rejections_total",
		Help:      "Structural changes rejected because the period was not settled.",
	})
	promBeneficiaries = promauto.NewGauge(prometheus.GaugeOpts{
		Subsystem: "payroll",
		Name:      "beneficiary_count",
		Help:      "Number of registered beneficiaries.",
	})
)
