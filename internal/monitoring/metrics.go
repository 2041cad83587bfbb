package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Signal lifecycle metrics
	signalsProposedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_bot_signals_proposed_total",
			Help: "Total number of signals proposed for approval",
		},
		[]string{"symbol", "strength"},
	)

	signalsResolvedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_bot_signals_resolved_total",
			Help: "Total number of signals resolved, by outcome",
		},
		[]string{"outcome"},
	)

	// Execution metrics
	ordersSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_bot_orders_submitted_total",
			Help: "Total number of orders submitted to the exchange",
		},
		[]string{"symbol", "side"},
	)

	// Risk metrics
	marginUtilization = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "signal_bot_margin_utilization_pct",
			Help: "Current margin utilization as a percentage of equity",
		},
	)

	remainingDayRisk = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "signal_bot_remaining_day_risk",
			Help: "Remaining loss headroom for the current trading day",
		},
	)

	// Market data metrics
	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "signal_bot_current_price",
			Help: "Latest observed price per symbol",
		},
		[]string{"symbol"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_bot_errors_total",
			Help: "Total number of errors, by category",
		},
		[]string{"category"},
	)
)

func init() {
	prometheus.MustRegister(signalsProposedTotal)
	prometheus.MustRegister(signalsResolvedTotal)
	prometheus.MustRegister(ordersSubmittedTotal)
	prometheus.MustRegister(marginUtilization)
	prometheus.MustRegister(remainingDayRisk)
	prometheus.MustRegister(currentPrice)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles the Prometheus metrics endpoint
type MetricsHandler struct{}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordSignalProposed records a newly proposed signal
func RecordSignalProposed(symbol, strength string) {
	signalsProposedTotal.WithLabelValues(symbol, strength).Inc()
}

// RecordSignalResolved records a signal leaving the pending store.
// Outcome is one of: approved, rejected, expired.
func RecordSignalResolved(outcome string) {
	signalsResolvedTotal.WithLabelValues(outcome).Inc()
}

// RecordOrderSubmitted records an order accepted by the exchange
func RecordOrderSubmitted(symbol, side string) {
	ordersSubmittedTotal.WithLabelValues(symbol, side).Inc()
}

// UpdateMarginUtilization updates the margin utilization gauge
func UpdateMarginUtilization(pct float64) {
	marginUtilization.Set(pct)
}

// UpdateRemainingDayRisk updates the daily loss headroom gauge
func UpdateRemainingDayRisk(amount float64) {
	remainingDayRisk.Set(amount)
}

// UpdatePrice updates the latest price gauge
func UpdatePrice(symbol string, price float64) {
	currentPrice.WithLabelValues(symbol).Set(price)
}

// RecordError records an error metric
func RecordError(category string) {
	errorsTotal.WithLabelValues(category).Inc()
}
