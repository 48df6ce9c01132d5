package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersCreated        *prometheus.CounterVec
	DonationsRecorded   *prometheus.CounterVec
	LowStockRows        prometheus.Counter
	EmergenciesOpened   *prometheus.CounterVec
	NotificationsFailed prometheus.Counter
	SeekerSubmissions   *prometheus.CounterVec
	DashboardLatency    prometheus.Histogram
	HTTPLatency         *prometheus.HistogramVec
}

// New creates and registers all metrics with reg. A nil registerer creates
// unregistered collectors, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UsersCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodlink_users_created_total",
			Help: "Total number of accounts created, by role",
		}, []string{"role"}),
		DonationsRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodlink_donations_total",
			Help: "Donation record mutations, by operation",
		}, []string{"op"}),
		LowStockRows: f.NewCounter(prometheus.CounterOpts{
			Name: "bloodlink_low_stock_rows_served_total",
			Help: "Inventory rows reported below threshold",
		}),
		EmergenciesOpened: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodlink_emergencies_opened_total",
			Help: "Emergency requests opened, by urgency",
		}, []string{"urgency"}),
		NotificationsFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "bloodlink_notifications_failed_total",
			Help: "Emergency notifications that could not be delivered",
		}),
		SeekerSubmissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodlink_seeker_submissions_total",
			Help: "Seeker submissions, by outcome",
		}, []string{"outcome"}),
		DashboardLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bloodlink_dashboard_duration_seconds",
			Help:    "Time to aggregate the donor dashboard",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
		HTTPLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bloodlink_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

func (m *Metrics) IncrementUsersCreated(role string) {
	if m == nil {
		return
	}
	m.UsersCreated.WithLabelValues(role).Inc()
}

func (m *Metrics) IncrementDonations(op string) {
	if m == nil {
		return
	}
	m.DonationsRecorded.WithLabelValues(op).Inc()
}

func (m *Metrics) AddLowStockRows(n int) {
	if m == nil || n == 0 {
		return
	}
	m.LowStockRows.Add(float64(n))
}

func (m *Metrics) IncrementEmergenciesOpened(urgency string) {
	if m == nil {
		return
	}
	m.EmergenciesOpened.WithLabelValues(urgency).Inc()
}

func (m *Metrics) IncrementNotificationsFailed() {
	if m == nil {
		return
	}
	m.NotificationsFailed.Inc()
}

func (m *Metrics) IncrementSeekerSubmissions(outcome string) {
	if m == nil {
		return
	}
	m.SeekerSubmissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveDashboard(start time.Time) {
	if m == nil {
		return
	}
	m.DashboardLatency.Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveHTTP(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPLatency.WithLabelValues(route, method, status).Observe(d.Seconds())
}
