package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking workflow.
type BookingMetrics struct {
	bookingsTotal   *prometheus.CounterVec
	labOrdersTotal  *prometheus.CounterVec
	bookingLatency  *prometheus.HistogramVec
	eventsPublished *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carecoord",
			Subsystem: "booking",
			Name:      "appointments_total",
			Help:      "Total appointment booking attempts",
		}, []string{"status"}),
		labOrdersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carecoord",
			Subsystem: "booking",
			Name:      "lab_orders_total",
			Help:      "Total lab order scheduling attempts",
		}, []string{"status"}),
		bookingLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "carecoord",
			Subsystem: "booking",
			Name:      "submission_latency_seconds",
			Help:      "Latency of booking submissions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carecoord",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total booking events handed to the queue",
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.labOrdersTotal, m.bookingLatency, m.eventsPublished)
	return m
}

func (m *BookingMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveLabOrder(status string) {
	if m == nil {
		return
	}
	m.labOrdersTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveSubmissionLatency(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.bookingLatency.WithLabelValues(kind).Observe(seconds)
}

func (m *BookingMetrics) ObserveEventPublished(kind string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(kind).Inc()
}
