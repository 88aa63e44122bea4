// Package metrics exposes Prometheus counters for ledger activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the ledger collectors
	Registry = prometheus.NewRegistry()

	RafflesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "raffle_created_total",
		Help: "Total number of raffles created.",
	})

	TicketsIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "raffle_tickets_issued_total",
		Help: "Total number of tickets issued.",
	})

	TicketRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "raffle_ticket_rejections_total",
		Help: "Ticket purchases rejected, by error kind.",
	}, []string{"kind"})

	RafflesClosed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "raffle_closed_total",
		Help: "Total number of raffles closed with a winner.",
	})

	PrizesClaimed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "raffle_prizes_claimed_total",
		Help: "Total number of prizes claimed by winners.",
	})

	InvariantViolations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "raffle_invariant_violations_total",
		Help: "Mutations rejected because they broke a ledger invariant.",
	})
)

func init() {
	Registry.MustRegister(
		RafflesCreated,
		TicketsIssued,
		TicketRejections,
		RafflesClosed,
		PrizesClaimed,
		InvariantViolations,
	)
}

// Handler returns an HTTP handler exposing the ledger registry
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
