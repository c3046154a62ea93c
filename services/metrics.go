package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds the service's metrics. main serves it at /metrics.
var Registry = prometheus.NewRegistry()

var (
	energyConsumed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "season_economy_energy_consumed_total",
		Help: "Total energy points consumed by gameplay.",
	})

	pointsAwarded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "season_economy_points_awarded_total",
		Help: "Total season points awarded.",
	})

	gamesRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "season_economy_games_recorded_total",
		Help: "Games recorded, labelled by outcome.",
	}, []string{"outcome"})

	purchasesRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "season_economy_purchases_total",
		Help: "Essence-funded purchases, labelled by transaction type.",
	}, []string{"type"})

	snapshotsTaken = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "season_economy_leaderboard_snapshots_total",
		Help: "Leaderboard snapshot generations written.",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		energyConsumed,
		pointsAwarded,
		gamesRecorded,
		purchasesRecorded,
		snapshotsTaken,
	)
}
