package smc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notaryRegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smc_notary_registrations_total",
		Help: "The number of notaries that have joined the pool.",
	})
	notaryDeregistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smc_notary_deregistrations_total",
		Help: "The number of notaries that have left the pool.",
	})
	notaryReleasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smc_notary_releases_total",
		Help: "The number of notary deposits released after lockup.",
	})
	notaryPoolSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "smc_notary_pool_size",
		Help: "The number of active notaries in the pool.",
	})
	collationHeadersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smc_collation_headers_total",
		Help: "The number of collation headers accepted across all shards.",
	})
	newShardHeadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smc_new_shard_heads_total",
		Help: "The number of accepted collation headers that became a shard head.",
	})
	receiptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "smc_receipts_total",
		Help: "The number of cross-shard transfer receipts recorded.",
	})
)
