// Package cmd defines the command line flags shared by the sharding node
// entrypoints.
package cmd

import (
	"time"

	"github.com/urfave/cli/v2"
)

var (
	// VerbosityFlag defines the logrus configuration.
	VerbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity (trace, debug, info=default, warn, error, fatal, panic)",
		Value: "info",
	}
	// DataDirFlag defines a path on disk.
	DataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory for the databases and keystore",
		Value: DefaultDataDir(),
	}
	// InMemoryFlag keeps all shard data in memory instead of on disk.
	InMemoryFlag = &cli.BoolFlag{
		Name:  "inmemory",
		Usage: "Keep shard chain data in memory only. Useful for testing",
	}
	// ActorFlag defines the role of the sharding node.
	ActorFlag = &cli.StringFlag{
		Name:  "actor",
		Usage: `use the --actor notary or --actor proposer to start a notary or proposer service in the sharding node. If omitted, the sharding node registers an observer service that simply observes the activity in the sharded network`,
		Value: "observer",
	}
	// ShardIDFlag specifies which shard the actor works on.
	ShardIDFlag = &cli.Int64Flag{
		Name:  "shardid",
		Usage: "use the --shardid to determine which shard to start p2p server, listen for incoming transactions and perform proposer/observer duties",
	}
	// AccountFlag is the hex address the actor operates under.
	AccountFlag = &cli.StringFlag{
		Name:  "account",
		Usage: "Hex address of the account used for notary deposits and proposals",
	}
	// DepositFlag bonds the notary deposit on startup.
	DepositFlag = &cli.BoolFlag{
		Name:  "deposit",
		Usage: "To become a notary in a sharding node, " +
			"the deposit flag deposits the configured stake into the manager's pool",
	}
	// BlockTimeFlag sets the simulated mainchain block interval.
	BlockTimeFlag = &cli.DurationFlag{
		Name:  "block-time",
		Usage: "Interval between simulated mainchain blocks",
		Value: 14 * time.Second,
	}
	// DisableMonitoringFlag defines a flag to disable the metrics collection.
	DisableMonitoringFlag = &cli.BoolFlag{
		Name:  "disable-monitoring",
		Usage: "Disable monitoring service.",
	}
	// MonitoringPortFlag defines the http port used to serve prometheus metrics.
	MonitoringPortFlag = &cli.IntFlag{
		Name:  "monitoring-port",
		Usage: "Port used to listening and respond metrics for prometheus.",
		Value: 8080,
	}
)
