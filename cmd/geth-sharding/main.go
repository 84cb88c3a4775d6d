// Package main defines the entrypoint of a sharding client. The node connects
// a simulated mainchain to the sharding manager state machine and runs one of
// the notary, proposer or observer actors against it.
package main

import (
	"os"

	"github.com/prysmaticlabs/geth-sharding/shared/cmd"
	"github.com/prysmaticlabs/geth-sharding/sharding/node"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var log = logrus.WithField("prefix", "main")

var appFlags = []cli.Flag{
	cmd.VerbosityFlag,
	cmd.DataDirFlag,
	cmd.InMemoryFlag,
	cmd.ActorFlag,
	cmd.ShardIDFlag,
	cmd.AccountFlag,
	cmd.DepositFlag,
	cmd.BlockTimeFlag,
	cmd.DisableMonitoringFlag,
	cmd.MonitoringPortFlag,
}

func startNode(ctx *cli.Context) error {
	verbosity := ctx.String(cmd.VerbosityFlag.Name)
	level, err := logrus.ParseLevel(verbosity)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	shardingNode, err := node.New(ctx)
	if err != nil {
		return err
	}
	// Blocks until the node is interrupted.
	shardingNode.Start()
	return nil
}

func main() {
	app := cli.App{}
	app.Name = "geth-sharding"
	app.Usage = `launches a sharding client that manages notary membership, proposes collations and follows shard fork choice`
	app.Flags = appFlags
	app.Action = startNode
	app.Before = func(ctx *cli.Context) error {
		logrus.SetFormatter(&prefixed.TextFormatter{
			FullTimestamp: true,
		})
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
