// Package node defines a backend for a sharding-enabled, Ethereum blockchain.
// It defines a struct which handles the lifecycle of services in the
// sharding system, providing a bridge to the main Ethereum blockchain.
package node

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/geth-sharding/shared"
	"github.com/prysmaticlabs/geth-sharding/shared/cmd"
	"github.com/prysmaticlabs/geth-sharding/shared/prometheus"
	"github.com/prysmaticlabs/geth-sharding/sharding"
	"github.com/prysmaticlabs/geth-sharding/sharding/database"
	"github.com/prysmaticlabs/geth-sharding/sharding/mainchain"
	"github.com/prysmaticlabs/geth-sharding/sharding/notary"
	"github.com/prysmaticlabs/geth-sharding/sharding/observer"
	"github.com/prysmaticlabs/geth-sharding/sharding/params"
	"github.com/prysmaticlabs/geth-sharding/sharding/proposer"
	"github.com/prysmaticlabs/geth-sharding/sharding/simulator"
	"github.com/prysmaticlabs/geth-sharding/sharding/smc"
	"github.com/prysmaticlabs/geth-sharding/sharding/txpool"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const shardChainDBName = "shardchaindata"

// ShardEthereum is a service that is registered and started when geth is launched.
// It contains APIs and fields that handle the different components of the sharded
// Ethereum network.
type ShardEthereum struct {
	shardConfig *params.Config
	manager     *smc.SMC

	// Lifecycle and service stores.
	services *shared.ServiceRegistry
	lock     sync.RWMutex
	stop     chan struct{} // Channel to wait for termination notifications.
}

// New creates a new sharding-enabled Ethereum instance. This is called in the
// main geth sharding entrypoint.
func New(ctx *cli.Context) (*ShardEthereum, error) {
	registry := shared.NewServiceRegistry()
	shardEthereum := &ShardEthereum{
		shardConfig: params.DefaultConfig,
		services:    registry,
		stop:        make(chan struct{}),
	}

	shardDB, err := shardEthereum.registerShardChainDB(ctx)
	if err != nil {
		return nil, err
	}

	chain, err := shardEthereum.registerSimulator(ctx)
	if err != nil {
		return nil, err
	}

	reader, err := mainchain.NewCachedReader(chain)
	if err != nil {
		return nil, err
	}
	manager, err := smc.NewSMC(shardEthereum.shardConfig, reader, shardDB.DB())
	if err != nil {
		return nil, errors.Wrap(err, "could not set up the sharding manager")
	}
	shardEthereum.manager = manager

	shardID := ctx.Int64(cmd.ShardIDFlag.Name)
	if shardID < 0 || shardID >= shardEthereum.shardConfig.ShardCount {
		return nil, errors.Errorf("shard ID %d out of range", shardID)
	}
	shard := sharding.NewShard(shardID, shardDB.DB())

	actorFlag := ctx.String(cmd.ActorFlag.Name)
	pool, err := shardEthereum.registerTXPool(actorFlag)
	if err != nil {
		return nil, err
	}

	if err := shardEthereum.registerActorService(ctx, actorFlag, chain, pool, shard); err != nil {
		return nil, err
	}

	if !ctx.Bool(cmd.DisableMonitoringFlag.Name) {
		if err := shardEthereum.registerPrometheusService(ctx); err != nil {
			return nil, err
		}
	}

	return shardEthereum, nil
}

// SMC exposes the sharding manager state machine backing this node.
func (s *ShardEthereum) SMC() *smc.SMC {
	return s.manager
}

// Start the ShardEthereum service and kicks off the actor's main loop.
func (s *ShardEthereum) Start() {
	s.lock.Lock()

	log.Info("Starting sharding node")

	s.services.StartAll()

	stop := s.stop
	s.lock.Unlock()

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		<-sigc
		log.Info("Got interrupt, shutting down...")
		go s.Close()
		for i := 10; i > 0; i-- {
			<-sigc
			if i > 1 {
				log.WithField("times", i-1).Info("Already shutting down, interrupt more to panic.")
			}
		}
		panic("Panic closing the sharding node")
	}()

	// Wait for stop channel to be closed.
	<-stop
}

// Close handles graceful shutdown of the system.
func (s *ShardEthereum) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.services.StopAll()
	s.manager.Close()
	log.Info("Stopping sharding node")

	close(s.stop)
}

// registerShardChainDB attaches a LevelDB wrapped object to the shardEthereum instance.
func (s *ShardEthereum) registerShardChainDB(ctx *cli.Context) (*database.ShardDB, error) {
	path := ctx.String(cmd.DataDirFlag.Name)
	inmemory := ctx.Bool(cmd.InMemoryFlag.Name)
	shardDB, err := database.NewShardDB(path, shardChainDBName, inmemory)
	if err != nil {
		return nil, errors.Wrap(err, "could not register shardDB service")
	}
	return shardDB, s.services.RegisterService("shard-db", shardDB)
}

// registerSimulator attaches the simulated mainchain the sharding services
// read block numbers and hashes from.
func (s *ShardEthereum) registerSimulator(ctx *cli.Context) (*simulator.Simulator, error) {
	sim := simulator.NewSimulator(ctx.Duration(cmd.BlockTimeFlag.Name))
	return sim, s.services.RegisterService("simulator", sim)
}

// registerTXPool is only relevant to proposers in the sharded system. It will
// spin up a transaction pool that the proposer drains into collation bodies.
func (s *ShardEthereum) registerTXPool(actor string) (*txpool.TXPool, error) {
	if actor != "proposer" {
		return nil, nil
	}
	pool, err := txpool.NewTXPool()
	if err != nil {
		return nil, errors.Wrap(err, "could not register shard txpool service")
	}
	return pool, s.services.RegisterService("txpool", pool)
}

// Registers the actor according to CLI flags. Either notary/proposer/observer.
func (s *ShardEthereum) registerActorService(ctx *cli.Context, actor string, chain mainchain.Reader, pool *txpool.TXPool, shard *sharding.Shard) error {
	address := common.HexToAddress(ctx.String(cmd.AccountFlag.Name))

	switch actor {
	case "notary":
		not, err := notary.NewNotary(s.manager, shard.ShardID(), address, ctx.Bool(cmd.DepositFlag.Name))
		if err != nil {
			return errors.Wrap(err, "could not register notary service")
		}
		return s.services.RegisterService("notary", not)
	case "proposer":
		prop, err := proposer.NewProposer(s.manager, chain, pool, shard, address)
		if err != nil {
			return errors.Wrap(err, "could not register proposer service")
		}
		return s.services.RegisterService("proposer", prop)
	case "observer":
		obs, err := observer.NewObserver(s.manager, shard)
		if err != nil {
			return errors.Wrap(err, "could not register observer service")
		}
		return s.services.RegisterService("observer", obs)
	default:
		return errors.Errorf("unknown actor %q", actor)
	}
}

// registerPrometheusService exposes /metrics and /healthz for the node.
func (s *ShardEthereum) registerPrometheusService(ctx *cli.Context) error {
	service := prometheus.NewPrometheusService(
		fmt.Sprintf(":%d", ctx.Int(cmd.MonitoringPortFlag.Name)),
		s.services,
	)
	return s.services.RegisterService("prometheus", service)
}
