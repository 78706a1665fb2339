// Package controller implements the commands to use the polls contract from
// the command line, and to serve its queries over HTTP.
//
//	tally --db polls.db instantiate --sender addr1
//	tally --db polls.db execute --sender addr1 --msg \
//	  '{"create_poll":{"poll_id":"p1","question":"Ready?","options":["yes","no"]}}'
//	tally --db polls.db query --msg '{"get_poll":{"poll_id":"p1"}}'
//	tally --config tally.yaml serve --listen 127.0.0.1:8080
package controller

import (
	"go.dedis.ch/tally/cli"
	"go.dedis.ch/tally/cli/node"
	"go.dedis.ch/tally/contracts/polls"
	"go.dedis.ch/tally/core/access"
	"go.dedis.ch/tally/core/execution/native"
	"go.dedis.ch/tally/core/store/kv"
	"go.dedis.ch/tally/internal/config"
	"golang.org/x/xerrors"
)

// Bucket is the name of the bucket of the database that holds the store of
// the contract.
var Bucket = []byte("polls")

const (
	senderFlag = "sender"
	adminFlag  = "admin"
	msgFlag    = "msg"
	listenFlag = "listen"
)

// controller is an initializer with the commands of the polls contract.
//
// - implements node.Initializer
type controller struct{}

// NewController returns a new controller initializer. It must run after the
// database is injected.
func NewController() node.Initializer {
	return controller{}
}

// SetCommands implements node.Initializer. It defines the commands of the
// contract.
func (controller) SetCommands(builder node.Builder) {
	cmd := builder.SetCommand("instantiate")
	cmd.SetDescription("initialize the contract with its administrator")
	cmd.SetFlags(
		cli.StringFlag{
			Name:     senderFlag,
			Usage:    "address of the sender",
			Env:      "TALLY_SENDER",
			Required: true,
		},
		cli.StringFlag{
			Name:  adminFlag,
			Usage: "address of the administrator, the sender if not set",
		},
	)
	cmd.SetAction(builder.MakeAction(instantiateAction{}))

	cmd = builder.SetCommand("execute")
	cmd.SetDescription("run a command of the contract")
	cmd.SetFlags(
		cli.StringFlag{
			Name:     senderFlag,
			Usage:    "address of the sender",
			Env:      "TALLY_SENDER",
			Required: true,
		},
		cli.StringFlag{
			Name:     msgFlag,
			Usage:    "JSON command, for example {\"vote\":{\"poll_id\":\"p1\",\"option\":\"yes\"}}",
			Required: true,
		},
	)
	cmd.SetAction(builder.MakeAction(executeAction{}))

	cmd = builder.SetCommand("query")
	cmd.SetDescription("read the state of the contract")
	cmd.SetFlags(cli.StringFlag{
		Name:     msgFlag,
		Usage:    "JSON query, for example {\"list_polls\":{}}",
		Required: true,
	})
	cmd.SetAction(builder.MakeAction(queryAction{}))

	cmd = builder.SetCommand("serve")
	cmd.SetDescription("serve the queries and the metrics over HTTP until interrupted")
	cmd.SetFlags(cli.StringFlag{
		Name:  listenFlag,
		Usage: "address of the HTTP server, overrides the configuration",
		Env:   "TALLY_LISTEN",
	})
	cmd.SetAction(builder.MakeAction(serveAction{}))
}

// OnStart implements node.Initializer. It creates the execution service with
// the polls contract, and injects it with the ledger.
func (controller) OnStart(flags cli.Flags, inj node.Injector) error {
	var cfg config.Config
	err := inj.Resolve(&cfg)
	if err != nil {
		return xerrors.Errorf("failed to resolve config: %v", err)
	}

	var db kv.DB
	err = inj.Resolve(&db)
	if err != nil {
		return xerrors.Errorf("failed to resolve db: %v", err)
	}

	opts := []polls.ContractOption{
		polls.WithListLimits(cfg.ListDefaultLimit, cfg.ListMaxLimit),
	}

	if !cfg.RejectDuplicateLabels {
		opts = append(opts, polls.WithDuplicateLabels())
	}

	exec := native.NewExecution()
	polls.RegisterContract(exec, polls.NewContract(access.NewValidator(), opts...))

	inj.Inject(exec)
	inj.Inject(kv.NewLedger(db, Bucket))

	return nil
}

// OnStop implements node.Initializer.
func (controller) OnStop(node.Injector) error {
	return nil
}
