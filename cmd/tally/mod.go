// Package main implements the tally node, which runs the polls contract on a
// local database.
//
//	tally --db polls.db instantiate --sender addr1
//	tally --db polls.db execute --sender addr1 \
//	  --msg '{"create_poll":{"poll_id":"p1","question":"Ready?","options":["yes","no"]}}'
//	tally --db polls.db execute --sender addr2 \
//	  --msg '{"vote":{"poll_id":"p1","option":"yes"}}'
//	tally --db polls.db query --msg '{"get_poll":{"poll_id":"p1"}}'
//	tally --config tally.yaml serve
package main

import (
	"fmt"
	"io"
	"os"

	"go.dedis.ch/tally/cli/node"
	polls "go.dedis.ch/tally/contracts/polls/controller"
	db "go.dedis.ch/tally/core/store/kv/controller"
	config "go.dedis.ch/tally/internal/config/controller"
)

type runConfig struct {
	Channel chan os.Signal
	Writer  io.Writer
}

func main() {
	err := run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	return runWithCfg(args, runConfig{Writer: os.Stdout})
}

func runWithCfg(args []string, cfg runConfig) error {
	builder := node.NewBuilderWithCfg("tally", cfg.Channel, cfg.Writer,
		config.NewController(),
		db.NewController(),
		polls.NewController(),
	)

	app := builder.Build()

	return app.Run(args)
}
