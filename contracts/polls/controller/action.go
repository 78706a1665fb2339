package controller

import (
	"fmt"
	"time"

	"go.dedis.ch/tally"
	"go.dedis.ch/tally/cli/node"
	"go.dedis.ch/tally/contracts/polls"
	"go.dedis.ch/tally/contracts/polls/json"
	"go.dedis.ch/tally/contracts/polls/types"
	"go.dedis.ch/tally/core/access"
	"go.dedis.ch/tally/core/execution"
	"go.dedis.ch/tally/core/execution/native"
	"go.dedis.ch/tally/core/store"
	"go.dedis.ch/tally/core/txn"
	"go.dedis.ch/tally/core/txn/basic"
	"go.dedis.ch/tally/internal/config"
	"go.dedis.ch/tally/proxy"
	proxyhttp "go.dedis.ch/tally/proxy/http"
	"golang.org/x/xerrors"
)

var (
	defaultRetry = 50
	retryDelay   = 100 * time.Millisecond

	proxyFac func(string) proxy.Proxy = func(addr string) proxy.Proxy {
		return proxyhttp.NewHTTP(addr)
	}
)

// instantiateAction is an action to instantiate the contract.
//
// - implements node.ActionTemplate
type instantiateAction struct{}

// Execute implements node.ActionTemplate. It applies an instantiate
// transaction and prints the response.
func (a instantiateAction) Execute(ctx node.Context) error {
	msg := types.InstantiateMsg{}

	admin := ctx.Flags.String(adminFlag)
	if admin != "" {
		msg.Admin = &admin
	}

	data, err := json.Encode(msg)
	if err != nil {
		return err
	}

	return apply(ctx, native.EntryInstantiate, data)
}

// executeAction is an action to run a command of the contract.
//
// - implements node.ActionTemplate
type executeAction struct{}

// Execute implements node.ActionTemplate. It applies an execute transaction
// with the message of the flag and prints the response.
func (a executeAction) Execute(ctx node.Context) error {
	return apply(ctx, native.EntryExecute, []byte(ctx.Flags.String(msgFlag)))
}

// queryAction is an action to read the state of the contract.
//
// - implements node.ActionTemplate
type queryAction struct{}

// Execute implements node.ActionTemplate. It prints the JSON response of the
// query.
func (a queryAction) Execute(ctx node.Context) error {
	exec, ledger, err := resolve(ctx.Injector)
	if err != nil {
		return err
	}

	data, err := exec.Query(ledger, polls.ContractName, []byte(ctx.Flags.String(msgFlag)))
	if err != nil {
		return xerrors.Errorf("query failed: %w", err)
	}

	fmt.Fprintln(ctx.Out, string(data))

	return nil
}

// serveAction is an action to serve the queries over HTTP.
//
// - implements node.ActionTemplate
type serveAction struct{}

// Execute implements node.ActionTemplate. It starts the proxy and blocks until
// the process is interrupted.
func (a serveAction) Execute(ctx node.Context) error {
	var cfg config.Config
	err := ctx.Injector.Resolve(&cfg)
	if err != nil {
		return xerrors.Errorf("failed to resolve config: %v", err)
	}

	exec, ledger, err := resolve(ctx.Injector)
	if err != nil {
		return err
	}

	srv := proxyFac(cfg.Listen)

	srv.RegisterHandler("/polls/query", queryHandler(exec, ledger))

	err = srv.RegisterMetrics("/metrics", tally.PromCollectors...)
	if err != nil {
		return xerrors.Errorf("failed to register metrics: %v", err)
	}

	go srv.Listen()

	for i := 0; i < defaultRetry && srv.GetAddr() == nil; i++ {
		time.Sleep(retryDelay)
	}

	if srv.GetAddr() == nil {
		return xerrors.Errorf("failed to start proxy server on '%s'", cfg.Listen)
	}

	defer srv.Stop()

	fmt.Fprintf(ctx.Out, "started proxy server on %s\n", srv.GetAddr())

	ctx.WaitInterrupt()

	return nil
}

// apply builds a transaction of the sender for the entry point and applies it
// to the ledger. A rejected transaction is reported as an error.
func apply(ctx node.Context, entry native.Entry, msg []byte) error {
	exec, ledger, err := resolve(ctx.Injector)
	if err != nil {
		return err
	}

	sender, err := access.NewValidator().Validate(ctx.Flags.String(senderFlag))
	if err != nil {
		return xerrors.Errorf("invalid sender: %v", err)
	}

	tx, err := basic.NewTransaction(uint64(time.Now().UnixNano()), sender,
		basic.WithArg(native.ContractArg, []byte(polls.ContractName)),
		basic.WithArg(native.EntryArg, []byte(entry)),
		basic.WithArg(native.MessageArg, msg),
	)
	if err != nil {
		return xerrors.Errorf("failed to create transaction: %v", err)
	}

	res, err := exec.Apply(ledger, tx)
	if err != nil {
		return xerrors.Errorf("failed to apply transaction: %v", err)
	}

	if !res.Accepted {
		return xerrors.Errorf("transaction rejected: %s", res.Message)
	}

	data, err := json.Encode(res.Response)
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.Out, string(data))

	return nil
}

func resolve(inj node.Injector) (service, store.Ledger, error) {
	var exec *native.Service
	err := inj.Resolve(&exec)
	if err != nil {
		return nil, nil, xerrors.Errorf("failed to resolve native service: %v", err)
	}

	var ledger store.Ledger
	err = inj.Resolve(&ledger)
	if err != nil {
		return nil, nil, xerrors.Errorf("failed to resolve ledger: %v", err)
	}

	return exec, ledger, nil
}

// service is the part of the execution service used by the actions.
type service interface {
	Apply(ledger store.Ledger, tx txn.Transaction) (execution.Result, error)
	Query(ledger store.Ledger, name string, msg []byte) ([]byte, error)
}
