// Package native implements an execution service to run native contracts.
//
// A native contract is written in Go and packaged with the application. The
// service routes a transaction to the contract named in its arguments and
// calls the entry point it asks for. When it is given a ledger, the service
// stages the transition so that the writes of a rejected transaction are
// never committed.
package native

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.dedis.ch/tally"
	"go.dedis.ch/tally/core/execution"
	"go.dedis.ch/tally/core/store"
	"go.dedis.ch/tally/core/txn"
	"golang.org/x/xerrors"
)

const (
	// ContractArg is the argument key in the transaction to look up a contract.
	ContractArg = "go.dedis.ch/tally.ContractArg"

	// EntryArg is the argument key in the transaction that selects the entry
	// point of the contract.
	EntryArg = "go.dedis.ch/tally.EntryArg"

	// MessageArg is the argument key in the transaction that contains the
	// encoded message for the entry point.
	MessageArg = "go.dedis.ch/tally.MessageArg"
)

// Entry is the name of a mutating entry point of a contract.
type Entry string

const (
	// EntryInstantiate is the entry point that initializes the contract.
	EntryInstantiate Entry = "instantiate"

	// EntryExecute is the entry point that runs a contract command.
	EntryExecute Entry = "execute"
)

var (
	txCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_native_transactions_total",
		Help: "number of transactions executed by the native service",
	}, []string{"contract", "entry", "accepted"})

	queryCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_native_queries_total",
		Help: "number of queries served by the native service",
	}, []string{"contract", "success"})
)

func init() {
	tally.PromCollectors = append(tally.PromCollectors, txCounter, queryCounter)
}

// Contract is the interface to implement to register a contract that will be
// executed natively.
type Contract interface {
	// Instantiate initializes the state of the contract.
	Instantiate(store.Snapshot, execution.Step) (execution.Response, error)

	// Execute applies a command of the contract.
	Execute(store.Snapshot, execution.Step) (execution.Response, error)

	// Query reads the state of the contract and returns the encoded response.
	// It must not write to the store.
	Query(store.Reader, []byte) ([]byte, error)
}

// Service is an execution service for packaged applications. Those
// applications have complete access to the store and can directly update it.
//
// - implements execution.Service
type Service struct {
	contracts map[string]Contract
}

// NewExecution returns a new native execution. The given service will be
// executed for every incoming transaction.
func NewExecution() *Service {
	return &Service{
		contracts: map[string]Contract{},
	}
}

// Set stores the contract using the name as the key. A transaction can trigger
// this contract by using the same name as the contract argument.
func (ns *Service) Set(name string, contract Contract) {
	_, found := ns.contracts[name]
	if found {
		panic(xerrors.Errorf("contract '%s' already registered", name))
	}

	ns.contracts[name] = contract
}

// Execute implements execution.Service. It uses the contract named by the
// transaction to process it and return the result. A contract failure is
// reported in the result, while an error means the transaction could not be
// routed.
func (ns *Service) Execute(snap store.Snapshot, step execution.Step) (execution.Result, error) {
	name := string(step.Current.GetArg(ContractArg))

	contract := ns.contracts[name]
	if contract == nil {
		return execution.Result{}, xerrors.Errorf("unknown contract '%s'", name)
	}

	var resp execution.Response
	var err error

	entry := Entry(step.Current.GetArg(EntryArg))

	switch entry {
	case EntryInstantiate:
		resp, err = contract.Instantiate(snap, step)
	case EntryExecute:
		resp, err = contract.Execute(snap, step)
	default:
		return execution.Result{}, xerrors.Errorf("unknown entry '%s'", entry)
	}

	if err != nil {
		txCounter.WithLabelValues(name, string(entry), "false").Inc()

		return execution.Result{Message: err.Error()}, nil
	}

	txCounter.WithLabelValues(name, string(entry), "true").Inc()

	res := execution.Result{
		Accepted: true,
		Response: resp,
	}

	return res, nil
}

// Apply executes the transaction in a staged snapshot of the ledger. The writes
// are committed only if the transaction is accepted.
func (ns *Service) Apply(ledger store.Ledger, tx txn.Transaction) (execution.Result, error) {
	var res execution.Result

	err := ledger.Stage(func(snap store.Snapshot) error {
		var err error

		res, err = ns.Execute(snap, execution.Step{Current: tx})
		if err != nil {
			return err
		}

		if !res.Accepted {
			return errRejected
		}

		return nil
	})

	if xerrors.Is(err, errRejected) {
		tally.Logger.Warn().
			Hex("tx", tx.GetID()).
			Str("sender", tx.GetSender().String()).
			Str("reason", res.Message).
			Msg("transaction rejected")

		return res, nil
	}

	if err != nil {
		return execution.Result{}, xerrors.Errorf("failed to stage: %v", err)
	}

	return res, nil
}

// Query runs the query message against a read-only view of the ledger.
func (ns *Service) Query(ledger store.Ledger, name string, msg []byte) ([]byte, error) {
	contract := ns.contracts[name]
	if contract == nil {
		return nil, xerrors.Errorf("unknown contract '%s'", name)
	}

	var data []byte

	err := ledger.View(func(r store.Reader) error {
		var err error

		data, err = contract.Query(r, msg)
		return err
	})

	if err != nil {
		queryCounter.WithLabelValues(name, "false").Inc()

		return nil, err
	}

	queryCounter.WithLabelValues(name, "true").Inc()

	return data, nil
}

var errRejected = xerrors.New("transaction rejected")
