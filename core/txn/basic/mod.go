// Package basic implements a transaction sent by an authenticated address.
//
// The host runtime is responsible for authenticating the sender before the
// transaction is created, so the transaction does not carry a signature.
package basic

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"io"
	"sort"

	"go.dedis.ch/tally/core/access"
	"go.dedis.ch/tally/core/txn"
	"golang.org/x/xerrors"
)

// Transaction is a transaction with a sender and a set of arguments.
//
// - implements txn.Transaction
type Transaction struct {
	nonce  uint64
	sender access.Address
	args   map[string][]byte
	hash   []byte
}

type template struct {
	Transaction

	hashFactory func() hash.Hash
}

// TransactionOption is the type of options to create a transaction.
type TransactionOption func(*template)

// WithArg is an option to set an argument with the key and the value.
func WithArg(key string, value []byte) TransactionOption {
	return func(tmpl *template) {
		tmpl.args[key] = value
	}
}

// WithArgs is an option to set a list of arguments.
func WithArgs(args ...txn.Arg) TransactionOption {
	return func(tmpl *template) {
		for _, arg := range args {
			tmpl.args[arg.Key] = arg.Value
		}
	}
}

// WithHashFactory is an option to set a different hash function when creating
// a transaction.
func WithHashFactory(f func() hash.Hash) TransactionOption {
	return func(tmpl *template) {
		tmpl.hashFactory = f
	}
}

// NewTransaction creates a new transaction with the provided nonce, sent by the
// given address.
func NewTransaction(nonce uint64, sender access.Address, opts ...TransactionOption) (Transaction, error) {
	tmpl := template{
		Transaction: Transaction{
			nonce:  nonce,
			sender: sender,
			args:   make(map[string][]byte),
		},
		hashFactory: sha256.New,
	}

	for _, opt := range opts {
		opt(&tmpl)
	}

	h := tmpl.hashFactory()
	err := tmpl.Fingerprint(h)
	if err != nil {
		return tmpl.Transaction, xerrors.Errorf("couldn't fingerprint tx: %v", err)
	}

	tmpl.hash = h.Sum(nil)

	return tmpl.Transaction, nil
}

// GetID implements txn.Transaction. It returns the ID of the transaction.
func (t Transaction) GetID() []byte {
	return t.hash
}

// GetNonce implements txn.Transaction. It returns the nonce of the transaction.
func (t Transaction) GetNonce() uint64 {
	return t.nonce
}

// GetSender implements txn.Transaction. It returns the sender address.
func (t Transaction) GetSender() access.Address {
	return t.sender
}

// GetArgs returns the list of arguments available, in order.
func (t Transaction) GetArgs() []string {
	args := make([]string, 0, len(t.args))
	for key := range t.args {
		args = append(args, key)
	}

	sort.Strings(args)

	return args
}

// GetArg implements txn.Transaction. It returns the value of the argument if it
// is set, otherwise nil.
func (t Transaction) GetArg(key string) []byte {
	return t.args[key]
}

// Fingerprint writes a deterministic binary representation of the transaction.
func (t Transaction) Fingerprint(w io.Writer) error {
	buffer := make([]byte, 8)
	binary.LittleEndian.PutUint64(buffer, t.nonce)

	_, err := w.Write(buffer)
	if err != nil {
		return xerrors.Errorf("couldn't write nonce: %v", err)
	}

	err = writeField(w, []byte(t.sender))
	if err != nil {
		return xerrors.Errorf("couldn't write sender: %v", err)
	}

	for _, key := range t.GetArgs() {
		err = writeField(w, []byte(key))
		if err != nil {
			return xerrors.Errorf("couldn't write arg: %v", err)
		}

		err = writeField(w, t.args[key])
		if err != nil {
			return xerrors.Errorf("couldn't write arg: %v", err)
		}
	}

	return nil
}

// writeField writes the length of the data followed by the data so that two
// sequences of fields never produce the same stream.
func writeField(w io.Writer, data []byte) error {
	length := make([]byte, 8)
	binary.LittleEndian.PutUint64(length, uint64(len(data)))

	_, err := w.Write(length)
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}
