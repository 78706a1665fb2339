// Package types defines the records stored by the polls contract and the
// messages exchanged with its callers.
package types

import (
	"strings"

	"go.dedis.ch/tally/core/access"
)

// Config is the configuration of the contract, written once when it is
// instantiated.
type Config struct {
	Admin access.Address `json:"admin"`
}

// ContractInfo identifies the code that instantiated the store.
type ContractInfo struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}

// Option is a choice of a poll with the number of ballots that selected it.
type Option struct {
	Label     string `json:"label"`
	VoteCount uint64 `json:"vote_count"`
}

// Poll is a question with its options, owned by its creator.
type Poll struct {
	Creator  access.Address `json:"creator"`
	Question string         `json:"question"`
	Options  []Option       `json:"options"`
}

// NewPoll creates a poll with every option starting at zero votes.
func NewPoll(creator access.Address, question string, labels []string) Poll {
	options := make([]Option, len(labels))
	for i, label := range labels {
		options[i] = Option{Label: label}
	}

	return Poll{
		Creator:  creator,
		Question: question,
		Options:  options,
	}
}

// IndexOf returns the index of the first option with the label, or -1.
func (p Poll) IndexOf(label string) int {
	for i, opt := range p.Options {
		if opt.Label == label {
			return i
		}
	}

	return -1
}

// Labels returns the labels of the options joined with a comma.
func (p Poll) Labels() string {
	labels := make([]string, len(p.Options))
	for i, opt := range p.Options {
		labels[i] = opt.Label
	}

	return strings.Join(labels, ", ")
}

// TotalVotes returns the sum of the votes of every option.
func (p Poll) TotalVotes() uint64 {
	var total uint64
	for _, opt := range p.Options {
		total += opt.VoteCount
	}

	return total
}

// Ballot is the choice of a voter on a poll.
type Ballot struct {
	Option string `json:"option"`
}
