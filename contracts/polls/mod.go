// Package polls implements a native contract to run polls.
//
// An administrator is set when the contract is instantiated. Any sender can
// then create a poll with up to MaxOptions options and any sender can cast a
// single ballot per poll, which it can change or withdraw. A poll is deleted,
// together with its ballots, by its creator or by the administrator.
package polls

import (
	"math"

	"github.com/rs/zerolog"
	"go.dedis.ch/tally"
	"go.dedis.ch/tally/contracts/polls/json"
	"go.dedis.ch/tally/contracts/polls/types"
	"go.dedis.ch/tally/core/access"
	"go.dedis.ch/tally/core/execution"
	"go.dedis.ch/tally/core/execution/native"
	"go.dedis.ch/tally/core/store"
	"golang.org/x/xerrors"
)

const (
	// ContractName is the name of the contract.
	ContractName = "go.dedis.ch/tally.Polls"

	// Version is the version of the contract written in the contract info.
	Version = "0.1.0"

	// DefaultListLimit is the number of polls listed when no limit is given.
	DefaultListLimit = 10

	// MaxListLimit is the maximal number of polls listed at once.
	MaxListLimit = 30
)

// commands defines the commands of the polls contract. This interface helps in
// testing the contract.
type commands interface {
	createPoll(snap store.Snapshot, c call, msg types.CreatePoll) (execution.Response, error)
	deletePoll(snap store.Snapshot, c call, msg types.DeletePoll) (execution.Response, error)
	vote(snap store.Snapshot, c call, msg types.Vote) (execution.Response, error)
	deleteVote(snap store.Snapshot, c call, msg types.DeleteVote) (execution.Response, error)
}

// call is the context of a command.
type call struct {
	sender access.Address
	config types.Config
}

type rules struct {
	rejectDuplicates bool
	listDefault      uint32
	listMax          uint32
}

// ContractOption is the type of option to customize the contract.
type ContractOption func(*rules)

// WithDuplicateLabels is an option to accept polls with the same label used
// for several options. A ballot then always goes to the first of them.
func WithDuplicateLabels() ContractOption {
	return func(r *rules) {
		r.rejectDuplicates = false
	}
}

// WithListLimits is an option to set the default and the maximal number of
// polls returned by a list query.
func WithListLimits(def, maximum uint32) ContractOption {
	return func(r *rules) {
		r.listDefault = def
		r.listMax = maximum
	}
}

// RegisterContract registers the polls contract to the given execution
// service.
func RegisterContract(exec *native.Service, c Contract) {
	exec.Set(ContractName, c)
}

// Contract is the polls native contract.
//
// - implements native.Contract
type Contract struct {
	// validator checks the addresses given in the messages
	validator access.AddressValidator

	rules rules

	// cmd provides the commands executions
	cmd commands

	logger zerolog.Logger
}

// NewContract creates a new polls contract that validates the addresses with
// the given validator.
func NewContract(validator access.AddressValidator, opts ...ContractOption) Contract {
	r := rules{
		rejectDuplicates: true,
		listDefault:      DefaultListLimit,
		listMax:          MaxListLimit,
	}

	for _, opt := range opts {
		opt(&r)
	}

	contract := Contract{
		validator: validator,
		rules:     r,
		logger:    tally.Logger.With().Str("contract", "polls").Logger(),
	}

	contract.cmd = pollsCommand{Contract: &contract}

	return contract
}

// Instantiate implements native.Contract. It writes the configuration of the
// contract, which can happen only once per store.
func (c Contract) Instantiate(snap store.Snapshot, step execution.Step) (execution.Response, error) {
	msg, err := json.DecodeInstantiate(step.Current.GetArg(native.MessageArg))
	if err != nil {
		return execution.Response{}, xerrors.Errorf("failed to decode: %w", err)
	}

	_, err = loadConfig(snap)
	if err == nil {
		return execution.Response{}, types.NewError(types.ErrAlreadyInstantiated, "config exists")
	}

	if !xerrors.Is(err, types.ErrNotFound) {
		return execution.Response{}, err
	}

	input := step.Current.GetSender().String()
	if msg.Admin != nil {
		input = *msg.Admin
	}

	// The admin is checked even when it is the sender.
	admin, err := c.validator.Validate(input)
	if err != nil {
		return execution.Response{}, xerrors.Errorf("failed to validate admin: %w", err)
	}

	err = saveConfig(snap, types.Config{Admin: admin})
	if err != nil {
		return execution.Response{}, err
	}

	err = saveContractInfo(snap, types.ContractInfo{Contract: ContractName, Version: Version})
	if err != nil {
		return execution.Response{}, err
	}

	c.logger.Info().Str("admin", admin.String()).Msg("contract instantiated")

	resp := execution.NewResponse().
		AddAttribute("action", "instantiate").
		AddAttribute("admin", admin.String())

	return resp, nil
}

// Execute implements native.Contract. It runs the command of the message.
func (c Contract) Execute(snap store.Snapshot, step execution.Step) (execution.Response, error) {
	msg, err := json.DecodeExecute(step.Current.GetArg(native.MessageArg))
	if err != nil {
		return execution.Response{}, xerrors.Errorf("failed to decode: %w", err)
	}

	config, err := loadConfig(snap)
	if err != nil {
		return execution.Response{}, xerrors.Errorf("failed to load config: %w", err)
	}

	in := call{
		sender: step.Current.GetSender(),
		config: config,
	}

	var resp execution.Response

	switch {
	case msg.CreatePoll != nil:
		resp, err = c.cmd.createPoll(snap, in, *msg.CreatePoll)
		if err != nil {
			return resp, xerrors.Errorf("failed to create poll: %w", err)
		}
	case msg.DeletePoll != nil:
		resp, err = c.cmd.deletePoll(snap, in, *msg.DeletePoll)
		if err != nil {
			return resp, xerrors.Errorf("failed to delete poll: %w", err)
		}
	case msg.Vote != nil:
		resp, err = c.cmd.vote(snap, in, *msg.Vote)
		if err != nil {
			return resp, xerrors.Errorf("failed to vote: %w", err)
		}
	case msg.DeleteVote != nil:
		resp, err = c.cmd.deleteVote(snap, in, *msg.DeleteVote)
		if err != nil {
			return resp, xerrors.Errorf("failed to delete vote: %w", err)
		}
	default:
		return resp, types.NewError(types.ErrInvalidMessage, "missing command")
	}

	return resp, nil
}

// Query implements native.Contract. It returns the JSON response of the query
// message without writing to the store.
func (c Contract) Query(r store.Reader, data []byte) ([]byte, error) {
	msg, err := json.DecodeQuery(data)
	if err != nil {
		return nil, err
	}

	var resp interface{}

	switch {
	case msg.GetConfig != nil:
		config, err := loadConfig(r)
		if err != nil {
			return nil, err
		}

		resp = types.ConfigResponse{Admin: config.Admin}
	case msg.GetPoll != nil:
		poll, err := loadPoll(r, msg.GetPoll.PollID)
		if err != nil {
			return nil, err
		}

		resp = types.PollResponse{PollID: msg.GetPoll.PollID, Poll: poll}
	case msg.ListPolls != nil:
		limit := c.rules.listDefault
		if msg.ListPolls.Limit != nil {
			limit = *msg.ListPolls.Limit
		}

		if limit > c.rules.listMax {
			limit = c.rules.listMax
		}

		polls, err := listPolls(r, msg.ListPolls.StartAfter, limit)
		if err != nil {
			return nil, err
		}

		resp = types.ListPollsResponse{Polls: polls}
	case msg.GetVote != nil:
		vote, err := c.getVote(r, *msg.GetVote)
		if err != nil {
			return nil, err
		}

		resp = vote
	case msg.GetContractInfo != nil:
		info, err := loadContractInfo(r)
		if err != nil {
			return nil, err
		}

		resp = info
	default:
		return nil, types.NewError(types.ErrInvalidMessage, "missing query")
	}

	return json.Encode(resp)
}

func (c Contract) getVote(r store.Reader, msg types.GetVote) (types.VoteResponse, error) {
	resp := types.VoteResponse{}

	voter, err := c.validator.Validate(msg.Address)
	if err != nil {
		return resp, xerrors.Errorf("failed to validate address: %w", err)
	}

	_, err = loadPoll(r, msg.PollID)
	if err != nil {
		return resp, err
	}

	ballot, found, err := loadBallot(r, msg.PollID, voter)
	if err != nil {
		return resp, err
	}

	if found {
		resp.Vote = &ballot
	}

	return resp, nil
}

// pollsCommand implements the commands of the polls contract. Every check is
// done before the first write.
//
// - implements commands
type pollsCommand struct {
	*Contract
}

// createPoll implements commands. It stores a new poll owned by the sender.
func (c pollsCommand) createPoll(snap store.Snapshot, in call,
	msg types.CreatePoll) (execution.Response, error) {

	err := validateOptionCount(msg.Options)
	if err != nil {
		return execution.Response{}, err
	}

	err = validateOptionLabels(msg.Options, c.rules.rejectDuplicates)
	if err != nil {
		return execution.Response{}, err
	}

	err = validateUniquePollID(snap, msg.PollID)
	if err != nil {
		return execution.Response{}, err
	}

	poll := types.NewPoll(in.sender, msg.Question, msg.Options)

	err = savePoll(snap, msg.PollID, poll)
	if err != nil {
		return execution.Response{}, err
	}

	c.logger.Info().
		Str("poll", msg.PollID).
		Str("creator", in.sender.String()).
		Int("options", len(poll.Options)).
		Msg("poll created")

	resp := execution.NewResponse().
		AddAttribute("action", "create_poll").
		AddAttribute("creator", in.sender.String()).
		AddAttribute("question", poll.Question).
		AddAttribute("options", poll.Labels())

	return resp, nil
}

// deletePoll implements commands. It removes the poll and all its ballots.
func (c pollsCommand) deletePoll(snap store.Snapshot, in call,
	msg types.DeletePoll) (execution.Response, error) {

	poll, err := loadPoll(snap, msg.PollID)
	if err != nil {
		return execution.Response{}, err
	}

	err = authorizeCreatorOrAdmin(poll, in.config, in.sender)
	if err != nil {
		return execution.Response{}, err
	}

	// The voters are collected first as the store cannot be written while it
	// is scanned.
	var voters []access.Address

	err = listBallots(snap, msg.PollID, func(voter access.Address, _ types.Ballot) error {
		voters = append(voters, voter)
		return nil
	})
	if err != nil {
		return execution.Response{}, err
	}

	for _, voter := range voters {
		err = removeBallot(snap, msg.PollID, voter)
		if err != nil {
			return execution.Response{}, err
		}
	}

	err = removePoll(snap, msg.PollID)
	if err != nil {
		return execution.Response{}, err
	}

	c.logger.Info().
		Str("poll", msg.PollID).
		Int("ballots", len(voters)).
		Msg("poll deleted")

	resp := execution.NewResponse().
		AddAttribute("action", "delete_poll").
		AddAttribute("poll_id", msg.PollID)

	return resp, nil
}

// vote implements commands. It casts the ballot of the sender, or moves it to
// another option when the sender already voted.
func (c pollsCommand) vote(snap store.Snapshot, in call, msg types.Vote) (execution.Response, error) {
	poll, err := loadPoll(snap, msg.PollID)
	if err != nil {
		return execution.Response{}, err
	}

	index, err := validateOptionExists(poll, msg.Option)
	if err != nil {
		return execution.Response{}, err
	}

	previous, found, err := loadBallot(snap, msg.PollID, in.sender)
	if err != nil {
		return execution.Response{}, err
	}

	if found {
		err = withdraw(&poll, previous)
		if err != nil {
			return execution.Response{}, err
		}
	}

	if poll.Options[index].VoteCount == math.MaxUint64 {
		return execution.Response{}, types.NewError(types.ErrStorage,
			"vote count of '%s' overflows", msg.Option)
	}

	poll.Options[index].VoteCount++

	err = savePoll(snap, msg.PollID, poll)
	if err != nil {
		return execution.Response{}, err
	}

	err = saveBallot(snap, msg.PollID, in.sender, types.Ballot{Option: msg.Option})
	if err != nil {
		return execution.Response{}, err
	}

	c.logger.Info().
		Str("poll", msg.PollID).
		Str("voter", in.sender.String()).
		Bool("revote", found).
		Msg("vote cast")

	resp := execution.NewResponse().
		AddAttribute("action", "vote").
		AddAttribute("poll_id", msg.PollID).
		AddAttribute("option", msg.Option)

	return resp, nil
}

// deleteVote implements commands. It withdraws the ballot of the sender.
func (c pollsCommand) deleteVote(snap store.Snapshot, in call,
	msg types.DeleteVote) (execution.Response, error) {

	poll, err := loadPoll(snap, msg.PollID)
	if err != nil {
		return execution.Response{}, err
	}

	ballot, found, err := loadBallot(snap, msg.PollID, in.sender)
	if err != nil {
		return execution.Response{}, err
	}

	if !found {
		return execution.Response{}, types.NewError(types.ErrNotVoted,
			"'%s' has no ballot on '%s'", in.sender, msg.PollID)
	}

	err = withdraw(&poll, ballot)
	if err != nil {
		return execution.Response{}, err
	}

	err = removeBallot(snap, msg.PollID, in.sender)
	if err != nil {
		return execution.Response{}, err
	}

	err = savePoll(snap, msg.PollID, poll)
	if err != nil {
		return execution.Response{}, err
	}

	c.logger.Info().
		Str("poll", msg.PollID).
		Str("voter", in.sender.String()).
		Msg("vote deleted")

	resp := execution.NewResponse().
		AddAttribute("action", "delete_vote").
		AddAttribute("poll_id", msg.PollID)

	return resp, nil
}

// withdraw decrements the count of the option of the ballot. A ballot that
// does not match a counted option means the records are inconsistent.
func withdraw(poll *types.Poll, ballot types.Ballot) error {
	index := poll.IndexOf(ballot.Option)
	if index < 0 {
		return types.NewError(types.ErrStorage, "ballot for unknown option '%s'", ballot.Option)
	}

	if poll.Options[index].VoteCount == 0 {
		return types.NewError(types.ErrStorage, "vote count of '%s' underflows", ballot.Option)
	}

	poll.Options[index].VoteCount--

	return nil
}
