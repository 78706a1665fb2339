package types

import (
	"math"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.dedis.ch/tally/core/access"
)

// MaxIDLength is the maximal length in bytes of a poll identifier, which is
// the largest length that fits the prefix of a ballot key.
const MaxIDLength = math.MaxUint16

// Validator is implemented by the messages that can check their own shape.
type Validator interface {
	Validate() error
}

// InstantiateMsg is the message of the instantiate entry point.
type InstantiateMsg struct {
	// Admin is the address of the administrator. The sender is used when it
	// is not provided.
	Admin *string `json:"admin,omitempty"`
}

// ExecuteMsg is the message of the execute entry point. Exactly one of the
// commands is set.
type ExecuteMsg struct {
	CreatePoll *CreatePoll `json:"create_poll,omitempty"`
	DeletePoll *DeletePoll `json:"delete_poll,omitempty"`
	Vote       *Vote       `json:"vote,omitempty"`
	DeleteVote *DeleteVote `json:"delete_vote,omitempty"`
}

// CreatePoll is the command to create a new poll.
type CreatePoll struct {
	PollID   string   `json:"poll_id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Validate implements types.Validator. The options are checked by the
// contract.
func (m CreatePoll) Validate() error {
	return wrapInvalid(validation.ValidateStruct(&m,
		validation.Field(&m.PollID, pollIDRules...),
		validation.Field(&m.Question, validation.Required),
	))
}

// DeletePoll is the command to delete a poll and its ballots.
type DeletePoll struct {
	PollID string `json:"poll_id"`
}

// Validate implements types.Validator.
func (m DeletePoll) Validate() error {
	return wrapInvalid(validation.ValidateStruct(&m,
		validation.Field(&m.PollID, pollIDRules...),
	))
}

// Vote is the command to cast or change the ballot of the sender.
type Vote struct {
	PollID string `json:"poll_id"`
	Option string `json:"option"`
}

// Validate implements types.Validator. The option is checked against the
// poll by the contract.
func (m Vote) Validate() error {
	return wrapInvalid(validation.ValidateStruct(&m,
		validation.Field(&m.PollID, pollIDRules...),
	))
}

// DeleteVote is the command to withdraw the ballot of the sender.
type DeleteVote struct {
	PollID string `json:"poll_id"`
}

// Validate implements types.Validator.
func (m DeleteVote) Validate() error {
	return wrapInvalid(validation.ValidateStruct(&m,
		validation.Field(&m.PollID, pollIDRules...),
	))
}

// QueryMsg is the message of the query entry point. Exactly one of the
// queries is set.
type QueryMsg struct {
	GetConfig       *GetConfig       `json:"get_config,omitempty"`
	GetPoll         *GetPoll         `json:"get_poll,omitempty"`
	ListPolls       *ListPolls       `json:"list_polls,omitempty"`
	GetVote         *GetVote         `json:"get_vote,omitempty"`
	GetContractInfo *GetContractInfo `json:"get_contract_info,omitempty"`
}

// GetConfig is the query of the configuration.
type GetConfig struct{}

// GetPoll is the query of a single poll.
type GetPoll struct {
	PollID string `json:"poll_id"`
}

// Validate implements types.Validator.
func (m GetPoll) Validate() error {
	return wrapInvalid(validation.ValidateStruct(&m,
		validation.Field(&m.PollID, pollIDRules...),
	))
}

// ListPolls is the query of a page of polls in identifier order.
type ListPolls struct {
	// StartAfter excludes the polls up to this identifier included.
	StartAfter *string `json:"start_after,omitempty"`

	// Limit is the maximal number of polls returned.
	Limit *uint32 `json:"limit,omitempty"`
}

// GetVote is the query of the ballot of an address on a poll.
type GetVote struct {
	PollID  string `json:"poll_id"`
	Address string `json:"address"`
}

// Validate implements types.Validator.
func (m GetVote) Validate() error {
	return wrapInvalid(validation.ValidateStruct(&m,
		validation.Field(&m.PollID, pollIDRules...),
		validation.Field(&m.Address, validation.Required),
	))
}

// GetContractInfo is the query of the contract information.
type GetContractInfo struct{}

// ConfigResponse is the response to GetConfig.
type ConfigResponse struct {
	Admin access.Address `json:"admin"`
}

// PollResponse is the response to GetPoll and an entry of ListPollsResponse.
type PollResponse struct {
	PollID string `json:"poll_id"`
	Poll   Poll   `json:"poll"`
}

// ListPollsResponse is the response to ListPolls.
type ListPollsResponse struct {
	Polls []PollResponse `json:"polls"`
}

// VoteResponse is the response to GetVote. The ballot is nil when the address
// has not voted.
type VoteResponse struct {
	Vote *Ballot `json:"vote"`
}

var pollIDRules = []validation.Rule{
	validation.Required,
	validation.Length(1, MaxIDLength),
}

func wrapInvalid(err error) error {
	if err == nil {
		return nil
	}

	return NewError(ErrInvalidMessage, "%v", err)
}
