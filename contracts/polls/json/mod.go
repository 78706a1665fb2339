// Package json implements the wire form of the messages of the polls
// contract. Messages are externally tagged: a JSON object with exactly one key
// naming the variant.
package json

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
	"go.dedis.ch/tally/contracts/polls/types"
	"golang.org/x/xerrors"
)

// DecodeInstantiate decodes the message of the instantiate entry point. An
// empty message is accepted and means the default configuration.
func DecodeInstantiate(data []byte) (types.InstantiateMsg, error) {
	msg := types.InstantiateMsg{}

	if len(bytes.TrimSpace(data)) == 0 {
		return msg, nil
	}

	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return msg, types.NewError(types.ErrInvalidMessage, "expected an object")
	}

	err := strictUnmarshal(data, &msg)
	if err != nil {
		return msg, types.NewError(types.ErrInvalidMessage, "instantiate: %v", err)
	}

	return msg, nil
}

// DecodeExecute decodes the message of the execute entry point and validates
// the shape of the command.
func DecodeExecute(data []byte) (types.ExecuteMsg, error) {
	msg := types.ExecuteMsg{}

	variant, raw, err := variantOf(data)
	if err != nil {
		return msg, err
	}

	var cmd types.Validator

	switch variant {
	case "create_poll":
		msg.CreatePoll = &types.CreatePoll{}
		err = strictUnmarshal(raw, msg.CreatePoll)
		cmd = msg.CreatePoll
	case "delete_poll":
		msg.DeletePoll = &types.DeletePoll{}
		err = strictUnmarshal(raw, msg.DeletePoll)
		cmd = msg.DeletePoll
	case "vote":
		msg.Vote = &types.Vote{}
		err = strictUnmarshal(raw, msg.Vote)
		cmd = msg.Vote
	case "delete_vote":
		msg.DeleteVote = &types.DeleteVote{}
		err = strictUnmarshal(raw, msg.DeleteVote)
		cmd = msg.DeleteVote
	default:
		return msg, types.NewError(types.ErrInvalidMessage, "unknown command '%s'", variant)
	}

	if err != nil {
		return msg, types.NewError(types.ErrInvalidMessage, "%s: %v", variant, err)
	}

	return msg, cmd.Validate()
}

// DecodeQuery decodes the message of the query entry point and validates the
// shape of the query.
func DecodeQuery(data []byte) (types.QueryMsg, error) {
	msg := types.QueryMsg{}

	variant, raw, err := variantOf(data)
	if err != nil {
		return msg, err
	}

	var query interface{}

	switch variant {
	case "get_config":
		msg.GetConfig = &types.GetConfig{}
		query = msg.GetConfig
	case "get_poll":
		msg.GetPoll = &types.GetPoll{}
		query = msg.GetPoll
	case "list_polls":
		msg.ListPolls = &types.ListPolls{}
		query = msg.ListPolls
	case "get_vote":
		msg.GetVote = &types.GetVote{}
		query = msg.GetVote
	case "get_contract_info":
		msg.GetContractInfo = &types.GetContractInfo{}
		query = msg.GetContractInfo
	default:
		return msg, types.NewError(types.ErrInvalidMessage, "unknown query '%s'", variant)
	}

	err = strictUnmarshal(raw, query)
	if err != nil {
		return msg, types.NewError(types.ErrInvalidMessage, "%s: %v", variant, err)
	}

	validator, ok := query.(types.Validator)
	if ok {
		return msg, validator.Validate()
	}

	return msg, nil
}

// Encode returns the JSON form of a value.
func Encode(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode: %v", err)
	}

	return data, nil
}

// variantOf returns the single key of a tagged message and the raw value
// associated with it.
func variantOf(data []byte) (string, []byte, error) {
	if !gjson.ValidBytes(data) {
		return "", nil, types.NewError(types.ErrInvalidMessage, "malformed JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return "", nil, types.NewError(types.ErrInvalidMessage, "expected an object")
	}

	var keys []string
	var raw string

	root.ForEach(func(key, value gjson.Result) bool {
		keys = append(keys, key.String())
		raw = value.Raw
		return true
	})

	if len(keys) != 1 {
		return "", nil, types.NewError(types.ErrInvalidMessage,
			"expected exactly one variant but found %d", len(keys))
	}

	return keys[0], []byte(raw), nil
}

func strictUnmarshal(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err != nil {
		return err
	}

	if dec.More() {
		return xerrors.New("trailing data")
	}

	return nil
}
