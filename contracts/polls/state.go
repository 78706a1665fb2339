package polls

import (
	"encoding/binary"
	"encoding/json"

	"go.dedis.ch/tally/contracts/polls/types"
	"go.dedis.ch/tally/core/access"
	"go.dedis.ch/tally/core/store"
	"golang.org/x/xerrors"
)

var (
	configKey       = []byte("config")
	contractInfoKey = []byte("contract_info")
	pollsPrefix     = []byte("polls/")
	ballotsPrefix   = []byte("ballots/")
)

// pollKey returns the key of a poll. The identifier is the last component so
// the keys sort like the identifiers.
func pollKey(pollID string) []byte {
	key := make([]byte, 0, len(pollsPrefix)+len(pollID))
	key = append(key, pollsPrefix...)

	return append(key, pollID...)
}

// ballotPrefix returns the prefix of the ballots of a poll. The identifier is
// length-prefixed so that no poll can share the prefix of another one.
func ballotPrefix(pollID string) []byte {
	key := make([]byte, len(ballotsPrefix)+2, len(ballotsPrefix)+2+len(pollID))
	copy(key, ballotsPrefix)
	binary.BigEndian.PutUint16(key[len(ballotsPrefix):], uint16(len(pollID)))

	return append(key, pollID...)
}

func ballotKey(pollID string, voter access.Address) []byte {
	return append(ballotPrefix(pollID), voter...)
}

func loadConfig(r store.Readable) (types.Config, error) {
	config := types.Config{}

	found, err := getRecord(r, configKey, &config)
	if err != nil {
		return config, err
	}

	if !found {
		return config, types.NewError(types.ErrNotFound, "config")
	}

	return config, nil
}

func saveConfig(w store.Writable, config types.Config) error {
	return setRecord(w, configKey, config)
}

func loadContractInfo(r store.Readable) (types.ContractInfo, error) {
	info := types.ContractInfo{}

	found, err := getRecord(r, contractInfoKey, &info)
	if err != nil {
		return info, err
	}

	if !found {
		return info, types.NewError(types.ErrNotFound, "contract info")
	}

	return info, nil
}

func saveContractInfo(w store.Writable, info types.ContractInfo) error {
	return setRecord(w, contractInfoKey, info)
}

func loadPoll(r store.Readable, pollID string) (types.Poll, error) {
	poll := types.Poll{}

	found, err := getRecord(r, pollKey(pollID), &poll)
	if err != nil {
		return poll, err
	}

	if !found {
		return poll, types.NewError(types.ErrPollNotFound, "'%s'", pollID)
	}

	return poll, nil
}

func savePoll(w store.Writable, pollID string, poll types.Poll) error {
	return setRecord(w, pollKey(pollID), poll)
}

func removePoll(w store.Writable, pollID string) error {
	return deleteRecord(w, pollKey(pollID))
}

// loadBallot returns the ballot of the voter and whether it exists.
func loadBallot(r store.Readable, pollID string, voter access.Address) (types.Ballot, bool, error) {
	ballot := types.Ballot{}

	found, err := getRecord(r, ballotKey(pollID, voter), &ballot)

	return ballot, found, err
}

func saveBallot(w store.Writable, pollID string, voter access.Address, ballot types.Ballot) error {
	return setRecord(w, ballotKey(pollID, voter), ballot)
}

func removeBallot(w store.Writable, pollID string, voter access.Address) error {
	return deleteRecord(w, ballotKey(pollID, voter))
}

// listBallots calls fn for every ballot of the poll in voter order. It stops
// without error when fn returns store.ErrStop.
func listBallots(r store.Iterable, pollID string,
	fn func(voter access.Address, ballot types.Ballot) error) error {

	prefix := ballotPrefix(pollID)

	err := r.Scan(prefix, nil, func(key, value []byte) error {
		ballot := types.Ballot{}

		err := json.Unmarshal(value, &ballot)
		if err != nil {
			return types.NewError(types.ErrStorage, "malformed ballot: %v", err)
		}

		return fn(access.Address(key[len(prefix):]), ballot)
	})

	if err != nil {
		return xerrors.Errorf("failed to list ballots: %w", err)
	}

	return nil
}

// listPolls returns at most limit polls in identifier order, starting after
// the given identifier when it is provided.
func listPolls(r store.Iterable, startAfter *string, limit uint32) ([]types.PollResponse, error) {
	polls := []types.PollResponse{}

	if limit == 0 {
		return polls, nil
	}

	var from []byte
	if startAfter != nil {
		from = append(pollKey(*startAfter), 0)
	}

	err := r.Scan(pollsPrefix, from, func(key, value []byte) error {
		poll := types.Poll{}

		err := json.Unmarshal(value, &poll)
		if err != nil {
			return types.NewError(types.ErrStorage, "malformed poll: %v", err)
		}

		polls = append(polls, types.PollResponse{
			PollID: string(key[len(pollsPrefix):]),
			Poll:   poll,
		})

		if uint32(len(polls)) >= limit {
			return store.ErrStop
		}

		return nil
	})

	if err != nil {
		return nil, xerrors.Errorf("failed to list polls: %w", err)
	}

	return polls, nil
}

func getRecord(r store.Readable, key []byte, v interface{}) (bool, error) {
	data, err := r.Get(key)
	if err != nil {
		return false, types.NewError(types.ErrStorage, "failed to read '%s': %v", key, err)
	}

	if data == nil {
		return false, nil
	}

	err = json.Unmarshal(data, v)
	if err != nil {
		return false, types.NewError(types.ErrStorage, "malformed record '%s': %v", key, err)
	}

	return true, nil
}

func setRecord(w store.Writable, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return types.NewError(types.ErrStorage, "failed to encode '%s': %v", key, err)
	}

	err = w.Set(key, data)
	if err != nil {
		return types.NewError(types.ErrStorage, "failed to write '%s': %v", key, err)
	}

	return nil
}

func deleteRecord(w store.Writable, key []byte) error {
	err := w.Delete(key)
	if err != nil {
		return types.NewError(types.ErrStorage, "failed to delete '%s': %v", key, err)
	}

	return nil
}
