package polls

import (
	"go.dedis.ch/tally/contracts/polls/types"
	"go.dedis.ch/tally/core/access"
	"go.dedis.ch/tally/core/store"
)

// MaxOptions is the maximal number of options of a poll.
const MaxOptions = 10

func validateOptionCount(options []string) error {
	if len(options) > MaxOptions {
		return types.NewError(types.ErrTooManyOptions, "%d > %d", len(options), MaxOptions)
	}

	if len(options) == 0 {
		return types.NewError(types.ErrNoOptions, "at least one option is required")
	}

	return nil
}

func validateOptionLabels(options []string, rejectDuplicates bool) error {
	seen := make(map[string]struct{}, len(options))

	for i, label := range options {
		if label == "" {
			return types.NewError(types.ErrEmptyOption, "option #%d", i)
		}

		_, found := seen[label]
		if found && rejectDuplicates {
			return types.NewError(types.ErrDuplicateOption, "'%s'", label)
		}

		seen[label] = struct{}{}
	}

	return nil
}

func validateUniquePollID(r store.Readable, pollID string) error {
	data, err := r.Get(pollKey(pollID))
	if err != nil {
		return types.NewError(types.ErrStorage, "failed to read poll: %v", err)
	}

	if data != nil {
		return types.NewError(types.ErrPollAlreadyExists, "'%s'", pollID)
	}

	return nil
}

// validateOptionExists returns the index of the option with the label.
func validateOptionExists(poll types.Poll, label string) (int, error) {
	index := poll.IndexOf(label)
	if index < 0 {
		return -1, types.NewError(types.ErrInvalidOption, "'%s' is not one of [%s]",
			label, poll.Labels())
	}

	return index, nil
}

func authorizeAdmin(config types.Config, caller access.Address) error {
	if caller != config.Admin {
		return types.NewError(types.ErrUnauthorized, "'%s' is not the admin", caller)
	}

	return nil
}

func authorizeCreatorOrAdmin(poll types.Poll, config types.Config, caller access.Address) error {
	if caller == poll.Creator {
		return nil
	}

	if authorizeAdmin(config, caller) != nil {
		return types.NewError(types.ErrUnauthorized,
			"'%s' is neither the creator nor the admin", caller)
	}

	return nil
}
