package controller

import (
	"encoding/json"
	"io"
	"net/http"

	"go.dedis.ch/tally"
	"go.dedis.ch/tally/contracts/polls"
	"go.dedis.ch/tally/contracts/polls/types"
	"go.dedis.ch/tally/core/access"
	"go.dedis.ch/tally/core/store"
	proxyhttp "go.dedis.ch/tally/proxy/http"
	"golang.org/x/xerrors"
)

// maxQuerySize is the maximal size in bytes of the body of a query.
const maxQuerySize = 1 << 20

// errorResponse is the body of a failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// queryHandler returns the handler of the queries. The body of the request is
// the query message and the body of the response is the query payload.
func queryHandler(exec service, ledger store.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := tally.Logger.With().Str("requestID", proxyhttp.RequestID(r)).Logger()

		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeError(w, http.StatusMethodNotAllowed, xerrors.New("only POST requests are allowed"))
			return
		}

		msg, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxQuerySize))
		if err != nil {
			writeError(w, http.StatusBadRequest, xerrors.Errorf("failed to read body: %v", err))
			return
		}

		data, err := exec.Query(ledger, polls.ContractName, msg)
		if err != nil {
			status := statusOf(err)
			if status == http.StatusInternalServerError {
				logger.Error().Err(err).Msg("query failed")
			}

			writeError(w, status, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		_, err = w.Write(data)
		if err != nil {
			logger.Debug().Err(err).Msg("failed to write response")
		}
	}
}

// statusOf returns the HTTP status of a failed query.
func statusOf(err error) int {
	switch {
	case xerrors.Is(err, types.ErrInvalidMessage), xerrors.Is(err, access.ErrAddressFormat):
		return http.StatusBadRequest
	case xerrors.Is(err, types.ErrPollNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}
