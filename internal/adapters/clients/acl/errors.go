package acl

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen/quotesync/internal/domain"
)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 4 << 10

// remoteFailure is the error body shape some quote sources send. Both the
// nested {"error": {"message"}} and the flat {"message"} forms are accepted.
type remoteFailure struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// remoteMessage returns the message carried by a failed response body, or ""
// when there is none worth reporting.
func remoteMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	var f remoteFailure
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&f); err != nil {
		return ""
	}

	if f.Error.Message != "" {
		return strings.TrimSpace(f.Error.Message)
	}

	return strings.TrimSpace(f.Message)
}

// MapHTTPError turns the outcome of one remote call into a
// domain.NetworkError, or nil when the remote answered 2xx. resp is ignored
// when clientErr is set.
//
// Sync and publish only tell success from "remote unavailable", so the
// status and client failure survive as the reason text alone.
func MapHTTPError(resp *http.Response, clientErr error, service, operation string) error {
	switch {
	case clientErr != nil:
		return domain.NewNetworkError(service, fmt.Sprintf("%s: %v", operation, clientErr))
	case resp == nil:
		return domain.NewNetworkError(service, operation+": no response received")
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return nil
	}

	reason := fmt.Sprintf("%s: remote answered %d %s", operation, resp.StatusCode, http.StatusText(resp.StatusCode))
	if msg := remoteMessage(resp.Body); msg != "" {
		reason += ": " + msg
	}

	return domain.NewNetworkError(service, reason)
}
