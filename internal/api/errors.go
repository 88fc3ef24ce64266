package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnavailable marks failures where the remote API could not be
// reached at all (transport error, timeout, open circuit). Distinct
// from HTTP error responses: it affects every subsequent action, not
// just the one that failed.
var ErrUnavailable = errors.New("storefront api unavailable")

// Error is an HTTP error response from the backend, carrying the
// status and the backend's error code when it sent one.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Code)
}

func statusIs(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsUnauthorized reports a 401: the credential was rejected and the
// session has already been invalidated by the client.
func IsUnauthorized(err error) bool {
	return statusIs(err, http.StatusUnauthorized)
}

// IsForbidden reports a 403: logged in but not entitled. Never treated
// as session-invalidating.
func IsForbidden(err error) bool {
	return statusIs(err, http.StatusForbidden)
}

func IsNotFound(err error) bool {
	return statusIs(err, http.StatusNotFound)
}

// IsConflict reports a 409, e.g. adding a product already on the
// wishlist.
func IsConflict(err error) bool {
	return statusIs(err, http.StatusConflict)
}

// IsUnavailable reports whether the remote API was unreachable.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
