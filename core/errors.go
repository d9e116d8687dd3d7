package core

import (
	"errors"
)

var ErrNotFound = errors.New("not found")

// A ValidationError reports malformed input (bad theme code, name too long,
// mismatched passwords). The web layer turns it into a 400 response.
type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

// An AuthorizationError reports that the acting user lacks the required
// relationship (not creator, not member). Its message is one of the
// configured literals and is shown to the user verbatim.
type AuthorizationError string

func (e AuthorizationError) Error() string {
	return string(e)
}
