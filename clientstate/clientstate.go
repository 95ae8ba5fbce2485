// Package clientstate encodes menu positions into the opaque client-state
// token the provider round-trips across a call, and decodes tokens received
// on inbound events. The token is a transport label, not a security token:
// base64 keeps it webhook-safe, nothing more.
package clientstate

import (
	"encoding/base64"
	"fmt"

	"github.com/sprucehealth/callflow/model"
)

// ErrMalformedToken is returned when an inbound token cannot be decoded or
// decodes to a label outside the known menu states. This is deliberately
// distinct from the absent-token case: an undecodable token must not be
// mistaken for the lobby level.
var ErrMalformedToken = fmt.Errorf("clientstate: malformed token")

// Encode returns the transport form of state. StateNone encodes to the
// empty string, meaning no token is attached at all.
func Encode(state model.MenuState) string {
	if state.None() {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(state))
}

// Decode maps an inbound token back to a menu state. An absent token (the
// empty string) is the lobby level. Anything that is not valid base64, or
// that decodes to a label outside the closed state set, yields
// ErrMalformedToken.
func Decode(token string) (model.MenuState, error) {
	if token == "" {
		return model.StateNone, nil
	}

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return model.StateNone, fmt.Errorf("%w: %q", ErrMalformedToken, token)
	}

	state := model.MenuState(raw)
	if state.None() || !state.Valid() {
		return model.StateNone, fmt.Errorf("%w: unknown label %q", ErrMalformedToken, raw)
	}
	return state, nil
}
