package jwtx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DecodeError reports why a token payload could not be turned into Claims.
// It matches ErrMalformed or ErrMissingClaim with errors.Is.
type DecodeError struct {
	Reason error // ErrMalformed or ErrMissingClaim
	Err    error // underlying cause, may be nil
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return e.Reason.Error()
	}
	return fmt.Sprintf("%v: %v", e.Reason, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

var unverifiedParser = jwt.NewParser()

// Decode extracts Claims from a bearer token without checking its signature.
// Signature checks belong to the API server; the client only reads the
// payload for display and expiry decisions.
//
// The subject id and exp claims are required.
func Decode(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, &DecodeError{Reason: ErrMalformed, Err: errors.New("empty token")}
	}

	// An unknown or missing "alg" only matters to signature checks; the
	// payload has already been decoded by then.
	var claims Claims
	if _, _, err := unverifiedParser.ParseUnverified(token, &claims); err != nil &&
		!errors.Is(err, jwt.ErrTokenUnverifiable) {
		return Claims{}, &DecodeError{Reason: ErrMalformed, Err: err}
	}

	if claims.UserID == "" {
		return Claims{}, &DecodeError{Reason: ErrMissingClaim, Err: errors.New("subject id")}
	}
	if claims.ExpiresAt == nil {
		return Claims{}, &DecodeError{Reason: ErrMissingClaim, Err: errors.New("exp")}
	}

	return claims, nil
}

// IsExpired reports whether token is unusable at now (seconds since epoch).
// Any decode failure counts as expired.
func IsExpired(token string, now int64) bool {
	claims, err := Decode(token)
	if err != nil {
		return true
	}
	return claims.ExpiredAt(time.Unix(now, 0))
}
