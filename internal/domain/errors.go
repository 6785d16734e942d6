package domain

import "errors"

var (
	// ErrAuthenticationRequired is returned when a token refresh could not extract a credential
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrBadServerResponse is returned when the dining API answers with a non-200 status on the final attempt
	ErrBadServerResponse = errors.New("bad server response")

	// ErrParse is returned when no decoding strategy produced any record
	ErrParse = errors.New("unable to parse dining API payload")

	// ErrNetwork is returned when the request could not be sent or the response could not be read
	ErrNetwork = errors.New("dining API network failure")

	// ErrCacheMiss is returned when data is not found in cache or is older than the allowed age
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
