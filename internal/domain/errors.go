package domain

import "errors"

var (
	// ErrSearchFailure is returned when the shopping list search request fails
	ErrSearchFailure = errors.New("shopping list search failed")

	// ErrStoreLookupFailure is returned when the store list cannot be fetched
	ErrStoreLookupFailure = errors.New("store lookup failed")

	// ErrPreferenceRead is returned when persisted user state cannot be read
	ErrPreferenceRead = errors.New("preference read failed")

	// ErrPreferenceWrite is returned when user state cannot be persisted
	ErrPreferenceWrite = errors.New("preference write failed")

	// ErrNotificationFailed is returned when a notification sink rejects a message
	ErrNotificationFailed = errors.New("notification dispatch failed")

	// ErrRunInProgress is returned when a reconciliation run is already executing
	ErrRunInProgress = errors.New("reconciliation run already in progress")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnsupportedSchema is returned when a stored record has a newer schema version
	ErrUnsupportedSchema = errors.New("unsupported record schema version")
)
