package core

import "errors"

var (
	ErrFetchFailure         = errors.New("failed to fetch companies")
	ErrDuplicateID          = errors.New("duplicate company id")
	ErrInvalidSortKey       = errors.New("invalid sort key")
	ErrInvalidSortDirection = errors.New("invalid sort direction")
	ErrSourceUnavailable    = errors.New("record source unavailable")
)
