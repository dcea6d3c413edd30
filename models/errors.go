package models

import "errors"

// Ошибки домена, проверяются через errors.Is
var (
	ErrMissingCredentials = errors.New("missing loginSessionId or adminSessionId")
	ErrMissingParameter   = errors.New("missing required parameter")
	ErrUpstreamAuth       = errors.New("upstream rejected credential exchange")
	ErrUpstreamFetch      = errors.New("upstream fetch failed")
	ErrUpstreamPagination = errors.New("upstream pagination did not terminate")
	ErrInvalidDay         = errors.New("invalid day")
)

var (
	ErrUnknownReport      = errors.New("unknown report type")
	ErrExportUnsupported  = errors.New("report cannot be exported")
	ErrExportNotAvailable = errors.New("export storage is not configured")
	ErrExportNotFound     = errors.New("exported file not found")
)
