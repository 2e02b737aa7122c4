package catalog

import "errors"

var (
	// ErrFetchFailed is returned when the catalog endpoint cannot be reached.
	ErrFetchFailed = errors.New("failed to fetch catalog")

	// ErrUnexpectedStatus is returned when the endpoint answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected catalog status")

	// ErrMalformedCatalog is returned when the response is not a catalog document.
	ErrMalformedCatalog = errors.New("malformed catalog")
)
