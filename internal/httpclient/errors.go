package httpclient

import "errors"

var (
	// ErrTooManyRedirects is returned when a request exceeds the redirect limit.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrInvalidProxyAddress is returned when the SOCKS5 proxy address is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)
