package httpx

import (
	"context"
	"errors"
	"net"
)

type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// StatusOf returns the upstream HTTP status carried anywhere in err's chain, or 0.
func StatusOf(err error) int {
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatusCode()
	}
	return 0
}

// IsNetworkError reports transport-level failures: timeouts, refused
// connections, DNS errors and cancelled deadlines.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
