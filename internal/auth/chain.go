// Package auth implements the authorization filters guarding the log API
// and the UI index page.
package auth

import (
	"net"
	"net/http"
)

// Filter decides whether a request may access log data. Implementations
// must be pure predicates over the request. A returned error means the
// filter itself failed and is handled as a server error, not a denial.
type Filter interface {
	Authorize(r *http.Request) (bool, error)
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(r *http.Request) (bool, error)

// Authorize calls f(r).
func (f FilterFunc) Authorize(r *http.Request) (bool, error) {
	return f(r)
}

// Chain is an ordered set of filters combined with logical AND.
type Chain []Filter

// CanAccess returns true when every filter allows the request. An empty
// chain allows everything. Evaluation stops at the first denial or error.
func (c Chain) CanAccess(r *http.Request) (bool, error) {
	for _, f := range c {
		ok, err := f.Authorize(r)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// IsLocalRequest reports whether the request originates from the host
// itself: a loopback remote address, or a remote address equal to the
// local address the connection was accepted on. Forwarding headers are
// ignored.
func IsLocalRequest(r *http.Request) bool {
	remote := hostIP(r.RemoteAddr)
	if remote == nil {
		return false
	}
	if remote.IsLoopback() {
		return true
	}
	if addr, ok := r.Context().Value(http.LocalAddrContextKey).(net.Addr); ok && addr != nil {
		if local := hostIP(addr.String()); local != nil {
			return local.Equal(remote)
		}
	}
	return false
}

func hostIP(addr string) net.IP {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	return net.ParseIP(host)
}

// LocalRequestsFilter admits only local callers.
type LocalRequestsFilter struct{}

// Authorize implements Filter.
func (LocalRequestsFilter) Authorize(r *http.Request) (bool, error) {
	return IsLocalRequest(r), nil
}
