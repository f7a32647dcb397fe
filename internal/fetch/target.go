package fetch

import (
	"net/url"
	"time"
)

// Target describes where a call goes. Path is relative to the coordinator's
// base URL; Body, when set, is sent as JSON.
type Target struct {
	Method string
	Path   string
	Query  url.Values
	Header map[string]string
	Body   any
}

func Get(path string, query url.Values) Target {
	return Target{Method: "GET", Path: path, Query: query}
}

func Post(path string, body any) Target {
	return Target{Method: "POST", Path: path, Body: body}
}

func Put(path string, query url.Values, body any) Target {
	return Target{Method: "PUT", Path: path, Query: query, Body: body}
}

func Delete(path string) Target {
	return Target{Method: "DELETE", Path: path}
}

func (t Target) op() string {
	return t.Method + " " + t.Path
}

type callOptions struct {
	timeout time.Duration
}

type Option func(*callOptions)

// WithTimeout bounds a single call. Expiry is reported as a NetworkError.
func WithTimeout(d time.Duration) Option {
	return func(o *callOptions) {
		o.timeout = d
	}
}
