// Package tests holds helpers shared by this module's tests.
package tests

import "net/url"

// MustURL parses s, panicking on failure.
func MustURL(s string) *url.URL {
	u, err := url.Parse(s)
	if err != nil {
		panic(err)
	}

	return u
}
