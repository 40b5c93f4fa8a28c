package config

// White-box testing required: resolveInterpreter takes the PATH lookup as a
// parameter so the bare-name branch can be exercised without depending on
// which binaries the test machine has installed.

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestResolveInterpreter(t *testing.T) {
	c := qt.New(t)

	found := func(string) (string, error) { return "/usr/local/bin/node", nil }
	missing := func(string) (string, error) { return "", errors.New("not found") }

	cases := []struct {
		name     string
		in       string
		lookPath func(string) (string, error)
		want     string
	}{
		{"bare name on PATH", "node", found, "/usr/local/bin/node"},
		{"bare name not on PATH", "node", missing, "node"},
		{"absolute path is kept", "/opt/node", found, "/opt/node"},
		{"relative path is kept", "bin/node", found, "bin/node"},
		{"empty", "", found, ""},
	}
	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			c.Assert(resolveInterpreter(tc.in, tc.lookPath), qt.Equals, tc.want)
		})
	}
}
