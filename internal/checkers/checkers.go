// Package checkers provides quicktest checkers shared across test suites.
package checkers

import (
	"encoding/json"
	"fmt"

	qt "github.com/frankban/quicktest"
	"github.com/yalp/jsonpath"
)

// JSONPathEquals returns a checker that decodes the JSON document under test
// (a []byte or string), evaluates path against it and compares the result
// with the wanted value using qt.DeepEquals. JSON numbers decode as float64.
//
//	c.Assert(data, checkers.JSONPathEquals("$.statusLine.type"), "command")
func JSONPathEquals(path string) qt.Checker {
	return &jsonPathChecker{path: path, argNames: []string{"got", "want"}}
}

// JSONPathAbsent returns a checker that succeeds when path resolves to
// nothing in the JSON document under test.
//
//	c.Assert(data, checkers.JSONPathAbsent("$.statusLine"))
func JSONPathAbsent(path string) qt.Checker {
	return &jsonPathChecker{path: path, argNames: []string{"got"}, absent: true}
}

type jsonPathChecker struct {
	path     string
	argNames []string
	absent   bool
}

func (c *jsonPathChecker) ArgNames() []string { return c.argNames }

func (c *jsonPathChecker) Check(got any, args []any, note func(key string, value any)) error {
	var data []byte
	switch v := got.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return qt.BadCheckf("first argument is not JSON text: %T", got)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("cannot decode JSON: %w", err)
	}
	note("path", c.path)
	value, err := jsonpath.Read(doc, c.path)
	if c.absent {
		if err == nil {
			note("value", value)
			return fmt.Errorf("path unexpectedly resolves")
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot read path: %w", err)
	}
	return qt.DeepEquals.Check(value, args, note)
}
