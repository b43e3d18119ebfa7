/*
Copyright 2019 The go-abacus Authors. All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package abacus_test

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	abacus "github.com/abacus-lang/go-abacus"
	"github.com/abacus-lang/go-abacus/internal/dump"
	"github.com/abacus-lang/go-abacus/internal/testutils"
)

var treeTests = []struct {
	input    string
	expected string
}{
	{
		input: `1 + 2 * 3`,
		expected: `binary +
  number 1
  binary *
    number 2
    number 3
`,
	},
	{
		input: `annual_salary / 12`,
		expected: `binary /
  identifier annual_salary
  number 12
`,
	},
	{
		input: `-(a + b)`,
		expected: `unary -
  binary +
    identifier a
    identifier b
`,
	},
	{
		input: `round(MIN(price, cap) * 0.95, 2)`,
		expected: `call round
  binary *
    call min
      identifier price
      identifier cap
    number 0.95
  number 2
`,
	},
	{
		input: `rates[region] > 0.1 and enabled`,
		expected: `binary and
  binary >
    access
      identifier rates
      identifier region
    number 0.1
  identifier enabled
`,
	},
	{
		input: `case kind when "flat" then base else base * rates[kind] end`,
		expected: `case
  identifier kind
  when
    string "flat"
  then
    identifier base
  else
    binary *
      identifier base
      access
        identifier rates
        identifier kind
`,
	},
	{
		input:    ``,
		expected: "null\n",
	},
}

func TestParseStringTrees(t *testing.T) {
	for _, tc := range treeTests {
		node, err := abacus.MakeParser().ParseString(tc.input)
		if err != nil {
			t.Errorf("unexpected parse error\n  input: %v\n  error: %v", tc.input, err)
			continue
		}
		got := dump.Tree(node)
		if got != tc.expected {
			t.Errorf("tree mismatch\n  input: %v\n  diff:\n%v",
				tc.input, testutils.Diff(tc.expected, got))
		}
	}
}

func TestDependencies(t *testing.T) {
	deps, err := abacus.MakeParser().Dependencies("a + b * a + min(C, b)")
	if err != nil {
		t.Fatal(err)
	}
	// Deduplicated, first appearance wins, keys lowercased.
	expected := []string{"a", "b", "c"}
	if len(deps) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, deps)
	}
	for i := range expected {
		if deps[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, deps)
		}
	}
}

func TestErrorFormatterParseError(t *testing.T) {
	_, err := abacus.MakeParser().ParseString("min(1,)")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	var ef abacus.ErrorFormatter
	msg := ef.Format(err)
	expected := "parse error (too_few_operands): too few operands for min: expected 2, have 1\n"
	if msg != expected {
		t.Errorf("formatted message mismatch\n  expected: %q\n  got:      %q", expected, msg)
	}
}

func TestErrorFormatterStaticError(t *testing.T) {
	_, err := abacus.Lex("1 @ 2")
	if err == nil {
		t.Fatal("expected a lex error")
	}
	var ef abacus.ErrorFormatter
	msg := ef.Format(err)
	if !strings.HasPrefix(msg, "static error: ") {
		t.Errorf("expected a static error message, got %q", msg)
	}
}

func TestErrorFormatterUnknownError(t *testing.T) {
	var ef abacus.ErrorFormatter
	msg := ef.Format(errors.New("boom"))
	if msg != "INTERNAL ERROR: boom\n" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestErrorFormatterColor(t *testing.T) {
	var ef abacus.ErrorFormatter
	ef.SetColorFormatter(func(w io.Writer, format string, a ...interface{}) (int, error) {
		if _, err := io.WriteString(w, "<red>"); err != nil {
			return 0, err
		}
		return fmt.Fprintf(w, format, a...)
	})
	msg := ef.Format(errors.New("boom"))
	if msg != "<red>INTERNAL ERROR: boom\n" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestVersion(t *testing.T) {
	if !strings.HasPrefix(abacus.Version(), "v") {
		t.Errorf("version %q does not look like a version", abacus.Version())
	}
}
