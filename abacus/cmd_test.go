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
package main

import "testing"

func TestProcessArgsExec(t *testing.T) {
	c := makeConfig()
	status, err := processArgs([]string{"-e", "1 + 2"}, &c)
	if err != nil {
		t.Fatal(err)
	}
	if status != processArgsStatusContinue {
		t.Fatalf("unexpected status %v", status)
	}
	if !c.exprGiven || c.expr != "1 + 2" {
		t.Errorf("expression not captured: %+v", c)
	}
	if c.format != "tree" {
		t.Errorf("default format should be tree, got %q", c.format)
	}
}

func TestProcessArgsFormat(t *testing.T) {
	c := makeConfig()
	if _, err := processArgs([]string{"-f", "yaml", "expr.abacus"}, &c); err != nil {
		t.Fatal(err)
	}
	if c.format != "yaml" || c.inputFile != "expr.abacus" {
		t.Errorf("unexpected config %+v", c)
	}

	c = makeConfig()
	status, err := processArgs([]string{"-f", "xml", "expr.abacus"}, &c)
	if err == nil || status != processArgsStatusFailure {
		t.Errorf("expected a failure for an unknown format, got %v, %v", status, err)
	}
}

func TestProcessArgsFlags(t *testing.T) {
	c := makeConfig()
	if _, err := processArgs([]string{"--deps", "--case-sensitive", "-"}, &c); err != nil {
		t.Fatal(err)
	}
	if !c.deps || !c.caseSensitive || c.inputFile != "-" {
		t.Errorf("unexpected config %+v", c)
	}
}

func TestProcessArgsRejectsExtras(t *testing.T) {
	c := makeConfig()
	status, err := processArgs([]string{"-e", "1", "also-a-file"}, &c)
	if err == nil || status != processArgsStatusFailure {
		t.Errorf("expected -e with a filename to fail, got %v, %v", status, err)
	}

	c = makeConfig()
	status, err = processArgs([]string{"a.abacus", "b.abacus"}, &c)
	if err == nil || status != processArgsStatusFailure {
		t.Errorf("expected two filenames to fail, got %v, %v", status, err)
	}

	c = makeConfig()
	status, _ = processArgs(nil, &c)
	if status != processArgsStatusFailureUsage {
		t.Errorf("expected usage failure with no arguments, got %v", status)
	}
}

func TestProcessArgsDoubleDash(t *testing.T) {
	c := makeConfig()
	if _, err := processArgs([]string{"--", "--deps"}, &c); err != nil {
		t.Fatal(err)
	}
	if c.deps {
		t.Error("--deps after -- must be treated as a filename")
	}
	if c.inputFile != "--deps" {
		t.Errorf("unexpected input file %q", c.inputFile)
	}
}
