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

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/fatih/color"
	"sigs.k8s.io/yaml"

	abacus "github.com/abacus-lang/go-abacus"
	"github.com/abacus-lang/go-abacus/internal/dump"
)

func version(o io.Writer) {
	fmt.Fprintf(o, "Abacus expression parser %s\n", abacus.Version())
}

func usage(o io.Writer) {
	version(o)
	fmt.Fprintln(o)
	fmt.Fprintln(o, "abacus {<option>} <filename>")
	fmt.Fprintln(o)
	fmt.Fprintln(o, "Available options:")
	fmt.Fprintln(o, "  -h / --help                This message")
	fmt.Fprintln(o, "  -e / --exec <expr>         Parse the given expression rather than a file")
	fmt.Fprintln(o, "  -f / --format <format>     Output format: tree (default), json or yaml")
	fmt.Fprintln(o, "  --deps                     Print the expression's identifier dependencies")
	fmt.Fprintln(o, "  --functions                List the registered functions and exit")
	fmt.Fprintln(o, "  --case-sensitive           Treat identifier case as significant")
	fmt.Fprintln(o, "  --version                  Print version")
	fmt.Fprintln(o)
	fmt.Fprintln(o, "In all cases:")
	fmt.Fprintln(o, "  <filename> can be - (stdin)")
	fmt.Fprintln(o, "  The -- option suppresses option processing for subsequent arguments.")
	fmt.Fprintln(o)
	fmt.Fprintln(o, "Exit code:")
	fmt.Fprintln(o, "  0 – The expression parsed cleanly.")
	fmt.Fprintln(o, "  1 – Usage or I/O errors.")
	fmt.Fprintln(o, "  2 – The expression did not parse.")
}

type config struct {
	inputFile     string
	expr          string
	exprGiven     bool
	format        string
	deps          bool
	listFunctions bool
	caseSensitive bool
}

func makeConfig() config {
	return config{format: "tree"}
}

type processArgsStatus int

const (
	processArgsStatusContinue     = iota
	processArgsStatusSuccessUsage = iota
	processArgsStatusFailureUsage = iota
	processArgsStatusSuccess      = iota
	processArgsStatusFailure      = iota
)

func nextArg(i *int, args []string) (string, error) {
	(*i)++
	if *i >= len(args) {
		return "", fmt.Errorf("expected another commandline argument")
	}
	return args[*i], nil
}

func processArgs(givenArgs []string, config *config) (processArgsStatus, error) {
	remainingArgs := make([]string, 0, len(givenArgs))

	for i := 0; i < len(givenArgs); i++ {
		arg := givenArgs[i]
		if arg == "--" {
			// All subsequent args are not options.
			i++
			for ; i < len(givenArgs); i++ {
				remainingArgs = append(remainingArgs, givenArgs[i])
			}
			break
		} else if arg == "-h" || arg == "--help" {
			return processArgsStatusSuccessUsage, nil
		} else if arg == "-v" || arg == "--version" {
			version(os.Stdout)
			return processArgsStatusSuccess, nil
		} else if arg == "-e" || arg == "--exec" {
			expr, err := nextArg(&i, givenArgs)
			if err != nil {
				return processArgsStatusFailure, err
			}
			config.expr = expr
			config.exprGiven = true
		} else if arg == "-f" || arg == "--format" {
			format, err := nextArg(&i, givenArgs)
			if err != nil {
				return processArgsStatusFailure, err
			}
			switch format {
			case "tree", "json", "yaml":
				config.format = format
			default:
				return processArgsStatusFailure, fmt.Errorf("unrecognized format: %s", format)
			}
		} else if arg == "--deps" {
			config.deps = true
		} else if arg == "--functions" {
			config.listFunctions = true
		} else if arg == "--case-sensitive" {
			config.caseSensitive = true
		} else if len(arg) > 1 && arg[0] == '-' && arg != "-" {
			return processArgsStatusFailure, fmt.Errorf("unrecognized argument: %s", arg)
		} else {
			remainingArgs = append(remainingArgs, arg)
		}
	}

	if config.listFunctions {
		return processArgsStatusContinue, nil
	}

	if config.exprGiven {
		if len(remainingArgs) != 0 {
			return processArgsStatusFailure, fmt.Errorf("-e does not take a filename")
		}
		return processArgsStatusContinue, nil
	}

	if len(remainingArgs) == 0 {
		return processArgsStatusFailureUsage, fmt.Errorf("file not provided")
	}
	if len(remainingArgs) > 1 {
		return processArgsStatusFailure, fmt.Errorf("only one file is allowed")
	}
	config.inputFile = remainingArgs[0]
	return processArgsStatusContinue, nil
}

func readInput(config *config) (string, error) {
	if config.exprGiven {
		return config.expr, nil
	}
	if config.inputFile == "-" {
		data, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := ioutil.ReadFile(config.inputFile)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func die(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
	os.Exit(1)
}

func main() {
	config := makeConfig()
	status, err := processArgs(os.Args[1:], &config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR: "+err.Error())
	}
	switch status {
	case processArgsStatusContinue:
		break
	case processArgsStatusSuccessUsage:
		usage(os.Stdout)
		os.Exit(0)
	case processArgsStatusFailureUsage:
		if err != nil {
			fmt.Fprintln(os.Stderr, "")
		}
		usage(os.Stderr)
		os.Exit(1)
	case processArgsStatusSuccess:
		os.Exit(0)
	case processArgsStatusFailure:
		os.Exit(1)
	}

	parser := abacus.MakeParser()
	parser.CaseSensitive = config.caseSensitive

	if config.listFunctions {
		fmt.Println(strings.Join(parser.Functions().Names(), "\n"))
		os.Exit(0)
	}

	input, err := readInput(&config)
	if err != nil {
		die(err)
	}
	input = strings.TrimSpace(input)

	ef := abacus.ErrorFormatter{}
	ef.SetColorFormatter(color.New(color.FgRed).Fprintf)

	if config.deps {
		deps, err := parser.Dependencies(input)
		if err != nil {
			fmt.Fprint(os.Stderr, ef.Format(err))
			os.Exit(2)
		}
		for _, d := range deps {
			fmt.Println(d)
		}
		return
	}

	node, err := parser.ParseString(input)
	if err != nil {
		fmt.Fprint(os.Stderr, ef.Format(err))
		os.Exit(2)
	}

	switch config.format {
	case "tree":
		fmt.Print(dump.Tree(node))
	case "json":
		data, err := json.MarshalIndent(dump.Map(node), "", "  ")
		if err != nil {
			die(err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(dump.Map(node))
		if err != nil {
			die(err)
		}
		fmt.Print(string(data))
	}
}
