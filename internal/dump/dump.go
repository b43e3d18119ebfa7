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

// Package dump renders ASTs for human and machine consumption.
package dump

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abacus-lang/go-abacus/ast"
)

// Tree renders the node as an indented tree, one node per line.
func Tree(node ast.Node) string {
	var sb strings.Builder
	writeNode(&sb, node, 0)
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString("  ")
	}
}

func writeLine(sb *strings.Builder, depth int, line string) {
	indent(sb, depth)
	sb.WriteString(line)
	sb.WriteByte('\n')
}

func writeNode(sb *strings.Builder, node ast.Node, depth int) {
	switch n := node.(type) {
	case *ast.Number:
		writeLine(sb, depth, "number "+strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *ast.Logical:
		writeLine(sb, depth, "logical "+strconv.FormatBool(n.Value))
	case *ast.String:
		writeLine(sb, depth, "string "+strconv.Quote(n.Value))
	case *ast.DateTime:
		writeLine(sb, depth, "datetime "+n.Value.Format(time.RFC3339))
	case *ast.Null:
		writeLine(sb, depth, "null")
	case *ast.Identifier:
		writeLine(sb, depth, "identifier "+n.Key())
	case *ast.Unary:
		writeLine(sb, depth, "unary "+n.Op.String())
		writeNode(sb, n.Expr, depth+1)
	case *ast.Binary:
		writeLine(sb, depth, "binary "+n.Op.String())
		writeNode(sb, n.Left, depth+1)
		writeNode(sb, n.Right, depth+1)
	case *ast.FunctionCall:
		writeLine(sb, depth, "call "+strings.ToLower(n.Func.Name))
		for _, arg := range n.Args {
			writeNode(sb, arg, depth+1)
		}
	case *ast.Access:
		writeLine(sb, depth, "access")
		writeNode(sb, n.Container, depth+1)
		writeNode(sb, n.Index, depth+1)
	case *ast.Case:
		writeLine(sb, depth, "case")
		writeNode(sb, n.Switch, depth+1)
		for _, c := range n.Conditionals {
			writeLine(sb, depth+1, "when")
			writeNode(sb, c.When, depth+2)
			writeLine(sb, depth+1, "then")
			writeNode(sb, c.Then, depth+2)
		}
		if n.Else != nil {
			writeLine(sb, depth+1, "else")
			writeNode(sb, n.Else, depth+2)
		}
	default:
		panic(fmt.Sprintf("INTERNAL ERROR: unrecognised node type %T", node))
	}
}

// Map converts the node to plain maps and slices, for JSON or YAML
// marshalling.
func Map(node ast.Node) map[string]interface{} {
	switch n := node.(type) {
	case *ast.Number:
		return map[string]interface{}{"type": "number", "value": n.Value}
	case *ast.Logical:
		return map[string]interface{}{"type": "logical", "value": n.Value}
	case *ast.String:
		return map[string]interface{}{"type": "string", "value": n.Value}
	case *ast.DateTime:
		return map[string]interface{}{"type": "datetime", "value": n.Value.Format(time.RFC3339)}
	case *ast.Null:
		return map[string]interface{}{"type": "null"}
	case *ast.Identifier:
		return map[string]interface{}{"type": "identifier", "name": n.Key()}
	case *ast.Unary:
		return map[string]interface{}{
			"type": "unary",
			"op":   n.Op.String(),
			"expr": Map(n.Expr),
		}
	case *ast.Binary:
		return map[string]interface{}{
			"type":  "binary",
			"op":    n.Op.String(),
			"left":  Map(n.Left),
			"right": Map(n.Right),
		}
	case *ast.FunctionCall:
		args := make([]interface{}, 0, len(n.Args))
		for _, arg := range n.Args {
			args = append(args, Map(arg))
		}
		return map[string]interface{}{
			"type": "call",
			"name": strings.ToLower(n.Func.Name),
			"args": args,
		}
	case *ast.Access:
		return map[string]interface{}{
			"type":      "access",
			"container": Map(n.Container),
			"index":     Map(n.Index),
		}
	case *ast.Case:
		conds := make([]interface{}, 0, len(n.Conditionals))
		for _, c := range n.Conditionals {
			conds = append(conds, map[string]interface{}{
				"when": Map(c.When),
				"then": Map(c.Then),
			})
		}
		m := map[string]interface{}{
			"type":         "case",
			"switch":       Map(n.Switch),
			"conditionals": conds,
		}
		if n.Else != nil {
			m["else"] = Map(n.Else)
		}
		return m
	default:
		panic(fmt.Sprintf("INTERNAL ERROR: unrecognised node type %T", node))
	}
}
