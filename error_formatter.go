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
package abacus

import (
	"bytes"
	"fmt"
	"io"
)

// ErrorFormatter turns errors returned by this package into text suitable
// for display.
type ErrorFormatter struct {
	colorFormatter func(w io.Writer, format string, a ...interface{}) (n int, err error)
}

// SetColorFormatter sets a Fprintf-style function used to write the message,
// e.g. color.New(color.FgRed).Fprintf.
func (ef *ErrorFormatter) SetColorFormatter(f func(w io.Writer, format string, a ...interface{}) (n int, err error)) {
	ef.colorFormatter = f
}

// Format renders an error as a displayable message.
func (ef *ErrorFormatter) Format(err error) string {
	var msg string
	switch err := err.(type) {
	case *ParseError:
		msg = fmt.Sprintf("parse error (%v): %v\n", err.Kind, err.Error())
	case StaticError:
		msg = "static error: " + err.Error() + "\n"
	default:
		msg = "INTERNAL ERROR: " + err.Error() + "\n"
	}
	if ef.colorFormatter == nil {
		return msg
	}
	var buf bytes.Buffer
	if _, err := ef.colorFormatter(&buf, "%s", msg); err != nil {
		return msg
	}
	return buf.String()
}
