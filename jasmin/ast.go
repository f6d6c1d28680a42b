// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jasmin

import (
	"fmt"
	"strings"
)

// Node is one top-level element of a Jasmin source: a directive, an
// instruction, or a label with its nested body.
type Node interface {
	isNode()
	String() string
}

// Directive is a dot-prefixed statement such as .class or .limit, with its
// raw parameter strings.
type Directive struct {
	Name   string
	Params []string

	// Line and Column locate the directive for diagnostics.
	Line   int
	Column int
}

func (*Directive) isNode() {}

func (d *Directive) String() string {
	return fmt.Sprintf("Directive{.%s %s}", d.Name, strings.Join(d.Params, " "))
}

// Arg is one instruction argument: a StringArg or a NumberArg.
type Arg interface {
	isArg()
}

type StringArg string

type NumberArg float64

func (StringArg) isArg() {}
func (NumberArg) isArg() {}

// Instruction is a mnemonic line with its arguments.
type Instruction struct {
	Name string
	Args []Arg

	Line   int
	Column int
}

func (*Instruction) isNode() {}

func (in *Instruction) String() string {
	var sb strings.Builder
	sb.WriteString("Instruction{")
	sb.WriteString(in.Name)
	for _, arg := range in.Args {
		switch a := arg.(type) {
		case StringArg:
			fmt.Fprintf(&sb, " %s", string(a))
		case NumberArg:
			fmt.Fprintf(&sb, " %v", float64(a))
		}
	}
	sb.WriteString("}")
	return sb.String()
}

// Label is a name followed by a colon, owning the nodes up to the next
// blank separator.
type Label struct {
	Name string
	Body []Node

	Line   int
	Column int
}

func (*Label) isNode() {}

func (l *Label) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Label{%s:", l.Name)
	for _, node := range l.Body {
		sb.WriteString(" ")
		sb.WriteString(node.String())
	}
	sb.WriteString("}")
	return sb.String()
}
