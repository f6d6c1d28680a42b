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
	"errors"
	"reflect"
	"testing"
)

func TestParseDirectiveParams(t *testing.T) {
	nodes, err := Parse([]byte(".class public final Widget\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("Parse() produced %d nodes, want 1", len(nodes))
	}

	directive, ok := nodes[0].(*Directive)
	if !ok {
		t.Fatalf("node = %T, want *Directive", nodes[0])
	}
	if directive.Name != "class" {
		t.Errorf("Name = %q, want class", directive.Name)
	}
	want := []string{"public", "final", "Widget"}
	if !reflect.DeepEqual(directive.Params, want) {
		t.Errorf("Params = %v, want %v", directive.Params, want)
	}
}

func TestParseInstructionArgs(t *testing.T) {
	nodes, err := Parse([]byte("\n\nbipush -7\nldc 9\ninvokestatic Foo/bar()V\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("Parse() produced %d nodes, want 3", len(nodes))
	}

	bipush := nodes[0].(*Instruction)
	if bipush.Name != "bipush" || !reflect.DeepEqual(bipush.Args, []Arg{NumberArg(-7)}) {
		t.Errorf("bipush = %v", bipush)
	}
	ldc := nodes[1].(*Instruction)
	if !reflect.DeepEqual(ldc.Args, []Arg{NumberArg(9)}) {
		t.Errorf("ldc = %v", ldc)
	}
	invoke := nodes[2].(*Instruction)
	if !reflect.DeepEqual(invoke.Args, []Arg{StringArg("Foo/bar()V")}) {
		t.Errorf("invokestatic = %v", invoke)
	}
}

func TestParseLabelBody(t *testing.T) {
	src := "start:\niconst_0\nistore 1\n\niadd\n"
	nodes, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Parse() produced %d nodes, want 2:\n%v", len(nodes), nodes)
	}

	label, ok := nodes[0].(*Label)
	if !ok {
		t.Fatalf("first node = %T, want *Label", nodes[0])
	}
	if label.Name != "start" {
		t.Errorf("label name = %q", label.Name)
	}
	if len(label.Body) != 2 {
		t.Fatalf("label body has %d nodes, want 2", len(label.Body))
	}
	if in := label.Body[0].(*Instruction); in.Name != "iconst_0" {
		t.Errorf("body[0] = %v", in)
	}
	if in := label.Body[1].(*Instruction); in.Name != "istore" {
		t.Errorf("body[1] = %v", in)
	}

	// The blank line ends the label; iadd is top level again.
	if in := nodes[1].(*Instruction); in.Name != "iadd" {
		t.Errorf("second node = %v", nodes[1])
	}
}

func TestParseMissingInputAfterEOF(t *testing.T) {
	nodes, err := Parse([]byte("\n\n  ; only comments\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("Parse() produced %d nodes, want 0", len(nodes))
	}
}

func TestParseBadArgument(t *testing.T) {
	_, err := Parse([]byte("ldc +\n"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Parse() error = %v, want *ParseError", err)
	}
	if parseErr.Line != 1 || parseErr.Column != 5 {
		t.Errorf("error position = %d:%d, want 1:5", parseErr.Line, parseErr.Column)
	}
}

func TestParseDanglingMinus(t *testing.T) {
	_, err := Parse([]byte("bipush -\n"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Parse() error = %v, want *ParseError", err)
	}
}
