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
	"strconv"
	"strings"

	"github.com/Terr07/JBKit/classfile"
)

const defaultSuperClass = "java/lang/Object"

// accessFlagByName maps Jasmin access modifiers to their flag bits. The
// synchronized bit doubles as ACC_SUPER on classes, so a synchronized
// modifier on .class or .interface sets ACC_SUPER.
var accessFlagByName = map[string]uint16{
	"public":       classfile.AccPublic,
	"private":      classfile.AccPrivate,
	"protected":    classfile.AccProtected,
	"static":       classfile.AccStatic,
	"final":        classfile.AccFinal,
	"volatile":     classfile.AccVolatile,
	"transient":    classfile.AccTransient,
	"abstract":     classfile.AccAbstract,
	"native":       classfile.AccNative,
	"synchronized": classfile.AccSuper,
}

// Assembler builds a ClassFile from a Jasmin syntax tree. Constructs the
// binary codec cannot express (labels, symbolic operands, the directives
// below that are recognized but not interpreted) degrade to recoverable
// diagnostics instead of failing the whole assembly.
type Assembler struct {
	cf          *classfile.ClassFile
	utf8Cache   map[string]uint16
	classCache  map[string]uint16
	diagnostics []string

	sourceFile string
	method     *methodState
}

type methodState struct {
	info    classfile.FieldMethodInfo
	code    *classfile.CodeAttribute
	sawCode bool
}

func NewAssembler() *Assembler {
	return &Assembler{
		cf: &classfile.ClassFile{
			Magic:        classfile.Magic,
			MajorVersion: 52,
		},
		utf8Cache:  make(map[string]uint16),
		classCache: make(map[string]uint16),
	}
}

// AssembleSource parses and assembles a whole Jasmin source text.
func AssembleSource(src []byte) (*classfile.ClassFile, []string, error) {
	nodes, err := Parse(src)
	if err != nil {
		return nil, nil, err
	}
	assembler := NewAssembler()
	cf, err := assembler.Assemble(nodes)
	return cf, assembler.Diagnostics(), err
}

// Diagnostics returns the recoverable warnings accumulated during the last
// Assemble.
func (a *Assembler) Diagnostics() []string {
	return a.diagnostics
}

// Assemble interprets the syntax tree and returns the built class file.
func (a *Assembler) Assemble(nodes []Node) (*classfile.ClassFile, error) {
	for _, node := range nodes {
		if err := a.assembleNode(node); err != nil {
			return nil, err
		}
	}
	if a.method != nil {
		return nil, fmt.Errorf("method %q has no .end method", a.methodName())
	}

	if a.cf.SuperClass == 0 {
		a.cf.SuperClass = a.classRef(defaultSuperClass)
	}
	if a.sourceFile != "" {
		a.cf.Attributes = append(a.cf.Attributes, &classfile.SourceFileAttribute{
			NameIndex:       a.utf8(classfile.AttrSourceFile),
			SourceFileIndex: a.utf8(a.sourceFile),
		})
	}
	return a.cf, nil
}

func (a *Assembler) assembleNode(node Node) error {
	switch n := node.(type) {
	case *Directive:
		return a.assembleDirective(n)
	case *Instruction:
		return a.assembleInstruction(n)
	case *Label:
		a.diag(n.Line, n.Column, "labels are not implemented, skipping %q", n.Name)
		return nil
	}
	return fmt.Errorf("unknown syntax node %T", node)
}

func (a *Assembler) assembleDirective(d *Directive) error {
	switch d.Name {
	case "bytecode":
		return a.directiveBytecode(d)
	case "source":
		if len(d.Params) != 1 {
			return directiveError(d, "wants exactly one parameter")
		}
		a.sourceFile = d.Params[0]
		return nil
	case "class":
		return a.directiveClass(d, 0)
	case "interface":
		return a.directiveClass(d, classfile.AccInterface)
	case "super":
		if len(d.Params) != 1 {
			return directiveError(d, "wants exactly one parameter")
		}
		a.cf.SuperClass = a.classRef(d.Params[0])
		return nil
	case "implements":
		if len(d.Params) != 1 {
			return directiveError(d, "wants exactly one parameter")
		}
		a.cf.Interfaces = append(a.cf.Interfaces, a.classRef(d.Params[0]))
		return nil
	case "field":
		return a.directiveField(d)
	case "method":
		return a.directiveMethod(d)
	case "limit":
		return a.directiveLimit(d)
	case "end":
		return a.directiveEnd(d)
	case "catch", "line", "throws", "var":
		a.diag(d.Line, d.Column, ".%s is not implemented, skipping", d.Name)
		return nil
	}
	a.diag(d.Line, d.Column, "unhandled directive .%s, skipping", d.Name)
	return nil
}

func (a *Assembler) directiveBytecode(d *Directive) error {
	if len(d.Params) != 1 {
		return directiveError(d, "wants a major.minor version")
	}
	majorStr, minorStr, found := strings.Cut(d.Params[0], ".")
	if !found {
		minorStr = "0"
	}
	major, err := strconv.ParseUint(majorStr, 10, 16)
	if err != nil {
		return directiveError(d, "bad major version %q", majorStr)
	}
	minor, err := strconv.ParseUint(minorStr, 10, 16)
	if err != nil {
		return directiveError(d, "bad minor version %q", minorStr)
	}
	a.cf.MajorVersion = uint16(major)
	a.cf.MinorVersion = uint16(minor)
	return nil
}

func (a *Assembler) directiveClass(d *Directive, extraFlags uint16) error {
	if len(d.Params) == 0 {
		return directiveError(d, "wants a class name")
	}
	flags, rest := a.takeModifiers(d)
	if len(rest) != 1 {
		return directiveError(d, "wants modifiers followed by one class name")
	}
	a.cf.AccessFlags = flags | extraFlags
	if extraFlags&classfile.AccInterface == 0 {
		a.cf.AccessFlags |= classfile.AccSuper
	}
	a.cf.ThisClass = a.classRef(rest[0])
	return nil
}

func (a *Assembler) directiveField(d *Directive) error {
	flags, rest := a.takeModifiers(d)
	if len(rest) < 2 {
		return directiveError(d, "wants a name and a descriptor")
	}
	if len(rest) > 2 {
		a.diag(d.Line, d.Column, "field initializers are not implemented, ignoring %q",
			strings.Join(rest[2:], " "))
	}
	a.cf.Fields = append(a.cf.Fields, classfile.FieldMethodInfo{
		AccessFlags:     flags,
		NameIndex:       a.utf8(rest[0]),
		DescriptorIndex: a.utf8(rest[1]),
	})
	return nil
}

func (a *Assembler) directiveMethod(d *Directive) error {
	if a.method != nil {
		return directiveError(d, "starts inside method %q", a.methodName())
	}
	flags, rest := a.takeModifiers(d)
	if len(rest) != 1 {
		return directiveError(d, "wants modifiers followed by name(descriptor)")
	}
	name, descriptor, found := strings.Cut(rest[0], "(")
	if !found || name == "" {
		return directiveError(d, "spec %q is not of the form name(descriptor)", rest[0])
	}
	a.method = &methodState{
		info: classfile.FieldMethodInfo{
			AccessFlags:     flags,
			NameIndex:       a.utf8(name),
			DescriptorIndex: a.utf8("(" + descriptor),
		},
		code: &classfile.CodeAttribute{},
	}
	return nil
}

func (a *Assembler) directiveLimit(d *Directive) error {
	if a.method == nil {
		return directiveError(d, "is only valid inside a method")
	}
	if len(d.Params) != 2 {
		return directiveError(d, "wants a kind and a count")
	}
	count, err := strconv.ParseUint(d.Params[1], 10, 16)
	if err != nil {
		return directiveError(d, "bad count %q", d.Params[1])
	}
	switch d.Params[0] {
	case "stack":
		a.method.code.MaxStack = uint16(count)
	case "locals":
		a.method.code.MaxLocals = uint16(count)
	default:
		return directiveError(d, "unknown limit kind %q", d.Params[0])
	}
	a.method.sawCode = true
	return nil
}

func (a *Assembler) directiveEnd(d *Directive) error {
	if len(d.Params) != 1 || d.Params[0] != "method" {
		a.diag(d.Line, d.Column, ".end %s is not implemented, skipping",
			strings.Join(d.Params, " "))
		return nil
	}
	if a.method == nil {
		return directiveError(d, "found outside a method")
	}

	info := a.method.info
	if a.method.sawCode {
		a.method.code.NameIndex = a.utf8(classfile.AttrCode)
		info.Attributes = append(info.Attributes, a.method.code)
	}
	a.cf.Methods = append(a.cf.Methods, info)
	a.method = nil
	return nil
}

func (a *Assembler) assembleInstruction(n *Instruction) error {
	if a.method == nil {
		a.diag(n.Line, n.Column, "instruction %q outside a method, skipping", n.Name)
		return nil
	}

	op, err := classfile.OpcodeFromMnemonic(n.Name)
	if err != nil {
		return fmt.Errorf("line %d col %d: %w", n.Line, n.Column, err)
	}
	if op.IsComplex() {
		a.diag(n.Line, n.Column, "complex instruction %q is not implemented, skipping", n.Name)
		return nil
	}

	in, err := classfile.NewInstruction(op)
	if err != nil {
		return err
	}
	if len(n.Args) != in.NOperands() {
		return fmt.Errorf("line %d col %d: %q wants %d operands, got %d",
			n.Line, n.Column, n.Name, in.NOperands(), len(n.Args))
	}
	for i, arg := range n.Args {
		number, ok := arg.(NumberArg)
		if !ok {
			a.diag(n.Line, n.Column,
				"symbolic operands are not implemented, skipping %q", n.Name)
			return nil
		}
		if err := in.SetOperand(i, int32(number)); err != nil {
			return err
		}
	}

	a.method.code.Code = append(a.method.code.Code, in)
	a.method.sawCode = true
	return nil
}

// takeModifiers splits the leading access modifiers off a directive's
// parameters and folds them into a flag word.
func (a *Assembler) takeModifiers(d *Directive) (uint16, []string) {
	var flags uint16
	for i, param := range d.Params {
		flag, ok := accessFlagByName[param]
		if !ok {
			return flags, d.Params[i:]
		}
		flags |= flag
	}
	return flags, nil
}

// utf8 interns a UTF8 constant, reusing an existing entry for repeats.
func (a *Assembler) utf8(s string) uint16 {
	if index, ok := a.utf8Cache[s]; ok {
		return index
	}
	index := a.cf.ConstPool.Add(&classfile.UTF8Info{String: s})
	a.utf8Cache[s] = index
	return index
}

// classRef interns a Class constant for the given internal name.
func (a *Assembler) classRef(name string) uint16 {
	if index, ok := a.classCache[name]; ok {
		return index
	}
	index := a.cf.ConstPool.Add(&classfile.ClassInfo{NameIndex: a.utf8(name)})
	a.classCache[name] = index
	return index
}

func (a *Assembler) methodName() string {
	name, err := a.cf.ConstPool.LookupString(a.method.info.NameIndex)
	if err != nil {
		return "?"
	}
	return name
}

func (a *Assembler) diag(line, column int, format string, args ...any) {
	position := fmt.Sprintf("line %d col %d: ", line, column)
	a.diagnostics = append(a.diagnostics, position+fmt.Sprintf(format, args...))
}

func directiveError(d *Directive, format string, args ...any) error {
	return &ParseError{
		Line:    d.Line,
		Column:  d.Column,
		Message: fmt.Sprintf(".%s %s", d.Name, fmt.Sprintf(format, args...)),
	}
}
