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
	"io"
	"strings"

	"github.com/Terr07/JBKit/classfile"
)

// DisassemblerConfig controls the emitted text.
type DisassemblerConfig struct {
	// DisableHeaderComments suppresses the banner comment at the top of the
	// output.
	DisableHeaderComments bool
}

// DefaultDisassemblerConfig returns the stock configuration.
func DefaultDisassemblerConfig() DisassemblerConfig {
	return DisassemblerConfig{}
}

// classModifiers are the flags the .class/.interface line can carry, in
// emission order. ACC_SUPER is implicit and never printed.
var classModifiers = []struct {
	flag uint16
	name string
}{
	{classfile.AccPublic, "public"},
	{classfile.AccFinal, "final"},
	{classfile.AccAbstract, "abstract"},
}

var memberModifiers = []struct {
	flag uint16
	name string
}{
	{classfile.AccPublic, "public"},
	{classfile.AccPrivate, "private"},
	{classfile.AccProtected, "protected"},
	{classfile.AccStatic, "static"},
	{classfile.AccFinal, "final"},
	{classfile.AccSuper, "synchronized"},
	{classfile.AccVolatile, "volatile"},
	{classfile.AccTransient, "transient"},
	{classfile.AccNative, "native"},
	{classfile.AccAbstract, "abstract"},
}

// Disassemble writes the Jasmin text for a class file. The textual round
// trip is stable but not byte-exact.
func Disassemble(cf *classfile.ClassFile, w io.Writer, config DisassemblerConfig) error {
	d := &disassembler{cf: cf, w: w, config: config}
	if err := d.header(); err != nil {
		return err
	}
	if err := d.fields(); err != nil {
		return err
	}
	return d.methods()
}

type disassembler struct {
	cf     *classfile.ClassFile
	w      io.Writer
	config DisassemblerConfig
	err    error
}

func (d *disassembler) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

func (d *disassembler) header() error {
	if !d.config.DisableHeaderComments {
		d.printf("; Disassembled by JBKit\n")
	}
	d.printf(".bytecode %d.%d\n", d.cf.MajorVersion, d.cf.MinorVersion)

	if source, ok := d.cf.SourceFile(); ok {
		d.printf(".source %s\n", source)
	}

	name, err := d.cf.ClassName()
	if err != nil {
		return fmt.Errorf("disassembling class name: %w", err)
	}
	directive := ".class"
	if d.cf.AccessFlags&classfile.AccInterface != 0 {
		directive = ".interface"
	}
	d.printf("%s%s %s\n", directive, modifierString(d.cf.AccessFlags, classModifiers), name)

	super, err := d.cf.SuperName()
	if err != nil {
		return fmt.Errorf("disassembling super name: %w", err)
	}
	if super != "" {
		d.printf(".super %s\n", super)
	}

	for _, index := range d.cf.Interfaces {
		iface, err := d.cf.ConstPool.LookupString(index)
		if err != nil {
			return fmt.Errorf("disassembling interface %d: %w", index, err)
		}
		d.printf(".implements %s\n", iface)
	}

	d.printf("\n")
	return d.err
}

func (d *disassembler) fields() error {
	for _, field := range d.cf.Fields {
		name, err := d.cf.ConstPool.LookupString(field.NameIndex)
		if err != nil {
			return fmt.Errorf("disassembling field name: %w", err)
		}
		descriptor, err := d.cf.ConstPool.LookupString(field.DescriptorIndex)
		if err != nil {
			return fmt.Errorf("disassembling field descriptor: %w", err)
		}
		d.printf(".field%s %s %s\n", modifierString(field.AccessFlags, memberModifiers), name, descriptor)
	}
	if len(d.cf.Fields) > 0 {
		d.printf("\n")
	}
	return d.err
}

func (d *disassembler) methods() error {
	for _, method := range d.cf.Methods {
		name, err := d.cf.ConstPool.LookupString(method.NameIndex)
		if err != nil {
			return fmt.Errorf("disassembling method name: %w", err)
		}
		descriptor, err := d.cf.ConstPool.LookupString(method.DescriptorIndex)
		if err != nil {
			return fmt.Errorf("disassembling method descriptor: %w", err)
		}
		d.printf(".method%s %s%s\n", modifierString(method.AccessFlags, memberModifiers), name, descriptor)

		for _, attr := range method.Attributes {
			code, ok := attr.(*classfile.CodeAttribute)
			if !ok {
				continue
			}
			d.printf(".limit stack %d\n", code.MaxStack)
			d.printf(".limit locals %d\n", code.MaxLocals)
			for _, in := range code.Code {
				d.printf("\t%s", in.Mnemonic())
				for i := 0; i < in.NOperands(); i++ {
					operand, err := in.Operand(i)
					if err != nil {
						return err
					}
					d.printf(" %d", operand)
				}
				d.printf("\n")
			}
		}

		d.printf(".end method\n\n")
	}
	return d.err
}

func modifierString(flags uint16, table []struct {
	flag uint16
	name string
}) string {
	var sb strings.Builder
	for _, modifier := range table {
		if flags&modifier.flag != 0 {
			sb.WriteString(" ")
			sb.WriteString(modifier.name)
		}
	}
	return sb.String()
}
