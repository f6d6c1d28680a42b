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

package benchmarks

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/Terr07/JBKit/classfile"
	"github.com/Terr07/JBKit/jasmin"
)

// buildClass synthesizes a class with many methods so the benchmarks spend
// their time in the codec rather than in setup.
func buildClass(b *testing.B, methods int) []byte {
	b.Helper()

	cf := &classfile.ClassFile{
		Magic:        classfile.Magic,
		MajorVersion: 52,
		AccessFlags:  classfile.AccPublic | classfile.AccSuper,
	}
	cp := &cf.ConstPool

	utf8 := func(s string) uint16 { return cp.Add(&classfile.UTF8Info{String: s}) }

	cf.ThisClass = cp.Add(&classfile.ClassInfo{NameIndex: utf8("bench/Widget")})
	cf.SuperClass = cp.Add(&classfile.ClassInfo{NameIndex: utf8("java/lang/Object")})
	codeName := utf8(classfile.AttrCode)
	descriptor := utf8("(I)I")

	for i := 0; i < methods; i++ {
		name := utf8(fmt.Sprintf("m%d", i))
		code := &classfile.CodeAttribute{
			NameIndex: codeName,
			MaxStack:  2,
			MaxLocals: 2,
		}
		for _, op := range []classfile.Opcode{
			classfile.OpIload0, classfile.OpBipush, classfile.OpIadd,
			classfile.OpSipush, classfile.OpIadd, classfile.OpIreturn,
		} {
			in, err := classfile.NewInstruction(op)
			if err != nil {
				b.Fatalf("NewInstruction: %v", err)
			}
			if in.NOperands() > 0 {
				if err := in.SetOperand(0, int32(i%100)); err != nil {
					b.Fatalf("SetOperand: %v", err)
				}
			}
			code.Code = append(code.Code, in)
		}
		cf.Methods = append(cf.Methods, classfile.FieldMethodInfo{
			AccessFlags:     classfile.AccPublic | classfile.AccStatic,
			NameIndex:       name,
			DescriptorIndex: descriptor,
			Attributes:      []classfile.Attribute{code},
		})
	}

	var out bytes.Buffer
	if err := classfile.NewSerializer(&out).Serialize(cf); err != nil {
		b.Fatalf("Serialize: %v", err)
	}
	return out.Bytes()
}

func BenchmarkParse(b *testing.B) {
	encoded := buildClass(b, 200)
	b.SetBytes(int64(len(encoded)))

	for b.Loop() {
		if _, err := classfile.NewParser(bytes.NewReader(encoded)).Parse(); err != nil {
			b.Fatalf("Parse: %v", err)
		}
	}
}

func BenchmarkSerialize(b *testing.B) {
	encoded := buildClass(b, 200)
	cf, err := classfile.NewParser(bytes.NewReader(encoded)).Parse()
	if err != nil {
		b.Fatalf("Parse: %v", err)
	}
	b.SetBytes(int64(len(encoded)))

	for b.Loop() {
		var out bytes.Buffer
		if err := classfile.NewSerializer(&out).Serialize(cf); err != nil {
			b.Fatalf("Serialize: %v", err)
		}
	}
}

func BenchmarkDisassemble(b *testing.B) {
	encoded := buildClass(b, 200)
	cf, err := classfile.NewParser(bytes.NewReader(encoded)).Parse()
	if err != nil {
		b.Fatalf("Parse: %v", err)
	}
	config := jasmin.DisassemblerConfig{DisableHeaderComments: true}

	for b.Loop() {
		var out bytes.Buffer
		if err := jasmin.Disassemble(cf, &out, config); err != nil {
			b.Fatalf("Disassemble: %v", err)
		}
	}
}
