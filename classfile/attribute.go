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

package classfile

// Attribute names the codec interprets. Every other name parses into a
// RawAttribute that preserves the body verbatim.
const (
	AttrConstantValue = "ConstantValue"
	AttrSourceFile    = "SourceFile"
	AttrCode          = "Code"
)

// Attribute is a named, length-prefixed chunk attached to a class, field,
// method or Code body. Length reports the encoded body size, excluding the
// 6-byte (name_index, length) header.
type Attribute interface {
	AttrNameIndex() uint16
	Length() uint32
}

// ConstantValueAttribute gives a field its compile-time constant.
type ConstantValueAttribute struct {
	NameIndex uint16
	Index     uint16
}

func (a *ConstantValueAttribute) AttrNameIndex() uint16 { return a.NameIndex }
func (a *ConstantValueAttribute) Length() uint32        { return 2 }

// SourceFileAttribute names the source file the class was compiled from.
type SourceFileAttribute struct {
	NameIndex       uint16
	SourceFileIndex uint16
}

func (a *SourceFileAttribute) AttrNameIndex() uint16 { return a.NameIndex }
func (a *SourceFileAttribute) Length() uint32        { return 2 }

// ExceptionHandler is one row of a Code attribute's exception table.
type ExceptionHandler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

// CodeAttribute holds a method body: the bytecode stream, its exception
// table, and nested attributes.
type CodeAttribute struct {
	NameIndex      uint16
	MaxStack       uint16
	MaxLocals      uint16
	Code           []Instruction
	ExceptionTable []ExceptionHandler
	Attributes     []Attribute
}

func (a *CodeAttribute) AttrNameIndex() uint16 { return a.NameIndex }

// CodeLength returns the byte count of the bytecode stream alone.
func (a *CodeAttribute) CodeLength() uint32 {
	var n uint32
	for _, in := range a.Code {
		n += in.Length()
	}
	return n
}

// Length recomputes the body size from the components: the fixed 12-byte
// header fields, the code bytes, the exception table, and every nested
// attribute including its own 6-byte header.
func (a *CodeAttribute) Length() uint32 {
	n := uint32(2 + 2 + 4) // max_stack, max_locals, code_length
	n += a.CodeLength()
	n += 2 + 8*uint32(len(a.ExceptionTable))
	n += 2
	for _, attr := range a.Attributes {
		n += 6 + attr.Length()
	}
	return n
}

// RawAttribute preserves the body of an attribute the codec does not
// interpret.
type RawAttribute struct {
	NameIndex uint16
	Bytes     []byte
}

func (a *RawAttribute) AttrNameIndex() uint16 { return a.NameIndex }
func (a *RawAttribute) Length() uint32        { return uint32(len(a.Bytes)) }
