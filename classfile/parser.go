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

import (
	"fmt"
	"io"
)

// Parser reads the binary class file format into a ClassFile model. A
// parser owns its input for its lifetime and is not safe for concurrent
// use.
type Parser struct {
	r        *bigEndianReader
	warnings []string
}

func NewParser(r io.Reader) *Parser {
	return &Parser{r: newBigEndianReader(r)}
}

// Warnings returns the recoverable diagnostics accumulated during the last
// Parse: currently only unrecognized attribute names that fell back to a
// raw pass-through.
func (p *Parser) Warnings() []string {
	return p.warnings
}

// BytesRead returns the number of input bytes consumed so far.
func (p *Parser) BytesRead() int64 {
	return p.r.pos()
}

// Parse reads one complete class file. On error no partial model is
// returned.
func (p *Parser) Parse() (*ClassFile, error) {
	cf := &ClassFile{}

	var err error
	if cf.Magic, err = p.r.u32(); err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if cf.MinorVersion, err = p.r.u16(); err != nil {
		return nil, fmt.Errorf("reading minor version: %w", err)
	}
	if cf.MajorVersion, err = p.r.u16(); err != nil {
		return nil, fmt.Errorf("reading major version: %w", err)
	}

	if err := p.parseConstantPool(&cf.ConstPool); err != nil {
		return nil, err
	}

	if cf.AccessFlags, err = p.r.u16(); err != nil {
		return nil, fmt.Errorf("reading access flags: %w", err)
	}
	if cf.ThisClass, err = p.r.u16(); err != nil {
		return nil, fmt.Errorf("reading this_class: %w", err)
	}
	if cf.SuperClass, err = p.r.u16(); err != nil {
		return nil, fmt.Errorf("reading super_class: %w", err)
	}

	interfacesCount, err := p.r.u16()
	if err != nil {
		return nil, fmt.Errorf("reading interfaces count: %w", err)
	}
	cf.Interfaces = make([]uint16, interfacesCount)
	for i := range cf.Interfaces {
		if cf.Interfaces[i], err = p.r.u16(); err != nil {
			return nil, fmt.Errorf("reading interface %d: %w", i, err)
		}
	}

	if cf.Fields, err = p.parseFieldsOrMethods(&cf.ConstPool, "field"); err != nil {
		return nil, err
	}
	if cf.Methods, err = p.parseFieldsOrMethods(&cf.ConstPool, "method"); err != nil {
		return nil, err
	}

	attributesCount, err := p.r.u16()
	if err != nil {
		return nil, fmt.Errorf("reading class attributes count: %w", err)
	}
	cf.Attributes = make([]Attribute, 0, attributesCount)
	for i := 0; i < int(attributesCount); i++ {
		attr, err := p.parseAttribute(&cf.ConstPool)
		if err != nil {
			return nil, fmt.Errorf("parsing class attribute %d: %w", i, err)
		}
		cf.Attributes = append(cf.Attributes, attr)
	}

	return cf, nil
}

func (p *Parser) parseConstantPool(cp *ConstantPool) error {
	count, err := p.r.u16()
	if err != nil {
		return fmt.Errorf("reading constant pool count: %w", err)
	}
	if count > 0 {
		cp.Reserve(int(count) - 1)
	}

	// count is the number of slots plus one. Long and Double entries take
	// two slots; Add appends the filler, so the loop skips one position.
	for i := uint16(0); i+1 < count; i++ {
		info, err := p.parseConstant()
		if err != nil {
			return fmt.Errorf("parsing constant %d: %w", i+1, err)
		}
		cp.Add(info)
		switch info.(type) {
		case *LongInfo, *DoubleInfo:
			i++
		}
	}
	return nil
}

func (p *Parser) parseConstant() (ConstInfo, error) {
	tag, err := p.r.u8()
	if err != nil {
		return nil, fmt.Errorf("reading tag: %w", err)
	}

	switch ConstTag(tag) {
	case TagUTF8:
		length, err := p.r.u16()
		if err != nil {
			return nil, fmt.Errorf("reading UTF8 length: %w", err)
		}
		bytes, err := p.r.bytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("reading UTF8 bytes: %w", err)
		}
		return &UTF8Info{String: string(bytes)}, nil

	case TagInteger:
		info := &IntegerInfo{}
		info.Bytes, err = p.r.u32()
		return info, err

	case TagFloat:
		info := &FloatInfo{}
		info.Bytes, err = p.r.u32()
		return info, err

	case TagLong:
		info := &LongInfo{}
		if info.HighBytes, err = p.r.u32(); err != nil {
			return nil, err
		}
		info.LowBytes, err = p.r.u32()
		return info, err

	case TagDouble:
		info := &DoubleInfo{}
		if info.HighBytes, err = p.r.u32(); err != nil {
			return nil, err
		}
		info.LowBytes, err = p.r.u32()
		return info, err

	case TagClass:
		info := &ClassInfo{}
		info.NameIndex, err = p.r.u16()
		return info, err

	case TagString:
		info := &StringInfo{}
		info.StringIndex, err = p.r.u16()
		return info, err

	case TagFieldref:
		info := &FieldrefInfo{}
		if info.ClassIndex, err = p.r.u16(); err != nil {
			return nil, err
		}
		info.NameAndTypeIndex, err = p.r.u16()
		return info, err

	case TagMethodref:
		info := &MethodrefInfo{}
		if info.ClassIndex, err = p.r.u16(); err != nil {
			return nil, err
		}
		info.NameAndTypeIndex, err = p.r.u16()
		return info, err

	case TagInterfaceMethodref:
		info := &InterfaceMethodrefInfo{}
		if info.ClassIndex, err = p.r.u16(); err != nil {
			return nil, err
		}
		info.NameAndTypeIndex, err = p.r.u16()
		return info, err

	case TagNameAndType:
		info := &NameAndTypeInfo{}
		if info.NameIndex, err = p.r.u16(); err != nil {
			return nil, err
		}
		info.DescriptorIndex, err = p.r.u16()
		return info, err

	case TagMethodHandle:
		info := &MethodHandleInfo{}
		if info.ReferenceKind, err = p.r.u8(); err != nil {
			return nil, err
		}
		info.ReferenceIndex, err = p.r.u16()
		return info, err

	case TagMethodType:
		info := &MethodTypeInfo{}
		info.DescriptorIndex, err = p.r.u16()
		return info, err

	case TagInvokeDynamic:
		info := &InvokeDynamicInfo{}
		if info.BootstrapMethodAttrIndex, err = p.r.u16(); err != nil {
			return nil, err
		}
		info.NameAndTypeIndex, err = p.r.u16()
		return info, err
	}

	return nil, fmt.Errorf("%w: %d at offset 0x%x", ErrUnknownTag, tag, p.r.pos()-1)
}

func (p *Parser) parseFieldsOrMethods(cp *ConstantPool, what string) ([]FieldMethodInfo, error) {
	count, err := p.r.u16()
	if err != nil {
		return nil, fmt.Errorf("reading %ss count: %w", what, err)
	}

	infos := make([]FieldMethodInfo, 0, count)
	for i := 0; i < int(count); i++ {
		info, err := p.parseFieldMethodInfo(cp)
		if err != nil {
			return nil, fmt.Errorf("parsing %s %d: %w", what, i, err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (p *Parser) parseFieldMethodInfo(cp *ConstantPool) (FieldMethodInfo, error) {
	var info FieldMethodInfo
	var err error

	if info.AccessFlags, err = p.r.u16(); err != nil {
		return info, fmt.Errorf("reading access flags: %w", err)
	}
	if info.NameIndex, err = p.r.u16(); err != nil {
		return info, fmt.Errorf("reading name index: %w", err)
	}
	if info.DescriptorIndex, err = p.r.u16(); err != nil {
		return info, fmt.Errorf("reading descriptor index: %w", err)
	}

	attributesCount, err := p.r.u16()
	if err != nil {
		return info, fmt.Errorf("reading attributes count: %w", err)
	}
	info.Attributes = make([]Attribute, 0, attributesCount)
	for i := 0; i < int(attributesCount); i++ {
		attr, err := p.parseAttribute(cp)
		if err != nil {
			return info, fmt.Errorf("parsing attribute %d: %w", i, err)
		}
		info.Attributes = append(info.Attributes, attr)
	}
	return info, nil
}

func (p *Parser) parseAttribute(cp *ConstantPool) (Attribute, error) {
	nameIndex, err := p.r.u16()
	if err != nil {
		return nil, fmt.Errorf("reading attribute name index: %w", err)
	}
	length, err := p.r.u32()
	if err != nil {
		return nil, fmt.Errorf("reading attribute length: %w", err)
	}

	name, err := cp.LookupString(nameIndex)
	if err != nil {
		return nil, fmt.Errorf("resolving attribute name at index %d: %w", nameIndex, err)
	}

	var attr Attribute
	switch name {
	case AttrConstantValue:
		a := &ConstantValueAttribute{NameIndex: nameIndex}
		if a.Index, err = p.r.u16(); err != nil {
			return nil, fmt.Errorf("parsing ConstantValue: %w", err)
		}
		attr = a

	case AttrSourceFile:
		a := &SourceFileAttribute{NameIndex: nameIndex}
		if a.SourceFileIndex, err = p.r.u16(); err != nil {
			return nil, fmt.Errorf("parsing SourceFile: %w", err)
		}
		attr = a

	case AttrCode:
		a, err := p.parseCodeAttribute(cp, nameIndex)
		if err != nil {
			return nil, err
		}
		attr = a

	default:
		p.warnings = append(p.warnings,
			fmt.Sprintf("unrecognized attribute %q, keeping %d bytes raw", name, length))
		bytes, err := p.r.bytes(int(length))
		if err != nil {
			return nil, fmt.Errorf("reading raw attribute %q: %w", name, err)
		}
		return &RawAttribute{NameIndex: nameIndex, Bytes: bytes}, nil
	}

	if computed := attr.Length(); computed != length {
		return nil, fmt.Errorf("attribute %q declares %d body bytes but parsed %d: %w",
			name, length, computed, ErrLengthMismatch)
	}
	return attr, nil
}

func (p *Parser) parseCodeAttribute(cp *ConstantPool, nameIndex uint16) (*CodeAttribute, error) {
	a := &CodeAttribute{NameIndex: nameIndex}

	var err error
	if a.MaxStack, err = p.r.u16(); err != nil {
		return nil, fmt.Errorf("parsing Code max_stack: %w", err)
	}
	if a.MaxLocals, err = p.r.u16(); err != nil {
		return nil, fmt.Errorf("parsing Code max_locals: %w", err)
	}
	codeLength, err := p.r.u32()
	if err != nil {
		return nil, fmt.Errorf("parsing Code code_length: %w", err)
	}

	var parsed uint32
	for parsed < codeLength {
		before := p.r.pos()
		in, err := p.parseInstruction()
		if err != nil {
			return nil, fmt.Errorf("parsing instruction at code offset %d: %w", parsed, err)
		}
		a.Code = append(a.Code, in)
		parsed += uint32(p.r.pos() - before)
	}
	if parsed != codeLength {
		return nil, fmt.Errorf("code_length declares %d bytes but instructions span %d: %w",
			codeLength, parsed, ErrLengthMismatch)
	}

	exceptionTableLength, err := p.r.u16()
	if err != nil {
		return nil, fmt.Errorf("parsing exception table length: %w", err)
	}
	a.ExceptionTable = make([]ExceptionHandler, exceptionTableLength)
	for i := range a.ExceptionTable {
		h := &a.ExceptionTable[i]
		if h.StartPC, err = p.r.u16(); err != nil {
			return nil, fmt.Errorf("parsing exception handler %d: %w", i, err)
		}
		if h.EndPC, err = p.r.u16(); err != nil {
			return nil, fmt.Errorf("parsing exception handler %d: %w", i, err)
		}
		if h.HandlerPC, err = p.r.u16(); err != nil {
			return nil, fmt.Errorf("parsing exception handler %d: %w", i, err)
		}
		if h.CatchType, err = p.r.u16(); err != nil {
			return nil, fmt.Errorf("parsing exception handler %d: %w", i, err)
		}
	}

	attributesCount, err := p.r.u16()
	if err != nil {
		return nil, fmt.Errorf("parsing Code attributes count: %w", err)
	}
	a.Attributes = make([]Attribute, 0, attributesCount)
	for i := 0; i < int(attributesCount); i++ {
		attr, err := p.parseAttribute(cp)
		if err != nil {
			return nil, fmt.Errorf("parsing Code attribute %d: %w", i, err)
		}
		a.Attributes = append(a.Attributes, attr)
	}

	return a, nil
}

func (p *Parser) parseInstruction() (Instruction, error) {
	op, err := p.r.u8()
	if err != nil {
		return Instruction{}, fmt.Errorf("reading opcode: %w", err)
	}

	in, err := NewInstruction(Opcode(op))
	if err != nil {
		return Instruction{}, err
	}
	if in.IsComplex() {
		return Instruction{}, fmt.Errorf("%w: complex instruction %q", ErrNotImplemented, in.Mnemonic())
	}

	for i, t := range in.Op.OperandTypes() {
		var v int32
		switch t {
		case U8:
			u, err := p.r.u8()
			if err != nil {
				return Instruction{}, fmt.Errorf("%s operand %d: %w", in.Mnemonic(), i, err)
			}
			v = int32(u)
		case U16:
			u, err := p.r.u16()
			if err != nil {
				return Instruction{}, fmt.Errorf("%s operand %d: %w", in.Mnemonic(), i, err)
			}
			v = int32(u)
		case S8:
			s, err := p.r.s8()
			if err != nil {
				return Instruction{}, fmt.Errorf("%s operand %d: %w", in.Mnemonic(), i, err)
			}
			v = int32(s)
		case S16:
			s, err := p.r.s16()
			if err != nil {
				return Instruction{}, fmt.Errorf("%s operand %d: %w", in.Mnemonic(), i, err)
			}
			v = int32(s)
		case S32:
			if v, err = p.r.s32(); err != nil {
				return Instruction{}, fmt.Errorf("%s operand %d: %w", in.Mnemonic(), i, err)
			}
		}
		if err := in.SetOperand(i, v); err != nil {
			return Instruction{}, err
		}
	}

	return in, nil
}
