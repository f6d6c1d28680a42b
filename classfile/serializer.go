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

// Serializer writes a ClassFile model back into the binary format. Output
// byte order is fully determined by the model: serializing the result of a
// successful parse reproduces the input bytes.
type Serializer struct {
	w *bigEndianWriter
}

func NewSerializer(w io.Writer) *Serializer {
	return &Serializer{w: newBigEndianWriter(w)}
}

// BytesWritten returns the number of output bytes produced so far.
func (s *Serializer) BytesWritten() int64 {
	return s.w.written
}

// Serialize writes one complete class file.
func (s *Serializer) Serialize(cf *ClassFile) error {
	if err := s.w.u32(cf.Magic); err != nil {
		return fmt.Errorf("writing magic: %w", err)
	}
	if err := s.w.u16(cf.MinorVersion); err != nil {
		return fmt.Errorf("writing minor version: %w", err)
	}
	if err := s.w.u16(cf.MajorVersion); err != nil {
		return fmt.Errorf("writing major version: %w", err)
	}

	if err := s.serializeConstantPool(&cf.ConstPool); err != nil {
		return err
	}

	if err := s.w.u16(cf.AccessFlags); err != nil {
		return fmt.Errorf("writing access flags: %w", err)
	}
	if err := s.w.u16(cf.ThisClass); err != nil {
		return fmt.Errorf("writing this_class: %w", err)
	}
	if err := s.w.u16(cf.SuperClass); err != nil {
		return fmt.Errorf("writing super_class: %w", err)
	}

	if err := s.w.u16(uint16(len(cf.Interfaces))); err != nil {
		return fmt.Errorf("writing interfaces count: %w", err)
	}
	for i, iface := range cf.Interfaces {
		if err := s.w.u16(iface); err != nil {
			return fmt.Errorf("writing interface %d: %w", i, err)
		}
	}

	if err := s.serializeFieldsOrMethods(cf.Fields, "field"); err != nil {
		return err
	}
	if err := s.serializeFieldsOrMethods(cf.Methods, "method"); err != nil {
		return err
	}

	if err := s.w.u16(uint16(len(cf.Attributes))); err != nil {
		return fmt.Errorf("writing class attributes count: %w", err)
	}
	for i, attr := range cf.Attributes {
		if err := s.serializeAttribute(attr); err != nil {
			return fmt.Errorf("writing class attribute %d: %w", i, err)
		}
	}

	return nil
}

func (s *Serializer) serializeConstantPool(cp *ConstantPool) error {
	if err := s.w.u16(cp.Count()); err != nil {
		return fmt.Errorf("writing constant pool count: %w", err)
	}

	// Filler slots after Long/Double entries are counted but emit no bytes.
	for i := uint16(1); i <= cp.Size(); i++ {
		info := cp.Get(i)
		if info == nil {
			continue
		}
		if err := s.serializeConstant(info); err != nil {
			return fmt.Errorf("writing constant %d: %w", i, err)
		}
	}
	return nil
}

func (s *Serializer) serializeConstant(info ConstInfo) error {
	if err := s.w.u8(uint8(info.Tag())); err != nil {
		return err
	}

	switch c := info.(type) {
	case *UTF8Info:
		if err := s.w.u16(uint16(len(c.String))); err != nil {
			return err
		}
		return s.w.bytes([]byte(c.String))
	case *IntegerInfo:
		return s.w.u32(c.Bytes)
	case *FloatInfo:
		return s.w.u32(c.Bytes)
	case *LongInfo:
		if err := s.w.u32(c.HighBytes); err != nil {
			return err
		}
		return s.w.u32(c.LowBytes)
	case *DoubleInfo:
		if err := s.w.u32(c.HighBytes); err != nil {
			return err
		}
		return s.w.u32(c.LowBytes)
	case *ClassInfo:
		return s.w.u16(c.NameIndex)
	case *StringInfo:
		return s.w.u16(c.StringIndex)
	case *FieldrefInfo:
		if err := s.w.u16(c.ClassIndex); err != nil {
			return err
		}
		return s.w.u16(c.NameAndTypeIndex)
	case *MethodrefInfo:
		if err := s.w.u16(c.ClassIndex); err != nil {
			return err
		}
		return s.w.u16(c.NameAndTypeIndex)
	case *InterfaceMethodrefInfo:
		if err := s.w.u16(c.ClassIndex); err != nil {
			return err
		}
		return s.w.u16(c.NameAndTypeIndex)
	case *NameAndTypeInfo:
		if err := s.w.u16(c.NameIndex); err != nil {
			return err
		}
		return s.w.u16(c.DescriptorIndex)
	case *MethodHandleInfo:
		if err := s.w.u8(c.ReferenceKind); err != nil {
			return err
		}
		return s.w.u16(c.ReferenceIndex)
	case *MethodTypeInfo:
		return s.w.u16(c.DescriptorIndex)
	case *InvokeDynamicInfo:
		if err := s.w.u16(c.BootstrapMethodAttrIndex); err != nil {
			return err
		}
		return s.w.u16(c.NameAndTypeIndex)
	}

	return fmt.Errorf("%w: cannot serialize %T", ErrUnknownTag, info)
}

func (s *Serializer) serializeFieldsOrMethods(infos []FieldMethodInfo, what string) error {
	if err := s.w.u16(uint16(len(infos))); err != nil {
		return fmt.Errorf("writing %ss count: %w", what, err)
	}
	for i, info := range infos {
		if err := s.serializeFieldMethod(info); err != nil {
			return fmt.Errorf("writing %s %d: %w", what, i, err)
		}
	}
	return nil
}

func (s *Serializer) serializeFieldMethod(info FieldMethodInfo) error {
	if err := s.w.u16(info.AccessFlags); err != nil {
		return err
	}
	if err := s.w.u16(info.NameIndex); err != nil {
		return err
	}
	if err := s.w.u16(info.DescriptorIndex); err != nil {
		return err
	}
	if err := s.w.u16(uint16(len(info.Attributes))); err != nil {
		return err
	}
	for i, attr := range info.Attributes {
		if err := s.serializeAttribute(attr); err != nil {
			return fmt.Errorf("writing attribute %d: %w", i, err)
		}
	}
	return nil
}

func (s *Serializer) serializeAttribute(attr Attribute) error {
	if err := s.w.u16(attr.AttrNameIndex()); err != nil {
		return err
	}
	if err := s.w.u32(attr.Length()); err != nil {
		return err
	}

	switch a := attr.(type) {
	case *ConstantValueAttribute:
		return s.w.u16(a.Index)

	case *SourceFileAttribute:
		return s.w.u16(a.SourceFileIndex)

	case *CodeAttribute:
		return s.serializeCodeAttribute(a)

	case *RawAttribute:
		return s.w.bytes(a.Bytes)
	}

	return fmt.Errorf("%w: cannot serialize attribute %T", ErrNotImplemented, attr)
}

func (s *Serializer) serializeCodeAttribute(a *CodeAttribute) error {
	if err := s.w.u16(a.MaxStack); err != nil {
		return err
	}
	if err := s.w.u16(a.MaxLocals); err != nil {
		return err
	}
	if err := s.w.u32(a.CodeLength()); err != nil {
		return err
	}

	for i, in := range a.Code {
		if err := s.serializeInstruction(in); err != nil {
			return fmt.Errorf("writing instruction %d: %w", i, err)
		}
	}

	if err := s.w.u16(uint16(len(a.ExceptionTable))); err != nil {
		return err
	}
	for _, h := range a.ExceptionTable {
		if err := s.w.u16(h.StartPC); err != nil {
			return err
		}
		if err := s.w.u16(h.EndPC); err != nil {
			return err
		}
		if err := s.w.u16(h.HandlerPC); err != nil {
			return err
		}
		if err := s.w.u16(h.CatchType); err != nil {
			return err
		}
	}

	if err := s.w.u16(uint16(len(a.Attributes))); err != nil {
		return err
	}
	for i, nested := range a.Attributes {
		if err := s.serializeAttribute(nested); err != nil {
			return fmt.Errorf("writing nested attribute %d: %w", i, err)
		}
	}
	return nil
}

func (s *Serializer) serializeInstruction(in Instruction) error {
	if in.IsComplex() {
		return fmt.Errorf("%w: complex instruction %q", ErrNotImplemented, in.Mnemonic())
	}
	if !in.Op.IsValid() {
		return fmt.Errorf("%w: 0x%02x", ErrUnknownOpcode, uint8(in.Op))
	}

	if err := s.w.u8(uint8(in.Op)); err != nil {
		return err
	}

	for i, t := range in.Op.OperandTypes() {
		v, err := in.Operand(i)
		if err != nil {
			return err
		}
		switch t {
		case U8:
			err = s.w.u8(uint8(v))
		case U16:
			err = s.w.u16(uint16(v))
		case S8:
			err = s.w.s8(int8(v))
		case S16:
			err = s.w.s16(int16(v))
		case S32:
			err = s.w.s32(v)
		}
		if err != nil {
			return fmt.Errorf("%s operand %d: %w", in.Mnemonic(), i, err)
		}
	}
	return nil
}
