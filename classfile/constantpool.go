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

import "fmt"

// ConstTag is the tag byte that discriminates constant pool entries.
// Values are the ones assigned by chapter 4 of the JVM specification.
type ConstTag uint8

const (
	TagUTF8               ConstTag = 1
	TagInteger            ConstTag = 3
	TagFloat              ConstTag = 4
	TagLong               ConstTag = 5
	TagDouble             ConstTag = 6
	TagClass              ConstTag = 7
	TagString             ConstTag = 8
	TagFieldref           ConstTag = 9
	TagMethodref          ConstTag = 10
	TagInterfaceMethodref ConstTag = 11
	TagNameAndType        ConstTag = 12
	TagMethodHandle       ConstTag = 15
	TagMethodType         ConstTag = 16
	TagInvokeDynamic      ConstTag = 18
)

func (t ConstTag) String() string {
	switch t {
	case TagUTF8:
		return "UTF8"
	case TagInteger:
		return "Integer"
	case TagFloat:
		return "Float"
	case TagLong:
		return "Long"
	case TagDouble:
		return "Double"
	case TagClass:
		return "Class"
	case TagString:
		return "String"
	case TagFieldref:
		return "Fieldref"
	case TagMethodref:
		return "Methodref"
	case TagInterfaceMethodref:
		return "InterfaceMethodref"
	case TagNameAndType:
		return "NameAndType"
	case TagMethodHandle:
		return "MethodHandle"
	case TagMethodType:
		return "MethodType"
	case TagInvokeDynamic:
		return "InvokeDynamic"
	}
	return fmt.Sprintf("ConstTag(%d)", uint8(t))
}

// ConstInfo is one constant pool entry. Concrete entry types are the
// *Info structs below, discriminated by Tag.
type ConstInfo interface {
	Tag() ConstTag
}

// UTF8Info holds a length-prefixed byte string. The bytes are modified
// UTF-8 on the wire; they are carried opaquely in a Go string.
type UTF8Info struct {
	String string
}

// IntegerInfo holds the raw big-endian bytes of an int constant.
type IntegerInfo struct {
	Bytes uint32
}

// FloatInfo holds the raw IEEE-754 bits of a float constant.
type FloatInfo struct {
	Bytes uint32
}

// LongInfo occupies two pool slots; the slot after it is a filler.
type LongInfo struct {
	HighBytes uint32
	LowBytes  uint32
}

// DoubleInfo occupies two pool slots; the slot after it is a filler.
type DoubleInfo struct {
	HighBytes uint32
	LowBytes  uint32
}

type ClassInfo struct {
	NameIndex uint16
}

type StringInfo struct {
	StringIndex uint16
}

type FieldrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

type MethodrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

type InterfaceMethodrefInfo struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

type NameAndTypeInfo struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

type MethodHandleInfo struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}

type MethodTypeInfo struct {
	DescriptorIndex uint16
}

type InvokeDynamicInfo struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (*UTF8Info) Tag() ConstTag               { return TagUTF8 }
func (*IntegerInfo) Tag() ConstTag            { return TagInteger }
func (*FloatInfo) Tag() ConstTag              { return TagFloat }
func (*LongInfo) Tag() ConstTag               { return TagLong }
func (*DoubleInfo) Tag() ConstTag             { return TagDouble }
func (*ClassInfo) Tag() ConstTag              { return TagClass }
func (*StringInfo) Tag() ConstTag             { return TagString }
func (*FieldrefInfo) Tag() ConstTag           { return TagFieldref }
func (*MethodrefInfo) Tag() ConstTag          { return TagMethodref }
func (*InterfaceMethodrefInfo) Tag() ConstTag { return TagInterfaceMethodref }
func (*NameAndTypeInfo) Tag() ConstTag        { return TagNameAndType }
func (*MethodHandleInfo) Tag() ConstTag       { return TagMethodHandle }
func (*MethodTypeInfo) Tag() ConstTag         { return TagMethodType }
func (*InvokeDynamicInfo) Tag() ConstTag      { return TagInvokeDynamic }

// Long returns the 64-bit value assembled from the two halves.
func (l *LongInfo) Long() int64 {
	return int64(uint64(l.HighBytes)<<32 | uint64(l.LowBytes))
}

// Bits returns the raw 64-bit pattern assembled from the two halves.
func (d *DoubleInfo) Bits() uint64 {
	return uint64(d.HighBytes)<<32 | uint64(d.LowBytes)
}

// ConstantPool is the class file's 1-indexed table of constants. Index 0 is
// reserved and unusable; the slot after every Long or Double entry is a nil
// filler that is likewise unaddressable through the accessors.
type ConstantPool struct {
	entries []ConstInfo
}

// Reserve grows the pool's capacity ahead of n Add calls.
func (cp *ConstantPool) Reserve(n int) {
	if cap(cp.entries) < n {
		grown := make([]ConstInfo, len(cp.entries), n)
		copy(grown, cp.entries)
		cp.entries = grown
	}
}

// Add appends an entry, returning its 1-based index. Long and Double
// entries consume the following slot as well; Add inserts the filler.
func (cp *ConstantPool) Add(info ConstInfo) uint16 {
	cp.entries = append(cp.entries, info)
	index := uint16(len(cp.entries))
	switch info.(type) {
	case *LongInfo, *DoubleInfo:
		cp.entries = append(cp.entries, nil)
	}
	return index
}

// Size returns the number of occupied slots, fillers included.
func (cp *ConstantPool) Size() uint16 {
	return uint16(len(cp.entries))
}

// Count returns the on-wire constant_pool_count, which is Size()+1.
func (cp *ConstantPool) Count() uint16 {
	return cp.Size() + 1
}

// Get returns the entry at the 1-based index, or nil if the index is 0,
// out of bounds, or addresses a long/double filler slot.
func (cp *ConstantPool) Get(index uint16) ConstInfo {
	if index == 0 || int(index) > len(cp.entries) {
		return nil
	}
	return cp.entries[index-1]
}

func (cp *ConstantPool) at(index uint16) (ConstInfo, error) {
	if index == 0 || int(index) > len(cp.entries) {
		return nil, fmt.Errorf("%w: index %d, valid range 1-%d",
			ErrOutOfBounds, index, cp.Size())
	}
	info := cp.entries[index-1]
	if info == nil {
		return nil, fmt.Errorf("%w: index %d", ErrNullSlot, index)
	}
	return info, nil
}

// getAs returns the entry at index downcast to the concrete type T.
func getAs[T ConstInfo](cp *ConstantPool, index uint16) (T, error) {
	var zero T
	info, err := cp.at(index)
	if err != nil {
		return zero, err
	}
	typed, ok := info.(T)
	if !ok {
		return zero, fmt.Errorf("%w: wanted %T at index %d, found %s",
			ErrTypeMismatch, zero, index, info.Tag())
	}
	return typed, nil
}

func (cp *ConstantPool) GetUTF8(index uint16) (*UTF8Info, error) {
	return getAs[*UTF8Info](cp, index)
}

func (cp *ConstantPool) GetClass(index uint16) (*ClassInfo, error) {
	return getAs[*ClassInfo](cp, index)
}

func (cp *ConstantPool) GetNameAndType(index uint16) (*NameAndTypeInfo, error) {
	return getAs[*NameAndTypeInfo](cp, index)
}

func (cp *ConstantPool) GetMethodref(index uint16) (*MethodrefInfo, error) {
	return getAs[*MethodrefInfo](cp, index)
}

func (cp *ConstantPool) GetFieldref(index uint16) (*FieldrefInfo, error) {
	return getAs[*FieldrefInfo](cp, index)
}

// LookupString resolves index to the text of a UTF8 entry, following name
// edges through String, Class, NameAndType and the ref entries. The visited
// set bounds the walk on adversarial pools that contain reference cycles.
func (cp *ConstantPool) LookupString(index uint16) (string, error) {
	return cp.lookupString(index, make(map[uint16]bool))
}

func (cp *ConstantPool) lookupString(index uint16, visited map[uint16]bool) (string, error) {
	if visited[index] {
		return "", fmt.Errorf("%w: revisited index %d", ErrCyclicReference, index)
	}
	visited[index] = true

	info, err := cp.at(index)
	if err != nil {
		return "", err
	}

	switch c := info.(type) {
	case *UTF8Info:
		return c.String, nil
	case *StringInfo:
		return cp.lookupString(c.StringIndex, visited)
	case *ClassInfo:
		return cp.lookupString(c.NameIndex, visited)
	case *NameAndTypeInfo:
		return cp.lookupString(c.NameIndex, visited)
	case *FieldrefInfo:
		return cp.lookupString(c.NameAndTypeIndex, visited)
	case *MethodrefInfo:
		return cp.lookupString(c.NameAndTypeIndex, visited)
	case *InterfaceMethodrefInfo:
		return cp.lookupString(c.NameAndTypeIndex, visited)
	case *InvokeDynamicInfo:
		return cp.lookupString(c.NameAndTypeIndex, visited)
	}
	return "", fmt.Errorf("%w: %s entry at index %d has no name edge",
		ErrUnresolvableName, info.Tag(), index)
}

// LookupDescriptor is the descriptor-edge analog of LookupString.
func (cp *ConstantPool) LookupDescriptor(index uint16) (string, error) {
	return cp.lookupDescriptor(index, make(map[uint16]bool))
}

func (cp *ConstantPool) lookupDescriptor(index uint16, visited map[uint16]bool) (string, error) {
	if visited[index] {
		return "", fmt.Errorf("%w: revisited index %d", ErrCyclicReference, index)
	}
	visited[index] = true

	info, err := cp.at(index)
	if err != nil {
		return "", err
	}

	switch c := info.(type) {
	case *UTF8Info:
		return c.String, nil
	case *NameAndTypeInfo:
		return cp.lookupDescriptor(c.DescriptorIndex, visited)
	case *MethodTypeInfo:
		return cp.lookupDescriptor(c.DescriptorIndex, visited)
	case *FieldrefInfo:
		return cp.lookupDescriptor(c.NameAndTypeIndex, visited)
	case *MethodrefInfo:
		return cp.lookupDescriptor(c.NameAndTypeIndex, visited)
	case *InterfaceMethodrefInfo:
		return cp.lookupDescriptor(c.NameAndTypeIndex, visited)
	case *InvokeDynamicInfo:
		return cp.lookupDescriptor(c.NameAndTypeIndex, visited)
	}
	return "", fmt.Errorf("%w: %s entry at index %d has no descriptor edge",
		ErrUnresolvableDescriptor, info.Tag(), index)
}
