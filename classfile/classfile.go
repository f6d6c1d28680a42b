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

// Package classfile is a round-trippable codec for Java class files: a
// parser from the big-endian binary format into a typed model, and a
// serializer back to bytes. Parsing then serializing an accepted input
// reproduces it byte for byte.
package classfile

// Magic is the value of the first four bytes of every class file.
const Magic uint32 = 0xCAFEBABE

// Class access and property flags.
const (
	AccPublic     uint16 = 0x0001
	AccPrivate    uint16 = 0x0002
	AccProtected  uint16 = 0x0004
	AccStatic     uint16 = 0x0008
	AccFinal      uint16 = 0x0010
	AccSuper      uint16 = 0x0020 // ACC_SYNCHRONIZED on methods
	AccVolatile   uint16 = 0x0040 // ACC_BRIDGE on methods
	AccTransient  uint16 = 0x0080 // ACC_VARARGS on methods
	AccNative     uint16 = 0x0100
	AccInterface  uint16 = 0x0200
	AccAbstract   uint16 = 0x0400
	AccStrict     uint16 = 0x0800
	AccSynthetic  uint16 = 0x1000
	AccAnnotation uint16 = 0x2000
	AccEnum       uint16 = 0x4000
)

// FieldMethodInfo is the common shape of field_info and method_info
// records.
type FieldMethodInfo struct {
	AccessFlags     uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

// ClassFile is the top-level model of one parsed class file.
type ClassFile struct {
	Magic        uint32
	MinorVersion uint16
	MajorVersion uint16
	ConstPool    ConstantPool
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []FieldMethodInfo
	Methods      []FieldMethodInfo
	Attributes   []Attribute
}

// ClassName resolves the name of this class through the constant pool.
func (cf *ClassFile) ClassName() (string, error) {
	return cf.ConstPool.LookupString(cf.ThisClass)
}

// SuperName resolves the name of the superclass. For java/lang/Object the
// super_class index is 0 and ("", nil) is returned.
func (cf *ClassFile) SuperName() (string, error) {
	if cf.SuperClass == 0 {
		return "", nil
	}
	return cf.ConstPool.LookupString(cf.SuperClass)
}

// SourceFile resolves the SourceFile attribute if the class carries one.
// The second result reports whether it was present.
func (cf *ClassFile) SourceFile() (string, bool) {
	for _, attr := range cf.Attributes {
		if sf, ok := attr.(*SourceFileAttribute); ok {
			name, err := cf.ConstPool.LookupString(sf.SourceFileIndex)
			if err != nil {
				return "", false
			}
			return name, true
		}
	}
	return "", false
}

var classFlagNames = []struct {
	flag uint16
	name string
}{
	{AccPublic, "PUBLIC"},
	{AccFinal, "FINAL"},
	{AccSuper, "SUPER"},
	{AccInterface, "INTERFACE"},
	{AccAbstract, "ABSTRACT"},
	{AccSynthetic, "SYNTHETIC"},
	{AccAnnotation, "ANNOTATION"},
	{AccEnum, "ENUM"},
}

var methodFlagNames = []struct {
	flag uint16
	name string
}{
	{AccPublic, "PUBLIC"},
	{AccPrivate, "PRIVATE"},
	{AccProtected, "PROTECTED"},
	{AccStatic, "STATIC"},
	{AccFinal, "FINAL"},
	{AccSuper, "SYNCHRONIZED"},
	{AccVolatile, "BRIDGE"},
	{AccTransient, "VARARGS"},
	{AccNative, "NATIVE"},
	{AccAbstract, "ABSTRACT"},
	{AccStrict, "STRICT"},
	{AccSynthetic, "SYNTHETIC"},
}

// ClassFlagNames expands a class access_flags word into flag names.
func ClassFlagNames(flags uint16) []string {
	var names []string
	for _, f := range classFlagNames {
		if flags&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	return names
}

// MethodFlagNames expands a field or method access_flags word into flag
// names.
func MethodFlagNames(flags uint16) []string {
	var names []string
	for _, f := range methodFlagNames {
		if flags&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	return names
}
