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
	"errors"
	"testing"
)

func TestLongOccupiesTwoSlots(t *testing.T) {
	var cp ConstantPool
	cp.Add(&UTF8Info{String: "X"})
	cp.Add(&LongInfo{HighBytes: 1, LowBytes: 2})

	if got := cp.Size(); got != 3 {
		t.Fatalf("Size() = %d, want 3", got)
	}
	if got := cp.Count(); got != 4 {
		t.Fatalf("Count() = %d, want 4", got)
	}

	if _, ok := cp.Get(1).(*UTF8Info); !ok {
		t.Errorf("Get(1) = %T, want *UTF8Info", cp.Get(1))
	}
	long, ok := cp.Get(2).(*LongInfo)
	if !ok {
		t.Fatalf("Get(2) = %T, want *LongInfo", cp.Get(2))
	}
	if got := long.Long(); got != 0x0000000100000002 {
		t.Errorf("Long() = 0x%x, want 0x0000000100000002", got)
	}
	if got := cp.Get(3); got != nil {
		t.Errorf("Get(3) = %v, want nil filler", got)
	}

	_, err := cp.GetUTF8(3)
	if !errors.Is(err, ErrNullSlot) {
		t.Errorf("GetUTF8(3) error = %v, want ErrNullSlot", err)
	}
}

func TestInvalidIndexAccess(t *testing.T) {
	var cp ConstantPool
	cp.Add(&UTF8Info{String: "only"})

	if got := cp.Get(0); got != nil {
		t.Errorf("Get(0) = %v, want nil", got)
	}
	if got := cp.Get(cp.Size() + 1); got != nil {
		t.Errorf("Get(size+1) = %v, want nil", got)
	}

	for _, index := range []uint16{0, cp.Size() + 1} {
		_, err := cp.GetUTF8(index)
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("GetUTF8(%d) error = %v, want ErrOutOfBounds", index, err)
		}
	}
}

func TestTypedAccessMismatch(t *testing.T) {
	var cp ConstantPool
	cp.Add(&ClassInfo{NameIndex: 2})
	cp.Add(&UTF8Info{String: "Thing"})

	_, err := cp.GetUTF8(1)
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetUTF8(1) error = %v, want ErrTypeMismatch", err)
	}
	if _, err := cp.GetClass(1); err != nil {
		t.Errorf("GetClass(1) error = %v, want nil", err)
	}
}

func TestNameResolutionChain(t *testing.T) {
	var cp ConstantPool
	cp.Add(&UTF8Info{String: "MyClass"})                              // 1
	cp.Add(&ClassInfo{NameIndex: 1})                                  // 2
	cp.Add(&NameAndTypeInfo{NameIndex: 1, DescriptorIndex: 4})       // 3
	cp.Add(&UTF8Info{String: "()V"})                                  // 4
	cp.Add(&MethodrefInfo{ClassIndex: 2, NameAndTypeIndex: 3})       // 5

	name, err := cp.LookupString(5)
	if err != nil {
		t.Fatalf("LookupString(5) error = %v", err)
	}
	if name != "MyClass" {
		t.Errorf("LookupString(5) = %q, want %q", name, "MyClass")
	}

	desc, err := cp.LookupDescriptor(5)
	if err != nil {
		t.Fatalf("LookupDescriptor(5) error = %v", err)
	}
	if desc != "()V" {
		t.Errorf("LookupDescriptor(5) = %q, want %q", desc, "()V")
	}
}

func TestLookupStringUnresolvable(t *testing.T) {
	var cp ConstantPool
	cp.Add(&IntegerInfo{Bytes: 42})

	_, err := cp.LookupString(1)
	if !errors.Is(err, ErrUnresolvableName) {
		t.Errorf("LookupString(1) error = %v, want ErrUnresolvableName", err)
	}
	_, err = cp.LookupDescriptor(1)
	if !errors.Is(err, ErrUnresolvableDescriptor) {
		t.Errorf("LookupDescriptor(1) error = %v, want ErrUnresolvableDescriptor", err)
	}
}

func TestCyclicReferenceRejected(t *testing.T) {
	var cp ConstantPool
	cp.Add(&ClassInfo{NameIndex: 1}) // refers to itself

	_, err := cp.LookupString(1)
	if !errors.Is(err, ErrCyclicReference) {
		t.Errorf("LookupString(1) error = %v, want ErrCyclicReference", err)
	}

	// A two-node cycle must terminate as well.
	var cp2 ConstantPool
	cp2.Add(&StringInfo{StringIndex: 2}) // 1 -> 2
	cp2.Add(&ClassInfo{NameIndex: 1})    // 2 -> 1

	_, err = cp2.LookupString(1)
	if !errors.Is(err, ErrCyclicReference) {
		t.Errorf("LookupString(1) error = %v, want ErrCyclicReference", err)
	}
}

func TestLookupDescriptorThroughMethodType(t *testing.T) {
	var cp ConstantPool
	cp.Add(&UTF8Info{String: "(I)J"})        // 1
	cp.Add(&MethodTypeInfo{DescriptorIndex: 1}) // 2

	desc, err := cp.LookupDescriptor(2)
	if err != nil {
		t.Fatalf("LookupDescriptor(2) error = %v", err)
	}
	if desc != "(I)J" {
		t.Errorf("LookupDescriptor(2) = %q, want %q", desc, "(I)J")
	}
}
