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

// maxOperands is the operand storage capacity. The widest signature in the
// catalog (invokeinterface and invokedynamic) takes three.
const maxOperands = 4

// Instruction is one encoded bytecode instruction: an opcode plus operand
// storage. Operands are stored sign-extended in int32 slots regardless of
// their declared width; the width queried from the catalog governs how they
// are read from and written to the wire.
type Instruction struct {
	Op       Opcode
	operands [maxOperands]int32
}

// NewInstruction returns an instruction value for the given opcode with all
// operands zeroed. The opcode must be in the catalog.
func NewInstruction(op Opcode) (Instruction, error) {
	if !op.IsValid() {
		return Instruction{}, fmt.Errorf("%w: 0x%02x", ErrUnknownOpcode, uint8(op))
	}
	return Instruction{Op: op}, nil
}

// Mnemonic returns the assembly name of the instruction.
func (in Instruction) Mnemonic() string {
	return in.Op.Mnemonic()
}

// NOperands returns the number of declared operands.
func (in Instruction) NOperands() int {
	return len(in.Op.OperandTypes())
}

// OperandType returns the declared width of operand i.
func (in Instruction) OperandType(i int) (OperandType, error) {
	types := in.Op.OperandTypes()
	if i < 0 || i >= len(types) {
		return 0, fmt.Errorf("%s: operand index %d out of range (have %d): %w",
			in.Mnemonic(), i, len(types), ErrOutOfBounds)
	}
	return types[i], nil
}

// Operand returns operand i sign-extended to 32 bits.
func (in Instruction) Operand(i int) (int32, error) {
	if _, err := in.OperandType(i); err != nil {
		return 0, err
	}
	return in.operands[i], nil
}

// SetOperand stores v as operand i, truncated to the operand's declared
// width. Overflow is the caller's responsibility.
func (in *Instruction) SetOperand(i int, v int32) error {
	t, err := in.OperandType(i)
	if err != nil {
		return err
	}
	switch t {
	case U8:
		v = int32(uint8(v))
	case U16:
		v = int32(uint16(v))
	case S8:
		v = int32(int8(v))
	case S16:
		v = int32(int16(v))
	}
	in.operands[i] = v
	return nil
}

// Length returns the encoded length in bytes, opcode included.
func (in Instruction) Length() uint32 {
	return in.Op.Length()
}

// IsComplex reports whether the instruction has a variable-length encoding.
func (in Instruction) IsComplex() bool {
	return in.Op.IsComplex()
}

func (in Instruction) String() string {
	s := in.Mnemonic()
	for i := 0; i < in.NOperands(); i++ {
		s += fmt.Sprintf(" %d", in.operands[i])
	}
	return s
}
