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

import "errors"

var (
	// ErrShortRead reports that the byte source returned fewer bytes than
	// the format requires at the current position.
	ErrShortRead = errors.New("unexpected end of class file")

	// ErrUnknownTag reports a constant pool tag byte outside the set
	// enumerated by the JVM specification.
	ErrUnknownTag = errors.New("unknown constant pool tag")

	// ErrUnknownOpcode reports an opcode byte or mnemonic that is not in
	// the instruction catalog.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrNotImplemented reports a construct the codec can recognize but
	// not decode: tableswitch, lookupswitch and wide instructions.
	ErrNotImplemented = errors.New("not implemented")

	// ErrOutOfBounds reports a constant pool access at index 0 or past the
	// end of the pool.
	ErrOutOfBounds = errors.New("constant pool index out of bounds")

	// ErrNullSlot reports an access to the reserved slot that follows a
	// Long or Double entry.
	ErrNullSlot = errors.New("constant pool slot is a long/double filler")

	// ErrTypeMismatch reports a typed pool access that found an entry of a
	// different kind.
	ErrTypeMismatch = errors.New("constant pool entry has unexpected type")

	// ErrUnresolvableName reports a name lookup whose reference chain does
	// not terminate at a UTF8 entry.
	ErrUnresolvableName = errors.New("constant does not resolve to a name")

	// ErrUnresolvableDescriptor is the descriptor-edge analog of
	// ErrUnresolvableName.
	ErrUnresolvableDescriptor = errors.New("constant does not resolve to a descriptor")

	// ErrCyclicReference reports a pool reference chain that revisits an
	// index.
	ErrCyclicReference = errors.New("cyclic constant pool reference")

	// ErrLengthMismatch reports a declared attribute or code length that
	// disagrees with the parsed or recomputed byte count.
	ErrLengthMismatch = errors.New("declared length does not match content")
)
