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

// Command readclass parses a class file and prints a structural summary.
//
// Usage:
//
//	readclass [--details] <file | url>
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Terr07/JBKit/classfile"
	"github.com/Terr07/JBKit/internal/cli"
)

func main() {
	details := flag.Bool("details", false, "dump constants, members and bytecode")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [--details] <file | url>\n", os.Args[0])
		os.Exit(1)
	}

	input, err := cli.ResolveInput(flag.Arg(0))
	if err != nil {
		cli.Errorf("unable to open %q: %v", flag.Arg(0), err)
		os.Exit(2)
	}
	defer input.Close()

	parser := classfile.NewParser(input)
	before := time.Now()
	cf, err := parser.Parse()
	elapsed := time.Since(before)
	if err != nil {
		cli.Errorf("parsing failed: %v", err)
		os.Exit(3)
	}
	for _, warning := range parser.Warnings() {
		cli.Warnf("%s", warning)
	}

	fmt.Printf("Parsed %d bytes in %s\n", parser.BytesRead(), elapsed)
	printSummary(cf, *details)
}

func printSummary(cf *classfile.ClassFile, details bool) {
	fmt.Printf("Magic: 0x%08X\n", cf.Magic)
	fmt.Printf("Version: %d.%d\n", cf.MajorVersion, cf.MinorVersion)
	fmt.Printf("Access: %s\n", strings.Join(classfile.ClassFlagNames(cf.AccessFlags), " "))

	if name, err := cf.ClassName(); err == nil {
		fmt.Printf("This class: %s\n", name)
	}
	if super, err := cf.SuperName(); err == nil && super != "" {
		fmt.Printf("Super class: %s\n", super)
	}

	fmt.Printf("Const pool entries: %d\n", cf.ConstPool.Size())
	fmt.Printf("Interfaces: %d, Fields: %d, Methods: %d, Attributes: %d\n",
		len(cf.Interfaces), len(cf.Fields), len(cf.Methods), len(cf.Attributes))

	if !details {
		return
	}

	fmt.Println()
	printConstPool(&cf.ConstPool)
	fmt.Println()
	printMembers(cf, "Field", cf.Fields)
	fmt.Println()
	printMembers(cf, "Method", cf.Methods)
}

func printConstPool(cp *classfile.ConstantPool) {
	for i := uint16(1); i <= cp.Size(); i++ {
		info := cp.Get(i)
		if info == nil {
			continue
		}
		fmt.Printf("ConstPool[%d] = %s", i, info.Tag())
		if name, err := cp.LookupString(i); err == nil {
			fmt.Printf(" %s", name)
		}
		if descriptor, err := cp.LookupDescriptor(i); err == nil {
			fmt.Printf(" %s", descriptor)
		}
		fmt.Println()
	}
}

func printMembers(cf *classfile.ClassFile, kind string, members []classfile.FieldMethodInfo) {
	for _, member := range members {
		name, _ := cf.ConstPool.LookupString(member.NameIndex)
		descriptor, _ := cf.ConstPool.LookupString(member.DescriptorIndex)
		flags := strings.Join(classfile.MethodFlagNames(member.AccessFlags), " ")
		fmt.Printf("%s %s %s [%s]\n", kind, name, descriptor, flags)

		for _, attr := range member.Attributes {
			code, ok := attr.(*classfile.CodeAttribute)
			if !ok {
				continue
			}
			fmt.Printf("  Code: stack=%d locals=%d handlers=%d\n",
				code.MaxStack, code.MaxLocals, len(code.ExceptionTable))
			for _, in := range code.Code {
				printInstruction(in)
			}
		}
	}
}

func printInstruction(in classfile.Instruction) {
	fmt.Printf("    %s (0x%02X)", in.Mnemonic(), uint8(in.Op))
	if in.NOperands() == 0 {
		fmt.Println()
		return
	}
	fmt.Print(": Operands[")
	for i := 0; i < in.NOperands(); i++ {
		operandType, _ := in.OperandType(i)
		operand, _ := in.Operand(i)
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Printf("%s{%d}", operandType, operand)
	}
	fmt.Println("]")
}
