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

// Command classinfo dumps a class file keyed by constant kind, and can
// emit the Jasmin disassembly.
//
// Usage:
//
//	classinfo [--details] [--jasmin] <file | url>
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Terr07/JBKit/classfile"
	"github.com/Terr07/JBKit/internal/cli"
	"github.com/Terr07/JBKit/jasmin"
)

func main() {
	details := flag.Bool("details", false, "dump every constant pool entry")
	emitJasmin := flag.Bool("jasmin", false, "print the Jasmin disassembly instead of a dump")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [--details] [--jasmin] <file | url>\n", os.Args[0])
		os.Exit(1)
	}

	input, err := cli.ResolveInput(flag.Arg(0))
	if err != nil {
		cli.Errorf("unable to open %q: %v", flag.Arg(0), err)
		os.Exit(2)
	}
	defer input.Close()

	parser := classfile.NewParser(input)
	cf, err := parser.Parse()
	if err != nil {
		cli.Errorf("parsing failed: %v", err)
		os.Exit(3)
	}
	for _, warning := range parser.Warnings() {
		cli.Warnf("%s", warning)
	}

	if *emitJasmin {
		config := jasmin.DefaultDisassemblerConfig()
		if err := jasmin.Disassemble(cf, os.Stdout, config); err != nil {
			cli.Errorf("disassembly failed: %v", err)
			os.Exit(4)
		}
		return
	}

	printInfo(cf, *details)
}

func printInfo(cf *classfile.ClassFile, details bool) {
	if name, err := cf.ClassName(); err == nil {
		fmt.Printf("Class: %s\n", name)
	}
	fmt.Printf("Version: %d.%d\n", cf.MajorVersion, cf.MinorVersion)
	fmt.Printf("Flags: %s\n", strings.Join(classfile.ClassFlagNames(cf.AccessFlags), " "))
	if source, ok := cf.SourceFile(); ok {
		fmt.Printf("Source: %s\n", source)
	}
	fmt.Printf("Constants: %d\n", cf.ConstPool.Size())

	if !details {
		return
	}

	cp := &cf.ConstPool
	for i := uint16(1); i <= cp.Size(); i++ {
		info := cp.Get(i)
		if info == nil {
			continue
		}
		printConstInfo(cp, i, info)
	}
}

func printConstInfo(cp *classfile.ConstantPool, i uint16, info classfile.ConstInfo) {
	fmt.Printf("ConstPool[%d] = %s", i, info.Tag())

	switch c := info.(type) {
	case *classfile.UTF8Info:
		fmt.Printf(": %q", c.String)
	case *classfile.ClassInfo:
		if name, err := cp.LookupString(c.NameIndex); err == nil {
			fmt.Printf(": %q", name)
		}
	case *classfile.StringInfo:
		if value, err := cp.LookupString(c.StringIndex); err == nil {
			fmt.Printf(": %q", value)
		}
	case *classfile.NameAndTypeInfo:
		name, nameErr := cp.LookupString(c.NameIndex)
		descriptor, descErr := cp.LookupString(c.DescriptorIndex)
		if nameErr == nil && descErr == nil {
			fmt.Printf(": %q %s", name, descriptor)
		}
	case *classfile.IntegerInfo:
		fmt.Printf(": %d", int32(c.Bytes))
	case *classfile.LongInfo:
		fmt.Printf(": %d", c.Long())
	case *classfile.FieldrefInfo:
		if class, err := cp.LookupString(c.ClassIndex); err == nil {
			fmt.Printf(": %d (%s)", c.ClassIndex, class)
		}
	case *classfile.MethodrefInfo:
		name, nameErr := cp.LookupString(i)
		descriptor, descErr := cp.LookupDescriptor(i)
		if nameErr == nil && descErr == nil {
			fmt.Printf(": %s%s", name, descriptor)
		}
	}

	fmt.Println()
}
