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

// Command dupeclass parses a class file and serializes the model back into
// dupe.class, as a round-trip check.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Terr07/JBKit/classfile"
	"github.com/Terr07/JBKit/internal/cli"
)

const outputName = "dupe.class"

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <file | url>\n", os.Args[0])
		os.Exit(1)
	}

	input, err := cli.ResolveInput(os.Args[1])
	if err != nil {
		cli.Errorf("unable to open %q: %v", os.Args[1], err)
		os.Exit(2)
	}
	defer input.Close()

	parser := classfile.NewParser(input)
	before := time.Now()
	cf, err := parser.Parse()
	parseTime := time.Since(before)
	if err != nil {
		cli.Errorf("parsing failed: %v", err)
		os.Exit(3)
	}
	fmt.Printf("Parsed %d bytes in %s\n", parser.BytesRead(), parseTime)

	output, err := os.Create(outputName)
	if err != nil {
		cli.Errorf("unable to create %s: %v", outputName, err)
		os.Exit(4)
	}
	defer output.Close()

	serializer := classfile.NewSerializer(output)
	before = time.Now()
	err = serializer.Serialize(cf)
	serializeTime := time.Since(before)
	if err != nil {
		cli.Errorf("serialization failed: %v", err)
		os.Exit(5)
	}

	fmt.Printf("Serialized %d bytes to %s in %s\n",
		serializer.BytesWritten(), outputName, serializeTime)
	fmt.Println(cli.Green("OK"))
}
