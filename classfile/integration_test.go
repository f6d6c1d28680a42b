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
	"bytes"
	"testing"

	"github.com/Terr07/JBKit/internal/javac"
)

// The source stays free of branches, switches and string concatenation so
// the compiled bytecode contains no stack map frames and no complex
// instructions.
const roundTripSource = `public class RoundTrip {
    private static final long SEED = 42L;
    private int total;

    public static int add(int a, int b) {
        return a + b;
    }

    public int bump(int by) {
        total = total + by;
        return total;
    }
}
`

func TestCompiledClassRoundTrip(t *testing.T) {
	if !javac.Available() {
		t.Skip("javac not installed")
	}

	compiled, err := javac.Compile("RoundTrip", roundTripSource)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	parser := NewParser(bytes.NewReader(compiled))
	cf, err := parser.Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := parser.BytesRead(); got != int64(len(compiled)) {
		t.Errorf("BytesRead() = %d, want %d", got, len(compiled))
	}

	name, err := cf.ClassName()
	if err != nil || name != "RoundTrip" {
		t.Errorf("ClassName() = %q, %v", name, err)
	}

	var out bytes.Buffer
	if err := NewSerializer(&out).Serialize(cf); err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if !bytes.Equal(out.Bytes(), compiled) {
		t.Errorf("round trip of javac output is not byte-exact (%d in, %d out)",
			len(compiled), out.Len())
	}
}
