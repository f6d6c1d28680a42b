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

// Package javac shells out to the JDK compiler to produce real class files
// for integration tests.
package javac

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Available reports whether a javac binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("javac")
	return err == nil
}

// Compile compiles one Java source defining the named class and returns the
// bytes of the resulting class file.
func Compile(className, source string) ([]byte, error) {
	tmpdir, err := os.MkdirTemp("", "javac")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpdir)

	javaPath := filepath.Join(tmpdir, className+".java")
	if err := os.WriteFile(javaPath, []byte(source), 0644); err != nil {
		return nil, err
	}

	cmd := exec.Command("javac", "-d", tmpdir, javaPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("javac failed: %v\n%s", err, stderr.String())
	}

	return os.ReadFile(filepath.Join(tmpdir, className+".class"))
}
