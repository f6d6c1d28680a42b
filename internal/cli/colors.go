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

// Package cli carries the plumbing shared by the command line drivers:
// ANSI colors, terminal detection and input resolution.
package cli

import (
	"fmt"
	"os"
)

const (
	ColorRed   = "\033[31m"
	ColorGreen = "\033[32m"
	ColorReset = "\033[0m"
)

// Red wraps s in red escape codes when stderr is a terminal.
func Red(s string) string {
	if !IsTerminal(os.Stderr) {
		return s
	}
	return fmt.Sprintf("%s%s%s", ColorRed, s, ColorReset)
}

// Green wraps s in green escape codes when stdout is a terminal.
func Green(s string) string {
	if !IsTerminal(os.Stdout) {
		return s
	}
	return fmt.Sprintf("%s%s%s", ColorGreen, s, ColorReset)
}

// Errorf prints a formatted error line to stderr.
func Errorf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, Red(fmt.Sprintf("Error: "+format, args...)))
}

// Warnf prints a formatted warning line to stderr.
func Warnf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, Red(fmt.Sprintf("Warning: "+format, args...)))
}
