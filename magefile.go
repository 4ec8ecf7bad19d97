//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "readaloud"

var Default = Build

// Build compiles the readaloud binary
func Build() error {
	mg.Deps(Vet)
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/readaloud")
}

// Install installs readaloud into GOPATH/bin
func Install() error {
	return sh.RunV("go", "install", "./cmd/readaloud")
}

// Test runs the unit tests; integration tests run when OPENAI_API_KEY is set
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Lint runs golangci-lint when it is installed
func Lint() error {
	if _, err := sh.Output("golangci-lint", "version"); err != nil {
		fmt.Println("golangci-lint not installed, skipping")
		return nil
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Serve builds and runs the HTTP API on :8000
func Serve() error {
	mg.Deps(Build)
	return sh.RunV("./"+binary, "serve")
}

// Clean removes build artifacts
func Clean() error {
	fmt.Println("Cleaning...")
	return os.RemoveAll(binary)
}
