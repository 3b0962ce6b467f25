//go:build mage

// Package main provides build targets for the inventory project using Mage.
//
// Usage:
//
//	mage build            Compile the inventory binary to bin/
//	mage test:all         Run all tests
//	mage test:race        Run all tests with the race detector
//	mage test:cover       Write coverage to bin/coverage.out and print a summary
//	mage demo             Build, then dump the sample manifest
//	mage lint             Run golangci-lint
//	mage vet              Run go vet
//	mage clean            Remove build artifacts
//	mage install          Install inventory to GOPATH/bin
//	mage stats            Print Go line counts per package
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "inventory"
	binaryDir  = "bin"
	cmdDir     = "./cmd/inventory"
)

// Build compiles the inventory binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", binaryPath(), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), binaryPath())
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV(binGo, "vet", "./...")
}

// Demo builds the binary, writes the sample manifest into a scratch config
// directory, and prints its dump and install history.
func Demo() error {
	mg.Deps(Build)
	dir, err := os.MkdirTemp("", "inventory-demo-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	bin, err := filepath.Abs(binaryPath())
	if err != nil {
		return err
	}
	global := []string{
		"--config-dir", filepath.Join(dir, "config"),
		"--data-dir", filepath.Join(dir, "data"),
	}
	for _, args := range [][]string{
		{"init", "--demo"},
		{"dump"},
		{"history"},
		{"ledger", "export"},
	} {
		if err := sh.RunV(bin, append(global, args...)...); err != nil {
			return err
		}
	}
	return nil
}

func binaryPath() string {
	return filepath.Join(binaryDir, binaryName)
}
