//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// TestMain compiles bannerloop once for every scenario in the package.
func TestMain(m *testing.M) {
	os.Exit(runWithBinary(m))
}

func runWithBinary(m *testing.M) int {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "e2e: getwd: %v\n", err)
		return 1
	}
	binPath = filepath.Join(dir, "bannerloop_e2e")
	defer os.Remove(binPath)

	build := exec.Command("go", "build", "-o", binPath, ".")
	build.Dir = filepath.Dir(dir)
	if out, err := build.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "e2e: build bannerloop: %v\n%s", err, out)
		return 1
	}

	return m.Run()
}
