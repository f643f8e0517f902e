//go:build mage

package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const (
	binDir  = "bin"
	webDir  = "web"
	wasmOut = "web/tessera.wasm"
)

// Builds the desktop binary into bin/.
func (Build) Desktop() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", filepath.Join(binDir, exeName("tessera")), "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Builds the WebAssembly module and copies wasm_exec.js next to it.
func (Build) Wasm() error {
	if _, err := executeCmd("go", withArgs("build", "-o", wasmOut, "."), withEnv("GOOS=js", "GOARCH=wasm"), withStream()); err != nil {
		return err
	}
	goroot, err := executeCmd("go", withArgs("env", "GOROOT"))
	if err != nil {
		return err
	}
	root := strings.TrimSpace(goroot)
	src := filepath.Join(root, "lib", "wasm", "wasm_exec.js")
	if _, err := os.Stat(src); err != nil {
		// Go < 1.24 ships it under misc/
		src = filepath.Join(root, "misc", "wasm", "wasm_exec.js")
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(webDir, "wasm_exec.js"), data, 0o644)
}

// Builds every target supported on this host.
func (Build) All() {
	mg.SerialDeps(Build.Desktop, Build.Wasm)
}

func exeName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
