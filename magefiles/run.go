//go:build mage

package main

import (
	"fmt"
	"net/http"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the desktop demo with shader hot reload from engine/assets/shaders.
func (Run) Desktop() error {
	fmt.Println("Run tessera...")
	if _, err := executeCmd("go", withArgs("run", ".", "-shaders", "engine/assets/shaders", "-log-level", "debug"), withStream()); err != nil {
		return err
	}
	return nil
}

// Serves web/ on :8080 after building the wasm module.
func (Run) Web() error {
	mg.Deps(Build.Wasm)
	fmt.Println("Serving http://localhost:8080 ...")
	return http.ListenAndServe(":8080", http.FileServer(http.Dir(webDir)))
}
