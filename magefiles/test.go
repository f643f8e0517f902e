//go:build mage

package main

import "github.com/magefile/mage/mg"

type Test mg.Namespace

// Runs the unit tests. GPU calls go through a recording context, so no
// display is needed.
func (Test) Unit() error {
	_, err := executeCmd("go", withArgs("test", "./engine/...", "./testbed/..."), withStream())
	return err
}

// Runs the unit tests with the race detector.
func (Test) Race() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./engine/...", "./testbed/..."), withStream())
	return err
}
