//go:build !js

/*
Tessera renders a handful of procedural meshes and lets you poke at them:
change the icosphere tessellation, the surface color and the active shader
while the scene is running.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/tessera/engine"
	"github.com/spaghettifunk/tessera/engine/config"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/platform"
	"github.com/spaghettifunk/tessera/testbed"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML or YAML configuration file")
	shaderDir := flag.String("shaders", "", "directory whose shaders override the embedded ones and are reloaded on change")
	logLevel := flag.String("log-level", "", "debug, info, warn, error or fatal")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			core.LogFatal("could not load configuration: %s", err)
		}
		cfg = loaded
	}
	if *shaderDir != "" {
		cfg.Assets.ShaderDir = *shaderDir
		cfg.Assets.Watch = true
	}
	if *logLevel != "" {
		cfg.Log.Level = core.LogLevel(*logLevel)
	}
	if err := cfg.Validate(); err != nil {
		core.LogFatal("invalid configuration: %s", err)
	}
	core.SetLogLevel(cfg.Log.Level)

	tg := testbed.NewTestGame(cfg)

	e, err := engine.New(tg.Game, platform.New())
	if err != nil {
		core.LogFatal("%s", err)
	}

	if err := e.Initialize(); err != nil {
		core.LogError("initialization failed: %s", err)
		_ = e.Shutdown()
		os.Exit(1)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	go func() {
		<-sigCh
		e.Stop()
	}()

	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
