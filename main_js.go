//go:build js && wasm

package main

import (
	"net/url"
	"strings"
	"syscall/js"

	"github.com/spaghettifunk/tessera/engine"
	"github.com/spaghettifunk/tessera/engine/config"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/platform"
	"github.com/spaghettifunk/tessera/testbed"
)

// The browser build takes its settings from the page URL, e.g.
// index.html?log=debug&shader=Transform.
func main() {
	cfg := config.Default()
	search := strings.TrimPrefix(js.Global().Get("location").Get("search").String(), "?")
	if q, err := url.ParseQuery(search); err == nil {
		if lvl := q.Get("log"); lvl != "" {
			cfg.Log.Level = core.LogLevel(lvl)
		}
		if shader := q.Get("shader"); shader != "" {
			cfg.Controls.Shader = shader
		}
	}
	if err := cfg.Validate(); err != nil {
		core.LogError("invalid settings, using defaults: %s", err)
		cfg = config.Default()
	}
	core.SetLogLevel(cfg.Log.Level)
	// The watcher needs a local file system.
	cfg.Assets.Watch = false

	tg := testbed.NewTestGame(cfg)
	e, err := engine.New(tg.Game, platform.New())
	if err != nil {
		core.LogError("%s", err)
		return
	}
	if err := e.Initialize(); err != nil {
		core.LogError("initialization failed: %s", err)
		_ = e.Shutdown()
		return
	}
	if err := e.Run(); err != nil {
		core.LogError("%s", err)
	}
	_ = e.Shutdown()
}
