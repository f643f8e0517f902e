package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/tessera/engine/assets/loaders"
	"github.com/spaghettifunk/tessera/engine/core"
)

// ManifestFile is the name of the shader variant manifest.
const ManifestFile = "shaders.toml"

//go:embed shaders
var embedded embed.FS

type ResourceType uint8

const (
	ResourceTypeNone ResourceType = iota
	ResourceTypeShader
	ResourceTypeShaderManifest
)

// AssetManager resolves shader files against an optional override
// directory on disk and falls back to the copies compiled into the binary.
// With Watch it reports changed override files for hot reload.
type AssetManager struct {
	overrideDir string
	builtin     fs.FS
	loaders     map[ResourceType]Loader

	mutex    sync.Mutex
	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	changes  chan string
}

// NewAssetManager creates a manager reading from overrideDir first. An
// empty overrideDir uses the embedded assets only.
func NewAssetManager(overrideDir string) *AssetManager {
	builtin, _ := fs.Sub(embedded, "shaders")
	am := &AssetManager{
		overrideDir: overrideDir,
		builtin:     builtin,
		loaders:     make(map[ResourceType]Loader),
		changes:     make(chan string, 64),
		done:        make(chan struct{}),
	}
	am.registerLoader(ResourceTypeShader, &loaders.ShaderLoader{})
	return am
}

func (am *AssetManager) OverrideDir() string {
	return am.overrideDir
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// ReadFile returns the raw bytes of name and where they came from.
func (am *AssetManager) ReadFile(name string) ([]byte, string, error) {
	if am.overrideDir != "" {
		path := filepath.Join(am.overrideDir, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("asset %s: %w", path, err)
		}
	}
	data, err := fs.ReadFile(am.builtin, name)
	if err != nil {
		return nil, "", fmt.Errorf("%w: asset %s not found", core.ErrInvalidParameter, name)
	}
	return data, "embedded:" + name, nil
}

// ReadShader loads one GLSL stage without a #version line.
func (am *AssetManager) ReadShader(name string) (string, error) {
	data, origin, err := am.ReadFile(name)
	if err != nil {
		return "", err
	}
	loader, ok := am.loaders[ResourceTypeShader]
	if !ok {
		return "", fmt.Errorf("no loader registered for asset type: %d", ResourceTypeShader)
	}
	core.LogDebug("shader %s loaded from %s", name, origin)
	return loader.Load(name, data)
}

func (am *AssetManager) LoadShaderManifest() (*loaders.ShaderManifest, error) {
	data, origin, err := am.ReadFile(ManifestFile)
	if err != nil {
		return nil, err
	}
	m, err := loaders.ParseShaderManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", origin, err)
	}
	return m, nil
}

// Watch starts reporting writes to the override directory. The watcher
// goroutine only forwards names; Drain hands them to the caller's thread.
func (am *AssetManager) Watch() error {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if am.isClosed {
		return errors.New("asset manager already closed")
	}
	if am.overrideDir == "" || am.fsnotify != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(am.overrideDir); err != nil {
		w.Close()
		return err
	}
	am.fsnotify = w
	go am.start(w)
	core.LogInfo("watching %s for shader changes", am.overrideDir)
	return nil
}

func (am *AssetManager) start(w *fsnotify.Watcher) {
	for {
		select {
		case e, ok := <-w.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if determineAssetType(e.Name) == ResourceTypeNone {
				continue
			}
			select {
			case am.changes <- filepath.Base(e.Name):
			default:
				core.LogWarn("asset change queue full, dropping %s", e.Name)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			core.LogError("%s", err)

		case <-am.done:
			return
		}
	}
}

// Drain returns the names changed since the last call, without blocking
// and without duplicates.
func (am *AssetManager) Drain() []string {
	var names []string
	seen := map[string]bool{}
	for {
		select {
		case name := <-am.changes:
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		default:
			return names
		}
	}
}

// Shutdown stops the watcher. Safe to call more than once.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if am.isClosed {
		return nil
	}
	am.isClosed = true
	close(am.done)
	if am.fsnotify != nil {
		return am.fsnotify.Close()
	}
	return nil
}

func determineAssetType(path string) ResourceType {
	switch filepath.Ext(path) {
	case ".glsl":
		return ResourceTypeShader
	case ".toml":
		return ResourceTypeShaderManifest
	default:
		return ResourceTypeNone
	}
}
