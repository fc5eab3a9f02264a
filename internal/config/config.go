package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
	ErrNilPointer    = errors.New("nil pointer provided to config loader")
)

// App is the process configuration read from EMAILBUILDER_* variables.
type App struct {
	DataDir          string `env:"DATA_DIR"`
	StoreDriver      string `env:"STORE_DRIVER" envDefault:"sqlite"`
	StoreDSN         string `env:"STORE_DSN"`
	StoreDatabase    string `env:"STORE_DATABASE" envDefault:"emailbuilder"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"text"`
	ExportDir        string `env:"EXPORT_DIR" envDefault:"./out"`
	MinifyHTML       bool   `env:"MINIFY_HTML" envDefault:"false"`
	AutosaveSchedule string `env:"AUTOSAVE_SCHEDULE" envDefault:"@every 30s"`
	PreviewAddr      string `env:"PREVIEW_ADDR" envDefault:"127.0.0.1:7878"`
}

// EnvPrefix namespaces every variable App reads.
const EnvPrefix = "EMAILBUILDER_"

// ResolveDataDir fills DataDir with ~/.emailbuilder when unset, falling
// back to a relative .emailbuilder if the home directory is unknown.
func (a *App) ResolveDataDir() {
	if a.DataDir != "" {
		return
	}
	home, err := os.UserHomeDir()
	if err != nil {
		a.DataDir = ".emailbuilder"
		return
	}
	a.DataDir = filepath.Join(home, ".emailbuilder")
}

// DBPath is the SQLite file inside DataDir.
func (a App) DBPath() string {
	return filepath.Join(a.DataDir, "emailbuilder.db")
}

// ─────────────────────────────────────────────────────────────
// Loader
// ─────────────────────────────────────────────────────────────

type configCache struct {
	mu     sync.Mutex
	values map[string]any
}

var (
	cache = &configCache{values: make(map[string]any)}

	dotenvLoaded sync.Once
)

// Load parses environment variables into v, using EnvPrefix for every tag.
// A .env file in the working directory is applied once, if present. Each
// config type is parsed once and served from cache afterwards.
func Load[T any](v *T) error {
	dotenvLoaded.Do(func() {
		// a missing .env is fine
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	name := typeName[T]()
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if cached, ok := cache.values[name]; ok {
		*v = cached.(T)
		return nil
	}
	if err := env.ParseWithOptions(v, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	cache.values[name] = *v
	return nil
}

// MustLoad works like Load but panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("load configuration: %v", err))
	}
}

// ResetCache forgets every parsed config. Tests use it between cases.
func ResetCache() {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.values = make(map[string]any)
}

func typeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return t.PkgPath() + "." + t.String()
}
