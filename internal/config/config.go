// Package config loads docmeta settings from .docmeta.yaml, .env and the
// process environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/eykd/docmeta-go/internal/domain"
	"github.com/eykd/docmeta-go/internal/fs"
)

// FileName is the config file looked up in the root when no path is given.
const FileName = ".docmeta.yaml"

// DotEnvFile is the optional dotenv file read from the root.
const DotEnvFile = ".env"

// Environment variables that override file settings.
const (
	EnvDocsDir     = "DOCMETA_DOCS_DIR"
	EnvIncludeRoot = "DOCMETA_INCLUDE_ROOT"
	EnvStrict      = "DOCMETA_STRICT"
	EnvJobs        = "DOCMETA_JOBS"
)

// MaxJobs is the largest accepted jobs setting.
const MaxJobs = 64

// MaxHeaderLines is the largest accepted header_lines setting.
const MaxHeaderLines = 1000

// Config holds every docmeta setting.
type Config struct {
	// DocsDir is the documentation subdirectory, relative to the root.
	DocsDir string `yaml:"docs_dir" json:"docs_dir"`
	// IncludeRoot also validates Markdown files directly under the root.
	IncludeRoot bool `yaml:"include_root" json:"include_root"`
	// Strict counts warnings as failures.
	Strict bool `yaml:"strict" json:"strict"`
	// Exclude lists doublestar patterns of root-relative paths to skip.
	Exclude []string `yaml:"exclude" json:"exclude"`
	// Jobs is the number of documents validated concurrently.
	Jobs int `yaml:"jobs" json:"jobs"`
	// HeaderLines is how many leading lines are searched for the header.
	HeaderLines int `yaml:"header_lines" json:"header_lines"`
	// StrictDecode reports invalid UTF-8 as unreadable instead of replacing it.
	StrictDecode bool `yaml:"strict_decode" json:"strict_decode"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DocsDir:     "docs",
		Jobs:        1,
		HeaderLines: domain.DefaultHeaderLines,
	}
}

// Error reports a configuration problem. It maps to exit code 2.
type Error struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Source == "" {
		return "invalid configuration: " + e.Err.Error()
	}
	return "invalid configuration in " + e.Source + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for configuration errors (always 2).
func (e *Error) ExitCode() int {
	return 2
}

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// Load builds the configuration for root: defaults, then the config file,
// then the environment. Real environment variables win over values from
// root/.env. An empty file means root/.docmeta.yaml, which may be absent.
func Load(root, file string) (Config, error) {
	dotenv, err := readDotEnv(filepath.Join(root, DotEnvFile))
	if err != nil {
		return Config{}, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	return LoadWithEnv(root, file, lookup)
}

// LoadWithEnv is Load with an explicit environment and no .env handling.
func LoadWithEnv(root, file string, lookup LookupFunc) (Config, error) {
	cfg := Default()

	optional := file == ""
	if optional {
		file = filepath.Join(root, FileName)
	}
	if err := cfg.mergeFile(file, optional); err != nil {
		return Config{}, err
	}
	if err := cfg.mergeEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeFile overlays settings from a YAML file. Unknown keys are rejected.
func (c *Config) mergeFile(file string, optional bool) error {
	data, err := os.ReadFile(file)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return &Error{Source: file, Err: err}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return &Error{Source: file, Err: err}
	}
	return nil
}

// mergeEnv overlays settings from environment variables.
func (c *Config) mergeEnv(lookup LookupFunc) error {
	if lookup == nil {
		return nil
	}
	if v, ok := lookup(EnvDocsDir); ok && v != "" {
		c.DocsDir = v
	}
	if err := envBool(lookup, EnvIncludeRoot, &c.IncludeRoot); err != nil {
		return err
	}
	if err := envBool(lookup, EnvStrict, &c.Strict); err != nil {
		return err
	}
	if v, ok := lookup(EnvJobs); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return &Error{Source: EnvJobs, Err: fmt.Errorf("not an integer: %q", v)}
		}
		c.Jobs = n
	}
	return nil
}

func envBool(lookup LookupFunc, key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return &Error{Source: key, Err: fmt.Errorf("not a boolean: %q", v)}
	}
	*dst = b
	return nil
}

// readDotEnv parses an optional dotenv file without touching the process
// environment.
func readDotEnv(file string) (map[string]string, error) {
	if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	env, err := godotenv.Read(file)
	if err != nil {
		return nil, &Error{Source: file, Err: err}
	}
	return env, nil
}

// Validate checks settings that would otherwise fail later or silently.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.DocsDir, validation.Required, validation.By(relativeDir)),
		validation.Field(&c.Jobs, validation.Required, validation.Min(1), validation.Max(MaxJobs)),
		validation.Field(&c.HeaderLines, validation.Required, validation.Min(1), validation.Max(MaxHeaderLines)),
		validation.Field(&c.Exclude, validation.Each(validation.By(globPattern))),
	)
	if err != nil {
		return &Error{Err: err}
	}
	return nil
}

// relativeDir rejects absolute paths and paths escaping the root.
func relativeDir(value any) error {
	s, _ := value.(string)
	slashed := filepath.ToSlash(s)
	if filepath.IsAbs(s) || strings.HasPrefix(slashed, "/") {
		return validation.NewError("docmeta.config.docs_dir_absolute", "must be relative to the root")
	}
	clean := path.Clean(slashed)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return validation.NewError("docmeta.config.docs_dir_outside", "must stay inside the root")
	}
	return nil
}

func globPattern(value any) error {
	s, _ := value.(string)
	if err := fs.ValidatePattern(s); err != nil {
		return validation.NewError("docmeta.config.exclude_pattern", err.Error())
	}
	return nil
}
