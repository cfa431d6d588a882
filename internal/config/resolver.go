// Package config resolves dashboard settings from built-in defaults, a YAML
// file, SEISMIC_* environment variables and CLI flags, in that order of
// increasing precedence. Every value remembers where it came from.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

// ResolveOptions carries the CLI flag values. Empty means "not given".
type ResolveOptions struct {
	ConfigPath   string
	CLIData      string
	CLIPlates    string
	CLIMap       string
	CLIDBPath    string
	CLILogDir    string
	CLIStartYear string
}

type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	Data         ResolvedValue `json:"data"`
	Plates       ResolvedValue `json:"plates"`
	Map          ResolvedValue `json:"map"`
	DBPath       ResolvedValue `json:"db_path"`
	LogDir       ResolvedValue `json:"log_dir"`
	StartYear    ResolvedValue `json:"start_year"`
	FetchTimeout ResolvedValue `json:"fetch_timeout"`
	FetchRPS     ResolvedValue `json:"fetch_rps"`
}

type fileConfig struct {
	Data         string `yaml:"data"`
	Plates       string `yaml:"plates"`
	Map          string `yaml:"map"`
	DBPath       string `yaml:"db_path"`
	LogDir       string `yaml:"log_dir"`
	StartYear    string `yaml:"start_year"`
	FetchTimeout string `yaml:"fetch_timeout"`
	FetchRPS     string `yaml:"fetch_rps"`
}

func seismicHome() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".seismic")
}

func DefaultConfigPath() string {
	return filepath.Join(seismicHome(), "config.yaml")
}

func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{ConfigPath: path}
	def := func(dst *ResolvedValue, v string) {
		*dst = ResolvedValue{Value: v, Source: SourceDefault, From: "built-in default"}
	}
	def(&out.DBPath, filepath.Join(seismicHome(), "cache.db"))
	def(&out.LogDir, filepath.Join(seismicHome(), "logs"))
	def(&out.StartYear, strconv.Itoa(DefaultStartYear))
	def(&out.FetchTimeout, DefaultFetchTimeout.String())
	def(&out.FetchRPS, strconv.FormatFloat(DefaultFetchRPS, 'f', -1, 64))

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}
	if cfg != nil {
		apply(&out.Data, cfg.Data, SourceConfig, path)
		apply(&out.Plates, cfg.Plates, SourceConfig, path)
		apply(&out.Map, cfg.Map, SourceConfig, path)
		apply(&out.DBPath, cfg.DBPath, SourceConfig, path)
		apply(&out.LogDir, cfg.LogDir, SourceConfig, path)
		apply(&out.StartYear, cfg.StartYear, SourceConfig, path)
		apply(&out.FetchTimeout, cfg.FetchTimeout, SourceConfig, path)
		apply(&out.FetchRPS, cfg.FetchRPS, SourceConfig, path)
	}

	applyEnv(&out.Data, "SEISMIC_DATA")
	applyEnv(&out.Plates, "SEISMIC_PLATES")
	applyEnv(&out.Map, "SEISMIC_MAP")
	applyEnv(&out.DBPath, "SEISMIC_DB")
	applyEnv(&out.LogDir, "SEISMIC_LOG_DIR")
	applyEnv(&out.StartYear, "SEISMIC_START_YEAR")

	apply(&out.Data, opts.CLIData, SourceCLI, "--data")
	apply(&out.Plates, opts.CLIPlates, SourceCLI, "--plates")
	apply(&out.Map, opts.CLIMap, SourceCLI, "--map")
	apply(&out.DBPath, opts.CLIDBPath, SourceCLI, "--db")
	apply(&out.LogDir, opts.CLILogDir, SourceCLI, "--log-dir")
	apply(&out.StartYear, opts.CLIStartYear, SourceCLI, "--start-year")

	for _, v := range []*ResolvedValue{&out.Data, &out.Plates, &out.Map, &out.DBPath, &out.LogDir} {
		if v.Value != "" {
			v.Value = expandUserPath(v.Value)
		}
	}
	return out, nil
}

// Fields lists every resolved value with its key, for `seismic config`-style output.
func (r ResolvedConfig) Fields() []struct {
	Key   string
	Value ResolvedValue
} {
	type field = struct {
		Key   string
		Value ResolvedValue
	}
	return []field{
		{"data", r.Data},
		{"plates", r.Plates},
		{"map", r.Map},
		{"db_path", r.DBPath},
		{"log_dir", r.LogDir},
		{"start_year", r.StartYear},
		{"fetch_timeout", r.FetchTimeout},
		{"fetch_rps", r.FetchRPS},
	}
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
