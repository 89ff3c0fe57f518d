package applogging

import (
	"strings"

	"github.com/Station-Manager/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment variables read by LoadConfig, e.g.
// APPLOG_LEVEL=debug or APPLOG_CATEGORIES_net=false.
const EnvPrefix = "APPLOG_"

const envCategoriesKey = "categories_"

// Config is the declarative form of the facade's settings.
type Config struct {
	// Level is the minimum severity compiled into the filter rules.
	Level string `koanf:"level" validate:"required,oneof=trace debug info warn warning error critical fatal off"`
	// Output is none, system, file or system|file.
	Output string `koanf:"output" validate:"required"`
	// FileDir defaults to <exe-dir>/log/<yyyy_MM>.
	FileDir string `koanf:"file_dir"`
	// FileName replaces "<appname>(<pid>).txt" in generated file names.
	FileName         string `koanf:"file_name" validate:"omitempty,max=255"`
	MaxFileSizeBytes uint32 `koanf:"max_file_size_bytes"`
	// Rolling keeps a stable file name and rotates it with lumberjack.
	Rolling bool `koanf:"rolling"`
	// SkipFrameCount adds frames to skip when resolving call sites, for
	// callers that wrap category loggers.
	SkipFrameCount int `koanf:"skip_frame_count" validate:"gte=0"`
	// Categories enables or disables registered categories by name.
	Categories map[string]bool `koanf:"categories"`
}

// DefaultConfig mirrors a freshly constructed facade plus Info-level
// filtering.
func DefaultConfig() Config {
	return Config{
		Level:            InfoLevel.String(),
		Output:           DestSystem.String(),
		MaxFileSizeBytes: DefaultMaxFileSizeBytes,
	}
}

// LoadConfig layers DefaultConfig, the YAML file at path (skipped when
// path is empty) and APPLOG_* environment variables, then validates the
// result.
func LoadConfig(path string) (*Config, error) {
	const op errors.Op = "applogging.LoadConfig"

	k := koanf.New(".")
	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, errors.New(op).Err(err).Msg(errMsgConfigLoad)
	}
	if path != emptyString {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.New(op).Err(err).Msg(errMsgConfigLoad)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.New(op).Err(err).Msg(errMsgConfigLoad)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.New(op).Err(err).Msg(errMsgConfigLoad)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps APPLOG_FILE_DIR to file_dir. Category names keep their
// case: APPLOG_CATEGORIES_netTrace maps to categories.netTrace.
func envKey(s string) string {
	key := strings.TrimPrefix(s, EnvPrefix)
	if len(key) > len(envCategoriesKey) && strings.EqualFold(key[:len(envCategoriesKey)], envCategoriesKey) {
		return "categories." + key[len(envCategoriesKey):]
	}
	return strings.ToLower(key)
}
