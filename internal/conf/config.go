// Package conf loads settings from defaults, config.yaml, .env files,
// TLF_* environment variables and command-line flags, in increasing order
// of precedence.
package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"timelapse-frames/internal/exiftags"
)

const envPrefix = "TLF"

// Settings holds the effective configuration.
type Settings struct {
	Debug    bool   `mapstructure:"debug" yaml:"debug"`
	Timezone string `mapstructure:"timezone" yaml:"timezone"`

	Sampler struct {
		Hour             int  `mapstructure:"hour" yaml:"hour"`
		Frame            int  `mapstructure:"frame" yaml:"frame"`
		ExclusiveLastDay bool `mapstructure:"exclusivelastday" yaml:"exclusivelastday"`
	} `mapstructure:"sampler" yaml:"sampler"`

	Features struct {
		TagSet string `mapstructure:"tagset" yaml:"tagset"`
	} `mapstructure:"features" yaml:"features"`

	Train struct {
		TestFraction float64 `mapstructure:"testfraction" yaml:"testfraction"`
		Seed         int64   `mapstructure:"seed" yaml:"seed"`
		MaxIter      int     `mapstructure:"maxiter" yaml:"maxiter"`
		L2           float64 `mapstructure:"l2" yaml:"l2"`
	} `mapstructure:"train" yaml:"train"`

	Model struct {
		Path string `mapstructure:"path" yaml:"path"`
		Dir  string `mapstructure:"dir" yaml:"dir"`
	} `mapstructure:"model" yaml:"model"`

	Output struct {
		SQLite struct {
			Path string `mapstructure:"path" yaml:"path"`
		} `mapstructure:"sqlite" yaml:"sqlite"`
	} `mapstructure:"output" yaml:"output"`
}

// Context carries the viper instance flags are bound to and the settings
// decoded from it.
type Context struct {
	Viper    *viper.Viper
	Settings *Settings

	flagKeys map[*pflag.FlagSet]map[string]string
}

// NewContext returns a context with defaults registered and environment
// lookups enabled. Settings stays empty until Load is called.
func NewContext() *Context {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Context{Viper: v, Settings: &Settings{}}
}

// Load reads .env, then the config file (configFile, or config.yaml from the
// default search paths when empty) and decodes the result into ctx.Settings.
// A missing default config file is not an error.
func (ctx *Context) Load(configFile string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env: %w", err)
	}

	v := ctx.Viper
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range configPaths() {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return fmt.Errorf("error decoding settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	*ctx.Settings = *settings
	return nil
}

func configPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "timelapse-frames"))
	}
	return paths
}

// Validate checks value ranges that decoding cannot.
func (s *Settings) Validate() error {
	if s.Sampler.Hour < 0 || s.Sampler.Hour > 23 {
		return fmt.Errorf("sampler.hour %d out of range 0-23", s.Sampler.Hour)
	}
	if s.Sampler.Frame < 0 {
		return fmt.Errorf("sampler.frame %d must not be negative", s.Sampler.Frame)
	}
	if s.Train.TestFraction <= 0 || s.Train.TestFraction >= 1 {
		return fmt.Errorf("train.testfraction %v must be between 0 and 1", s.Train.TestFraction)
	}
	if _, err := s.Location(); err != nil {
		return err
	}
	if _, err := s.TagSet(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured time zone.
func (s *Settings) Location() (*time.Location, error) {
	if s.Timezone == "" || strings.EqualFold(s.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// TagSet resolves the configured EXIF tag set.
func (s *Settings) TagSet() (exiftags.TagSet, error) {
	return exiftags.ByName(s.Features.TagSet)
}
