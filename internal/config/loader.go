package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// sections are the nested key groups. FLIGHT_SHUTTLE_BATCH_SIZE maps to
// shuttle.batch_size.
var sections = []string{"shuttle", "sqlite", "log"}

// flagKeys maps flag names that do not follow the key naming.
var flagKeys = map[string]string{
	"token": "shuttle.token",
}

// LoadOptions selects the configuration sources.
type LoadOptions struct {
	// File is a YAML config file. Empty skips the file layer.
	File string
	// EnvFiles are dotenv files. When nil, DefaultEnvFile is read if it exists.
	EnvFiles []string
	// Flags are command-line flags; only changed flags are applied.
	Flags *pflag.FlagSet
}

// Load reads and validates the configuration.
// Precedence (highest to lowest): flags > env vars > .env files > config file > defaults
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", opts.File, err)
		}
	}

	dotenv, err := readEnvFiles(opts.EnvFiles)
	if err != nil {
		return nil, err
	}

	if len(dotenv) > 0 {
		if err := k.Load(confmap.Provider(dotenv, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load env files: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}

			return flagKey(f.Name), posflag.FlagVal(opts.Flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// readEnvFiles returns the FLIGHT_* entries of the dotenv files as config keys.
func readEnvFiles(files []string) (map[string]any, error) {
	if files == nil {
		if _, err := os.Stat(DefaultEnvFile); err != nil {
			return nil, nil
		}

		files = []string{DefaultEnvFile}
	}

	if len(files) == 0 {
		return nil, nil
	}

	vars, err := godotenv.Read(files...)
	if err != nil {
		return nil, fmt.Errorf(`cannot read env files "%s": %w`, strings.Join(files, ", "), err)
	}

	out := make(map[string]any, len(vars))

	for name, value := range vars {
		if !strings.HasPrefix(name, EnvPrefix) {
			continue
		}

		out[envKey(name)] = value
	}

	return out, nil
}

// envKey turns FLIGHT_SHUTTLE_BATCH_SIZE into shuttle.batch_size.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))

	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}

	return key
}

// flagKey turns --shuttle-batch-size into shuttle.batch_size.
func flagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}

	return envKey(EnvPrefix + strings.ReplaceAll(name, "-", "_"))
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		// Use config keys in error messages
		return strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
	})

	var errs []error

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("failed to validate config: %w", err)
		}

		for _, e := range verrs {
			errs = append(errs, fmt.Errorf(
				"key=\"%s\", value=\"%v\", failed \"%s\" validation",
				strings.TrimPrefix(e.Namespace(), "Config."),
				e.Value(),
				e.ActualTag(),
			))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	return nil
}

// CheckSink reports settings the selected sink needs but does not have.
func (c *Config) CheckSink() error {
	if c.Sink != SinkShuttle {
		return nil
	}

	var errs []error

	if c.Shuttle.Token == "" {
		errs = append(errs, errors.New(`key="shuttle.token" is required by the shuttle sink`))
	}

	if c.ShuttleURL() == "" {
		errs = append(errs, errors.New(`key="shuttle.url" is required by the shuttle sink`))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	return nil
}
