package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ginjaninja78/coordconv/internal/types"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "COORDCONV_"

// LoadDotEnv loads KEY=value pairs from the given files (".env" when none are
// given) into the process environment. Missing files are ignored and
// variables that are already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("%w: failed to load %s: %w", types.ErrConfiguration, f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with COORDCONV_* environment variables.
//
// VARIABLES:
//   COORDCONV_INPUT_PROJECTION   COORDCONV_OUTPUT_PROJECTION
//   COORDCONV_INPUT_X_COLUMN     COORDCONV_INPUT_Y_COLUMN
//   COORDCONV_INPUT_LABEL_COLUMN
//   COORDCONV_INPUT_DELIMITER    COORDCONV_OUTPUT_DELIMITER
//   COORDCONV_INPUT_ENCODING     COORDCONV_OUTPUT_ENCODING
//   COORDCONV_OUTPUT_CRLF        COORDCONV_APPEND
//   COORDCONV_LOG_LEVEL          COORDCONV_LOG_CONSOLE
func ApplyEnv(cfg *Config) error {
	setString(&cfg.Input.Projection, "INPUT_PROJECTION")
	setString(&cfg.Input.Delimiter, "INPUT_DELIMITER")
	setString(&cfg.Input.Encoding, "INPUT_ENCODING")
	setString(&cfg.Output.Projection, "OUTPUT_PROJECTION")
	setString(&cfg.Output.Delimiter, "OUTPUT_DELIMITER")
	setString(&cfg.Output.Encoding, "OUTPUT_ENCODING")
	setString(&cfg.Log.Level, "LOG_LEVEL")

	ints := []struct {
		dst *int
		key string
	}{
		{&cfg.Input.XColumn, "INPUT_X_COLUMN"},
		{&cfg.Input.YColumn, "INPUT_Y_COLUMN"},
		{&cfg.Input.LabelColumn, "INPUT_LABEL_COLUMN"},
	}
	for _, v := range ints {
		if err := setInt(v.dst, v.key); err != nil {
			return err
		}
	}

	bools := []struct {
		dst *bool
		key string
	}{
		{&cfg.Output.CRLF, "OUTPUT_CRLF"},
		{&cfg.Append, "APPEND"},
		{&cfg.Log.Console, "LOG_CONSOLE"},
	}
	for _, v := range bools {
		if err := setBool(v.dst, v.key); err != nil {
			return err
		}
	}

	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s%s=%q is not an integer", types.ErrConfiguration, EnvPrefix, key, v)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: %s%s=%q is not a boolean", types.ErrConfiguration, EnvPrefix, key, v)
	}
	*dst = b
	return nil
}
