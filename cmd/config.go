package cmd

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/spigell/resume-screener/internal/resume"
)

// getConfig decodes viper settings into Config. Integers given as strings go
// through resume.ParseThreshold, so "abc" or "-1" mean "not set", and comma
// separated strings are accepted for lists.
func getConfig() (*Config, error) {
	return decodeConfig(viper.AllSettings())
}

func decodeConfig(settings map[string]any) (*Config, error) {
	config := &Config{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			thresholdHook,
			listHook,
		),
		WeaklyTypedInput: true,
		Result:           config,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if config.Filters.ExcludeFile == "" {
		config.Filters.ExcludeFile = strings.TrimSpace(config.ExcludeFile)
	}

	return config, nil
}

func thresholdHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.String || t.Kind() != reflect.Int {
		return data, nil
	}
	return resume.ParseThreshold(data.(string)), nil
}

func listHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.String || t != reflect.TypeOf([]string{}) {
		return data, nil
	}
	return resume.SplitList(data.(string)), nil
}
