package fileutil

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const (
	// FileSource specifies to load config from a file
	FileSource = "file://"
	// EnvSource specifies to load config from an environment variable
	EnvSource = "env://"
)

// LoadConfigWithSchema returns a configuration value.
// If the value is prefixed with file:// schema, then the value is
// loaded from the file, if with env:// schema, then from the
// environment variable. Otherwise the value is returned as is.
func LoadConfigWithSchema(config string) (string, error) {
	if strings.HasPrefix(config, FileSource) {
		fn := strings.TrimPrefix(config, FileSource)
		f, err := afero.ReadFile(Vfs, fn)
		if err != nil {
			return config, errors.WithStack(err)
		}
		// file content
		config = string(f)
	} else if strings.HasPrefix(config, EnvSource) {
		env := strings.TrimPrefix(config, EnvSource)
		// ENV content
		config = os.Getenv(env)
		if config == "" {
			return "", errors.Errorf("Environment variable %q is not set", env)
		}
	}

	return config, nil
}

// SaveConfigWithSchema saves a configuration value to the destination
// described by the file:// or env:// schema.
func SaveConfigWithSchema(path, value string) error {
	if strings.HasPrefix(path, FileSource) {
		fn := strings.TrimPrefix(path, FileSource)
		err := afero.WriteFile(Vfs, fn, []byte(value), os.ModePerm)
		if err != nil {
			return errors.WithStack(err)
		}
	} else if strings.HasPrefix(path, EnvSource) {
		env := strings.TrimPrefix(path, EnvSource)
		err := os.Setenv(env, value)
		if err != nil {
			return errors.WithStack(err)
		}
	} else {
		return errors.Errorf("unsupported schema: %s", path)
	}
	return nil
}
