package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DefaultEnvironmentFileName is the dotenv file consulted in the working directory.
	DefaultEnvironmentFileName       = ".env"
	environmentFileLoadErrorTemplate = "unable to load environment file %s: %w"
)

// EnvironmentFileLoader applies dotenv files to the process environment.
type EnvironmentFileLoader func(filenames ...string) error

// EnvironmentBootstrapper seeds the process environment from dotenv files.
// Variables already present in the environment are never overwritten.
type EnvironmentBootstrapper struct {
	loader EnvironmentFileLoader
}

// NewEnvironmentBootstrapper constructs a bootstrapper backed by godotenv unless a loader is supplied.
func NewEnvironmentBootstrapper(loader EnvironmentFileLoader) *EnvironmentBootstrapper {
	if loader == nil {
		loader = godotenv.Load
	}
	return &EnvironmentBootstrapper{loader: loader}
}

// Load applies each existing dotenv file in order and returns the files that were applied.
// Missing files are skipped; malformed files are reported.
func (bootstrapper *EnvironmentBootstrapper) Load(filenames ...string) ([]string, error) {
	appliedFiles := make([]string, 0, len(filenames))
	for _, filename := range filenames {
		trimmedFilename := strings.TrimSpace(filename)
		if len(trimmedFilename) == 0 {
			continue
		}
		loadError := bootstrapper.loader(trimmedFilename)
		if loadError == nil {
			appliedFiles = append(appliedFiles, trimmedFilename)
			continue
		}
		if errors.Is(loadError, fs.ErrNotExist) {
			continue
		}
		return appliedFiles, fmt.Errorf(environmentFileLoadErrorTemplate, trimmedFilename, loadError)
	}
	return appliedFiles, nil
}
