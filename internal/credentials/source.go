package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	sourceSeparatorConstant                    = ":"
	environmentSourceTypeValueConstant         = "env"
	fileSourceTypeValueConstant                = "file"
	sourceMissingErrorMessageConstant          = "credential source must be provided"
	environmentNameMissingErrorMessageConstant = "environment variable name must be provided"
	filePathMissingErrorMessageConstant        = "credential file path must be provided"
	environmentLookupNilErrorMessageConstant   = "environment lookup function not configured"
	fileReaderNilErrorMessageConstant          = "file reader function not configured"
	environmentCredentialMissingTemplate       = "environment variable %s is not set"
	fileReadErrorTemplateConstant              = "unable to read credential file %s: %w"
	fileCredentialEmptyErrorTemplateConstant   = "credential file %s is empty"
	unsupportedSourceTemplateConstant          = "unsupported credential source type %q"
)

// SourceType enumerates the supported credential retrieval mechanisms.
type SourceType string

// Credential source type enumerations.
const (
	SourceTypeEnvironment SourceType = SourceType(environmentSourceTypeValueConstant)
	SourceTypeFile        SourceType = SourceType(fileSourceTypeValueConstant)
)

// SourceConfiguration specifies where a credential is read from.
type SourceConfiguration struct {
	Type      SourceType
	Reference string
}

// Resolver retrieves credentials from configured sources.
type Resolver interface {
	Resolve(resolutionContext context.Context, source SourceConfiguration) (string, error)
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// FileReader reads the contents of a file path.
type FileReader func(path string) ([]byte, error)

// NewResolver creates a credential resolver with optional dependency overrides.
func NewResolver(environmentLookup EnvironmentLookup, fileReader FileReader) Resolver {
	resolvedEnvironmentLookup := environmentLookup
	if resolvedEnvironmentLookup == nil {
		resolvedEnvironmentLookup = os.LookupEnv
	}

	resolvedFileReader := fileReader
	if resolvedFileReader == nil {
		resolvedFileReader = os.ReadFile
	}

	return &resolver{
		environmentLookup: resolvedEnvironmentLookup,
		fileReader:        resolvedFileReader,
	}
}

// ParseSource interprets textual credential source declarations.
// A bare value without a type prefix names an environment variable.
func ParseSource(sourceValue string) (SourceConfiguration, error) {
	trimmedValue := strings.TrimSpace(sourceValue)
	if len(trimmedValue) == 0 {
		return SourceConfiguration{}, errors.New(sourceMissingErrorMessageConstant)
	}

	components := strings.SplitN(trimmedValue, sourceSeparatorConstant, 2)
	if len(components) == 1 {
		return SourceConfiguration{Type: SourceTypeEnvironment, Reference: trimmedValue}, nil
	}

	sourceType := strings.ToLower(strings.TrimSpace(components[0]))
	reference := strings.TrimSpace(components[1])

	switch sourceType {
	case environmentSourceTypeValueConstant:
		if len(reference) == 0 {
			return SourceConfiguration{}, errors.New(environmentNameMissingErrorMessageConstant)
		}
		return SourceConfiguration{Type: SourceTypeEnvironment, Reference: reference}, nil
	case fileSourceTypeValueConstant:
		if len(reference) == 0 {
			return SourceConfiguration{}, errors.New(filePathMissingErrorMessageConstant)
		}
		return SourceConfiguration{Type: SourceTypeFile, Reference: reference}, nil
	default:
		return SourceConfiguration{}, fmt.Errorf(unsupportedSourceTemplateConstant, sourceType)
	}
}

type resolver struct {
	environmentLookup EnvironmentLookup
	fileReader        FileReader
}

func (resolver *resolver) Resolve(resolutionContext context.Context, source SourceConfiguration) (string, error) {
	_ = resolutionContext
	switch source.Type {
	case SourceTypeEnvironment:
		if resolver.environmentLookup == nil {
			return "", errors.New(environmentLookupNilErrorMessageConstant)
		}
		value, found := resolver.environmentLookup(source.Reference)
		trimmedValue := strings.TrimSpace(value)
		if !found || len(trimmedValue) == 0 {
			return "", fmt.Errorf(environmentCredentialMissingTemplate, source.Reference)
		}
		return trimmedValue, nil
	case SourceTypeFile:
		if resolver.fileReader == nil {
			return "", errors.New(fileReaderNilErrorMessageConstant)
		}
		contents, readError := resolver.fileReader(source.Reference)
		if readError != nil {
			return "", fmt.Errorf(fileReadErrorTemplateConstant, source.Reference, readError)
		}
		trimmedValue := strings.TrimSpace(string(contents))
		if len(trimmedValue) == 0 {
			return "", fmt.Errorf(fileCredentialEmptyErrorTemplateConstant, source.Reference)
		}
		return trimmedValue, nil
	default:
		return "", fmt.Errorf(unsupportedSourceTemplateConstant, source.Type)
	}
}
