// Package config resolves deathnote settings from the environment, an
// optional dotenv file and a CUE rulebook file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvDB     = "DEATHNOTE_DB"
	EnvRules  = "DEATHNOTE_RULES"
	EnvFormat = "DEATHNOTE_FORMAT"
)

// Defaults used when neither the environment nor the dotenv file set a value.
const (
	DefaultDBPath  = "deathnote.db"
	DefaultFormat  = "text"
	DefaultEnvFile = ".env"
)

// Config holds resolved settings. Command-line flags are applied on top by
// the CLI.
type Config struct {
	// DBPath is the SQLite database holding the notebook.
	DBPath string

	// RulesPath is an optional CUE rulebook file. Empty means the built-in
	// rulebook.
	RulesPath string

	// Format is the output format, "text" or "json".
	Format string
}

// Load resolves configuration.
//
// Process environment variables take precedence over the dotenv file.
// If envFile is empty, ".env" in the working directory is read when present;
// a non-empty envFile must exist.
func Load(envFile string) (Config, error) {
	fileVars, err := readEnvFile(envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key, fallback string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		if v, ok := fileVars[key]; ok && v != "" {
			return v
		}
		return fallback
	}

	return Config{
		DBPath:    lookup(EnvDB, DefaultDBPath),
		RulesPath: lookup(EnvRules, ""),
		Format:    lookup(EnvFormat, DefaultFormat),
	}, nil
}

func readEnvFile(envFile string) (map[string]string, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}

	if _, err := os.Stat(envFile); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("env file %s: %w", envFile, err)
	}

	vars, err := godotenv.Read(envFile)
	if err != nil {
		return nil, fmt.Errorf("parse env file %s: %w", envFile, err)
	}
	return vars, nil
}
