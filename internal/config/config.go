// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for sirseer-survey.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Named survey entry selected with --survey
//  4. Configuration file
//  5. Built-in defaults
//
// A configuration file looks like:
//
//	github:
//	  graphql_endpoint: https://api.github.com/graphql
//	  token_env: GITHUB_TOKEN
//	survey:
//	  owner: sancarn
//	  repo: vba-articles
//	  discussion: 5
//	surveys:
//	  stdvba:
//	    owner: sancarn
//	    repo: stdVBA
//	    discussion: 12
//	    page_size: 50
//	defaults:
//	  page_size: 100
//	  timeout: 2m
//	logging:
//	  level: info
//	  pretty: false
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	surveyerrors "github.com/sirseerhq/sirseer-survey/internal/errors"
	"github.com/sirseerhq/sirseer-survey/internal/logging"
)

// maxPageSize is GitHub's limit for the first argument of a connection.
const maxPageSize = 100

// LoadConfig loads configuration from the file at configPath, or from the
// first file found in the standard locations when configPath is empty:
//   - .sirseer-survey.yaml (current directory)
//   - .sirseer-survey.yml (current directory)
//   - ~/.sirseer/survey.yaml
//   - ~/.sirseer/survey.yml
//
// Environment variables are applied after the file. A missing file in the
// standard locations is not an error; a missing configPath is.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(expandPath(configPath), cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		for _, path := range defaultPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultPaths() []string {
	home := homeDir()
	return []string{
		".sirseer-survey.yaml",
		".sirseer-survey.yml",
		filepath.Join(home, ".sirseer", "survey.yaml"),
		filepath.Join(home, ".sirseer", "survey.yml"),
	}
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
// Malformed numeric values are reported rather than ignored.
func applyEnvOverrides(cfg *Config) error {
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}

	if repo := os.Getenv("SIRSEER_SURVEY_REPO"); repo != "" {
		owner, name, err := ParseRepository(repo)
		if err != nil {
			return fmt.Errorf("SIRSEER_SURVEY_REPO: %w", err)
		}
		cfg.Survey.Owner = owner
		cfg.Survey.Repo = name
	}
	if discussion := os.Getenv("SIRSEER_SURVEY_DISCUSSION"); discussion != "" {
		n, err := parsePositiveInt(discussion)
		if err != nil {
			return fmt.Errorf("%w: SIRSEER_SURVEY_DISCUSSION: %w", surveyerrors.ErrInvalidConfig, err)
		}
		cfg.Survey.Discussion = n
	}

	if pageSize := os.Getenv("SIRSEER_PAGE_SIZE"); pageSize != "" {
		n, err := parsePositiveInt(pageSize)
		if err != nil {
			return fmt.Errorf("%w: SIRSEER_PAGE_SIZE: %w", surveyerrors.ErrInvalidConfig, err)
		}
		cfg.Defaults.PageSize = n
	}
	if timeout := os.Getenv("SIRSEER_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("%w: SIRSEER_TIMEOUT: %w", surveyerrors.ErrInvalidConfig, err)
		}
		cfg.Defaults.Timeout = d
	}

	if level := os.Getenv("SIRSEER_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if pretty := os.Getenv("SIRSEER_LOG_PRETTY"); pretty != "" {
		cfg.Logging.Pretty = parseBool(pretty)
	}

	return nil
}

// ParseRepository splits an owner/repo string.
func ParseRepository(s string) (owner, repo string, err error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: invalid repository format %q, expected <owner>/<repo>",
			surveyerrors.ErrInvalidConfig, s)
	}
	return parts[0], parts[1], nil
}

// Target returns the survey to operate on. An empty name selects the
// top-level survey section; otherwise the named entry of surveys is used.
// The returned PageSize is always the effective one.
func (c *Config) Target(name string) (SurveyConfig, error) {
	target := c.Survey
	if name != "" {
		named, ok := c.Surveys[name]
		if !ok {
			return SurveyConfig{}, fmt.Errorf("%w: unknown survey %q (configured: %s)",
				surveyerrors.ErrInvalidConfig, name, strings.Join(c.SurveyNames(), ", "))
		}
		target = named
	}

	if target.PageSize <= 0 {
		target.PageSize = c.Defaults.PageSize
	}
	return target, nil
}

// SurveyNames returns the names of the configured surveys in sorted order.
func (c *Config) SurveyNames() []string {
	names := make([]string, 0, len(c.Surveys))
	for name := range c.Surveys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that page sizes are within GitHub's limits, the endpoint
// and timeout are usable, and the log level is known. The survey target is
// checked when a store is created, since flags may still supply it.
func (c *Config) Validate() error {
	if err := validatePageSize("default page size", c.Defaults.PageSize); err != nil {
		return err
	}
	for _, name := range c.SurveyNames() {
		if ps := c.Surveys[name].PageSize; ps != 0 {
			if err := validatePageSize(fmt.Sprintf("page size of survey %q", name), ps); err != nil {
				return err
			}
		}
	}
	if c.Survey.PageSize != 0 {
		if err := validatePageSize("survey page size", c.Survey.PageSize); err != nil {
			return err
		}
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("%w: GitHub GraphQL endpoint cannot be empty", surveyerrors.ErrInvalidConfig)
	}
	if c.Defaults.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got: %s", surveyerrors.ErrInvalidConfig, c.Defaults.Timeout)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", surveyerrors.ErrInvalidConfig, err)
	}
	return nil
}

func validatePageSize(what string, size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %s must be positive, got: %d", surveyerrors.ErrInvalidConfig, what, size)
	}
	if size > maxPageSize {
		return fmt.Errorf("%w: %s %d exceeds GitHub API limit of %d", surveyerrors.ErrInvalidConfig, what, size, maxPageSize)
	}
	return nil
}

// Token returns the GitHub token from the configured environment variable,
// falling back to GITHUB_TOKEN.
func (c *Config) Token() string {
	if c.GitHub.TokenEnv != "" {
		if token := os.Getenv(c.GitHub.TokenEnv); token != "" {
			return token
		}
	}
	return os.Getenv("GITHUB_TOKEN")
}

func homeDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE") // Windows
	}
	return home
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir(), path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}
