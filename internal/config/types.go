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

package config

import "time"

// Config represents the complete configuration for sirseer-survey. It
// merges the config file, environment variables and built-in defaults;
// command-line flags are applied on top by the CLI.
type Config struct {
	GitHub   GitHubConfig            `yaml:"github"`
	Survey   SurveyConfig            `yaml:"survey"`
	Surveys  map[string]SurveyConfig `yaml:"surveys"`
	Defaults DefaultsConfig          `yaml:"defaults"`
	Logging  LoggingConfig           `yaml:"logging"`
}

// GitHubConfig contains the GraphQL endpoint and the environment variable
// the token is read from. Set the endpoint for GitHub Enterprise Server.
type GitHubConfig struct {
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
}

// SurveyConfig names a discussion holding survey results. PageSize, when
// set, overrides Defaults.PageSize for this survey.
type SurveyConfig struct {
	Owner      string `yaml:"owner"`
	Repo       string `yaml:"repo"`
	Discussion int    `yaml:"discussion"`
	PageSize   int    `yaml:"page_size"`
}

// DefaultsConfig contains settings that apply to every survey unless
// overridden.
type DefaultsConfig struct {
	PageSize int           `yaml:"page_size"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LoggingConfig controls the zerolog logger set up by the CLI.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// DefaultConfig returns a Config for public GitHub.com with no survey
// selected.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Surveys: make(map[string]SurveyConfig),
		Defaults: DefaultsConfig{
			PageSize: 100,
			Timeout:  2 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
