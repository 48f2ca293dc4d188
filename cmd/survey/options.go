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

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sirseerhq/sirseer-survey/internal/config"
	surveyerrors "github.com/sirseerhq/sirseer-survey/internal/errors"
	"github.com/sirseerhq/sirseer-survey/internal/logging"
	"github.com/sirseerhq/sirseer-survey/internal/tracing"
	"github.com/sirseerhq/sirseer-survey/pkg/survey"
	"github.com/sirseerhq/sirseer-survey/pkg/version"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath  string
	token       string
	endpoint    string
	repo        string
	discussion  int
	surveyName  string
	pageSize    int
	timeout     time.Duration
	logLevel    string
	logPretty   bool
	trace       bool
	metricsFile string
}

func bindGlobalFlags(fs *pflag.FlagSet, o *globalOptions) {
	fs.StringVar(&o.configPath, "config", "", "Config file (default: .sirseer-survey.yaml or ~/.sirseer/survey.yaml)")
	fs.StringVar(&o.token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	fs.StringVar(&o.endpoint, "endpoint", "", "GitHub GraphQL endpoint (default: https://api.github.com/graphql)")
	fs.StringVar(&o.repo, "repo", "", "Repository holding the discussion, as <owner>/<repo>")
	fs.IntVar(&o.discussion, "discussion", 0, "Discussion number holding the survey results")
	fs.StringVar(&o.surveyName, "survey", "", "Named survey from the config file")
	fs.IntVar(&o.pageSize, "page-size", 0, "Comments per request, 1-100 (default: 100)")
	fs.DurationVar(&o.timeout, "timeout", 0, "Overall time limit for the command (default: 2m)")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	fs.BoolVar(&o.logPretty, "log-pretty", false, "Human-readable logs instead of JSON")
	fs.BoolVar(&o.trace, "trace", false, "Print OpenTelemetry spans to stderr")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
}

// environment is the resolved configuration a command runs with.
type environment struct {
	cfg         *config.Config
	logger      zerolog.Logger
	storeConfig survey.Config
	timeout     time.Duration
	metricsFile string

	shutdownTracing func(context.Context) error
}

// setup merges defaults, config file, environment and flags, then
// installs logging and tracing.
func (a *app) setup(cmd *cobra.Command) (*environment, error) {
	o := &a.opts
	fs := cmd.Flags()

	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	if fs.Changed("endpoint") {
		cfg.GitHub.GraphQLEndpoint = o.endpoint
	}
	if fs.Changed("timeout") {
		cfg.Defaults.Timeout = o.timeout
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if fs.Changed("log-pretty") {
		cfg.Logging.Pretty = o.logPretty
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.Level(cfg.Logging.Level),
		Pretty: cfg.Logging.Pretty,
		Output: cmd.ErrOrStderr(),
	})

	target, err := cfg.Target(o.surveyName)
	if err != nil {
		return nil, err
	}
	if fs.Changed("repo") {
		owner, repo, err := config.ParseRepository(o.repo)
		if err != nil {
			return nil, err
		}
		target.Owner, target.Repo = owner, repo
	}
	if fs.Changed("discussion") {
		target.Discussion = o.discussion
	}
	if fs.Changed("page-size") {
		target.PageSize = o.pageSize
	}
	if target.Owner == "" || target.Repo == "" || target.Discussion <= 0 {
		return nil, fmt.Errorf("%w: no survey discussion selected; use --repo and --discussion, --survey, or the survey section of a config file",
			surveyerrors.ErrInvalidConfig)
	}

	token := o.token
	if token == "" {
		token = cfg.Token()
	}
	if token == "" {
		return nil, fmt.Errorf("GitHub token not found. Please set %s environment variable or use --token flag: %w",
			cfg.GitHub.TokenEnv, surveyerrors.ErrInvalidToken)
	}

	env := &environment{
		cfg:    cfg,
		logger: logger,
		storeConfig: survey.Config{
			Owner:      target.Owner,
			Repo:       target.Repo,
			Discussion: target.Discussion,
			Token:      token,
			Endpoint:   cfg.GitHub.GraphQLEndpoint,
			PageSize:   target.PageSize,
		},
		timeout:     cfg.Defaults.Timeout,
		metricsFile: o.metricsFile,
	}

	if o.trace {
		shutdown, err := tracing.Init(cmd.Context(), tracing.Config{
			ServiceVersion: version.Version,
			Export:         true,
			Writer:         cmd.ErrOrStderr(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
		env.shutdownTracing = shutdown
	}

	logger.Debug().
		Str("discussion", fmt.Sprintf("%s/%s#%d", target.Owner, target.Repo, target.Discussion)).
		Str("endpoint", cfg.GitHub.GraphQLEndpoint).
		Int("page_size", target.PageSize).
		Dur("timeout", cfg.Defaults.Timeout).
		Msg("configuration resolved")

	return env, nil
}

// newStore creates the survey store for the resolved discussion.
func (a *app) newStore(env *environment, opts ...survey.Option) (*survey.Store, error) {
	client := a.newClient(env.storeConfig.Token, env.storeConfig.Endpoint)
	opts = append([]survey.Option{
		survey.WithClient(client),
		survey.WithLogger(env.logger),
	}, opts...)
	return survey.New(env.storeConfig, opts...)
}

// close flushes spans and writes the metrics file, if requested.
func (env *environment) close(ctx context.Context) error {
	var firstErr error
	if env.shutdownTracing != nil {
		if err := env.shutdownTracing(ctx); err != nil {
			firstErr = fmt.Errorf("failed to flush traces: %w", err)
		}
	}
	if env.metricsFile != "" {
		if err := prometheus.WriteToTextfile(env.metricsFile, prometheus.DefaultGatherer); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to write metrics file: %w", err)
		}
	}
	return firstErr
}
