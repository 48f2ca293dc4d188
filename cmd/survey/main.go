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
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	surveyerrors "github.com/sirseerhq/sirseer-survey/internal/errors"
	"github.com/sirseerhq/sirseer-survey/internal/github"
	"github.com/sirseerhq/sirseer-survey/pkg/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app carries process-wide state shared by the commands.
type app struct {
	opts globalOptions
	env  *environment

	// newClient builds the GraphQL transport; tests replace it.
	newClient func(token, endpoint string) github.Client
}

// run executes the CLI with the given arguments and streams and returns
// the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{
		newClient: func(token, endpoint string) github.Client {
			return github.NewGraphQLClient(token, endpoint)
		},
	}
	return a.execute(ctx, args, stdin, stdout, stderr)
}

func (a *app) execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := a.newRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if a.env != nil {
		if closeErr := a.env.close(context.Background()); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return mapErrorToExitCode(err)
	}
	return 0
}

func (a *app) newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sirseer-survey",
		Short: "Read and append survey results stored in a GitHub Discussion",
		Long: `SirSeer Survey keeps survey results as JSON comments on a GitHub Discussion.
Each comment holds one result. Results are read back in posting order and
new results are appended as new comments.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			env, err := a.setup(cmd)
			if err != nil {
				return err
			}
			a.env = env
			return nil
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	bindGlobalFlags(rootCmd.PersistentFlags(), &a.opts)

	rootCmd.AddCommand(
		a.newResultsCommand(),
		a.newAddCommand(),
		a.newCountCommand(),
	)

	return rootCmd
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, surveyerrors.ErrInvalidToken) ||
		errors.Is(err, surveyerrors.ErrRepoNotFound) ||
		errors.Is(err, surveyerrors.ErrDiscussionNotFound) ||
		errors.Is(err, surveyerrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, surveyerrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	if errors.Is(err, surveyerrors.ErrDecode) {
		return 4 // Invalid record
	}

	return 1 // General error
}
