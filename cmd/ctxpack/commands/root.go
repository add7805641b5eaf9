// Package commands implements the CLI commands for the ctxpack tool.
package commands

import (
	"context"
	"io"
	"os"

	"github.com/ctxpack/ctxpack/internal/adapters/tui"
	"github.com/ctxpack/ctxpack/internal/app"
	"github.com/ctxpack/ctxpack/internal/build"
	"github.com/ctxpack/ctxpack/internal/core/domain"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

// CLI represents the command line interface for ctxpack.
type CLI struct {
	components *app.Components
	rootCmd    *cobra.Command
}

// New creates a new CLI instance with the given components.
func New(components *app.Components) *CLI {
	rootCmd := &cobra.Command{
		Use:           "ctxpack [dir]",
		Short:         "Curate and pack repository context interactively",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("profile", "p", "", "Profile to use (defaults to the first in ctxpack.yaml)")

	c := &CLI{
		components: components,
		rootCmd:    rootCmd,
	}

	rootCmd.RunE = c.runInteractive
	rootCmd.AddCommand(c.newPackCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) runInteractive(cmd *cobra.Command, args []string) error {
	dir := workDir(args)
	profileName, _ := cmd.Flags().GetString("profile")

	profiles, _, err := c.components.App.Profiles(dir)
	if err != nil {
		return err
	}
	if profileName != "" {
		// Start on the requested profile; tab still cycles through the rest.
		found := false
		for i, p := range profiles {
			if p.Name == profileName {
				profiles[0], profiles[i] = profiles[i], profiles[0]
				found = true
				break
			}
		}
		if !found {
			return zerr.With(domain.ErrProfileNotFound, "profile", profileName)
		}
	}

	return tui.Run(cmd.Context(), c.components, profiles)
}

func workDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}
