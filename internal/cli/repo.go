package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
	"github.com/matzehuels/pomrewrite/pkg/pom"
)

// repoCommand creates the repository inspection command.
func (c *CLI) repoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Inspect a local Maven repository",
	}

	cmd.AddCommand(c.repoScanCommand())
	cmd.AddCommand(c.repoLookupCommand())

	return cmd
}

type repoFlags struct {
	excludes []string
	cached   bool
}

func (f *repoFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.excludes, "exclude", nil, "gitignore-style pattern excluded from the scan")
	cmd.Flags().BoolVar(&f.cached, "cached", false, "reuse a cached snapshot of the index")
}

// repoScanCommand creates the "repo scan" subcommand.
func (c *CLI) repoScanCommand() *cobra.Command {
	var (
		flags repoFlags
		list  bool
	)

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Index the POMs under a repository root",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := c.settings()
			if len(args) == 1 {
				cfg.Repository.Root = args[0]
			}
			cfg.Repository.Excludes = append(cfg.Repository.Excludes, flags.excludes...)

			spinner := newSpinnerWithContext(ctx, "Scanning "+cfg.Repository.Root)
			spinner.Start()
			prog := newProgress(logger)
			idx, cached, err := openRepository(ctx, cfg, flags.cached, logger)
			if err != nil {
				spinner.StopWithError("Scan failed")
				return err
			}
			spinner.Stop()
			prog.done(fmt.Sprintf("Indexed %s", idx.Root()))

			printKeyValue("Root", idx.Root())
			printIndexStats(idx.Len(), cached)
			if list {
				printNewline()
				for _, a := range idx.Artifacts() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s:%s\n", a.Key(), a.Version)
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&list, "list", "l", false, "print every indexed artifact")

	return cmd
}

// repoLookupCommand creates the "repo lookup" subcommand.
func (c *CLI) repoLookupCommand() *cobra.Command {
	var (
		flags repoFlags
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "lookup <root> <groupId:artifactId>",
		Short: "Print the version the repository offers for an artifact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			group, artifact, _ := strings.Cut(args[1], ":")
			if err := (pom.Dependency{GroupID: group, ArtifactID: artifact}).Validate(); err != nil {
				return err
			}

			cfg := c.settings()
			cfg.Repository.Root = args[0]
			cfg.Repository.Excludes = append(cfg.Repository.Excludes, flags.excludes...)
			idx, _, err := openRepository(ctx, cfg, flags.cached, logger)
			if err != nil {
				return err
			}

			version, found := idx.Lookup(group, artifact)
			if !found {
				return perrors.New(perrors.ErrCodeVersionNotFound, "%s:%s not found in %s", group, artifact, idx.Root())
			}
			out := cmd.OutOrStdout()
			if !all {
				fmt.Fprintln(out, version)
				return nil
			}
			for _, v := range idx.Versions(group, artifact) {
				path, _ := idx.Path(group, artifact, v)
				fmt.Fprintf(out, "%s\t%s\n", v, path)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&all, "all", "a", false, "print every known version with its file")

	return cmd
}
