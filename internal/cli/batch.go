package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pomrewrite/pkg/batch"
)

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		opt      optionFlags
		src      sourceFlags
		baseDir  string
		jobs     int
		write    bool
		quiet    bool
		showWarn bool
	)

	cmd := &cobra.Command{
		Use:   "batch <manifest>",
		Short: "Rewrite every POM listed in a manifest",
		Long: `Rewrite every POM listed in a manifest such as debian/libfoo-java.poms.

Each manifest line names a POM relative to the base directory, which
defaults to the parent of the manifest's directory, followed by options:

  --package=NAME  --ignore-modules=a,b  --no-parent  --has-package-version
  --keep-pom-version  --set-version=V  --ignore

With --write every descriptor is rewritten in place and the original is kept
next to it with a .save suffix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := c.settings()

			list, err := batch.Load(args[0])
			if err != nil {
				return err
			}
			if baseDir != "" {
				if err := list.SetBaseDir(baseDir); err != nil {
					return err
				}
			}

			opts := opt.options(cmd.Flags(), cfg)
			if !cmd.Flags().Changed("write") {
				write = cfg.Batch.WriteBack
			}
			if !cmd.Flags().Changed("jobs") {
				jobs = cfg.Batch.Concurrency
			}

			spinner := newSpinnerWithContext(ctx, "Loading rules")
			if !quiet {
				spinner.Start()
			}
			t, err := newTransformer(ctx, cfg, &src, opts, logger)
			if err != nil {
				spinner.Stop()
				return err
			}

			entries := list.Entries()
			spinner.SetMessage(fmt.Sprintf("Transforming %d POMs", len(entries)))
			prog := newProgress(logger)
			driver := batch.NewDriver(list, t,
				batch.WithConcurrency(jobs),
				batch.WithWriteBack(write),
				batch.WithLogger(logger),
			)
			res, err := driver.Run(ctx, opts.TargetPackageName, opts)
			spinner.Stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Processed %d POMs", len(res.Entries)))

			printBatchSummary(cmd.OutOrStdout(), res)
			if showWarn {
				for _, e := range res.Entries {
					if len(e.Warnings) > 0 {
						printInfo("%s", e.Entry.Path)
						printWarnings(e.Warnings)
					}
				}
			}
			for _, e := range res.Failed() {
				printError("%s: %v", e.Entry.Path, e.Err)
			}
			if n := len(res.Failed()); n > 0 {
				return fmt.Errorf("%d of %d POMs failed", n, len(res.Entries))
			}
			return nil
		},
	}

	opt.register(cmd.Flags(), false)
	src.register(cmd.Flags())
	cmd.Flags().StringVar(&baseDir, "base-dir", "", "directory manifest paths are relative to")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of POMs processed at once")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite POMs in place, keeping a .save backup")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not show a progress spinner")
	cmd.Flags().BoolVar(&showWarn, "warnings", false, "list warnings per POM")

	return cmd
}
