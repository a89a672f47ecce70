package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pomrewrite/pkg/pomxml"
)

// transformCommand creates the transform command.
func (c *CLI) transformCommand() *cobra.Command {
	var (
		opt           optionFlags
		src           sourceFlags
		output        string
		ignoreModules []string
	)

	cmd := &cobra.Command{
		Use:   "transform <pom>",
		Short: "Rewrite one POM file",
		Long: `Rewrite one POM file with the configured dependency rules.

The result is written to --output, or to standard output when no output is
given. Use the same path for input and output to rewrite in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			path := args[0]

			opts := opt.options(cmd.Flags(), c.settings())
			t, err := newTransformer(ctx, c.settings(), &src, opts, logger)
			if err != nil {
				return err
			}
			t.IgnoreModules().Add(path, ignoreModules...)

			doc, err := pomxml.ReadFile(path)
			if err != nil {
				return err
			}
			prog := newProgress(logger)
			res, err := t.TransformDocument(ctx, doc, path, opts)
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				logger.Warn(w.Message, "code", w.Code, "subject", w.Subject)
			}

			if output == "" {
				_, err := doc.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := doc.WriteFile(output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			prog.done(fmt.Sprintf("Transformed %s", path))
			printFile(output)
			printChanges(res.Changes)
			return nil
		},
	}

	opt.register(cmd.Flags(), true)
	src.register(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: standard output)")
	cmd.Flags().StringSliceVar(&ignoreModules, "ignore-module", nil, "module to remove from the descriptor (repeatable)")

	return cmd
}
