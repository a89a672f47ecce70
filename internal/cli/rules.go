package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/pomrewrite/pkg/errors"
	"github.com/matzehuels/pomrewrite/pkg/rules"
)

// rulesCommand creates the rule inspection command.
func (c *CLI) rulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List and check dependency rules",
	}

	cmd.AddCommand(c.rulesListCommand())
	cmd.AddCommand(c.rulesCheckCommand())

	return cmd
}

// rulesListCommand creates the "rules list" subcommand.
func (c *CLI) rulesListCommand() *cobra.Command {
	var (
		src sourceFlags
		pkg string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the effective rules in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.settings()
			src.apply(&cfg)
			if cmd.Flags().Changed("package") {
				cfg.Transform.Package = pkg
			}
			set, defaults, err := cfg.LoadRules()
			if err != nil {
				return err
			}
			set.SeedDefaults(defaults, cfg.Transform.Package)

			out := cmd.OutOrStdout()
			for _, cat := range rules.Categories() {
				fmt.Fprintln(out, StyleTitle.Render("# "+rules.FileName(cat)))
				if err := rules.WriteRules(out, set, cat); err != nil {
					return err
				}
				if n := countGeneric(set.Rules(cat)); n > 0 {
					fmt.Fprintln(out, StyleDim.Render(fmt.Sprintf("# %d of %d rules match any artifact", n, set.Len(cat))))
				}
			}
			if pkgs := defaults.Packages(); len(pkgs) > 0 {
				sort.Strings(pkgs)
				printDetail("Package defaults: %s", strings.Join(pkgs, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&src.rules, "rules", nil, "rewrite rule file (repeatable)")
	cmd.Flags().StringSliceVar(&src.ignoreRules, "ignore-rules", nil, "ignore rule file (repeatable)")
	cmd.Flags().StringVar(&src.rulesDir, "rules-dir", "", "directory holding maven.rules and maven.ignoreRules")
	cmd.Flags().BoolVar(&src.noDefaults, "no-defaults", false, "do not seed the built-in default rules")
	cmd.Flags().StringVarP(&pkg, "package", "p", "", "target package selecting package-specific default rules")

	return cmd
}

func countGeneric(rs []rules.Rule) int {
	n := 0
	for _, r := range rs {
		if r.Generic() {
			n++
		}
	}
	return n
}

// rulesCheckCommand creates the "rules check" subcommand.
func (c *CLI) rulesCheckCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate rule files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := rules.ParseCategory(category)
			if err != nil {
				return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "--category")
			}
			failed := 0
			for _, path := range args {
				n, err := rules.LoadFile(path, cat, rules.NewSet(""))
				if err != nil {
					printError("%v", err)
					failed++
					continue
				}
				printSuccess("%s: %d rules", path, n)
			}
			if failed > 0 {
				return perrors.New(perrors.ErrCodeInvalidRule, "%d of %d rule files are invalid", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", rules.Rewrite.String(), "rule category: rules, ignore or published")

	return cmd
}
