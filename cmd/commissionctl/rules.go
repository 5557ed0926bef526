package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eksporyuk/commission/internal/app"
	"github.com/eksporyuk/commission/internal/rule"
)

type ruleFile struct {
	Rules []struct {
		Product string `yaml:"product"`
		Kind    string `yaml:"kind"`
		Value   string `yaml:"value"`
	} `yaml:"rules"`
}

// parseRules reads a rules file and validates every entry before anything is written.
func parseRules(r io.Reader) ([]*rule.Rule, error) {
	var f ruleFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	rules := make([]*rule.Rule, 0, len(f.Rules))

	for i, entry := range f.Rules {
		value, err := decimal.NewFromString(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): value %q: %w", i+1, entry.Product, entry.Value, err)
		}

		rl := &rule.Rule{ProductRef: entry.Product, Kind: rule.Kind(entry.Kind), Value: value}

		if rl.ProductRef == "" {
			return nil, fmt.Errorf("rule %d: product is required", i+1)
		}

		if err := rl.Validate(); err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, entry.Product, err)
		}

		rules = append(rules, rl)
	}

	return rules, nil
}

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage commission rules",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "load [file.yaml]",
		Short: "Upsert commission rules from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rules, err := parseRules(f)
			if err != nil {
				return err
			}

			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				for _, rl := range rules {
					if err := a.Rules.Put(ctx, rl); err != nil {
						return fmt.Errorf("%s: %w", rl.ProductRef, err)
					}
				}

				fmt.Fprintf(cmd.OutOrStdout(), "loaded %d rules\n", len(rules))

				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List commission rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				rules, err := a.Rules.List(ctx)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "PRODUCT\tKIND\tVALUE")

				for _, rl := range rules {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", rl.ProductRef, rl.Kind, rl.Value)
				}

				return tw.Flush()
			})
		},
	})

	return cmd
}
