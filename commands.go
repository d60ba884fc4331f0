package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"jira-worklog/favorite"
	"jira-worklog/prefix"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Inspect favorite work entries",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite work entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		favs, err := favorite.NewManager(cfg.Locator(), logger).List()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTICKET\tMINUTES\tCOMMENT")
		for _, f := range favs {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", f.ID, f.TicketKey, f.DefaultTimeMinutes, f.Comment)
		}
		return tw.Flush()
	},
}

var prefixesCmd = &cobra.Command{
	Use:   "prefixes",
	Short: "Inspect prefix rules and toggle suggestions",
}

var prefixesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List prefix rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := prefix.NewManager(cfg.Locator(), logger)
		rules, err := m.List()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "suggestions enabled: %t\n", m.Enabled())
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTYPE\tPREFIX\tENABLED\tLABEL")
		for _, r := range rules {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", r.ID, r.Type, r.Prefix, r.Enabled, r.Label)
		}
		return tw.Flush()
	},
}

var prefixesEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Switch prefix suggestions on",
	RunE: func(cmd *cobra.Command, args []string) error {
		return prefix.NewManager(cfg.Locator(), logger).SetEnabled(true)
	},
}

var prefixesDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Switch prefix suggestions off",
	RunE: func(cmd *cobra.Command, args []string) error {
		return prefix.NewManager(cfg.Locator(), logger).SetEnabled(false)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with secrets redacted",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg.Redacted()); err != nil {
			return err
		}
		return enc.Close()
	},
}
