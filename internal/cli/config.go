package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"graft.dev/graft/internal/config"
	"graft.dev/graft/internal/git"
	"graft.dev/graft/internal/tui"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get and set repository configuration",
		Long: `Get and set repository configuration values.

Examples:
  graft config get link-prefix-len
  graft config set link-prefix-len 12
  graft config get journal
  graft config set journal false
  graft config set abbrev-len 8`,
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

// newConfigGetCmd creates the config get command
func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := git.InitDefaultRepo(); err != nil {
				return fmt.Errorf("not a git repository: %w", err)
			}

			repoRoot, err := git.GetRepoRoot()
			if err != nil {
				return fmt.Errorf("failed to get repo root: %w", err)
			}

			key := args[0]
			switch key {
			case "link-prefix-len":
				width, err := config.GetLinkPrefixLen(repoRoot)
				if err != nil {
					return fmt.Errorf("failed to get link-prefix-len: %w", err)
				}
				fmt.Println(width)
			case "journal":
				enabled, err := config.IsJournalEnabled(repoRoot)
				if err != nil {
					return fmt.Errorf("failed to get journal: %w", err)
				}
				fmt.Println(enabled)
			case "abbrev-len":
				width, err := config.GetAbbrevLen(repoRoot)
				if err != nil {
					return fmt.Errorf("failed to get abbrev-len: %w", err)
				}
				fmt.Println(width)
			default:
				return fmt.Errorf("unknown configuration key: %s", key)
			}

			return nil
		},
	}

	return cmd
}

// newConfigSetCmd creates the config set command
func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := git.InitDefaultRepo(); err != nil {
				return fmt.Errorf("not a git repository: %w", err)
			}

			repoRoot, err := git.GetRepoRoot()
			if err != nil {
				return fmt.Errorf("failed to get repo root: %w", err)
			}

			key := args[0]
			value := args[1]

			splog := tui.NewSplog()

			switch key {
			case "link-prefix-len":
				width, err := strconv.Atoi(value)
				if err != nil || width < 0 {
					return fmt.Errorf("invalid value for link-prefix-len: %s (must be a non-negative integer)", value)
				}
				if err := config.SetLinkPrefixLen(repoRoot, width); err != nil {
					return fmt.Errorf("failed to set link-prefix-len: %w", err)
				}
				splog.Info("Set link-prefix-len to: %d", width)
			case "journal":
				enabled, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("invalid value for journal: %s (must be 'true' or 'false')", value)
				}
				if err := config.SetJournalEnabled(repoRoot, enabled); err != nil {
					return fmt.Errorf("failed to set journal: %w", err)
				}
				splog.Info("Set journal to: %v", enabled)
			case "abbrev-len":
				width, err := strconv.Atoi(value)
				if err != nil || width <= 0 {
					return fmt.Errorf("invalid value for abbrev-len: %s (must be a positive integer)", value)
				}
				if err := config.SetAbbrevLen(repoRoot, width); err != nil {
					return fmt.Errorf("failed to set abbrev-len: %w", err)
				}
				splog.Info("Set abbrev-len to: %d", width)
			default:
				return fmt.Errorf("unknown configuration key: %s", key)
			}

			return nil
		},
	}

	return cmd
}
