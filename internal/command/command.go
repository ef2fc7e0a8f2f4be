package command

import (
	"time"

	commandHandler "cnapi/internal/command/handler"
	"cnapi/internal/service"

	"github.com/google/wire"
	"github.com/spf13/cobra"
)

var ProviderSet = wire.NewSet(
	NewCommand,
	commandHandler.NewKeyHandler,
	commandHandler.NewUsageHandler,
	commandHandler.NewTierHandler,
)

type Command struct {
	keyHandler   *commandHandler.KeyHandler
	usageHandler *commandHandler.UsageHandler
	tierHandler  *commandHandler.TierHandler
}

// NewCommand .
func NewCommand(
	keyHandler *commandHandler.KeyHandler,
	usageHandler *commandHandler.UsageHandler,
	tierHandler *commandHandler.TierHandler,
) *Command {
	return &Command{
		keyHandler:   keyHandler,
		usageHandler: usageHandler,
		tierHandler:  tierHandler,
	}
}

// Register 掛上營運用子命令；newCmd 會連線資料庫，admin-token 不需要
func Register(
	rootCmd *cobra.Command,
	newCmd func() (*Command, func(), error),
	newAdminToken func() *commandHandler.AdminTokenHandler,
) {
	// withCommand 建立依賴後執行，結束時釋放連線
	withCommand := func(run func(command *Command, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()
			return run(command, cmd, args)
		}
	}

	rootCmd.AddCommand(
		keyCommand(withCommand),
		usageCommand(withCommand),
		tierCommand(withCommand),
		adminTokenCommand(newAdminToken),
	)
}

type commandRunner func(run func(command *Command, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error

func keyCommand(withCommand commandRunner) *cobra.Command {
	keyCmd := &cobra.Command{Use: "key", Short: "manage API keys"}

	var opts commandHandler.IssueOptions
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "issue a new API key (the plaintext is printed once)",
		Args:  cobra.NoArgs,
		RunE: withCommand(func(command *Command, cmd *cobra.Command, _ []string) error {
			return command.keyHandler.Issue(cmd, opts)
		}),
	}
	issueCmd.Flags().StringVar(&opts.Client, "client", "", "client name")
	issueCmd.Flags().StringVar(&opts.Tier, "tier", "basic", "billing tier name")
	issueCmd.Flags().StringVar(&opts.Expires, "expires", "", "expiry date, YYYY-MM-DD (UTC)")
	issueCmd.Flags().IntVar(&opts.ExpiresInDays, "expires-in-days", 0, "expire N days from now")
	_ = issueCmd.MarkFlagRequired("client")

	keyCmd.AddCommand(
		issueCmd,
		&cobra.Command{
			Use:   "revoke API_KEY_ID",
			Short: "revoke an API key",
			Args:  cobra.ExactArgs(1),
			RunE: withCommand(func(command *Command, cmd *cobra.Command, args []string) error {
				return command.keyHandler.Revoke(cmd, args[0])
			}),
		},
		&cobra.Command{
			Use:   "show API_KEY_ID",
			Short: "show an API key record",
			Args:  cobra.ExactArgs(1),
			RunE: withCommand(func(command *Command, cmd *cobra.Command, args []string) error {
				return command.keyHandler.Show(cmd, args[0])
			}),
		},
	)
	return keyCmd
}

func usageCommand(withCommand commandRunner) *cobra.Command {
	usageCmd := &cobra.Command{Use: "usage", Short: "inspect API usage"}

	var months int
	historyCmd := &cobra.Command{
		Use:   "history API_KEY_ID",
		Short: "show current month usage and monthly history",
		Args:  cobra.ExactArgs(1),
		RunE: withCommand(func(command *Command, cmd *cobra.Command, args []string) error {
			return command.usageHandler.History(cmd, args[0], months)
		}),
	}
	historyCmd.Flags().IntVar(&months, "months", service.DefaultReportMonths, "number of months of history")

	usageCmd.AddCommand(historyCmd)
	return usageCmd
}

func tierCommand(withCommand commandRunner) *cobra.Command {
	tierCmd := &cobra.Command{Use: "tier", Short: "manage billing tiers"}
	tierCmd.AddCommand(
		&cobra.Command{
			Use:   "seed",
			Short: "insert the default tiers (existing tiers are kept)",
			Args:  cobra.NoArgs,
			RunE: withCommand(func(command *Command, cmd *cobra.Command, _ []string) error {
				return command.tierHandler.Seed(cmd)
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "list billing tiers",
			Args:  cobra.NoArgs,
			RunE: withCommand(func(command *Command, cmd *cobra.Command, _ []string) error {
				return command.tierHandler.List(cmd)
			}),
		},
	)
	return tierCmd
}

func adminTokenCommand(newAdminToken func() *commandHandler.AdminTokenHandler) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	adminTokenCmd := &cobra.Command{
		Use:   "admin-token",
		Short: "print a signed admin JWT for the /api/admin routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return newAdminToken().Generate(cmd, subject, ttl)
		},
	}
	adminTokenCmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	adminTokenCmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default APP__ADMIN_TOKEN_TTL)")
	return adminTokenCmd
}
