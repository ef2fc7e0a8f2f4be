package command

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"cnapi/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type TierHandler struct {
	logger *zap.Logger
	tiers  *service.BillingTierService
}

func NewTierHandler(logger *zap.Logger, tiers *service.BillingTierService) *TierHandler {
	return &TierHandler{logger: logger, tiers: tiers}
}

// Seed 只補上缺少的預設方案，既有方案不覆寫
func (handler *TierHandler) Seed(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	inserted, err := handler.tiers.SeedDefaults(commandContext(cmd))
	if err != nil {
		return err
	}
	if len(inserted) == 0 {
		fmt.Fprintln(out, "all default tiers already exist")
		return nil
	}
	fmt.Fprintf(out, "seeded tiers: %s\n", strings.Join(inserted, ", "))
	return nil
}

func (handler *TierHandler) List(cmd *cobra.Command) error {
	tiers, err := handler.tiers.List(commandContext(cmd))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIER\tMONTHLY LIMIT\tPRICE\tDESCRIPTION")
	for _, tier := range tiers {
		fmt.Fprintf(w, "%s\t%d\t$%.2f\t%s\n", tier.TierName, tier.MonthlyCallLimit, tier.PriceMonthly, tier.Description)
	}
	return w.Flush()
}
