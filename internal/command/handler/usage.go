package command

import (
	"fmt"
	"text/tabwriter"

	"cnapi/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type UsageHandler struct {
	logger  *zap.Logger
	reports *service.ReportService
}

func NewUsageHandler(logger *zap.Logger, reports *service.ReportService) *UsageHandler {
	return &UsageHandler{logger: logger, reports: reports}
}

// History 印出當月用量與最近幾個月的彙總
func (handler *UsageHandler) History(cmd *cobra.Command, rawID string, months int) error {
	out := cmd.OutOrStdout()
	id, err := parseObjectID(rawID)
	if err != nil {
		return err
	}
	report, err := handler.reports.Usage(commandContext(cmd), id, months)
	if err != nil {
		return err
	}

	tierName := report.APIKey.Tier
	if report.Tier == nil {
		tierName += " (unknown tier)"
	}
	current := report.CurrentMonth
	fmt.Fprintf(out, "api key: %s (%s)\n", report.APIKey.ID, report.APIKey.ClientName)
	fmt.Fprintf(out, "tier:    %s\n", tierName)
	fmt.Fprintf(out, "current: %s  %d / %d  remaining %d  (%.2f%%)\n",
		current.Period, current.Usage, current.Limit, current.Remaining, current.PercentUsed)
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tCALLS\tLAST UPDATED")
	for _, month := range report.History {
		fmt.Fprintf(w, "%s\t%d\t%s\n", month.BillingMonth, month.TotalCalls, month.LastUpdated.UTC().Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
