package command

import (
	"fmt"
	"time"

	"cnapi/config"
	"cnapi/utils/admintoken"
	"cnapi/utils/clock"

	"github.com/spf13/cobra"
)

// AdminTokenHandler 只需要設定中的 secret，不連資料庫
type AdminTokenHandler struct {
	config *config.Configuration
	clock  clock.Clock
}

func NewAdminTokenHandler(config *config.Configuration, clk clock.Clock) *AdminTokenHandler {
	return &AdminTokenHandler{config: config, clock: clk}
}

// Generate ttl <= 0 時使用 APP__ADMIN_TOKEN_TTL
func (handler *AdminTokenHandler) Generate(cmd *cobra.Command, subject string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = handler.config.App.AdminTokenTTL
	}
	token, expiresAt, err := admintoken.Sign(handler.config.App.SecretKey, subject, ttl, handler.clock.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	cmd.PrintErrf("subject %s, expires %s\n", subject, expiresAt.UTC().Format(time.RFC3339))
	return nil
}
