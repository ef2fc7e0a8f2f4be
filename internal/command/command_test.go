package command

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"cnapi/config"
	commandHandler "cnapi/internal/command/handler"
	"cnapi/internal/database/memory"
	"cnapi/internal/service"
	"cnapi/internal/telemetry"
	"cnapi/utils/admintoken"
	"cnapi/utils/clock"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cli struct {
	conf      *config.Configuration
	keys      *memory.APIKeyStore
	tiers     *memory.BillingTierStore
	summaries *memory.UsageSummaryStore
	apiKeys   *service.APIKeyService
	cleanups  int

	newCmd        func() (*Command, func(), error)
	newAdminToken func() *commandHandler.AdminTokenHandler
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	conf := (&config.Configuration{}).Normalize()
	conf.App.SecretKey = "cli-secret"
	trace, _, err := telemetry.NewTrace(conf)
	require.NoError(t, err)
	metric := telemetry.NewMetric(conf)
	logger := zap.NewNop()
	clk := clock.NewFake(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))

	c := &cli{
		conf:      conf,
		keys:      memory.NewAPIKeyStore(),
		tiers:     memory.NewBillingTierStore(),
		summaries: memory.NewUsageSummaryStore(),
	}
	c.apiKeys = service.NewAPIKeyService(trace, c.keys, clk, conf, logger)
	tiers := service.NewBillingTierService(trace, metric, c.tiers, memory.NewTierCache(), logger)
	usage := service.NewUsageService(trace, metric, memory.NewUsageLogStore(), c.summaries, clk, conf, logger)

	command := NewCommand(
		commandHandler.NewKeyHandler(logger, c.apiKeys, clk),
		commandHandler.NewUsageHandler(logger, service.NewReportService(trace, c.apiKeys, tiers, usage)),
		commandHandler.NewTierHandler(logger, tiers),
	)
	c.newCmd = func() (*Command, func(), error) {
		return command, func() { c.cleanups++ }, nil
	}
	c.newAdminToken = func() *commandHandler.AdminTokenHandler {
		return commandHandler.NewAdminTokenHandler(conf, clock.NewReal())
	}
	return c
}

func (c *cli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "app", SilenceUsage: true, SilenceErrors: true}
	Register(root, c.newCmd, c.newAdminToken)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestKeyIssueShowRevoke(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "key", "issue", "--client", "acme", "--tier", "professional", "--expires", "2026-12-31")
	require.NoError(t, err)
	assert.Contains(t, out, c.conf.Quota.KeyPrefix)
	assert.Contains(t, out, "expires: 2026-12-31T00:00:00Z")
	assert.Equal(t, 1, c.cleanups)

	digests := c.keys.Digests()
	require.Len(t, digests, 1)
	assert.NotContains(t, out, digests[0])

	id := fieldValue(out, "id:")
	require.NotEmpty(t, id)
	plaintext := fieldValue(out, "  "+c.conf.Quota.KeyPrefix)
	require.NotEmpty(t, plaintext)

	out, err = c.run(t, "key", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "status:  active")
	assert.NotContains(t, out, plaintext)

	_, err = c.run(t, "key", "revoke", id)
	require.NoError(t, err)
	out, err = c.run(t, "key", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "status:  revoked")
}

func TestKeyIssueValidation(t *testing.T) {
	c := newCLI(t)

	_, err := c.run(t, "key", "issue", "--client", "acme", "--expires", "31/12/2026")
	assert.Error(t, err)

	_, err = c.run(t, "key", "issue", "--client", "acme", "--expires", "2026-12-31", "--expires-in-days", "30")
	assert.Error(t, err)

	_, err = c.run(t, "key", "issue", "--tier", "basic")
	assert.Error(t, err)

	_, err = c.run(t, "key", "show", "nope")
	assert.Error(t, err)
	assert.Empty(t, c.keys.Digests())
}

func TestKeyIssueExpiresInDays(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "key", "issue", "--client", "acme", "--expires-in-days", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "expires: 2024-04-14T12:00:00Z")
}

func TestTierSeedAndList(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "tier", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "basic, professional, enterprise")

	out, err = c.run(t, "tier", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "already exist")

	out, err = c.run(t, "tier", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "professional")
	assert.Contains(t, out, "$49.00")
}

func TestUsageHistory(t *testing.T) {
	c := newCLI(t)
	_, err := c.run(t, "tier", "seed")
	require.NoError(t, err)
	issued, err := c.apiKeys.Issue(context.Background(), "acme", "basic", nil)
	require.NoError(t, err)
	c.summaries.Seed(issued.Record.ID, "2024-02", 900)
	c.summaries.Seed(issued.Record.ID, "2024-03", 250)

	out, err := c.run(t, "usage", "history", issued.Record.ID.Hex(), "--months", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03  250 / 1000  remaining 750  (25.00%)")
	assert.Contains(t, out, "2024-02")
}

func TestAdminToken(t *testing.T) {
	c := newCLI(t)

	out, err := c.run(t, "admin-token", "--subject", "ops", "--ttl", "1h")
	require.NoError(t, err)
	assert.Equal(t, 0, c.cleanups)

	claims, err := admintoken.Parse(c.conf.App.SecretKey, strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)

	c.conf.App.SecretKey = ""
	_, err = c.run(t, "admin-token")
	assert.ErrorIs(t, err, admintoken.ErrMissingSecret)
}

// fieldValue 取出 "key: value" 形式的輸出
func fieldValue(out, key string) string {
	for _, line := range strings.Split(out, "\n") {
		if value, ok := strings.CutPrefix(line, key); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
