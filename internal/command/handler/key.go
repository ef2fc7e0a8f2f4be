package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cnapi/internal/service"
	"cnapi/utils/clock"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const expiresLayout = "2006-01-02"

// IssueOptions key issue 的旗標
type IssueOptions struct {
	Client        string
	Tier          string
	Expires       string // YYYY-MM-DD（UTC 當日 00:00 到期）
	ExpiresInDays int
}

type KeyHandler struct {
	logger  *zap.Logger
	apiKeys *service.APIKeyService
	clock   clock.Clock
}

func NewKeyHandler(logger *zap.Logger, apiKeys *service.APIKeyService, clk clock.Clock) *KeyHandler {
	return &KeyHandler{logger: logger, apiKeys: apiKeys, clock: clk}
}

// Issue 明文只在這裡印出一次
func (handler *KeyHandler) Issue(cmd *cobra.Command, opts IssueOptions) error {
	out := cmd.OutOrStdout()
	if strings.TrimSpace(opts.Client) == "" {
		return errors.New("--client is required")
	}
	if strings.TrimSpace(opts.Tier) == "" {
		return errors.New("--tier is required")
	}
	expiresAt, err := handler.expiresAt(opts)
	if err != nil {
		return err
	}

	issued, err := handler.apiKeys.Issue(commandContext(cmd), opts.Client, opts.Tier, expiresAt)
	if err != nil {
		return err
	}

	record := issued.Record
	fmt.Fprintln(out, "API key issued. Store it now, it will not be shown again:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", issued.Plaintext)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "id:      %s\n", record.ID.Hex())
	fmt.Fprintf(out, "client:  %s\n", record.ClientName)
	fmt.Fprintf(out, "tier:    %s\n", record.Tier)
	if record.ExpiresAt != nil {
		fmt.Fprintf(out, "expires: %s\n", record.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func (handler *KeyHandler) Revoke(cmd *cobra.Command, rawID string) error {
	out := cmd.OutOrStdout()
	id, err := parseObjectID(rawID)
	if err != nil {
		return err
	}
	if err := handler.apiKeys.Revoke(commandContext(cmd), id); err != nil {
		return err
	}
	fmt.Fprintf(out, "API key %s revoked\n", id.Hex())
	return nil
}

func (handler *KeyHandler) Show(cmd *cobra.Command, rawID string) error {
	out := cmd.OutOrStdout()
	id, err := parseObjectID(rawID)
	if err != nil {
		return err
	}
	record, err := handler.apiKeys.GetByID(commandContext(cmd), id)
	if err != nil {
		return err
	}

	status := "active"
	switch {
	case !record.IsActive:
		status = "revoked"
	case !record.Usable(handler.clock.Now()):
		status = "expired"
	}
	fmt.Fprintf(out, "id:      %s\n", record.ID.Hex())
	fmt.Fprintf(out, "prefix:  %s\n", record.KeyPrefix)
	fmt.Fprintf(out, "client:  %s\n", record.ClientName)
	fmt.Fprintf(out, "tier:    %s\n", record.Tier)
	fmt.Fprintf(out, "status:  %s\n", status)
	fmt.Fprintf(out, "created: %s\n", record.CreatedAt.Format(time.RFC3339))
	if record.ExpiresAt != nil {
		fmt.Fprintf(out, "expires: %s\n", record.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func (handler *KeyHandler) expiresAt(opts IssueOptions) (*time.Time, error) {
	switch {
	case opts.Expires != "" && opts.ExpiresInDays > 0:
		return nil, errors.New("use either --expires or --expires-in-days, not both")
	case opts.Expires != "":
		t, err := time.ParseInLocation(expiresLayout, opts.Expires, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid --expires %q: want YYYY-MM-DD", opts.Expires)
		}
		return &t, nil
	case opts.ExpiresInDays > 0:
		t := handler.clock.Now().UTC().AddDate(0, 0, opts.ExpiresInDays)
		return &t, nil
	case opts.ExpiresInDays < 0:
		return nil, errors.New("--expires-in-days must be positive")
	}
	return nil, nil
}

func parseObjectID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid api key id %q", raw)
	}
	return id, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
