package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"frtutracker/logger"
	"frtutracker/models"
	"frtutracker/utils"
)

// GatewayConfig locates the two sheets inside the spreadsheet.
type GatewayConfig struct {
	LogSheet         string
	DirectorySheet   string
	DirectoryColumn  string
	DirectoryMaxRows int
	HeaderLabels     []string
	Timeout          time.Duration
}

// Connector opens a Client on first use.
type Connector func(ctx context.Context) (Client, error)

// Gateway serves the remote append and directory endpoints.
type Gateway struct {
	creds   Credentials
	cfg     GatewayConfig
	connect Connector
	now     func() time.Time
}

// NewGateway creates a Gateway. A nil connect uses NewGoogleClient.
func NewGateway(creds Credentials, cfg GatewayConfig, connect Connector) *Gateway {
	if connect == nil {
		connect = func(ctx context.Context) (Client, error) {
			return NewGoogleClient(ctx, creds)
		}
	}
	if cfg.DirectoryColumn == "" {
		cfg.DirectoryColumn = "A"
	}
	if cfg.DirectoryMaxRows <= 0 {
		cfg.DirectoryMaxRows = 500
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Gateway{creds: creds, cfg: cfg, connect: connect, now: time.Now}
}

// Configured reports whether credentials are present.
func (g *Gateway) Configured() bool {
	return g.creds.Configured()
}

// AppendLog writes one record to the log sheet, falling back to the first
// sheet when the configured one is missing.
func (g *Gateway) AppendLog(ctx context.Context, record models.SheetRecord) error {
	if err := g.creds.Check(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	client, err := g.connect(ctx)
	if err != nil {
		return err
	}
	titles, err := client.SheetTitles(ctx)
	if err != nil {
		return err
	}
	title, err := ResolveAppendSheet(titles, g.cfg.LogSheet)
	if err != nil {
		return err
	}
	if title != g.cfg.LogSheet {
		logger.Warn("Sheet %q not found, appending to %q", g.cfg.LogSheet, title)
	}

	header, err := client.HeaderRow(ctx, title)
	if err != nil {
		return err
	}
	row := BuildRow(header, record, utils.FormatThaiDateTime(g.now()))
	return client.AppendRow(ctx, title, row)
}

// Employees reads the directory column. Without credentials it returns an
// empty list.
func (g *Gateway) Employees(ctx context.Context) ([]string, error) {
	if !g.creds.Configured() {
		logger.Warn("Missing Google Credentials in Environment Variables")
		return []string{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	client, err := g.connect(ctx)
	if err != nil {
		return nil, err
	}
	titles, err := client.SheetTitles(ctx)
	if err != nil {
		return nil, err
	}
	if !HasSheet(titles, g.cfg.DirectorySheet) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, g.cfg.DirectorySheet)
	}

	values, err := client.ReadColumn(ctx, g.cfg.DirectorySheet, g.cfg.DirectoryColumn, g.cfg.DirectoryMaxRows)
	if err != nil {
		return nil, err
	}
	return CleanNames(values, g.cfg.HeaderLabels), nil
}

// IsConfigurationError reports whether err came from missing credentials.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
