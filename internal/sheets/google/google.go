package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"ledger/internal/core"
	ports "ledger/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const lastColumn = "J"

// Ensure interface conformance
var _ ports.EntryMirror = (*Client)(nil)

// Config selects the spreadsheet and the credentials used to reach it.
type Config struct {
	SpreadsheetID string
	// SheetName is the base name; each year gets "<year> <SheetName>".
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// valuesAPI is the slice of the Sheets values API the mirror needs.
type valuesAPI interface {
	get(ctx context.Context, rng string) ([][]any, error)
	update(ctx context.Context, rng string, rows [][]any) error
	append(ctx context.Context, rng string, rows [][]any) (updatedRange string, err error)
	clear(ctx context.Context, rng string) error
}

type Client struct {
	values    valuesAPI
	baseSheet string
}

// NewClient creates a Sheets mirror authenticated with a service account.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	base := strings.TrimSpace(cfg.SheetName)
	if base == "" {
		base = "Entries"
	}

	credentialsJSON, err := loadCredentials(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created successfully", "sheet_base", base)
	return &Client{
		values:    &sheetValues{svc: svc, spreadsheetID: spreadsheetID},
		baseSheet: base,
	}, nil
}

// loadCredentials prefers inline JSON, then the configured file, then
// GOOGLE_APPLICATION_CREDENTIALS.
func loadCredentials(ctx context.Context, cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.ServiceAccountJSON)
	file := strings.TrimSpace(cfg.ServiceAccountFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		return []byte(inline), nil
	case file != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Upsert writes e to the row holding its id in the sheet of its year,
// appending a row when the id is not there yet.
func (c *Client) Upsert(ctx context.Context, e core.LedgerEntry) (string, error) {
	if e.ID == "" {
		return "", core.Invalid("id", "must not be empty")
	}
	sheet := yearPrefixedName(c.baseSheet, e.OccursOn.Year())

	ids, err := c.values.get(ctx, sheet+"!A:A")
	if err != nil {
		return "", fmt.Errorf("read ids of %s: %w", sheet, err)
	}
	if len(ids) == 0 {
		if err := c.values.update(ctx, rowRange(sheet, 1), [][]any{toAny(ports.Header)}); err != nil {
			return "", fmt.Errorf("write header of %s: %w", sheet, err)
		}
	}

	row := [][]any{toAny(ports.Row(e))}
	if n := findRow(ids, e.ID); n > 0 {
		rng := rowRange(sheet, n)
		if err := c.values.update(ctx, rng, row); err != nil {
			return "", fmt.Errorf("update %s: %w", rng, err)
		}
		return rng, nil
	}

	ref, err := c.values.append(ctx, fmt.Sprintf("%s!A:%s", sheet, lastColumn), row)
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", sheet, err)
	}
	return ref, nil
}

// Delete clears the row of id. Rows are cleared rather than removed so
// other row references stay valid.
func (c *Client) Delete(ctx context.Context, id string, year int) error {
	sheet := yearPrefixedName(c.baseSheet, year)
	ids, err := c.values.get(ctx, sheet+"!A:A")
	if err != nil {
		return fmt.Errorf("read ids of %s: %w", sheet, err)
	}
	n := findRow(ids, id)
	if n == 0 {
		slog.WarnContext(ctx, "Entry not found in sheet, nothing to delete", "entry_id", id, "sheet", sheet)
		return nil
	}
	rng := rowRange(sheet, n)
	if err := c.values.clear(ctx, rng); err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}
	return nil
}

// findRow returns the 1-based row whose first cell is id, or 0. The header
// row never matches an entry id.
func findRow(values [][]any, id string) int {
	for i, row := range values {
		if i == 0 || len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i + 1
		}
	}
	return 0
}

func rowRange(sheet string, n int) string {
	return fmt.Sprintf("%s!A%d:%s%d", sheet, n, lastColumn, n)
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
