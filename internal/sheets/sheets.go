// Package sheets implements the ledger repository on a Google
// spreadsheet, one tab group per user. The ledger tab carries the
// columns Date, Category, Item/Description, Amount, Kind; column order
// and names are a compatibility contract with pre-existing sheets.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"contabot/internal/core"
	"contabot/internal/ledger"
)

var ledgerHeader = []interface{}{"Date", "Category", "Item/Description", "Amount", "Kind"}

// Config carries the credentials and spreadsheet binding explicitly;
// nothing is read from process globals at call time.
type Config struct {
	SpreadsheetID      string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// Client is a ledger.Repository backed by the Sheets API.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64 // tab title -> sheet id
	// rows maps a user's entry index to its 1-based sheet row, kept
	// from the last listing so mutations address the right row.
	rows map[string][]int64
}

var _ ledger.Repository = (*Client)(nil)

func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	var credentialsJSON []byte
	switch {
	case cfg.ServiceAccountJSON != "":
		credentialsJSON = []byte(cfg.ServiceAccountJSON)
	case cfg.ServiceAccountFile != "":
		data, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetIDs:      map[string]int64{},
		rows:          map[string][]int64{},
	}, nil
}

func ledgerTab(userID string) string    { return "Ledger " + sanitizeTitle(userID) }
func limitsTab(userID string) string    { return "Limits " + sanitizeTitle(userID) }
func recurringTab(userID string) string { return "Recurring " + sanitizeTitle(userID) }

// sanitizeTitle strips the characters Sheets rejects in tab titles.
func sanitizeTitle(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, s)
}

// ensureSheet returns the sheet id for a tab title, creating the tab
// (with its header row for ledger tabs) when absent.
func (c *Client) ensureSheet(ctx context.Context, title string, header []interface{}) (int64, error) {
	c.mu.Lock()
	if id, ok := c.sheetIDs[title]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties.Title == title {
			c.cacheSheetID(title, sh.Properties.SheetId)
			return sh.Properties.SheetId, nil
		}
	}

	resp, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("add sheet %q: %w", title, err)
	}
	id := resp.Replies[0].AddSheet.Properties.SheetId

	if len(header) > 0 {
		_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, title+"!A1", &gsheet.ValueRange{
			Values: [][]interface{}{header},
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return 0, fmt.Errorf("write header for %q: %w", title, err)
		}
	}
	c.cacheSheetID(title, id)
	return id, nil
}

func (c *Client) cacheSheetID(title string, id int64) {
	c.mu.Lock()
	c.sheetIDs[title] = id
	c.mu.Unlock()
}

func (c *Client) AppendEntry(ctx context.Context, userID string, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	tab := ledgerTab(userID)
	if _, err := c.ensureSheet(ctx, tab, ledgerHeader); err != nil {
		return err
	}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, tab+"!A:E", &gsheet.ValueRange{
		Values: [][]interface{}{entryRow(e)},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	c.invalidateRows(userID)
	return nil
}

func (c *Client) ListEntries(ctx context.Context, userID string) ([]core.Entry, error) {
	tab := ledgerTab(userID)
	if _, err := c.ensureSheet(ctx, tab, ledgerHeader); err != nil {
		return nil, err
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, tab+"!A2:E").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}

	entries, rowNums := parseEntryRows(resp.Values)
	c.mu.Lock()
	c.rows[userID] = rowNums
	c.mu.Unlock()
	return entries, nil
}

// entryRowNumber maps an insertion-order index to its 1-based sheet
// row, listing first when no mapping is cached.
func (c *Client) entryRowNumber(ctx context.Context, userID string, index int) (int64, error) {
	c.mu.Lock()
	rows, ok := c.rows[userID]
	c.mu.Unlock()
	if !ok {
		if _, err := c.ListEntries(ctx, userID); err != nil {
			return 0, err
		}
		c.mu.Lock()
		rows = c.rows[userID]
		c.mu.Unlock()
	}
	if index < 0 || index >= len(rows) {
		return 0, ledger.ErrNotFound
	}
	return rows[index], nil
}

func (c *Client) UpdateEntryAmount(ctx context.Context, userID string, index int, amount core.Money) error {
	row, err := c.entryRowNumber(ctx, userID, index)
	if err != nil {
		return err
	}
	tab := ledgerTab(userID)
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID,
		fmt.Sprintf("%s!D%d", tab, row),
		&gsheet.ValueRange{Values: [][]interface{}{{amount.Display()}}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update entry amount: %w", err)
	}
	return nil
}

func (c *Client) DeleteEntry(ctx context.Context, userID string, index int) error {
	row, err := c.entryRowNumber(ctx, userID, index)
	if err != nil {
		return err
	}
	tab := ledgerTab(userID)
	sheetID, err := c.ensureSheet(ctx, tab, ledgerHeader)
	if err != nil {
		return err
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: row - 1, // dimension ranges are 0-based
					EndIndex:   row,
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete entry row: %w", err)
	}
	c.invalidateRows(userID)
	return nil
}

func (c *Client) invalidateRows(userID string) {
	c.mu.Lock()
	delete(c.rows, userID)
	c.mu.Unlock()
}

func (c *Client) ListLimits(ctx context.Context, userID string) ([]core.BudgetLimit, error) {
	tab := limitsTab(userID)
	if _, err := c.ensureSheet(ctx, tab, []interface{}{"Category", "Limit"}); err != nil {
		return nil, err
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, tab+"!A2:B").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read limits: %w", err)
	}
	return parseLimitRows(resp.Values), nil
}

func (c *Client) CreateLimit(ctx context.Context, userID string, l core.BudgetLimit) error {
	existing, err := c.ListLimits(ctx, userID)
	if err != nil {
		return err
	}
	key := core.FoldCategory(l.Category)
	for _, lim := range existing {
		if core.FoldCategory(lim.Category) == key {
			return nil
		}
	}
	tab := limitsTab(userID)
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, tab+"!A:B", &gsheet.ValueRange{
		Values: [][]interface{}{{l.Category, l.Limit.Display()}},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append limit: %w", err)
	}
	return nil
}

func (c *Client) AppendRecurring(ctx context.Context, userID string, r core.RecurringExpense) error {
	if err := r.Validate(); err != nil {
		return err
	}
	tab := recurringTab(userID)
	if _, err := c.ensureSheet(ctx, tab, []interface{}{"Item", "Amount", "Category"}); err != nil {
		return err
	}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, tab+"!A:C", &gsheet.ValueRange{
		Values: [][]interface{}{{r.Item, r.Amount.Display(), r.Category}},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append recurring: %w", err)
	}
	return nil
}

func (c *Client) ListRecurring(ctx context.Context, userID string) ([]core.RecurringExpense, error) {
	tab := recurringTab(userID)
	if _, err := c.ensureSheet(ctx, tab, []interface{}{"Item", "Amount", "Category"}); err != nil {
		return nil, err
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, tab+"!A2:C").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read recurring: %w", err)
	}
	return parseRecurringRows(resp.Values), nil
}

// MirrorEntries rewrites a user's ledger tab from an authoritative
// entry list. The mirror worker calls this after local mutations.
func (c *Client) MirrorEntries(ctx context.Context, userID string, entries []core.Entry) error {
	tab := ledgerTab(userID)
	if _, err := c.ensureSheet(ctx, tab, ledgerHeader); err != nil {
		return err
	}
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, tab+"!A2:E", &gsheet.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear ledger tab: %w", err)
	}
	if len(entries) == 0 {
		c.invalidateRows(userID)
		return nil
	}
	values := make([][]interface{}, len(entries))
	for i, e := range entries {
		values[i] = entryRow(e)
	}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, tab+"!A2", &gsheet.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("rewrite ledger tab: %w", err)
	}
	c.invalidateRows(userID)
	return nil
}

func entryRow(e core.Entry) []interface{} {
	kind := core.WireKindExpense
	if e.Kind == core.KindIncome {
		kind = core.WireKindIncome
	}
	return []interface{}{e.Date.String(), e.Category, e.Item, e.Amount.Display(), kind}
}
