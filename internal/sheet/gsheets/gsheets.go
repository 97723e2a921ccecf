// internal/sheet/gsheets/gsheets.go
package gsheets

import (
	"context"
	"fmt"

	"github.com/bartek5186/amz2sheets/internal/sheet"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Config struct {
	SpreadsheetID   string `json:"spreadsheet_id"`
	Worksheet       string `json:"worksheet"`          // domyślnie "Orders"
	CredentialsFile string `json:"google_credentials"` // JSON konta serwisowego
}

// Client implementuje sheet.Store na arkuszu Google (system of record).
type Client struct {
	log     zerolog.Logger
	svc     *sheets.Service
	cfg     Config
	sheetID int64 // numeryczne ID zakładki (do InsertDimension)
}

// Open łączy się z arkuszem, tworzy zakładkę z nagłówkiem jeśli jej brak.
func Open(ctx context.Context, log zerolog.Logger, cfg Config) (*Client, error) {
	if cfg.Worksheet == "" {
		cfg.Worksheet = "Orders"
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("gsheets: inicjalizacja klienta: %w", err)
	}

	c := &Client{log: log, svc: svc, cfg: cfg}
	if err := c.ensureWorksheet(ctx); err != nil {
		return nil, err
	}
	log.Info().Str("spreadsheet", cfg.SpreadsheetID).Str("worksheet", cfg.Worksheet).Msg("gsheets: połączono")
	return c, nil
}

func (c *Client) ensureWorksheet(ctx context.Context) error {
	ss, err := c.svc.Spreadsheets.Get(c.cfg.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gsheets: odczyt arkusza: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == c.cfg.Worksheet {
			c.sheetID = sh.Properties.SheetId
			return c.ensureHeader(ctx)
		}
	}

	// zakładki nie ma — utwórz i dopisz nagłówek
	resp, err := c.svc.Spreadsheets.BatchUpdate(c.cfg.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: c.cfg.Worksheet},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gsheets: tworzenie zakładki %q: %w", c.cfg.Worksheet, err)
	}
	c.sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	if err := c.writeHeader(ctx); err != nil {
		return err
	}
	c.log.Info().Str("worksheet", c.cfg.Worksheet).Msg("gsheets: utworzono zakładkę z nagłówkiem")
	return nil
}

// ensureHeader dopisuje nagłówek w istniejącej, ale pustej zakładce.
func (c *Client) ensureHeader(ctx context.Context) error {
	resp, err := c.svc.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, c.rangeRef(1, 1)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gsheets: odczyt nagłówka: %w", err)
	}
	if len(resp.Values) > 0 {
		return nil
	}
	c.log.Info().Str("worksheet", c.cfg.Worksheet).Msg("gsheets: pusta zakładka — dopisuję nagłówek")
	return c.writeHeader(ctx)
}

func (c *Client) writeHeader(ctx context.Context) error {
	header := make([]interface{}, 0, sheet.ColumnCount)
	for _, h := range sheet.Header() {
		header = append(header, h)
	}
	_, err := c.svc.Spreadsheets.Values.Update(c.cfg.SpreadsheetID, c.rangeRef(1, 1),
		&sheets.ValueRange{Values: [][]interface{}{header}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gsheets: zapis nagłówka: %w", err)
	}
	return nil
}

func (c *Client) ReadRows(ctx context.Context) ([]sheet.Row, error) {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.cfg.SpreadsheetID, fmt.Sprintf("'%s'!A:%c", c.cfg.Worksheet, colLetter(sheet.ColumnCount-1))).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gsheets: odczyt wierszy: %w", err)
	}
	if len(resp.Values) <= 1 {
		return nil, nil // pusty arkusz albo sam nagłówek
	}
	rows := make([]sheet.Row, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		r := make(sheet.Row, 0, len(raw))
		for _, cell := range raw {
			r = append(r, fmt.Sprint(cell))
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func (c *Client) InsertRows(ctx context.Context, rows []sheet.Row) error {
	if len(rows) == 0 {
		return nil
	}

	// 1) zrób miejsce tuż pod nagłówkiem (najnowsze na górze)
	_, err := c.svc.Spreadsheets.BatchUpdate(c.cfg.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			InsertDimension: &sheets.InsertDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    c.sheetID,
					Dimension:  "ROWS",
					StartIndex: 1,
					EndIndex:   int64(1 + len(rows)),
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gsheets: insert %d wierszy: %w", len(rows), err)
	}

	// 2) wypełnij całą paczkę jednym zapisem
	values := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		cells := make([]interface{}, sheet.ColumnCount)
		for col := sheet.Column(0); col < sheet.ColumnCount; col++ {
			cells[col] = r.Get(col)
		}
		values = append(values, cells)
	}
	_, err = c.svc.Spreadsheets.Values.Update(c.cfg.SpreadsheetID, c.rangeRef(2, len(rows)),
		&sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gsheets: zapis paczki %d wierszy: %w", len(rows), err)
	}
	return nil
}

func (c *Client) UpdateFields(ctx context.Context, rowIndex int, fields map[sheet.Column]string) error {
	if len(fields) == 0 {
		return nil
	}
	sheetRow := rowIndex + 2 // +1 nagłówek, +1 bo arkusz liczy od 1
	data := make([]*sheets.ValueRange, 0, len(fields))
	for col, val := range fields {
		data = append(data, &sheets.ValueRange{
			Range:  fmt.Sprintf("'%s'!%c%d", c.cfg.Worksheet, colLetter(col), sheetRow),
			Values: [][]interface{}{{val}},
		})
	}
	_, err := c.svc.Spreadsheets.Values.BatchUpdate(c.cfg.SpreadsheetID, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gsheets: update wiersza %d: %w", sheetRow, err)
	}
	return nil
}

// rangeRef buduje zakres A{start}:N{start+n-1} dla pełnych wierszy.
func (c *Client) rangeRef(startRow, n int) string {
	return fmt.Sprintf("'%s'!A%d:%c%d", c.cfg.Worksheet, startRow, colLetter(sheet.ColumnCount-1), startRow+n-1)
}

// 14 kolumn mieści się w A..N, pojedyncza litera wystarczy
func colLetter(c sheet.Column) byte {
	return byte('A' + int(c))
}
