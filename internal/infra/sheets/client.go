package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/nickppf/nickppf-api/internal/entity"
)

// Client usa a primeira aba da planilha como log de contatos.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger

	mu    sync.Mutex
	title string
}

// NewClient autentica com a service account (JWT). ctx deve viver tanto quanto o Client.
func NewClient(ctx context.Context, email, privateKey, spreadsheetID string, logger *zap.Logger) (*Client, error) {
	conf := &jwt.Config{
		Email:      email,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{sheetsapi.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}
	return NewWithService(svc, spreadsheetID, logger), nil
}

func NewWithService(svc *sheetsapi.Service, spreadsheetID string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		logger:        logger.With(zap.String("spreadsheet_id", spreadsheetID)),
	}
}

func (c *Client) AppendLead(ctx context.Context, lead *entity.Lead) error {
	title, err := c.sheetTitle(ctx)
	if err != nil {
		return err
	}

	h, err := c.readHeader(ctx, title)
	if err != nil {
		return err
	}

	vr := &sheetsapi.ValueRange{Values: [][]interface{}{h.rowFromLead(lead)}}
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, quoteSheet(title)+"!A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return c.fail("append row", err)
	}
	return nil
}

func (c *Client) ListLeads(ctx context.Context) ([]*entity.Lead, error) {
	title, err := c.sheetTitle(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, quoteSheet(title)).Context(ctx).Do()
	if err != nil {
		return nil, c.fail("read rows", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}

	h := parseHeader(resp.Values[0])
	if err := h.validate(); err != nil {
		return nil, err
	}

	leads := make([]*entity.Lead, 0, len(resp.Values)-1)
	for i, row := range resp.Values[1:] {
		if isBlankRow(row) {
			continue
		}
		leads = append(leads, h.leadFromRow(row, i+2))
	}
	return leads, nil
}

// SetOrderID grava só a célula "Directus ID", depois de conferir que a linha
// ainda é a mesma (alguém pode ter ordenado a planilha durante o sync).
func (c *Client) SetOrderID(ctx context.Context, lead *entity.Lead, orderID string) error {
	if lead.RowNumber < 2 {
		return fmt.Errorf("sheets: lead %s has no row number", lead.ID)
	}
	// sem ID a conferência abaixo não distingue uma linha da outra
	if strings.TrimSpace(lead.ID) == "" {
		return fmt.Errorf("sheets: row %d has no ID", lead.RowNumber)
	}

	title, err := c.sheetTitle(ctx)
	if err != nil {
		return err
	}
	h, err := c.readHeader(ctx, title)
	if err != nil {
		return err
	}

	idRange := cellRange(title, h[ColID], lead.RowNumber)
	current, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, idRange).Context(ctx).Do()
	if err != nil {
		return c.fail("read row id", err)
	}
	if got := firstCell(current); got != lead.ID {
		return fmt.Errorf("sheets: row %d now holds %q, expected %q", lead.RowNumber, got, lead.ID)
	}

	vr := &sheetsapi.ValueRange{Values: [][]interface{}{{orderID}}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, cellRange(title, h[ColOrderID], lead.RowNumber), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return c.fail("write order id", err)
	}

	lead.OrderID = orderID
	return nil
}

func (c *Client) readHeader(ctx context.Context, title string) (header, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, quoteSheet(title)+"!1:1").Context(ctx).Do()
	if err != nil {
		return nil, c.fail("read header", err)
	}
	if len(resp.Values) == 0 {
		return nil, errors.New("sheets: header row is empty")
	}

	h := parseHeader(resp.Values[0])
	if err := h.validate(); err != nil {
		return nil, err
	}
	return h, nil
}

func (c *Client) sheetTitle(ctx context.Context) (string, error) {
	c.mu.Lock()
	title := c.title
	c.mu.Unlock()
	if title != "" {
		return title, nil
	}

	doc, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return "", c.fail("load spreadsheet", err)
	}
	if len(doc.Sheets) == 0 || doc.Sheets[0].Properties == nil {
		return "", errors.New("sheets: spreadsheet has no sheets")
	}

	title = doc.Sheets[0].Properties.Title
	c.mu.Lock()
	c.title = title
	c.mu.Unlock()
	return title, nil
}

// fail loga o corpo do erro do Google e invalida o título em cache.
func (c *Client) fail(op string, err error) error {
	c.mu.Lock()
	c.title = ""
	c.mu.Unlock()

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		c.logger.Error("google api error",
			zap.String("op", op),
			zap.Int("code", gerr.Code),
			zap.String("message", gerr.Message),
			zap.String("body", gerr.Body))
	}
	return fmt.Errorf("sheets: %s: %w", op, err)
}

func firstCell(vr *sheetsapi.ValueRange) string {
	if vr == nil || len(vr.Values) == 0 || len(vr.Values[0]) == 0 {
		return ""
	}
	return cellString(vr.Values[0][0])
}
