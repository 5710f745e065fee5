// Package notify delivers vacation event payloads to the HR response form
// endpoint and tracks delivery attempts.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dragon-learning/hr-backend/internal/busdays"
	"github.com/dragon-learning/hr-backend/internal/models"
)

// FormPayload mirrors the columns of the HR response form. Field names are
// the Portuguese labels downstream consumers of the form still expect.
type FormPayload struct {
	Timestamp string `json:"carimbo_data_hora"` // day-first, matching the sheet
	Email     string `json:"email"`
	Manager   string `json:"lider"`
	Tribe     string `json:"tribo"`
	Area      string `json:"area"`
	Contract  string `json:"contrato"`
	Action    string `json:"acao"`

	LeaveStart   string `json:"data_saida,omitempty"`
	LeaveReturn  string `json:"data_retorno,omitempty"`
	BusinessDays *int   `json:"qtd_dias,omitempty"`
	Notes        string `json:"observacoes,omitempty"`

	OriginalLeaveStart   string `json:"data_saida_original,omitempty"`
	OriginalLeaveReturn  string `json:"data_retorno_original,omitempty"`
	OriginalBusinessDays *int   `json:"qtd_dias_original,omitempty"`
	Justification        string `json:"justificativa,omitempty"`
}

// BuildPayload renders an event plus its employee's organogram data as a
// form payload. Dates stay ISO; the event timestamp is day-first.
func BuildPayload(ev *models.VacationEvent, emp *models.Employee) FormPayload {
	p := FormPayload{
		Timestamp: ev.RecordedAt.Format(models.DayFirstTimestamp),
		Email:     ev.Email,
		Manager:   emp.Manager,
		Tribe:     emp.Tribe,
		Area:      emp.Area,
		Contract:  ev.ContractType,
		Action:    ev.Action,
		Notes:     ev.Notes,
	}
	if ev.LeaveStart != nil && ev.LeaveReturn != nil {
		p.LeaveStart = busdays.FormatDate(*ev.LeaveStart)
		p.LeaveReturn = busdays.FormatDate(*ev.LeaveReturn)
		p.BusinessDays = ev.BusinessDays
	}
	if ev.Action == models.ActionCancellation {
		if ev.OriginalLeaveStart != nil && ev.OriginalLeaveReturn != nil {
			p.OriginalLeaveStart = busdays.FormatDate(*ev.OriginalLeaveStart)
			p.OriginalLeaveReturn = busdays.FormatDate(*ev.OriginalLeaveReturn)
		}
		p.OriginalBusinessDays = ev.OriginalBusinessDays
		p.Justification = ev.Justification
	}
	return p
}

// Client POSTs form payloads to the notification endpoint. A non-2xx
// response is an error surfaced verbatim; the client never retries.
type Client struct {
	httpClient *http.Client
	url        string
	logger     *zap.Logger
}

// NewClient creates a notification client. An empty URL disables delivery
// (payloads are dropped with a debug log), which keeps local development
// working without an endpoint.
func NewClient(url string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		logger:     logger,
	}
}

// Send POSTs one payload. The context bounds the whole exchange.
func (c *Client) Send(ctx context.Context, p FormPayload) error {
	if c.url == "" {
		c.logger.Debug("notification endpoint not configured, dropping payload",
			zap.String("email", p.Email), zap.String("acao", p.Action))
		return nil
	}
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notification endpoint returned status %d: %s", resp.StatusCode, string(snippet))
	}
	c.logger.Debug("notification delivered", zap.String("email", p.Email), zap.Int("status", resp.StatusCode))
	return nil
}
