package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/ibank/internal/application"
	"github.com/ericfisherdev/ibank/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body. Alert is set only when a
// screen load failed terminally.
type errorResponse struct {
	Error string         `json:"error"`
	Alert *AlertResponse `json:"alert,omitempty"`
}

// AlertResponse is the JSON representation of a screen's error alert.
type AlertResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

// ScreenResponse describes one list screen.
type ScreenResponse struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Action string `json:"action"`
}

// RowResponse is one rendered list row.
type RowResponse struct {
	Index    int    `json:"index"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// ItemResponse is the selected item behind a row. Exactly one of Friend,
// Card and Transfer is set, matching Kind.
type ItemResponse struct {
	Kind     string            `json:"kind"`
	Friend   *FriendResponse   `json:"friend,omitempty"`
	Card     *CardResponse     `json:"card,omitempty"`
	Transfer *TransferResponse `json:"transfer,omitempty"`
}

// FriendResponse is the JSON representation of a friend.
type FriendResponse struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CardResponse is the JSON representation of a card.
type CardResponse struct {
	Number string `json:"number"`
	Holder string `json:"holder"`
}

// TransferResponse is the JSON representation of a transfer. Amount is the
// exact decimal string; FormattedAmount is localized for display.
type TransferResponse struct {
	Amount          string `json:"amount"`
	CurrencyCode    string `json:"currency_code"`
	FormattedAmount string `json:"formatted_amount"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	FormattedDate   string `json:"formatted_date"`
	Sender          string `json:"sender"`
	Recipient       string `json:"recipient"`
	IsSender        bool   `json:"is_sender"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func toScreenResponse(s *application.ListScreen) ScreenResponse {
	return ScreenResponse{ID: string(s.ID()), Title: s.Title(), Action: s.Action()}
}

func toRowResponses(items []application.ListItem) []RowResponse {
	resp := make([]RowResponse, 0, len(items))
	for i, item := range items {
		resp = append(resp, RowResponse{Index: i, Title: item.Title, Subtitle: item.Subtitle})
	}
	return resp
}

func toAlertResponse(a application.Alert) *AlertResponse {
	return &AlertResponse{Title: a.Title, Message: a.Message, Action: a.Action}
}

// toItemResponse converts a selected domain item. The formatter renders the
// display-only transfer fields with the long date style.
func toItemResponse(item model.Item, f *application.Formatter) ItemResponse {
	resp := ItemResponse{Kind: string(item.Kind)}

	switch item.Kind {
	case model.ItemKindFriend:
		resp.Friend = &FriendResponse{Name: item.Friend.Name, Phone: item.Friend.Phone}
	case model.ItemKindCard:
		resp.Card = &CardResponse{Number: item.Card.Number, Holder: item.Card.Holder}
	case model.ItemKindTransfer:
		t := item.Transfer
		resp.Transfer = &TransferResponse{
			Amount:          t.Amount.String(),
			CurrencyCode:    t.CurrencyCode,
			FormattedAmount: f.Amount(t.Amount, t.CurrencyCode),
			Description:     t.Description,
			Date:            t.Date.UTC().Format(time.RFC3339),
			FormattedDate:   f.Date(t.Date, application.DateStyleLong),
			Sender:          t.Sender,
			Recipient:       t.Recipient,
			IsSender:        t.IsSender,
		}
	}

	return resp
}
