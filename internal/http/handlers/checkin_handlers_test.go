package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestAddManualItemValidation(t *testing.T) {
	// Every case is rejected before the service is consulted.
	h := NewCheckInHandlers(nil, zap.NewNop())

	cases := []struct {
		name string
		body string
	}{
		{"missing description", `{"quantity": 1, "unit_price": 25}`},
		{"zero quantity", `{"description": "Landing fee", "quantity": 0, "unit_price": 25}`},
		{"negative unit price", `{"description": "Landing fee", "quantity": 1, "unit_price": -5}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/bookings/1/checkin/items", strings.NewReader(tc.body))
			req.SetPathValue("id", "1")
			rec := httptest.NewRecorder()

			h.AddManualItem(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "item requires a description, a positive quantity and a non-negative unit price") {
				t.Errorf("body = %q, want the validation message", rec.Body.String())
			}
		})
	}
}
