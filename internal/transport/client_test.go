package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brokermobile/broker-client/internal/config"
	"github.com/brokermobile/broker-client/internal/logger"
	"github.com/brokermobile/broker-client/internal/model"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.APIConfig{BaseURL: baseURL, RequestsPerMinute: 10000}, logger.NewNopLogger())
}

func TestGet(t *testing.T) {
	t.Run("decodes a json response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("method = %s, want GET", r.Method)
			}
			if r.URL.Path != "/instruments" {
				t.Errorf("path = %s, want /instruments", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			//nolint:errcheck
			json.NewEncoder(w).Encode([]model.Instrument{{ID: 1, Ticker: "AAPL", LastPrice: 125, ClosePrice: 124}})
		}))
		defer srv.Close()

		got, err := Get[[]model.Instrument](context.Background(), newTestClient(srv.URL), "/instruments")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if len(got) != 1 || got[0].Ticker != "AAPL" {
			t.Errorf("Get() = %+v, want one AAPL record", got)
		}
	})

	t.Run("non-2xx fails with NetworkError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := Get[[]model.Instrument](context.Background(), newTestClient(srv.URL), "/instruments")
		if err == nil {
			t.Fatal("Get() error = nil, want NetworkError")
		}

		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("Get() error = %v, want *NetworkError", err)
		}
		if netErr.StatusCode != http.StatusInternalServerError {
			t.Errorf("StatusCode = %d, want 500", netErr.StatusCode)
		}
	})

	t.Run("sets a request id header", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Request-Id") == "" {
				t.Error("missing X-Request-Id header")
			}
			w.Header().Set("Content-Type", "application/json")
			//nolint:errcheck
			w.Write([]byte("[]"))
		}))
		defer srv.Close()

		if _, err := Get[[]model.Instrument](context.Background(), newTestClient(srv.URL), "/instruments"); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
	})
}

func TestPost(t *testing.T) {
	t.Run("encodes the body and decodes the result", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %s, want application/json", ct)
			}

			var req model.OrderRequest
			//nolint:errcheck
			json.NewDecoder(r.Body).Decode(&req)
			if req.InstrumentID != 1 || req.Quantity != 10 {
				t.Errorf("payload = %+v, want instrument 1 quantity 10", req)
			}

			w.Header().Set("Content-Type", "application/json")
			//nolint:errcheck
			json.NewEncoder(w).Encode(model.OrderResult{ID: 7, Status: model.Filled})
		}))
		defer srv.Close()

		body := model.OrderRequest{InstrumentID: 1, Operation: model.Buy, Type: model.Market, Quantity: 10}
		got, err := Post[model.OrderResult](context.Background(), newTestClient(srv.URL), "/orders", body)
		if err != nil {
			t.Fatalf("Post() error = %v", err)
		}
		if got.ID != 7 || got.Status != model.Filled {
			t.Errorf("Post() = %+v, want id 7 FILLED", got)
		}
	})

	t.Run("unreachable host fails", func(t *testing.T) {
		_, err := Post[model.OrderResult](context.Background(), newTestClient("http://127.0.0.1:1"), "/orders", nil)
		if err == nil {
			t.Fatal("Post() error = nil, want transport failure")
		}
	})
}
