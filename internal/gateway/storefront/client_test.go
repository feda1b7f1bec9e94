package storefront_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Gunvolt24/wf_cart/internal/domain"
	"github.com/Gunvolt24/wf_cart/internal/gateway/storefront"
)

func TestClient_SetRedirect(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/set_redirect.php" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := storefront.New(srv.URL+"/", time.Second)
	if err := c.SetRedirect(context.Background(), "/cart"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["redirectUrl"] != "/cart" {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestClient_FetchUserAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id") {
		case "u 7":
			_, _ = w.Write([]byte(`{"addressLine1":"1 Lily Pad Ln","city":"Dover","state":"KS","zipCode":"66420","role":"customer"}`))
		default:
			_, _ = w.Write([]byte(`{"error":"User not found"}`))
		}
	}))
	defer srv.Close()

	c := storefront.New(srv.URL, time.Second)

	p, err := c.FetchUserAddress(context.Background(), "u 7")
	if err != nil || !p.HasAddress() || p.ZipCode != "66420" {
		t.Fatalf("unexpected profile: %+v err=%v", p, err)
	}

	p, err = c.FetchUserAddress(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("error payload must not be a transport error: %v", err)
	}
	if p.HasAddress() || p.Error != "User not found" {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestClient_AddOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p domain.OrderPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("payload: %v", err)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type: %s", r.Header.Get("Content-Type"))
		}
		switch p.CustomerID {
		case "ok":
			_, _ = w.Write([]byte(`{"success":true,"orderId":"42"}`))
		case "business":
			_, _ = w.Write([]byte(`{"success":false,"error":"Out of stock"}`))
		case "broken":
			_, _ = w.Write([]byte(`<html>`))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := storefront.New(srv.URL, time.Second)
	ctx := context.Background()

	res, err := c.AddOrder(ctx, &domain.OrderPayload{CustomerID: "ok", Total: 1998})
	if err != nil || !res.Success || res.OrderID != "42" {
		t.Fatalf("unexpected result: %+v err=%v", res, err)
	}

	res, err = c.AddOrder(ctx, &domain.OrderPayload{CustomerID: "business"})
	if err != nil || res.Success || res.Error != "Out of stock" {
		t.Fatalf("business failure must be a result: %+v err=%v", res, err)
	}

	for _, id := range []string{"fail", "broken"} {
		if _, err := c.AddOrder(ctx, &domain.OrderPayload{CustomerID: id}); !errors.Is(err, storefront.ErrTransport) {
			t.Fatalf("%s: expected ErrTransport, got %v", id, err)
		}
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := storefront.New(srv.URL, 200*time.Millisecond)
	if err := c.SetRedirect(context.Background(), "/x"); !errors.Is(err, storefront.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}
