package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

// newTestConfig points the token endpoint of an [oauth2.Config] at a stub
// token server so Exchange succeeds without real credentials.
func newTestConfig(t *testing.T) *oauth2.Config {
	t.Helper()
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "test_access", "refresh_token": "test_refresh", "token_type": "Bearer", "expires_in": 3600}`)
	}))
	t.Cleanup(tokenServer.Close)

	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/callback",
		Endpoint:     oauth2.Endpoint{TokenURL: tokenServer.URL},
	}
}

func TestCallbackHandler(t *testing.T) {
	t.Run("successful exchange", func(t *testing.T) {
		config := newTestConfig(t)
		handler := NewCallbackHandler(config, "state123")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/callback?state=state123&code=auth_code", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "Spotify Connected") {
			t.Errorf("response missing success page")
		}

		select {
		case result := <-handler.Result():
			if result.Error() != nil {
				t.Fatalf("unexpected error: %v", result.Error())
			}
			if result.Token == nil || result.Token.AccessToken != "test_access" {
				t.Errorf("unexpected token: %+v", result.Token)
			}
		case <-time.After(time.Second):
			t.Fatal("no result received")
		}
	})

	t.Run("invalid state rejected", func(t *testing.T) {
		config := newTestConfig(t)
		handler := NewCallbackHandler(config, "state123")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/callback?state=wrong&code=auth_code", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected state error in result")
		}
	})

	t.Run("provider error propagated", func(t *testing.T) {
		config := newTestConfig(t)
		handler := NewCallbackHandler(config, "state123")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/callback?state=state123&error=access_denied&error_description=User+denied", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		result := <-handler.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected access_denied error, got %v", result.Error())
		}
	})

	t.Run("second callback rejected", func(t *testing.T) {
		config := newTestConfig(t)
		handler := NewCallbackHandler(config, "state123")

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest("GET", "/callback?state=state123&code=auth_code", nil))
		<-handler.Result()

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest("GET", "/callback?state=state123&code=auth_code", nil))
		if second.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for replayed callback, got %d", second.Code)
		}
	})
}

func TestCallbackServerWait(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		config := newTestConfig(t)
		handler := NewCallbackHandler(config, "state123")
		srv := NewCallbackServer("localhost:0", handler)

		_, err := srv.Wait(context.Background(), 50*time.Millisecond)
		if err == nil || !strings.Contains(err.Error(), "timed out") {
			t.Errorf("expected timeout error, got %v", err)
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		config := newTestConfig(t)
		handler := NewCallbackHandler(config, "state123")
		srv := NewCallbackServer("localhost:0", handler)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := srv.Wait(ctx, time.Minute)
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("result delivered through handler", func(t *testing.T) {
		config := newTestConfig(t)
		handler := NewCallbackHandler(config, "state123")
		srv := NewCallbackServer("localhost:0", handler)

		go func() {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=state123&code=auth_code", nil))
		}()

		result, err := srv.Wait(context.Background(), 5*time.Second)
		if err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
		if result.Token == nil || result.Token.AccessToken != "test_access" {
			t.Errorf("unexpected token: %+v", result.Token)
		}
	})
}
