package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCronSecretRejectsWrongSecret(t *testing.T) {
	handler := CronSecret("expected", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/cron/expiry-reminders", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCronSecretRejectsWhenUnconfigured(t *testing.T) {
	handler := CronSecret("", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/cron/expiry-reminders", nil)
	req.Header.Set("Authorization", "Bearer anything")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestCronSecretAllowsMatch(t *testing.T) {
	handler := CronSecret("expected", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/cron/expiry-reminders", nil)
	req.Header.Set("Authorization", "Bearer expected")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
