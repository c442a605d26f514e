package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func readiness(t *testing.T, deps HealthDeps) (int, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/readyz", NewHealthHandler(deps).Readiness)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))
	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return w.Code, resp
}

func TestReadinessMemory(t *testing.T) {
	code, resp := readiness(t, HealthDeps{Tasks: func() int { return 3 }, Clients: func() int { return 2 }})
	if code != http.StatusOK || resp.Status != "healthy" {
		t.Fatalf("readiness = %d %+v", code, resp)
	}
	if resp.Checks["storage"] != "memory" || resp.Checks["redis"] != "disabled" {
		t.Fatalf("checks = %v", resp.Checks)
	}
	if resp.Checks["tasks"] != "3" || resp.Checks["ws_clients"] != "2" {
		t.Fatalf("counts = %v", resp.Checks)
	}
}

func TestReadinessFailures(t *testing.T) {
	down := PingFunc(func(context.Context) error { return errors.New("down") })
	up := PingFunc(func(context.Context) error { return nil })

	code, resp := readiness(t, HealthDeps{Store: up, Cache: down})
	if code != http.StatusOK || resp.Checks["redis"] != "unhealthy: down" {
		t.Fatalf("redis down = %d %v", code, resp.Checks)
	}

	code, resp = readiness(t, HealthDeps{Store: down})
	if code != http.StatusServiceUnavailable || resp.Status != "unhealthy" {
		t.Fatalf("store down = %d %+v", code, resp)
	}
}
