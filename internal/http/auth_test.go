package http

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"taskboard/internal/service"
	"taskboard/internal/telegram"

	"github.com/gin-gonic/gin"
)

func TestTelegramAuthExchange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewTaskService(service.WithLocation(time.UTC))
	tokens := service.NewTokenIssuer("secret", time.Hour)
	r := gin.New()
	RegisterRoutes(r, Deps{
		Tasks:          svc,
		Tokens:         tokens,
		APIRateLimit:   1000,
		APIRateWindow:  time.Minute,
		WriteRateLimit: 1000,
		BotToken:       "bot-token",
		BotAdminIDs:    []int64{42},
	})

	login := func(id int64) *httptest.ResponseRecorder {
		vals := url.Values{}
		vals.Set("auth_date", strconv.FormatInt(time.Now().Unix(), 10))
		vals.Set("user", fmt.Sprintf(`{"id":%d,"username":"ops"}`, id))
		vals.Set("hash", hex.EncodeToString(telegram.Sign(vals, "bot-token")))
		return request(t, r, "POST", "/api/v1/auth/telegram", map[string]string{"init_data": vals.Encode()}, "")
	}

	w := login(42)
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || w.Code != nethttp.StatusOK {
		t.Fatalf("login = %d %s", w.Code, w.Body.String())
	}
	if sub, err := tokens.Parse(body.Token); err != nil || sub != "tg:42" {
		t.Fatalf("token subject = %q, %v", sub, err)
	}

	if w := login(7); w.Code != nethttp.StatusForbidden {
		t.Fatalf("non-admin login = %d", w.Code)
	}
	bad := map[string]string{"init_data": "auth_date=1&hash=00"}
	if w := request(t, r, "POST", "/api/v1/auth/telegram", bad, ""); w.Code != nethttp.StatusUnauthorized {
		t.Fatalf("bad init data = %d", w.Code)
	}
}
