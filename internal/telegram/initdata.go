// Package telegram verifies Telegram WebApp init data so a Mini App
// session can be exchanged for an API token.
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrBadInitData = errors.New("malformed init data")
	ErrBadHash     = errors.New("init data hash mismatch")
	ErrExpired     = errors.New("init data expired")
)

const (
	maxAge  = time.Hour
	maxSkew = 5 * time.Minute
)

type WebAppUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// Verify checks the init_data HMAC against botToken and that auth_date
// is recent, then returns the user it carries.
func Verify(initData, botToken string, now time.Time) (*WebAppUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, ErrBadInitData
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, ErrBadInitData
	}
	values.Del("hash")

	provided, err := hex.DecodeString(hash)
	if err != nil {
		return nil, ErrBadInitData
	}
	if !hmac.Equal(Sign(values, botToken), provided) {
		return nil, ErrBadHash
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, ErrBadInitData
	}
	age := now.Sub(time.Unix(authDate, 0))
	if age > maxAge || age < -maxSkew {
		return nil, ErrExpired
	}

	var user WebAppUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil || user.ID == 0 {
		return nil, ErrBadInitData
	}
	return &user, nil
}

// Sign computes the init data hash of values (without "hash").
func Sign(values url.Values, botToken string) []byte {
	dataCheck := make([]string, 0, len(values))
	for k, v := range values {
		dataCheck = append(dataCheck, k+"="+strings.Join(v, ""))
	}
	sort.Strings(dataCheck)

	secret := sha256.Sum256([]byte(botToken))
	h := hmac.New(sha256.New, secret[:])
	h.Write([]byte(strings.Join(dataCheck, "\n")))
	return h.Sum(nil)
}
