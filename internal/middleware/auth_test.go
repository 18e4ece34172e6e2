package middleware

import (
	"io"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xreward/backend/internal/config"
)

const testToken = "123456:TEST-TOKEN"

func signedInitData(userJSON string, authDate time.Time) string {
	values := url.Values{}
	values.Set("query_id", "AAE")
	values.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	if userJSON != "" {
		values.Set("user", userJSON)
	}
	values.Set("hash", SignInitData(values, testToken))
	return values.Encode()
}

func TestValidateTelegramInitData(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	data := signedInitData(`{"id":42,"first_name":"Ann","username":"ann_x","language_code":"en"}`, now.Add(-time.Minute))

	user, err := ValidateTelegramInitData(data, testToken, now)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.UserID)
	assert.Equal(t, "ann_x", user.Username)
	assert.Equal(t, "Ann", user.FirstName)
	assert.Equal(t, "AAE", user.QueryID)
	assert.Equal(t, "ann_x", user.DisplayName())
}

func TestValidateTelegramInitDataRejects(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	valid := signedInitData(`{"id":42}`, now)

	tests := []struct {
		name  string
		data  string
		token string
	}{
		{"wrong token", valid, "other"},
		{"expired", signedInitData(`{"id":42}`, now.Add(-2*time.Hour)), testToken},
		{"missing hash", "auth_date=1&user=%7B%7D", testToken},
		{"missing user", signedInitData("", now), testToken},
		{"tampered", valid + "&extra=1", testToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateTelegramInitData(tt.data, tt.token, now)
			assert.Error(t, err)
		})
	}
}

func TestTelegramAuth(t *testing.T) {
	cfg := &config.Config{}
	cfg.Telegram.BotToken = testToken

	app := fiber.New()
	app.Get("/me", TelegramAuth(cfg), func(c *fiber.Ctx) error {
		return c.SendString(strconv.FormatInt(GetUserID(c), 10))
	})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "tma "+signedInitData(`{"id":7}`, time.Now()))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "7", string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
