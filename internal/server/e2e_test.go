package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"bellyfied/internal/config"
	"bellyfied/internal/domain/model"
	"bellyfied/internal/infra/db"
	"bellyfied/internal/infra/mailer"
	"bellyfied/internal/server"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// =====================
// helper
// =====================

// 送られたメールを覚えておく
type captureSender struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (s *captureSender) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

type testApp struct {
	t    *testing.T
	app  *server.App
	gdb  *gorm.DB
	mail *captureSender
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	gdb, err := db.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	require.NoError(t, db.SeedCategories(gdb, db.DefaultCategories))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log, _ := test.NewNullLogger()
	mail := &captureSender{}
	app, err := server.Build(server.Deps{
		Config: config.Config{
			JWTSecret:       "test-secret",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: time.Hour,
			PhoneRegion:     "NG",
			CodeRateLimit:   100,
			CodeRateBurst:   100,
		},
		Log:  log,
		DB:   gdb,
		Mail: mail,
	})
	require.NoError(t, err)

	return &testApp{t: t, app: app, gdb: gdb, mail: mail}
}

func (a *testApp) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.app.Echo.ServeHTTP(rec, req)

	out := map[string]interface{}{}
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

// toに最後に送られたコード
func (a *testApp) lastCode(to string) string {
	a.t.Helper()
	a.app.Mailer.Wait()

	a.mail.mu.Lock()
	defer a.mail.mu.Unlock()
	for i := len(a.mail.sent) - 1; i >= 0; i-- {
		m := a.mail.sent[i]
		if m.To == to {
			return strings.TrimPrefix(m.Body, "Your verification code is: ")
		}
	}
	a.t.Fatalf("no mail sent to %s", to)
	return ""
}

// 登録してコード認証まで済ませ、accessトークンを返す
func (a *testApp) signUp(email string, vendor bool) string {
	a.t.Helper()

	path := "/auth/register"
	if vendor {
		path = "/auth/register-vendor"
	}
	status, _ := a.do(http.MethodPost, path, "", map[string]string{
		"first_name": "Ada", "last_name": "Obi", "email": email,
	})
	require.Equal(a.t, http.StatusCreated, status)

	status, body := a.do(http.MethodPost, "/auth/verify", "", map[string]string{"verification_code": a.lastCode(email)})
	require.Equal(a.t, http.StatusOK, status, body)
	return body["access_token"].(string)
}

func id(v interface{}) int64 {
	return int64(v.(map[string]interface{})["id"].(float64))
}

// =====================
// scenarios
// =====================

func TestE2E_RegisterAndVerify(t *testing.T) {
	a := newTestApp(t)

	status, body := a.do(http.MethodPost, "/auth/register", "", map[string]string{
		"first_name": "Ada", "last_name": "Obi", "email": "A@X.com",
	})
	require.Equal(t, http.StatusCreated, status, body)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, false, user["is_verified"])

	//重複
	status, body = a.do(http.MethodPost, "/auth/register", "", map[string]string{
		"first_name": "Ada", "last_name": "Obi", "email": "a@x.com",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["error"])

	//間違ったコード（コードは1000〜9999）
	status, body = a.do(http.MethodPost, "/auth/verify", "", map[string]string{"verification_code": "0000"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "AUTHENTICATION_FAILED", body["error"])

	status, body = a.do(http.MethodPost, "/auth/verify", "", map[string]string{"verification_code": a.lastCode("a@x.com")})
	require.Equal(t, http.StatusOK, status, body)
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])
	user = body["user"].(map[string]interface{})
	assert.Equal(t, true, user["is_verified"])
	assert.Equal(t, true, user["is_active"])

	access := body["access_token"].(string)
	refresh := body["refresh_token"].(string)

	status, body = a.do(http.MethodGet, "/users/me", access, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Nil(t, body["address"])

	//refresh → logout → 同じrefreshは使えない
	status, body = a.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": refresh})
	require.Equal(t, http.StatusOK, status, body)
	assert.NotEmpty(t, body["access_token"])

	status, _ = a.do(http.MethodPost, "/auth/logout", access, map[string]string{"refresh_token": refresh})
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = a.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": refresh})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestE2E_ValidationAndAuthErrors(t *testing.T) {
	a := newTestApp(t)

	status, body := a.do(http.MethodPost, "/auth/register", "", map[string]string{"email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body["error"])
	fields := body["fields"].(map[string]interface{})
	assert.Equal(t, "enter a valid email address", fields["email"])
	assert.Equal(t, "this field is required", fields["first_name"])

	status, _ = a.do(http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = a.do(http.MethodGet, "/no-such-route", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["error"])
}

func TestE2E_BlockedUserIsRejectedFirst(t *testing.T) {
	a := newTestApp(t)
	token := a.signUp("b@x.com", false)

	require.NoError(t, a.gdb.Model(&model.User{}).Where("email = ?", "b@x.com").
		Updates(map[string]interface{}{"block": true, "is_verified": false}).Error)

	status, body := a.do(http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "account blocked/deleted", body["message"])
}

func TestE2E_OrderLifecycle(t *testing.T) {
	a := newTestApp(t)

	vendorToken := a.signUp("v@x.com", true)
	customerToken := a.signUp("c@x.com", false)

	//顧客はレストランを作れない
	status, _ := a.do(http.MethodPost, "/restaurants", customerToken, map[string]string{"name": "x", "email": "x@x.com"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := a.do(http.MethodPost, "/restaurants", vendorToken, map[string]string{
		"name": "Mama Put", "email": "mama@x.com", "opening_hours": "08:00",
	})
	require.Equal(t, http.StatusCreated, status, body)
	restaurantID := id(body["restaurant"])

	//有効化前はメニューを追加できない
	menuPath := fmt.Sprintf("/restaurants/%d/menu", restaurantID)
	status, _ = a.do(http.MethodPost, menuPath, vendorToken, map[string]interface{}{"category_id": 1, "name": "Jollof", "price": 1500})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = a.do(http.MethodPost, "/restaurants/activate", vendorToken, map[string]string{"activation_code": a.lastCode("mama@x.com")})
	require.Equal(t, http.StatusOK, status, body)

	status, body = a.do(http.MethodPost, menuPath, vendorToken, map[string]interface{}{"category_id": 1, "name": "Jollof", "price": 1500})
	require.Equal(t, http.StatusCreated, status, body)
	itemID := id(body["item"])

	status, body = a.do(http.MethodGet, "/search/items?q=jol", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["items"], 1)

	//同じアイテムを2回 → 1行で数量2
	cartPath := fmt.Sprintf("/cart/items/%d", itemID)
	status, _ = a.do(http.MethodPost, cartPath, customerToken, nil)
	require.Equal(t, http.StatusOK, status)
	status, body = a.do(http.MethodPost, cartPath, customerToken, nil)
	require.Equal(t, http.StatusOK, status)
	cart := body["cart"].(map[string]interface{})
	lines := cart["items"].([]interface{})
	require.Len(t, lines, 1)
	assert.Equal(t, float64(2), lines[0].(map[string]interface{})["quantity"])
	assert.Equal(t, float64(3000), cart["total"])

	status, body = a.do(http.MethodPost, "/orders", customerToken, nil)
	require.Equal(t, http.StatusCreated, status, body)
	orders := body["orders"].([]interface{})
	require.Len(t, orders, 1)
	orderID := id(orders[0])

	//カートは空
	status, _ = a.do(http.MethodPost, "/orders", customerToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	orderPath := fmt.Sprintf("/orders/%d", orderID)

	//レストラン側の更新
	status, body = a.do(http.MethodPatch, orderPath, vendorToken, map[string]interface{}{"status": 2})
	require.Equal(t, http.StatusOK, status, body)

	status, body = a.do(http.MethodGet, fmt.Sprintf("/restaurants/%d/orders", restaurantID), vendorToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["orders"], 1)

	//ベンダーも見られる
	status, _ = a.do(http.MethodGet, orderPath, vendorToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = a.do(http.MethodPost, orderPath+"/cancel", customerToken, nil)
	require.Equal(t, http.StatusOK, status, body)

	//2回目のキャンセルは失敗
	status, _ = a.do(http.MethodPost, orderPath+"/cancel", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	//キャンセル済みは更新できない・一覧に出ない
	status, _ = a.do(http.MethodPatch, orderPath, vendorToken, map[string]interface{}{"status": 3})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = a.do(http.MethodGet, fmt.Sprintf("/restaurants/%d/orders", restaurantID), vendorToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["orders"], 0)

	var logs []model.AuditLog
	require.NoError(t, a.gdb.Order("id asc").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, model.AuditActionUpdateOrder, logs[0].Action)
	assert.Equal(t, model.AuditActionCancelOrder, logs[1].Action)
}
