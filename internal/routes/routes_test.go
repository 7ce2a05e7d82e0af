package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activity_hub/internal/controllers"
	"activity_hub/internal/middleware"
	"activity_hub/internal/otp"
	"activity_hub/internal/services"
	"activity_hub/internal/testutil"
)

type testApp struct {
	router *gin.Engine
	store  *testutil.MemoryStore
	sender *testutil.Sender
	tokens *middleware.TokenManager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testutil.NewMemoryStore()
	sender := testutil.NewSender()
	tokens := middleware.NewTokenManager("test-secret", time.Hour)

	accounts := services.NewAccountService(store)
	auth := services.NewAuthService(store, tokens, otp.NewMemoryStore(), sender, services.OTPConfig{TTL: time.Minute})
	regs := services.NewRegistrationService(store, &testutil.Publisher{})

	r := SetupRouter(Handlers{
		Auth:              controllers.NewAuthController(auth, accounts),
		Accounts:          controllers.NewAccountController(accounts),
		Users:             controllers.NewUserController(accounts),
		Events:            controllers.NewEventController(services.NewEventService(store)),
		ParticipantEvents: controllers.NewRegistrationController(regs, services.KindParticipant),
		VolunteerEvents:   controllers.NewRegistrationController(regs, services.KindVolunteer),
		Health:            controllers.NewHealthController(nil, nil, "test"),
		Tokens:            tokens,
		AccessLog:         io.Discard,
	})
	return &testApp{router: r, store: store, sender: sender, tokens: tokens}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func (a *testApp) staffToken(t *testing.T) string {
	t.Helper()
	rec, _ := a.do(t, http.MethodPost, "/staff", "", gin.H{"full_name": "Siti", "email": "siti@centre.org", "password": "pa55word"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := a.do(t, http.MethodPost, "/login", "", gin.H{"email": "siti@centre.org", "password": "pa55word"})
	require.Equal(t, http.StatusOK, rec.Code)
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	return res.Token
}

func decodeID(t *testing.T, data json.RawMessage) uint {
	t.Helper()
	var v struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(data, &v))
	return v.ID
}

func TestParticipantOTPFlow(t *testing.T) {
	app := newTestApp(t)

	rec, env := app.do(t, http.MethodPost, "/participant/check-or-create", "", gin.H{
		"phone": "91234567", "full_name": "Ah Kow", "birthdate": "1950-05-15",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)

	code := app.sender.LastCode("91234567")
	require.NotEmpty(t, code)

	rec, env = app.do(t, http.MethodPost, "/login-otp", "", gin.H{"phone": "91234567", "otp": code})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	claims, err := app.tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "participant", claims.Role)

	rec, env = app.do(t, http.MethodPost, "/login-otp", "", gin.H{"phone": "91234567", "otp": code})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
}

func TestStaffLoginWrongPassword(t *testing.T) {
	app := newTestApp(t)
	app.staffToken(t)

	rec, env := app.do(t, http.MethodPost, "/login", "", gin.H{"email": "siti@centre.org", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
	assert.Empty(t, env.Data)
}

func TestDuplicateVolunteerEmail(t *testing.T) {
	app := newTestApp(t)
	body := gin.H{"full_name": "Ben", "email": "ben@example.com", "password": "pw"}

	rec, _ := app.do(t, http.MethodPost, "/volunteers", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := app.do(t, http.MethodPost, "/volunteers", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email already in use", env.Error)
	assert.Equal(t, 1, app.store.UserCount())
}

func TestEventManagementRequiresStaff(t *testing.T) {
	app := newTestApp(t)
	event := gin.H{"name": "Bingo", "scheduled_at": "2026-12-01T10:00:00Z", "max_participants": 10}

	rec, _ := app.do(t, http.MethodPost, "/events", "", event)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	volunteerToken, err := app.tokens.GenerateToken(99, "volunteer")
	require.NoError(t, err)
	rec, _ = app.do(t, http.MethodPost, "/events", volunteerToken, event)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := app.do(t, http.MethodPost, "/events", app.staffToken(t), event)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotZero(t, decodeID(t, env.Data))
}

func TestRegistrationOverHTTP(t *testing.T) {
	app := newTestApp(t)
	staff := app.staffToken(t)

	rec, env := app.do(t, http.MethodPost, "/events", staff, gin.H{
		"name": "Tea Dance", "scheduled_at": "2026-12-01T10:00:00Z", "max_participants": 1, "max_volunteers": 0,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	eventID := decodeID(t, env.Data)

	var pids []uint
	for _, phone := range []string{"91111111", "92222222"} {
		rec, env = app.do(t, http.MethodPost, "/participants", "", gin.H{"full_name": "P " + phone, "phone": phone, "birthdate": "1945-02-03"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		pids = append(pids, decodeID(t, env.Data))
	}

	rec, env = app.do(t, http.MethodPost, "/participant-events", "", gin.H{"participant_id": pids[0], "event_id": eventID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var reg map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &reg))
	assert.EqualValues(t, pids[0], reg["participant_id"])

	rec, env = app.do(t, http.MethodPost, "/participant-events", "", gin.H{"participant_id": pids[1], "event_id": eventID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error, "limit")

	rec, env = app.do(t, http.MethodGet, "/events/"+jsonNumber(eventID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		ParticipantCount int `json:"participant_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, 1, detail.ParticipantCount)

	rec, env = app.do(t, http.MethodGet, "/participant-events?event_id="+jsonNumber(eventID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	path := "/participant-events/" + jsonNumber(pids[1]) + "/" + jsonNumber(eventID)
	rec, _ = app.do(t, http.MethodDelete, path, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, app.store.RegistrationCount(services.KindParticipant, eventID))

	rec, _ = app.do(t, http.MethodDelete, "/participant-events/abc/1", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAccount(t *testing.T) {
	app := newTestApp(t)
	rec, env := app.do(t, http.MethodPost, "/volunteers", "", gin.H{"full_name": "Ben", "email": "ben@example.com", "password": "pw"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var v struct {
		UserID uint `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &v))

	token, err := app.tokens.GenerateToken(v.UserID, "volunteer")
	require.NoError(t, err)

	rec, _ = app.do(t, http.MethodDelete, "/account", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, app.store.UserCount())

	rec, _ = app.do(t, http.MethodDelete, "/account", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserUpdateOnlySelfUnlessStaff(t *testing.T) {
	app := newTestApp(t)
	rec, env := app.do(t, http.MethodPost, "/volunteers", "", gin.H{"full_name": "Ben", "email": "ben@example.com", "password": "pw"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var v struct {
		UserID uint `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &v))

	other, _ := app.tokens.GenerateToken(v.UserID+100, "volunteer")
	rec, _ = app.do(t, http.MethodPut, "/users/"+jsonNumber(v.UserID), other, gin.H{"full_name": "Hacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	self, _ := app.tokens.GenerateToken(v.UserID, "volunteer")
	rec, env = app.do(t, http.MethodPut, "/users/"+jsonNumber(v.UserID), self, gin.H{"full_name": "Ben Lim"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "Ben Lim")
}

func TestAdminListRequiresStaff(t *testing.T) {
	app := newTestApp(t)

	rec, _ := app.do(t, http.MethodGet, "/participants", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env := app.do(t, http.MethodGet, "/participants", app.staffToken(t), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestOpsEndpoints(t *testing.T) {
	app := newTestApp(t)

	rec, _ := app.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// no database handle in tests
	rec, _ = app.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec, _ = app.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "activityhub_http_requests_total")
}

func TestRequestIDEchoed(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(middleware.RequestIDHeader))

	rec, _ = app.do(t, http.MethodGet, "/health", "", nil)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func jsonNumber(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
