package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sociogram/backend/internal/apperr"
	"github.com/sociogram/backend/internal/domain"
	"github.com/sociogram/backend/internal/dto"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testRefreshExpiry = 7 * 24 * time.Hour

// newAuthRouter mounts the session routes the way the application does,
// including the auth middleware on protected paths.
func newAuthRouter(sessions *sessionServiceStub, users *userServiceStub) *gin.Engine {
	h := NewAuthHandler(sessions, users, testRefreshExpiry)

	router := gin.New()
	group := router.Group("/api/v1/users")
	group.POST("/register", h.Register)
	group.POST("/login", h.Login)
	group.POST("/refresh-token", h.Refresh)
	group.POST("/logout", AuthMiddleware(sessions), h.Logout)
	group.POST("/change-password", AuthMiddleware(sessions), h.ChangePassword)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) dto.Envelope {
	t.Helper()

	var envelope dto.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegister_Created(t *testing.T) {
	users := &userServiceStub{
		registerFn: func(_ context.Context, req *dto.RegisterRequest) (*domain.User, error) {
			return &domain.User{ID: "u1", Username: req.Username, Email: req.Email, FullName: req.FullName}, nil
		},
	}
	router := newAuthRouter(&sessionServiceStub{}, users)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/users/register", dto.RegisterRequest{
		Username: "poster",
		Email:    "poster@example.com",
		Password: "correct-horse-battery",
		FullName: "Post Er",
	}, nil)

	require.Equal(t, http.StatusCreated, rec.Code)

	envelope := decodeEnvelope(t, rec)
	require.Equal(t, http.StatusCreated, envelope.Status)
	require.Equal(t, "user created successfully", envelope.Message)
	require.NotNil(t, envelope.Data)

	require.Nil(t, findCookie(rec.Result().Cookies(), refreshCookieName), "registration must not start a session")
}

func TestRegister_MissingFields(t *testing.T) {
	router := newAuthRouter(&sessionServiceStub{}, &userServiceStub{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/users/register", map[string]string{
		"username": "poster",
	}, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "validation failed", decodeEnvelope(t, rec).Message)
}

func TestRegister_Duplicate(t *testing.T) {
	users := &userServiceStub{
		registerFn: func(_ context.Context, _ *dto.RegisterRequest) (*domain.User, error) {
			return nil, apperr.New(apperr.Conflict, "username or email already in use")
		},
	}
	router := newAuthRouter(&sessionServiceStub{}, users)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/users/register", dto.RegisterRequest{
		Username: "poster",
		Email:    "poster@example.com",
		Password: "correct-horse-battery",
		FullName: "Post Er",
	}, nil)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "username or email already in use", decodeEnvelope(t, rec).Message)
}

func TestLogin_SetsRefreshCookie(t *testing.T) {
	pair := domain.TokenPair{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}
	sessions := &sessionServiceStub{
		loginFn: func(_ context.Context, req *dto.LoginRequest) (*domain.User, domain.TokenPair, error) {
			require.Equal(t, "poster", req.Username)
			return &domain.User{ID: "u1", Username: "poster"}, pair, nil
		},
	}
	router := newAuthRouter(sessions, &userServiceStub{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/users/login", dto.LoginRequest{
		Username: "poster",
		Password: "correct-horse-battery",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(rec.Result().Cookies(), refreshCookieName)
	require.NotNil(t, cookie)
	require.Equal(t, "refresh-token", cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.True(t, cookie.Secure)
	require.Equal(t, refreshCookiePath, cookie.Path)

	envelope := decodeEnvelope(t, rec)
	payload, err := json.Marshal(envelope.Data)
	require.NoError(t, err)

	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(payload, &login))
	require.Equal(t, "access-token", login.AccessToken)
	require.Equal(t, "Bearer", login.TokenType)
	require.Equal(t, 900, login.ExpiresIn)
}

func TestLogin_BadCredentials(t *testing.T) {
	sessions := &sessionServiceStub{
		loginFn: func(_ context.Context, _ *dto.LoginRequest) (*domain.User, domain.TokenPair, error) {
			return nil, domain.TokenPair{}, apperr.New(apperr.Unauthorized, "invalid credentials")
		},
	}
	router := newAuthRouter(sessions, &userServiceStub{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/users/login", dto.LoginRequest{
		Username: "poster",
		Password: "wrong",
	}, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid credentials", decodeEnvelope(t, rec).Message)
}

func TestRefresh_FromCookie(t *testing.T) {
	sessions := &sessionServiceStub{
		refreshFn: func(_ context.Context, refreshToken string) (domain.TokenPair, error) {
			require.Equal(t, "old-refresh", refreshToken)
			return domain.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh", TokenType: "Bearer", ExpiresIn: 900}, nil
		},
	}
	router := newAuthRouter(sessions, &userServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookieName, Value: "old-refresh"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(rec.Result().Cookies(), refreshCookieName)
	require.NotNil(t, cookie)
	require.Equal(t, "new-refresh", cookie.Value)
}

func TestRefresh_FromBody(t *testing.T) {
	sessions := &sessionServiceStub{
		refreshFn: func(_ context.Context, refreshToken string) (domain.TokenPair, error) {
			require.Equal(t, "body-refresh", refreshToken)
			return domain.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh", TokenType: "Bearer", ExpiresIn: 900}, nil
		},
	}
	router := newAuthRouter(sessions, &userServiceStub{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/users/refresh-token", dto.RefreshRequest{RefreshToken: "body-refresh"}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRefresh_ReusedToken(t *testing.T) {
	sessions := &sessionServiceStub{
		refreshFn: func(_ context.Context, _ string) (domain.TokenPair, error) {
			return domain.TokenPair{}, apperr.New(apperr.Unauthorized, "refresh token expired or reused")
		},
	}
	router := newAuthRouter(sessions, &userServiceStub{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/users/refresh-token", dto.RefreshRequest{RefreshToken: "stale"}, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "refresh token expired or reused", decodeEnvelope(t, rec).Message)
}

func TestLogout_ClearsSessionAndCookie(t *testing.T) {
	var loggedOut string
	sessions := &sessionServiceStub{
		validateFn: staticClaims("access-token", "u1"),
		logoutFn: func(_ context.Context, userID string) error {
			loggedOut = userID
			return nil
		},
	}
	router := newAuthRouter(sessions, &userServiceStub{})

	header := http.Header{"Authorization": []string{"Bearer access-token"}}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/users/logout", nil, header)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "u1", loggedOut)

	cookie := findCookie(rec.Result().Cookies(), refreshCookieName)
	require.NotNil(t, cookie)
	require.Empty(t, cookie.Value)
	require.Negative(t, cookie.MaxAge)
}

func TestLogout_RequiresToken(t *testing.T) {
	router := newAuthRouter(&sessionServiceStub{}, &userServiceStub{})

	rec := doJSON(t, router, http.MethodPost, "/api/v1/users/logout", nil, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "authorization header is required", decodeEnvelope(t, rec).Message)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	sessions := &sessionServiceStub{
		validateFn: staticClaims("access-token", "u1"),
		changePasswordFn: func(_ context.Context, _, _, _ string) error {
			return apperr.New(apperr.Unauthorized, "current password is incorrect")
		},
	}
	router := newAuthRouter(sessions, &userServiceStub{})

	header := http.Header{"Authorization": []string{"Bearer access-token"}}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/users/change-password", dto.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "even-more-correct-horse",
	}, header)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "current password is incorrect", decodeEnvelope(t, rec).Message)
}

func TestChangePassword_Success(t *testing.T) {
	var got [3]string
	sessions := &sessionServiceStub{
		validateFn: staticClaims("access-token", "u1"),
		changePasswordFn: func(_ context.Context, userID, current, next string) error {
			got = [3]string{userID, current, next}
			return nil
		},
	}
	router := newAuthRouter(sessions, &userServiceStub{})

	header := http.Header{"Authorization": []string{"Bearer access-token"}}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/users/change-password", dto.ChangePasswordRequest{
		CurrentPassword: "correct-horse-battery",
		NewPassword:     "even-more-correct-horse",
	}, header)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, [3]string{"u1", "correct-horse-battery", "even-more-correct-horse"}, got)
}
