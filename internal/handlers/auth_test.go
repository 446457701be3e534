package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkotelnikov/webshop/internal/hash"
	"github.com/mkotelnikov/webshop/internal/models"
)

func TestRegister(t *testing.T) {
	db := initTestDB(t)
	h := &AuthHandler{DB: db, JWTSecret: []byte("test-secret")}

	payload := map[string]string{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "secret123",
	}
	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/auth/register", payload)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "test@example.com", resp.Email)
	assert.Equal(t, "user", resp.Role)

	var user models.User
	require.NoError(t, db.First(&user, resp.ID).Error)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	// same email again
	_, c = doJSONRequest(t, http.MethodPost, "/api/v1/auth/register", payload)
	he := httpError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestRegister_RejectsUnknownRole(t *testing.T) {
	db := initTestDB(t)
	h := &AuthHandler{DB: db, JWTSecret: []byte("test-secret")}

	_, c := doJSONRequest(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    "x@example.com",
		"password": "secret123",
		"role":     "superuser",
	})
	he := httpError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestLogin(t *testing.T) {
	db := initTestDB(t)
	h := &AuthHandler{DB: db, JWTSecret: []byte("test-secret")}

	pwHash, err := hash.HashPassword("secret123")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{Name: "u", Email: "u@example.com", PasswordHash: pwHash, Role: "user"}).Error)

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "u@example.com",
		"password": "secret123",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)

	// wrong password
	_, c = doJSONRequest(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "u@example.com",
		"password": "wrong",
	})
	he := httpError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	db := initTestDB(t)
	h := &AuthHandler{DB: db, JWTSecret: []byte("test-secret")}

	_, c := doJSONRequest(t, http.MethodPost, "/api/v1/auth/forgot-password", map[string]string{
		"email": "nobody@example.com",
	})
	he := httpError(t, h.ForgotPassword(c))
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestResetPassword(t *testing.T) {
	db := initTestDB(t)
	h := &AuthHandler{DB: db, JWTSecret: []byte("test-secret")}

	pwHash, err := hash.HashPassword("oldpass1")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{Name: "u", Email: "u@example.com", PasswordHash: pwHash, Role: "user"}).Error)

	token := uuid.NewString()
	require.NoError(t, db.Create(&models.PasswordResetToken{
		UserID:    1,
		Token:     token,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}).Error)

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/auth/reset-password", map[string]string{
		"token":        token,
		"new_password": "newpass1",
	})
	require.NoError(t, h.ResetPassword(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, db.First(&user, 1).Error)
	assert.True(t, hash.CheckPassword(user.PasswordHash, "newpass1"))

	// the token is single-use
	_, c = doJSONRequest(t, http.MethodPost, "/api/v1/auth/reset-password", map[string]string{
		"token":        token,
		"new_password": "another1",
	})
	he := httpError(t, h.ResetPassword(c))
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	db := initTestDB(t)
	h := &AuthHandler{DB: db, JWTSecret: []byte("test-secret")}

	require.NoError(t, db.Create(&models.User{Name: "u", Email: "u@example.com", PasswordHash: "x", Role: "user"}).Error)

	token := uuid.NewString()
	require.NoError(t, db.Create(&models.PasswordResetToken{
		UserID:    1,
		Token:     token,
		ExpiresAt: time.Now().Add(-time.Minute),
	}).Error)

	_, c := doJSONRequest(t, http.MethodPost, "/api/v1/auth/reset-password", map[string]string{
		"token":        token,
		"new_password": "newpass1",
	})
	he := httpError(t, h.ResetPassword(c))
	assert.Equal(t, http.StatusBadRequest, he.Code)
}
