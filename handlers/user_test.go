package handlers

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/spider-mind/spider-mind-api/auth"
	"github.com/spider-mind/spider-mind-api/config"
	"github.com/spider-mind/spider-mind-api/models"
)

func newLoginMux(t *testing.T) *http.ServeMux {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	config.Database = db
	t.Cleanup(func() { config.Database = nil })

	api := &APIHandler{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/token", api.IssueLocalToken)
	return mux
}

func TestIssueLocalToken(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	mux := newLoginMux(t)

	rec, envelope := doJSON(t, mux, http.MethodPost, "/api/auth/token", map[string]any{
		"userId":   "local|u1",
		"nickname": "dev",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, envelope.Success)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "auth_token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "session cookie must be set")
	assert.NoError(t, auth.VerifyToken(cookie.Value))

	var user models.User
	require.NoError(t, config.Database.Where("auth0_id = ?", "local|u1").First(&user).Error)
	assert.Equal(t, "dev", user.Nickname)

	// A repeat login reuses the existing row
	rec, _ = doJSON(t, mux, http.MethodPost, "/api/auth/token", map[string]any{
		"userId": "local|u1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var count int64
	require.NoError(t, config.Database.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIssueLocalToken_RequiresUserID(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	mux := newLoginMux(t)

	rec, envelope := doJSON(t, mux, http.MethodPost, "/api/auth/token", map[string]any{
		"nickname": "dev",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, envelope.Success)
}
