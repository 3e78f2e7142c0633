package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/spider-mind/spider-mind-api/auth"
	"github.com/spider-mind/spider-mind-api/config"
	"github.com/spider-mind/spider-mind-api/models"
)

type localLoginRequest struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
}

// POST /api/auth/token
//
// Issues a local HS256 session cookie for deployments running without an
// Auth0 tenant. The user row is created on first login.
func (h *APIHandler) IssueLocalToken(w http.ResponseWriter, r *http.Request) {
	if config.Database == nil {
		writeError(w, http.StatusInternalServerError, "Database connection not initialized")
		log.Println("Error: Database connection is nil")
		return
	}

	var requestData localLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if requestData.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	var user models.User
	result := config.Database.Where("auth0_id = ?", requestData.UserID).First(&user)
	if result.Error != nil {
		user = models.User{
			Auth0ID:  requestData.UserID,
			Nickname: requestData.Nickname,
		}
		if createResult := config.Database.Create(&user); createResult.Error != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create user")
			log.Println("Database creation error:", createResult.Error)
			return
		}
		log.Printf("Created new user: %s\n", user.Auth0ID)
	}

	tokenString, err := auth.CreateToken(user.Auth0ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		log.Println("Token generation error:", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    tokenString,
		Path:     "/",
		Domain:   config.Env.Domain,
		HttpOnly: true,
		Secure:   config.Env.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours
	})

	writeMessage(w, http.StatusOK, map[string]any{"token": tokenString}, "Token issued")
}
