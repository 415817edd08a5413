// handlers/auth.go
package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"p9e.in/fuelpos/config"
	"p9e.in/fuelpos/middleware"
	"p9e.in/fuelpos/models"
)

type registerReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

type userPayload struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"fullName"`
	Role     string    `json:"role"`
}

func Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if !decodeJSON(w, r, &req) {
		return
	}

	var errs []string
	if strings.TrimSpace(req.Username) == "" {
		errs = append(errs, "Username is required")
	}
	if len(req.Password) < 6 {
		errs = append(errs, "Password must be at least 6 characters")
	}
	if strings.TrimSpace(req.FullName) == "" {
		errs = append(errs, "Full name is required")
	}
	if !models.ValidRole(req.Role) {
		errs = append(errs, "Invalid role")
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	u := models.User{
		Username: strings.ToLower(strings.TrimSpace(req.Username)),
		FullName: strings.TrimSpace(req.FullName),
		Role:     req.Role,
		IsActive: true,
	}
	if err := u.SetPassword(req.Password); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	if err := config.DB.Create(&u).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate key") {
			writeMessage(w, http.StatusConflict, "Username already taken")
		} else {
			log.Printf("Register error: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Server error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, userPayload{ID: u.ID, Username: u.Username, FullName: u.FullName, Role: u.Role})
}

func Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decodeJSON(w, r, &req) {
		return
	}

	var u models.User
	if err := config.DB.Where("username = ?", strings.ToLower(req.Username)).First(&u).Error; err != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !u.IsActive {
		writeMessage(w, http.StatusUnauthorized, "Account is disabled")
		return
	}
	if !u.CheckPassword(req.Password) {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := middleware.GenerateToken(u.ID.String(), u.Role, u.Username, u.FullName)
	if err != nil {
		log.Printf("Login token error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Couldn't create token")
		return
	}

	writeJSON(w, http.StatusOK, loginResp{
		Token: token,
		User:  userPayload{ID: u.ID, Username: u.Username, FullName: u.FullName, Role: u.Role},
	})
}

// Profile returns the authenticated caller's account.
func Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	writeJSON(w, http.StatusOK, user)
}
