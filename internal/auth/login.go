package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// LoginHandler issues tokens for the two account shapes the exam hall
// needs. Admins authenticate against the configured bcrypt hash; students
// sign in at the kiosk with their name and registration number, no
// password (the hall invigilator controls physical access).
//
// POST /auth/login  { "username": "...", "password": "...", "role": "admin|student", "name": "..." }
func LoginHandler(a *AuthService, adminUser, adminPassHash string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Role     string `json:"role"`
			Name     string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Username = strings.TrimSpace(req.Username)

		var role string
		switch req.Role {
		case "admin", "teacher":
			if req.Username != adminUser ||
				bcrypt.CompareHashAndPassword([]byte(adminPassHash), []byte(req.Password)) != nil {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			role = req.Role
		case "student", "":
			if req.Username == "" {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			role = "student"
		default:
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		tok, err := a.IssueJWT(req.Username, req.Name, role)
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok, "role": role})
	}
}
