package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"feedback-backend/internal/models"
	"feedback-backend/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"
	"golang.org/x/crypto/bcrypt"
)

// maxUploadSize bounds multipart parsing for profile picture uploads.
const maxUploadSize = 10 << 20 // 10 MiB

type AdminHandler struct {
	adminStore AdminStore
	tokenStore ResetTokenStore
	blobs      storage.BlobStore
	jwtSecret  string
}

func NewAdminHandler(adminStore AdminStore, tokenStore ResetTokenStore, blobs storage.BlobStore, jwtSecret string) *AdminHandler {
	return &AdminHandler{
		adminStore: adminStore,
		tokenStore: tokenStore,
		blobs:      blobs,
		jwtSecret:  jwtSecret,
	}
}

// --- POST /api/admin/register ---

func (h *AdminHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	if email == "" || password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	existing, err := h.adminStore.FindByEmail(r.Context(), email)
	if err != nil {
		log.Printf("Registration error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	if existing != nil {
		writeMessage(w, http.StatusBadRequest, "Admin already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Registration error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	// Profile picture is optional.
	var profilePicture string
	if file, header, err := r.FormFile("profilePicture"); err == nil {
		defer file.Close()
		profilePicture, err = h.blobs.Save(header.Filename, file)
		if err != nil {
			log.Printf("Error storing profile picture: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Server error")
			return
		}
	}

	admin := &models.Admin{
		Email:          email,
		Password:       string(hashed),
		ProfilePicture: profilePicture,
	}
	if err := h.adminStore.Create(r.Context(), admin); err != nil {
		log.Printf("Registration error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeMessage(w, http.StatusCreated, "Admin registered successfully")
}

// --- POST /api/admin/login ---

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	Admin *models.Admin `json:"admin"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	admin, err := h.adminStore.FindByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("Login error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	if admin == nil {
		writeMessage(w, http.StatusBadRequest, "Admin not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": admin.Email,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	})
	tokenString, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		log.Printf("Error signing JWT: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: tokenString, Admin: admin})
}

// --- GET /api/admin/profile/{email} ---

func (h *AdminHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	admin, err := h.adminStore.FindByEmail(r.Context(), email)
	if err != nil {
		log.Printf("Error fetching profile: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	if admin == nil {
		writeMessage(w, http.StatusNotFound, "Admin not found")
		return
	}

	writeJSON(w, http.StatusOK, admin)
}

// --- POST /api/admin/check-old-password ---

type CheckOldPasswordRequest struct {
	Email       string `json:"email"`
	OldPassword string `json:"oldPassword"`
}

func (h *AdminHandler) CheckOldPassword(w http.ResponseWriter, r *http.Request) {
	var req CheckOldPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	admin, err := h.adminStore.FindByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("Error verifying password: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	if admin == nil {
		writeMessage(w, http.StatusNotFound, "Admin not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.OldPassword)); err != nil {
		writeMessage(w, http.StatusBadRequest, "Incorrect password")
		return
	}

	writeMessage(w, http.StatusOK, "Password verified")
}

// --- PUT /api/admin/update-admin-profile ---

func (h *AdminHandler) UpdateAdminProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	email := r.FormValue("email")
	oldPassword := r.FormValue("oldPassword")
	newPassword := r.FormValue("newPassword")

	admin, err := h.adminStore.FindByEmail(r.Context(), email)
	if err != nil {
		log.Printf("Error updating profile: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	if admin == nil {
		writeMessage(w, http.StatusNotFound, "Admin not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(oldPassword)); err != nil {
		writeMessage(w, http.StatusBadRequest, "Incorrect old password")
		return
	}

	if strings.TrimSpace(newPassword) != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Error updating profile: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Server error")
			return
		}
		admin.Password = string(hashed)
	}

	if file, header, err := r.FormFile("profilePicture"); err == nil {
		defer file.Close()
		newPath, err := h.blobs.Save(header.Filename, file)
		if err != nil {
			log.Printf("Error storing profile picture: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Server error")
			return
		}
		// Best-effort cleanup of the replaced picture.
		if admin.ProfilePicture != "" {
			if err := h.blobs.Remove(admin.ProfilePicture); err != nil {
				log.Printf("Error deleting old profile picture: %v", err)
			}
		}
		admin.ProfilePicture = newPath
	}

	if err := h.adminStore.Update(r.Context(), admin); err != nil {
		log.Printf("Error updating profile: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":        "Profile updated successfully",
		"profilePicture": admin.ProfilePicture,
	})
}

// --- POST /api/admin/forgot-password ---

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *AdminHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		writeMessage(w, http.StatusBadRequest, "email is required")
		return
	}

	// Rate limiting: max 5 requests per email in 10 minutes
	count, err := h.tokenStore.CountRecentByEmail(r.Context(), req.Email, 10*time.Minute)
	if err != nil {
		log.Printf("Error checking rate limit: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	if count >= 5 {
		writeMessage(w, http.StatusTooManyRequests, "too many reset requests, please try again later")
		return
	}

	admin, err := h.adminStore.FindByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("Error finding admin: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	if admin == nil {
		// Do not reveal whether the account exists.
		writeMessage(w, http.StatusOK, "if the account exists, a reset link has been sent")
		return
	}

	resetToken := &models.ResetToken{
		Email:     req.Email,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(15 * time.Minute),
		IsUsed:    false,
	}
	if err := h.tokenStore.Create(r.Context(), resetToken); err != nil {
		log.Printf("Error creating reset token: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	if err := sendResetEmail(req.Email, resetToken.Token); err != nil {
		log.Printf("Error sending email: %v", err)
		// Don't fail the request — token is created, email sending is best-effort
	}

	writeMessage(w, http.StatusOK, "if the account exists, a reset link has been sent")
}

// --- POST /api/admin/reset-password ---

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		writeMessage(w, http.StatusBadRequest, "token and newPassword are required")
		return
	}

	resetToken, err := h.tokenStore.FindByToken(r.Context(), req.Token)
	if err != nil {
		log.Printf("Error finding reset token: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	if resetToken == nil {
		writeMessage(w, http.StatusUnauthorized, "invalid token")
		return
	}
	if resetToken.IsExpired() {
		writeMessage(w, http.StatusUnauthorized, "token has expired")
		return
	}
	if resetToken.IsUsed {
		writeMessage(w, http.StatusUnauthorized, "token has already been used")
		return
	}

	admin, err := h.adminStore.FindByEmail(r.Context(), resetToken.Email)
	if err != nil {
		log.Printf("Error finding admin: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	if admin == nil {
		writeMessage(w, http.StatusNotFound, "Admin not found")
		return
	}

	if err := h.tokenStore.MarkUsed(r.Context(), req.Token); err != nil {
		log.Printf("Error marking token as used: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	admin.Password = string(hashed)

	if err := h.adminStore.Update(r.Context(), admin); err != nil {
		log.Printf("Error updating password: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeMessage(w, http.StatusOK, "password has been reset")
}

// --- Helpers ---

func sendResetEmail(to, token string) error {
	apiKey := os.Getenv("RESEND_API_KEY")
	fromEmail := os.Getenv("FROM_EMAIL")

	if apiKey == "" {
		log.Println("⚠️  RESEND_API_KEY not set, skipping email send")
		log.Printf("📧 [Dev Mode] Reset token for %s: %s", to, token)
		return nil
	}

	client := resend.NewClient(apiKey)

	params := &resend.SendEmailRequest{
		From:    fromEmail,
		To:      []string{to},
		Subject: "Reset your admin password",
		Html: fmt.Sprintf(`
			<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;">
				<h2 style="color: #333;">Password reset requested</h2>
				<p>Use the token below to reset your admin password:</p>
				<p style="font-family: monospace; font-size: 18px; background: #f3f4f6; padding: 12px; border-radius: 8px;">%s</p>
				<p style="color: #888; font-size: 14px; margin-top: 16px;">
					This token expires in 15 minutes and can only be used once.
				</p>
				<p style="color: #aaa; font-size: 12px;">
					If you didn't request this, you can safely ignore this email.
				</p>
			</div>
		`, token),
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("📧 Reset email sent successfully (ID: %s)", sent.Id)
	return nil
}
