package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"terravista/api/middleware"
	"terravista/api/models"
	"terravista/api/store"
	"terravista/api/utils"
)

type AuthHandlers struct {
	UserStore    *store.UserStore
	SessionStore *store.SessionStore
}

func NewAuthHandlers(userStore *store.UserStore, sessionStore *store.SessionStore) *AuthHandlers {
	return &AuthHandlers{UserStore: userStore, SessionStore: sessionStore}
}

func (h *AuthHandlers) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	_, err := h.UserStore.GetUserByUsername(c.Request.Context(), req.Username)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this username already exists"})
		return
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		log.Printf("ERROR: Database error during signup check: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check user existence"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("ERROR: Failed to hash password for %s: %v", req.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	user, err := h.UserStore.CreateUser(c.Request.Context(), req.Username, req.Email, hashedPassword)
	if err != nil {
		log.Printf("ERROR: Failed to create user %s: %v", req.Username, err)
		if strings.Contains(err.Error(), "already exists") {
			c.JSON(http.StatusConflict, gin.H{"error": "User with this username already exists"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		}
		return
	}

	log.Printf("User registered: ID=%d, Username=%s", user.ID, user.Username)
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "username": user.Username})
}

// Login authenticates a user, opens a tracking session, and issues the JWT
// cookie.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.UserStore.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		log.Printf("Login failed for %s: %v", req.Username, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(req.Password)); err != nil {
		log.Printf("Login failed for %s: password mismatch", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	// Open the tracking session. A failure here degrades to an untracked
	// login rather than blocking authentication.
	sessionID := ""
	session, err := h.SessionStore.CreateSession(
		c.Request.Context(),
		strconv.Itoa(user.ID),
		user.Username,
		c.ClientIP(),
		c.Request.UserAgent(),
	)
	if err != nil {
		log.Printf("WARNING: Failed to create tracking session for %s: %v", user.Username, err)
	} else {
		sessionID = session.SessionID
	}

	tokenString, err := utils.GenerateJWT(user, sessionID)
	if err != nil {
		log.Printf("ERROR: Failed to generate JWT for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	c.SetCookie(
		"jwt_token",
		tokenString,
		int(24*time.Hour/time.Second),
		"/",
		"",
		false,
		true,
	)

	log.Printf("User logged in: ID=%d, Username=%s", user.ID, user.Username)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Login successful",
		"username": user.Username,
	})
}

// Logout ends the tracking session (when one is attached to the token) and
// clears the JWT cookie.
func (h *AuthHandlers) Logout(c *gin.Context) {
	if tokenString, err := c.Cookie("jwt_token"); err == nil {
		if claims, err := utils.ValidateJWT(tokenString); err == nil && claims.SessionID != "" {
			if err := h.SessionStore.EndSession(c.Request.Context(), claims.SessionID); err != nil {
				log.Printf("WARNING: Failed to end session %s: %v", claims.SessionID, err)
			}
		}
	}

	c.SetCookie(
		"jwt_token",
		"",
		-1,
		"/",
		"",
		false,
		true,
	)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Profile returns the authenticated user's account record.
func (h *AuthHandlers) Profile(c *gin.Context) {
	userID := c.GetInt(middleware.CtxUserID)

	user, err := h.UserStore.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("ERROR: Failed to load profile for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       user,
		"ip_address": c.ClientIP(),
	})
}
