package api

import (
	"errors"                           // Error inspection
	"net/http"                         // HTTP status codes
	"net/url"                          // Query string encoding
	"tarot_portal/internal/middleware" // Session cookie helpers
	"tarot_portal/internal/service"    // Account service
	"tarot_portal/internal/session"    // Session gateway

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// User-facing registration messages
const (
	msgMissingField       = "All fields are required"
	msgEmailExists        = "Email already exists"
	msgValidation         = "Validation error"
	msgUnexpected         = "Something went wrong"
	msgInvalidCredentials = "Invalid credentials"
)

// RegisterForm is the form posted to /user
type RegisterForm struct {
	Name     string `form:"name"`     // Display name
	Email    string `form:"email"`    // Login identifier
	Phone    string `form:"phone"`    // Phone number
	Password string `form:"password"` // Plaintext password, hashed by the service
}

// LoginForm is the form posted to /login
type LoginForm struct {
	Email    string `form:"email"`    // Login identifier
	Password string `form:"password"` // Plaintext password
}

// registrationMessage maps a registration error to the message shown on the form
func registrationMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrMissingField):
		return msgMissingField
	case errors.Is(err, service.ErrEmailExists):
		return msgEmailExists
	case errors.Is(err, service.ErrValidation):
		return msgValidation
	default:
		return msgUnexpected
	}
}

// redirectWithQuery redirects to path with a single query parameter
func redirectWithQuery(c *gin.Context, path, key, value string) {
	c.Redirect(http.StatusFound, path+"?"+url.Values{key: {value}}.Encode())
}

// RegisterFormHandler renders the registration form with an optional error
func RegisterFormHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, http.StatusOK, "register.html", "Register", gin.H{"Error": c.Query("error")})
	}
}

// CreateUserHandler registers a new user from the submitted form
func CreateUserHandler(accounts service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form RegisterForm // Bind form to struct
		if err := c.ShouldBind(&form); err != nil {
			// Unreadable body, nothing to register
			redirectWithQuery(c, "/register", "error", msgMissingField)
			return
		}
		user, err := accounts.Register(c.Request.Context(), service.RegisterInput{
			Name:     form.Name,
			Email:    form.Email,
			Phone:    form.Phone,
			Password: form.Password,
		})
		if err != nil {
			msg := registrationMessage(err)
			entry := logrus.WithFields(logrus.Fields{
				"email":  form.Email, // Submitted email
				"reason": msg,        // Message shown to the visitor
			})
			if msg == msgUnexpected {
				entry.WithField("error", err.Error()).Error("Registration failed")
			} else {
				entry.Info("Registration rejected")
			}
			redirectWithQuery(c, "/register", "error", msg)
			return
		}
		// Log successful registration
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,    // New user ID
			"email":   user.Email, // Registered email
		}).Info("User registered")
		redirectWithQuery(c, "/thank-you", "name", user.Name)
	}
}

// ThankYouHandler renders the registration confirmation page
func ThankYouHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, http.StatusOK, "thank_you.html", "Thank you", gin.H{"Name": c.Query("name")})
	}
}

// LoginFormHandler renders the login form, or sends logged in users on to /admin
func LoginFormHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := middleware.CurrentUser(c); ok {
			c.Redirect(http.StatusFound, "/admin") // Already logged in
			return
		}
		render(c, http.StatusOK, "login.html", "Log in", nil)
	}
}

// LoginHandler verifies credentials and establishes a session
func LoginHandler(accounts service.AccountService, sessions *session.Gateway, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form LoginForm // Bind form to struct
		if err := c.ShouldBind(&form); err != nil {
			render(c, http.StatusOK, "login.html", "Log in", gin.H{"Error": msgInvalidCredentials})
			return
		}
		ctx := c.Request.Context()
		user, err := accounts.Authenticate(ctx, form.Email, form.Password)
		if err != nil {
			// Same message for unknown email and wrong password
			logrus.WithField("email", form.Email).Info("Login failed")
			render(c, http.StatusOK, "login.html", "Log in", gin.H{"Error": msgInvalidCredentials})
			return
		}
		token, err := sessions.Establish(ctx, user)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // Authenticated user
				"error":   err.Error(), // Error message
			}).Error("Failed to establish session")
			render(c, http.StatusServiceUnavailable, "login.html", "Log in", gin.H{"Error": msgUnexpected})
			return
		}
		// Replace any session this client already had
		if previous := middleware.SessionToken(c); previous != "" {
			_ = sessions.Terminate(ctx, previous)
		}
		middleware.SetSessionCookie(c, token, sessions.TTL(), secure)
		logrus.WithField("user_id", user.ID).Info("User logged in")
		c.Redirect(http.StatusFound, "/admin")
	}
}

// LogoutHandler terminates the current session and returns to the login page.
// The cookie is kept when the session could not be removed, so the visitor can retry.
func LogoutHandler(sessions *session.Gateway, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sessions.Terminate(c.Request.Context(), middleware.SessionToken(c)); err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to terminate session")
			render(c, http.StatusServiceUnavailable, "error.html", "Unavailable", gin.H{"Error": msgUnexpected})
			return
		}
		if user, ok := middleware.CurrentUser(c); ok {
			logrus.WithField("user_id", user.ID).Info("User logged out")
		}
		middleware.ClearSessionCookie(c, secure)
		c.Redirect(http.StatusFound, "/login")
	}
}
