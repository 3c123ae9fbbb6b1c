package api

import (
	"fmt"                              // Error wrapping
	"tarot_portal/internal/middleware" // Session middleware
	"tarot_portal/internal/repository" // Account store
	"tarot_portal/internal/service"    // Account service
	"tarot_portal/internal/session"    // Session gateway
	"tarot_portal/internal/web"        // Page templates

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Deps are the collaborators the HTTP layer needs
type Deps struct {
	Accounts      service.AccountService    // Registration and login
	Users         repository.UserRepository // Account store
	Sessions      *session.Gateway          // Session gateway
	DB            *gorm.DB                  // Database, for health checks
	Redis         *redis.Client             // Session store client, for health checks
	AIKey         string                    // Reading page key, empty disables the feature
	SecureCookies bool                      // Mark cookies Secure (production)
}

// NewRouter builds the gin engine with every route registered.
// It fails when the embedded templates do not parse.
func NewRouter(d Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates() // Parse embedded templates
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.Default() // Gin router instance with logger and recovery
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	if d.DB != nil && d.Redis != nil {
		r.GET("/healthz", HealthHandler(d.DB, d.Redis)) // Liveness endpoint
	}

	// Every page sees the current user, if any
	r.Use(middleware.LoadSession(d.Sessions, d.SecureCookies))

	// Registration routes
	r.GET("/register", RegisterFormHandler())      // Registration form
	r.POST("/user", CreateUserHandler(d.Accounts)) // Registration endpoint
	r.GET("/thank-you", ThankYouHandler())         // Registration confirmation

	// Login routes
	r.GET("/login", LoginFormHandler())                                     // Login form
	r.POST("/login", LoginHandler(d.Accounts, d.Sessions, d.SecureCookies)) // Credential submission

	// Content pages, open to everyone
	r.GET("/", PageHandler("home.html", "Home"))                 // Home page
	r.GET("/reading", ReadingHandler(d.AIKey))                   // Reading page
	r.GET("/cards", PageHandler("cards.html", "Cards"))          // Cards page
	r.GET("/guidance", PageHandler("guidance.html", "Guidance")) // Guidance page

	// Routes that need a session
	authed := r.Group("")
	authed.Use(middleware.RequireLogin(UnavailableHandler()))
	authed.GET("/logout", LogoutHandler(d.Sessions, d.SecureCookies)) // Logout endpoint
	authed.GET("/admin", AdminHandler(d.Users))                       // Admin page

	return r, nil
}
