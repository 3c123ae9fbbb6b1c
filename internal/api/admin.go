package api

import (
	"net/http"                         // HTTP status codes
	"tarot_portal/internal/repository" // Account store

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// AdminHandler renders the admin page for the logged in user
func AdminHandler(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Total registered users, shown as "-" if the count fails
		var userCount any = "-"
		if total, err := users.Count(c.Request.Context()); err == nil {
			userCount = total
		} else {
			logrus.WithField("error", err.Error()).Error("Failed to count users")
		}
		render(c, http.StatusOK, "admin.html", "Admin", gin.H{"UserCount": userCount})
	}
}
