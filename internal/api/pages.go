package api

import (
	"net/http"                         // HTTP status codes
	"tarot_portal/internal/middleware" // Current user lookup

	"github.com/gin-gonic/gin" // Gin web framework
)

// render executes a page template with the title and current user filled in
func render(c *gin.Context, status int, page, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	if user, ok := middleware.CurrentUser(c); ok {
		data["User"] = user // Anonymous pages leave User unset
	}
	c.HTML(status, page, data)
}

// UnavailableHandler renders the error page when a request cannot be served
// because a backend is down
func UnavailableHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, http.StatusServiceUnavailable, "error.html", "Unavailable", gin.H{"Error": msgUnexpected})
	}
}

// PageHandler renders a content page that is open to everyone
func PageHandler(page, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, http.StatusOK, page, title, nil)
	}
}

// ReadingHandler renders the reading page. The key is only handed to the page
// when one is configured; otherwise the feature is shown as unavailable.
func ReadingHandler(aiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := gin.H{"ReadingEnabled": aiKey != ""}
		if aiKey != "" {
			data["AIKey"] = aiKey
		}
		render(c, http.StatusOK, "reading.html", "Reading", data)
	}
}
