package render

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/usermgmt/admin-web/pkg/errors"
)

// HTML renders a template with the common cache headers set.
func HTML(c *gin.Context, status int, name string, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.HTML(status, name, data)
}

// Redirect issues a see-other redirect so a form POST lands on a GET.
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// NotFound responds with a plain 404 message.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "resource not found"
	}
	c.String(http.StatusNotFound, message)
}

// Error converts an error to the matching HTTP response.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status == http.StatusNotFound {
		NotFound(c, appErr.Message)
		return
	}
	c.String(appErr.Status, appErr.Message)
}
