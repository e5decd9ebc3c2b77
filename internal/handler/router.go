package handler

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/usermgmt/admin-web/internal/middleware"
	"github.com/usermgmt/admin-web/internal/service"
	"github.com/usermgmt/admin-web/pkg/logger"
	"github.com/usermgmt/admin-web/pkg/middleware/requestid"
)

// TemplateFuncs are the helpers available to all views.
var TemplateFuncs = template.FuncMap{
	"fmtTime": func(t time.Time) string {
		return t.Format("02/01/2006 15:04:05")
	},
}

// NewRouter assembles the gin engine with middleware, views and routes.
func NewRouter(templatesGlob string, users *UserHandler, logs *LogHandler, metrics *service.MetricsService, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(middleware.Metrics(metrics))

	r.SetFuncMap(TemplateFuncs)
	r.LoadHTMLGlob(templatesGlob)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/users/list")
	})

	users.Register(r.Group("/users"))
	logs.Register(r.Group("/Logs"))

	return r
}
