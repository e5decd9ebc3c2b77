package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/usermgmt/admin-web/internal/auditlog"
	"github.com/usermgmt/admin-web/internal/dto"
	"github.com/usermgmt/admin-web/internal/models"
	"github.com/usermgmt/admin-web/internal/service"
	appErrors "github.com/usermgmt/admin-web/pkg/errors"
	"github.com/usermgmt/admin-web/pkg/render"
)

// LogHandler serves the aggregate audit trail page.
type LogHandler struct {
	logs   *service.LogService
	users  *service.UserService
	sink   *auditlog.Sink
	logger *zap.Logger
}

// NewLogHandler creates a new log handler.
func NewLogHandler(logs *service.LogService, users *service.UserService, sink *auditlog.Sink, logger *zap.Logger) *LogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogHandler{logs: logs, users: users, sink: sink, logger: logger}
}

// Register mounts the log routes on the router group.
func (h *LogHandler) Register(r *gin.RouterGroup) {
	r.GET("/List", h.List)
}

// List renders every log entry with its associated user resolved. User
// lookups fan out concurrently; output order always matches log order.
func (h *LogHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	h.logger.Info("retrieving all logs")

	logs, err := h.logs.GetAll(ctx)
	if err != nil {
		h.logger.Error("failed to load logs", zap.Error(err))
		render.Error(c, err)
		return
	}

	results := make([]dto.LogViewModel, len(logs))
	g, gctx := errgroup.WithContext(ctx)
	for i, l := range logs {
		i, l := i, l
		g.Go(func() error {
			vm := dto.LogFromModel(l)
			if l.UserID != nil {
				scoped := auditlog.WithScope(gctx, *l.UserID, models.EventFetchUser)
				h.sink.Debug(scoped, models.EventFetchUser, "Fetching user: %d", *l.UserID)

				user, err := h.users.Get(gctx, *l.UserID)
				switch {
				case err == nil:
					uvm := dto.UserFromModel(*user)
					vm.User = &uvm
				case appErrors.FromError(err).Status == http.StatusNotFound:
					// Deleted users leave orphaned logs; render without one.
				default:
					return err
				}
			}
			results[i] = vm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.logger.Error("failed to resolve log users", zap.Error(err))
		render.Error(c, err)
		return
	}

	render.HTML(c, http.StatusOK, "logs_list.html", dto.LogListViewModel{Logs: results})
}
