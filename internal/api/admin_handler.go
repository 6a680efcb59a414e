package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"jobboard/internal/api/middleware"
	"jobboard/internal/board"
	"jobboard/internal/listing"
	"jobboard/internal/tasks"
)

// TaskEnqueuer 是 asynq.Client 的最小子集，便于测试替换。
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AdminHandler 处理管理后台接口。
type AdminHandler struct {
	admin        *board.AdminService
	jobs         *board.JobService
	applications *board.ApplicationService
	queue        TaskEnqueuer
}

// NewAdminHandler 构造管理处理器。queue 为 nil 时不清理已删除用户的文件。
func NewAdminHandler(admin *board.AdminService, jobs *board.JobService, applications *board.ApplicationService, queue TaskEnqueuer) *AdminHandler {
	return &AdminHandler{admin: admin, jobs: jobs, applications: applications, queue: queue}
}

func (h *AdminHandler) Users(c *gin.Context) {
	page, err := h.admin.ListUsers(c.Request.Context(), listing.ParsePage(c.Query("page")))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// UpdateRole 修改用户角色。
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id, ok := pathID(c, "User")
	if !ok {
		return
	}
	var req board.RoleRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.admin.UpdateRole(c.Request.Context(), id, req)
	if err != nil {
		WriteError(c, err)
		return
	}
	middleware.LoggerFromContext(c).Info("user role updated",
		slog.Uint64("target_user_id", uint64(user.ID)),
		slog.String("role", user.Role),
	)
	c.JSON(http.StatusOK, user)
}

// DeleteUser 删除用户及其数据，并异步清理其简历文件。
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "User")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user, err := h.admin.DeleteUser(ctx, actor, id)
	if err != nil {
		WriteError(c, err)
		return
	}

	logger := middleware.LoggerFromContext(c).With(slog.Uint64("target_user_id", uint64(user.ID)))
	logger.Info("user deleted")
	if h.queue != nil {
		// 文件清理失败不影响删除结果，只记录日志
		task, err := tasks.NewStoragePurgeUserTask(user.ID, middleware.GetCorrelationID(c))
		if err == nil {
			_, err = h.queue.EnqueueContext(ctx, task)
		}
		if err != nil {
			logger.Error("enqueue storage purge failed", slog.Any("error", err))
		}
	}
	Message(c, http.StatusOK, "User deleted successfully")
}

func (h *AdminHandler) Jobs(c *gin.Context) {
	page, err := h.jobs.ListAll(c.Request.Context(), listing.ParseQuery(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// DeleteJob 删除任意职位。
func (h *AdminHandler) DeleteJob(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Job")
	if !ok {
		return
	}
	if err := h.jobs.Delete(c.Request.Context(), actor, id); err != nil {
		WriteError(c, err)
		return
	}
	Message(c, http.StatusOK, "Job deleted successfully")
}

func (h *AdminHandler) Applications(c *gin.Context) {
	page, err := h.applications.ListAll(c.Request.Context(), listing.ParsePage(c.Query("page")))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AdminHandler) Statistics(c *gin.Context) {
	stats, err := h.admin.Statistics(c.Request.Context())
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
