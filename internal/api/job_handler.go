package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/internal/api/middleware"
	"jobboard/internal/board"
	"jobboard/internal/listing"
)

// JobHandler 处理公开职位列表与雇主的职位管理。
type JobHandler struct {
	jobs *board.JobService
}

func NewJobHandler(jobs *board.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// Index 公开列出在招职位，支持搜索、筛选、排序与分页。
func (h *JobHandler) Index(c *gin.Context) {
	page, err := h.jobs.ListPublic(c.Request.Context(), listing.ParseQuery(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Show 返回单个在招职位。
func (h *JobHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "Job")
	if !ok {
		return
	}
	job, err := h.jobs.Show(c.Request.Context(), id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Store 发布职位，发布者始终是当前雇主。
func (h *JobHandler) Store(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req board.JobRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.jobs.Create(c.Request.Context(), actor, req)
	if err != nil {
		WriteError(c, err)
		return
	}
	middleware.LoggerFromContext(c).Info("job created", slog.Uint64("job_id", uint64(job.ID)))
	c.JSON(http.StatusCreated, job)
}

// Update 部分更新自己发布的职位。
func (h *JobHandler) Update(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Job")
	if !ok {
		return
	}
	var req board.JobRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.jobs.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Destroy 删除自己发布的职位及其申请和收藏。
func (h *JobHandler) Destroy(c *gin.Context) {
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
	middleware.LoggerFromContext(c).Info("job deleted", slog.Uint64("job_id", uint64(id)))
	Message(c, http.StatusOK, "Job deleted successfully")
}

// Mine 列出当前雇主的全部职位（含已下线），附带申请数。
func (h *JobHandler) Mine(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	page, err := h.jobs.ListMine(c.Request.Context(), actor, listing.ParseQuery(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
