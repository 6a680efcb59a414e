package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard/internal/api/middleware"
	"jobboard/internal/auth"
	"jobboard/internal/board"
	"jobboard/internal/errcode"
	"jobboard/internal/listing"
)

const resumeLinkTTL = 5 * time.Minute

// ResumeLinker 为私有 Bucket 中的简历签发限时下载链接。
type ResumeLinker interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error)
}

// ApplicationHandler 处理投递、状态流转与各角色的申请视图。
type ApplicationHandler struct {
	applications *board.ApplicationService
	links        ResumeLinker
}

func NewApplicationHandler(applications *board.ApplicationService, links ResumeLinker) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, links: links}
}

// Apply 候选人投递在招职位。
func (h *ApplicationHandler) Apply(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	jobID, ok := pathID(c, "Job")
	if !ok {
		return
	}
	var req board.ApplyRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.applications.Apply(c.Request.Context(), actor, jobID, req)
	if err != nil {
		WriteError(c, err)
		return
	}
	middleware.LoggerFromContext(c).Info("application submitted",
		slog.Uint64("application_id", uint64(app.ID)),
		slog.Uint64("job_id", uint64(jobID)),
	)
	c.JSON(http.StatusCreated, app)
}

// CandidateIndex 列出候选人自己的申请。
func (h *ApplicationHandler) CandidateIndex(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	page, err := h.applications.ListForCandidate(c.Request.Context(), actor, listing.ParsePage(c.Query("page")))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// CandidateShow 返回候选人自己的某个申请。
func (h *ApplicationHandler) CandidateShow(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Application")
	if !ok {
		return
	}
	app, err := h.applications.ShowForCandidate(c.Request.Context(), actor, id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// EmployerIndex 列出投向当前雇主职位的申请。
func (h *ApplicationHandler) EmployerIndex(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	page, err := h.applications.ListForEmployer(c.Request.Context(), actor, listing.ParsePage(c.Query("page")))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// UpdateStatus 雇主更新申请状态与反馈。
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Application")
	if !ok {
		return
	}
	var req board.StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	app, err := h.applications.UpdateStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		WriteError(c, err)
		return
	}
	middleware.LoggerFromContext(c).Info("application status updated",
		slog.Uint64("application_id", uint64(app.ID)),
		slog.String("status", app.Status),
	)
	c.JSON(http.StatusOK, app)
}

// EmployerResume 返回投向自己职位的申请所附简历的下载链接。
func (h *ApplicationHandler) EmployerResume(c *gin.Context) {
	h.resumeLink(c, h.applications.ResumeForEmployer)
}

// CandidateResume 返回候选人自己申请所附简历的下载链接。
func (h *ApplicationHandler) CandidateResume(c *gin.Context) {
	h.resumeLink(c, h.applications.ResumeForCandidate)
}

func (h *ApplicationHandler) resumeLink(c *gin.Context, lookup func(context.Context, auth.Actor, uint) (string, error)) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Application")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	key, err := lookup(ctx, actor, id)
	if err != nil {
		WriteError(c, err)
		return
	}
	url, err := h.links.GeneratePresignedURL(ctx, key, resumeLinkTTL)
	if err != nil {
		WriteError(c, errcode.Internal("presign resume", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expires_in": int(resumeLinkTTL.Seconds())})
}
