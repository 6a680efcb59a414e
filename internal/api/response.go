package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/internal/access"
	"jobboard/internal/api/middleware"
	"jobboard/internal/auth"
	"jobboard/internal/errcode"
	"jobboard/internal/validation"
)

const serverErrorMessage = "Server Error"

var kindStatus = map[errcode.Kind]int{
	errcode.KindUnauthenticated:      http.StatusUnauthorized,
	errcode.KindUnauthorized:         http.StatusForbidden,
	errcode.KindNotFound:             http.StatusNotFound,
	errcode.KindValidation:           http.StatusUnprocessableEntity,
	errcode.KindDuplicateApplication: http.StatusUnprocessableEntity,
	errcode.KindSelfDeleteForbidden:  http.StatusUnprocessableEntity,
	errcode.KindTooManyRequests:      http.StatusTooManyRequests,
}

// WriteError 把业务错误渲染为响应：字段校验错误为 {"errors": {...}}，其余为 {"message": "..."}。
// 未识别的错误记录日志后统一返回 500，不泄露内部细节。
func WriteError(c *gin.Context, err error) {
	var e *errcode.Error
	if !errors.As(err, &e) || e.Kind == errcode.KindInternal {
		middleware.LoggerFromContext(c).Error("request failed", slog.Any("error", err))
		Message(c, http.StatusInternalServerError, serverErrorMessage)
		return
	}

	status, ok := kindStatus[e.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if e.Kind == errcode.KindValidation {
		c.JSON(status, gin.H{"errors": fieldMap(e.Fields)})
		return
	}
	Message(c, status, e.Message)
}

func fieldMap(fields []errcode.FieldError) map[string][]string {
	out := make(map[string][]string, len(fields))
	for _, f := range fields {
		out[f.Field] = append(out[f.Field], f.Message)
	}
	return out
}

// Message 返回 {"message": msg}。
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// bindJSON 解析请求体；空请求体视为 {}，交由各自的校验函数报告缺失字段。
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	var errs validation.Errors
	errs.Add("body", "The request body must be a valid JSON object.")
	WriteError(c, errs.Err())
	return false
}

// actorOrAbort 读取调用者；路由都挂在 Authenticate 之后，取不到说明配置错误。
func actorOrAbort(c *gin.Context) (auth.Actor, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
	}
	return actor, ok
}

// pathID 解析路径中的 :id；非法 ID 与不存在的记录同样返回 404。
func pathID(c *gin.Context, what string) (uint, bool) {
	id, err := access.ParseID(c.Param("id"), what)
	if err != nil {
		WriteError(c, err)
		return 0, false
	}
	return id, true
}
