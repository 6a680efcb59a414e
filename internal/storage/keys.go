package storage

import (
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const resumeKeyRoot = "candidate-resumes"

// ResumeExtensions 列出允许上传的简历扩展名及其 MIME 类型。
var ResumeExtensions = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ResumePrefix 返回某个候选人所有简历对象的公共前缀。
func ResumePrefix(userID uint) string {
	return fmt.Sprintf("%s/%d/", resumeKeyRoot, userID)
}

// NewResumeKey 为上传文件生成不可猜测的对象 key。
func NewResumeKey(userID uint, ext string) string {
	return ResumePrefix(userID) + uuid.NewString() + strings.ToLower(ext)
}

// IsResumeKeyOf 校验 key 是否是该用户上传的简历。
func IsResumeKeyOf(userID uint, key string) bool {
	if key == "" || !utf8.ValidString(key) || len(key) > 200 {
		return false
	}
	if !strings.HasPrefix(key, ResumePrefix(userID)) {
		return false
	}
	if strings.Contains(key, "..") || strings.Contains(key, "\\") || strings.Contains(key, "//") {
		return false
	}
	rest := strings.TrimPrefix(key, ResumePrefix(userID))
	if strings.Contains(rest, "/") {
		return false
	}
	_, ok := ResumeExtensions[strings.ToLower(path.Ext(rest))]
	return ok
}
