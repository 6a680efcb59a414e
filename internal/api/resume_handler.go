package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"

	"jobboard/internal/api/middleware"
	"jobboard/internal/errcode"
	"jobboard/internal/storage"
	"jobboard/internal/validation"
)

// ErrInfected 表示病毒扫描命中。
var ErrInfected = errors.New("malicious file detected")

// VirusScanner 扫描上传内容，命中时返回 ErrInfected。
type VirusScanner interface {
	Scan(r io.Reader) error
}

type clamdScanner struct {
	client *clamd.Clamd
}

// NewClamdScanner 返回基于 clamd 的扫描器；addr 为空时返回 nil，表示跳过扫描。
func NewClamdScanner(addr string) VirusScanner {
	if strings.TrimSpace(addr) == "" {
		return nil
	}
	return &clamdScanner{client: clamd.NewClamd(addr)}
}

func (s *clamdScanner) Scan(r io.Reader) error {
	abort := make(chan bool)
	defer close(abort)
	results, err := s.client.ScanStream(r, abort)
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}
	for result := range results {
		switch result.Status {
		case clamd.RES_OK:
		case clamd.RES_FOUND:
			return ErrInfected
		default:
			return fmt.Errorf("clamd: %s %s", result.Status, result.Description)
		}
	}
	return nil
}

// ResumeUploader 把简历写入对象存储。
type ResumeUploader interface {
	UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
}

// 文件头魔数，扩展名与内容不符的文件直接拒绝。
var resumeMagic = map[string][]byte{
	".pdf":  []byte("%PDF-"),
	".doc":  {0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1},
	".docx": []byte("PK\x03\x04"),
}

// ResumeHandler 负责候选人简历上传。
type ResumeHandler struct {
	storage  ResumeUploader
	scanner  VirusScanner
	maxBytes int64
}

// NewResumeHandler 返回 ResumeHandler 实例。scanner 可为 nil。
func NewResumeHandler(uploader ResumeUploader, scanner VirusScanner, maxBytes int64) *ResumeHandler {
	return &ResumeHandler{storage: uploader, scanner: scanner, maxBytes: maxBytes}
}

// Upload 校验大小、类型与文件头，扫描病毒后写入 candidate-resumes/<user_id>/。
func (h *ResumeHandler) Upload(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	logger := middleware.LoggerFromContext(c)

	// 预留 multipart 边界等开销
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+64*1024)
	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFileError(c, h.sizeMessage())
			return
		}
		writeFileError(c, "The file field is required.")
		return
	}
	if file.Size > h.maxBytes {
		writeFileError(c, h.sizeMessage())
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType, allowed := storage.ResumeExtensions[ext]
	if !allowed {
		writeFileError(c, "The file must be a file of type: pdf, doc, docx.")
		return
	}
	if ok, err := hasMagic(file, resumeMagic[ext]); err != nil {
		WriteError(c, errcode.Internal("read upload", err))
		return
	} else if !ok {
		writeFileError(c, "The file must be a file of type: pdf, doc, docx.")
		return
	}

	if h.scanner != nil {
		if err := h.scanUpload(file); err != nil {
			if errors.Is(err, ErrInfected) {
				logger.Warn("infected resume rejected", slog.String("filename", file.Filename))
				writeFileError(c, "The file failed the virus scan.")
				return
			}
			WriteError(c, errcode.Internal("scan upload", err))
			return
		}
	}

	reader, err := file.Open()
	if err != nil {
		WriteError(c, errcode.Internal("open upload", err))
		return
	}
	defer reader.Close()

	objectKey := storage.NewResumeKey(actor.UserID, ext)
	if err := h.storage.UploadFile(c.Request.Context(), objectKey, reader, file.Size, contentType); err != nil {
		WriteError(c, errcode.Internal("upload resume", err))
		return
	}
	logger.Info("resume uploaded", slog.String("object_key", objectKey), slog.Int64("size", file.Size))
	c.JSON(http.StatusCreated, gin.H{"resume": objectKey})
}

func (h *ResumeHandler) scanUpload(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return err
	}
	defer reader.Close()
	return h.scanner.Scan(reader)
}

func (h *ResumeHandler) sizeMessage() string {
	return fmt.Sprintf("The file may not be greater than %d kilobytes.", h.maxBytes/1024)
}

func hasMagic(file *multipart.FileHeader, magic []byte) (bool, error) {
	reader, err := file.Open()
	if err != nil {
		return false, err
	}
	defer reader.Close()
	head := make([]byte, len(magic))
	if _, err := io.ReadFull(reader, head); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(head, magic), nil
}

func writeFileError(c *gin.Context, message string) {
	var errs validation.Errors
	errs.Add("file", message)
	WriteError(c, errs.Err())
}
