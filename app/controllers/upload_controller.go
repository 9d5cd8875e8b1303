package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/mdnexus/nexus-server/app/models"
	"github.com/mdnexus/nexus-server/internal/pkg/storage"
	"github.com/mdnexus/nexus-server/internal/pkg/upload"
)

const (
	presignedURLExpiry = time.Hour
	maxDocumentBytes   = 25 * 1024 * 1024
)

// UploadController handles supporting-document uploads for form submissions.
// store may be nil when object storage is not configured; uploads then
// answer 503 instead of failing half-way through.
type UploadController struct {
	db    *gorm.DB
	store *storage.Client
}

func NewUploadController(db *gorm.DB, store *storage.Client) *UploadController {
	return &UploadController{db: db, store: store}
}

// HandleUploadDocument stores one multipart document for a submission and
// records a file_uploads row for it.
func (uc *UploadController) HandleUploadDocument(c *fiber.Ctx) error {
	if uc.store == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "document storage is not configured",
		})
	}

	var submission models.FormSubmission
	if err := uc.db.Where("id = ?", c.Params("id")).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "form submission not found"})
		}
		log.Errorf("[Upload] Error loading submission: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lookup failed"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no file provided"})
	}
	if fileHeader.Size > maxDocumentBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "file exceeds the 25 MB limit"})
	}
	category := models.NormalizeFileCategory(c.FormValue("category"))

	pre, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable file"})
	}
	head := make([]byte, 512)
	n, _ := io.ReadFull(pre, head)
	_ = pre.Close()
	if _, err := upload.ValidateDocumentBySniff(fileHeader.Filename, head[:n]); err != nil {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"error": err.Error()})
	}

	hashSrc, err := fileHeader.Open()
	if err != nil {
		log.Errorf("[Upload] Error opening uploaded file for hash: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable file"})
	}
	fileHash, err := calculateFileHash(hashSrc)
	_ = hashSrc.Close()
	if err != nil {
		log.Errorf("[Upload] Error hashing uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to process file"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Errorf("[Upload] Error reopening uploaded file: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to process file"})
	}
	defer src.Close()

	objectKey := fmt.Sprintf("%s/%d%s", submission.ID, time.Now().UnixMilli(), filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := uc.store.Upload(ctx, objectKey, src, contentType, fileHeader.Size); err != nil {
		log.Errorf("[Upload] Error uploading document %s: %v", objectKey, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "upload failed"})
	}

	record := models.FileUpload{
		FormSubmissionID: submission.ID,
		OriginalFilename: fileHeader.Filename,
		StoragePath:      objectKey,
		FileSize:         fileHeader.Size,
		MimeType:         contentType,
		FileHash:         fileHash,
		FileCategory:     category,
		UploadStatus:     models.UploadStatusUploaded,
		IsPHI:            true,
	}
	if err := uc.db.Create(&record).Error; err != nil {
		log.Errorf("[Upload] Error recording upload: %v", err)
		if delErr := uc.store.Delete(ctx, objectKey); delErr != nil {
			log.Warnf("[Upload] Failed to clean up stored object after DB error: %v", delErr)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record upload"})
	}

	if err := uc.db.Model(&models.FormSubmission{}).
		Where("id = ?", submission.ID).
		Update("has_uploads", true).Error; err != nil {
		log.Errorf("[Upload] Error flagging submission uploads: %v", err)
	}

	log.Infof("[Upload] Stored document %s for submission %s", objectKey, submission.ID)
	return c.Status(fiber.StatusCreated).JSON(record)
}

// HandleDocumentURL hands out a time-limited download URL for one document.
func (uc *UploadController) HandleDocumentURL(c *fiber.Ctx) error {
	if uc.store == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "document storage is not configured",
		})
	}

	var record models.FileUpload
	if err := uc.db.Where("id = ?", c.Params("id")).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "document not found"})
		}
		log.Errorf("[Upload] Error loading document record: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "lookup failed"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url, err := uc.store.PresignDownload(ctx, record.StoragePath, presignedURLExpiry)
	if err != nil {
		log.Errorf("[Upload] Error presigning download for %s: %v", record.StoragePath, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create download URL"})
	}

	return c.JSON(fiber.Map{
		"url":        url,
		"expires_in": int(presignedURLExpiry.Seconds()),
	})
}

func calculateFileHash(file io.Reader) (string, error) {
	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
