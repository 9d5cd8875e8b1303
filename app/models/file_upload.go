package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FileCategoryMedicalRecord  = "medical_record"
	FileCategoryInsurance      = "insurance"
	FileCategoryIdentification = "identification"
	FileCategoryOther          = "other"
)

const (
	UploadStatusUploaded = "uploaded"
	UploadStatusDeleted  = "deleted"
)

// NormalizeFileCategory maps arbitrary input onto an allowed category.
func NormalizeFileCategory(category string) string {
	switch category {
	case FileCategoryMedicalRecord, FileCategoryInsurance, FileCategoryIdentification, FileCategoryOther:
		return category
	default:
		return FileCategoryOther
	}
}

// FileUpload is one supporting document stored in the documents bucket.
// Exactly one of FormSubmissionID / ContactID is set.
type FileUpload struct {
	ID               string    `gorm:"type:char(36);primaryKey" json:"id"`
	FormSubmissionID string    `gorm:"type:char(36);default:'';index" json:"form_submission_id"`
	ContactID        string    `gorm:"type:char(36);default:'';index" json:"contact_id"`
	OriginalFilename string    `gorm:"type:varchar(255);not null" json:"original_filename"`
	StoragePath      string    `gorm:"type:varchar(512);not null" json:"storage_path"`
	FileSize         int64     `gorm:"not null" json:"file_size"`
	MimeType         string    `gorm:"type:varchar(100);default:''" json:"mime_type"`
	FileHash         string    `gorm:"type:varchar(64);default:'';index" json:"-"`
	FileCategory     string    `gorm:"type:varchar(32);not null;default:'other'" json:"file_category"`
	UploadStatus     string    `gorm:"type:varchar(20);not null;default:'uploaded'" json:"upload_status"`
	IsPHI            bool      `gorm:"column:is_phi;default:true" json:"is_phi"`
	CreatedAt        time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (f *FileUpload) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
