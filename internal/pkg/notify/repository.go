package notify

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/mdnexus/nexus-server/app/models"
	"github.com/mdnexus/nexus-server/internal/pkg/cache"
)

// Notification categories an admin can subscribe to.
const (
	CategoryFormSubmission = "form_submission"
	CategoryContact        = "contact"
)

const adminEmailCacheTTL = 5 * time.Minute

// Repository provides the DB operations the notification dispatcher needs.
type Repository interface {
	// ActiveAdminEmails lists admin recipients whose category flag and
	// active flag are both set. An empty list is not an error.
	ActiveAdminEmails(category string) ([]string, error)
	CreateEmailLog(entry *models.EmailLog) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a notification repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ActiveAdminEmails(category string) ([]string, error) {
	cacheKey := "admin_emails:" + category
	if cached, err := cache.Get(cacheKey); err == nil {
		var emails []string
		if err := json.Unmarshal([]byte(cached), &emails); err == nil {
			return emails, nil
		}
	}

	flagColumn := "notify_new_form_submission"
	if category == CategoryContact {
		flagColumn = "notify_new_contact"
	}

	var emails []string
	err := r.db.Model(&models.AdminEmailSetting{}).
		Where(flagColumn+" = ? AND is_active = ?", true, true).
		Pluck("admin_email", &emails).Error
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(emails); err == nil {
		if err := cache.Set(cacheKey, string(encoded), adminEmailCacheTTL); err != nil {
			log.Debugf("[Notify] Admin email cache write failed: %v", err)
		}
	}
	return emails, nil
}

func (r *gormRepository) CreateEmailLog(entry *models.EmailLog) error {
	return r.db.Create(entry).Error
}
