package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/mssola/useragent"
	"gorm.io/gorm"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

const (
	defaultActivityLimit = 50
	maxActivityPageSize  = 200
)

// ActivityService implements port.ActivityService.
// ActivityService реализует интерфейс port.ActivityService.
//
// Every account and audit transition leaves one row in the trail. The row is
// written inside the transaction of the transition when RecordTx is used.
// Каждый переход аккаунта и аудита оставляет одну запись в журнале. При
// использовании RecordTx запись создаётся в транзакции перехода.
type ActivityService struct {
	repo   port.ActivityLogRepository
	now    func() time.Time
	logger *logger.Logger
}

// NewActivityService creates a new ActivityService instance.
// NewActivityService создаёт новый экземпляр ActivityService.
func NewActivityService(repo port.ActivityLogRepository, log *logger.Logger) *ActivityService {
	return &ActivityService{
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
		logger: log.WithComponent("activity_service"),
	}
}

// Record writes an activity row outside of a transaction.
// Record записывает строку журнала вне транзакции.
func (s *ActivityService) Record(ctx context.Context, userID int64, action, resourceType, resourceID string, details map[string]interface{}) error {
	entry, err := s.build(ctx, userID, action, resourceType, resourceID, details)
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.WithContext(ctx).Error("failed to record activity", "action", action, "error", err)
		return err
	}
	return nil
}

// RecordTx writes an activity row as part of tx.
// RecordTx записывает строку журнала в рамках tx.
func (s *ActivityService) RecordTx(ctx context.Context, tx *gorm.DB, userID int64, action, resourceType, resourceID string, details map[string]interface{}) error {
	entry, err := s.build(ctx, userID, action, resourceType, resourceID, details)
	if err != nil {
		return err
	}
	if err := s.repo.CreateTx(ctx, tx, entry); err != nil {
		s.logger.WithContext(ctx).Error("failed to record activity in transaction", "action", action, "error", err)
		return err
	}
	return nil
}

func (s *ActivityService) build(ctx context.Context, userID int64, action, resourceType, resourceID string, details map[string]interface{}) (*domain.ActivityLog, error) {
	client := logger.GetClientFromContext(ctx)

	if client.UserAgent != "" {
		merged := make(map[string]interface{}, len(details)+1)
		for k, v := range details {
			merged[k] = v
		}
		merged["device"] = DeviceLabel(client.UserAgent)
		details = merged
	}

	var raw json.RawMessage
	if len(details) > 0 {
		data, err := json.Marshal(details)
		if err != nil {
			return nil, apperror.Internal("failed to marshal activity details", err)
		}
		raw = data
	}

	entry := &domain.ActivityLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      raw,
		CreatedAt:    s.now(),
	}
	if client.IP != "" {
		ip := client.IP
		entry.IPAddress = &ip
	}
	if client.UserAgent != "" {
		ua := client.UserAgent
		entry.UserAgent = &ua
	}
	return entry, nil
}

// ListForUser returns the newest rows written by a user.
// ListForUser возвращает последние записи пользователя.
func (s *ActivityService) ListForUser(ctx context.Context, userID int64, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	return s.repo.FindByUserID(ctx, userID, limit)
}

// ListRecent returns a page of the whole trail.
// ListRecent возвращает страницу всего журнала.
func (s *ActivityService) ListRecent(ctx context.Context, page, pageSize int) ([]domain.ActivityLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultActivityLimit
	}
	if pageSize > maxActivityPageSize {
		pageSize = maxActivityPageSize
	}
	return s.repo.ListRecent(ctx, page, pageSize)
}

// DeviceLabel turns a User-Agent header into "Browser on OS".
// DeviceLabel превращает заголовок User-Agent в "Браузер on ОС".
func DeviceLabel(userAgent string) string {
	if userAgent == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}
	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + os)
}

var _ port.ActivityService = (*ActivityService)(nil)
