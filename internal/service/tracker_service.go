package service

import (
	"context"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/andrewhigh08/audit-tracker/internal/adapter/storage"
	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/telemetry"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// Progress series periods.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

const (
	progressTarget       = 90.0
	operatorListLimit    = 5
	adminListLimit       = 10
	defaultAuditPageSize = 20
	maxAuditPageSize     = 200
	minReferenceValue    = 10.0
	maxReferenceValue    = 100.0
	baseDueDays          = 7
)

// TrackerConfig holds the generation settings of TrackerService.
// TrackerConfig содержит настройки генерации TrackerService.
type TrackerConfig struct {
	DefaultBatch   int           // Audits handed to an operator without work / Аудитов для оператора без работы
	DuplicateRate  float64       // Probability of repeating a template / Вероятность повтора шаблона
	MinEntries     int           // Lower bound of a random entry count / Нижняя граница числа пунктов
	MaxEntries     int           // Upper bound of a random entry count / Верхняя граница числа пунктов
	RegenerateSize int           // Entries created by RegenerateEntries / Пунктов при перегенерации
	PresignExpiry  time.Duration // Lifetime of image links / Время жизни ссылок на изображения
	MaxImageSize   int64         // Upload limit in bytes / Лимит загрузки в байтах
}

// DefaultTrackerConfig returns default configuration.
// DefaultTrackerConfig возвращает конфигурацию по умолчанию.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		DefaultBatch:   5,
		DuplicateRate:  0.2,
		MinEntries:     5,
		MaxEntries:     15,
		RegenerateSize: 10,
		PresignExpiry:  15 * time.Minute,
		MaxImageSize:   5 << 20,
	}
}

// TrackerDeps groups the collaborators of TrackerService.
// TrackerDeps группирует зависимости TrackerService.
type TrackerDeps struct {
	Users     port.UserRepository
	Audits    port.AuditRepository
	Entries   port.EntryRepository
	Standards port.StandardRepository
	Tx        port.Transaction
	Activity  port.ActivityService
	Content   port.ContentProvider
	Storage   port.ObjectStorage // may be nil / может быть nil
}

// TrackerOption configures a TrackerService.
type TrackerOption func(*TrackerService)

// WithRandSource replaces the random source used for entry generation.
// WithRandSource заменяет источник случайности генерации пунктов.
func WithRandSource(src rand.Source) TrackerOption {
	return func(s *TrackerService) { s.rng = rand.New(src) }
}

// WithClock replaces the clock.
func WithClock(now func() time.Time) TrackerOption {
	return func(s *TrackerService) { s.now = now }
}

// TrackerService implements port.TrackerService.
// TrackerService реализует интерфейс port.TrackerService.
//
// Progress is recomputed under the audit row lock and is the only automatic
// path to completion. Audits owned by someone else read as not found.
// Прогресс пересчитывается под блокировкой строки аудита и является
// единственным автоматическим путём к завершению. Чужие аудиты не видны.
type TrackerService struct {
	users     port.UserRepository
	audits    port.AuditRepository
	entries   port.EntryRepository
	standards port.StandardRepository
	tx        port.Transaction
	activity  port.ActivityService
	content   port.ContentProvider
	storage   port.ObjectStorage
	cfg       TrackerConfig

	mu  sync.Mutex // guards rng
	rng *rand.Rand

	now    func() time.Time
	logger *logger.Logger
}

// NewTrackerService creates a new TrackerService instance.
// NewTrackerService создаёт новый экземпляр TrackerService.
func NewTrackerService(deps TrackerDeps, cfg TrackerConfig, log *logger.Logger, opts ...TrackerOption) *TrackerService {
	defaults := DefaultTrackerConfig()
	if cfg.DefaultBatch <= 0 {
		cfg.DefaultBatch = defaults.DefaultBatch
	}
	if cfg.MinEntries <= 0 || cfg.MaxEntries < cfg.MinEntries {
		cfg.MinEntries, cfg.MaxEntries = defaults.MinEntries, defaults.MaxEntries
	}
	if cfg.RegenerateSize <= 0 {
		cfg.RegenerateSize = defaults.RegenerateSize
	}
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = defaults.PresignExpiry
	}
	if cfg.MaxImageSize <= 0 {
		cfg.MaxImageSize = defaults.MaxImageSize
	}

	s := &TrackerService{
		users:     deps.Users,
		audits:    deps.Audits,
		entries:   deps.Entries,
		standards: deps.Standards,
		tx:        deps.Tx,
		activity:  deps.Activity,
		content:   deps.Content,
		storage:   deps.Storage,
		cfg:       cfg,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:       func() time.Time { return time.Now().UTC() },
		logger:    log.WithComponent("tracker_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func auditRef(id int64) string { return strconv.FormatInt(id, 10) }

// ==================== Entry generation ====================

// GenerateEntries replaces the checklist of an audit on behalf of an administrator.
// GenerateEntries заменяет чек-лист аудита по запросу администратора.
func (s *TrackerService) GenerateEntries(ctx context.Context, auditID int64, count int, actor domain.Principal) ([]domain.AuditEntry, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartSpan(ctx, "tracker", "GenerateEntries", telemetry.AttrAuditID.Int64(auditID))
	defer span.End()

	var entries []domain.AuditEntry
	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		audit, err := s.audits.FindByIDForUpdate(ctx, tx, auditID)
		if err != nil {
			return err
		}
		if audit.IsCompleted() {
			return apperror.PreconditionFailed("audit is already completed")
		}
		entries, err = s.generateTx(ctx, tx, audit, count)
		if err != nil {
			return err
		}
		return s.activity.RecordTx(ctx, tx, actor.UserID, domain.ActionAuditGenerateEntries, domain.ResourceAudit, auditRef(audit.ID),
			map[string]interface{}{"count": len(entries)})
	})
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}
	span.SetAttributes(telemetry.AttrEntryCount.Int(len(entries)))
	return entries, nil
}

// generateTx builds count entries from the templates of the audit's first
// standard and replaces the existing ones. The caller holds the audit lock.
func (s *TrackerService) generateTx(ctx context.Context, tx *gorm.DB, audit *domain.Audit, count int) ([]domain.AuditEntry, error) {
	set := s.content.TemplatesFor(audit.PrimaryStandardCode())
	if len(set.Templates) == 0 {
		return nil, apperror.Internal("no checklist templates available", nil)
	}

	entries := s.buildEntries(set.Templates, count)
	if err := s.entries.ReplaceForAuditTx(ctx, tx, audit.ID, entries); err != nil {
		return nil, err
	}

	if set.Title != "" {
		audit.Title = set.Title
	}
	// A fresh checklist has no results
	// У нового чек-листа нет результатов
	audit.Progress = 0
	if err := s.audits.SaveStateTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	entriesGeneratedTotal.Add(float64(len(entries)))
	s.logger.WithContext(ctx).Debug("entries generated", "audit_id", audit.ID, "count", len(entries), "title", audit.Title)
	return entries, nil
}

// buildEntries picks templates for positions 1..count. After the first
// position a previously chosen template is repeated with DuplicateRate
// probability, otherwise position i uses template i mod len(templates).
// buildEntries выбирает шаблоны для позиций 1..count. После первой позиции
// с вероятностью DuplicateRate повторяется уже выбранный шаблон, иначе
// позиция i использует шаблон i mod len(templates).
func (s *TrackerService) buildEntries(templates []domain.EntryTemplate, count int) []domain.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if count <= 0 {
		count = s.cfg.MinEntries + s.rng.IntN(s.cfg.MaxEntries-s.cfg.MinEntries+1)
	}

	indices := make([]int, 0, count)
	for i := 0; i < count; i++ {
		if len(indices) > 0 && s.rng.Float64() < s.cfg.DuplicateRate {
			indices = append(indices, indices[s.rng.IntN(len(indices))])
			continue
		}
		indices = append(indices, i%len(templates))
	}

	now := s.now()
	entries := make([]domain.AuditEntry, count)
	for i, idx := range indices {
		seq := i + 1
		tmpl := templates[idx]
		value := roundTo2(minReferenceValue + s.rng.Float64()*(maxReferenceValue-minReferenceValue))
		entries[i] = domain.AuditEntry{
			SequenceNumber: seq,
			Name:           tmpl.Name + " #" + strconv.Itoa(seq),
			ReferenceValue: value,
			Description:    tmpl.Description + " Reference value to check: " + strconv.FormatFloat(value, 'f', 2, 64) + ".",
			CreatedAt:      now,
		}
	}
	return entries
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ==================== Execution ====================

// recomputeTx stores floor(100*withResult/total) and completes the audit at 100.
// It reports whether this call completed the audit.
// recomputeTx сохраняет floor(100*withResult/total) и завершает аудит при 100.
// Возвращает признак завершения этим вызовом.
func (s *TrackerService) recomputeTx(ctx context.Context, tx *gorm.DB, audit *domain.Audit, force bool) (total, withResult int64, completed bool, err error) {
	total, withResult, err = s.entries.CountTx(ctx, tx, audit.ID)
	if err != nil {
		return 0, 0, false, err
	}

	changed := force
	if progress := domain.ComputeProgress(withResult, total); progress != audit.Progress {
		audit.Progress = progress
		changed = true
	}
	if audit.Progress == 100 && !audit.IsCompleted() {
		now := s.now()
		audit.Status = domain.AuditStatusCompleted
		audit.CompletedAt = &now
		changed = true
		completed = true
	}

	if changed {
		if err := s.audits.SaveStateTx(ctx, tx, audit); err != nil {
			return 0, 0, false, err
		}
	}
	return total, withResult, completed, nil
}

// lockOwned locks an audit of the user. Audits of others read as not found.
func (s *TrackerService) lockOwned(ctx context.Context, tx *gorm.DB, auditID int64, user domain.Principal) (*domain.Audit, error) {
	audit, err := s.audits.FindByIDForUpdate(ctx, tx, auditID)
	if err != nil {
		return nil, err
	}
	if !audit.IsAssignedTo(user.UserID) {
		return nil, apperror.NotFound("audit", auditID)
	}
	return audit, nil
}

// GetExecutionView returns the checklist of an owned audit with current results.
// GetExecutionView возвращает чек-лист собственного аудита с текущими результатами.
func (s *TrackerService) GetExecutionView(ctx context.Context, auditID int64, user domain.Principal) (*domain.ExecutionView, error) {
	ctx, span := telemetry.StartSpan(ctx, "tracker", "GetExecutionView",
		telemetry.AttrAuditID.Int64(auditID), telemetry.AttrUserID.Int64(user.UserID))
	defer span.End()

	var (
		audit      *domain.Audit
		entries    []domain.AuditEntry
		total      int64
		withResult int64
		completed  bool
		images     []domain.AuditImage
	)
	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		audit, err = s.lockOwned(ctx, tx, auditID, user)
		if err != nil {
			return err
		}
		total, withResult, completed, err = s.recomputeTx(ctx, tx, audit, false)
		if err != nil {
			return err
		}
		if completed {
			if err := s.activity.RecordTx(ctx, tx, user.UserID, domain.ActionAuditAutoComplete, domain.ResourceAudit, auditRef(audit.ID), nil); err != nil {
				return err
			}
		}
		entries, err = s.entries.ListWithResultsTx(ctx, tx, audit.ID)
		if err != nil {
			return err
		}
		images, err = s.audits.ListImagesTx(ctx, tx, audit.ID)
		return err
	})
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}
	if completed {
		s.completed(ctx, audit, "auto")
	}

	now := s.now()
	view := &domain.ExecutionView{
		Audit:             domain.NewAuditView(*audit, now),
		Entries:           make([]domain.EntryView, len(entries)),
		TotalEntries:      total,
		EntriesWithResult: withResult,
		IsDelayed:         audit.IsDelayed(now),
		Images:            make([]domain.AuditImageView, len(images)),
	}
	for i, e := range entries {
		var url string
		if e.Result != nil && e.Result.ImageKey != nil {
			url = s.presign(ctx, *e.Result.ImageKey)
		}
		view.Entries[i] = domain.EntryView{AuditEntry: e, ImageURL: url}
	}
	for i, img := range images {
		view.Images[i] = domain.AuditImageView{AuditImage: img, URL: s.presign(ctx, img.ImageKey)}
	}
	return view, nil
}

// presign returns a temporary link, or "" when storage is off or fails.
func (s *TrackerService) presign(ctx context.Context, key string) string {
	if s.storage == nil || key == "" {
		return ""
	}
	url, err := s.storage.PresignGet(ctx, key, s.cfg.PresignExpiry)
	if err != nil {
		s.logger.WithContext(ctx).Warn("failed to presign image", "key", key, "error", err)
		return ""
	}
	return url
}

func (s *TrackerService) completed(ctx context.Context, audit *domain.Audit, path string) {
	auditsCompletedTotal.WithLabelValues(path).Inc()
	s.logger.WithContext(ctx).LogTransition(domain.ActionAuditComplete, domain.ResourceAudit, audit.ID, "open", domain.AuditStatusCompleted)
}

// SubmitResult records the observation of an entry, replacing a previous one.
// SubmitResult записывает наблюдение по пункту, заменяя предыдущее.
func (s *TrackerService) SubmitResult(ctx context.Context, entryID int64, user domain.Principal, req domain.SubmitResultRequest) (*domain.InspectionResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "tracker", "SubmitResult",
		telemetry.AttrEntryID.Int64(entryID), telemetry.AttrUserID.Int64(user.UserID))
	defer span.End()
	log := s.logger.WithContext(ctx)

	if !domain.ValidResultStatus(req.Status) {
		return nil, apperror.ValidationError("unknown result status", map[string]interface{}{
			"status":  req.Status,
			"allowed": []string{domain.ResultCompliant, domain.ResultNonCompliant, domain.ResultNotApplicable},
		})
	}

	entry, err := s.entries.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	// Ownership is checked before storage is touched and again under the lock
	// Владение проверяется до обращения к хранилищу и повторно под блокировкой
	owner, err := s.audits.FindByID(ctx, entry.AuditID)
	if err != nil {
		return nil, err
	}
	if !owner.IsAssignedTo(user.UserID) {
		return nil, apperror.NotFound("entry", entryID)
	}

	var imageKey *string
	if req.Image != nil {
		key, err := s.storeImage(ctx, storage.PrefixResults, user.UserID, req.Image)
		if err != nil {
			return nil, err
		}
		imageKey = &key
	}

	var (
		result      *domain.InspectionResult
		audit       *domain.Audit
		replaced    string
		autoClosed  bool
		fromPending bool
	)
	err = s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		audit, err = s.audits.FindByIDForUpdate(ctx, tx, entry.AuditID)
		if err != nil {
			return err
		}
		if !audit.IsAssignedTo(user.UserID) {
			return apperror.NotFound("entry", entryID)
		}

		previous, err := s.entries.FindResultTx(ctx, tx, entryID)
		switch {
		case err == nil:
		case apperror.HasCode(err, apperror.CodeNotFound):
			previous = nil
		default:
			return err
		}

		key := imageKey
		if previous != nil && previous.ImageKey != nil {
			if key == nil {
				key = previous.ImageKey
			} else {
				replaced = *previous.ImageKey
			}
		}

		result = &domain.InspectionResult{
			EntryID:       entryID,
			ObservedValue: req.ObservedValue,
			Status:        req.Status,
			Comment:       strings.TrimSpace(req.Comment),
			ImageKey:      key,
			RecordedBy:    user.UserID,
			RecordedAt:    s.now(),
		}
		if err := s.entries.UpsertResultTx(ctx, tx, result); err != nil {
			return err
		}

		if audit.Status == domain.AuditStatusPending {
			audit.Status = domain.AuditStatusInProgress
			fromPending = true
		}
		if _, _, autoClosed, err = s.recomputeTx(ctx, tx, audit, fromPending); err != nil {
			return err
		}

		if err := s.activity.RecordTx(ctx, tx, user.UserID, domain.ActionAuditSubmitResult, domain.ResourceEntry, strconv.FormatInt(entryID, 10),
			map[string]interface{}{"audit_id": audit.ID, "status": req.Status}); err != nil {
			return err
		}
		if autoClosed {
			return s.activity.RecordTx(ctx, tx, user.UserID, domain.ActionAuditAutoComplete, domain.ResourceAudit, auditRef(audit.ID), nil)
		}
		return nil
	})
	if err != nil {
		if imageKey != nil {
			s.deleteObject(ctx, *imageKey)
		}
		telemetry.End(span, err)
		return nil, err
	}

	if replaced != "" {
		s.deleteObject(ctx, replaced)
	}
	resultsSubmittedTotal.WithLabelValues(req.Status).Inc()
	if fromPending {
		log.LogTransition(domain.ActionAuditSubmitResult, domain.ResourceAudit, audit.ID, domain.AuditStatusPending, domain.AuditStatusInProgress)
	}
	if autoClosed {
		s.completed(ctx, audit, "auto")
	}
	return result, nil
}

func (s *TrackerService) storeImage(ctx context.Context, prefix string, ownerID int64, upload *domain.Upload) (string, error) {
	if s.storage == nil {
		return "", apperror.ServiceUnavailable("object storage is not configured")
	}
	if upload.Body == nil || upload.Size <= 0 {
		return "", apperror.ValidationError("image is empty", map[string]interface{}{"image": "required"})
	}
	if upload.Size > s.cfg.MaxImageSize {
		return "", apperror.ValidationError("image is too large", map[string]interface{}{"max_bytes": s.cfg.MaxImageSize})
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return "", apperror.ValidationError("only images are accepted", map[string]interface{}{"content_type": upload.ContentType})
	}

	key := storage.NewObjectKey(prefix, ownerID, upload.Filename)
	if err := s.storage.Put(ctx, key, upload.ContentType, upload.Size, upload.Body); err != nil {
		s.logger.WithContext(ctx).Error("failed to upload image", "prefix", prefix, "error", err)
		return "", apperror.Internal("failed to store image", err)
	}
	return key, nil
}

func (s *TrackerService) deleteObject(ctx context.Context, key string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.WithContext(ctx).Warn("object not deleted", "key", key, "error", err)
	}
}

// CompleteAudit closes an owned audit once every entry has a result.
// Completing a completed audit is a no-op.
// CompleteAudit закрывает собственный аудит, когда у всех пунктов есть результат.
// Повторное завершение ничего не меняет.
func (s *TrackerService) CompleteAudit(ctx context.Context, auditID int64, user domain.Principal) (*domain.Audit, error) {
	ctx, span := telemetry.StartSpan(ctx, "tracker", "CompleteAudit",
		telemetry.AttrAuditID.Int64(auditID), telemetry.AttrUserID.Int64(user.UserID))
	defer span.End()

	var (
		audit *domain.Audit
		done  bool
	)
	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		audit, err = s.lockOwned(ctx, tx, auditID, user)
		if err != nil {
			return err
		}
		if audit.IsCompleted() {
			return nil
		}

		total, withResult, err := s.entries.CountTx(ctx, tx, audit.ID)
		if err != nil {
			return err
		}
		if withResult < total {
			return apperror.IncompletePrerequisite(total - withResult)
		}

		now := s.now()
		audit.Status = domain.AuditStatusCompleted
		audit.Progress = 100
		audit.CompletedAt = &now
		if err := s.audits.SaveStateTx(ctx, tx, audit); err != nil {
			return err
		}
		done = true
		return s.activity.RecordTx(ctx, tx, user.UserID, domain.ActionAuditComplete, domain.ResourceAudit, auditRef(audit.ID), nil)
	})
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}
	if done {
		s.completed(ctx, audit, "manual")
	}
	return audit, nil
}

// RegenerateEntries replaces the checklist of an owned open audit.
// RegenerateEntries заменяет чек-лист собственного незавершённого аудита.
func (s *TrackerService) RegenerateEntries(ctx context.Context, auditID int64, user domain.Principal) ([]domain.AuditEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "tracker", "RegenerateEntries", telemetry.AttrAuditID.Int64(auditID))
	defer span.End()

	var entries []domain.AuditEntry
	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		audit, err := s.lockOwned(ctx, tx, auditID, user)
		if err != nil {
			return err
		}
		if audit.IsCompleted() {
			return apperror.PreconditionFailed("audit is already completed")
		}
		entries, err = s.generateTx(ctx, tx, audit, s.cfg.RegenerateSize)
		if err != nil {
			return err
		}
		return s.activity.RecordTx(ctx, tx, user.UserID, domain.ActionAuditGenerateEntries, domain.ResourceAudit, auditRef(audit.ID),
			map[string]interface{}{"count": len(entries), "regenerated": true})
	})
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}
	return entries, nil
}

// UpdateStatus moves an owned audit to the requested status. Only
// pending → in_progress is applied directly; completed goes through
// CompleteAudit and its result check. Requesting the current status is a no-op.
// UpdateStatus переводит собственный аудит в запрошенный статус. Напрямую
// применяется только pending → in_progress; completed проходит через
// CompleteAudit с проверкой результатов. Запрос текущего статуса ничего не меняет.
func (s *TrackerService) UpdateStatus(ctx context.Context, auditID int64, user domain.Principal, status string) (*domain.Audit, error) {
	switch {
	case status == domain.AuditStatusDelayed:
		return nil, apperror.ValidationError("delayed is derived from the due date and cannot be set", map[string]interface{}{
			"status": status,
		})
	case !domain.ValidAuditStatus(status):
		return nil, apperror.ValidationError("unknown audit status", map[string]interface{}{
			"status":  status,
			"allowed": []string{domain.AuditStatusPending, domain.AuditStatusInProgress, domain.AuditStatusCompleted},
		})
	case status == domain.AuditStatusCompleted:
		return s.CompleteAudit(ctx, auditID, user)
	}

	ctx, span := telemetry.StartSpan(ctx, "tracker", "UpdateStatus",
		telemetry.AttrAuditID.Int64(auditID), telemetry.AttrUserID.Int64(user.UserID))
	defer span.End()

	var (
		audit *domain.Audit
		from  string
	)
	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		audit, err = s.lockOwned(ctx, tx, auditID, user)
		if err != nil {
			return err
		}
		from = audit.Status
		switch {
		case audit.Status == status:
			return nil
		case audit.IsCompleted():
			return apperror.PreconditionFailed("audit is already completed")
		case status == domain.AuditStatusPending:
			return apperror.PreconditionFailed("audit cannot return to pending")
		}

		audit.Status = status
		if err := s.audits.SaveStateTx(ctx, tx, audit); err != nil {
			return err
		}
		return s.activity.RecordTx(ctx, tx, user.UserID, domain.ActionAuditStatus, domain.ResourceAudit, auditRef(audit.ID),
			map[string]interface{}{"from": from, "to": status})
	})
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}
	if from != audit.Status {
		s.logger.WithContext(ctx).LogTransition(domain.ActionAuditStatus, domain.ResourceAudit, audit.ID, from, audit.Status)
	}
	return audit, nil
}

// UploadAuditImage attaches a photo to an owned audit for one standard.
// UploadAuditImage прикрепляет фотографию к собственному аудиту по стандарту.
func (s *TrackerService) UploadAuditImage(ctx context.Context, auditID int64, user domain.Principal, req domain.UploadAuditImageRequest) (*domain.AuditImageView, error) {
	ctx, span := telemetry.StartSpan(ctx, "tracker", "UploadAuditImage",
		telemetry.AttrAuditID.Int64(auditID), telemetry.AttrUserID.Int64(user.UserID))
	defer span.End()

	if req.Image == nil {
		return nil, apperror.ValidationError("image is required", map[string]interface{}{"image": "required"})
	}
	if req.StandardID <= 0 {
		return nil, apperror.ValidationError("standard is required", map[string]interface{}{"standard_id": "required"})
	}

	audit, err := s.audits.FindByID(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if !audit.IsAssignedTo(user.UserID) {
		return nil, apperror.NotFound("audit", auditID)
	}
	if _, err := s.standards.FindByID(ctx, req.StandardID); err != nil {
		return nil, err
	}

	key, err := s.storeImage(ctx, storage.PrefixAudits, user.UserID, req.Image)
	if err != nil {
		return nil, err
	}

	image := &domain.AuditImage{
		AuditID:    auditID,
		StandardID: req.StandardID,
		ImageKey:   key,
		UploadedBy: user.UserID,
		CreatedAt:  s.now(),
	}
	err = s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.lockOwned(ctx, tx, auditID, user); err != nil {
			return err
		}
		if err := s.audits.CreateImageTx(ctx, tx, image); err != nil {
			return err
		}
		return s.activity.RecordTx(ctx, tx, user.UserID, domain.ActionAuditUploadImage, domain.ResourceAudit, auditRef(auditID),
			map[string]interface{}{"image_id": image.ID, "standard_id": req.StandardID})
	})
	if err != nil {
		s.deleteObject(ctx, key)
		telemetry.End(span, err)
		return nil, err
	}

	return &domain.AuditImageView{AuditImage: *image, URL: s.presign(ctx, key)}, nil
}

// ==================== Assignment ====================

// AssignOrCreate hands work to an operator. Open audits are returned as they
// are; otherwise free audits are claimed and the shortfall is created.
// AssignOrCreate выдаёт работу оператору. Открытые аудиты возвращаются как
// есть; иначе назначаются свободные, а недостающие создаются.
func (s *TrackerService) AssignOrCreate(ctx context.Context, operatorID int64, desiredCount int) ([]domain.Audit, error) {
	if desiredCount <= 0 {
		desiredCount = s.cfg.DefaultBatch
	}
	ctx, span := telemetry.StartSpan(ctx, "tracker", "AssignOrCreate", telemetry.AttrOperatorID.Int64(operatorID))
	defer span.End()

	var (
		audits  []domain.Audit
		created int
	)
	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		operator, err := s.users.FindByIDForUpdate(ctx, tx, operatorID)
		if err != nil {
			return err
		}
		if !operator.IsOperator() {
			return apperror.NotFound("operator", operatorID)
		}

		open, err := s.audits.ListOpenByAssigneeTx(ctx, tx, operatorID)
		if err != nil {
			return err
		}
		if len(open) > 0 {
			audits = open
			return nil
		}

		claimed, err := s.audits.ClaimUnassignedTx(ctx, tx, operatorID, desiredCount)
		if err != nil {
			return err
		}
		audits = claimed

		shortfall := desiredCount - len(claimed)
		if shortfall > 0 {
			standards, err := s.standards.ListTx(ctx, tx)
			if err != nil {
				return err
			}
			if len(standards) == 0 {
				s.logger.WithContext(ctx).Warn("no standards to create audits from", "operator_id", operatorID)
				shortfall = 0
			}

			now := s.now()
			for i := 0; i < shortfall; i++ {
				std := standards[i%len(standards)]
				audit := &domain.Audit{
					Title:        "Audit " + std.Name,
					Type:         domain.AuditTypeCompliance,
					Status:       domain.AuditStatusPending,
					Description:  "Compliance audit for standard " + std.Name,
					DueDate:      now.AddDate(0, 0, baseDueDays+i),
					AssignedToID: &operatorID,
					Standards:    []domain.Standard{std},
					CreatedAt:    now,
					UpdatedAt:    now,
				}
				if err := s.audits.CreateTx(ctx, tx, audit); err != nil {
					return err
				}
				if _, err := s.generateTx(ctx, tx, audit, 0); err != nil {
					return err
				}
				audits = append(audits, *audit)
				created++
			}
		}

		return s.activity.RecordTx(ctx, tx, operatorID, domain.ActionAuditAssignOrCreate, domain.ResourceUser, userRef(operatorID),
			map[string]interface{}{"claimed": len(claimed), "created": created})
	})
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}

	s.logger.WithContext(ctx).Info("audits handed to operator", "operator_id", operatorID, "count", len(audits), "created", created)
	return audits, nil
}

// ==================== Operator reads ====================

func (s *TrackerService) views(audits []domain.Audit) []domain.AuditView {
	now := s.now()
	out := make([]domain.AuditView, len(audits))
	for i, a := range audits {
		out[i] = domain.NewAuditView(a, now)
	}
	return out
}

// ListForOperator returns every audit of an operator ordered by due date.
// ListForOperator возвращает все аудиты оператора по сроку выполнения.
func (s *TrackerService) ListForOperator(ctx context.Context, operatorID int64) ([]domain.AuditView, error) {
	audits, err := s.audits.ListByAssignee(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	return s.views(audits), nil
}

// OperatorDashboard returns the counters and the short lists of an operator.
// OperatorDashboard возвращает показатели и короткие списки оператора.
func (s *TrackerService) OperatorDashboard(ctx context.Context, operatorID int64) (*domain.OperatorDashboard, error) {
	now := s.now()
	var (
		stats   domain.AuditStats
		delayed []domain.Audit
		recent  []domain.Audit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.audits.Stats(gctx, &operatorID, now)
		return err
	})
	g.Go(func() error {
		var err error
		delayed, err = s.audits.ListDelayed(gctx, &operatorID, now, operatorListLimit)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.audits.ListRecent(gctx, &operatorID, operatorListLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.OperatorDashboard{
		Stats:         stats,
		DelayedAudits: s.views(delayed),
		RecentAudits:  s.views(recent),
	}, nil
}

// ProgressSeries samples the completion ratio of an operator over a period:
// daily for week and month, every 30 days for year.
// ProgressSeries строит долю завершённых аудитов оператора за период:
// ежедневно для week и month, каждые 30 дней для year.
func (s *TrackerService) ProgressSeries(ctx context.Context, operatorID int64, period string) (*domain.ProgressSeries, error) {
	var days, step int
	switch period {
	case PeriodWeek:
		days, step = 7, 1
	case "", PeriodMonth:
		period, days, step = PeriodMonth, 30, 1
	case PeriodYear:
		days, step = 365, 30
	default:
		return nil, apperror.ValidationError("unknown period", map[string]interface{}{
			"period":  period,
			"allowed": []string{PeriodWeek, PeriodMonth, PeriodYear},
		})
	}

	audits, err := s.audits.ListByAssignee(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	start := now.AddDate(0, 0, -days)
	series := &domain.ProgressSeries{Period: period, Target: progressTarget}
	for at := start; !at.After(now); at = at.AddDate(0, 0, step) {
		var completed, total int64
		for i := range audits {
			if !audits[i].CreatedAt.After(at) {
				total++
			}
			if audits[i].CompletedAt != nil && !audits[i].CompletedAt.After(at) {
				completed++
			}
		}
		point := domain.ProgressPoint{Date: at, Completed: completed, Total: total}
		if total > 0 {
			point.Progress = roundTo2(float64(completed) / float64(total) * 100)
		}
		series.Points = append(series.Points, point)
	}
	return series, nil
}

// ==================== Administration ====================

// CreateAudit creates an audit, optionally bound to a standard and an operator, and generates its checklist.
// CreateAudit создаёт аудит, опционально со стандартом и оператором, и генерирует чек-лист.
func (s *TrackerService) CreateAudit(ctx context.Context, req *domain.CreateAuditRequest, actor domain.Principal) (*domain.Audit, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartSpan(ctx, "tracker", "CreateAudit")
	defer span.End()

	auditType := req.Type
	if auditType == "" {
		auditType = domain.AuditTypeCompliance
	}
	if !domain.ValidAuditType(auditType) {
		return nil, apperror.ValidationError("unknown audit type", map[string]interface{}{"type": auditType})
	}
	if req.DueDate.IsZero() {
		return nil, apperror.ValidationError("due date is required", map[string]interface{}{"due_date": "required"})
	}

	now := s.now()
	audit := &domain.Audit{
		Title:       strings.TrimSpace(req.Title),
		Type:        auditType,
		Status:      domain.AuditStatusPending,
		Description: strings.TrimSpace(req.Description),
		DueDate:     req.DueDate.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.StandardID != nil {
		std, err := s.standards.FindByID(ctx, *req.StandardID)
		if err != nil {
			return nil, err
		}
		audit.Standards = []domain.Standard{*std}
		if audit.Title == "" {
			audit.Title = "Audit " + std.Name
		}
	}
	if audit.Title == "" {
		audit.Title = "Audit"
	}

	if req.AssignedToID != nil {
		if _, err := s.operator(ctx, *req.AssignedToID); err != nil {
			return nil, err
		}
		id := *req.AssignedToID
		audit.AssignedToID = &id
	}

	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.audits.CreateTx(ctx, tx, audit); err != nil {
			return err
		}
		if _, err := s.generateTx(ctx, tx, audit, 0); err != nil {
			return err
		}
		return s.activity.RecordTx(ctx, tx, actor.UserID, domain.ActionAuditCreate, domain.ResourceAudit, auditRef(audit.ID),
			map[string]interface{}{"title": audit.Title, "assigned_to_id": audit.AssignedToID})
	})
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}
	return audit, nil
}

// operator loads a user and checks it is an operator.
func (s *TrackerService) operator(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsOperator() {
		return nil, apperror.ValidationError("assignee must be an operator", map[string]interface{}{"user_id": id})
	}
	return user, nil
}

// AssignAudit moves an open audit to an operator.
// AssignAudit передаёт незавершённый аудит оператору.
func (s *TrackerService) AssignAudit(ctx context.Context, auditID, operatorID int64, actor domain.Principal) (*domain.Audit, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartSpan(ctx, "tracker", "AssignAudit",
		telemetry.AttrAuditID.Int64(auditID), telemetry.AttrOperatorID.Int64(operatorID))
	defer span.End()

	if _, err := s.operator(ctx, operatorID); err != nil {
		return nil, err
	}

	var audit *domain.Audit
	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		audit, err = s.audits.FindByIDForUpdate(ctx, tx, auditID)
		if err != nil {
			return err
		}
		if audit.IsCompleted() {
			return apperror.PreconditionFailed("audit is already completed")
		}

		details := map[string]interface{}{"operator_id": operatorID}
		if audit.AssignedToID != nil {
			details["previous_operator_id"] = *audit.AssignedToID
		}
		audit.AssignedToID = &operatorID
		if err := s.audits.SaveStateTx(ctx, tx, audit); err != nil {
			return err
		}
		return s.activity.RecordTx(ctx, tx, actor.UserID, domain.ActionAuditAssign, domain.ResourceAudit, auditRef(audit.ID), details)
	})
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}
	return audit, nil
}

// ListUnassigned returns audits without an assignee.
func (s *TrackerService) ListUnassigned(ctx context.Context) ([]domain.AuditView, error) {
	audits, err := s.audits.ListUnassigned(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(audits), nil
}

// ListAll returns a page of all audits.
// ListAll возвращает страницу всех аудитов.
func (s *TrackerService) ListAll(ctx context.Context, page, pageSize int) ([]domain.AuditView, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultAuditPageSize
	}
	if pageSize > maxAuditPageSize {
		pageSize = maxAuditPageSize
	}
	audits, total, err := s.audits.ListAll(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return s.views(audits), total, nil
}

// AdminDashboard returns global counters, per-operator counters and the recent and delayed audits.
// AdminDashboard возвращает общие показатели, показатели операторов и последние и просроченные аудиты.
func (s *TrackerService) AdminDashboard(ctx context.Context) (*domain.AdminDashboard, error) {
	ctx, span := telemetry.StartSpan(ctx, "tracker", "AdminDashboard")
	defer span.End()

	now := s.now()
	var (
		stats     domain.AuditStats
		perOp     map[int64]domain.AuditStats
		operators []domain.User
		recent    []domain.Audit
		delayed   []domain.Audit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.audits.Stats(gctx, nil, now)
		return err
	})
	g.Go(func() error {
		var err error
		perOp, err = s.audits.StatsByAssignee(gctx, now)
		return err
	})
	g.Go(func() error {
		var err error
		operators, _, err = s.users.ListOperators(gctx, domain.OperatorFilter{Status: "all"})
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.audits.ListRecent(gctx, nil, adminListLimit)
		return err
	})
	g.Go(func() error {
		var err error
		delayed, err = s.audits.ListDelayed(gctx, nil, now, adminListLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		telemetry.End(span, err)
		return nil, err
	}

	dashboard := &domain.AdminDashboard{
		Stats:         stats,
		Operators:     make([]domain.OperatorStats, 0, len(operators)),
		RecentAudits:  s.views(recent),
		DelayedAudits: s.views(delayed),
	}
	for _, op := range operators {
		dashboard.Operators = append(dashboard.Operators, domain.OperatorStats{
			OperatorID: op.ID,
			Email:      op.Email,
			Name:       op.FullName(),
			Stats:      perOp[op.ID],
		})
	}
	return dashboard, nil
}

// ==================== Standards ====================

// ListStandards returns all standards.
func (s *TrackerService) ListStandards(ctx context.Context) ([]domain.Standard, error) {
	return s.standards.List(ctx)
}

// CreateStandard adds a standard. The code is the content provider key.
// CreateStandard добавляет стандарт. Код является ключом провайдера контента.
func (s *TrackerService) CreateStandard(ctx context.Context, req *domain.CreateStandardRequest, actor domain.Principal) (*domain.Standard, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	standard := &domain.Standard{
		Code:        strings.ToLower(strings.TrimSpace(req.Code)),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   s.now(),
	}
	if standard.Code == "" || standard.Name == "" {
		return nil, apperror.ValidationError("code and name are required", nil)
	}
	if err := s.standards.Create(ctx, standard); err != nil {
		return nil, err
	}

	if err := s.activity.Record(ctx, actor.UserID, domain.ActionStandardCreate, domain.ResourceStandard,
		strconv.FormatInt(standard.ID, 10), map[string]interface{}{"code": standard.Code}); err != nil {
		s.logger.WithContext(ctx).Warn("standard creation not recorded", "standard_id", standard.ID, "error", err)
	}
	return standard, nil
}

var _ port.TrackerService = (*TrackerService)(nil)
