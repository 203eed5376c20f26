package domain

import (
	"io"
	"time"
)

// RegisterRequest carries the fields of a new local account.
// RegisterRequest содержит поля новой локальной учётной записи.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,safeemail"`
	Password  string `json:"password" binding:"required,max=128"`
	Role      string `json:"role" binding:"omitempty,oneof=admin operator"`
	FirstName string `json:"first_name" binding:"omitempty,max=100,nohtml"`
	LastName  string `json:"last_name" binding:"omitempty,max=100,nohtml"`
}

// Upload is a binary object received from a client.
// Upload — бинарный объект, полученный от клиента.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// SubmitResultRequest carries an inspection observation for one entry.
// SubmitResultRequest содержит наблюдение по одному пункту.
type SubmitResultRequest struct {
	ObservedValue *float64
	Status        string
	Comment       string
	Image         *Upload
}

// UploadAuditImageRequest carries a photo of an audit for one standard.
// UploadAuditImageRequest содержит фотографию аудита по одному стандарту.
type UploadAuditImageRequest struct {
	StandardID int64
	Image      *Upload
}

// CreateAuditRequest carries an administrator-created audit.
// CreateAuditRequest содержит аудит, созданный администратором.
type CreateAuditRequest struct {
	Title        string    `json:"title" binding:"omitempty,max=200,nohtml"`
	Type         string    `json:"type" binding:"omitempty,oneof=technical financial security compliance"`
	Description  string    `json:"description" binding:"omitempty,max=2000"`
	DueDate      time.Time `json:"due_date" binding:"required"`
	StandardID   *int64    `json:"standard_id"`
	AssignedToID *int64    `json:"assigned_to_id"`
}

// CreateStandardRequest carries a new compliance standard.
type CreateStandardRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Name        string `json:"name" binding:"required,max=100,nohtml"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// OperatorFilter selects operators by lifecycle state.
// OperatorFilter выбирает операторов по состоянию жизненного цикла.
type OperatorFilter struct {
	Status   string // all, unverified, pending, active, disabled
	Page     int
	PageSize int
}

// Profile is the account of the caller with a temporary avatar link.
// Profile — учётная запись инициатора с временной ссылкой на аватар.
type Profile struct {
	User
	State     AccountState `json:"state"`
	AvatarURL string       `json:"avatar_url,omitempty"`
}

// AuditView is an audit decorated with read-time derived fields.
// AuditView — аудит с производными полями, вычисляемыми при чтении.
type AuditView struct {
	Audit
	IsDelayed   bool `json:"is_delayed"`
	DaysOverdue int  `json:"days_overdue"`
}

// NewAuditView derives the delay fields of an audit at the given instant.
func NewAuditView(a Audit, now time.Time) AuditView {
	return AuditView{Audit: a, IsDelayed: a.IsDelayed(now), DaysOverdue: a.DaysOverdue(now)}
}

// EntryView is an entry with its current result and a temporary image link.
type EntryView struct {
	AuditEntry
	ImageURL string `json:"image_url,omitempty"`
}

// AuditImageView is an audit image with a temporary link.
type AuditImageView struct {
	AuditImage
	URL string `json:"url,omitempty"`
}

// ExecutionView is what an operator sees while working through an audit.
// ExecutionView — то, что видит оператор при выполнении аудита.
type ExecutionView struct {
	Audit             AuditView        `json:"audit"`
	Entries           []EntryView      `json:"entries"`
	TotalEntries      int64            `json:"total_entries"`
	EntriesWithResult int64            `json:"entries_with_result"`
	IsDelayed         bool             `json:"is_delayed"`
	Images            []AuditImageView `json:"images"`
}

// AuditStats are aggregate counters over a set of audits.
type AuditStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Delayed    int64 `json:"delayed"`
}

// OperatorDashboard summarises the audits of one operator.
// OperatorDashboard — сводка по аудитам одного оператора.
type OperatorDashboard struct {
	Stats         AuditStats  `json:"stats"`
	DelayedAudits []AuditView `json:"delayed_audits"`
	RecentAudits  []AuditView `json:"recent_audits"`
}

// OperatorStats are the counters of one operator on the administrator dashboard.
type OperatorStats struct {
	OperatorID int64      `json:"operator_id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Stats      AuditStats `json:"stats"`
}

// AdminDashboard summarises all audits and operators.
// AdminDashboard — сводка по всем аудитам и операторам.
type AdminDashboard struct {
	Stats         AuditStats      `json:"stats"`
	Operators     []OperatorStats `json:"operators"`
	RecentAudits  []AuditView     `json:"recent_audits"`
	DelayedAudits []AuditView     `json:"delayed_audits"`
}

// ProgressPoint is one sample of a progress series.
type ProgressPoint struct {
	Date      time.Time `json:"date"`
	Completed int64     `json:"completed"`
	Total     int64     `json:"total"`
	Progress  float64   `json:"progress"`
}

// ProgressSeries is the completion curve of an operator over a period.
// ProgressSeries — кривая завершения аудитов оператора за период.
type ProgressSeries struct {
	Period string          `json:"period"`
	Target float64         `json:"target"`
	Points []ProgressPoint `json:"points"`
}

// EntryTemplate is one reusable checklist item of a standard or machine type.
// EntryTemplate — шаблон пункта чек-листа стандарта или типа машины.
type EntryTemplate struct {
	Name        string
	Description string
}

// TemplateSet is the content answered for a standard. Title is set when the
// content came from a fallback table and the audit should be renamed.
// TemplateSet — содержимое для стандарта. Title заполняется, если
// использована резервная таблица и аудит нужно переименовать.
type TemplateSet struct {
	Title     string
	Templates []EntryTemplate
}
