package domain

import (
	"time"
)

// Audit types.
// Типы аудитов.
const (
	AuditTypeTechnical  = "technical"
	AuditTypeFinancial  = "financial"
	AuditTypeSecurity   = "security"
	AuditTypeCompliance = "compliance"
)

// Audit statuses.
// Статусы аудита.
const (
	AuditStatusPending    = "pending"
	AuditStatusInProgress = "in_progress"
	AuditStatusCompleted  = "completed"
)

// AuditStatusDelayed is how clients name an overdue audit. It is derived
// from the due date and is never stored.
// AuditStatusDelayed — имя просроченного аудита у клиентов. Вычисляется
// по сроку и никогда не хранится.
const AuditStatusDelayed = "delayed"

// Inspection result statuses.
// Статусы результатов проверки.
const (
	ResultCompliant     = "compliant"
	ResultNonCompliant  = "non_compliant"
	ResultNotApplicable = "not_applicable"
)

// ValidResultStatus reports whether s is a known inspection result status.
func ValidResultStatus(s string) bool {
	switch s {
	case ResultCompliant, ResultNonCompliant, ResultNotApplicable:
		return true
	}
	return false
}

// ValidAuditStatus reports whether s is a stored audit status.
func ValidAuditStatus(s string) bool {
	switch s {
	case AuditStatusPending, AuditStatusInProgress, AuditStatusCompleted:
		return true
	}
	return false
}

// ValidAuditType reports whether t is a known audit type.
func ValidAuditType(t string) bool {
	switch t {
	case AuditTypeTechnical, AuditTypeFinancial, AuditTypeSecurity, AuditTypeCompliance:
		return true
	}
	return false
}

// Standard is a compliance standard an audit is checked against.
// Standard — стандарт соответствия, по которому проводится аудит.
type Standard struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for Standard entity.
func (Standard) TableName() string {
	return "standards"
}

// Audit is a unit of inspection work, optionally assigned to an operator.
// Audit — единица работы по проверке, опционально назначенная оператору.
//
// Progress is written only by the recompute procedure and by explicit completion.
// Delay is derived at read time and never stored.
//
// Прогресс записывается только процедурой пересчёта и явным завершением.
// Просрочка вычисляется при чтении и не хранится.
type Audit struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"type:varchar(200);not null" json:"title"`
	Type         string     `gorm:"type:varchar(20);not null;default:'compliance'" json:"type"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Description  string     `gorm:"type:text" json:"description"`
	DueDate      time.Time  `gorm:"not null;index" json:"due_date"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Progress     int        `gorm:"not null;default:0" json:"progress"`
	AssignedToID *int64     `gorm:"index" json:"assigned_to_id,omitempty"`
	AssignedTo   *User      `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"assigned_to,omitempty"`
	Standards    []Standard `gorm:"many2many:audit_standards" json:"standards,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

// TableName returns the database table name for Audit entity.
func (Audit) TableName() string {
	return "audits"
}

// IsCompleted reports whether the audit reached its terminal status.
func (a *Audit) IsCompleted() bool { return a.Status == AuditStatusCompleted }

// IsAssignedTo reports whether the audit belongs to the given user.
func (a *Audit) IsAssignedTo(userID int64) bool {
	return a.AssignedToID != nil && *a.AssignedToID == userID
}

// IsDelayed reports whether the due date passed while the audit is still open.
// IsDelayed сообщает, прошёл ли срок при незавершённом аудите.
func (a *Audit) IsDelayed(now time.Time) bool {
	return a.DueDate.Before(now) && !a.IsCompleted()
}

// DaysOverdue returns the number of whole days past the due date for a delayed audit.
func (a *Audit) DaysOverdue(now time.Time) int {
	if !a.IsDelayed(now) {
		return 0
	}
	return int(now.Sub(a.DueDate).Hours() / 24)
}

// PrimaryStandardCode returns the code of the first associated standard, or "".
func (a *Audit) PrimaryStandardCode() string {
	if len(a.Standards) == 0 {
		return ""
	}
	return a.Standards[0].Code
}

// AuditEntry is one ordered checklist item of an audit.
// AuditEntry — упорядоченный пункт чек-листа аудита.
type AuditEntry struct {
	ID             int64             `gorm:"primaryKey" json:"id"`
	AuditID        int64             `gorm:"not null;index;uniqueIndex:idx_entry_sequence" json:"audit_id"`
	SequenceNumber int               `gorm:"not null;uniqueIndex:idx_entry_sequence" json:"sequence_number"`
	Name           string            `gorm:"type:varchar(200);not null" json:"name"`
	ReferenceValue float64           `gorm:"not null" json:"reference_value"`
	Description    string            `gorm:"type:text" json:"description"`
	Result         *InspectionResult `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE" json:"result,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// TableName returns the database table name for AuditEntry entity.
func (AuditEntry) TableName() string {
	return "audit_entries"
}

// InspectionResult is the observation recorded against an entry. At most one per entry.
// InspectionResult — наблюдение по пункту. Не более одного на пункт.
type InspectionResult struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	EntryID       int64     `gorm:"not null;uniqueIndex" json:"entry_id"`
	ObservedValue *float64  `json:"observed_value,omitempty"`
	Status        string    `gorm:"type:varchar(20);not null" json:"status"`
	Comment       string    `gorm:"type:text" json:"comment"`
	ImageKey      *string   `gorm:"type:varchar(255)" json:"-"`
	RecordedBy    int64     `gorm:"not null" json:"recorded_by"`
	RecordedAt    time.Time `gorm:"not null" json:"recorded_at"`
}

// TableName returns the database table name for InspectionResult entity.
func (InspectionResult) TableName() string {
	return "inspection_results"
}

// AuditImage is a photo attached to an audit for one of its standards.
// AuditImage — фотография, приложенная к аудиту по одному из стандартов.
type AuditImage struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	AuditID    int64     `gorm:"not null;index" json:"audit_id"`
	StandardID int64     `gorm:"not null" json:"standard_id"`
	ImageKey   string    `gorm:"type:varchar(255);not null" json:"-"`
	UploadedBy int64     `gorm:"not null" json:"uploaded_by"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

// TableName returns the database table name for AuditImage entity.
func (AuditImage) TableName() string {
	return "audit_images"
}

// ComputeProgress returns floor(100 * withResult / total), or 0 for an empty audit.
// ComputeProgress возвращает floor(100 * withResult / total) или 0 для пустого аудита.
func ComputeProgress(withResult, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(100 * withResult / total)
}
