package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/andrewhigh08/audit-tracker/internal/adapter/http/response"
	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// AuditHandler serves the audit tracker: operator execution and admin planning.
// AuditHandler обслуживает трекер аудитов: выполнение оператором и планирование администратором.
type AuditHandler struct {
	trackerService port.TrackerService
	logger         *logger.Logger
}

// NewAuditHandler creates a new AuditHandler instance.
// NewAuditHandler создаёт новый экземпляр AuditHandler.
func NewAuditHandler(trackerService port.TrackerService, log *logger.Logger) *AuditHandler {
	return &AuditHandler{
		trackerService: trackerService,
		logger:         log.WithComponent("audit_handler"),
	}
}

// AssignRequest asks for a batch of audits. Zero selects the default batch.
// AssignRequest запрашивает пакет аудитов. Ноль выбирает размер по умолчанию.
type AssignRequest struct {
	Count int `json:"count" binding:"omitempty,min=1,max=50"`
}

// AssignAuditRequest hands one audit to an operator.
type AssignAuditRequest struct {
	OperatorID int64 `json:"operator_id" binding:"required,min=1"`
}

// UpdateStatusRequest asks for an audit status. delayed is rejected.
// UpdateStatusRequest запрашивает статус аудита. delayed отклоняется.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,max=20"`
}

// GenerateEntriesRequest sets the checklist size. Zero picks a random size.
// GenerateEntriesRequest задаёт размер чек-листа. Ноль выбирает случайный.
type GenerateEntriesRequest struct {
	Count int `json:"count" binding:"omitempty,min=1,max=100"`
}

// AuditImageForm is the multipart form of an audit photo.
type AuditImageForm struct {
	StandardID int64 `form:"standard_id" binding:"required,min=1"`
}

// SubmitResultForm is the multipart form of an inspection result.
// SubmitResultForm — multipart форма результата проверки.
type SubmitResultForm struct {
	Status        string   `form:"status" binding:"required,oneof=compliant non_compliant not_applicable"`
	ObservedValue *float64 `form:"observed_value"`
	Comment       string   `form:"comment" binding:"omitempty,max=2000"`
}

// ListMine handles GET /api/v1/audits.
// ListMine обрабатывает GET /api/v1/audits.
// @Summary My audits
// @Tags audits
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse{data=[]domain.AuditView}
// @Router /api/v1/audits [get]
func (h *AuditHandler) ListMine(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}

	audits, err := h.trackerService.ListForOperator(c.Request.Context(), caller.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, audits)
}

// AssignMe handles POST /api/v1/audits/assign.
// AssignMe обрабатывает POST /api/v1/audits/assign.
//
// Returns the open audits of the caller, claiming or creating new ones when none are open.
// Возвращает открытые аудиты пользователя, забирая или создавая новые, если открытых нет.
// @Summary Get audits to work on
// @Tags audits
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body AssignRequest false "Batch size"
// @Success 200 {object} response.APIResponse{data=[]domain.Audit}
// @Router /api/v1/audits/assign [post]
func (h *AuditHandler) AssignMe(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req AssignRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	audits, err := h.trackerService.AssignOrCreate(c.Request.Context(), caller.UserID, req.Count)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, audits)
}

// Dashboard handles GET /api/v1/audits/dashboard.
// @Summary Operator dashboard
// @Tags audits
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse{data=domain.OperatorDashboard}
// @Router /api/v1/audits/dashboard [get]
func (h *AuditHandler) Dashboard(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}

	dashboard, err := h.trackerService.OperatorDashboard(c.Request.Context(), caller.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dashboard)
}

// Progress handles GET /api/v1/audits/progress?period=week|month|year.
// Progress обрабатывает GET /api/v1/audits/progress?period=week|month|year.
// @Summary Completion series
// @Tags audits
// @Security BearerAuth
// @Produce json
// @Param period query string false "week, month or year" default(month)
// @Success 200 {object} response.APIResponse{data=domain.ProgressSeries}
// @Failure 400 {object} response.APIResponse
// @Router /api/v1/audits/progress [get]
func (h *AuditHandler) Progress(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}

	series, err := h.trackerService.ProgressSeries(c.Request.Context(), caller.UserID, c.Query("period"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, series)
}

// Execution handles GET /api/v1/audits/:id/execution.
// Execution обрабатывает GET /api/v1/audits/:id/execution.
// @Summary Checklist of an audit
// @Tags audits
// @Security BearerAuth
// @Produce json
// @Param id path int true "Audit ID"
// @Success 200 {object} response.APIResponse{data=domain.ExecutionView}
// @Failure 404 {object} response.APIResponse
// @Router /api/v1/audits/{id}/execution [get]
func (h *AuditHandler) Execution(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}
	auditID, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.trackerService.GetExecutionView(c.Request.Context(), auditID, caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, view)
}

// Complete handles POST /api/v1/audits/:id/complete.
// Complete обрабатывает POST /api/v1/audits/:id/complete.
// @Summary Complete an audit
// @Description Fails while any entry has no result
// @Tags audits
// @Security BearerAuth
// @Produce json
// @Param id path int true "Audit ID"
// @Success 200 {object} response.APIResponse{data=domain.Audit}
// @Failure 404 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /api/v1/audits/{id}/complete [post]
func (h *AuditHandler) Complete(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}
	auditID, ok := pathID(c, "id")
	if !ok {
		return
	}

	audit, err := h.trackerService.CompleteAudit(c.Request.Context(), auditID, caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, audit)
}

// Regenerate handles POST /api/v1/audits/:id/regenerate.
// Regenerate обрабатывает POST /api/v1/audits/:id/regenerate.
// @Summary Regenerate the checklist
// @Tags audits
// @Security BearerAuth
// @Produce json
// @Param id path int true "Audit ID"
// @Success 200 {object} response.APIResponse{data=[]domain.AuditEntry}
// @Failure 409 {object} response.APIResponse
// @Router /api/v1/audits/{id}/regenerate [post]
func (h *AuditHandler) Regenerate(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}
	auditID, ok := pathID(c, "id")
	if !ok {
		return
	}

	entries, err := h.trackerService.RegenerateEntries(c.Request.Context(), auditID, caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, entries)
}

// UpdateStatus handles PUT /api/v1/audits/:id/status.
// UpdateStatus обрабатывает PUT /api/v1/audits/:id/status.
// @Summary Change the status of an audit
// @Description pending to in_progress, or completed once every entry has a result
// @Tags audits
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Audit ID"
// @Param request body UpdateStatusRequest true "Status"
// @Success 200 {object} response.APIResponse{data=domain.Audit}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /api/v1/audits/{id}/status [put]
func (h *AuditHandler) UpdateStatus(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}
	auditID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	audit, err := h.trackerService.UpdateStatus(c.Request.Context(), auditID, caller, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, audit)
}

// UploadImage handles POST /api/v1/audits/:id/images.
// UploadImage обрабатывает POST /api/v1/audits/:id/images.
// @Summary Attach a photo to an audit
// @Tags audits
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Audit ID"
// @Param standard_id formData int true "Standard ID"
// @Param image formData file true "Photo"
// @Success 201 {object} response.APIResponse{data=domain.AuditImageView}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /api/v1/audits/{id}/images [post]
func (h *AuditHandler) UploadImage(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}
	auditID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var form AuditImageForm
	if err := c.ShouldBind(&form); err != nil {
		response.ValidationError(c, "invalid image form", map[string]interface{}{
			"details": err.Error(),
		})
		return
	}

	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	defer closeImage()
	if image == nil {
		response.ValidationError(c, "image is required", map[string]interface{}{"image": "required"})
		return
	}

	view, err := h.trackerService.UploadAuditImage(c.Request.Context(), auditID, caller, domain.UploadAuditImageRequest{
		StandardID: form.StandardID,
		Image:      image,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, view)
}

// SubmitResult handles POST /api/v1/entries/:id/result.
// SubmitResult обрабатывает POST /api/v1/entries/:id/result.
//
// Accepts a form with an optional "image" file.
// Принимает форму с необязательным файлом "image".
// @Summary Record an inspection result
// @Tags audits
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Entry ID"
// @Param status formData string true "compliant, non_compliant or not_applicable"
// @Param observed_value formData number false "Measured value"
// @Param comment formData string false "Comment"
// @Param image formData file false "Photo"
// @Success 200 {object} response.APIResponse{data=domain.InspectionResult}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /api/v1/entries/{id}/result [post]
func (h *AuditHandler) SubmitResult(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}
	entryID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var form SubmitResultForm
	if err := c.ShouldBind(&form); err != nil {
		response.ValidationError(c, "invalid result form", map[string]interface{}{
			"details": err.Error(),
		})
		return
	}

	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	defer closeImage()

	result, err := h.trackerService.SubmitResult(c.Request.Context(), entryID, caller, domain.SubmitResultRequest{
		Status:        form.Status,
		ObservedValue: form.ObservedValue,
		Comment:       form.Comment,
		Image:         image,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListStandards handles GET /api/v1/standards.
// @Summary Compliance standards
// @Tags standards
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse{data=[]domain.Standard}
// @Router /api/v1/standards [get]
func (h *AuditHandler) ListStandards(c *gin.Context) {
	standards, err := h.trackerService.ListStandards(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, standards)
}

// CreateStandard handles POST /api/v1/admin/standards.
// CreateStandard обрабатывает POST /api/v1/admin/standards.
// @Summary Add a compliance standard
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body domain.CreateStandardRequest true "Standard"
// @Success 201 {object} response.APIResponse{data=domain.Standard}
// @Failure 409 {object} response.APIResponse
// @Router /api/v1/admin/standards [post]
func (h *AuditHandler) CreateStandard(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req domain.CreateStandardRequest
	if !bindJSON(c, &req) {
		return
	}

	standard, err := h.trackerService.CreateStandard(c.Request.Context(), &req, caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, standard)
}

// ListAll handles GET /api/v1/admin/audits.
// ListAll обрабатывает GET /api/v1/admin/audits.
// @Summary All audits
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} response.APIResponse{data=[]domain.AuditView}
// @Router /api/v1/admin/audits [get]
func (h *AuditHandler) ListAll(c *gin.Context) {
	page, pageSize := pagination(c)

	audits, total, err := h.trackerService.ListAll(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Page(c, audits, page, pageSize, total)
}

// ListUnassigned handles GET /api/v1/admin/audits/unassigned.
// @Summary Audits without operator
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse{data=[]domain.AuditView}
// @Router /api/v1/admin/audits/unassigned [get]
func (h *AuditHandler) ListUnassigned(c *gin.Context) {
	audits, err := h.trackerService.ListUnassigned(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, audits)
}

// CreateAudit handles POST /api/v1/admin/audits.
// CreateAudit обрабатывает POST /api/v1/admin/audits.
// @Summary Create an audit
// @Description Creates the audit and generates its checklist
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body domain.CreateAuditRequest true "Audit"
// @Success 201 {object} response.APIResponse{data=domain.Audit}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /api/v1/admin/audits [post]
func (h *AuditHandler) CreateAudit(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req domain.CreateAuditRequest
	if !bindJSON(c, &req) {
		return
	}

	audit, err := h.trackerService.CreateAudit(c.Request.Context(), &req, caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, audit)
}

// AssignAudit handles POST /api/v1/admin/audits/:id/assign.
// AssignAudit обрабатывает POST /api/v1/admin/audits/:id/assign.
// @Summary Assign an audit
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Audit ID"
// @Param request body AssignAuditRequest true "Operator"
// @Success 200 {object} response.APIResponse{data=domain.Audit}
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /api/v1/admin/audits/{id}/assign [post]
func (h *AuditHandler) AssignAudit(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}
	auditID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req AssignAuditRequest
	if !bindJSON(c, &req) {
		return
	}

	audit, err := h.trackerService.AssignAudit(c.Request.Context(), auditID, req.OperatorID, caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, audit)
}

// GenerateEntries handles POST /api/v1/admin/audits/:id/entries.
// GenerateEntries обрабатывает POST /api/v1/admin/audits/:id/entries.
// @Summary Replace the checklist of an audit
// @Description Drops existing entries and results
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Audit ID"
// @Param request body GenerateEntriesRequest false "Checklist size"
// @Success 200 {object} response.APIResponse{data=[]domain.AuditEntry}
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /api/v1/admin/audits/{id}/entries [post]
func (h *AuditHandler) GenerateEntries(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}
	auditID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req GenerateEntriesRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	entries, err := h.trackerService.GenerateEntries(c.Request.Context(), auditID, req.Count, caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, entries)
}

// AdminDashboard handles GET /api/v1/admin/dashboard.
// @Summary Administrator dashboard
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse{data=domain.AdminDashboard}
// @Router /api/v1/admin/dashboard [get]
func (h *AuditHandler) AdminDashboard(c *gin.Context) {
	dashboard, err := h.trackerService.AdminDashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dashboard)
}

// OperatorAudits handles GET /api/v1/admin/operators/:id/audits.
// @Summary Audits of an operator
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Operator ID"
// @Success 200 {object} response.APIResponse{data=[]domain.AuditView}
// @Router /api/v1/admin/operators/{id}/audits [get]
func (h *AuditHandler) OperatorAudits(c *gin.Context) {
	operatorID, ok := pathID(c, "id")
	if !ok {
		return
	}

	audits, err := h.trackerService.ListForOperator(c.Request.Context(), operatorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, audits)
}

// GenerateForOperator handles POST /api/v1/admin/operators/:id/generate-audits.
// GenerateForOperator обрабатывает POST /api/v1/admin/operators/:id/generate-audits.
// @Summary Give audits to an operator
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Operator ID"
// @Param request body AssignRequest false "Batch size"
// @Success 200 {object} response.APIResponse{data=[]domain.Audit}
// @Failure 404 {object} response.APIResponse
// @Router /api/v1/admin/operators/{id}/generate-audits [post]
func (h *AuditHandler) GenerateForOperator(c *gin.Context) {
	operatorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req AssignRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	audits, err := h.trackerService.AssignOrCreate(c.Request.Context(), operatorID, req.Count)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, audits)
}
