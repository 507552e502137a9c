package handler

import (
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/hrwiki/backend/internal/domain/hr"
	"github.com/hrwiki/backend/internal/infrastructure/log"
	"github.com/hrwiki/backend/internal/interfaces/http/response"
)

// EmployeeHandler 员工查询处理器
type EmployeeHandler struct {
	employees hr.EmployeeRepository
	logger    *slog.Logger
}

// NewEmployeeHandler 创建员工查询处理器
func NewEmployeeHandler(employees hr.EmployeeRepository) *EmployeeHandler {
	return &EmployeeHandler{
		employees: employees,
		logger:    log.NewModuleLogger("http", "employee"),
	}
}

// EmployeeView 按角色渲染的员工视图
type EmployeeView struct {
	EmployeeID     int    `json:"employee_id"`
	Name           string `json:"name"`
	Position       string `json:"position,omitempty"`
	ContractType   string `json:"contract_type,omitempty"`
	JoinDate       string `json:"join_date,omitempty"`
	Salary         string `json:"salary,omitempty"`
	VisaType       string `json:"visa_type,omitempty"`
	VisaExpiration string `json:"visa_expiration,omitempty"`
	Terminated     bool   `json:"terminated,omitempty"`
}

// Get 按 ID 查询员工
// 薪资与签证细节按 role 查询参数裁剪，与问答链路同一套规则
// @Summary 员工详情
// @Tags employees
// @Produce json
// @Param id path int true "员工 ID"
// @Param role query string false "请求者角色" default(hr_junior)
// @Success 200 {object} response.Response{data=EmployeeView}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid employee id")
		return
	}

	role := hr.Role(c.DefaultQuery("role", string(hr.RoleHRJunior)))
	if !role.IsValid() {
		role = hr.RoleHRJunior
	}

	employee, err := h.employees.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, hr.ErrEmployeeNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeNotFound, hr.NotFoundFragmentText(id))
			return
		}
		h.logger.Error("employee lookup failed", "employee_id", id, "error", err)
		response.Error(c, http.StatusServiceUnavailable, response.CodeStoreError, "document store unavailable")
		return
	}

	response.Success(c, renderEmployeeView(employee, role))
}

// renderEmployeeView 按角色裁剪字段
func renderEmployeeView(e *hr.Employee, role hr.Role) EmployeeView {
	view := EmployeeView{
		EmployeeID:   e.EmployeeID,
		Name:         e.Name,
		Position:     e.Position,
		ContractType: e.ContractType,
		JoinDate:     e.JoinDate,
	}
	if role == hr.RoleHRLead {
		if e.Salary > 0 {
			view.Salary = strconv.FormatFloat(e.Salary, 'f', 2, 64)
		}
		view.VisaType = e.VisaType
		view.VisaExpiration = e.VisaExpiration
		view.Terminated = e.Terminated
	} else if e.VisaType != "" {
		// 初级角色只可见是否持有签证，不可见类型与到期日
		view.VisaType = "visa on file"
	}
	return view
}
