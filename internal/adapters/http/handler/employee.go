package handler

import (
	"net/http"

	"github.com/andervilo/timesheet-go/internal/core/employee"
	"github.com/andervilo/timesheet-go/internal/core/pagination"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type employeeRequest struct {
	Name      string `json:"name" validate:"required" example:"Ana"`
	Email     string `json:"email" validate:"omitempty,email" example:"ana@x.com"`
	BirthDate string `json:"birthDate" validate:"omitempty,datetime=2006-01-02" example:"1990-05-02"`
}

type employeeFilterRequest struct {
	Page           int     `json:"page" default:"0" example:"0"`
	Size           int     `json:"size" default:"10" example:"10"`
	SortBy         string  `json:"sortBy" example:"name"`
	Direction      string  `json:"direction" default:"ASC" example:"ASC"`
	Name           *string `json:"name" example:"ana"`
	Email          *string `json:"email"`
	BirthDateStart *string `json:"birthDateStart" validate:"omitempty,datetime=2006-01-02" example:"1980-01-01"`
	BirthDateEnd   *string `json:"birthDateEnd" validate:"omitempty,datetime=2006-01-02" example:"1999-12-31"`
	BirthMonth     *int    `json:"birthMonth" example:"5"`
}

// employeePage は OpenAPI 文書用のページ応答です。
type employeePage struct {
	Content       []employee.DTO `json:"content"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	CurrentPage   int            `json:"currentPage"`
	PageSize      int            `json:"pageSize"`
	First         bool           `json:"first"`
	Last          bool           `json:"last"`
}

// EmployeeHandler は /api/employees の HTTP ハンドラーです。
type EmployeeHandler struct {
	svc      employee.UseCase
	validate *validator.Validate
	failer
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase, logger *zap.Logger) *EmployeeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeHandler{svc: svc, validate: newValidator(), failer: failer{logger: logger}}
}

// Register はルートを mux に登録します。
func (h *EmployeeHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/employees", h.create)
	mux.HandleFunc("PUT /api/employees/{id}", h.update)
	mux.HandleFunc("DELETE /api/employees/{id}", h.delete)
	mux.HandleFunc("GET /api/employees/{id}", h.findByID)
	mux.HandleFunc("GET /api/employees", h.findAll)
	mux.HandleFunc("POST /api/employees/filter", h.filter)
}

// create は社員を作成します。
//
//	@Summary	Create employee
//	@Tags		employees
//	@Accept		json
//	@Produce	json
//	@Param		body	body		employeeRequest	true	"Employee"
//	@Success	200		{object}	employee.DTO
//	@Failure	400		{object}	Problem
//	@Failure	500		{object}	Problem
//	@Router		/api/employees [post]
func (h *EmployeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := decodeRequest(w, r, h.validate, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	birth, err := parseDate(req.BirthDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	dto, err := h.svc.Create(r.Context(), employee.CreateCommand{Name: req.Name, Email: req.Email, BirthDate: birth})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// update は社員を置き換えます。
//
//	@Summary	Update employee
//	@Tags		employees
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Employee ID"
//	@Param		body	body		employeeRequest	true	"Employee"
//	@Success	200		{object}	employee.DTO
//	@Failure	400		{object}	Problem
//	@Failure	404		{object}	Problem
//	@Failure	500		{object}	Problem
//	@Router		/api/employees/{id} [put]
func (h *EmployeeHandler) update(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := decodeRequest(w, r, h.validate, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	birth, err := parseDate(req.BirthDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	dto, err := h.svc.Update(r.Context(), r.PathValue("id"), employee.UpdateCommand{Name: req.Name, Email: req.Email, BirthDate: birth})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// delete は社員を削除します。存在しない ID でも 204 を返します。
//
//	@Summary	Delete employee
//	@Tags		employees
//	@Param		id	path	string	true	"Employee ID"
//	@Success	204
//	@Failure	500	{object}	Problem
//	@Router		/api/employees/{id} [delete]
func (h *EmployeeHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// findByID は社員を取得します。
//
//	@Summary	Get employee
//	@Tags		employees
//	@Produce	json
//	@Param		id	path		string	true	"Employee ID"
//	@Success	200	{object}	employee.DTO
//	@Failure	404	{object}	Problem
//	@Failure	500	{object}	Problem
//	@Router		/api/employees/{id} [get]
func (h *EmployeeHandler) findByID(w http.ResponseWriter, r *http.Request) {
	dto, err := h.svc.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// findAll は全社員を返します。
//
//	@Summary	List employees
//	@Tags		employees
//	@Produce	json
//	@Success	200	{array}		employee.DTO
//	@Failure	500	{object}	Problem
//	@Router		/api/employees [get]
func (h *EmployeeHandler) findAll(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.svc.FindAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos)
}

// filter は条件に一致する社員を 1 ページ分返します。
//
//	@Summary	Search employees
//	@Tags		employees
//	@Accept		json
//	@Produce	json
//	@Param		body	body		employeeFilterRequest	true	"Filter"
//	@Success	200		{object}	employeePage
//	@Failure	400		{object}	Problem
//	@Failure	500		{object}	Problem
//	@Router		/api/employees/filter [post]
func (h *EmployeeHandler) filter(w http.ResponseWriter, r *http.Request) {
	var req employeeFilterRequest
	if err := decodeRequest(w, r, h.validate, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	f, err := req.toFilter()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	page, err := h.svc.FindWithFilters(r.Context(), f)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (req employeeFilterRequest) toFilter() (employee.Filter, error) {
	start, err := parseOptionalDate(req.BirthDateStart)
	if err != nil {
		return employee.Filter{}, err
	}
	end, err := parseOptionalDate(req.BirthDateEnd)
	if err != nil {
		return employee.Filter{}, err
	}

	return employee.Filter{
		Page: pagination.Request{
			Page:      req.Page,
			Size:      req.Size,
			SortBy:    req.SortBy,
			Direction: pagination.Direction(req.Direction),
		},
		Name:           req.Name,
		Email:          req.Email,
		BirthDateStart: start,
		BirthDateEnd:   end,
		BirthMonth:     req.BirthMonth,
	}, nil
}
