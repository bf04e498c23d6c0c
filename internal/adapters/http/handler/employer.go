package handler

import (
	"net/http"

	"github.com/andervilo/timesheet-go/internal/core/employer"
	"github.com/andervilo/timesheet-go/internal/core/pagination"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type employerRequest struct {
	Name    string `json:"name" validate:"required" example:"Acme Ltda"`
	CNPJ    string `json:"cnpj" example:"12.345.678/0001-90"`
	Address string `json:"address" example:"Av. Paulista, 1000"`
	Phone   string `json:"phone" example:"+55 11 5555-0000"`
	Email   string `json:"email" validate:"omitempty,email" example:"contato@acme.com"`
}

type employerFilterRequest struct {
	Page      int     `json:"page" default:"0" example:"0"`
	Size      int     `json:"size" default:"10" example:"10"`
	SortBy    string  `json:"sortBy" example:"name"`
	Direction string  `json:"direction" default:"ASC" example:"ASC"`
	Name      *string `json:"name" example:"acme"`
	CNPJ      *string `json:"cnpj"`
	Address   *string `json:"address"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
}

// employerPage は OpenAPI 文書用のページ応答です。
type employerPage struct {
	Content       []employer.DTO `json:"content"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	CurrentPage   int            `json:"currentPage"`
	PageSize      int            `json:"pageSize"`
	First         bool           `json:"first"`
	Last          bool           `json:"last"`
}

// EmployerHandler は /api/employers の HTTP ハンドラーです。
type EmployerHandler struct {
	svc      employer.UseCase
	validate *validator.Validate
	failer
}

// NewEmployerHandler は EmployerHandler を生成します。
func NewEmployerHandler(svc employer.UseCase, logger *zap.Logger) *EmployerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployerHandler{svc: svc, validate: newValidator(), failer: failer{logger: logger}}
}

// Register はルートを mux に登録します。
func (h *EmployerHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/employers", h.create)
	mux.HandleFunc("PUT /api/employers/{id}", h.update)
	mux.HandleFunc("DELETE /api/employers/{id}", h.delete)
	mux.HandleFunc("GET /api/employers/{id}", h.findByID)
	mux.HandleFunc("GET /api/employers", h.findAll)
	mux.HandleFunc("POST /api/employers/filter", h.filter)
}

// create は雇用主を作成します。
//
//	@Summary	Create employer
//	@Tags		employers
//	@Accept		json
//	@Produce	json
//	@Param		body	body		employerRequest	true	"Employer"
//	@Success	200		{object}	employer.DTO
//	@Failure	400		{object}	Problem
//	@Failure	500		{object}	Problem
//	@Router		/api/employers [post]
func (h *EmployerHandler) create(w http.ResponseWriter, r *http.Request) {
	var req employerRequest
	if err := decodeRequest(w, r, h.validate, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	dto, err := h.svc.Create(r.Context(), employer.CreateCommand{
		Name:    req.Name,
		CNPJ:    req.CNPJ,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// update は雇用主を置き換えます。
//
//	@Summary	Update employer
//	@Tags		employers
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Employer ID"
//	@Param		body	body		employerRequest	true	"Employer"
//	@Success	200		{object}	employer.DTO
//	@Failure	400		{object}	Problem
//	@Failure	404		{object}	Problem
//	@Failure	500		{object}	Problem
//	@Router		/api/employers/{id} [put]
func (h *EmployerHandler) update(w http.ResponseWriter, r *http.Request) {
	var req employerRequest
	if err := decodeRequest(w, r, h.validate, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	dto, err := h.svc.Update(r.Context(), r.PathValue("id"), employer.UpdateCommand{
		Name:    req.Name,
		CNPJ:    req.CNPJ,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// delete は雇用主を削除します。
//
//	@Summary	Delete employer
//	@Tags		employers
//	@Param		id	path	string	true	"Employer ID"
//	@Success	204
//	@Failure	500	{object}	Problem
//	@Router		/api/employers/{id} [delete]
func (h *EmployerHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//	@Summary	Get employer
//	@Tags		employers
//	@Produce	json
//	@Param		id	path		string	true	"Employer ID"
//	@Success	200	{object}	employer.DTO
//	@Failure	404	{object}	Problem
//	@Failure	500	{object}	Problem
//	@Router		/api/employers/{id} [get]
func (h *EmployerHandler) findByID(w http.ResponseWriter, r *http.Request) {
	dto, err := h.svc.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

//	@Summary	List employers
//	@Tags		employers
//	@Produce	json
//	@Success	200	{array}		employer.DTO
//	@Failure	500	{object}	Problem
//	@Router		/api/employers [get]
func (h *EmployerHandler) findAll(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.svc.FindAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos)
}

// filter は条件に一致する雇用主を 1 ページ分返します。
//
//	@Summary	Search employers
//	@Tags		employers
//	@Accept		json
//	@Produce	json
//	@Param		body	body		employerFilterRequest	true	"Filter"
//	@Success	200		{object}	employerPage
//	@Failure	400		{object}	Problem
//	@Failure	500		{object}	Problem
//	@Router		/api/employers/filter [post]
func (h *EmployerHandler) filter(w http.ResponseWriter, r *http.Request) {
	var req employerFilterRequest
	if err := decodeRequest(w, r, h.validate, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	page, err := h.svc.FindWithFilters(r.Context(), employer.Filter{
		Page: pagination.Request{
			Page:      req.Page,
			Size:      req.Size,
			SortBy:    req.SortBy,
			Direction: pagination.Direction(req.Direction),
		},
		Name:    req.Name,
		CNPJ:    req.CNPJ,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
