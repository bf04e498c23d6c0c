package handler

import (
	"errors"
	"net/http"

	"github.com/andervilo/timesheet-go/internal/core/employee"
	"github.com/andervilo/timesheet-go/internal/core/employer"
	"github.com/andervilo/timesheet-go/internal/core/pagination"
	"go.uber.org/zap"
)

// RFC 7807 の problem type です。
const (
	ProblemTypeNotFound   = "https://timesheet.local/problems/not-found"
	ProblemTypeBadRequest = "https://timesheet.local/problems/bad-request"
	ProblemTypeInternal   = "https://timesheet.local/problems/internal-error"
)

// Problem は RFC 7807 Problem Details の応答です。
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func writeProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func toProblem(err error, instance string) Problem {
	switch {
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, employer.ErrEmployerNotFound):
		return Problem{
			Type:     ProblemTypeNotFound,
			Title:    "Not Found",
			Status:   http.StatusNotFound,
			Detail:   err.Error(),
			Instance: instance,
		}
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, employee.ErrInvalidBirthMonth),
		errors.Is(err, pagination.ErrInvalidPage),
		errors.Is(err, pagination.ErrInvalidPageSize),
		errors.Is(err, pagination.ErrInvalidDirection),
		errors.Is(err, pagination.ErrInvalidSortField):
		return Problem{
			Type:     ProblemTypeBadRequest,
			Title:    "Bad Request",
			Status:   http.StatusBadRequest,
			Detail:   err.Error(),
			Instance: instance,
		}
	default:
		return Problem{
			Type:     ProblemTypeInternal,
			Title:    "Internal Server Error",
			Status:   http.StatusInternalServerError,
			Instance: instance,
		}
	}
}

// failer はエラーを problem 応答に変換し、5xx のみ error レベルで記録します。
type failer struct {
	logger *zap.Logger
}

func (f failer) fail(w http.ResponseWriter, r *http.Request, err error) {
	p := toProblem(err, r.URL.Path)
	if p.Status >= http.StatusInternalServerError {
		f.logger.Error("request failed",
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	} else {
		f.logger.Debug("request rejected",
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Int("status", p.Status),
			zap.Error(err),
		)
	}
	writeProblem(w, p)
}
