package handler

import (
	"net/http"

	_ "github.com/andervilo/timesheet-go/internal/adapters/http/docs" // OpenAPI 文書の登録
	"github.com/andervilo/timesheet-go/internal/core/employee"
	"github.com/andervilo/timesheet-go/internal/core/employer"
	"github.com/andervilo/timesheet-go/internal/platform/config"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// Dependencies はルーター構築に必要な依存関係です。
type Dependencies struct {
	Employees employee.UseCase
	Employers employer.UseCase
	CORS      config.CORSConfig
	Logger    *zap.Logger
}

// NewRouter は全ルートとミドルウェアを組み立てた http.Handler を返します。
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	NewEmployeeHandler(deps.Employees, logger).Register(mux)
	NewEmployerHandler(deps.Employers, logger).Register(mux)

	return Chain(mux,
		RequestLogging(logger),
		Recovery(logger),
		CORS(deps.CORS),
	)
}

// handleHealth は稼働状態を返します。
//
//	@Summary	Liveness
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/health [get]
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
