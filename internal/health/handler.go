package health

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"todolist/pkg/logger"
)

type Response struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Error     string `json:"error,omitempty"`
}

type Handler struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewHandler(db *sql.DB) *Handler {
	return &Handler{DB: db, Now: time.Now}
}

// Check runs SELECT 1 and reports whether the database answered.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := Response{
		Status:    "healthy",
		Timestamp: h.Now().UTC().Format(time.RFC3339),
		Database:  "connected",
	}
	status := http.StatusOK

	var one int
	if err := h.DB.QueryRowContext(r.Context(), "SELECT 1").Scan(&one); err != nil {
		logger.Sugar.Warnf("Health check failed: %v", err)
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		resp.Error = err.Error()
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Sugar.Errorf("Health: failed to write response: %v", err)
	}
}
