package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"techupnext/internal/domain"
)

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusOK, statusResponse{Status: "error", Message: "Email required"})
		return
	}

	if err := s.subscribers.Add(r.Context(), req.Email); err != nil {
		s.logger.Error("subscribe failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "Subscribed"})
}

// handleRun triggers a synchronous pipeline run; the response is written
// only after the run (and any digest delivery) finishes.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	sendMail := true
	if raw := r.URL.Query().Get("send_mail"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			sendMail = parsed
		}
	}

	stats, err := s.runner.Run(r.Context(), sendMail)
	if err != nil {
		s.logger.Error("run failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: "run failed"})
		return
	}

	if stats.Status == domain.StatusBusy {
		writeJSON(w, http.StatusOK, statusResponse{Status: "Agent already running"})
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "Agent executed successfully"})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	var filter []string
	if raw := r.URL.Query().Get("categories"); raw != "" && !strings.EqualFold(raw, "all") {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				filter = append(filter, c)
			}
		}
	}

	items, err := s.news.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("list news failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: "internal error"})
		return
	}

	withExplainer, _ := strconv.ParseBool(r.URL.Query().Get("explainer"))
	if !withExplainer {
		for i := range items {
			items[i].Explainer = ""
		}
	}

	if items == nil {
		items = []domain.NewsItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.news.DistinctCategories(r.Context())
	if err != nil {
		s.logger.Error("list categories failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: "internal error"})
		return
	}

	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
