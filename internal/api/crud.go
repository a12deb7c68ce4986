package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/climatewatch/climatewatch/internal/errors"
	"github.com/climatewatch/climatewatch/internal/logger"
	"github.com/climatewatch/climatewatch/internal/models"
)

// quizQuestions is the fixed multiple-choice question bank.
var quizQuestions = []models.QuizQuestion{
	{
		Question:      "Which gas is primarily responsible for global warming?",
		Options:       []string{"CO2", "O2", "N2", "H2"},
		CorrectAnswer: "CO2",
	},
	{
		Question:      "Which country has the highest CO2 emissions?",
		Options:       []string{"China", "USA", "India", "Russia"},
		CorrectAnswer: "China",
	},
}

// createUserHandler handles POST /users
func (h *Handler) createUserHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	if strings.TrimSpace(req.Username) == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Username is required.", "")
		return
	}
	if req.Role == "" {
		req.Role = "user"
	}

	user, err := h.store.CreateUser(ctx, models.User{Username: req.Username, Role: req.Role})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			h.writeErrorResponse(w, http.StatusConflict, "User already exists.", "")
			return
		}
		logger.WithContext(ctx).Error("Failed to create user", "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, user)
}

// listUsersHandler handles GET /users
func (h *Handler) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.store.ListUsers(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to list users", "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"data":  users,
		"count": len(users),
	})
}

// createAlertHandler handles POST /alerts
func (h *Handler) createAlertHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Latitude     *float64 `json:"latitude"`
		Longitude    *float64 `json:"longitude"`
		AlertMessage string   `json:"alert_message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid latitude or longitude.", "")
		return
	}

	if req.Latitude == nil || req.Longitude == nil || strings.TrimSpace(req.AlertMessage) == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "All fields are required.", "")
		return
	}

	alert, err := h.store.CreateAlert(ctx, models.LocationAlert{
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		AlertMessage: req.AlertMessage,
	})
	if err != nil {
		logger.WithContext(ctx).Error("Failed to create alert", "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, alert)
}

// listAlertsHandler handles GET /alerts
func (h *Handler) listAlertsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	alerts, err := h.store.ListAlerts(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to list alerts", "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"data":  alerts,
		"count": len(alerts),
	})
}

// createIssueHandler handles POST /issues. A missing severity is scored from
// the issue description.
func (h *Handler) createIssueHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Country          string `json:"country"`
		IssueDescription string `json:"issue_description"`
		Severity         int    `json:"severity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	if strings.TrimSpace(req.Country) == "" || strings.TrimSpace(req.IssueDescription) == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "All fields are required.", "")
		return
	}
	if req.Severity < 1 || req.Severity > 3 {
		req.Severity = h.classifier.Severity(req.IssueDescription)
	}

	issue, err := h.store.CreateIssue(ctx, models.ClimateIssue{
		Country:          req.Country,
		IssueDescription: req.IssueDescription,
		Severity:         req.Severity,
	})
	if err != nil {
		logger.WithContext(ctx).Error("Failed to create issue", "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, issue)
}

// listIssuesHandler handles GET /issues
func (h *Handler) listIssuesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	issues, err := h.store.ListIssues(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to list issues", "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"data":  issues,
		"count": len(issues),
	})
}

// dashboardHandler handles GET /dashboard
func (h *Handler) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.store.DashboardStats(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to compute dashboard stats", "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, stats)
}

// getQuizHandler handles GET /quiz
func (h *Handler) getQuizHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"quiz": quizQuestions,
	})
}

// submitQuizHandler handles POST /quiz. Answers are keyed by question text;
// unanswered questions count as wrong.
func (h *Handler) submitQuizHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answers map[string]string `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	score := 0
	for _, q := range quizQuestions {
		if req.Answers[q.Question] == q.CorrectAnswer {
			score++
		}
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"score": score,
		"total": len(quizQuestions),
	})
}

// worldMapHandler handles GET /world_map. Issues for countries without known
// coordinates are skipped rather than failing the whole view.
func (h *Handler) worldMapHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	issues, err := h.store.ListIssues(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to list issues", "error", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	output := make([]models.WorldMapIssue, 0, len(issues))
	for _, issue := range issues {
		lat, lng, ok := h.geocoder.Lookup(issue.Country)
		if !ok {
			continue
		}
		output = append(output, models.WorldMapIssue{
			Country:  issue.Country,
			Lat:      lat,
			Lng:      lng,
			Issue:    issue.IssueDescription,
			Severity: issue.Severity,
		})
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"issues": output,
	})
}
