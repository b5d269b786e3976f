package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/julianstephens/cleanstreak/internal/logger"
	"github.com/julianstephens/cleanstreak/internal/models"
	"github.com/julianstephens/cleanstreak/internal/tracker"
	"github.com/julianstephens/cleanstreak/internal/users"
)

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// RegisterHandler creates an account and returns a token for it
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
		Name            string `json:"name"`
	}
	if !decode(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), users.RegisterRequest{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Name:            req.Name,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.respondWithToken(w, r, http.StatusCreated, user)
}

func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &credentials) {
		return
	}

	user, err := s.users.Authenticate(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		logger.Warn("Authentication failed", "email", credentials.Email, "error", err)
		writeError(w, r, err)
		return
	}
	s.respondWithToken(w, r, http.StatusOK, user)
}

func (s *Server) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user models.User) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, authResponse{Token: token, User: user})
}

type habitRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	TargetDays  *int     `json:"target_days"`
	DailyCost   *float64 `json:"daily_cost"`
	ClearTarget bool     `json:"clear_target"`
	ClearCost   bool     `json:"clear_cost"`
	Active      *bool    `json:"active"`
}

func parseCategory(raw *string) (*models.HabitCategory, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	c, err := models.ParseCategory(*raw)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type createHabitResponse struct {
	Habit    models.Habit         `json:"habit"`
	Unlocked []models.Achievement `json:"unlocked"`
}

func (s *Server) CreateHabitHandler(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if !decode(w, r, &req) {
		return
	}
	category, err := parseCategory(req.Category)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	in := tracker.NewHabit{TargetDays: req.TargetDays, DailyCost: req.DailyCost}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if category != nil {
		in.Category = *category
	}

	habit, unlocked, err := s.tracker.CreateHabit(r.Context(), userIDFromContext(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if unlocked == nil {
		unlocked = []models.Achievement{}
	}
	writeJSON(w, http.StatusCreated, createHabitResponse{Habit: habit, Unlocked: unlocked})
}

func (s *Server) ListHabitsHandler(w http.ResponseWriter, r *http.Request) {
	includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("include_inactive"))
	habits, err := s.tracker.ListHabits(r.Context(), userIDFromContext(r.Context()), includeInactive)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	writeJSON(w, http.StatusOK, habits)
}

func (s *Server) GetHabitHandler(w http.ResponseWriter, r *http.Request) {
	habit, err := s.tracker.GetHabit(r.Context(), mux.Vars(r)["id"], userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// UpdateHabitHandler applies a partial edit; "active" archives or restores
func (s *Server) UpdateHabitHandler(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if !decode(w, r, &req) {
		return
	}
	category, err := parseCategory(req.Category)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	habitID, userID := mux.Vars(r)["id"], userIDFromContext(ctx)
	habit, err := s.tracker.EditHabit(ctx, habitID, userID, tracker.HabitUpdate{
		Name:        req.Name,
		Description: req.Description,
		Category:    category,
		TargetDays:  req.TargetDays,
		ClearTarget: req.ClearTarget,
		DailyCost:   req.DailyCost,
		ClearCost:   req.ClearCost,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.Active != nil && *req.Active != habit.Active {
		if habit, err = s.tracker.SetHabitActive(ctx, habitID, userID, *req.Active); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, habit)
}

func (s *Server) DeleteHabitHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteHabit(r.Context(), mux.Vars(r)["id"], userIDFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type progressResponse struct {
	Habit            models.Habit         `json:"habit"`
	Entry            models.HabitEntry    `json:"entry"`
	Updated          bool                 `json:"updated"`
	Unlocked         []models.Achievement `json:"unlocked"`
	AchievementError string               `json:"achievement_error,omitempty"`
}

// LogProgressHandler records a day's outcome. A failed achievement step is
// reported in the body but the entry is still committed.
func (s *Server) LogProgressHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Successful *bool       `json:"successful"`
		Date       string      `json:"date"`
		Note       string      `json:"note"`
		Mood       interface{} `json:"mood"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Successful == nil {
		writeMessage(w, http.StatusBadRequest, "successful is required")
		return
	}

	logReq := tracker.LogRequest{
		HabitID:    mux.Vars(r)["id"],
		UserID:     userIDFromContext(r.Context()),
		Successful: *req.Successful,
		Note:       req.Note,
	}
	if req.Date != "" {
		date, err := s.tracker.ParseDate(req.Date)
		if err != nil {
			writeError(w, r, err)
			return
		}
		logReq.Date = date
	}
	if req.Mood != nil {
		// name or 1-5, as string or number
		mood, err := models.ParseMood(fmt.Sprint(req.Mood))
		if err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		logReq.Mood = &mood
	}

	res, err := s.tracker.LogProgress(r.Context(), logReq)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := progressResponse{
		Habit:    res.Habit,
		Entry:    res.Entry,
		Updated:  res.Updated,
		Unlocked: res.Unlocked,
	}
	if resp.Unlocked == nil {
		resp.Unlocked = []models.Achievement{}
	}
	if res.AchievementErr != nil {
		resp.AchievementError = res.AchievementErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) HabitEntriesHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := s.tracker.GetHabitEntries(r.Context(), mux.Vars(r)["id"], userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.HabitEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) HabitStatsHandler(w http.ResponseWriter, r *http.Request) {
	st, err := s.tracker.GetHabitStatistics(r.Context(), mux.Vars(r)["id"], userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	st, err := s.tracker.GetDashboardStatistics(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) HabitAchievementsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.tracker.HabitAchievements(r.Context(), mux.Vars(r)["id"], userIDFromContext(r.Context()))
	s.writeAchievements(w, r, list, err)
}

// ListAchievementsHandler lists all achievements, or with ?new=true only
// those unlocked in the last day
func (s *Server) ListAchievementsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFromContext(ctx)

	var (
		list []models.Achievement
		err  error
	)
	query := r.URL.Query()
	switch {
	case query.Get("new") == "true":
		list, err = s.tracker.NewAchievements(ctx, userID)
	case query.Get("limit") != "":
		limit, convErr := strconv.Atoi(query.Get("limit"))
		if convErr != nil {
			writeMessage(w, http.StatusBadRequest, "limit must be a number")
			return
		}
		list, err = s.tracker.RecentAchievements(ctx, userID, limit)
	default:
		list, err = s.tracker.ListAchievements(ctx, userID)
	}
	s.writeAchievements(w, r, list, err)
}

func (s *Server) writeAchievements(w http.ResponseWriter, r *http.Request, list []models.Achievement, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []models.Achievement{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) MarkViewedHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.MarkAchievementViewed(r.Context(), mux.Vars(r)["id"], userIDFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) MarkAllViewedHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.MarkAllAchievementsViewed(r.Context(), userIDFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QuoteHandler serves the quote of the day, or a random one with ?random=true
func (s *Server) QuoteHandler(w http.ResponseWriter, r *http.Request) {
	if s.content == nil {
		writeMessage(w, http.StatusServiceUnavailable, "content provider not configured")
		return
	}
	var (
		q   models.Quote
		err error
	)
	if r.URL.Query().Get("random") == "true" {
		q, err = s.content.Quote(r.Context())
	} else {
		q, err = s.content.DailyQuote(r.Context())
	}
	if err != nil {
		logger.Warn("Quote unavailable", "error", err)
		writeMessage(w, http.StatusServiceUnavailable, "no quote available")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) FactHandler(w http.ResponseWriter, r *http.Request) {
	if s.content == nil {
		writeMessage(w, http.StatusServiceUnavailable, "content provider not configured")
		return
	}
	var (
		f   models.HealthTip
		err error
	)
	if r.URL.Query().Get("random") == "true" {
		f, err = s.content.Fact(r.Context())
	} else {
		f, err = s.content.DailyFact(r.Context())
	}
	if err != nil {
		logger.Warn("Fact unavailable", "error", err)
		writeMessage(w, http.StatusServiceUnavailable, "no fact available")
		return
	}
	writeJSON(w, http.StatusOK, f)
}
