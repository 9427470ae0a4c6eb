package controllers

import (
	"errors"
	"net/http"
	"studytime/internal/models"
	"studytime/internal/providers"
	"studytime/internal/services"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger        providers.Logger
	accounts      services.AccountServiceInterface
	subjects      services.SubjectServiceInterface
	sessions      services.SessionServiceInterface
	stats         services.StatsServiceInterface
	achievements  services.AchievementServiceInterface
	leaderboard   services.LeaderboardServiceInterface
	notifications services.NotificationServiceInterface
	groups        services.GroupServiceInterface
}

func NewApiController(
	logger providers.Logger,
	accounts services.AccountServiceInterface,
	subjects services.SubjectServiceInterface,
	sessions services.SessionServiceInterface,
	stats services.StatsServiceInterface,
	achievements services.AchievementServiceInterface,
	leaderboard services.LeaderboardServiceInterface,
	notifications services.NotificationServiceInterface,
	groups services.GroupServiceInterface,
) *ApiController {
	return &ApiController{
		logger:        logger,
		accounts:      accounts,
		subjects:      subjects,
		sessions:      sessions,
		stats:         stats,
		achievements:  achievements,
		leaderboard:   leaderboard,
		notifications: notifications,
		groups:        groups,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidState), errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
		msg = "internal server error"
	}
	ac.writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return models.Validationf("malformed request body: %s", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := cast.ToInt64E(r.PathValue(name))
	if err != nil || id <= 0 {
		return 0, models.Validationf("%s must be a positive integer", name)
	}
	return id, nil
}

func callerID(r *http.Request) (int64, error) {
	id, ok := providers.UserIDFromContext(r.Context())
	if !ok {
		return 0, models.ErrUnauthenticated
	}
	return id, nil
}

func (ac *ApiController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeBody(w, r, &in); err != nil {
		ac.writeError(w, r, err)
		return
	}
	u, err := ac.accounts.Register(r.Context(), in)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusCreated, u)
}

func (ac *ApiController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decodeBody(w, r, &in); err != nil {
		ac.writeError(w, r, err)
		return
	}
	tok, err := ac.accounts.Login(r.Context(), in)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, tok)
}

func (ac *ApiController) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	u, err := ac.accounts.GetUser(r.Context(), userID)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, u)
}

type dailyGoalRequest struct {
	DailyGoal *int64 `json:"dailyGoal"`
}

func (ac *ApiController) UpdateDailyGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	var req dailyGoalRequest
	if err := decodeBody(w, r, &req); err != nil {
		ac.writeError(w, r, err)
		return
	}
	if req.DailyGoal == nil {
		ac.writeError(w, r, models.Validationf("dailyGoal is required"))
		return
	}
	u, err := ac.accounts.UpdateUserDailyGoal(r.Context(), userID, *req.DailyGoal)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, u)
}
