package controllers

import (
	"net/http"
	"studytime/internal/models"
	"studytime/internal/services"
)

type dailyTargetRequest struct {
	DailyTargetTime *int64 `json:"dailyTargetTime"`
}

func (ac *ApiController) CreateSubject(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	var in services.CreateSubjectInput
	if err := decodeBody(w, r, &in); err != nil {
		ac.writeError(w, r, err)
		return
	}
	s, err := ac.subjects.CreateSubject(r.Context(), userID, in)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusCreated, s)
}

func (ac *ApiController) ListSubjects(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	list, err := ac.subjects.ListSubjects(r.Context(), userID)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, list)
}

func (ac *ApiController) UpdateDailyTarget(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	var req dailyTargetRequest
	if err := decodeBody(w, r, &req); err != nil {
		ac.writeError(w, r, err)
		return
	}
	if req.DailyTargetTime == nil {
		ac.writeError(w, r, models.Validationf("dailyTargetTime is required"))
		return
	}
	s, err := ac.subjects.UpdateSubjectDailyTarget(r.Context(), userID, id, *req.DailyTargetTime)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, s)
}
