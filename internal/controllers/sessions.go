package controllers

import (
	"net/http"
	"studytime/internal/models"
	"studytime/internal/services"
)

type endSessionRequest struct {
	Duration *int64 `json:"duration"`
}

type tagBreakRequest struct {
	BreakTag *string `json:"breakTag"`
}

type reconcileRequest struct {
	Elapsed *int64 `json:"elapsed"`
	Gap     *int64 `json:"gap"`
}

func (ac *ApiController) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	var in services.StartSessionInput
	if err := decodeBody(w, r, &in); err != nil {
		ac.writeError(w, r, err)
		return
	}
	s, err := ac.sessions.StartSession(r.Context(), userID, in)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusCreated, s)
}

func (ac *ApiController) EndSession(w http.ResponseWriter, r *http.Request) {
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
	var req endSessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		ac.writeError(w, r, err)
		return
	}
	if req.Duration == nil {
		ac.writeError(w, r, models.Validationf("duration is required"))
		return
	}
	s, err := ac.sessions.EndSession(r.Context(), userID, id, *req.Duration)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, s)
}

func (ac *ApiController) TagBreak(w http.ResponseWriter, r *http.Request) {
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
	var req tagBreakRequest
	if err := decodeBody(w, r, &req); err != nil {
		ac.writeError(w, r, err)
		return
	}
	if req.BreakTag == nil {
		ac.writeError(w, r, models.Validationf("breakTag is required"))
		return
	}
	s, err := ac.sessions.TagBreak(r.Context(), userID, id, *req.BreakTag)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, s)
}

func (ac *ApiController) Reconcile(w http.ResponseWriter, r *http.Request) {
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
	var req reconcileRequest
	if err := decodeBody(w, r, &req); err != nil {
		ac.writeError(w, r, err)
		return
	}
	if req.Elapsed == nil || req.Gap == nil {
		ac.writeError(w, r, models.Validationf("elapsed and gap are required"))
		return
	}
	rec, err := ac.sessions.Reconcile(r.Context(), userID, id, *req.Elapsed, *req.Gap)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, rec)
}

func (ac *ApiController) GetActiveSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	list, err := ac.sessions.GetActiveSessions(r.Context(), userID)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, list)
}
