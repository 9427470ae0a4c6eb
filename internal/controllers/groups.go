package controllers

import (
	"net/http"
	"studytime/internal/models"
	"studytime/internal/services"
)

type addMemberRequest struct {
	UserID *int64 `json:"userId"`
}

func (ac *ApiController) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	var in services.CreateGroupInput
	if err := decodeBody(w, r, &in); err != nil {
		ac.writeError(w, r, err)
		return
	}
	g, err := ac.groups.CreateGroup(r.Context(), userID, in)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusCreated, g)
}

func (ac *ApiController) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	if _, err := callerID(r); err != nil {
		ac.writeError(w, r, err)
		return
	}
	groupID, err := pathID(r, "id")
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	var req addMemberRequest
	if err := decodeBody(w, r, &req); err != nil {
		ac.writeError(w, r, err)
		return
	}
	if req.UserID == nil {
		ac.writeError(w, r, models.Validationf("userId is required"))
		return
	}
	m, err := ac.groups.AddMember(r.Context(), groupID, *req.UserID)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusCreated, m)
}

func (ac *ApiController) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	list, err := ac.groups.ListGroups(r.Context(), userID)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, list)
}
