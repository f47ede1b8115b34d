package handlers

import (
	"net/http"

	"github.com/satheeshds/fintrack/models"
)

// ListGroups lists the groups of the authenticated user
// @Summary      List groups
// @Tags         groups
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Group}
// @Router       /groups [get]
// @Security     BearerAuth
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.store.ListGroups(r.Context(), claimsFrom(r.Context()).UserID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// CreateGroup creates a group
// @Summary      Create group
// @Description  Create a group owning its own accounts and transactions. The creator becomes its first member. Send X-Group-ID to act as the group.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        group  body      models.NameInput  true  "Group name"
// @Success      201    {object}  Response{data=models.Group}
// @Failure      400    {object}  Response{error=string}
// @Router       /groups [post]
// @Security     BearerAuth
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var input models.NameInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	g, err := h.store.CreateGroup(r.Context(), claimsFrom(r.Context()).UserID, input)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// AddGroupMember adds a user to a group
// @Summary      Add group member
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id      path      int                 true  "Group ID"
// @Param        member  body      models.MemberInput  true  "Username to add"
// @Success      200     {object}  Response{data=map[string]string}
// @Failure      404     {object}  Response{error=string}
// @Failure      409     {object}  Response{error=string}
// @Router       /groups/{id}/members [post]
// @Security     BearerAuth
func (h *Handler) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var input models.MemberInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if msg := input.Validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.AddGroupMember(r.Context(), id, claimsFrom(r.Context()).UserID, input.Username); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "member added"})
}
