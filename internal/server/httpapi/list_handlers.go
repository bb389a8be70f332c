package httpapi

import (
	"net/http"
)

type listRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleGetLists(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	result, err := s.lists.GetAll(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]listResponse, 0, len(result))
	for _, l := range result {
		resp = append(resp, toListResponse(l))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req listRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.lists.Create(r.Context(), user.ID, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toListResponse(list))
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	list, err := s.lists.Get(r.Context(), user.ID, r.PathValue("listId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toListResponse(list))
}

func (s *Server) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req listRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.lists.Update(r.Context(), user.ID, r.PathValue("listId"), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toListResponse(list))
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	if err := s.lists.Delete(r.Context(), user.ID, r.PathValue("listId")); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
