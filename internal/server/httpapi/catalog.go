package httpapi

import (
	"net/http"
)

type modelsResponse struct {
	Default string   `json:"default"`
	Models  []string `json:"models"`
}

type imageResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type memoryRequest struct {
	Value string `json:"value"`
}

type memoryResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *HTTPServer) handleModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, modelsResponse{
		Default: s.deps.Models.Default(),
		Models:  s.deps.Models.Available(r.Context()),
	})
}

func (s *HTTPServer) handleImages(w http.ResponseWriter, r *http.Request) {
	names, err := s.deps.Catalog.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res := make([]imageResponse, 0, len(names))
	for _, n := range names {
		u, err := s.deps.Catalog.URL(r.Context(), n)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		res = append(res, imageResponse{Name: n, URL: u})
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *HTTPServer) handleImageFile(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Files.Path(r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	http.ServeFile(w, r, p)
}

func (s *HTTPServer) handleGetMemory(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	key := r.PathValue("key")

	v, err := s.deps.Memory.Get(r.Context(), userID, key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, memoryResponse{Key: key, Value: v})
}

func (s *HTTPServer) handleSetMemory(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())
	key := r.PathValue("key")

	var req memoryRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Memory.Set(r.Context(), userID, key, req.Value); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, memoryResponse{Key: key, Value: req.Value})
}
