package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/agentchat/internal/common"
	"github.com/dmitrijs2005/agentchat/internal/images"
	"github.com/dmitrijs2005/agentchat/internal/models"
	"github.com/dmitrijs2005/agentchat/internal/services"
)

type sessionRequest struct {
	Title          string `json:"title"`
	SystemPrompt   string `json:"system_prompt"`
	CharacterImage string `json:"character_image"`
}

type sessionResponse struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	SystemPrompt   string    `json:"system_prompt"`
	CharacterImage string    `json:"character_image"`
	ImageURL       string    `json:"image_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

type systemPromptRequest struct {
	SystemPrompt string `json:"system_prompt"`
}

type characterImageRequest struct {
	CharacterImage string `json:"character_image"`
}

type messageRequest struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}

type messageResponse struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func toSessionResponse(cs models.ChatSession) sessionResponse {
	return sessionResponse{
		ID:             cs.ID,
		Title:          cs.Title,
		SystemPrompt:   cs.SystemPrompt,
		CharacterImage: cs.CharacterImage,
		CreatedAt:      cs.CreatedAt,
	}
}

func toMessageResponse(m models.Message) messageResponse {
	return messageResponse{
		ID:        m.ID,
		SessionID: m.SessionID,
		Role:      m.Role.String(),
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
}

// ownedSession resolves the {id} path value to a session of the caller.
func (s *HTTPServer) ownedSession(r *http.Request) (*models.ChatSession, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	userID, _ := userIDFrom(r.Context())
	return s.deps.Chats.GetSession(r.Context(), userID, id)
}

func (s *HTTPServer) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	list, err := s.deps.Chats.ListSessions(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res := make([]sessionResponse, 0, len(list))
	for _, cs := range list {
		res = append(res, toSessionResponse(cs))
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *HTTPServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	var req sessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.CharacterImage != "" {
		if err := s.checkImage(r, req.CharacterImage); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	id, err := s.deps.Chats.CreateSession(r.Context(), userID, services.SessionOptions{
		Title:          req.Title,
		SystemPrompt:   req.SystemPrompt,
		CharacterImage: req.CharacterImage,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *HTTPServer) handleGetSession(w http.ResponseWriter, r *http.Request) {
	cs, err := s.ownedSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res := toSessionResponse(*cs)
	if u, err := s.deps.Catalog.URL(r.Context(), cs.CharacterImage); err == nil {
		res.ImageURL = u
	} else {
		s.logger.Warn(r.Context(), "image url", "image", cs.CharacterImage, "error", err)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *HTTPServer) handleUpdateSystemPrompt(w http.ResponseWriter, r *http.Request) {
	cs, err := s.ownedSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req systemPromptRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Chats.UpdateSystemPrompt(r.Context(), cs.ID, req.SystemPrompt); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleUpdateCharacterImage(w http.ResponseWriter, r *http.Request) {
	cs, err := s.ownedSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req characterImageRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.checkImage(r, req.CharacterImage); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Chats.UpdateCharacterImage(r.Context(), cs.ID, req.CharacterImage); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// checkImage rejects names the catalog does not offer.
func (s *HTTPServer) checkImage(r *http.Request, name string) error {
	ok, err := images.Contains(r.Context(), s.deps.Catalog, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: unknown image %q", common.ErrorValidation, name)
	}
	return nil
}

func (s *HTTPServer) handleListMessages(w http.ResponseWriter, r *http.Request) {
	cs, err := s.ownedSession(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.deps.Chats.ListMessages(r.Context(), cs.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res := make([]messageResponse, 0, len(list))
	for _, m := range list {
		res = append(res, toMessageResponse(m))
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *HTTPServer) handleSend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	userID, _ := userIDFrom(r.Context())

	var req messageRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	model := s.deps.Models.Resolve(req.Model)
	reply, err := s.deps.Chats.Send(r.Context(), userID, id, model, req.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMessageResponse(*reply))
}
