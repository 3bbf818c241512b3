// ABOUTME: Request handlers for the fake management API
// ABOUTME: Setup, login, credential reset, dashboard groups and stats, configuration

package fakeapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/boter/boter-console/internal/auth"
	"github.com/boter/boter-console/internal/store"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	done, err := s.store.SetupComplete(r.Context())
	if err != nil {
		s.internalError(w, "reading setup state", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"setup_complete": done})
}

type setupRequest struct {
	AdminUsername string `json:"admin_username"`
	AdminPassword string `json:"admin_password_hash"`
	MongoURI      string `json:"mongo_uri"`
	BotToken      string `json:"bot_token"`
}

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, []fieldError{{Loc: []string{"body"}, Msg: "invalid JSON body", Type: "value_error.jsondecode"}})
		return
	}

	var missing []fieldError
	for _, f := range []struct{ name, value string }{
		{"admin_username", req.AdminUsername},
		{"admin_password_hash", req.AdminPassword},
		{"mongo_uri", req.MongoURI},
		{"bot_token", req.BotToken},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, fieldError{Loc: []string{"body", f.name}, Msg: "field required", Type: "value_error.missing"})
		}
	}
	if len(missing) > 0 {
		writeValidation(w, missing)
		return
	}

	hash, err := auth.HashPassword(req.AdminPassword)
	if err != nil {
		s.internalError(w, "hashing password", err)
		return
	}

	err = s.store.CompleteSetup(r.Context(),
		store.Admin{Username: req.AdminUsername, PasswordHash: hash},
		store.BotConfig{MongoURI: req.MongoURI, BotToken: req.BotToken})
	if errors.Is(err, store.ErrAlreadySetup) {
		writeDetail(w, http.StatusBadRequest, "System already setup")
		return
	}
	if err != nil {
		s.internalError(w, "completing setup", err)
		return
	}

	s.logger.Info("system setup complete", "admin", req.AdminUsername)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Setup completed successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid form body")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	admin, err := s.store.GetAdmin(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		s.metrics.LoginsTotal.WithLabelValues("not_setup").Inc()
		writeDetail(w, http.StatusBadRequest, "System not setup")
		return
	}
	if err != nil {
		s.internalError(w, "reading admin", err)
		return
	}

	if username != admin.Username || !auth.CheckPassword(admin.PasswordHash, password) {
		s.metrics.LoginsTotal.WithLabelValues("bad_credentials").Inc()
		s.logger.Warn("failed login", "username", username)
		writeDetail(w, http.StatusBadRequest, "Incorrect username or password")
		return
	}

	token, err := s.verifier.Generate(admin.Username, s.tokenTTL)
	if err != nil {
		s.internalError(w, "issuing token", err)
		return
	}
	s.metrics.LoginsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token, "token_type": "bearer"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.AdminFromContext(r.Context())

	password, err := auth.GeneratePassword(resetPasswordBytes)
	if err != nil {
		s.internalError(w, "generating password", err)
		return
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.internalError(w, "hashing password", err)
		return
	}
	if err := s.store.SetAdminPassword(r.Context(), hash); err != nil {
		s.internalError(w, "storing password", err)
		return
	}

	s.metrics.PasswordResets.Inc()
	s.logger.Warn("PASSWORD RESET", "username", username, "new_password", password)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "username": username})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.GetStats(r.Context())
	if err != nil {
		s.internalError(w, "reading stats", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{
		"active_groups":      st.ActiveGroups,
		"messages_processed": st.MessagesProcessed,
		"bans":               st.Bans,
	})
}

type groupResponse struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Settings map[string]any `json:"settings"`
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.store.ListGroups(r.Context(), groupListLimit)
	if err != nil {
		s.internalError(w, "listing groups", err)
		return
	}

	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		settings := make(map[string]any, len(g.Extra)+3)
		for k, v := range g.Extra {
			settings[k] = v
		}
		settings["title"] = g.Title
		settings["chat_id"] = chatIDValue(g.ChatID)
		settings["is_active"] = g.IsActive
		out = append(out, groupResponse{ID: g.ID, Title: g.Title, Settings: settings})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleToggleGroup(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	active, err := s.store.ToggleGroup(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Group not found")
		return
	}
	if err != nil {
		s.internalError(w, "toggling group", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "new_state": active})
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	err := s.store.DeleteGroup(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Group not found")
		return
	}
	if err != nil {
		s.internalError(w, "deleting group", err)
		return
	}
	s.logger.Info("group deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.store.GetBotConfig(r.Context())
	if err != nil {
		s.internalError(w, "reading config", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bot_token":          cfg.BotToken,
		"support_group_id":   chatIDValue(cfg.SupportGroupID),
		"log_channel_id":     chatIDValue(cfg.LogChannelID),
		"mongo_uri":          cfg.MongoURI,
		"mongo_db_name":      cfg.MongoDBName,
		"telegram_admin_ids": cfg.AdminIDs,
	})
}

// handleUpdateConfig applies a partial update. Empty values are ignored,
// chat ids that are not integers are ignored, and an admin id list with any
// non-integer entry is ignored as a whole.
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeValidation(w, []fieldError{{Loc: []string{"body"}, Msg: "invalid JSON body", Type: "value_error.jsondecode"}})
		return
	}

	var update store.BotConfig
	update.BotToken = stringField(body, "bot_token")
	update.MongoURI = stringField(body, "mongo_uri")
	update.MongoDBName = stringField(body, "mongo_db_name")
	update.SupportGroupID = intField(body, "support_group_id")
	update.LogChannelID = intField(body, "log_channel_id")
	if raw, ok := body["telegram_admin_ids"]; ok {
		if ids, ok := parseIDList(raw); ok {
			update.AdminIDs = ids
		}
	}

	if _, err := s.store.UpdateBotConfig(r.Context(), update); err != nil {
		s.internalError(w, "updating config", err)
		return
	}
	s.logger.Info("config updated")
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Config updated"})
}

// chatIDValue renders a stored chat id as a JSON number when it is an
// integer, and null when empty.
func chatIDValue(id string) any {
	if id == "" {
		return nil
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

func stringField(body map[string]json.RawMessage, key string) string {
	raw, ok := body[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// intField accepts a JSON number or numeric string and returns its decimal
// form, or "" when absent or not an integer.
func intField(body map[string]json.RawMessage, key string) string {
	raw, ok := body[key]
	if !ok {
		return ""
	}
	n, ok := parseInt(raw)
	if !ok {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func parseInt(raw json.RawMessage) (int64, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(n.String()), 10, 64)
	return v, err == nil
}

func parseIDList(raw json.RawMessage) ([]int64, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		n, ok := parseInt(item)
		if !ok {
			return nil, false
		}
		ids = append(ids, n)
	}
	return ids, true
}
