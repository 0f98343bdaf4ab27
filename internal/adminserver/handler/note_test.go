package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/common/cnst"
	"github.com/taxhub/admin-backend/internal/common/dto"
)

func TestNote_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	admin, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)
	client := env.createClient(t, "john@example.com", 2024, 450)

	w := env.request(t, http.MethodPost, "/api/v1/clients/"+client.ID+"/notes", token,
		dto.CreateNoteRequest{Content: "left voicemail about missing T4", IsClientFacing: true})
	require.Equal(t, http.StatusCreated, w.Code)

	var note database.Note
	decodeBody(t, w, &note)
	assert.Equal(t, admin.ID, note.AuthorID)
	assert.True(t, note.IsClientFacing)

	w = env.request(t, http.MethodGet, "/api/v1/clients/"+client.ID+"/notes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Notes []*database.Note `json:"notes"`
		Total int              `json:"total"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Notes, 1)
	assert.Equal(t, note.ID, resp.Notes[0].ID)
}

func TestNote_List_UnknownClient(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)

	w := env.request(t, http.MethodGet, "/api/v1/clients/missing/notes", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNote_Delete_WrongClient(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)
	a := env.createClient(t, "a@example.com", 2024, 100)
	b := env.createClient(t, "b@example.com", 2024, 100)

	w := env.request(t, http.MethodPost, "/api/v1/clients/"+a.ID+"/notes", token,
		dto.CreateNoteRequest{Content: "belongs to a"})
	require.Equal(t, http.StatusCreated, w.Code)
	var note database.Note
	decodeBody(t, w, &note)

	// a note is only addressable under its own client
	w = env.request(t, http.MethodDelete, "/api/v1/clients/"+b.ID+"/notes/"+note.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodDelete, "/api/v1/clients/"+a.ID+"/notes/"+note.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
