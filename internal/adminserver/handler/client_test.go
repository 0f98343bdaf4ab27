package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/common/cnst"
	"github.com/taxhub/admin-backend/internal/common/dto"
)

func TestClient_Create(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)

	w := env.request(t, http.MethodPost, "/api/v1/clients", token, dto.CreateClientRequest{
		Name:        "John Smith",
		Email:       "John.Smith@Example.com",
		FilingYear:  2024,
		TotalAmount: 450,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created database.Client
	decodeBody(t, w, &created)
	// email is normalized on the way in
	assert.Equal(t, "john.smith@example.com", created.Email)
	assert.Equal(t, cnst.ClientStatusDocumentsPending, created.Status)
	assert.Equal(t, cnst.PaymentStatusPending, created.PaymentStatus)
}

func TestClient_Create_DuplicateEmailYear(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)
	env.createClient(t, "john@example.com", 2024, 450)

	w := env.request(t, http.MethodPost, "/api/v1/clients", token, dto.CreateClientRequest{
		Name: "John Again", Email: "john@example.com", FilingYear: 2024,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// same email for a different filing year is a separate record
	w = env.request(t, http.MethodPost, "/api/v1/clients", token, dto.CreateClientRequest{
		Name: "John Again", Email: "john@example.com", FilingYear: 2025,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestClient_Create_RequiresPermission(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t, "viewer@example.com", cnst.RoleAdmin, cnst.PermViewAnalytics)

	w := env.request(t, http.MethodPost, "/api/v1/clients", token, dto.CreateClientRequest{
		Name: "John", Email: "john@example.com", FilingYear: 2024,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "add_edit_client")

	// reads stay open to any authenticated admin
	w = env.request(t, http.MethodGet, "/api/v1/clients", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClient_List_Pagination(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)

	for i := 0; i < 95; i++ {
		env.createClient(t, fmt.Sprintf("c%02d@example.com", i), 2024, 100)
	}

	w := env.request(t, http.MethodGet, "/api/v1/clients?page=5", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ClientListResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, int64(95), resp.Total)
	assert.Equal(t, 20, resp.PageSize)
	assert.Equal(t, 5, resp.TotalPages)
	assert.Len(t, resp.Clients, 15)
	assert.False(t, resp.HasNext)
	assert.True(t, resp.HasPrev)

	// page_size is clamped to 100
	w = env.request(t, http.MethodGet, "/api/v1/clients?page_size=500", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, 100, resp.PageSize)
	assert.Len(t, resp.Clients, 95)
}

func TestClient_List_Filters(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)

	a := env.createClient(t, "alice@example.com", 2023, 100)
	a.Status = cnst.ClientStatusFiled
	require.NoError(t, env.db.UpdateClient(context.Background(), a))
	env.createClient(t, "bob@example.com", 2024, 100)

	var resp dto.ClientListResponse

	w := env.request(t, http.MethodGet, "/api/v1/clients?status=filed", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	require.Len(t, resp.Clients, 1)
	assert.Equal(t, "alice@example.com", resp.Clients[0].Email)

	w = env.request(t, http.MethodGet, "/api/v1/clients?year=2024", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	require.Len(t, resp.Clients, 1)
	assert.Equal(t, "bob@example.com", resp.Clients[0].Email)

	w = env.request(t, http.MethodGet, "/api/v1/clients?search=ALI", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	require.Len(t, resp.Clients, 1)
	assert.Equal(t, "alice@example.com", resp.Clients[0].Email)

	// exact email filter wins over search
	w = env.request(t, http.MethodGet, "/api/v1/clients?email=bob@example.com&search=alice", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	require.Len(t, resp.Clients, 1)
	assert.Equal(t, "bob@example.com", resp.Clients[0].Email)
}

func TestClient_Update_TotalRecomputesStatus(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)

	c := env.createClient(t, "john@example.com", 2024, 450)
	c.PaidAmount = 450
	c.PaymentStatus = cnst.PaymentStatusPaid
	require.NoError(t, env.db.UpdateClient(context.Background(), c))

	// raising the total drops the client back to partial
	total := 600.0
	w := env.request(t, http.MethodPut, "/api/v1/clients/"+c.ID, token,
		dto.UpdateClientRequest{TotalAmount: &total})
	require.Equal(t, http.StatusOK, w.Code)

	var got database.Client
	decodeBody(t, w, &got)
	assert.Equal(t, cnst.PaymentStatusPartial, got.PaymentStatus)
	assert.Equal(t, 450.0, got.PaidAmount)
}

func TestClient_Delete_Cascades(t *testing.T) {
	env := newTestEnv(t)
	admin, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)
	c := env.createClient(t, "john@example.com", 2024, 450)

	require.NoError(t, env.db.CreateDocument(context.Background(), &database.Document{
		ClientID: c.ID, Name: "T4", Type: "t4", Status: cnst.DocumentStatusPending, Version: 1,
	}))
	require.NoError(t, env.db.CreateNote(context.Background(), &database.Note{
		ClientID: c.ID, Content: "called client", AuthorID: admin.ID,
	}))

	w := env.request(t, http.MethodDelete, "/api/v1/clients/"+c.ID, token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	_, err := env.db.GetClientByID(context.Background(), c.ID)
	assert.ErrorIs(t, err, cnst.ErrNotFound)

	docs, _, err := env.db.ListDocuments(context.Background(), database.DocumentFilter{ClientID: c.ID})
	require.NoError(t, err)
	assert.Empty(t, docs)
	notes, err := env.db.ListNotes(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestClient_Get_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createAdmin(t, "boss@example.com", cnst.RoleSuperadmin)

	w := env.request(t, http.MethodGet, "/api/v1/clients/missing-id", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
