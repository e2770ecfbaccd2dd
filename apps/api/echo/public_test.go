package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/content"
	emailsvc "github.com/smkpelita/backend/services/email"
	"github.com/smkpelita/backend/storage/memdb"
)

func TestPublicContentListsAndGets(t *testing.T) {
	store := memdb.New()
	ctx := context.Background()

	progID, err := store.Create(ctx, core.ProgramsCollection, map[string]interface{}{
		"name": "Multimedia", "description": "d", "careerProspects": "c",
		"imageUrl": "https://example.com/mm.jpg", "icon": "Palette",
	})
	require.NoError(t, err)
	_, err = store.Create(ctx, core.NewsCollection, map[string]interface{}{
		"title": "Juara Lomba Robotik", "content": "c",
		"imageUrl": "https://example.com/r.jpg", "category": content.CategoryBerita,
	})
	require.NoError(t, err)

	env := newTestEnv(t, store)

	rec := env.request(t, http.MethodGet, "/v1/programs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var programs []content.Program
	decodeBody(t, rec, &programs)
	require.Len(t, programs, 1)
	assert.Equal(t, "Multimedia", programs[0].Name)

	rec = env.request(t, http.MethodGet, "/v1/programs/"+progID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/v1/programs/programs:nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.request(t, http.MethodGet, "/v1/news", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// empty collections list as [], never null
	rec = env.request(t, http.MethodGet, "/v1/gallery", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestPublicApply(t *testing.T) {
	emailsvc.ClearSentMessages()
	env := newMemStoreEnv(t)

	rec := env.request(t, http.MethodPost, "/v1/apply", "", content.NewApplication{
		FirstName:   "Rina",
		LastName:    "Wati",
		Email:       "Rina@Example.com",
		PhoneNumber: "081234567890",
		ProgramID:   "programs:tkj",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.ID)
	assert.Equal(t, content.StatusPending, resp.Status)

	// the write is synchronous and stamped by the store clock
	var app content.Application
	require.NoError(t, env.store.Get(context.Background(), core.ApplicationsCollection, resp.ID, &app))
	assert.Equal(t, "rina@example.com", app.Email)
	assert.Equal(t, content.StatusPending, app.Status)
	assert.False(t, app.ApplicationDate.IsZero())

	// applicant confirmation plus staff notification
	sent := emailsvc.GetSentMessages()
	require.Len(t, sent, 2)
	assert.Equal(t, "Pendaftaran Diterima", sent[0].Subject)
	assert.Equal(t, "rina@example.com", sent[0].To[0].Address)
	assert.Equal(t, "New Admission Application", sent[1].Subject)
}

func TestPublicApplyValidation(t *testing.T) {
	env := newMemStoreEnv(t)

	rec := env.request(t, http.MethodPost, "/v1/apply", "", content.NewApplication{
		FirstName: "R", // too short, and everything else missing
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var apps []content.Application
	require.NoError(t, env.store.List(context.Background(), core.ApplicationsCollection, nil, &apps))
	assert.Empty(t, apps)
}

func TestPublicContact(t *testing.T) {
	emailsvc.ClearSentMessages()
	env := newMemStoreEnv(t)

	rec := env.request(t, http.MethodPost, "/v1/contact", "", content.NewContactMessage{
		Name:    "Budi",
		Email:   "budi@example.com",
		Subject: "Tanya jadwal",
		Message: "Kapan pendaftaran gelombang kedua dibuka?",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.ID)

	var msg content.ContactMessage
	require.NoError(t, env.store.Get(context.Background(), core.MessagesCollection, resp.ID, &msg))
	assert.False(t, msg.Read)
	assert.False(t, msg.ReceivedAt.IsZero())

	sent := emailsvc.GetSentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "New Contact Message: Tanya jadwal", sent[0].Subject)
}

func TestChatbot(t *testing.T) {
	env := newMemStoreEnv(t)

	rec := env.request(t, http.MethodPost, "/v1/chatbot", "", ChatbotRequest{
		Question: "Apa saja program keahlian yang tersedia?",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ChatbotResponse
	decodeBody(t, rec, &resp)
	assert.NotEmpty(t, resp.Answer)

	rec = env.request(t, http.MethodPost, "/v1/chatbot", "", ChatbotRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
