package echoapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/rbac"
	aisvc "github.com/smkpelita/backend/services/ai"
)

func TestGenerateContent(t *testing.T) {
	env := newMemStoreEnv(t)
	super := env.createUser(t, "Root", "root@example.com", rbac.RoleSuperAdmin)
	token := env.token(t, super)

	rec := env.request(t, http.MethodPost, "/v1/admin/ai/content", token, GenerateContentRequest{
		Prompt: "Tulis artikel tentang lomba robotik",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var generated aisvc.GeneratedContent
	decodeBody(t, rec, &generated)
	assert.Equal(t, "newsArticle", generated.ContentType)
	assert.NotEmpty(t, generated.Data.Title)

	// provider failure surfaces as one user-facing error
	env.ai.GenerateErr = errors.New("upstream timeout")
	rec = env.request(t, http.MethodPost, "/v1/admin/ai/content", token, GenerateContentRequest{
		Prompt: "Tulis artikel tentang lomba robotik",
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// prompts below the floor never reach the provider
	env.ai.GenerateErr = nil
	rec = env.request(t, http.MethodPost, "/v1/admin/ai/content", token, GenerateContentRequest{Prompt: "hi"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// streamRequest drives an SSE endpoint until cancel fires and returns the
// recorder once the handler has returned.
func streamRequest(env *testEnv, path, token string, during func()) *httptest.ResponseRecorder {
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		env.server.ServeHTTP(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond) // let the handler subscribe
	during()
	time.Sleep(50 * time.Millisecond) // let the event flush
	cancel()
	<-done
	return rec
}

func TestFeedStream(t *testing.T) {
	env := newMemStoreEnv(t)
	super := env.createUser(t, "Root", "root@example.com", rbac.RoleSuperAdmin)

	rec := streamRequest(env, "/v1/admin/feed?collection="+core.ProgramsCollection, env.token(t, super), func() {
		_, err := env.store.Create(context.Background(), core.ProgramsCollection, map[string]interface{}{
			"name": "Pemasaran", "description": "d", "careerProspects": "c",
			"imageUrl": "https://example.com/p.jpg", "icon": "Megaphone",
		})
		require.NoError(t, err)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "data: "), body)
	assert.Contains(t, body, `"Pemasaran"`)
	assert.Contains(t, body, `"CREATE"`)
}

func TestFeedStreamOmitsPasswordHash(t *testing.T) {
	env := newMemStoreEnv(t)
	super := env.createUser(t, "Root", "root@example.com", rbac.RoleSuperAdmin)

	rec := streamRequest(env, "/v1/admin/feed?collection="+core.UsersCollection, env.token(t, super), func() {
		env.createUser(t, "Siti", "siti@example.com", rbac.RoleUser)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	// the event itself arrives, the credential hash never does
	assert.Contains(t, body, `"siti@example.com"`)
	assert.NotContains(t, body, "passwordHash")
}

func TestFeedStreamRejectsUnknownCollection(t *testing.T) {
	env := newMemStoreEnv(t)
	super := env.createUser(t, "Root", "root@example.com", rbac.RoleSuperAdmin)

	rec := env.request(t, http.MethodGet, "/v1/admin/feed?collection=secrets", env.token(t, super), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotificationsStream(t *testing.T) {
	env := newMemStoreEnv(t)
	super := env.createUser(t, "Root", "root@example.com", rbac.RoleSuperAdmin)

	rec := streamRequest(env, "/v1/admin/notifications", env.token(t, super), func() {
		env.sink.Success("update", core.ProgramsCollection, "programs:x", "Program updated.")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"success"`)
	assert.Contains(t, body, `"Program updated."`)
}
