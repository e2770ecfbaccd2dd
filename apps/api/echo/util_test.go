package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/content"
	"github.com/smkpelita/backend/core/mutate"
	"github.com/smkpelita/backend/core/notify"
	"github.com/smkpelita/backend/core/rbac"
	"github.com/smkpelita/backend/core/user"
	aisvc "github.com/smkpelita/backend/services/ai"
	emailsvc "github.com/smkpelita/backend/services/email"
	"github.com/smkpelita/backend/storage/document"
	"github.com/smkpelita/backend/storage/memdb"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// failingStore wraps a DocStore and fails writes on selected collections.
type failingStore struct {
	core.DocStore
	failCreates map[string]struct{}
}

func (s *failingStore) Create(ctx context.Context, collection string, doc map[string]interface{}) (string, error) {
	if _, ok := s.failCreates[collection]; ok {
		return "", errors.New("simulated network error")
	}
	return s.DocStore.Create(ctx, collection, doc)
}

type testEnv struct {
	conf    *core.Config
	store   core.DocStore
	sink    *notify.Sink
	gateway *mutate.Gateway
	usrSvc  user.ServiceInterface
	ai      *aisvc.DummyService
	server  Server
}

func newTestEnv(t *testing.T, store core.DocStore) *testEnv {
	t.Helper()

	conf := core.NewConfig()
	conf.TestMode = true
	conf.Debug = false

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	content.InitValidators(validate, translator)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(document.NewUserRepository(store), mailSvc, conf)

	sink := notify.NewSink(nopLogger{})
	gateway := mutate.NewGateway(store, sink)

	ai := &aisvc.DummyService{}

	server := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         nopLogger{},
		Store:          store,
		Gateway:        gateway,
		Sink:           sink,
		UserSvc:        usrSvc,
		AISvc:          ai,
		Chatbot:        aisvc.NewChatbot(ai, nopLogger{}),
		MailSvc:        mailSvc,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	return &testEnv{conf: conf, store: store, sink: sink, gateway: gateway, usrSvc: usrSvc, ai: ai, server: server}
}

func (env *testEnv) createUser(t *testing.T, name, email string, role rbac.Role) user.User {
	t.Helper()
	usr, err := env.usrSvc.Create(user.NewUser{
		Name:     name,
		Email:    email,
		Password: "Secret123",
		Role:     role.String(),
	})
	require.NoError(t, err)
	return usr
}

func (env *testEnv) token(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(env.conf, GetUserClaims(env.conf, usr))
	require.NoError(t, err)
	return token
}

func (env *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func newMemStoreEnv(t *testing.T) *testEnv {
	return newTestEnv(t, memdb.New())
}

// drainOutcomes returns every outcome currently buffered on ch.
func drainOutcomes(ch <-chan notify.Outcome) []notify.Outcome {
	var out []notify.Outcome
	for {
		select {
		case o := <-ch:
			out = append(out, o)
		default:
			return out
		}
	}
}
