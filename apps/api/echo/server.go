package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/feed"
	"github.com/smkpelita/backend/core/mutate"
	"github.com/smkpelita/backend/core/notify"
	"github.com/smkpelita/backend/core/user"
	aisvc "github.com/smkpelita/backend/services/ai"
)

type (
	// ServerDeps are the server's collaborators, wired once in main.
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Store      core.DocStore
		Gateway    *mutate.Gateway
		Sink       *notify.Sink
		UserSvc    user.ServiceInterface
		AISvc      aisvc.ContentService
		Chatbot    *aisvc.Chatbot
		MailSvc    core.EmailService
		Validate   *validator.Validate
		Translator ut.Translator

		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps ServerDeps
		app  *echo.Echo

		errs     chan error
		shutdown chan os.Signal

		programLookup *feed.Lookup
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug

	// programs lookup backing the admissions/students join; a dangling or
	// unavailable reference degrades to the raw id.
	if lookup, err := feed.NewLookup(context.Background(), s.deps.Store, core.ProgramsCollection); err != nil {
		s.deps.Logger.Warn("program lookup unavailable, joins degrade to raw ids", err)
	} else {
		s.programLookup = lookup
	}

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(newJWTConfig(conf))

	registerPublicAPI(v1, s.deps)
	registerUserAPI(v1, jwt, s.deps)

	admin := v1.Group("/admin", jwt, adminMiddleware())
	registerAdminAPI(admin, s.deps, s.programLookup)
}

func (s *server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		s.errs <- s.app.Start(s.deps.Conf.Server.Address())
	}()
}

func (s *server) Errors() <-chan error { return s.errs }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

// SignalShutdown requests a graceful stop, as if SIGTERM had been received.
func (s *server) SignalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	if s.programLookup != nil {
		s.programLookup.Close()
	}
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Pelita API!")
}
