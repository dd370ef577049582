// Package httpapi exposes the REST surface of the cashcard service: account
// registration and lifecycle under /users, card operations under /cashcards.
// Every route except registration sits behind HTTP Basic authentication with
// per-request credential verification.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dpavlenko/cashcard/internal/logging"
	"github.com/dpavlenko/cashcard/internal/server/models"
	"github.com/dpavlenko/cashcard/internal/server/paging"
	"github.com/dpavlenko/cashcard/internal/server/services"
)

func init() {
	// Amounts are serialized as JSON numbers, matching the wire format of
	// the card representation ({"id":1,"amount":250.00,"owner":"sarah1"}).
	decimal.MarshalJSONWithoutQuotes = true
}

// UserManager defines the account operations used by the handlers.
type UserManager interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (string, error)
	Profile(ctx context.Context, caller, target string) (*services.Profile, error)
	ChangePassword(ctx context.Context, caller, target, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, caller, target, password string) error
}

// CardManager defines the card operations used by the handlers.
type CardManager interface {
	Create(ctx context.Context, owner string, amount decimal.Decimal) (*models.CashCard, error)
	Get(ctx context.Context, caller string, id int64) (*models.CashCard, error)
	List(ctx context.Context, caller string, page paging.Page) ([]*models.CashCard, error)
	Update(ctx context.Context, caller string, id int64, amount decimal.Decimal) error
	Delete(ctx context.Context, caller string, id int64) error
}

// Server owns the router and the HTTP listener lifecycle.
type Server struct {
	address         string
	shutdownTimeout time.Duration
	logger          logging.Logger
	users           UserManager
	cards           CardManager
}

func NewServer(address string, shutdownTimeout time.Duration, l logging.Logger, us UserManager, cs CardManager) *Server {
	return &Server{
		address:         address,
		shutdownTimeout: shutdownTimeout,
		logger:          l.With("module", "http_server"),
		users:           us,
		cards:           cs,
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.POST("/users/register", s.register)

	authed := r.Group("/", s.basicAuth())
	{
		authed.GET("/users/:username", s.profile)
		authed.PUT("/users/:username/change-password", s.changePassword)
		authed.DELETE("/users/:username", s.deleteAccount)

		authed.POST("/cashcards", s.createCard)
		authed.GET("/cashcards", s.listCards)
		authed.GET("/cashcards/:id", s.getCard)
		authed.PUT("/cashcards/:id", s.updateCard)
		authed.DELETE("/cashcards/:id", s.deleteCard)
	}

	return r
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails. Shutdown is graceful within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
