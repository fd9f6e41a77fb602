package mux

import (
	"context"
	"net/http"
	"strings"
	"time"

	gmux "github.com/gorilla/mux"

	"dealmein-server/internal/config"
	"dealmein-server/internal/jwt"
	"dealmein-server/pkg/model"
	"dealmein-server/pkg/room"
	"dealmein-server/pkg/tournament"
)

type ctxKey int

const (
	ctxPlayerKey ctxKey = iota
)

// Accounts opens accounts and looks them up
type Accounts interface {
	Create(ctx context.Context, signup model.Signup) (*model.Account, error)
	Authenticate(ctx context.Context, email, password string) (*model.Account, error)
	Get(ctx context.Context, id int64) (*model.Account, error)
	List(ctx context.Context, offset int64, limit int) ([]*model.Account, error)
	LastSignupFrom(ctx context.Context, remoteAddr string) (time.Time, error)
}

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	config    settings
	version   string
	recaptcha recaptcha
	signer    *jwt.Signer
	accounts  Accounts
	director  *tournament.Director
	hub       *room.Hub

	// store for testing purposes
	authRouter  *gmux.Router
	adminRouter *gmux.Router
}

type settings struct {
	// signupDelay is how long an address waits between two sign-ups
	signupDelay time.Duration

	// timings for tournaments that do not set their own
	ActionTimeout time.Duration
	DealInGrace   time.Duration
	NextHandDelay time.Duration
}

// NewMux returns a new HTTP mux
func NewMux(version string, signer *jwt.Signer, accounts Accounts, pitBoss *room.PitBoss) *Mux {
	cfg := config.Instance()
	this := &Mux{
		Router:   gmux.NewRouter(),
		version:  version,
		signer:   signer,
		accounts: accounts,
		director: pitBoss.Director(),
		hub:      pitBoss.Hub(),
		config: settings{
			signupDelay:   time.Minute,
			ActionTimeout: cfg.Engine.ActionTimeout,
			DealInGrace:   cfg.Engine.DealInGrace,
			NextHandDelay: cfg.Engine.NextHandDelay,
		},
		recaptcha: newRecaptcha(cfg.RecaptchaSecret),
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	this.adminRouter = this.authRouter.NewRoute().Subrouter()
	this.adminRouter.Use(this.adminMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodPost).Path("/player").Handler(this.signUp())
		r.Methods(http.MethodPost).Path("/player/auth").Handler(this.logIn())
	}

	// requires bearer authorization
	{
		r := this.authRouter

		r.Methods(http.MethodGet).Path("/tournament").Handler(this.getTournament())
		r.Methods(http.MethodPost).Path("/tournament").Handler(this.postTournament())

		tr := r.PathPrefix("/tournament/{id}").Subrouter()
		tr.Methods(http.MethodGet).Path("").Handler(this.getTournamentID())
		tr.Methods(http.MethodGet).Path("/players").Handler(this.getTournamentIDPlayers())
		tr.Methods(http.MethodPost).Path("/register").Handler(this.postTournamentIDRegister())
		tr.Methods(http.MethodDelete).Path("/register").Handler(this.deleteTournamentIDRegister())
		tr.Methods(http.MethodPost).Path("/start").Handler(this.postTournamentIDStart())
		tr.Methods(http.MethodPost).Path("/deadlines").Handler(this.postTournamentIDDeadlines())

		tbl := r.PathPrefix("/table/{id}").Subrouter()
		tbl.Methods(http.MethodGet).Path("").Handler(this.getTableID())
		tbl.Methods(http.MethodGet).Path("/ws").Handler(this.getTableIDWS())
		tbl.Methods(http.MethodPost).Path("/action").Handler(this.postTableIDAction())
		tbl.Methods(http.MethodPost).Path("/deal-me-in").Handler(this.postTableIDDealMeIn())
	}

	// requires admin access
	// depends on authMiddleware
	{
		r := this.adminRouter
		r.Methods(http.MethodGet).Path("/player").Handler(this.listAccounts())
	}

	return this
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		id, err := m.signer.ValidPlayerID(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		account, err := m.accounts.Get(r.Context(), id)
		if err != nil || account.Blocked() {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxPlayerKey, account)
		w.Header().Set("DealMeIn-PlayerID", account.PlayerID())
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

// adminMiddleware requires authMiddleware to execute first
func (m *Mux) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !requester(r).IsSiteAdmin {
			writeJSONError(w, http.StatusForbidden, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requester returns the authenticated account
func requester(r *http.Request) *model.Account {
	return r.Context().Value(ctxPlayerKey).(*model.Account)
}
