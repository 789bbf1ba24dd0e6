package mux

import (
	"context"
	"net/http"
	"strings"

	"card-shoggoths-server/internal/jwt"
	"card-shoggoths-server/pkg/room"

	gmux "github.com/gorilla/mux"
)

type ctxKey int

const (
	ctxSessionKey ctxKey = iota
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version   string
	recaptcha Recaptcha
	pitBoss   *room.PitBoss
	signer    *jwt.Signer

	// store for testing purposes
	authRouter *gmux.Router
}

// NewMux returns a new HTTP mux
func NewMux(version string, pitBoss *room.PitBoss, signer *jwt.Signer, captcha Recaptcha) *Mux {
	if captcha == nil {
		captcha = noRecaptcha{}
	}

	this := &Mux{
		Router:    gmux.NewRouter(),
		version:   version,
		pitBoss:   pitBoss,
		signer:    signer,
		recaptcha: captcha,
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodPost).Path("/session").Handler(this.postSession())
	}

	// requires bearer authorization
	{
		r := this.authRouter

		r.Methods(http.MethodGet).Path("/session").Handler(this.getSession())
		r.Methods(http.MethodDelete).Path("/session").Handler(this.deleteSession())
		r.Methods(http.MethodGet).Path("/session/ws").Handler(this.getSessionWS())

		r.Methods(http.MethodPost).Path("/session/deal").Handler(this.postSessionDeal())
		r.Methods(http.MethodPost).Path("/session/action").Handler(this.postSessionAction())
		r.Methods(http.MethodPost).Path("/session/discard").Handler(this.postSessionDiscard())
		r.Methods(http.MethodPost).Path("/session/showdown").Handler(this.postSessionShowdown())
		r.Methods(http.MethodPost).Path("/session/rebuy").Handler(this.postSessionRebuy())

		r.Methods(http.MethodPost).Path("/session/esp").Handler(this.postSessionESP())
		r.Methods(http.MethodPost).Path("/session/esp/guess").Handler(this.postSessionESPGuess())
		r.Methods(http.MethodDelete).Path("/session/esp").Handler(this.deleteSessionESP())
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

		session, err := m.signer.ValidSession(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxSessionKey, session)
		w.Header().Set("Card-Shoggoths-Session-ID", session.ID)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func sessionFromRequest(r *http.Request) *jwt.Session {
	return r.Context().Value(ctxSessionKey).(*jwt.Session)
}
