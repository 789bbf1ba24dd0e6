package mux

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"card-shoggoths-server/internal/util"
	"card-shoggoths-server/pkg/playable"
	"card-shoggoths-server/pkg/playable/poker/action"
	"card-shoggoths-server/pkg/playable/shoggoth"
	"card-shoggoths-server/pkg/room"
	"card-shoggoths-server/pkg/room/gamefactory"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var validNameRx = regexp.MustCompile(fmt.Sprintf(`^[\p{L}\p{N} ]{0,%d}\z`, gamefactory.MaxNameLength))

type sessionPayload struct {
	Name           string `json:"name"`
	RecaptchaToken string `json:"recaptchaToken"`
}

type sessionResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
}

// intentResponse is the response to every mutating intent
type intentResponse struct {
	*shoggoth.Outcome
	State *shoggoth.State `json:"state"`
}

type actionPayload struct {
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

type discardPayload struct {
	Indices []int `json:"indices"`
}

type guessPayload struct {
	Index1 *int `json:"index1"`
	Index2 *int `json:"index2"`
}

func (m *Mux) postSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sp sessionPayload
		if !decodeRequest(w, r, &sp) {
			return
		}

		if err := m.recaptcha.Verify(sp.RecaptchaToken); err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		name := strings.TrimSpace(sp.Name)
		if !validNameRx.MatchString(name) {
			writeJSONError(w, http.StatusBadRequest, fmt.Errorf("name must only contain letters, numbers, and spaces, and be %d characters or less", gamefactory.MaxNameLength))
			return
		}

		if name == "" {
			name = util.GetRandomName()
		}

		id := uuid.New().String()
		token, err := m.signer.Sign(id, name)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		logrus.WithFields(logrus.Fields{
			"session": id,
			"addr":    remoteAddr(r),
		}).Info("issued session token")

		writeJSON(w, http.StatusCreated, sessionResponse{
			Token:     token,
			SessionID: id,
			Name:      name,
		})
	}
}

func (m *Mux) getSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := m.pitBoss.State(r.Context(), sessionFromRequest(r).ID)
		if err != nil {
			writeIntentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, res.State)
	}
}

func (m *Mux) deleteSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.pitBoss.Teardown(r.Context(), sessionFromRequest(r).ID); err != nil {
			writeIntentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, statusOK)
	}
}

func (m *Mux) postSessionDeal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromRequest(r)
		res, err := m.pitBoss.ExecuteOrCreate(r.Context(), session.ID, playable.AdditionalData{"name": session.Name}, func(game *shoggoth.Game) (*shoggoth.Outcome, error) {
			return game.Deal()
		})

		writeIntent(w, res, err)
	}
}

func (m *Mux) postSessionAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ap actionPayload
		if !decodeRequest(w, r, &ap) {
			return
		}

		a, err := action.FromString(ap.Action)
		if err != nil || !a.IsBetting() {
			writeIntentError(w, playable.NewRuleError(playable.KindIllegalAction, "unknown action: %s", ap.Action))
			return
		}

		m.execute(w, r, func(game *shoggoth.Game) (*shoggoth.Outcome, error) {
			return game.Act(a, ap.Amount)
		})
	}
}

func (m *Mux) postSessionDiscard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var dp discardPayload
		if !decodeRequest(w, r, &dp) {
			return
		}

		indices := dp.Indices
		if indices == nil {
			indices = []int{}
		}

		m.execute(w, r, func(game *shoggoth.Game) (*shoggoth.Outcome, error) {
			return game.Discard(indices)
		})
	}
}

func (m *Mux) postSessionShowdown() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.execute(w, r, func(game *shoggoth.Game) (*shoggoth.Outcome, error) {
			return game.ResolveShowdown()
		})
	}
}

func (m *Mux) postSessionRebuy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.execute(w, r, func(game *shoggoth.Game) (*shoggoth.Outcome, error) {
			return game.Rebuy()
		})
	}
}

func (m *Mux) postSessionESP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.execute(w, r, func(game *shoggoth.Game) (*shoggoth.Outcome, error) {
			return game.StartESP()
		})
	}
}

func (m *Mux) postSessionESPGuess() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var gp guessPayload
		if !decodeRequest(w, r, &gp) {
			return
		}

		if gp.Index1 == nil || gp.Index2 == nil {
			writeIntentError(w, playable.NewRuleError(playable.KindIllegalIndex, "index1 and index2 are required"))
			return
		}

		m.execute(w, r, func(game *shoggoth.Game) (*shoggoth.Outcome, error) {
			return game.GuessESP(*gp.Index1, *gp.Index2)
		})
	}
}

func (m *Mux) deleteSessionESP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.execute(w, r, func(game *shoggoth.Game) (*shoggoth.Outcome, error) {
			return game.ExitESP()
		})
	}
}

// execute runs the intent against the caller's existing session
func (m *Mux) execute(w http.ResponseWriter, r *http.Request, intent room.Intent) {
	res, err := m.pitBoss.Execute(r.Context(), sessionFromRequest(r).ID, intent)
	writeIntent(w, res, err)
}

func writeIntent(w http.ResponseWriter, res *room.Result, err error) {
	if err != nil {
		writeIntentError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, intentResponse{
		Outcome: res.Outcome,
		State:   res.State,
	})
}
