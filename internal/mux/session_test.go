package mux

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"card-shoggoths-server/internal/jwt"
	"card-shoggoths-server/internal/rng"
	"card-shoggoths-server/pkg/playable/shoggoth"
	"card-shoggoths-server/pkg/room"
	"card-shoggoths-server/pkg/room/gamefactory"
	"card-shoggoths-server/pkg/store"

	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type testState struct {
	Phase     string `json:"phase"`
	Sanity    int    `json:"sanity"`
	ESPActive bool   `json:"espActive"`
	Opponent  struct {
		Name   string `json:"name"`
		Sanity int    `json:"sanity"`
	} `json:"opponent"`
	ESP *struct {
		Hand1    []json.RawMessage `json:"hand1"`
		Attempts int      `json:"attempts"`
	} `json:"esp"`
}

type testIntentResponse struct {
	Narration string    `json:"narration"`
	Phase     string    `json:"phase"`
	ESPActive bool      `json:"espActive"`
	Correct   *bool     `json:"correct"`
	State     testState `json:"state"`
}

type failingRecaptcha struct{}

func (failingRecaptcha) Verify(string) error {
	return assert.AnError
}

func newTestMux(t *testing.T) (*Mux, *quartz.Mock) {
	t.Helper()

	opts := shoggoth.DefaultOptions()
	opts.Poker.Seed = 42
	opts.Opponent.DiscardSimulations = 10

	clock := quartz.NewMock(t)
	factory := gamefactory.New(opts, clock, rng.NewSeeded(11))
	hub := room.NewHub(logrus.StandardLogger(), clock, rng.NewSeeded(11))
	pitBoss := room.NewPitBoss(logrus.StandardLogger(), store.NewMemory(), factory, clock, hub, room.DefaultOptions())

	signer, err := jwt.NewSigner([]byte("a-secret-for-the-tests-only"), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	return NewMux("v1.2.3", pitBoss, signer, nil), clock
}

func newSessionToken(t *testing.T, ts *httptest.Server, name string) string {
	t.Helper()

	var resp sessionResponse
	assertPost(t, ts, "/session", map[string]string{"name": name}, &resp, 201)
	return resp.Token
}

func advance(clock *quartz.Mock, d time.Duration) {
	clock.Advance(d).MustWait(context.Background())
}

func TestPostSession(t *testing.T) {
	a := assert.New(t)
	m, _ := newTestMux(t)
	ts := httptest.NewServer(m)
	defer ts.Close()

	var resp sessionResponse
	assertPost(t, ts, "/session", map[string]string{"name": "Randolph Carter"}, &resp, 201)
	a.Equal("Randolph Carter", resp.Name)
	a.NotEmpty(resp.Token)

	session, err := m.signer.ValidSession(resp.Token)
	a.NoError(err)
	a.Equal(resp.SessionID, session.ID)

	assertPost(t, ts, "/session", map[string]string{}, &resp, 201)
	a.NotEmpty(resp.Name)

	var errObj errorResponse
	assertPost(t, ts, "/session", map[string]string{"name": "<script>"}, &errObj, 400)
	a.Equal("name must only contain letters, numbers, and spaces, and be 64 characters or less", errObj.Message)

	longest := strings.Repeat("ñ", gamefactory.MaxNameLength)
	assertPost(t, ts, "/session", map[string]string{"name": longest}, &resp, 201)
	a.Equal(longest, resp.Name)

	token := resp.Token
	var ir map[string]interface{}
	assertPost(t, ts, "/session/deal", nil, &ir, 200, token)

	assertPost(t, ts, "/session", map[string]string{"name": longest + "a"}, &errObj, 400)

	assertPost(t, ts, "/session", "{", &errObj, 400)

	m.recaptcha = failingRecaptcha{}
	assertPost(t, ts, "/session", map[string]string{"name": "Randolph"}, &errObj, 400)
}

func Test_authRouter(t *testing.T) {
	a := assert.New(t)
	m, _ := newTestMux(t)
	ts := httptest.NewServer(m)
	defer ts.Close()

	var errObj errorResponse
	assertGet(t, ts, "/session", &errObj, 401)
	a.Equal("Unauthorized", errObj.Message)

	assertGet(t, ts, "/session", &errObj, 401, "not-a-token")

	token := newSessionToken(t, ts, "Randolph")
	session, _ := m.signer.ValidSession(token)

	// no session until the first deal
	resp := assertGetWithResp(t, ts, "/session", &errObj, 404, token)
	a.Equal("no session found; deal to begin", errObj.Message)
	if a.NotNil(resp) {
		a.Equal(session.ID, resp.Header.Get("Card-Shoggoths-Session-ID"))
	}

	// test using query parameter
	var ir testIntentResponse
	assertPost(t, ts, "/session/deal?access_token="+url.QueryEscape(token), nil, &ir, 200)
	a.Equal("bet_pre", ir.Phase)
}

func TestSession_PokerFlow(t *testing.T) {
	a := assert.New(t)
	m, _ := newTestMux(t)
	ts := httptest.NewServer(m)
	defer ts.Close()

	token := newSessionToken(t, ts, "Randolph")

	var errObj errorResponse
	assertPost(t, ts, "/session/action", map[string]interface{}{"action": "check"}, &errObj, 404, token)

	var ir testIntentResponse
	assertPost(t, ts, "/session/deal", nil, &ir, 200, token)
	a.Equal("bet_pre", ir.Phase)
	a.Equal("Both players ante 10. The pot is 20.", ir.Narration)
	a.Equal(90, ir.State.Sanity)
	a.Equal("The Ancient One", ir.State.Opponent.Name)

	assertPost(t, ts, "/session/deal", nil, &errObj, 409, token)
	a.Equal("illegal_phase", string(errObj.Kind))

	assertPost(t, ts, "/session/action", map[string]interface{}{"action": "juggle"}, &errObj, 400, token)
	a.Equal("illegal_action", string(errObj.Kind))

	assertPost(t, ts, "/session/action", map[string]interface{}{"action": "bet", "amount": 500}, &errObj, 400, token)
	a.Equal("insufficient_sanity", string(errObj.Kind))

	assertPost(t, ts, "/session/discard", map[string]interface{}{"indices": []int{0}}, &errObj, 409, token)
	a.Equal("illegal_phase", string(errObj.Kind))

	assertPost(t, ts, "/session/showdown", nil, &errObj, 409, token)

	var state testState
	assertGet(t, ts, "/session", &state, 200, token)
	a.Equal("bet_pre", state.Phase)
	a.Equal(90, state.Sanity)

	assertPost(t, ts, "/session/action", map[string]interface{}{"action": "fold"}, &ir, 200, token)
	a.Equal("complete", ir.Phase)
	a.Equal(90, ir.State.Sanity)
	a.Equal(110, ir.State.Opponent.Sanity)

	assertPost(t, ts, "/session/rebuy", nil, &errObj, 409, token)

	assertDelete(t, ts, "/session", nil, 200, token)
	assertGet(t, ts, "/session", &errObj, 404, token)
	assertDelete(t, ts, "/session", &errObj, 404, token)
}

func TestSession_ESPFlow(t *testing.T) {
	a := assert.New(t)
	m, clock := newTestMux(t)
	ts := httptest.NewServer(m)
	defer ts.Close()

	token := newSessionToken(t, ts, "Randolph")

	var ir testIntentResponse
	var errObj errorResponse
	assertPost(t, ts, "/session/deal", nil, &ir, 200, token)
	assertPost(t, ts, "/session/esp", nil, &errObj, 409, token)
	a.Equal("illegal_phase", string(errObj.Kind))

	assertPost(t, ts, "/session/action", map[string]interface{}{"action": "fold"}, &ir, 200, token)

	assertPost(t, ts, "/session/esp", nil, &ir, 200, token)
	a.True(ir.ESPActive)
	a.Equal("complete", ir.Phase)
	if a.NotNil(ir.State.ESP) {
		a.Len(ir.State.ESP.Hand1, 5)
	}

	assertPost(t, ts, "/session/deal", nil, &errObj, 409, token)
	assertPost(t, ts, "/session/esp/guess", map[string]interface{}{"index1": 0}, &errObj, 400, token)
	a.Equal("illegal_index", string(errObj.Kind))
	assertPost(t, ts, "/session/esp/guess", map[string]interface{}{"index1": 0, "index2": 9}, &errObj, 400, token)

	advance(clock, 16*time.Second)
	assertPost(t, ts, "/session/esp/guess", map[string]interface{}{"index1": 0, "index2": 1}, &errObj, 410, token)
	a.Equal("deadline_expired", string(errObj.Kind))

	assertPost(t, ts, "/session/esp/guess", map[string]interface{}{"index1": 0, "index2": 1}, &errObj, 409, token)
	a.Equal("no_active_esp", string(errObj.Kind))
	assertDelete(t, ts, "/session/esp", &errObj, 409, token)

	var state testState
	assertGet(t, ts, "/session", &state, 200, token)
	a.False(state.ESPActive)
	a.Equal(80, state.Sanity)
	a.Equal("complete", state.Phase)

	assertPost(t, ts, "/session/esp", nil, &ir, 200, token)
	assertDelete(t, ts, "/session/esp", &ir, 200, token)
	a.False(ir.ESPActive)
	a.Equal("You close your third eye.", ir.Narration)
}

func TestSession_WebSocket(t *testing.T) {
	a := assert.New(t)
	m, _ := newTestMux(t)
	ts := httptest.NewServer(m)
	defer ts.Close()

	token := newSessionToken(t, ts, "Randolph")
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/session/ws?access_token=" + url.QueryEscape(token)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if !a.NoError(err) {
		return
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var greeting room.ChatMessage
	a.NoError(conn.ReadJSON(&greeting))
	a.Equal(room.SenderAncientOne, greeting.Sender)
	a.Equal("greeting", greeting.Situation)

	a.NoError(conn.WriteJSON(map[string]interface{}{"action": "deal", "context": "ws-1"}))

	for {
		var msg map[string]interface{}
		if !a.NoError(conn.ReadJSON(&msg)) {
			return
		}

		if msg["key"] == "game" {
			a.Equal("ws-1", msg["context"])
			break
		}
	}

	var state testState
	assertGet(t, ts, "/session", &state, 200, token)
	a.Equal("bet_pre", state.Phase)
}
