package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hoshinonyaruko/snake-grid/game"
	"github.com/hoshinonyaruko/snake-grid/memimg"
	"github.com/hoshinonyaruko/snake-grid/snake"
	"github.com/hoshinonyaruko/snake-grid/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type fakeJournal struct {
	records []structs.TickRecord
	err     error
	limit   int
}

func (f *fakeJournal) Recent(limit int) ([]structs.TickRecord, error) {
	f.limit = limit
	return f.records, f.err
}

func (f *fakeJournal) Episode(id string) ([]structs.TickRecord, error) {
	var out []structs.TickRecord
	for _, r := range f.records {
		if r.EpisodeID == id {
			out = append(out, r)
		}
	}
	return out, f.err
}

type fixture struct {
	server *Server
	runner *game.Runner
	router *gin.Engine
}

func newFixture(t *testing.T, journal JournalReader) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	opts := snake.DefaultOptions()
	opts.Rand = rand.New(rand.NewSource(1))
	input := game.NewLatch()
	hub := game.NewHub()
	runner := game.NewRunner(snake.NewWorld(opts), input, hub, game.Options{})
	s := &Server{
		Input:     input,
		Hub:       hub,
		Frames:    memimg.NewFrames(),
		Journal:   journal,
		BlockSize: func() int { return 10 },
	}
	return &fixture{server: s, runner: runner, router: NewRouter(s)}
}

func (f *fixture) get(t *testing.T, url string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	f.router.ServeHTTP(w, req)
	return w
}

func TestUpdateDirection(t *testing.T) {
	f := newFixture(t, nil)

	w := f.get(t, "/update-direction")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.get(t, "/update-direction?direction=sideways")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid direction")

	w = f.get(t, "/update-direction?direction=Left")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"direction":"left"`)

	f.runner.Step()
	head, _ := f.server.Hub.Latest().Head()
	assert.Equal(t, structs.Position{X: 4, Y: 5}, head)
}

func TestStateHandler(t *testing.T) {
	f := newFixture(t, nil)
	f.runner.Step()

	w := f.get(t, "/state")
	require.Equal(t, http.StatusOK, w.Code)

	var snap structs.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, f.runner.Episode(), snap.EpisodeID)
	assert.Equal(t, int64(1), snap.Tick)
	assert.Equal(t, structs.Up, snap.Direction)
	require.Len(t, snap.Snake, 2)
	assert.Equal(t, structs.Position{X: 5, Y: 6}, snap.Snake[0].Position)
	assert.NotNil(t, snap.Food)
}

func TestRenderMapHandler(t *testing.T) {
	f := newFixture(t, nil)

	w := f.get(t, "/render-map")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 1, f.server.Frames.Len())

	w = f.get(t, "/render-map?width=50&height=50")
	require.Equal(t, http.StatusOK, w.Code)
	img, err = png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dy())
	assert.Equal(t, 2, f.server.Frames.Len())

	w = f.get(t, "/render-map?width=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRenderMapRedrawsAfterFoodSpawn(t *testing.T) {
	f := newFixture(t, nil)

	before := f.get(t, "/render-map")
	require.Equal(t, http.StatusOK, before.Code)

	tick := f.server.Hub.Latest().Tick
	f.runner.SpawnFood()
	require.Equal(t, tick, f.server.Hub.Latest().Tick, "food spawn does not advance the tick")
	require.Len(t, f.server.Hub.Latest().Food, 1)

	after := f.get(t, "/render-map")
	require.Equal(t, http.StatusOK, after.Code)
	assert.NotEqual(t, before.Body.Bytes(), after.Body.Bytes())
}

func TestJournalHandler(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, http.StatusNotFound, f.get(t, "/journal").Code)

	journal := &fakeJournal{records: []structs.TickRecord{
		{EpisodeID: "a", Tick: 1, Direction: structs.Up},
		{EpisodeID: "b", Tick: 1, Direction: structs.Left, Event: "wall"},
	}}
	f = newFixture(t, journal)

	w := f.get(t, "/journal?limit=7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, journal.limit)
	var body struct {
		Ticks []structs.TickRecord `json:"ticks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Ticks, 2)

	w = f.get(t, "/journal?episode=b")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Ticks, 1)
	assert.Equal(t, "wall", body.Ticks[0].Event)

	assert.Equal(t, http.StatusBadRequest, f.get(t, "/journal?limit=0").Code)

	journal.err = errors.New("disk on fire")
	assert.Equal(t, http.StatusInternalServerError, f.get(t, "/journal").Code)
}

func TestStreamHandler(t *testing.T) {
	f := newFixture(t, nil)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	// 连接后先收到当前快照
	var snap structs.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, int64(0), snap.Tick)

	require.NoError(t, conn.WriteJSON(directionMessage{Direction: "right"}))
	require.Eventually(t, func() bool {
		return f.server.Input.Take().Pressed(structs.Right)
	}, 2*time.Second, 5*time.Millisecond)

	f.runner.Step()
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, int64(1), snap.Tick)

	f.server.Hub.Close()
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
