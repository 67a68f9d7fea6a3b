package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwise1/travelog/internal/model"
	"github.com/bwise1/travelog/util/websockets"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdatesBroadcastInCommitOrder(t *testing.T) {
	ta := newTestAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ta.api.Deps.WebSocket.Run(ctx)

	base, view := ta.createGroupedTrip()
	groupID := view.Groups[0].ID

	srv := httptest.NewServer(ta.handler)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?trip_id=" + strings.TrimPrefix(base, "/trips/")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	readEvent := func() websockets.Event {
		var ev websockets.Event
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		require.NoError(t, conn.ReadJSON(&ev))
		return ev
	}
	for readEvent().Type != websockets.MsgTypeSubscribed {
	}

	const edits = 20
	var wg sync.WaitGroup
	for i := 0; i < edits; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := strings.NewReader(fmt.Sprintf(`{"review":"edit %d"}`, i))
			rec := httptest.NewRecorder()
			ta.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, base+"/groups/"+groupID, body))
			assert.Equal(t, http.StatusOK, rec.Code)
		}(i)
	}
	wg.Wait()

	code, env := ta.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, code)
	final := decode[tripView](t, env)

	var last tripView
	for seen := 0; seen < edits; {
		ev := readEvent()
		if ev.Action != actionGroupUpdated {
			continue
		}
		require.NoError(t, json.Unmarshal(ev.Data, &last))
		seen++
	}
	assert.Equal(t, final.Groups[0].Review, last.Groups[0].Review)
}

func TestDiscardTrip(t *testing.T) {
	ta := newTestAPI(t)
	base, _ := ta.createGroupedTrip()

	code, env := ta.do(http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, code, env.Message)

	code, _ = ta.do(http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = ta.do(http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGroupingEmptyTripKeepsIngestionOpen(t *testing.T) {
	ta := newTestAPI(t)
	code, env := ta.do(http.MethodPost, "/trips", model.CreateTripRequest{Title: "Later"})
	require.Equal(t, http.StatusCreated, code)
	base := "/trips/" + decode[model.Trip](t, env).ID.String()

	code, env = ta.do(http.MethodPost, base+"/grouping", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.False(t, decode[tripView](t, env).Grouped)

	code, env = ta.do(http.MethodPost, base+"/photos", model.AddPhotosRequest{Photos: []model.PhotoRecord{
		{ID: "a1", CaptureTime: ptime(0), Latitude: pfloat(35.6595), Longitude: pfloat(139.7005)},
	}})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = ta.do(http.MethodPost, base+"/grouping", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	grouped := decode[tripView](t, env)
	assert.True(t, grouped.Grouped)
	assert.Len(t, grouped.Groups, 1)
}
