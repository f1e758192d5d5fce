package codeforces

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *HTTPClient {
	c := NewHTTPClient(serverURL)
	c.delay = time.Millisecond
	return c
}

func TestFetchRatingHistory(t *testing.T) {
	var gotPath, gotHandle string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHandle = r.URL.Query().Get("handle")
		w.Write([]byte(`{"status":"OK","result":[
			{"contestId":1,"contestName":"Round #1","handle":"tourist","rank":12,
			 "ratingUpdateTimeSeconds":1700000000,"oldRating":1200,"newRating":1400}
		]}`))
	}))
	defer server.Close()

	history, err := newTestClient(server.URL).FetchRatingHistory(context.Background(), "tourist")
	require.NoError(t, err)

	assert.Equal(t, "/user.rating", gotPath)
	assert.Equal(t, "tourist", gotHandle)
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].ContestID)
	assert.Equal(t, "Round #1", history[0].ContestName)
	assert.Equal(t, 1400, history[0].NewRating)
	assert.Equal(t, int64(1700000000), history[0].RatingUpdateTimeSeconds)
}

func TestFetchSubmissions_NilRatingPreserved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user.status", r.URL.Path)
		w.Write([]byte(`{"status":"OK","result":[
			{"id":900,"contestId":1800,"creationTimeSeconds":1700000500,"verdict":"OK",
			 "problem":{"contestId":1800,"index":"B","name":"Count Substrings","rating":1100}},
			{"id":901,"creationTimeSeconds":1700000600,"verdict":"COMPILATION_ERROR",
			 "problem":{"contestId":1800,"index":"C","name":"Unrated One"}}
		]}`))
	}))
	defer server.Close()

	subs, err := newTestClient(server.URL).FetchSubmissions(context.Background(), "tourist")
	require.NoError(t, err)

	require.Len(t, subs, 2)
	require.NotNil(t, subs[0].Problem.Rating)
	assert.Equal(t, 1100, *subs[0].Problem.Rating)
	assert.Nil(t, subs[1].Problem.Rating)
	assert.Zero(t, subs[1].ContestID)
}

func TestEmbeddedFailureStatusIsRetriedThenSurfaced(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		// HTTP 200, but the envelope says the call failed.
		w.Write([]byte(`{"status":"FAILED","comment":"handle: User with handle ghost not found"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchRatingHistory(context.Background(), "ghost")
	require.Error(t, err)

	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "ghost not found")
}

func TestTransientErrorRecoversOnRetry(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("<html>bad gateway</html>"))
			return
		}
		w.Write([]byte(`{"status":"OK","result":[]}`))
	}))
	defer server.Close()

	history, err := newTestClient(server.URL).FetchRatingHistory(context.Background(), "tourist")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	assert.Empty(t, history)
}

func TestRetryExhaustionReturnsLastError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchSubmissions(context.Background(), "tourist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `fetch submissions for "tourist"`)
}

func TestContextCancellationStopsRetrying(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"FAILED","comment":"nope"}`))
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL)
	c.delay = time.Minute // cancellation must win over the retry delay

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.FetchRatingHistory(ctx, "tourist")
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not return after cancellation")
	}
}

func TestHandleIsQueryEscaped(t *testing.T) {
	var gotRaw string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRaw = r.URL.RawQuery
		w.Write([]byte(`{"status":"OK","result":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchRatingHistory(context.Background(), "weird handle&x=1")
	require.NoError(t, err)
	assert.Equal(t, "handle=weird+handle%26x%3D1", gotRaw)
}
