package webserver

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemorsel/souschef/internal/ports/inbound"
)

func TestSessionStore(t *testing.T) {
	newStore := func(t *testing.T) *SessionStore {
		t.Helper()
		s := NewSessionStore()
		t.Cleanup(s.Close)
		return s
	}

	t.Run("NewVisitor_ShouldGetCookieAndSession", func(t *testing.T) {
		store := newStore(t)
		rec := httptest.NewRecorder()

		session := store.GetOrCreate(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotNil(t, session)
		assert.NotEmpty(t, session.ID)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, session.ID, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("ReturningVisitor_ShouldGetSameSession", func(t *testing.T) {
		store := newStore(t)
		rec := httptest.NewRecorder()
		first := store.GetOrCreate(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(rec.Result().Cookies()[0])
		second := store.GetOrCreate(httptest.NewRecorder(), req)

		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("UnknownCookie_ShouldGetFreshSession", func(t *testing.T) {
		store := newStore(t)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "stale-id"})
		session := store.GetOrCreate(httptest.NewRecorder(), req)

		assert.NotEqual(t, "stale-id", session.ID)
	})

	t.Run("History_ShouldAppendInOrder", func(t *testing.T) {
		store := newStore(t)
		session := store.GetOrCreate(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		store.Append(session.ID, Exchange{Question: "one", ReplyHTML: template.HTML("<p>1</p>"), Outcome: inbound.OutcomeGenerated, At: time.Now()})
		store.Append(session.ID, Exchange{Question: "two", ReplyHTML: template.HTML("<p>2</p>"), Outcome: inbound.OutcomeDirect, At: time.Now()})

		history := store.History(session.ID)
		require.Len(t, history, 2)
		assert.Equal(t, "one", history[0].Question)
		assert.Equal(t, "two", history[1].Question)
	})

	t.Run("AppendToUnknownSession_ShouldBeIgnored", func(t *testing.T) {
		store := newStore(t)

		store.Append("ghost", Exchange{Question: "hello"})

		assert.Empty(t, store.History("ghost"))
	})

	t.Run("LongHistory_ShouldBeCapped", func(t *testing.T) {
		store := newStore(t)
		session := store.GetOrCreate(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		for i := 0; i < maxHistoryLength+10; i++ {
			store.Append(session.ID, Exchange{Question: "q"})
		}

		assert.Len(t, store.History(session.ID), maxHistoryLength)
	})
}
