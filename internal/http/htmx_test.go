package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMX_RequestDetection(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/users", nil)
	assert.False(t, IsHTMX(r))
	assert.False(t, WantsPartial(r))

	r.Header.Set("Hx-Request", "true")
	r.Header.Set("Hx-Target", listRegionID)
	assert.True(t, IsHTMX(r))
	assert.True(t, WantsPartial(r))
	assert.Equal(t, listRegionID, HXTarget(r))
}

func TestHTMX_HistoryRestoreGetsFullPage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/users", nil)
	r.Header.Set("Hx-Request", "true")
	r.Header.Set("Hx-History-Restore-Request", "true")
	assert.False(t, WantsPartial(r), "a history miss needs the whole layout")
}

func TestHTMX_ResponseHeaderSetters(t *testing.T) {
	rec := httptest.NewRecorder()
	SetHXRedirect(rec, "/auth/signin")
	SetHXPushURL(rec, "/users?page=2")
	SetHXReswap(rec, "none")

	assert.Equal(t, "/auth/signin", rec.Header().Get("Hx-Redirect"))
	assert.Equal(t, "/users?page=2", rec.Header().Get("Hx-Push-Url"))
	assert.Equal(t, "none", rec.Header().Get("Hx-Reswap"))
}

func TestSetHXTrigger_MergesEvents(t *testing.T) {
	rec := httptest.NewRecorder()
	SetHXTrigger(rec, "showToast", map[string]string{"message": "Saved", "type": "success"})
	SetHXTrigger(rec, "nav:activate", map[string]string{"path": "/users"})
	SetHXTrigger(rec, "refresh", nil)

	var events map[string]any
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("Hx-Trigger")), &events))
	assert.Equal(t, map[string]any{"message": "Saved", "type": "success"}, events["showToast"])
	assert.Equal(t, map[string]any{"path": "/users"}, events["nav:activate"])
	assert.Equal(t, true, events["refresh"])
}

func TestSetHXTrigger_ReplacesMalformedHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set("Hx-Trigger", "plain-event")
	SetHXTrigger(rec, "refresh", nil)
	assert.JSONEq(t, `{"refresh":true}`, rec.Header().Get("Hx-Trigger"))
}
