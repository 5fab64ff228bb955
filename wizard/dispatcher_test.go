package wizard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherSubmitPublic(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/submit-listing", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  200,
			"message": "submission received",
			"data":    map[string]string{"trackingId": "MP-2024-0042"},
		})
	}))
	defer srv.Close()

	sub := Submission{
		Flow:           "public",
		Category:       CategoryRentalResidential,
		Fields:         map[string]interface{}{"title": "Flat", "monthlyRent": "25000"},
		Submitter:      &Contact{Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210"},
		ApprovalStatus: "pending",
		SubmittedAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	d := NewDispatcher(srv.URL)
	trackingID, err := d.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "MP-2024-0042", trackingID)

	listing, ok := got["listing"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "rental_residential", listing["category"])
	assert.Equal(t, "pending", listing["approval_status"])
	assert.Equal(t, "2024-01-01T12:00:00Z", listing["submitted_at"])

	submitter, ok := got["submitter"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Asha Rao", submitter["name"])
}

func TestDispatcherSubmitAdminGoesToProjects(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/projects", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"trackingId": "PRJ-7"})
	}))
	defer srv.Close()

	sub := Submission{
		Flow:           "admin",
		Category:       CategoryNewConstruction,
		Fields:         map[string]interface{}{"title": "Towers", "builderName": "Prestige"},
		ApprovalStatus: "approved",
		SubmittedAt:    time.Now(),
	}

	d := NewDispatcher(srv.URL)
	trackingID, err := d.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "PRJ-7", trackingID)
	assert.Equal(t, true, got["is_approved"])
	assert.Equal(t, "Towers", got["title"], "admin payload is flat")
}

func TestDispatcherSubmitServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]interface{}{"message": "database unavailable"})
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL)
	_, err := d.Submit(context.Background(), Submission{Flow: "public"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Contains(t, err.Error(), "database unavailable")
}

func TestDispatcherSubmitNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	d := NewDispatcher(srv.URL)
	_, err := d.Submit(context.Background(), Submission{Flow: "public"})
	assert.ErrorIs(t, err, ErrSubmissionFailed)
}

func TestDispatcherSaveDraft(t *testing.T) {
	var got Snapshot
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/listings/draft", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer srv.Close()

	snap := Snapshot{
		Flow:   "admin",
		Step:   2,
		Fields: map[string]interface{}{"title": "Untitled", "location": "Bejai"},
	}

	d := NewDispatcher(srv.URL)
	require.NoError(t, d.SaveDraft(context.Background(), snap))
	assert.Equal(t, 2, got.Step)
	assert.Equal(t, "Untitled", got.Fields["title"])
}

func TestDispatcherSaveDraftFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL)
	err := d.SaveDraft(context.Background(), Snapshot{Flow: "admin"})
	assert.ErrorIs(t, err, ErrDraftSaveFailed)
}
