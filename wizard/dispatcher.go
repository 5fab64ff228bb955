package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrSubmissionFailed wraps any network or server failure during a final
	// submit. Form state is preserved by the caller so a retry is cheap.
	ErrSubmissionFailed = errors.New("submission failed")
	// ErrDraftSaveFailed wraps a failed draft save. Non-blocking.
	ErrDraftSaveFailed = errors.New("draft save failed")
)

// Dispatcher delivers completed submissions and draft snapshots to the
// persistence API over HTTP. It is the remote Sink implementation; timeout
// behavior is whatever the supplied HTTP client applies.
type Dispatcher struct {
	baseURL string
	client  *http.Client
}

// NewDispatcher creates a dispatcher for the persistence API at baseURL.
func NewDispatcher(baseURL string) *Dispatcher {
	return &Dispatcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

// NewDispatcherWithClient allows callers to supply their own HTTP client.
func NewDispatcherWithClient(baseURL string, client *http.Client) *Dispatcher {
	d := NewDispatcher(baseURL)
	d.client = client
	return d
}

// envelope matches both the bare and the wrapped response shapes the
// persistence API may answer with.
type envelope struct {
	Message    string `json:"message"`
	TrackingID string `json:"trackingId"`
	Data       struct {
		TrackingID string `json:"trackingId"`
	} `json:"data"`
}

// Submit posts the submission to the boundary endpoint for its flow: public
// submissions go to submit-listing as {listing, submitter}, admin-authored
// ones to projects as a flat record with is_approved set.
func (d *Dispatcher) Submit(ctx context.Context, sub Submission) (string, error) {
	var endpoint string
	var payload interface{}

	if sub.Flow == "admin" {
		body := sub.Listing()
		body["is_approved"] = sub.ApprovalStatus == "approved"
		endpoint = "/projects"
		payload = body
	} else {
		endpoint = "/submit-listing"
		payload = map[string]interface{}{
			"listing":   sub.Listing(),
			"submitter": sub.Submitter,
		}
	}

	env, err := d.post(ctx, endpoint, payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	if env.TrackingID != "" {
		return env.TrackingID, nil
	}
	return env.Data.TrackingID, nil
}

// SaveDraft posts a partial snapshot to the draft endpoint. No validation is
// applied on either side.
func (d *Dispatcher) SaveDraft(ctx context.Context, snap Snapshot) error {
	if _, err := d.post(ctx, "/listings/draft", snap); err != nil {
		return fmt.Errorf("%w: %v", ErrDraftSaveFailed, err)
	}
	return nil
}

func (d *Dispatcher) post(ctx context.Context, endpoint string, payload interface{}) (*envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+endpoint, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && env.Message != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, env.Message)
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("invalid response: %v", decodeErr)
	}
	return &env, nil
}
