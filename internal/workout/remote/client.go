// Package remote is the HTTP client for the hosted workout data service.
// The backend owns all business rules and auth; this client only wraps its
// CRUD endpoints and reports failures as plain errors for the store to handle.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/arieyuval/plates-go/internal/telemetry/tracing"
	"github.com/arieyuval/plates-go/internal/workout"

	"github.com/hashicorp/go-retryablehttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrNotFound = errors.New("remote: not found")

type Client struct {
	baseURL      string
	sessionToken string
	httpClient   *http.Client
}

func NewClient(baseURL, sessionToken string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:      baseURL,
		sessionToken: sessionToken,
		httpClient:   httpClient,
	}
}

// NewDefaultHTTPClient returns an http.Client with transparent retries
// for transient failures, suitable for the data service endpoints.
func NewDefaultHTTPClient() *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil
	return retryClient.StandardClient()
}

type LogSetParams struct {
	ExerciseID string    `json:"exerciseId"`
	Weight     *float64  `json:"weight,omitempty"`
	Reps       *int      `json:"reps,omitempty"`
	Distance   *float64  `json:"distance,omitempty"`
	Duration   *int      `json:"duration,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type UpdateSetParams struct {
	Weight   *float64 `json:"weight,omitempty"`
	Reps     *int     `json:"reps,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
	Duration *int     `json:"duration,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

type AddExerciseParams struct {
	Name           string               `json:"name"`
	MuscleGroup    workout.MuscleGroup  `json:"muscleGroup"`
	Type           workout.ExerciseType `json:"type"`
	DefaultPRReps  int                  `json:"defaultPrReps"`
	UsesBodyWeight bool                 `json:"usesBodyWeight"`
}

func (c *Client) FetchExercises(ctx context.Context) (_ []workout.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.fetchExercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var exercises []workout.Exercise
	if err := c.doJSON(ctx, http.MethodGet, "/exercises", nil, &exercises); err != nil {
		return nil, fmt.Errorf("fetch exercises: %w", err)
	}
	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))
	return exercises, nil
}

func (c *Client) FetchAllSets(ctx context.Context) (_ []workout.Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.fetchAllSets")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var sets []workout.Set
	if err := c.doJSON(ctx, http.MethodGet, "/sets", nil, &sets); err != nil {
		return nil, fmt.Errorf("fetch all sets: %w", err)
	}
	span.SetAttributes(attribute.Int("sets.count", len(sets)))
	return sets, nil
}

func (c *Client) FetchSets(ctx context.Context, exerciseID string) (_ []workout.Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.fetchSets")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	query := url.Values{"exerciseId": {exerciseID}}
	var sets []workout.Set
	if err := c.doJSON(ctx, http.MethodGet, "/sets?"+query.Encode(), nil, &sets); err != nil {
		return nil, fmt.Errorf("fetch sets for exercise %s: %w", exerciseID, err)
	}
	return sets, nil
}

func (c *Client) LogSet(ctx context.Context, params LogSetParams) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.logSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", params.ExerciseID))

	if err := c.doJSON(ctx, http.MethodPost, "/sets", params, nil); err != nil {
		return fmt.Errorf("log set: %w", err)
	}
	return nil
}

func (c *Client) UpdateSet(ctx context.Context, setID string, params UpdateSetParams) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.updateSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("set.id", setID))

	if err := c.doJSON(ctx, http.MethodPut, "/sets/"+url.PathEscape(setID), params, nil); err != nil {
		return fmt.Errorf("update set %s: %w", setID, err)
	}
	return nil
}

func (c *Client) DeleteSet(ctx context.Context, setID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.deleteSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("set.id", setID))

	if err := c.doJSON(ctx, http.MethodDelete, "/sets/"+url.PathEscape(setID), nil, nil); err != nil {
		return fmt.Errorf("delete set %s: %w", setID, err)
	}
	return nil
}

// AddExercise is idempotent on name + muscle group: the backend returns the
// existing exercise, linked to the current user, instead of creating a
// duplicate record.
func (c *Client) AddExercise(ctx context.Context, params AddExerciseParams) (_ *workout.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.addExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.name", params.Name))

	var exercise workout.Exercise
	if err := c.doJSON(ctx, http.MethodPost, "/exercises", params, &exercise); err != nil {
		return nil, fmt.Errorf("add exercise [%s]: %w", params.Name, err)
	}
	return &exercise, nil
}

func (c *Client) UpdatePinnedNote(ctx context.Context, exerciseID string, note *string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.updatePinnedNote")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	body := struct {
		PinnedNote *string `json:"pinnedNote"`
	}{PinnedNote: note}
	path := "/exercises/" + url.PathEscape(exerciseID) + "/pinned-note"
	if err := c.doJSON(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("update pinned note for exercise %s: %w", exerciseID, err)
	}
	return nil
}

func (c *Client) UpdateUserPRReps(ctx context.Context, exerciseID string, reps *int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.updateUserPRReps")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	body := struct {
		Reps *int `json:"reps"`
	}{Reps: reps}
	path := "/exercises/" + url.PathEscape(exerciseID) + "/pr-reps"
	if err := c.doJSON(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("update PR reps for exercise %s: %w", exerciseID, err)
	}
	return nil
}

func (c *Client) FetchBodyWeightLogs(ctx context.Context) (_ []workout.BodyWeightLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.fetchBodyWeightLogs")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var logs []workout.BodyWeightLog
	if err := c.doJSON(ctx, http.MethodGet, "/bodyweight", nil, &logs); err != nil {
		return nil, fmt.Errorf("fetch body weight logs: %w", err)
	}
	return logs, nil
}

func (c *Client) LogBodyWeight(ctx context.Context, weight float64, createdAt time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.logBodyWeight")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	body := struct {
		Weight    float64   `json:"weight"`
		CreatedAt time.Time `json:"createdAt"`
	}{Weight: weight, CreatedAt: createdAt}
	if err := c.doJSON(ctx, http.MethodPost, "/bodyweight", body, nil); err != nil {
		return fmt.Errorf("log body weight: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, reqBody, respDest interface{}) error {
	reqURL := c.baseURL + path
	log.Tracef("remote call: %s %s", method, reqURL)

	var bodyReader io.Reader
	if reqBody != nil {
		bodyBytes, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.sessionToken)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response bytes: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Debugf("remote call %s %s failed [%d]: %s", method, reqURL, resp.StatusCode, respBytes)
		return fmt.Errorf("remote operation failed [%d]: %s", resp.StatusCode, respBytes)
	}

	if respDest == nil {
		return nil
	}
	if err := json.Unmarshal(respBytes, respDest); err != nil {
		return fmt.Errorf("unmarshal response bytes: %w", err)
	}
	return nil
}
