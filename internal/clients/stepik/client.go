package stepik

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"stepik-analytics/internal/httpx"
	"stepik-analytics/internal/logger"
	"stepik-analytics/internal/retry"
)

// Client fetches one resource at a time across all of its pages, following
// the nextPage cursor until absent. Each page fetch runs through the retry
// executor; 429 and 408/502/503/504 are retried with backoff, any other
// non-2xx status fails the whole resource fetch for this run.
type Client struct {
	endpoints Endpoints
	token     string
	http      *http.Client
	retry     retry.Config
	log       *logger.Logger
}

func NewClient(endpoints Endpoints, token string, baseLog *logger.Logger) *Client {
	clientLog := baseLog.With("client", "StepikClient")
	return &Client{
		endpoints: endpoints,
		token:     token,
		http: &http.Client{
			Timeout: 2 * time.Minute,
		},
		retry: retry.DefaultConfig(),
		log:   clientLog,
	}
}

func (c *Client) Attempts(ctx context.Context, courseID int64, from, to time.Time) (Result[Attempt], error) {
	return fetchPaged[Attempt](ctx, c, ResourceAttempts, courseID, from, to)
}

func (c *Client) Enrollments(ctx context.Context, courseID int64, from, to time.Time) (Result[Enrollment], error) {
	return fetchPaged[Enrollment](ctx, c, ResourceEnrollments, courseID, from, to)
}

func (c *Client) Certificates(ctx context.Context, courseID int64, from, to time.Time) (Result[Certificate], error) {
	return fetchPaged[Certificate](ctx, c, ResourceCertificates, courseID, from, to)
}

func (c *Client) Reviews(ctx context.Context, courseID int64, from, to time.Time) (Result[Review], error) {
	return fetchPaged[Review](ctx, c, ResourceReviews, courseID, from, to)
}

func (c *Client) Ratings(ctx context.Context, courseID int64, from, to time.Time) (Result[Rating], error) {
	return fetchPaged[Rating](ctx, c, ResourceRatings, courseID, from, to)
}

func fetchPaged[T any](ctx context.Context, c *Client, res Resource, courseID int64, from, to time.Time) (Result[T], error) {
	endpoint := c.endpoints.forResource(res)
	if endpoint == "" {
		return Unavailable[T](unavailableReason(res)), nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return Result[T]{}, fmt.Errorf("%s: invalid endpoint url: %w", res, err)
	}
	q := u.Query()
	q.Set("course", strconv.FormatInt(courseID, 10))
	q.Set("from", from.UTC().Format(time.RFC3339))
	q.Set("to", to.UTC().Format(time.RFC3339))
	u.RawQuery = q.Encode()

	var all []T
	pageURL := u.String()
	for pageURL != "" {
		pg, err := retry.Do(ctx, c.retry, c.log, func(ctx context.Context) (page[T], error) {
			return fetchPage[T](ctx, c, pageURL)
		})
		if err != nil {
			return Result[T]{}, fmt.Errorf("fetch %s page: %w", res, err)
		}
		all = append(all, pg.Items...)
		pageURL = pg.NextPage
	}
	return Available(all), nil
}

func fetchPage[T any](ctx context.Context, c *Client, pageURL string) (page[T], error) {
	var zero page[T]

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return zero, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusTooManyRequests {
			c.log.Warn("rate limit hit", "url", pageURL)
		}
		return zero, &httpx.StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, err
	}
	var pg page[T]
	if err := json.Unmarshal(body, &pg); err != nil {
		return zero, fmt.Errorf("decode page: %w", err)
	}
	return pg, nil
}
