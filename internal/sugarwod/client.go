package sugarwod

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fitfam/internal/models"
)

const (
	DefaultBaseURL = "https://api.sugarwod.com/v2"
	pageLimit      = 25
)

// BenchmarkCategories are the benchmark groups the feed publishes
var BenchmarkCategories = []string{models.CategoryGirls, models.CategoryHeroes, models.CategoryGames}

// Client reads workouts and movements from the SugarWOD API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether an API key is configured
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type resource[T any] struct {
	ID         string `json:"id"`
	Attributes T      `json:"attributes"`
}

type envelope[T any] struct {
	Data []resource[T] `json:"data"`
}

type workoutAttributes struct {
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	ScoreType     string        `json:"score_type"`
	ScheduledDate scheduledDate `json:"scheduled_date"`
	MovementIDs   []string      `json:"movement_ids"`
}

type benchmarkAttributes struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ScoreType   string   `json:"score_type"`
	Category    string   `json:"category"`
	MovementIDs []string `json:"movement_ids"`
}

type movementAttributes struct {
	Name   string `json:"name"`
	Videos []struct {
		ID string `json:"id"`
	} `json:"videos"`
}

// scheduledDate accepts YYYYMMDD as either a number or a string
type scheduledDate struct {
	models.Date
}

func (d *scheduledDate) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Date = models.Date{}
		return nil
	}
	parsed, err := models.ParseDate(s)
	if err != nil {
		return err
	}
	d.Date = parsed
	return nil
}

// FeaturedWorkouts returns the workouts scheduled for date, ready to store
// as featured workouts
func (c *Client) FeaturedWorkouts(ctx context.Context, date models.Date) ([]models.NewWorkout, error) {
	var resp envelope[workoutAttributes]
	query := url.Values{"dates": {date.String()}}
	if err := c.get(ctx, "/workouts", query, &resp); err != nil {
		return nil, err
	}

	category := models.CategoryFeatured
	workouts := make([]models.NewWorkout, 0, len(resp.Data))
	for _, wo := range resp.Data {
		featured := date
		if wo.Attributes.ScheduledDate.Valid {
			featured = wo.Attributes.ScheduledDate.Date
		}
		workouts = append(workouts, models.NewWorkout{
			SwID:         ptr(wo.ID),
			Name:         wo.Attributes.Title,
			Description:  optional(wo.Attributes.Description),
			Category:     &category,
			ScoreType:    optional(wo.Attributes.ScoreType),
			FeaturedDate: &featured,
			MovementIDs:  wo.Attributes.MovementIDs,
		})
	}
	return workouts, nil
}

// Movements pages through the whole movement catalogue
func (c *Client) Movements(ctx context.Context) ([]models.Movement, error) {
	var movements []models.Movement
	for skip := 0; ; skip += pageLimit {
		var resp envelope[movementAttributes]
		if err := c.get(ctx, "/movements", pageQuery(skip), &resp); err != nil {
			return nil, err
		}
		if len(resp.Data) == 0 {
			return movements, nil
		}

		for _, m := range resp.Data {
			movement := models.Movement{ID: m.ID, Name: m.Attributes.Name}
			if len(m.Attributes.Videos) > 0 && m.Attributes.Videos[0].ID != "" {
				movement.YoutubeID = ptr(m.Attributes.Videos[0].ID)
			}
			movements = append(movements, movement)
		}
	}
}

// Benchmarks pages through the benchmark workouts of one category
func (c *Client) Benchmarks(ctx context.Context, category string) ([]models.NewWorkout, error) {
	var workouts []models.NewWorkout
	for skip := 0; ; skip += pageLimit {
		var resp envelope[benchmarkAttributes]
		if err := c.get(ctx, "/benchmarks/category/"+url.PathEscape(category), pageQuery(skip), &resp); err != nil {
			return nil, err
		}
		if len(resp.Data) == 0 {
			return workouts, nil
		}

		for _, b := range resp.Data {
			cat := b.Attributes.Category
			if cat == "" {
				cat = category
			}
			workouts = append(workouts, models.NewWorkout{
				SwID:        ptr(b.ID),
				Name:        b.Attributes.Name,
				Description: optional(b.Attributes.Description),
				Category:    &cat,
				ScoreType:   optional(b.Attributes.ScoreType),
				MovementIDs: b.Attributes.MovementIDs,
			})
		}
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sugarwod request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("SugarWOD %s returned %d: %s", path, resp.StatusCode, body)
		return fmt.Errorf("sugarwod %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode sugarwod response: %w", err)
	}
	return nil
}

func pageQuery(skip int) url.Values {
	return url.Values{
		"page[skip]":  {strconv.Itoa(skip)},
		"page[limit]": {strconv.Itoa(pageLimit)},
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ptr[T any](v T) *T {
	return &v
}
