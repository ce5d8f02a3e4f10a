package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fitpact/fitness-backend/internal/domain"

	"github.com/rs/zerolog"
)

// HTTPCatalog queries an exercise-reference HTTP API.
type HTTPCatalog struct {
	client   *http.Client
	endpoint *url.URL
	apiKey   string
	log      zerolog.Logger
}

// NewHTTPCatalog constructs a catalog client for the provided endpoint.
func NewHTTPCatalog(client *http.Client, endpoint, apiKey string, log zerolog.Logger) (*HTTPCatalog, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("catalog endpoint required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse catalog endpoint: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPCatalog{
		client:   client,
		endpoint: parsed,
		apiKey:   strings.TrimSpace(apiKey),
		log:      log.With().Str("component", "catalog").Logger(),
	}, nil
}

func (c *HTTPCatalog) Search(ctx context.Context, filter Filter) ([]domain.ExerciseCandidate, error) {
	requestURL := *c.endpoint
	requestURL.Path = strings.TrimSuffix(requestURL.Path, "/") + "/exercises"
	q := requestURL.Query()
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if len(filter.Equipment) > 0 {
		q.Set("equipment", strings.Join(filter.Equipment, ","))
	}
	if filter.BodyPart != "" {
		q.Set("bodyPart", filter.BodyPart)
	}
	if filter.TargetMuscle != "" {
		q.Set("target", filter.TargetMuscle)
	}
	if filter.Difficulty != "" {
		q.Set("difficulty", filter.Difficulty)
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	requestURL.RawQuery = q.Encode()

	var out []domain.ExerciseCandidate
	if err := c.getJSON(ctx, requestURL.String(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPCatalog) GetByID(ctx context.Context, id string) (*domain.ExerciseCandidate, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	var out domain.ExerciseCandidate
	if err := c.getJSON(ctx, c.itemURL("/exercises/exercise/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPCatalog) GetByName(ctx context.Context, name string) (*domain.ExerciseCandidate, error) {
	if name == "" {
		return nil, ErrNotFound
	}
	var out domain.ExerciseCandidate
	if err := c.getJSON(ctx, c.itemURL("/exercises/name/", name), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPCatalog) itemURL(prefix, key string) string {
	u := *c.endpoint
	u.Path = strings.TrimSuffix(u.Path, "/") + prefix + url.PathEscape(strings.ToLower(key))
	return u.String()
}

func (c *HTTPCatalog) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("catalog status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}
