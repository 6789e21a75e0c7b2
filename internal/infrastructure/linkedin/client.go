package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const DefaultBaseURL = "https://api.linkedin.com/v2"

var errNoAccessToken = errors.New("linkedin access token not configured")

type Config struct {
	BaseURL     string
	AccessToken string
	Timeout     time.Duration
}

// Client searches the LinkedIn job API. Every failure falls back to MockJobs
// so the admin screens stay usable without credentials.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	vocab   *Vocabulary
	logger  *log.Logger
	now     func() time.Time
}

func NewClient(cfg Config, vocab *Vocabulary, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: base,
		token:   strings.TrimSpace(cfg.AccessToken),
		timeout: timeout,
		vocab:   vocab,
		logger:  logger,
		now:     time.Now,
	}
}

func (c *Client) Search(ctx context.Context, q Query) ([]Job, error) {
	q = q.normalized()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	jobs, err := c.fetch(ctx, q)
	if err != nil {
		c.logger.Printf("[LinkedIn] API unavailable, using mock jobs keywords=%q location=%q err=%v", q.Keywords, q.Location, err)
		return MockJobs(q, c.now()), nil
	}
	if len(jobs) > q.Limit {
		jobs = jobs[:q.Limit]
	}
	return jobs, nil
}

type apiJob struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     struct {
		Name string `json:"name"`
	} `json:"company"`
	Location       string   `json:"location"`
	Salary         string   `json:"salary"`
	EmploymentType string   `json:"employmentType"`
	Requirements   []string `json:"requirements"`
	Benefits       []string `json:"benefits"`
	ApplicationURL string   `json:"applicationUrl"`
	PostedDate     string   `json:"postedDate"`
}

func (c *Client) fetch(ctx context.Context, q Query) ([]Job, error) {
	if c.token == "" {
		return nil, errNoAccessToken
	}

	params := url.Values{}
	params.Set("keywords", q.Keywords)
	params.Set("location", q.Location)
	params.Set("limit", strconv.Itoa(q.Limit))
	endpoint := c.baseURL + "/jobSearch?" + params.Encode()

	col := colly.NewCollector(colly.AllowURLRevisit())
	col.SetRequestTimeout(c.timeout)

	var (
		body   []byte
		reqErr error
	)
	col.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("Authorization", "Bearer "+c.token)
		r.Headers.Set("Content-Type", "application/json")
		r.Headers.Set("Accept", "application/json")
	})
	col.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	col.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			reqErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
			return
		}
		reqErr = err
	})

	if err := col.Visit(endpoint); err != nil {
		return nil, err
	}
	col.Wait()
	if reqErr != nil {
		return nil, reqErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []apiJob
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode job search: %w", err)
	}
	return c.format(raw), nil
}

func (c *Client) format(raw []apiJob) []Job {
	out := make([]Job, 0, len(raw))
	for _, r := range raw {
		salary := strings.TrimSpace(r.Salary)
		if salary == "" {
			salary = "Not specified"
		}
		j := Job{
			ExternalID:     r.ID,
			Title:          r.Title,
			Description:    r.Description,
			Company:        r.Company.Name,
			Location:       r.Location,
			Salary:         salary,
			Type:           MapJobType(r.EmploymentType),
			Skills:         c.vocab.Extract(r.Description),
			Requirements:   nonNil(r.Requirements),
			Benefits:       nonNil(r.Benefits),
			ApplicationURL: r.ApplicationURL,
		}
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(r.PostedDate)); err == nil {
			t = t.UTC()
			j.PostedDate = &t
		}
		out = append(out, j)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
