// Package gemini implements the text-extraction client for the Google
// Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/driveline/placetrack/internal/models"
)

// DefaultBaseURL is the production Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultModel is the extraction model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// RoundResult is one round proposed by the extraction service.
type RoundResult struct {
	RoundNumber int    `json:"round_number,omitempty"`
	RoundName   string `json:"round_name"`
	RoundDate   string `json:"round_date,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Result is the structured data extracted from raw placement messages.
// Absent fields stay empty; the engine's safe-override merge decides
// whether an empty value may replace a stored one (it may not).
type Result struct {
	CompanyName string        `json:"company_name"`
	Role        string        `json:"role,omitempty"`
	CTCStipend  string        `json:"ctc_stipend,omitempty"`
	Location    string        `json:"location,omitempty"`
	SkillsNotes string        `json:"skills_notes,omitempty"`
	Rounds      []RoundResult `json:"rounds,omitempty"`
}

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// Opts holds optional Client parameters.
type Opts struct {
	Model   string
	BaseURL string
	Timeout time.Duration
}

// NewClient builds a Client for the given API key.
func NewClient(apiKey string, opts Opts) *Client {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		model:   opts.Model,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    &http.Client{Timeout: opts.Timeout},
	}
}

// ExtractNew parses a drive's full raw message history into structured
// fields.
func (c *Client) ExtractNew(ctx context.Context, messages []string) (*Result, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("%w: no messages to extract", ErrMalformedResponse)
	}
	return c.generate(ctx, newDrivePrompt(messages))
}

// ExtractUpdate parses only the newest message against the drive's current
// structured fields and rounds, relying on the service to reconcile the
// delta instead of re-deriving everything.
func (c *Client) ExtractUpdate(ctx context.Context, drive *models.Drive, rounds []models.Round, newest string) (*Result, error) {
	if strings.TrimSpace(newest) == "" {
		return nil, fmt.Errorf("%w: no message to extract", ErrMalformedResponse)
	}
	return c.generate(ctx, updateDrivePrompt(drive, rounds, newest))
}

// generateRequest/generateResponse mirror the generateContent wire shape.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
			Text  string `json:"text"`
		} `json:"content"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) generate(ctx context.Context, prompt string) (*Result, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", ErrMalformedResponse, err)
	}
	if gr.Error.Message != "" {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, gr.Error.Message)
	}

	text := candidateText(gr)
	if text == "" {
		return nil, fmt.Errorf("%w: empty candidate text", ErrMalformedResponse)
	}

	var result Result
	if err := json.Unmarshal([]byte(stripFences(text)), &result); err != nil {
		return nil, fmt.Errorf("%w: candidate text is not valid JSON: %v", ErrMalformedResponse, err)
	}
	return &result, nil
}

// classifyStatus maps HTTP status codes onto the failure taxonomy.
func classifyStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrInvalidCredential, code)
	case code == http.StatusTooManyRequests || code >= 500:
		return fmt.Errorf("%w: status %d", ErrServiceOverloaded, code)
	default:
		return fmt.Errorf("%w: unexpected status %d", ErrMalformedResponse, code)
	}
}

// candidateText probes the response shapes the API has been seen to
// return: parts array on the first candidate, or a bare text field.
func candidateText(gr generateResponse) string {
	if len(gr.Candidates) == 0 {
		return ""
	}
	c := gr.Candidates[0].Content
	if len(c.Parts) > 0 {
		var sb strings.Builder
		for _, p := range c.Parts {
			sb.WriteString(p.Text)
		}
		return strings.TrimSpace(sb.String())
	}
	return strings.TrimSpace(c.Text)
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// stripFences removes markdown code fences the model wraps JSON in.
func stripFences(s string) string {
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(s)
}
