package riskai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Config holds the endpoints and credentials for the external risk scorer
// and the chat-completion insight model.
type Config struct {
	ScorerURL      string
	ScorerTimeout  time.Duration
	InsightURL     string
	InsightAPIKey  string
	InsightModel   string
	InsightTimeout time.Duration
}

// Client talks to the external ML risk scorer and the insight model. Calls
// are single request/response with a timeout; there are no retries.
type Client struct {
	cfg         Config
	scorerHTTP  *http.Client
	insightHTTP *http.Client
	logger      zerolog.Logger
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.ScorerTimeout <= 0 {
		cfg.ScorerTimeout = 10 * time.Second
	}
	if cfg.InsightTimeout <= 0 {
		cfg.InsightTimeout = 30 * time.Second
	}
	return &Client{
		cfg:         cfg,
		scorerHTTP:  &http.Client{Timeout: cfg.ScorerTimeout},
		insightHTTP: &http.Client{Timeout: cfg.InsightTimeout},
		logger:      logger,
	}
}

// ScoreRequest is the payload sent to the scorer's /check-prescription
// endpoint. Drugs, Dosage and Frequency are parallel arrays.
type ScoreRequest struct {
	PatientName       string   `json:"patient_name"`
	Age               int      `json:"age"`
	Sex               string   `json:"sex"`
	Condition         string   `json:"condition"`
	Drugs             []string `json:"drugs"`
	Dosage            []int    `json:"dosage"`
	Frequency         []int    `json:"frequency"`
	Allergy           []string `json:"allergy"`
	PregnancyCategory string   `json:"pregnancy_category"`
}

// ScoreResponse is the scorer's verdict: one flag per risk category plus an
// overall flag, passed through to the caller unmodified.
type ScoreResponse struct {
	Flag          float64  `json:"flag"`
	AgeFlag       float64  `json:"age_flag"`
	AllergyFlag   float64  `json:"allergy_flag"`
	DosageFlag    float64  `json:"dosage_flag"`
	DrugsFlag     float64  `json:"drugs_flag"`
	FrequencyFlag float64  `json:"frequency_flag"`
	PregnancyFlag float64  `json:"pregnancy_flag"`
	SexFlag       float64  `json:"sex_flag"`
	Messages      []string `json:"messages"`
}

// ScoreRisk submits a prescription to the external scorer and returns its
// flags verbatim.
func (c *Client) ScoreRisk(ctx context.Context, req ScoreRequest) (*ScoreResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal score request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.ScorerURL+"/check-prescription", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build score request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.scorerHTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call risk scorer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("risk scorer returned status %d", resp.StatusCode)
	}

	var score ScoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&score); err != nil {
		return nil, fmt.Errorf("decode score response: %w", err)
	}

	return &score, nil
}
