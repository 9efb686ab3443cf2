package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"catsafe/internal/domain"
	"catsafe/internal/i18n"
)

// Payload is the flat record posted once per submission. Basic fields stay
// text-encoded exactly as entered; scores are integers.
type Payload struct {
	Timestamp          string `json:"timestamp"`
	Address            string `json:"address"`
	Floor              string `json:"floor"`
	BuildingType       string `json:"buildingType"`
	WindowCount        string `json:"windowCount"`
	DoorCount          string `json:"doorCount"`
	HeaviestCatWeight  string `json:"heaviestCatWeight"`
	CatCount           int    `json:"catCount"`
	WindowBehavior     int    `json:"windowBehavior"`
	WindowStructure    int    `json:"windowStructure"`
	CatPersonality     int    `json:"catPersonality"`
	HighRiskEnv        int    `json:"highRiskEnvironment"`
	InstallExpectation int    `json:"installExpectation"`
	TotalScore         int    `json:"totalScore"`
	RiskLevel          string `json:"riskLevel"`
}

// BuildPayload flattens a finalized draft and its outcome. An empty door
// count defaults to "0"; the timestamp is formatted in the session's locale.
func BuildPayload(draft domain.Draft, outcome domain.Outcome, locale i18n.Locale, label string) Payload {
	doorCount := strings.TrimSpace(draft.DoorCount)
	if doorCount == "" {
		doorCount = "0"
	}
	return Payload{
		Timestamp:          outcome.SubmittedAt.Format(i18n.TimestampLayout(locale)),
		Address:            draft.Address,
		Floor:              draft.FloorLevel,
		BuildingType:       draft.BuildingType,
		WindowCount:        draft.WindowCount,
		DoorCount:          doorCount,
		HeaviestCatWeight:  draft.HeaviestCatWeight,
		CatCount:           draft.CatCount,
		WindowBehavior:     draft.WindowBehavior,
		WindowStructure:    draft.WindowStructure,
		CatPersonality:     draft.CatPersonality,
		HighRiskEnv:        draft.HighRiskEnv,
		InstallExpectation: draft.InstallExpectation,
		TotalScore:         outcome.TotalScore,
		RiskLevel:          label,
	}
}

// Dispatcher posts a submission payload once, best-effort.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload Payload) error
}

// HTTPDispatcher posts the payload to a fixed webhook endpoint. The response
// body and status are deliberately not inspected: the dispatch counts as
// successful once the request went out without a transport error. No retry,
// no timeout.
type HTTPDispatcher struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewHTTPDispatcher(url string, logger *zap.Logger) *HTTPDispatcher {
	return &HTTPDispatcher{
		url:    url,
		client: &http.Client{},
		logger: logger,
	}
}

func (d *HTTPDispatcher) Dispatch(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused; the content is irrelevant.
	_, _ = io.Copy(io.Discard, resp.Body)

	if d.logger != nil {
		d.logger.Info("submission dispatched",
			zap.Int("total_score", payload.TotalScore),
			zap.String("risk_level", payload.RiskLevel),
			zap.Duration("latency", time.Since(start)),
		)
	}
	return nil
}

type disabledDispatcher struct {
	reason string
}

// NewDisabledDispatcher returns a Dispatcher that always fails with the
// given reason, for deployments without a webhook endpoint configured.
func NewDisabledDispatcher(reason string) Dispatcher {
	return &disabledDispatcher{reason: reason}
}

func (d *disabledDispatcher) Dispatch(_ context.Context, _ Payload) error {
	if d.reason == "" {
		return errors.New("webhook dispatcher disabled")
	}
	return errors.New(d.reason)
}
