package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"catsafe/internal/domain"
	"catsafe/internal/i18n"
	"catsafe/internal/repository"
	"catsafe/internal/webhook"
)

// IntakeService owns the three-stage wizard: it guards transitions, mutates
// the session's draft, and finalizes the submission.
type IntakeService struct {
	logger     *zap.Logger
	sessions   repository.SessionRepository
	dispatcher webhook.Dispatcher
	translator *i18n.Translator
	composer   *ReportComposer
}

func NewIntakeService(
	logger *zap.Logger,
	sessions repository.SessionRepository,
	dispatcher webhook.Dispatcher,
	translator *i18n.Translator,
	composer *ReportComposer,
) *IntakeService {
	return &IntakeService{
		logger:     logger,
		sessions:   sessions,
		dispatcher: dispatcher,
		translator: translator,
		composer:   composer,
	}
}

var (
	ErrAtFirstStage     = errors.New("already at first stage")
	ErrAtFinalStage     = errors.New("confirmation requires explicit submit")
	ErrAlreadySubmitted = errors.New("session already submitted")
	ErrNotConfirmable   = errors.New("session not at confirmation stage")
	ErrNotSubmitted     = errors.New("session not submitted yet")
	ErrInvalidAnswer    = errors.New("answer outside question domain")
)

// ValidationError blocks a forward transition. MessageKey resolves to the
// user-visible notice; Fields names what is missing or invalid.
type ValidationError struct {
	MessageKey string
	Fields     []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

// BasicInput carries partial updates to the basic-info fields. Nil means
// "leave unchanged".
type BasicInput struct {
	Address           *string `json:"address"`
	BuildingType      *string `json:"buildingType"`
	FloorLevel        *string `json:"floorLevel"`
	WindowCount       *string `json:"windowCount"`
	DoorCount         *string `json:"doorCount"`
	HeaviestCatWeight *string `json:"heaviestCatWeight"`
}

// AnswersInput carries partial updates to the scored answers, keyed by
// question ID.
type AnswersInput map[domain.QuestionID]int

// CreateSession opens a fresh intake session with an initial draft.
func (s *IntakeService) CreateSession(ctx context.Context, locale i18n.Locale) (domain.Session, error) {
	now := time.Now().UTC()
	session := domain.Session{
		ID:        uuid.NewString(),
		Locale:    string(locale),
		Stage:     domain.StageBasicInfo,
		Draft:     domain.NewDraft(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}
	s.logger.Info("session created", zap.String("session_id", session.ID), zap.String("locale", session.Locale))
	return session, nil
}

// Get returns the current session state.
func (s *IntakeService) Get(ctx context.Context, id string) (domain.Session, error) {
	return s.sessions.GetByID(ctx, id)
}

// SetLocale switches the session's display locale. Draft values and payload
// keys are untouched; only user-facing text re-keys.
func (s *IntakeService) SetLocale(ctx context.Context, id string, locale i18n.Locale) (domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	session.Locale = string(locale)
	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Update(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// UpdateBasic applies partial basic-info updates. Allowed at any point
// before submission; values survive forward/back navigation.
func (s *IntakeService) UpdateBasic(ctx context.Context, id string, input BasicInput) (domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if session.Stage == domain.StageSubmitted {
		return domain.Session{}, ErrAlreadySubmitted
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&session.Draft.Address, input.Address)
	apply(&session.Draft.BuildingType, input.BuildingType)
	apply(&session.Draft.FloorLevel, input.FloorLevel)
	apply(&session.Draft.WindowCount, input.WindowCount)
	apply(&session.Draft.DoorCount, input.DoorCount)
	apply(&session.Draft.HeaviestCatWeight, input.HeaviestCatWeight)

	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Update(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// UpdateAnswers applies partial scored-answer updates. A value must be in
// the question's domain, or the sentinel to clear the selection.
func (s *IntakeService) UpdateAnswers(ctx context.Context, id string, input AnswersInput) (domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if session.Stage == domain.StageSubmitted {
		return domain.Session{}, ErrAlreadySubmitted
	}

	for qid, value := range input {
		question, ok := domain.QuestionByID(qid)
		if !ok {
			return domain.Session{}, fmt.Errorf("%w: unknown question %q", ErrInvalidAnswer, qid)
		}
		if value != domain.Unanswered && !question.Accepts(value) {
			return domain.Session{}, fmt.Errorf("%w: %s=%d", ErrInvalidAnswer, qid, value)
		}
		session.Draft.SetAnswer(qid, value)
	}

	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Update(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Advance moves the wizard one stage forward after its guard passes.
func (s *IntakeService) Advance(ctx context.Context, id string) (domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	switch session.Stage {
	case domain.StageBasicInfo:
		if missing := session.Draft.MissingBasicFields(); len(missing) > 0 {
			return domain.Session{}, &ValidationError{MessageKey: "msg.fillAll", Fields: missing}
		}
		session.Stage = domain.StageScoredQuestions
	case domain.StageScoredQuestions:
		if invalid := session.Draft.InvalidAnswers(); len(invalid) > 0 {
			fields := make([]string, len(invalid))
			for i, qid := range invalid {
				fields[i] = string(qid)
			}
			return domain.Session{}, &ValidationError{MessageKey: "msg.completeAll", Fields: fields}
		}
		session.Stage = domain.StageConfirmation
	case domain.StageConfirmation:
		return domain.Session{}, ErrAtFinalStage
	case domain.StageSubmitted:
		return domain.Session{}, ErrAlreadySubmitted
	}

	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Update(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Back moves one stage backward without clearing any field values.
func (s *IntakeService) Back(ctx context.Context, id string) (domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	switch session.Stage {
	case domain.StageBasicInfo:
		return domain.Session{}, ErrAtFirstStage
	case domain.StageScoredQuestions:
		session.Stage = domain.StageBasicInfo
	case domain.StageConfirmation:
		session.Stage = domain.StageScoredQuestions
	case domain.StageSubmitted:
		return domain.Session{}, ErrAlreadySubmitted
	}

	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Update(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// Reset restores the initial draft and returns to the first stage from
// anywhere, including after submission.
func (s *IntakeService) Reset(ctx context.Context, id string) (domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	session.Stage = domain.StageBasicInfo
	session.Draft = domain.NewDraft()
	session.Outcome = nil
	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Update(ctx, session); err != nil {
		return domain.Session{}, err
	}
	s.logger.Info("session reset", zap.String("session_id", session.ID))
	return session, nil
}

// Submit finalizes the session: it fixes the score and tier, fires the
// webhook once, and moves to submitted regardless of the dispatch outcome.
// A transport failure is recorded on the outcome and logged, never returned
// as an error: the report is computed locally and stays available.
func (s *IntakeService) Submit(ctx context.Context, id string) (domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if session.Stage == domain.StageSubmitted {
		return domain.Session{}, ErrAlreadySubmitted
	}
	if session.Stage != domain.StageConfirmation {
		return domain.Session{}, ErrNotConfirmable
	}
	if invalid := session.Draft.InvalidAnswers(); len(invalid) > 0 {
		fields := make([]string, len(invalid))
		for i, qid := range invalid {
			fields[i] = string(qid)
		}
		return domain.Session{}, &ValidationError{MessageKey: "msg.completeAll", Fields: fields}
	}

	total := session.Draft.TotalScore()
	outcome := domain.Outcome{
		TotalScore:  total,
		RiskLevel:   domain.ClassifyScore(total),
		SubmittedAt: time.Now().UTC(),
	}

	locale := i18n.Locale(session.Locale)
	label := s.translator.T(locale, outcome.RiskLevel.LabelKey())
	payload := webhook.BuildPayload(session.Draft, outcome, locale, label)

	if err := s.dispatcher.Dispatch(ctx, payload); err != nil {
		outcome.DispatchFailed = true
		s.logger.Warn("submission dispatch failed",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
	}

	session.Stage = domain.StageSubmitted
	session.Outcome = &outcome
	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Update(ctx, session); err != nil {
		return domain.Session{}, err
	}

	s.logger.Info("session submitted",
		zap.String("session_id", session.ID),
		zap.Int("total_score", outcome.TotalScore),
		zap.String("risk_level", string(outcome.RiskLevel)),
		zap.Bool("dispatch_failed", outcome.DispatchFailed),
	)
	return session, nil
}

// Report composes the report pages for a submitted session.
func (s *IntakeService) Report(ctx context.Context, id string) (domain.Session, []domain.Page, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return domain.Session{}, nil, err
	}
	if session.Stage != domain.StageSubmitted || session.Outcome == nil {
		return domain.Session{}, nil, ErrNotSubmitted
	}
	pages := s.composer.Compose(session.Draft, *session.Outcome, i18n.Locale(session.Locale))
	return session, pages, nil
}
