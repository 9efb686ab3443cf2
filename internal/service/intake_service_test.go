package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"catsafe/internal/domain"
	"catsafe/internal/i18n"
	"catsafe/internal/repository"
	"catsafe/internal/webhook"
)

type mockDispatcher struct {
	err      error
	calls    int
	lastBody webhook.Payload
}

func (m *mockDispatcher) Dispatch(_ context.Context, payload webhook.Payload) error {
	m.calls++
	m.lastBody = payload
	return m.err
}

func newTestService(t *testing.T, dispatcher webhook.Dispatcher) *IntakeService {
	t.Helper()
	translator, err := i18n.NewTranslator()
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	if dispatcher == nil {
		dispatcher = &mockDispatcher{}
	}
	repo := repository.NewMemorySessionRepository()
	composer := NewReportComposer(translator)
	return NewIntakeService(zap.NewNop(), repo, dispatcher, translator, composer)
}

func fillBasic(t *testing.T, svc *IntakeService, id string) {
	t.Helper()
	str := func(s string) *string { return &s }
	_, err := svc.UpdateBasic(context.Background(), id, BasicInput{
		Address:           str("Flat 8, 12/F, Harbour View"),
		BuildingType:      str("Apartment"),
		FloorLevel:        str("15"),
		WindowCount:       str("6"),
		HeaviestCatWeight: str("5.5"),
	})
	if err != nil {
		t.Fatalf("update basic: %v", err)
	}
}

func fillAnswers(t *testing.T, svc *IntakeService, id string, answers AnswersInput) {
	t.Helper()
	if _, err := svc.UpdateAnswers(context.Background(), id, answers); err != nil {
		t.Fatalf("update answers: %v", err)
	}
}

var lowBoundaryAnswers = AnswersInput{
	domain.QuestionCatCount:           2,
	domain.QuestionWindowBehavior:     1,
	domain.QuestionWindowStructure:    0,
	domain.QuestionCatPersonality:     2,
	domain.QuestionHighRiskEnv:        0,
	domain.QuestionInstallExpectation: 1,
}

func advanceToConfirmation(t *testing.T, svc *IntakeService, answers AnswersInput) domain.Session {
	t.Helper()
	ctx := context.Background()
	session, err := svc.CreateSession(ctx, i18n.LocaleZH)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	fillBasic(t, svc, session.ID)
	if _, err := svc.Advance(ctx, session.ID); err != nil {
		t.Fatalf("advance to questions: %v", err)
	}
	fillAnswers(t, svc, session.ID, answers)
	session, err = svc.Advance(ctx, session.ID)
	if err != nil {
		t.Fatalf("advance to confirmation: %v", err)
	}
	return session
}

func TestAdvanceBlockedOnMissingBasicField(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, i18n.LocaleZH)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	fillBasic(t, svc, session.ID)
	empty := ""
	if _, err := svc.UpdateBasic(ctx, session.ID, BasicInput{WindowCount: &empty}); err != nil {
		t.Fatalf("clear windowCount: %v", err)
	}

	_, err = svc.Advance(ctx, session.ID)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validation.MessageKey != "msg.fillAll" {
		t.Fatalf("unexpected message key %q", validation.MessageKey)
	}
	if len(validation.Fields) != 1 || validation.Fields[0] != "windowCount" {
		t.Fatalf("expected [windowCount], got %v", validation.Fields)
	}

	got, _ := svc.Get(ctx, session.ID)
	if got.Stage != domain.StageBasicInfo {
		t.Fatalf("stage advanced despite failed guard: %s", got.Stage)
	}
}

func TestAdvanceBlockedOnUnansweredQuestion(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, i18n.LocaleZH)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	fillBasic(t, svc, session.ID)
	if _, err := svc.Advance(ctx, session.ID); err != nil {
		t.Fatalf("advance to questions: %v", err)
	}

	partial := AnswersInput{}
	for id, v := range lowBoundaryAnswers {
		partial[id] = v
	}
	partial[domain.QuestionHighRiskEnv] = domain.Unanswered
	fillAnswers(t, svc, session.ID, partial)

	_, err = svc.Advance(ctx, session.ID)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validation.MessageKey != "msg.completeAll" {
		t.Fatalf("unexpected message key %q", validation.MessageKey)
	}
}

func TestUpdateAnswersRejectsOutOfDomain(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, i18n.LocaleZH)

	// Zero cats is below the cat-count minimum.
	_, err := svc.UpdateAnswers(ctx, session.ID, AnswersInput{domain.QuestionCatCount: 0})
	if !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer for catCount=0, got %v", err)
	}

	_, err = svc.UpdateAnswers(ctx, session.ID, AnswersInput{domain.QuestionWindowBehavior: 9})
	if !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer for windowBehavior=9, got %v", err)
	}

	_, err = svc.UpdateAnswers(ctx, session.ID, AnswersInput{"mysteryQuestion": 1})
	if !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer for unknown question, got %v", err)
	}
}

func TestBackKeepsDataAndResetClears(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	session := advanceToConfirmation(t, svc, lowBoundaryAnswers)

	session, err := svc.Back(ctx, session.ID)
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if session.Stage != domain.StageScoredQuestions {
		t.Fatalf("stage after back = %s", session.Stage)
	}
	if session.Draft.CatCount != 2 {
		t.Fatalf("back cleared catCount: %d", session.Draft.CatCount)
	}

	session, err = svc.Back(ctx, session.ID)
	if err != nil {
		t.Fatalf("back: %v", err)
	}
	if session.Draft.Address == "" {
		t.Fatalf("back cleared address")
	}
	if _, err := svc.Back(ctx, session.ID); !errors.Is(err, ErrAtFirstStage) {
		t.Fatalf("expected ErrAtFirstStage, got %v", err)
	}

	session, err = svc.Reset(ctx, session.ID)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if session.Draft.Address != "" || session.Draft.CatCount != domain.Unanswered {
		t.Fatalf("reset did not restore the initial draft")
	}
	if session.Stage != domain.StageBasicInfo {
		t.Fatalf("reset stage = %s", session.Stage)
	}
}

func TestSubmitComputesOutcomeAndPayload(t *testing.T) {
	dispatcher := &mockDispatcher{}
	svc := newTestService(t, dispatcher)
	ctx := context.Background()

	session := advanceToConfirmation(t, svc, lowBoundaryAnswers)
	session, err := svc.Submit(ctx, session.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if session.Stage != domain.StageSubmitted {
		t.Fatalf("stage = %s, want submitted", session.Stage)
	}
	if session.Outcome == nil {
		t.Fatalf("outcome not set")
	}
	if session.Outcome.TotalScore != 6 {
		t.Fatalf("total score = %d, want 6", session.Outcome.TotalScore)
	}
	if session.Outcome.RiskLevel != domain.RiskLow {
		t.Fatalf("risk level = %s, want low at the boundary", session.Outcome.RiskLevel)
	}
	if session.Outcome.DispatchFailed {
		t.Fatalf("dispatch marked failed")
	}

	if dispatcher.calls != 1 {
		t.Fatalf("dispatcher called %d times, want 1", dispatcher.calls)
	}
	payload := dispatcher.lastBody
	if payload.TotalScore != 6 {
		t.Fatalf("payload total = %d", payload.TotalScore)
	}
	if payload.DoorCount != "0" {
		t.Fatalf("payload doorCount = %q, want default \"0\"", payload.DoorCount)
	}
	if payload.RiskLevel == "" || payload.Timestamp == "" {
		t.Fatalf("payload missing riskLevel or timestamp: %+v", payload)
	}
}

func TestSubmitCrossesTierBoundary(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	answers := AnswersInput{}
	for id, v := range lowBoundaryAnswers {
		answers[id] = v
	}
	answers[domain.QuestionCatCount] = 4

	session := advanceToConfirmation(t, svc, answers)
	session, err := svc.Submit(ctx, session.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if session.Outcome.TotalScore != 8 {
		t.Fatalf("total score = %d, want 8", session.Outcome.TotalScore)
	}
	if session.Outcome.RiskLevel != domain.RiskMedium {
		t.Fatalf("risk level = %s, want medium", session.Outcome.RiskLevel)
	}
}

// A transport failure is non-fatal: the session still reaches submitted and
// the locally computed outcome is unchanged.
func TestSubmitSurvivesDispatchFailure(t *testing.T) {
	dispatcher := &mockDispatcher{err: errors.New("connection refused")}
	svc := newTestService(t, dispatcher)
	ctx := context.Background()

	session := advanceToConfirmation(t, svc, lowBoundaryAnswers)
	session, err := svc.Submit(ctx, session.ID)
	if err != nil {
		t.Fatalf("submit returned error on dispatch failure: %v", err)
	}
	if session.Stage != domain.StageSubmitted {
		t.Fatalf("stage = %s, want submitted", session.Stage)
	}
	if !session.Outcome.DispatchFailed {
		t.Fatalf("dispatch failure not recorded")
	}
	if session.Outcome.TotalScore != 6 || session.Outcome.RiskLevel != domain.RiskLow {
		t.Fatalf("outcome altered by dispatch failure: %+v", session.Outcome)
	}

	if _, err := svc.Submit(ctx, session.ID); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
}

func TestSubmitRequiresConfirmationStage(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, i18n.LocaleZH)
	if _, err := svc.Submit(ctx, session.ID); !errors.Is(err, ErrNotConfirmable) {
		t.Fatalf("expected ErrNotConfirmable, got %v", err)
	}
}

func TestSetLocaleDoesNotTouchDraft(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	session := advanceToConfirmation(t, svc, lowBoundaryAnswers)
	before := session.Draft

	session, err := svc.SetLocale(ctx, session.ID, i18n.LocaleEN)
	if err != nil {
		t.Fatalf("set locale: %v", err)
	}
	if session.Locale != "en" {
		t.Fatalf("locale = %s", session.Locale)
	}
	if session.Draft != before {
		t.Fatalf("locale switch mutated the draft")
	}
}

func TestReportRequiresSubmission(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	session := advanceToConfirmation(t, svc, lowBoundaryAnswers)
	if _, _, err := svc.Report(ctx, session.ID); !errors.Is(err, ErrNotSubmitted) {
		t.Fatalf("expected ErrNotSubmitted, got %v", err)
	}

	if _, err := svc.Submit(ctx, session.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	_, pages, err := svc.Report(ctx, session.ID)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(pages) != 4 {
		t.Fatalf("report has %d pages, want 4", len(pages))
	}
}
