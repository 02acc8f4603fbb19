// Package form holds the state of a multi-step wedding questionnaire: the
// answers per step, validation results, the active step and its persisted
// progress.
package form

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wedding-planner/internal/analytics"
	"wedding-planner/internal/leadscore"
	"wedding-planner/internal/models"
)

// DefaultStorageKey is where progress is persisted when no key is configured.
const DefaultStorageKey = "wedding_form_progress"

var (
	ErrUnknownStep  = errors.New("unknown step")
	ErrInvalidPatch = errors.New("invalid step data")
	ErrNotLastStep  = errors.New("form can only be submitted from the last step")
)

// ValidationError is returned by SubmitForm when the last step is incomplete.
type ValidationError struct {
	Step   models.StepKey
	Errors FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %s has %d invalid fields", e.Step, len(e.Errors))
}

// Persister stores progress snapshots by key. Get returns nil, nil for a
// missing key.
type Persister interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}

// Submitter hands a completed questionnaire to the backend.
type Submitter interface {
	Submit(ctx context.Context, sub *models.Submission) error
}

// Tracker records analytics events.
type Tracker interface {
	Track(name, sessionID string, payload map[string]any)
}

// Options configure a Session. Everything except Steps may be left empty.
type Options struct {
	ID         string
	StorageKey string
	Steps      []StepDefinition
	Persister  Persister
	Submitter  Submitter
	Tracker    Tracker
	Scorer     *leadscore.Scorer
	Logger     zerolog.Logger
	Now        func() time.Time
}

// Session is one in-progress questionnaire
type Session struct {
	mu sync.Mutex

	id         string
	storageKey string
	steps      []StepDefinition
	persister  Persister
	submitter  Submitter
	tracker    Tracker
	scorer     *leadscore.Scorer
	log        zerolog.Logger
	now        func() time.Time

	current       int
	data          models.FormData
	errors        map[models.StepKey]FieldErrors
	startedAt     time.Time
	stepEnteredAt time.Time
}

// StepResult reports the outcome of NextStep.
type StepResult struct {
	Valid       bool           `json:"valid"`
	Advanced    bool           `json:"advanced"`
	CurrentStep int            `json:"currentStep"`
	Errors      FieldErrors    `json:"errors,omitempty"`
	FirstError  models.StepKey `json:"firstErrorStep,omitempty"`
}

// State is a read-only view of a session
type State struct {
	ID               string                         `json:"id"`
	CurrentStep      int                            `json:"currentStep"`
	TotalSteps       int                            `json:"totalSteps"`
	FormData         models.FormData                `json:"formData"`
	ValidationErrors map[models.StepKey]FieldErrors `json:"validationErrors"`
	StartedAt        time.Time                      `json:"startedAt"`
	StepEnteredAt    time.Time                      `json:"stepEnteredAt"`
	LeadScore        models.LeadScore               `json:"leadScore"`
}

// NewSession creates a session positioned on the first step.
func NewSession(opts Options) *Session {
	steps := opts.Steps
	if len(steps) == 0 {
		steps = DefaultSteps()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	key := opts.StorageKey
	if key == "" {
		key = DefaultStorageKey
	}
	if opts.ID != "" {
		key = key + ":" + opts.ID
	}
	scorer := opts.Scorer
	if scorer == nil {
		scorer = leadscore.New(leadscore.DefaultWeights(), ScoringSteps(steps))
	}

	started := now()
	return &Session{
		id:            opts.ID,
		storageKey:    key,
		steps:         steps,
		persister:     opts.Persister,
		submitter:     opts.Submitter,
		tracker:       opts.Tracker,
		scorer:        scorer,
		log:           opts.Logger.With().Str("component", "Form").Str("session", opts.ID).Logger(),
		now:           now,
		current:       1,
		errors:        make(map[models.StepKey]FieldErrors),
		startedAt:     started,
		stepEnteredAt: started,
	}
}

func (s *Session) ID() string { return s.id }

// StorageKey is the key the progress snapshot is stored under.
func (s *Session) StorageKey() string { return s.storageKey }

func (s *Session) TotalSteps() int { return len(s.steps) }

func (s *Session) Steps() []StepDefinition { return s.steps }

// CurrentStep returns the 1-based index of the active step.
func (s *Session) CurrentStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentDefinition returns the definition of the active step.
func (s *Session) CurrentDefinition() StepDefinition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steps[s.current-1]
}

// Data returns a copy of all answers.
func (s *Session) Data() models.FormData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Errors returns the last validation result for a step.
func (s *Session) Errors(step models.StepKey) FieldErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors[step]
}

// State returns a snapshot including the current lead score.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	errs := make(map[models.StepKey]FieldErrors, len(s.errors))
	for k, v := range s.errors {
		errs[k] = v
	}
	return State{
		ID:               s.id,
		CurrentStep:      s.current,
		TotalSteps:       len(s.steps),
		FormData:         s.data.Clone(),
		ValidationErrors: errs,
		StartedAt:        s.startedAt,
		StepEnteredAt:    s.stepEnteredAt,
		LeadScore:        s.scorer.Score(s.data),
	}
}

// UpdateStepData merges a partial record into a step's answers. Keys are the
// JSON field names of the step. Existing errors for the step are dropped
// without revalidating.
func (s *Session) UpdateStepData(step models.StepKey, partial map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.data.Get(step)
	if current == nil {
		return fmt.Errorf("%w: %s", ErrUnknownStep, step)
	}

	merged, err := mergeStepData(current, partial)
	if err != nil {
		return err
	}

	s.data.Set(merged)
	delete(s.errors, step)
	s.persist()
	return nil
}

// SetStepData replaces a step's answers wholesale.
func (s *Session) SetStepData(data models.StepData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data == nil || s.data.Get(data.Step()) == nil {
		return ErrUnknownStep
	}
	s.data.Set(data)
	delete(s.errors, data.Step())
	s.persist()
	return nil
}

// mergeStepData decodes the patch over a copy of current, so a failed patch
// leaves the session untouched.
func mergeStepData(current models.StepData, partial map[string]any) (models.StepData, error) {
	raw, err := json.Marshal(partial)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	decode := func(target any) error {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(target); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
		}
		return nil
	}

	var merged models.StepData
	switch d := current.(type) {
	case models.BasicsData:
		err = decode(&d)
		merged = d
	case models.DetailsData:
		err = decode(&d)
		merged = d
	case models.StyleData:
		d = d.Clone()
		err = decode(&d)
		merged = d
	case models.PrioritiesData:
		d = d.Clone()
		err = decode(&d)
		merged = d
	default:
		return nil, ErrUnknownStep
	}
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// ValidateCurrentStep validates only the active step and records its errors.
func (s *Session) ValidateCurrentStep() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.validateCurrentLocked()) == 0
}

func (s *Session) validateCurrentLocked() FieldErrors {
	def := s.steps[s.current-1]
	errs := FieldErrors{}
	data := s.data.Get(def.Key)
	switch {
	case data == nil:
		errs = append(errs, unknownStepError)
	case def.Validate != nil:
		errs = def.Validate(data)
	}
	s.errors[def.Key] = errs
	return errs
}

// NextStep validates the active step and moves on when it is valid.
func (s *Session) NextStep() StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	def := s.steps[s.current-1]
	errs := s.validateCurrentLocked()
	if len(errs) > 0 {
		res := StepResult{Valid: false, CurrentStep: s.current, Errors: errs}
		if first, ok := s.firstStepWithErrorsLocked(); ok {
			res.FirstError = first.Key
		}
		return res
	}

	if s.current >= len(s.steps) {
		return StepResult{Valid: true, CurrentStep: s.current}
	}

	now := s.now()
	s.track(analytics.EventStepCompleted, map[string]any{
		"step":         def.ID,
		"stepKey":      string(def.Key),
		"stepTitle":    def.Title,
		"timeOnStepMs": now.Sub(s.stepEnteredAt).Milliseconds(),
	})
	s.current++
	s.stepEnteredAt = now
	s.persist()
	return StepResult{Valid: true, Advanced: true, CurrentStep: s.current}
}

// PrevStep goes back one step without validating.
func (s *Session) PrevStep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current > 1 {
		s.current--
		s.stepEnteredAt = s.now()
		s.persist()
	}
}

// GoToStep jumps to step n. Out of range indices are ignored.
func (s *Session) GoToStep(n int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 1 || n > len(s.steps) {
		return false
	}
	s.current = n
	s.stepEnteredAt = s.now()
	s.persist()
	return true
}

// FirstStepWithErrors returns the earliest step whose last validation failed.
func (s *Session) FirstStepWithErrors() (StepDefinition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstStepWithErrorsLocked()
}

func (s *Session) firstStepWithErrorsLocked() (StepDefinition, bool) {
	for _, def := range s.steps {
		if len(s.errors[def.Key]) > 0 {
			return def, true
		}
	}
	return StepDefinition{}, false
}

// LeadScore rates the current answers.
func (s *Session) LeadScore() models.LeadScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scorer.Score(s.data)
}

// SubmitForm completes the questionnaire from the last step. On success the
// submission is handed to the backend and the progress is cleared; on any
// failure the progress is kept so the user can retry.
func (s *Session) SubmitForm(ctx context.Context) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != len(s.steps) {
		return nil, ErrNotLastStep
	}
	if errs := s.validateCurrentLocked(); len(errs) > 0 {
		return nil, &ValidationError{Step: s.steps[s.current-1].Key, Errors: errs}
	}

	now := s.now()
	sub := &models.Submission{
		ID:          uuid.NewString(),
		SessionID:   s.id,
		FormData:    s.data.Clone(),
		LeadScore:   s.scorer.Score(s.data),
		SubmittedAt: now,
		Duration:    now.Sub(s.startedAt),
	}

	if s.submitter != nil {
		if err := s.submitter.Submit(ctx, sub); err != nil {
			return nil, fmt.Errorf("failed to submit form: %w", err)
		}
	}

	s.track(analytics.EventFormSubmitted, map[string]any{
		"submissionId": sub.ID,
		"leadScore":    sub.LeadScore.TotalScore,
		"durationMs":   sub.Duration.Milliseconds(),
	})
	s.log.Info().Str("submission", sub.ID).Int("lead_score", sub.LeadScore.TotalScore).Msg("Form submitted")

	s.clearLocked()
	return sub, nil
}

// LoadProgress restores the persisted snapshot. It reports whether one was
// found; unreadable snapshots are logged and ignored.
func (s *Session) LoadProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persister == nil {
		return false
	}
	raw, err := s.persister.Get(s.storageKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read saved progress")
		return false
	}
	if len(raw) == 0 {
		return false
	}

	var snap models.ProgressSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.log.Warn().Err(err).Msg("Ignoring corrupted saved progress")
		return false
	}

	s.data = snap.FormData
	s.current = snap.CurrentStep
	if s.current < 1 {
		s.current = 1
	}
	if s.current > len(s.steps) {
		s.current = len(s.steps)
	}
	s.stepEnteredAt = s.now()
	return true
}

// ClearProgress drops the persisted snapshot and starts over on step 1.
func (s *Session) ClearProgress() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()
	s.track(analytics.EventFormReset, nil)
}

func (s *Session) clearLocked() {
	if s.persister != nil {
		if err := s.persister.Delete(s.storageKey); err != nil {
			s.log.Warn().Err(err).Msg("Failed to delete saved progress")
		}
	}
	now := s.now()
	s.data = models.FormData{}
	s.errors = make(map[models.StepKey]FieldErrors)
	s.current = 1
	s.startedAt = now
	s.stepEnteredAt = now
}

func (s *Session) persist() {
	if s.persister == nil {
		return
	}
	raw, err := json.Marshal(models.ProgressSnapshot{
		FormData:    s.data,
		CurrentStep: s.current,
		Timestamp:   s.now(),
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to encode progress")
		return
	}
	if err := s.persister.Set(s.storageKey, raw, 0); err != nil {
		s.log.Warn().Err(err).Msg("Failed to save progress")
	}
}

func (s *Session) track(name string, payload map[string]any) {
	if s.tracker != nil {
		s.tracker.Track(name, s.id, payload)
	}
}
