package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"pulse-survey/internal/cache"
	"pulse-survey/internal/domain"
	"pulse-survey/internal/dto"
	"pulse-survey/internal/logger"
	"pulse-survey/internal/survey"
	"pulse-survey/internal/util"
	"pulse-survey/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// SurveyService drives respondent sessions: answer edits, derived views and
// the submit flow.
type SurveyService interface {
	Schema() *domain.Schema
	CreateSession(ctx context.Context) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	SetField(ctx context.Context, sessionID string, req *dto.SetFieldRequest) (*dto.SessionResponse, error)
	ToggleOption(ctx context.Context, sessionID string, req *dto.ToggleOptionRequest) (*dto.SessionResponse, error)
	SetMatrixRow(ctx context.Context, sessionID string, req *dto.SetMatrixRowRequest) (*dto.SessionResponse, error)
	Progress(ctx context.Context, sessionID string) (*dto.ProgressResponse, error)
	Validate(ctx context.Context, sessionID string) (*dto.ValidationResponse, error)
	PayloadPreview(ctx context.Context, sessionID string) (*dto.PayloadResponse, error)
	Submit(ctx context.Context, sessionID string) (*dto.SubmitResponse, error)
	Reset(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
}

// SurveyOptions carries the collaborators of the survey service.
type SurveyOptions struct {
	Schema     *domain.Schema
	Storage    *SafeStorage
	Persister  *Persister
	Transport  domain.Transport
	Archive    domain.SubmissionArchive // optional
	StorageKey string
	Location   *time.Location
	Now        func() time.Time
	// SessionTTL is how long an untouched session stays in memory. It should
	// match the snapshot TTL; 0 uses DefaultSessionTTL.
	SessionTTL time.Duration
}

// DefaultSessionTTL applies when snapshots never expire.
const DefaultSessionTTL = 30 * time.Minute

type session struct {
	mu       sync.Mutex
	id       string
	store    *survey.Store
	state    domain.SubmissionState
	lastSeen atomic.Int64 // unix nanos
}

func (sess *session) touch(now time.Time) { sess.lastSeen.Store(now.UnixNano()) }

func (sess *session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, sess.lastSeen.Load()))
}

type surveyService struct {
	schema     *domain.Schema
	questions  []*domain.Question
	storage    *SafeStorage
	persister  *Persister
	transport  domain.Transport
	archive    domain.SubmissionArchive
	storageKey string
	location   *time.Location
	now        func() time.Time

	sessionTTL time.Duration
	validator  *validation.Validator

	mu        sync.RWMutex
	sessions  map[string]*session
	completed map[string]time.Time // submitted ids, kept until sessionTTL passes
	loads     singleflight.Group

	lastSweep atomic.Int64
	sweeping  atomic.Bool
}

// NewSurveyService wires a survey service. Missing optional collaborators
// fall back to no-op versions.
func NewSurveyService(opts SurveyOptions) SurveyService {
	if opts.Archive == nil {
		opts.Archive = noopSubmissionArchive{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Storage == nil {
		opts.Storage = NewSafeStorage(nil, 0, 0)
	}
	if opts.Persister == nil {
		opts.Persister = NewPersister(opts.Storage, 64)
	}
	if opts.StorageKey == "" {
		opts.StorageKey = "surveyFormData"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	svc := &surveyService{
		schema:     opts.Schema,
		questions:  opts.Schema.Questions(),
		storage:    opts.Storage,
		persister:  opts.Persister,
		transport:  opts.Transport,
		archive:    opts.Archive,
		storageKey: opts.StorageKey,
		location:   opts.Location,
		now:        opts.Now,
		sessionTTL: opts.SessionTTL,
		validator:  validation.NewValidator(),
		sessions:   make(map[string]*session),
		completed:  make(map[string]time.Time),
	}
	svc.lastSweep.Store(opts.Now().UnixNano())
	return svc
}

func (s *surveyService) Schema() *domain.Schema {
	return s.schema
}

func (s *surveyService) snapshotKey(sessionID string) string {
	return cache.SessionAnswersKey(sessionID, s.storageKey)
}

func (s *surveyService) CreateSession(ctx context.Context) (*dto.SessionResponse, error) {
	sess := &session{
		id:    util.NewULID(),
		store: survey.NewStore(survey.DefaultAnswers(s.questions)),
		state: domain.StateIdle,
	}
	sess.touch(s.now())

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.maybeSweep()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.persist(sess)

	logger.Get().Info("Survey session created", zap.String("sessionID", sess.id))
	return s.view(sess), nil
}

// lookup returns a live session, restoring it from storage on first access.
// Submitted sessions are no longer held; their ids report SURVEY_COMPLETED.
func (s *surveyService) lookup(ctx context.Context, sessionID string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	_, done := s.completed[sessionID]
	s.mu.RUnlock()
	if ok {
		sess.touch(s.now())
		return sess, nil
	}
	if done {
		return nil, domain.NewSurveyCompletedError(sessionID)
	}
	s.maybeSweep()

	v, err, _ := s.loads.Do(sessionID, func() (any, error) {
		s.mu.RLock()
		existing, ok := s.sessions[sessionID]
		s.mu.RUnlock()
		if ok {
			return existing, nil
		}

		raw, found := s.storage.Get(ctx, s.snapshotKey(sessionID))
		if !found {
			return nil, domain.NewSessionNotFoundError(sessionID)
		}

		restored := &session{
			id:    sessionID,
			store: survey.NewStore(s.restoreAnswers(sessionID, raw)),
			state: domain.StateIdle,
		}
		restored.touch(s.now())
		s.mu.Lock()
		s.sessions[sessionID] = restored
		s.mu.Unlock()
		logger.Get().Info("Survey session restored from storage", zap.String("sessionID", sessionID))
		return restored, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*session), nil
}

// release drops a submitted session from memory and remembers its id.
func (s *surveyService) release(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.completed[sessionID] = s.now()
	s.mu.Unlock()
}

// maybeSweep starts a background sweep at most once per half TTL.
func (s *surveyService) maybeSweep() {
	now := s.now()
	if now.Sub(time.Unix(0, s.lastSweep.Load())) < s.sessionTTL/2 {
		return
	}
	if !s.sweeping.CompareAndSwap(false, true) {
		return
	}
	s.lastSweep.Store(now.UnixNano())
	go func() {
		defer s.sweeping.Store(false)
		s.sweep()
	}()
}

// sweep evicts sessions idle for longer than the TTL, and expired completion
// markers. Evicted sessions are rebuilt from storage on their next access, so
// queued snapshot writes are flushed first.
func (s *surveyService) sweep() int {
	s.persister.Flush()

	now := s.now()
	evicted := 0
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.idleSince(now) < s.sessionTTL || !sess.mu.TryLock() {
			continue
		}
		if sess.state != domain.StateSubmitting {
			delete(s.sessions, id)
			evicted++
		}
		sess.mu.Unlock()
	}
	for id, at := range s.completed {
		if now.Sub(at) >= s.sessionTTL {
			delete(s.completed, id)
		}
	}
	s.mu.Unlock()

	if evicted > 0 {
		logger.Get().Info("Idle survey sessions evicted", zap.Int("count", evicted))
	}
	return evicted
}

// restoreAnswers overlays a stored snapshot on the defaults. Anything that is
// not a JSON object yields the defaults alone.
func (s *surveyService) restoreAnswers(sessionID, raw string) domain.Answers {
	answers := survey.DefaultAnswers(s.questions)

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		logger.Get().Warn("Stored answers are not valid JSON, starting fresh",
			zap.String("sessionID", sessionID), zap.Error(err))
		return answers
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		logger.Get().Warn("Stored answers are not a JSON object, starting fresh",
			zap.String("sessionID", sessionID))
		return answers
	}

	for k, v := range domain.NormalizeAnswers(domain.Answers(obj)) {
		answers[k] = v
	}
	return answers
}

// persist queues the current snapshot. Callers hold sess.mu.
func (s *surveyService) persist(sess *session) {
	data, err := json.Marshal(sess.store.Answers())
	if err != nil {
		logger.Get().Error("Failed to encode answers snapshot", zap.String("sessionID", sess.id), zap.Error(err))
		return
	}
	s.persister.Save(s.snapshotKey(sess.id), string(data))
}

// view renders a session. Callers hold sess.mu.
func (s *surveyService) view(sess *session) *dto.SessionResponse {
	answers := sess.store.Answers()
	return &dto.SessionResponse{
		SessionID:     sess.id,
		State:         string(sess.state),
		Answers:       answers,
		InvalidFields: sess.store.Invalid().IDs(),
		Progress:      survey.Progress(s.questions, answers),
	}
}

// edit runs fn under the session lock unless the session is already complete.
func (s *surveyService) edit(ctx context.Context, sessionID string, fn func(sess *session) error) (*dto.SessionResponse, error) {
	sess, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state == domain.StateComplete {
		return nil, domain.NewSurveyCompletedError(sessionID)
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	s.persist(sess)
	return s.view(sess), nil
}

func (s *surveyService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	sess, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.view(sess), nil
}

// ownerOf resolves the question an answer key belongs to: the question id
// itself, a sub-question id, or either followed by a suffix such as "_before",
// "_other" or "_{option}_text".
func (s *surveyService) ownerOf(key string) (*domain.Question, bool) {
	var best *domain.Question
	bestLen := 0
	match := func(q *domain.Question, id string) {
		if (key == id || strings.HasPrefix(key, id+"_")) && len(id) > bestLen {
			best, bestLen = q, len(id)
		}
	}
	for _, q := range s.questions {
		match(q, q.ID)
		if q.SubQuestion != nil {
			match(q, q.SubQuestion.ID)
		}
	}
	return best, best != nil
}

func (s *surveyService) SetField(ctx context.Context, sessionID string, req *dto.SetFieldRequest) (*dto.SessionResponse, error) {
	q, ok := s.ownerOf(req.Key)
	if !ok {
		return nil, domain.NewQuestionNotFoundError(req.Key)
	}
	value := domain.NormalizeValue(req.Value)
	if q.Type == domain.TypeSliderPair && (req.Key == domain.BeforeKey(q.ID) || req.Key == domain.NowKey(q.ID)) {
		if errs := s.validator.ValidateSliderValue(value); len(errs) > 0 {
			return nil, errs
		}
	}
	return s.edit(ctx, sessionID, func(sess *session) error {
		sess.store.SetField(req.Key, value)
		return nil
	})
}

func (s *surveyService) ToggleOption(ctx context.Context, sessionID string, req *dto.ToggleOptionRequest) (*dto.SessionResponse, error) {
	q, ok := s.schema.Question(req.QuestionID)
	if !ok {
		return nil, domain.NewQuestionNotFoundError(req.QuestionID)
	}
	if !q.Type.IsCheckboxFamily() {
		return nil, domain.NewInvalidInputError("question " + q.ID + " does not accept option toggles")
	}
	if _, ok := q.FindOption(req.Value); !ok {
		return nil, domain.NewInvalidInputError("unknown option " + req.Value + " for question " + q.ID)
	}
	return s.edit(ctx, sessionID, func(sess *session) error {
		sess.store.ToggleOption(q, req.Value)
		return nil
	})
}

func (s *surveyService) SetMatrixRow(ctx context.Context, sessionID string, req *dto.SetMatrixRowRequest) (*dto.SessionResponse, error) {
	q, ok := s.schema.Question(req.QuestionID)
	if !ok {
		return nil, domain.NewQuestionNotFoundError(req.QuestionID)
	}
	if q.Type != domain.TypeLikertMatrix {
		return nil, domain.NewInvalidInputError("question " + q.ID + " is not a matrix")
	}
	rowFound := false
	for _, row := range q.Rows {
		if row.ID == req.RowID {
			rowFound = true
			break
		}
	}
	if !rowFound {
		return nil, domain.NewInvalidInputError("unknown row " + req.RowID + " for question " + q.ID)
	}
	if _, ok := q.FindOption(req.Value); !ok {
		return nil, domain.NewInvalidInputError("unknown option " + req.Value + " for question " + q.ID)
	}
	return s.edit(ctx, sessionID, func(sess *session) error {
		sess.store.SetMatrixRow(q, req.RowID, req.Value)
		return nil
	})
}

func (s *surveyService) Progress(ctx context.Context, sessionID string) (*dto.ProgressResponse, error) {
	sess, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	answers := sess.store.Answers()
	sess.mu.Unlock()

	return &dto.ProgressResponse{
		SessionID: sessionID,
		Progress:  survey.Progress(s.questions, answers),
	}, nil
}

// Validate runs a full pass and replaces the session's error markers.
func (s *surveyService) Validate(ctx context.Context, sessionID string) (*dto.ValidationResponse, error) {
	sess, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	invalid := sess.store.RevalidateAll(s.questions)
	resp := &dto.ValidationResponse{
		Valid:         len(invalid) == 0,
		InvalidFields: invalid.IDs(),
	}
	if first, ok := survey.FirstInvalid(s.questions, invalid); ok {
		resp.FirstInvalid = first
	}
	return resp, nil
}

func (s *surveyService) PayloadPreview(ctx context.Context, sessionID string) (*dto.PayloadResponse, error) {
	sess, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	answers := sess.store.Answers()
	sess.mu.Unlock()

	payload := survey.Flatten(s.schema.Sections, answers, s.now().In(s.location))
	return &dto.PayloadResponse{SessionID: sessionID, Columns: payloadColumns(payload)}, nil
}

func payloadColumns(p *survey.Payload) []dto.PayloadColumn {
	headers := p.Headers()
	cols := make([]dto.PayloadColumn, 0, len(headers))
	for _, h := range headers {
		v, _ := p.Get(h)
		cols = append(cols, dto.PayloadColumn{Header: h, Value: v})
	}
	return cols
}

// Submit validates, flattens and dispatches the session's answers. The
// session lock is released while the transport runs, so edits stay possible;
// a second submit in the meantime is ignored.
func (s *surveyService) Submit(ctx context.Context, sessionID string) (*dto.SubmitResponse, error) {
	sess, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	switch sess.state {
	case domain.StateSubmitting:
		sess.mu.Unlock()
		logger.Get().Debug("Submit ignored, dispatch already in flight", zap.String("sessionID", sessionID))
		return &dto.SubmitResponse{Status: string(domain.SubmitIgnored), State: string(domain.StateSubmitting)}, nil
	case domain.StateComplete:
		sess.mu.Unlock()
		return nil, domain.NewSurveyCompletedError(sessionID)
	}

	sess.state = domain.StateValidating
	invalid := sess.store.RevalidateAll(s.questions)
	if len(invalid) > 0 {
		sess.state = domain.StateIdle
		sess.mu.Unlock()
		first, _ := survey.FirstInvalid(s.questions, invalid)
		return &dto.SubmitResponse{
			Status:        string(domain.SubmitInvalid),
			State:         string(domain.StateIdle),
			InvalidFields: invalid.IDs(),
			FirstInvalid:  first,
		}, nil
	}

	sess.state = domain.StateSubmitting
	submittedAt := s.now().In(s.location)
	payload := survey.Flatten(s.schema.Sections, sess.store.Answers(), submittedAt)
	sess.mu.Unlock()

	sendErr := s.transport.Send(ctx, payload)

	sess.mu.Lock()
	if sendErr != nil {
		sess.state = domain.StateIdle
		sess.mu.Unlock()
		failure := domain.NewSubmissionFailedError(sendErr)
		logger.Get().Error("Survey submission failed",
			zap.String("sessionID", sessionID), zap.Error(sendErr))
		return &dto.SubmitResponse{
			Status:  string(domain.SubmitFailed),
			State:   string(domain.StateIdle),
			Message: failure.Message,
		}, nil
	}
	sess.state = domain.StateComplete
	s.persister.Remove(s.snapshotKey(sessionID))
	sess.mu.Unlock()
	s.release(sessionID)

	logger.Get().Info("Survey submitted",
		zap.String("sessionID", sessionID), zap.Int("columns", payload.Len()))
	s.record(ctx, sessionID, payload, submittedAt)

	return &dto.SubmitResponse{
		Status:      string(domain.SubmitSubmitted),
		State:       string(domain.StateComplete),
		SubmittedAt: &submittedAt,
	}, nil
}

// record writes a ledger entry. Ledger faults never fail a submission.
func (s *surveyService) record(ctx context.Context, sessionID string, payload *survey.Payload, submittedAt time.Time) {
	body, err := payload.MarshalJSON()
	if err != nil {
		logger.Get().Error("Failed to encode payload for ledger", zap.String("sessionID", sessionID), zap.Error(err))
		return
	}
	submission := &domain.Submission{
		ID:          util.NewULID(),
		SessionID:   sessionID,
		Payload:     string(body),
		SubmittedAt: submittedAt,
	}
	if err := s.archive.Record(ctx, submission); err != nil {
		logger.Get().Warn("Failed to record submission in ledger",
			zap.String("sessionID", sessionID), zap.Error(err))
	}
}

// Reset starts the session over with default answers. A submitted session is
// started over under the same id.
func (s *surveyService) Reset(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	sess, err := s.lookup(ctx, sessionID)
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) && domainErr.Code == domain.CodeSurveyCompleted {
		sess = s.reopen(sessionID)
		err = nil
	}
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state == domain.StateSubmitting {
		return nil, domain.NewSubmitInProgressError(sessionID)
	}

	sess.store = survey.NewStore(survey.DefaultAnswers(s.questions))
	sess.state = domain.StateIdle
	s.persist(sess)

	logger.Get().Info("Survey session reset", zap.String("sessionID", sessionID))
	return s.view(sess), nil
}

// reopen registers a fresh session under a submitted id.
func (s *surveyService) reopen(sessionID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return sess
	}
	delete(s.completed, sessionID)
	sess := &session{
		id:    sessionID,
		store: survey.NewStore(survey.DefaultAnswers(s.questions)),
		state: domain.StateIdle,
	}
	sess.touch(s.now())
	s.sessions[sessionID] = sess
	return sess
}

// noopSubmissionArchive is used when the ledger is disabled.
type noopSubmissionArchive struct{}

func (noopSubmissionArchive) Record(ctx context.Context, submission *domain.Submission) error {
	logger.Get().Debug("No-op SubmissionArchive: Record called", zap.String("sessionID", submission.SessionID))
	return nil
}

func (noopSubmissionArchive) Count(ctx context.Context) (int64, error) {
	return 0, nil
}
