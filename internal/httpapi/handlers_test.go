package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/floortime/internal/auth"
	"github.com/mcdev12/floortime/internal/meetings"
	"github.com/mcdev12/floortime/internal/models"
	"github.com/mcdev12/floortime/internal/questions"
	"github.com/mcdev12/floortime/internal/speaking"
	"github.com/mcdev12/floortime/internal/subjects"
)

type fakeMeetingsApp struct {
	meetings map[uuid.UUID]*models.Meeting
	active   *models.Meeting
}

func newFakeMeetingsApp() *fakeMeetingsApp {
	return &fakeMeetingsApp{meetings: make(map[uuid.UUID]*models.Meeting)}
}

func (f *fakeMeetingsApp) CreateMeeting(ctx context.Context, title string, ownerID uuid.UUID) (*models.Meeting, error) {
	m := &models.Meeting{ID: uuid.New(), Title: title, OwnerID: ownerID, IsActive: true, CreatedAt: time.Now()}
	f.meetings[m.ID] = m
	f.active = m
	return m, nil
}

func (f *fakeMeetingsApp) GetMeeting(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	m, ok := f.meetings[id]
	if !ok {
		return nil, meetings.ErrNotFound
	}
	return m, nil
}

func (f *fakeMeetingsApp) ActiveMeeting() *models.Meeting { return f.active }

func (f *fakeMeetingsApp) ListMeetings(ctx context.Context) ([]models.Meeting, error) {
	var out []models.Meeting
	for _, m := range f.meetings {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeMeetingsApp) EndMeeting(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	m, ok := f.meetings[id]
	if !ok {
		return nil, meetings.ErrNotFound
	}
	now := time.Now()
	m.IsActive = false
	m.EndedAt = &now
	if f.active != nil && f.active.ID == id {
		f.active = nil
	}
	return m, nil
}

func (f *fakeMeetingsApp) DeleteMeeting(ctx context.Context, id uuid.UUID) error {
	delete(f.meetings, id)
	return nil
}

type fakeParticipantsApp struct {
	participants []models.Participant
}

func (f *fakeParticipantsApp) CreateParticipant(ctx context.Context, meetingID uuid.UUID, name string) (*models.Participant, error) {
	p := models.Participant{ID: uuid.New(), MeetingID: meetingID, Name: name, CreatedAt: time.Now()}
	f.participants = append(f.participants, p)
	return &p, nil
}

func (f *fakeParticipantsApp) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Participant, error) {
	var out []models.Participant
	for _, p := range f.participants {
		if p.MeetingID == meetingID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipantsApp) DeleteParticipant(ctx context.Context, id uuid.UUID) error {
	return nil
}

type fakeController struct {
	started  []uuid.UUID
	liveByID map[uuid.UUID]bool
}

func (f *fakeController) StartSpeaking(ctx context.Context, meetingID, participantID uuid.UUID) error {
	f.started = append(f.started, participantID)
	if f.liveByID == nil {
		f.liveByID = make(map[uuid.UUID]bool)
	}
	f.liveByID[participantID] = true
	return nil
}

func (f *fakeController) StopSpeaking(ctx context.Context, participantID uuid.UUID) error {
	if !f.liveByID[participantID] {
		return speaking.ErrNoLiveSession
	}
	delete(f.liveByID, participantID)
	return nil
}

type fakeSessionsLedger struct {
	sessions []models.SpeakingSession
}

func (f *fakeSessionsLedger) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.SpeakingSession, error) {
	return f.sessions, nil
}

type fakeSubjectsApp struct {
	subjects map[uuid.UUID]*models.Subject
}

func (f *fakeSubjectsApp) CreateSubject(ctx context.Context, meetingID uuid.UUID, title string) (*models.Subject, error) {
	if f.subjects == nil {
		f.subjects = make(map[uuid.UUID]*models.Subject)
	}
	s := &models.Subject{ID: uuid.New(), MeetingID: meetingID, Title: title, CreatedAt: time.Now()}
	f.subjects[s.ID] = s
	return s, nil
}

func (f *fakeSubjectsApp) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Subject, error) {
	var out []models.Subject
	for _, s := range f.subjects {
		if s.MeetingID == meetingID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubjectsApp) ToggleDiscussed(ctx context.Context, id uuid.UUID) (*models.Subject, error) {
	s, ok := f.subjects[id]
	if !ok {
		return nil, subjects.ErrNotFound
	}
	s.Discussed = !s.Discussed
	return s, nil
}

func (f *fakeSubjectsApp) DeleteSubject(ctx context.Context, id uuid.UUID) error {
	delete(f.subjects, id)
	return nil
}

type fakeQuestionsApp struct {
	questions []models.Question
}

func (f *fakeQuestionsApp) CreateQuestion(ctx context.Context, meetingID uuid.UUID, text, askerName string, isAnonymous bool) (*models.Question, error) {
	q := models.Question{ID: uuid.New(), MeetingID: meetingID, Text: text, CreatedAt: time.Now()}
	if !isAnonymous && askerName != "" {
		q.AskerName = &askerName
	}
	f.questions = append(f.questions, q)
	return &q, nil
}

func (f *fakeQuestionsApp) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]models.Question, error) {
	return f.questions, nil
}

func (f *fakeQuestionsApp) ToggleAnswered(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	for i := range f.questions {
		if f.questions[i].ID == id {
			f.questions[i].Answered = !f.questions[i].Answered
			return &f.questions[i], nil
		}
	}
	return nil, questions.ErrNotFound
}

func (f *fakeQuestionsApp) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	return nil
}

type testEnv struct {
	router      http.Handler
	jwtAuth     *auth.JWTAuth
	meetingsApp *fakeMeetingsApp
	controller  *fakeController
	subjects    *fakeSubjectsApp
	questions   *fakeQuestionsApp
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	jwtAuth := auth.NewJWTAuth("test-secret")
	env := &testEnv{
		jwtAuth:     jwtAuth,
		meetingsApp: newFakeMeetingsApp(),
		controller:  &fakeController{},
		subjects:    &fakeSubjectsApp{},
		questions:   &fakeQuestionsApp{},
	}
	env.router = New(
		jwtAuth,
		NewMeetingsHandler(env.meetingsApp),
		NewParticipantsHandler(&fakeParticipantsApp{}),
		NewSpeakingHandler(env.controller),
		NewSessionsHandler(&fakeSessionsLedger{}),
		NewSubjectsHandler(env.subjects),
		NewQuestionsHandler(env.questions),
	)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	token, err := e.jwtAuth.GenerateToken(uuid.New(), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func TestCreateMeetingRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/meetings/", map[string]string{"title": "standup"}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCreateAndGetMeeting(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/meetings/", map[string]string{"title": "standup"}, env.token(t))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created models.Meeting
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/meetings/"+created.ID.String(), nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/meetings/active", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("active status = %d, want 200", rec.Code)
	}
}

func TestCreateMeetingBlankTitle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/meetings/", map[string]string{"title": "  "}, env.token(t))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetMeetingNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/meetings/"+uuid.NewString(), nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStartSpeaking(t *testing.T) {
	env := newTestEnv(t)
	meetingID := uuid.New()
	participantID := uuid.New()

	rec := env.do(t, http.MethodPost, "/api/v1/meetings/"+meetingID.String()+"/speaking/start",
		map[string]string{"participant_id": participantID.String()}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if len(env.controller.started) != 1 || env.controller.started[0] != participantID {
		t.Fatalf("controller started = %v, want [%s]", env.controller.started, participantID)
	}
}

func TestStartSpeakingMissingParticipant(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/meetings/"+uuid.NewString()+"/speaking/start",
		map[string]string{}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStopSpeakingWithoutLiveSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/meetings/"+uuid.NewString()+"/speaking/stop",
		map[string]string{"participant_id": uuid.NewString()}, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestStartThenStopSpeaking(t *testing.T) {
	env := newTestEnv(t)
	meetingID := uuid.New()
	participantID := uuid.New()
	body := map[string]string{"participant_id": participantID.String()}

	rec := env.do(t, http.MethodPost, "/api/v1/meetings/"+meetingID.String()+"/speaking/start", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d, want 200", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/api/v1/meetings/"+meetingID.String()+"/speaking/stop", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stop status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestAnonymousQuestionListedAsAnonymous(t *testing.T) {
	env := newTestEnv(t)
	meetingID := uuid.New()

	rec := env.do(t, http.MethodPost, "/api/v1/meetings/"+meetingID.String()+"/questions/",
		map[string]interface{}{"text": "what about Q3?", "asker_name": "Dana", "is_anonymous": true}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/v1/meetings/"+meetingID.String()+"/questions/", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var resp struct {
		Questions []struct {
			AskerName    *string `json:"asker_name"`
			DisplayAsker string  `json:"display_asker"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(resp.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(resp.Questions))
	}
	if resp.Questions[0].AskerName != nil {
		t.Fatal("anonymous question must not expose an asker name")
	}
	if resp.Questions[0].DisplayAsker != "Anonymous" {
		t.Fatalf("display_asker = %q, want Anonymous", resp.Questions[0].DisplayAsker)
	}
}

func TestToggleSubjectNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut,
		"/api/v1/meetings/"+uuid.NewString()+"/subjects/"+uuid.NewString()+"/discussed", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestToggleSubject(t *testing.T) {
	env := newTestEnv(t)
	meetingID := uuid.New()

	rec := env.do(t, http.MethodPost, "/api/v1/meetings/"+meetingID.String()+"/subjects/",
		map[string]string{"title": "roadmap"}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", rec.Code)
	}
	var created models.Subject
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	rec = env.do(t, http.MethodPut,
		"/api/v1/meetings/"+meetingID.String()+"/subjects/"+created.ID.String()+"/discussed", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d, want 200", rec.Code)
	}
	var toggled models.Subject
	if err := json.Unmarshal(rec.Body.Bytes(), &toggled); err != nil {
		t.Fatalf("decode toggle response: %v", err)
	}
	if !toggled.Discussed {
		t.Fatal("expected discussed=true after toggle")
	}
}
