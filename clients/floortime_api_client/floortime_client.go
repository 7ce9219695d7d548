package floortime_api_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/mcdev12/floortime/clients"
	"github.com/mcdev12/floortime/internal/models"
)

// FloortimeApiClient reads meeting state over the REST API. It satisfies
// the list reads a live meeting view performs on change notifications.
type FloortimeApiClient struct {
	*clients.BaseClient
}

func NewFloortimeApiClient(baseURL string) *FloortimeApiClient {
	return &FloortimeApiClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}
}

// SetToken attaches a bearer token for the meeting lifecycle endpoints.
func (c *FloortimeApiClient) SetToken(token string) {
	c.SetHeader("Authorization", "Bearer "+token)
}

func (c *FloortimeApiClient) ActiveMeeting(ctx context.Context) (*models.Meeting, error) {
	body, err := c.Get(ctx, ActiveMeetingEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active meeting: %w", err)
	}
	var m models.Meeting
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("failed to decode active meeting: %w", err)
	}
	return &m, nil
}

func (c *FloortimeApiClient) ListParticipants(ctx context.Context, meetingID uuid.UUID) ([]models.Participant, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s/%s/participants/", MeetingsEndpoint, meetingID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch participants: %w", err)
	}
	var resp struct {
		Participants []models.Participant `json:"participants"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode participants: %w", err)
	}
	return resp.Participants, nil
}

func (c *FloortimeApiClient) ListSessions(ctx context.Context, meetingID uuid.UUID) ([]models.SpeakingSession, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s/%s/sessions", MeetingsEndpoint, meetingID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	var resp struct {
		Sessions []models.SpeakingSession `json:"sessions"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return resp.Sessions, nil
}

func (c *FloortimeApiClient) ListSubjects(ctx context.Context, meetingID uuid.UUID) ([]models.Subject, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s/%s/subjects/", MeetingsEndpoint, meetingID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subjects: %w", err)
	}
	var resp struct {
		Subjects []models.Subject `json:"subjects"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode subjects: %w", err)
	}
	return resp.Subjects, nil
}

func (c *FloortimeApiClient) ListQuestions(ctx context.Context, meetingID uuid.UUID) ([]models.Question, error) {
	body, err := c.Get(ctx, fmt.Sprintf("%s/%s/questions/", MeetingsEndpoint, meetingID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch questions: %w", err)
	}
	var resp struct {
		Questions []models.Question `json:"questions"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return resp.Questions, nil
}
