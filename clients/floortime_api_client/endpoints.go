package floortime_api_client

const (
	// API Endpoints
	MeetingsEndpoint      = "/api/v1/meetings"
	ActiveMeetingEndpoint = "/api/v1/meetings/active"
)
