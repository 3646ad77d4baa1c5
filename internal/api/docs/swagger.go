package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version" example:"v1.0.0"`
}

type EventData struct {
	ID        string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	OwnerID   string `json:"owner_id" example:"9b2f1c4e-7d1a-4a3b-9f0e-2c6d8e1a5b7c"`
	Name      string `json:"name" example:"Casamento Ana e Bruno"`
	Slug      string `json:"slug" example:"casamento-ana-e-bruno-k9z1"`
	Plan      string `json:"plan" example:"free"`
	IsActive  bool   `json:"is_active" example:"true"`
	CreatedAt string `json:"created_at" example:"2026-01-01T00:00:00Z"`
	UpdatedAt string `json:"updated_at" example:"2026-01-01T00:00:00Z"`
}

type EventResponse struct {
	Success bool      `json:"success" example:"true"`
	Message string    `json:"message" example:"Event created"`
	Data    EventData `json:"data"`
}

type MediaData struct {
	ID                string `json:"id" example:"3f0c2a9e-1b7d-4c8e-a5f6-0d9e8b7c6a5d"`
	EventID           string `json:"event_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UploaderID        string `json:"uploader_id" example:"9b2f1c4e-7d1a-4a3b-9f0e-2c6d8e1a5b7c"`
	MediaURL          string `json:"media_url" example:"https://momento-media.s3.us-east-1.amazonaws.com/events/550e8400/3f0c2a9e.jpg"`
	FileName          string `json:"file_name" example:"IMG_0042.jpg"`
	MediaType         string `json:"media_type" example:"image"`
	ContentType       string `json:"content_type" example:"image/jpeg"`
	SizeBytes         int64  `json:"size_bytes" example:"2483921"`
	DetectionStatus   string `json:"detection_status" example:"pending"`
	DetectionAttempts int    `json:"detection_attempts" example:"0"`
	CreatedAt         string `json:"created_at" example:"2026-01-01T00:00:00Z"`
}

type MediaResponse struct {
	Success bool      `json:"success" example:"true"`
	Message string    `json:"message" example:"Media uploaded"`
	Data    MediaData `json:"data"`
}

type PaginationMeta struct {
	Page       int  `json:"page" example:"1"`
	Limit      int  `json:"limit" example:"20"`
	Total      int  `json:"total" example:"57"`
	TotalPages int  `json:"totalPages" example:"3"`
	HasNext    bool `json:"hasNext" example:"true"`
	HasPrev    bool `json:"hasPrev" example:"false"`
}

type MediaListResponse struct {
	Success    bool           `json:"success" example:"true"`
	Data       []MediaData    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

type FaceRectangle struct {
	Top    float64 `json:"top" example:"120"`
	Left   float64 `json:"left" example:"340"`
	Width  float64 `json:"width" example:"96"`
	Height float64 `json:"height" example:"118"`
}

type EmotionScores struct {
	Happiness float64 `json:"happiness" example:"0.92"`
	Neutral   float64 `json:"neutral" example:"0.05"`
	Sadness   float64 `json:"sadness" example:"0.01"`
	Surprise  float64 `json:"surprise" example:"0.02"`
}

type FaceAttributes struct {
	Glasses string        `json:"glasses,omitempty" example:"NoGlasses"`
	Emotion EmotionScores `json:"emotion"`
}

type FaceProfileData struct {
	ID             string         `json:"id" example:"7a1e3c5b-2d4f-4e6a-8b9c-0d1e2f3a4b5c"`
	UserID         string         `json:"user_id" example:"9b2f1c4e-7d1a-4a3b-9f0e-2c6d8e1a5b7c"`
	EventID        string         `json:"event_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	FaceRectangle  FaceRectangle  `json:"face_rectangle"`
	FaceAttributes FaceAttributes `json:"face_attributes"`
	Confidence     float64        `json:"confidence" example:"0.99"`
	CreatedAt      string         `json:"created_at" example:"2026-01-01T00:00:00Z"`
	UpdatedAt      string         `json:"updated_at" example:"2026-01-01T00:00:00Z"`
}

type FaceProfileResponse struct {
	Success bool            `json:"success" example:"true"`
	Message string          `json:"message" example:"Face profile created"`
	Data    FaceProfileData `json:"data"`
}

type MatchedDetection struct {
	ID             string         `json:"id" example:"d4c3b2a1-0f9e-4d8c-b7a6-5e4d3c2b1a09"`
	FaceRectangle  FaceRectangle  `json:"faceRectangle"`
	FaceAttributes FaceAttributes `json:"faceAttributes"`
	Confidence     float64        `json:"confidence" example:"0.97"`
	Similarity     float64        `json:"similarity" example:"0.91"`
	CreatedAt      string         `json:"createdAt" example:"2026-01-01T00:00:00Z"`
}

type MatchResult struct {
	ID         string             `json:"id" example:"3f0c2a9e-1b7d-4c8e-a5f6-0d9e8b7c6a5d"`
	MediaURL   string             `json:"mediaUrl" example:"https://momento-media.s3.us-east-1.amazonaws.com/events/550e8400/3f0c2a9e.jpg"`
	FileName   string             `json:"fileName" example:"IMG_0042.jpg"`
	MediaType  string             `json:"mediaType" example:"image"`
	CreatedAt  string             `json:"createdAt" example:"2026-01-01T00:00:00Z"`
	Detections []MatchedDetection `json:"detections"`
}

type MatchSummary struct {
	TotalMatches     int `json:"totalMatches" example:"12"`
	HighConfidence   int `json:"highConfidence" example:"8"`
	MediumConfidence int `json:"mediumConfidence" example:"3"`
	LowConfidence    int `json:"lowConfidence" example:"1"`
}

type MatchesData struct {
	UserID  string        `json:"userId" example:"9b2f1c4e-7d1a-4a3b-9f0e-2c6d8e1a5b7c"`
	Matches []MatchResult `json:"matches"`
	Summary MatchSummary  `json:"summary"`
}

type EventInfo struct {
	ID   string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name string `json:"name" example:"Casamento Ana e Bruno"`
	Slug string `json:"slug" example:"casamento-ana-e-bruno-k9z1"`
}

type MatchesResponse struct {
	Success    bool           `json:"success" example:"true"`
	Message    string         `json:"message" example:"Found 12 matching photos"`
	Data       MatchesData    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
	EventInfo  EventInfo      `json:"eventInfo"`
}

var (
	errUnauthorized = response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing bearer token"}, "401", "Unauthorized")
	errRateLimited  = response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded"}, "429", "Too Many Requests")
	errInternal     = response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error")
	errEventMissing = response.New(ErrorResponse{Code: "EVENT_NOT_FOUND", Message: "Event not found"}, "404", "Not Found")

	bearer = endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}})
)

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Momento API",
		Version:     "v1.0.0",
		Description: "Event photo sharing with face matching: guests upload photos, enroll a selfie and find the photos they appear in",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// Events

		endpoint.New(
			endpoint.POST,
			"/events",
			endpoint.WithTags("Events"),
			endpoint.WithSummary("Create an event"),
			endpoint.WithDescription("Creates an event owned by the caller from a JSON body {name, plan}. plan is free, premium or enterprise and defaults to free. A unique slug is derived from the name."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EventResponse{}, "201", "Event created"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request body"}, "400", "Bad Request"),
				errUnauthorized,
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				errRateLimited,
				errInternal,
			}),
			bearer,
		),

		endpoint.New(
			endpoint.GET,
			"/events/{event_id}",
			endpoint.WithTags("Events"),
			endpoint.WithSummary("Get an event"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(parameter.StrParam("event_id", parameter.Path, parameter.WithDescription("Event UUID"))),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EventResponse{}, "200", "Event retrieved"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errEventMissing, errInternal}),
			bearer,
		),

		endpoint.New(
			endpoint.GET,
			"/events/slug/{slug}",
			endpoint.WithTags("Events"),
			endpoint.WithSummary("Get an event by slug"),
			endpoint.WithDescription("Resolves the slug printed in the event QR code"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("slug", parameter.Path, parameter.WithDescription("Event slug")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EventResponse{}, "200", "Event retrieved"),
			}),
			endpoint.WithErrors([]response.Response{errUnauthorized, errEventMissing, errInternal}),
			bearer,
		),

		endpoint.New(
			endpoint.DELETE,
			"/events/{event_id}",
			endpoint.WithTags("Events"),
			endpoint.WithSummary("Deactivate an event"),
			endpoint.WithDescription("Only the owner may deactivate an event. Its media and profiles stop being served."),
			endpoint.WithParams(parameter.StrParam("event_id", parameter.Path, parameter.WithDescription("Event UUID"))),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Event deactivated"),
			}),
			endpoint.WithErrors([]response.Response{
				errUnauthorized,
				response.New(ErrorResponse{Code: "FORBIDDEN", Message: "Only the event owner can do this"}, "403", "Forbidden"),
				errEventMissing,
				errInternal,
			}),
			bearer,
		),

		// Media

		endpoint.New(
			endpoint.POST,
			"/events/{event_id}/media",
			endpoint.WithTags("Media"),
			endpoint.WithSummary("Upload a photo or video"),
			endpoint.WithDescription("Stores the multipart field file (JPEG, PNG, WebP, MP4 or QuickTime) and schedules face detection for images. Detection runs in the background; detection_status reports progress."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("event_id", parameter.Path, parameter.WithDescription("Event UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MediaResponse{}, "201", "Media uploaded"),
			}),
			endpoint.WithErrors([]response.Response{
				errUnauthorized,
				errEventMissing,
				response.New(ErrorResponse{Code: "MEDIA_TOO_LARGE", Message: "File exceeds the upload limit"}, "413", "Payload Too Large"),
				response.New(ErrorResponse{Code: "UNSUPPORTED_MEDIA", Message: "Unsupported content type"}, "415", "Unsupported Media Type"),
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Image could not be decoded"}, "422", "Unprocessable Entity"),
				errRateLimited,
				errInternal,
			}),
			bearer,
		),

		endpoint.New(
			endpoint.GET,
			"/events/{event_id}/media",
			endpoint.WithTags("Media"),
			endpoint.WithSummary("List event media"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("event_id", parameter.Path, parameter.WithDescription("Event UUID")),
				parameter.IntParam("page", parameter.Query, parameter.WithDescription("Page number, default 1")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Page size, 1-100, default 20")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MediaListResponse{}, "200", "Media listed"),
			}),
			endpoint.WithErrors([]response.Response{
				errUnauthorized,
				errEventMissing,
				response.New(ErrorResponse{Code: "INVALID_PAGINATION", Message: "page must be >= 1 and limit between 1 and 100"}, "422", "Unprocessable Entity"),
				errInternal,
			}),
			bearer,
		),

		endpoint.New(
			endpoint.DELETE,
			"/events/{event_id}/media/{media_id}",
			endpoint.WithTags("Media"),
			endpoint.WithSummary("Delete media"),
			endpoint.WithDescription("The uploader or the event owner may remove a photo. Its face detections are removed with it."),
			endpoint.WithParams(
				parameter.StrParam("event_id", parameter.Path, parameter.WithDescription("Event UUID")),
				parameter.StrParam("media_id", parameter.Path, parameter.WithDescription("Media UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Media deleted"),
			}),
			endpoint.WithErrors([]response.Response{
				errUnauthorized,
				response.New(ErrorResponse{Code: "FORBIDDEN", Message: "Only the uploader or the event owner can do this"}, "403", "Forbidden"),
				response.New(ErrorResponse{Code: "MEDIA_NOT_FOUND", Message: "Media not found"}, "404", "Not Found"),
				errInternal,
			}),
			bearer,
		),

		// Face profile

		endpoint.New(
			endpoint.POST,
			"/events/{event_id}/face-profile",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Enroll a face profile"),
			endpoint.WithDescription("Detects exactly one face in the multipart field image and stores it as the caller's profile for the event. Set replace=true to overwrite an existing profile."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("event_id", parameter.Path, parameter.WithDescription("Event UUID")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(FaceProfileResponse{}, "201", "Profile created"),
				response.New(FaceProfileResponse{}, "200", "Profile replaced"),
			}),
			endpoint.WithErrors([]response.Response{
				errUnauthorized,
				errEventMissing,
				response.New(ErrorResponse{Code: "PROFILE_EXISTS", Message: "A face profile already exists for this event"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "MULTIPLE_FACES", Message: "Multiple faces detected"}, "422", "Unprocessable Entity"),
				errRateLimited,
				errInternal,
			}),
			bearer,
		),

		endpoint.New(
			endpoint.GET,
			"/events/{event_id}/face-profile",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Get the caller's face profile"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(parameter.StrParam("event_id", parameter.Path, parameter.WithDescription("Event UUID"))),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(FaceProfileResponse{}, "200", "Profile retrieved"),
			}),
			endpoint.WithErrors([]response.Response{
				errUnauthorized,
				response.New(ErrorResponse{Code: "PROFILE_NOT_FOUND", Message: "Face profile not found"}, "404", "Not Found"),
				errInternal,
			}),
			bearer,
		),

		endpoint.New(
			endpoint.DELETE,
			"/events/{event_id}/face-profile",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Delete the caller's face profile"),
			endpoint.WithParams(parameter.StrParam("event_id", parameter.Path, parameter.WithDescription("Event UUID"))),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Profile deleted"),
			}),
			endpoint.WithErrors([]response.Response{
				errUnauthorized,
				response.New(ErrorResponse{Code: "PROFILE_NOT_FOUND", Message: "Face profile not found"}, "404", "Not Found"),
				errInternal,
			}),
			bearer,
		),

		endpoint.New(
			endpoint.GET,
			"/events/{event_id}/face-matches",
			endpoint.WithTags("Faces"),
			endpoint.WithSummary("Find photos of the caller"),
			endpoint.WithDescription("Compares the caller's face profile with every detected face in the event and returns matching photos, best match first"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("event_id", parameter.Path, parameter.WithDescription("Event UUID")),
				parameter.IntParam("page", parameter.Query, parameter.WithDescription("Page number, default 1")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Page size, 1-100, default 20")),
				parameter.StrParam("similarityThreshold", parameter.Query, parameter.WithDescription("Minimum similarity in (0,1], default 0.8")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MatchesResponse{}, "200", "Matches computed"),
			}),
			endpoint.WithErrors([]response.Response{
				errUnauthorized,
				errEventMissing,
				response.New(ErrorResponse{Code: "PROFILE_NOT_FOUND", Message: "Face profile not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "INVALID_THRESHOLD", Message: "similarityThreshold must be greater than 0 and at most 1"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INVALID_PAGINATION", Message: "page must be >= 1 and limit between 1 and 100"}, "422", "Unprocessable Entity"),
				errRateLimited,
				errInternal,
			}),
			bearer,
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
