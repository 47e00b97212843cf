package lib

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gofrs/uuid"
)

// Eta is a static placeholder. Nothing computes it.
const Eta = "30 seconds"

type PickupLocation struct {
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
}

type RideRequest struct {
	PickupLocation PickupLocation `json:"PickupLocation"`
}

// Ride is the record persisted once per successful request. It is never
// read back, updated, or deleted by this service.
type Ride struct {
	RideId      string  `json:"RideId"      dynamodbav:"RideId"`
	User        string  `json:"User"        dynamodbav:"User"`
	Unicorn     Unicorn `json:"Unicorn"     dynamodbav:"Unicorn"`
	RequestTime string  `json:"RequestTime" dynamodbav:"RequestTime"`
}

type RideResponse struct {
	RideId  string  `json:"RideId"`
	Unicorn Unicorn `json:"Unicorn"`
	Eta     string  `json:"Eta"`
	Rider   string  `json:"Rider"`
}

type ErrorResponse struct {
	Error     string `json:"Error"`
	Reference string `json:"Reference"`
}

// RideStore persists one new ride record. No reads, no updates, no
// deletes.
type RideStore interface {
	PutRide(ctx context.Context, ride Ride) error
}

// Store is swapped for a fake in tests and for an in-memory store by
// `ride-request --dry-run`. Assign before serving requests, never after.
var Store RideStore = DynamoDBRides{}

// MemoryRides keeps rides in memory. Used by dry runs and tests.
type MemoryRides struct {
	lock  sync.Mutex
	rides []Ride
}

func (m *MemoryRides) PutRide(_ context.Context, ride Ride) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.rides = append(m.rides, ride)
	return nil
}

func (m *MemoryRides) Rides() []Ride {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]Ride{}, m.rides...)
}

// NewRideID returns 22 url-safe base64 chars covering 16 bytes of
// crypto/rand entropy. Collisions are negligible, so nothing checks
// storage for uniqueness.
func NewRideID() (string, error) {
	var b [16]byte
	_, err := rand.Read(b[:])
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}

// riderIdentity pulls the authenticated username out of the gateway
// authorizer context. The cognito authorizer puts it in
// claims["cognito:username"]; local tooling attaches principalId
// directly.
func riderIdentity(request events.APIGatewayProxyRequest) string {
	auth := request.RequestContext.Authorizer
	if len(auth) == 0 {
		return ""
	}
	if claims, ok := auth["claims"].(map[string]any); ok {
		if username, ok := claims["cognito:username"].(string); ok {
			return username
		}
	}
	if principal, ok := auth["principalId"].(string); ok {
		return principal
	}
	return ""
}

// correlationID identifies this invocation in error responses so a
// failure can be matched to server side logs. Inside Lambda it is the
// aws request id, elsewhere a fresh uuid.
func correlationID(ctx context.Context, request events.APIGatewayProxyRequest) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	if request.RequestContext.RequestID != "" {
		return request.RequestContext.RequestID
	}
	return uuid.Must(uuid.NewV4()).String()
}

func responseHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin": "*",
		"Content-Type":                "application/json",
	}
}

func errorResponse(message, reference string) events.APIGatewayProxyResponse {
	body, err := json.Marshal(ErrorResponse{Error: message, Reference: reference})
	if err != nil {
		body = []byte(`{"Error":"internal error"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusInternalServerError,
		Headers:    responseHeaders(),
		Body:       string(body),
	}
}

// HandleRideRequest assigns a unicorn to an authenticated rider and
// records the ride. Missing authorizer context means the gateway is
// miswired, and is reported as a server error rather than a client
// one so the integration bug surfaces loudly. Every failure downstream
// of that guard funnels into the same 500 shape. Nothing is retried
// here; transport level retries are the gateway's problem.
func HandleRideRequest(ctx context.Context, request events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	reference := correlationID(ctx, request)
	rider := riderIdentity(request)
	if rider == "" {
		Logger.Println("error: authorization not configured, reference:", reference)
		return errorResponse("Authorization not configured", reference)
	}
	rideID, err := NewRideID()
	if err != nil {
		return errorResponse(err.Error(), reference)
	}
	var rideRequest RideRequest
	err = json.Unmarshal([]byte(request.Body), &rideRequest)
	if err != nil {
		Logger.Println("error:", err)
		return errorResponse(err.Error(), reference)
	}
	pickup := rideRequest.PickupLocation
	unicorn := PickUnicorn()
	Logger.Println("ride:", rideID, "rider:", rider, "pickup:", pickup.Latitude, pickup.Longitude, "unicorn:", unicorn.Name)
	ride := Ride{
		RideId:      rideID,
		User:        rider,
		Unicorn:     unicorn,
		RequestTime: time.Now().UTC().Format(time.RFC3339),
	}
	err = Store.PutRide(ctx, ride)
	if err != nil {
		Logger.Println("error:", err)
		return errorResponse(err.Error(), reference)
	}
	body, err := json.Marshal(RideResponse{
		RideId:  rideID,
		Unicorn: unicorn,
		Eta:     Eta,
		Rider:   rider,
	})
	if err != nil {
		Logger.Println("error:", err)
		return errorResponse(err.Error(), reference)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusCreated,
		Headers:    responseHeaders(),
		Body:       string(body),
	}
}

// HandleLambda adapts HandleRideRequest to the aws-lambda-go handler
// signature. Errors are always encoded into the response body, never
// returned, so the gateway relays our status codes instead of its own
// 502.
func HandleLambda(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return HandleRideRequest(ctx, request), nil
}
