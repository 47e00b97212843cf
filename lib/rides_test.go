package lib

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failRides struct {
	err   error
	calls int
}

func (f *failRides) PutRide(_ context.Context, _ Ride) error {
	f.calls++
	return f.err
}

func useStore(t *testing.T, store RideStore) {
	t.Helper()
	old := Store
	Store = store
	t.Cleanup(func() { Store = old })
}

func authorizedRequest(rider, body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/ride",
		Body:       body,
		RequestContext: events.APIGatewayProxyRequestContext{
			Authorizer: map[string]any{
				"claims": map[string]any{"cognito:username": rider},
			},
		},
	}
}

const pickupBody = `{"PickupLocation":{"Latitude":47.61,"Longitude":-122.28}}`

var rideIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{22}$`)

func TestHandleRideRequestNoAuthorizer(t *testing.T) {
	store := &MemoryRides{}
	useStore(t, store)

	request := events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/ride",
		Body:       pickupBody,
	}
	response := HandleRideRequest(context.Background(), request)

	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(response.Body), &body))
	assert.Equal(t, "Authorization not configured", body.Error)
	assert.NotEmpty(t, body.Reference)
	assert.Empty(t, store.Rides(), "no record may be written without authorization")
}

func TestHandleRideRequestSuccess(t *testing.T) {
	store := &MemoryRides{}
	useStore(t, store)

	response := HandleRideRequest(context.Background(), authorizedRequest("the_username", pickupBody))

	require.Equal(t, http.StatusCreated, response.StatusCode)
	assert.Equal(t, "*", response.Headers["Access-Control-Allow-Origin"])
	var body RideResponse
	require.NoError(t, json.Unmarshal([]byte(response.Body), &body))
	assert.Equal(t, "the_username", body.Rider)
	assert.Equal(t, "30 seconds", body.Eta)
	assert.Regexp(t, rideIDPattern, body.RideId)
	assert.Contains(t, Fleet(), body.Unicorn)
	require.Len(t, store.Rides(), 1)
}

func TestHandleRideRequestUniqueIDs(t *testing.T) {
	store := &MemoryRides{}
	useStore(t, store)

	request := authorizedRequest("the_username", pickupBody)
	first := HandleRideRequest(context.Background(), request)
	second := HandleRideRequest(context.Background(), request)

	require.Equal(t, http.StatusCreated, first.StatusCode)
	require.Equal(t, http.StatusCreated, second.StatusCode)
	var a, b RideResponse
	require.NoError(t, json.Unmarshal([]byte(first.Body), &a))
	require.NoError(t, json.Unmarshal([]byte(second.Body), &b))
	assert.NotEqual(t, a.RideId, b.RideId)
	rides := store.Rides()
	require.Len(t, rides, 2)
	assert.NotEqual(t, rides[0].RideId, rides[1].RideId)
}

func TestHandleRideRequestStorageFailure(t *testing.T) {
	store := &failRides{err: errors.New("ProvisionedThroughputExceededException")}
	useStore(t, store)

	request := authorizedRequest("the_username", pickupBody)
	request.RequestContext.RequestID = "req-42"
	response := HandleRideRequest(context.Background(), request)

	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
	assert.Equal(t, "*", response.Headers["Access-Control-Allow-Origin"])
	var body ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(response.Body), &body))
	assert.Contains(t, body.Error, "ProvisionedThroughputExceededException")
	assert.Equal(t, "req-42", body.Reference)
	assert.Equal(t, 1, store.calls, "the single put must not be retried")
}

func TestHandleRideRequestParseError(t *testing.T) {
	store := &MemoryRides{}
	useStore(t, store)

	response := HandleRideRequest(context.Background(), authorizedRequest("the_username", "{not json"))

	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(response.Body), &body))
	assert.NotEmpty(t, body.Error)
	assert.NotEmpty(t, body.Reference)
	assert.Empty(t, store.Rides())
}

func TestHandleRideRequestPermissiveBody(t *testing.T) {
	// out of range coordinates and missing fields still dispatch, only
	// json syntax errors fail
	store := &MemoryRides{}
	useStore(t, store)

	for _, body := range []string{
		`{}`,
		`{"PickupLocation":{}}`,
		`{"PickupLocation":{"Latitude":999.0,"Longitude":-999.0}}`,
	} {
		response := HandleRideRequest(context.Background(), authorizedRequest("the_username", body))
		assert.Equal(t, http.StatusCreated, response.StatusCode, "body: %s", body)
	}
}

func TestHandleRideRequestRoundTrip(t *testing.T) {
	store := &MemoryRides{}
	useStore(t, store)

	before := time.Now().UTC().Add(-time.Second)
	response := HandleRideRequest(context.Background(), authorizedRequest("the_username", pickupBody))
	after := time.Now().UTC().Add(time.Second)

	require.Equal(t, http.StatusCreated, response.StatusCode)
	var body RideResponse
	require.NoError(t, json.Unmarshal([]byte(response.Body), &body))
	rides := store.Rides()
	require.Len(t, rides, 1)
	ride := rides[0]
	assert.Equal(t, body.RideId, ride.RideId)
	assert.Equal(t, body.Rider, ride.User)
	assert.Equal(t, body.Unicorn, ride.Unicorn)
	ts, err := time.Parse(time.RFC3339, ride.RequestTime)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, ts.Location())
	assert.True(t, !ts.Before(before) && !ts.After(after))
}

func TestHandleRideRequestSelectionUniform(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}
	store := &MemoryRides{}
	useStore(t, store)

	const trials = 3000
	request := authorizedRequest("the_username", pickupBody)
	for i := 0; i < trials; i++ {
		response := HandleRideRequest(context.Background(), request)
		require.Equal(t, http.StatusCreated, response.StatusCode)
	}
	counts := make(map[string]int)
	for _, ride := range store.Rides() {
		counts[ride.Unicorn.Name]++
	}
	require.Len(t, counts, FleetSize)
	// mean 1000 per unit, stddev ~26, bounds are ~7 sigma out
	for name, n := range counts {
		assert.Greater(t, n, 800, "unicorn %s drawn too rarely", name)
		assert.Less(t, n, 1200, "unicorn %s drawn too often", name)
	}
}

func TestCorrelationIDFromLambdaContext(t *testing.T) {
	store := &failRides{err: errors.New("put failed")}
	useStore(t, store)

	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "lambda-req-7"})
	response := HandleRideRequest(ctx, authorizedRequest("the_username", pickupBody))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(response.Body), &body))
	assert.Equal(t, "lambda-req-7", body.Reference)
}

func TestRiderIdentity(t *testing.T) {
	type test struct {
		authorizer map[string]any
		rider      string
	}
	tests := []test{
		{nil, ""},
		{map[string]any{}, ""},
		{map[string]any{"claims": map[string]any{"cognito:username": "alice"}}, "alice"},
		{map[string]any{"claims": map[string]any{"email": "a@b.c"}}, ""},
		{map[string]any{"principalId": "bob"}, "bob"},
		{map[string]any{"claims": "garbage"}, ""},
	}
	for _, test := range tests {
		request := events.APIGatewayProxyRequest{
			RequestContext: events.APIGatewayProxyRequestContext{Authorizer: test.authorizer},
		}
		rider := riderIdentity(request)
		if rider != test.rider {
			t.Errorf("got:\n%s\nwant:\n%s\n", rider, test.rider)
		}
	}
}

func TestNewRideID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewRideID()
		if err != nil {
			t.Fatal(err)
		}
		if !rideIDPattern.MatchString(id) {
			t.Errorf("got:\n%s\nwant:\n22 url-safe base64 chars\n", id)
		}
		if seen[id] {
			t.Errorf("duplicate id: %s", id)
		}
		seen[id] = true
	}
}

func TestHandleLambdaNeverErrors(t *testing.T) {
	store := &failRides{err: errors.New("put failed")}
	useStore(t, store)

	response, err := HandleLambda(context.Background(), authorizedRequest("the_username", pickupBody))
	require.NoError(t, err, "failures must be encoded in the response, not returned")
	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
}
