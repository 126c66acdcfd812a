package float_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/floatsync/internal/float"
	"github.com/Tiliavir/floatsync/internal/float/floattest"
)

func newClient(t *testing.T) (*float.Client, *floattest.Server) {
	t.Helper()
	srv := floattest.NewServer("token-123")
	t.Cleanup(srv.Close)
	return float.NewClient(context.Background(), srv.BaseURL(), "token-123", nil), srv
}

func week() float.Query {
	return float.Query{
		From:      time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC),
		PeopleID:  "42",
		ProjectID: "7",
	}
}

func TestListLoggedTime(t *testing.T) {
	client, srv := newClient(t)
	srv.Seed("id-1", "2024-02-06", 8)
	srv.Seed("id-2", "2024-02-08", 4)
	srv.Seed("outside", "2024-02-12", 8)

	records, err := client.ListLoggedTime(context.Background(), week())
	require.NoError(t, err)
	assert.Equal(t, []float.LoggedTime{
		{ID: "id-1", Hours: 8, Date: "2024-02-06"},
		{ID: "id-2", Hours: 4, Date: "2024-02-08"},
	}, records)

	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]string{
		"start_date": "2024-02-05",
		"end_date":   "2024-02-09",
		"people_id":  "42",
		"project_id": "7",
	}, calls[0].Query)
}

func TestListLoggedTime_MissingHours(t *testing.T) {
	client, srv := newClient(t)
	srv.SeedRaw(floattest.Record{ID: "no-hours", Date: "2024-02-07"})

	records, err := client.ListLoggedTime(context.Background(), week())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0.0, records[0].Hours)
}

func TestListLoggedTime_Unauthorized(t *testing.T) {
	srv := floattest.NewServer("right")
	t.Cleanup(srv.Close)
	client := float.NewClient(context.Background(), srv.BaseURL(), "wrong", nil)

	_, err := client.ListLoggedTime(context.Background(), week())
	require.Error(t, err)

	var apiErr *float.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, http.MethodGet, apiErr.Method)
	assert.Equal(t, "/v3/logged-time", apiErr.Path)
}

func TestCreateLoggedTime(t *testing.T) {
	client, srv := newClient(t)

	err := client.CreateLoggedTime(context.Background(), float.NewLoggedTime{
		Date:      "2024-02-05",
		Billable:  1,
		Hours:     8,
		PeopleID:  "42",
		ProjectID: "7",
	})
	require.NoError(t, err)

	calls := srv.Mutations()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, map[string]any{
		"date":       "2024-02-05",
		"billable":   1.0,
		"hours":      8.0,
		"people_id":  "42",
		"project_id": "7",
	}, calls[0].Body)
	assert.Len(t, srv.Records(), 1)
}

func TestCreateLoggedTime_Rejected(t *testing.T) {
	client, srv := newClient(t)
	srv.FailOn("2024-02-05", http.StatusUnprocessableEntity)

	err := client.CreateLoggedTime(context.Background(), float.NewLoggedTime{Date: "2024-02-05", Billable: 1, Hours: 8})
	var apiErr *float.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "rejected")
}

func TestDeleteLoggedTime(t *testing.T) {
	client, srv := newClient(t)
	srv.Seed("id-1", "2024-02-06", 8)

	require.NoError(t, client.DeleteLoggedTime(context.Background(), "id-1"))
	assert.Empty(t, srv.Records())

	err := client.DeleteLoggedTime(context.Background(), "id-1")
	var apiErr *float.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "/v3/logged-time/id-1", apiErr.Path)
}

func TestClient_Unreachable(t *testing.T) {
	srv := floattest.NewServer("t")
	base := srv.BaseURL()
	srv.Close()

	client := float.NewClient(context.Background(), base, "t", nil)
	_, err := client.ListLoggedTime(context.Background(), week())
	require.Error(t, err)

	var apiErr *float.APIError
	assert.False(t, errors.As(err, &apiErr))
}
