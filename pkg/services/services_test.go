package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gss/competition-registration/pkg/clients/competition"
	"github.com/gss/competition-registration/pkg/models"
)

func newBackend(t *testing.T, handler http.HandlerFunc) competition.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return competition.NewClient(server.URL, time.Second, nil)
}

// region Registration

func TestRegister_Success(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Jane Doe", body["full_name"])
		assert.Equal(t, "jane@x.com", body["email"])
		assert.Equal(t, "1234567890", body["phone_number"])
		assert.Equal(t, "XYZ", body["referrer_code"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status":"ok","error":"","data":{"id":1,"full_name":"Jane Doe","referral_code":"ABC123"}}`))
	})

	svc := NewRegistrationService(client, nil)
	user, err := svc.Register(context.Background(), models.RegistrationInput{
		FullName:     "Jane Doe",
		Email:        "jane@x.com",
		PhoneNumber:  "1234567890",
		ReferralCode: "XYZ",
	})

	require.NoError(t, err)
	assert.Equal(t, models.UserRecord{ID: 1, FullName: "Jane Doe", ReferralCode: "ABC123"}, user)
}

func TestRegister_OmitsEmptyReferrerCode(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, present := body["referrer_code"]
		assert.False(t, present)

		w.Write([]byte(`{"status":"ok","data":{"id":7,"full_name":"Al Lee","referral_code":"Q"}}`))
	})

	svc := NewRegistrationService(client, nil)
	user, err := svc.Register(context.Background(), models.RegistrationInput{FullName: "Al Lee"})

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
}

func TestRegister_ServerError(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	svc := NewRegistrationService(client, nil)
	_, err := svc.Register(context.Background(), models.RegistrationInput{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRegistrationFailed)

	var statusErr *competition.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

// endregion

// region Leaderboard

func TestFetchLeaderboard_KeepsServerOrder(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/leaderboard", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`{"status":"ok","error":"","data":[` +
			`{"referrer_id":2,"full_name":"Bob","referrals_count":5},` +
			`{"referrer_id":3,"full_name":"Amy","referrals_count":3}]}`))
	})

	svc := NewLeaderboardService(client, nil)
	entries, err := svc.FetchLeaderboard(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Bob", entries[0].FullName)
	assert.Equal(t, 5, entries[0].ReferralsCount)
	assert.Equal(t, "Amy", entries[1].FullName)
	assert.Equal(t, 3, entries[1].ReferralsCount)
}

func TestFetchLeaderboard_NullData(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","error":"","data":null}`))
	})

	svc := NewLeaderboardService(client, nil)
	entries, err := svc.FetchLeaderboard(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestFetchLeaderboard_Failure(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	svc := NewLeaderboardService(client, nil)
	entries, err := svc.FetchLeaderboard(context.Background())

	assert.Nil(t, entries)
	assert.ErrorIs(t, err, ErrLeaderboardFetchFailed)
}

// endregion
