package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/pkg/api"
)

func TestCreateTrip(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	ada := register(t, env, "ada")
	ben := register(t, env, "ben")

	resp, err := env.trips.CreateTrip(ctx, authed(ada.token, &api.CreateTripRequest{
		Name: "Class trip to Rome",
		Members: []api.Participant{
			{ID: ben.id},
			{Name: "Mr. Rossi"},
			{ID: ada.id},
		},
	}))
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}

	trip := resp.Msg.Trip
	if trip.ID == "" {
		t.Fatal("expected trip ID")
	}
	if trip.Name != "Class trip to Rome" {
		t.Errorf("name: expected 'Class trip to Rome', got '%s'", trip.Name)
	}
	if len(trip.Members) != 3 {
		t.Fatalf("members: expected 3, got %+v", trip.Members)
	}
	if trip.Members[0].ID != ada.id {
		t.Errorf("expected caller first on the roster, got %s", trip.Members[0].ID)
	}
	if trip.Members[1].Name != "ben" {
		t.Errorf("expected registered member name ben, got %s", trip.Members[1].Name)
	}
	if trip.Members[2].ID == "" || trip.Members[2].Name != "Mr. Rossi" {
		t.Errorf("expected guest with generated ID, got %+v", trip.Members[2])
	}

	t.Run("member can read it", func(t *testing.T) {
		got, err := env.trips.GetTrip(ctx, authed(ben.token, &api.GetTripRequest{TripID: trip.ID}))
		if err != nil {
			t.Fatalf("GetTrip failed: %v", err)
		}
		if got.Msg.Trip.ID != trip.ID {
			t.Errorf("expected trip %s, got %s", trip.ID, got.Msg.Trip.ID)
		}

		list, err := env.trips.ListTrips(ctx, authed(ben.token, &api.ListTripsRequest{}))
		if err != nil {
			t.Fatalf("ListTrips failed: %v", err)
		}
		if len(list.Msg.Trips) != 1 {
			t.Errorf("expected 1 trip, got %d", len(list.Msg.Trips))
		}
	})

	t.Run("outsider is denied", func(t *testing.T) {
		eve := register(t, env, "eve")
		_, err := env.trips.GetTrip(ctx, authed(eve.token, &api.GetTripRequest{TripID: trip.ID}))
		expectCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("unknown trip", func(t *testing.T) {
		_, err := env.trips.GetTrip(ctx, authed(ada.token, &api.GetTripRequest{TripID: "missing"}))
		expectCode(t, err, connect.CodeNotFound)
	})

	t.Run("unknown user as member", func(t *testing.T) {
		_, err := env.trips.CreateTrip(ctx, authed(ada.token, &api.CreateTripRequest{
			Members: []api.Participant{{ID: "ghost"}},
		}))
		expectCode(t, err, connect.CodeNotFound)
	})

	t.Run("guest without name", func(t *testing.T) {
		_, err := env.trips.CreateTrip(ctx, authed(ada.token, &api.CreateTripRequest{
			Members: []api.Participant{{}},
		}))
		expectCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("no token", func(t *testing.T) {
		_, err := env.trips.ListTrips(ctx, connect.NewRequest(&api.ListTripsRequest{}))
		expectCode(t, err, connect.CodeUnauthenticated)
	})
}

func TestAddMembers(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	ada := register(t, env, "ada")

	created, err := env.trips.CreateTrip(ctx, authed(ada.token, &api.CreateTripRequest{Name: "Hike"}))
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	tripID := created.Msg.Trip.ID

	// Load the ledger before the roster grows
	if _, err := env.expenses.GetBalances(ctx, authed(ada.token, &api.GetBalancesRequest{TripID: tripID})); err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}

	resp, err := env.trips.AddMembers(ctx, authed(ada.token, &api.AddMembersRequest{
		TripID:  tripID,
		Members: []api.Participant{{Name: "Guide"}},
	}))
	if err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}
	if len(resp.Msg.Trip.Members) != 2 {
		t.Fatalf("expected 2 members, got %+v", resp.Msg.Trip.Members)
	}
	guide := resp.Msg.Trip.Members[1].ID

	// The cached ledger accepts the new member
	_, err = env.expenses.AddExpense(ctx, authed(ada.token, &api.AddExpenseRequest{
		TripID:        tripID,
		Amount:        1000,
		Payer:         ada.id,
		Beneficiaries: []string{ada.id, guide},
	}))
	if err != nil {
		t.Fatalf("AddExpense with new member failed: %v", err)
	}

	_, err = env.trips.AddMembers(ctx, authed(ada.token, &api.AddMembersRequest{TripID: tripID}))
	expectCode(t, err, connect.CodeInvalidArgument)
}
