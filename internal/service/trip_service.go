package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/pkg/api"
)

// TripService implements the Connect TripService.
type TripService struct {
	api.UnimplementedTripServiceHandler
	store   storage.Store
	ledgers *Ledgers
	logger  *slog.Logger
}

// NewTripService creates a new TripService with the given storage backend.
func NewTripService(store storage.Store, ledgers *Ledgers, logger *slog.Logger) *TripService {
	return &TripService{store: store, ledgers: ledgers, logger: logger}
}

// CreateTrip creates a trip whose roster holds the caller plus the requested members.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	caller, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("CreateTrip request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
		"user_id", caller.ID,
	)

	members, err := s.resolveMembers(ctx, req.Msg.Members)
	if err != nil {
		return nil, err
	}

	trip := &models.Trip{
		Name:    strings.TrimSpace(req.Msg.Name),
		Members: append([]models.Participant{caller.Participant()}, members...),
	}
	trip.Members = dedupeMembers(trip.Members)

	// Generates ID, CreatedAt and a default name
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		s.logger.Error("CreateTrip failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Trip created", "trip_id", trip.ID, "members", len(trip.Members))
	return connect.NewResponse(&api.CreateTripResponse{Trip: toAPITrip(trip)}), nil
}

// GetTrip retrieves a trip the caller belongs to.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	trip, err := memberTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetTripResponse{Trip: toAPITrip(trip)}), nil
}

// ListTrips retrieves the caller's trips, newest first.
func (s *TripService) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	trips, err := s.store.ListTripsByMember(ctx, userID)
	if err != nil {
		s.logger.Error("ListTrips failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Trip, len(trips))
	for i, trip := range trips {
		out[i] = toAPITrip(trip)
	}
	return connect.NewResponse(&api.ListTripsResponse{Trips: out}), nil
}

// AddMembers appends participants to the roster of a trip the caller belongs to.
// Members already on the roster are left as they are.
func (s *TripService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	trip, err := memberTrip(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	if len(req.Msg.Members) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("at least one member is required"))
	}

	members, err := s.resolveMembers(ctx, req.Msg.Members)
	if err != nil {
		return nil, err
	}

	if err := s.store.AddTripMembers(ctx, trip.ID, members); err != nil {
		s.logger.Error("AddMembers failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	s.ledgers.AddMembers(trip.ID, ids...)

	updated, err := s.store.GetTrip(ctx, trip.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Members added", "trip_id", trip.ID, "members", len(updated.Members))
	return connect.NewResponse(&api.AddMembersResponse{Trip: toAPITrip(updated)}), nil
}

func (s *TripService) caller(ctx context.Context) (*models.User, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}
	if err != nil {
		return nil, toConnectError(err)
	}
	return user, nil
}

// resolveMembers turns requested roster entries into participants. An entry
// with an ID must name a registered user, whose display name is used. An entry
// without an ID is a guest and gets a generated ID; guests need a name.
func (s *TripService) resolveMembers(ctx context.Context, requested []api.Participant) ([]models.Participant, error) {
	var ids []string
	for _, p := range requested {
		if p.ID != "" {
			ids = append(ids, p.ID)
		}
	}

	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, toConnectError(err)
	}

	members := make([]models.Participant, 0, len(requested))
	for _, p := range requested {
		if p.ID == "" {
			name := strings.TrimSpace(p.Name)
			if name == "" {
				return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("guest members need a name"))
			}
			members = append(members, models.Participant{ID: uuid.New().String(), Name: name})
			continue
		}
		user, ok := users[p.ID]
		if !ok {
			return nil, connect.NewError(connect.CodeNotFound, errors.New("user "+p.ID+" does not exist"))
		}
		members = append(members, user.Participant())
	}
	return dedupeMembers(members), nil
}

func dedupeMembers(members []models.Participant) []models.Participant {
	seen := make(map[string]bool, len(members))
	out := members[:0]
	for _, m := range members {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}

// memberTrip loads a trip and checks that the caller is on its roster.
func memberTrip(ctx context.Context, store storage.TripStore, tripID string) (*models.Trip, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	if tripID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingTripID)
	}

	trip, err := store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !trip.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return trip, nil
}
