package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/okurimukae/dispatch/internal/domain"
)

// Directory is the read-only view of the application's user and group
// tables the resolver needs.
type Directory interface {
	// Profile returns domain.ErrNotFound (wrapped) when no row exists.
	Profile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	// GroupOwner returns the owner of the given group, or domain.ErrNotFound.
	GroupOwner(ctx context.Context, groupID uuid.UUID) (uuid.UUID, error)
}

// resolve turns a classification into a notification intent.
// A nil intent with a nil error is a resolution miss: a required lookup
// had no row, or the event targets nobody. Misses short-circuit the
// pipeline with a success response; they are never retried.
func resolve(ctx context.Context, dir Directory, c *Classification) (*domain.NotificationIntent, error) {
	switch c.Kind {
	case domain.KindAssignmentCreated:
		var target *uuid.UUID
		if c.Role == domain.RoleDropOff {
			target = c.Assignment.DropOffUserID
		} else {
			target = c.Assignment.PickUpUserID
		}
		if target == nil {
			return nil, nil
		}
		// System-generated: no sender attribution.
		return &domain.NotificationIntent{Kind: c.Kind, TargetUserID: *target}, nil

	case domain.KindJoinRequestCreated:
		owner, err := dir.GroupOwner(ctx, c.Membership.GroupID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("resolve group owner: %w", err)
		}
		sender := c.Membership.UserID
		return &domain.NotificationIntent{Kind: c.Kind, TargetUserID: owner, SenderUserID: &sender}, nil

	case domain.KindJoinRequestApproved:
		return &domain.NotificationIntent{Kind: c.Kind, TargetUserID: c.Membership.UserID}, nil
	}
	return nil, nil
}

// isSelfNotification reports whether the intent would notify the acting
// user about their own action, e.g. an owner approving a synthetic
// membership row of their own.
func isSelfNotification(intent *domain.NotificationIntent) bool {
	return intent.SenderUserID != nil && *intent.SenderUserID == intent.TargetUserID
}
