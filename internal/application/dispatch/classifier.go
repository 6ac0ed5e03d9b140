package dispatch

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/okurimukae/dispatch/internal/domain"
)

// Classification is the result of inspecting one change event. It carries
// the decoded row alongside the kind so later stages never re-parse the
// raw payload.
type Classification struct {
	Kind domain.NotificationKind

	// Role is set for KindAssignmentCreated: the responsibility whose
	// assignee changed. When an update touches both roles in one write,
	// drop-off wins and only the drop-off assignee is notified.
	Role domain.AssignmentRole

	Assignment *domain.DayAssignmentRow
	Membership *domain.MembershipRow
}

// RecordID returns the mutated row's primary key for the data payload.
func (c *Classification) RecordID() string {
	if c.Assignment != nil {
		return c.Assignment.ID
	}
	if c.Membership != nil {
		return c.Membership.ID
	}
	return ""
}

// Classify decides whether a change event warrants a notification.
// Pure: no I/O, no state, same event in means same classification out.
//
// Returns (nil, nil) when no rule matches; that is a normal outcome, not
// an error. Returns an error only when a row on a known table cannot be
// decoded into its typed shape, which marks a malformed webhook.
func Classify(ev domain.ChangeEvent) (*Classification, error) {
	switch ev.Table {
	case domain.TableDayAssignments:
		return classifyDayAssignment(ev)
	case domain.TableGroupMemberships:
		return classifyMembership(ev)
	default:
		return nil, nil
	}
}

func classifyDayAssignment(ev domain.ChangeEvent) (*Classification, error) {
	row, old, err := ev.DayAssignmentRows()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
	}

	switch ev.Operation {
	case domain.OpInsert:
		if row.DropOffUserID != nil {
			return &Classification{Kind: domain.KindAssignmentCreated, Role: domain.RoleDropOff, Assignment: row}, nil
		}
		if row.PickUpUserID != nil {
			return &Classification{Kind: domain.KindAssignmentCreated, Role: domain.RolePickUp, Assignment: row}, nil
		}
	case domain.OpUpdate:
		if old == nil {
			return nil, nil
		}
		if row.DropOffUserID != nil && !uuidPtrEqual(row.DropOffUserID, old.DropOffUserID) {
			return &Classification{Kind: domain.KindAssignmentCreated, Role: domain.RoleDropOff, Assignment: row}, nil
		}
		if row.PickUpUserID != nil && !uuidPtrEqual(row.PickUpUserID, old.PickUpUserID) {
			return &Classification{Kind: domain.KindAssignmentCreated, Role: domain.RolePickUp, Assignment: row}, nil
		}
	}
	return nil, nil
}

func classifyMembership(ev domain.ChangeEvent) (*Classification, error) {
	row, old, err := ev.MembershipRows()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
	}

	switch ev.Operation {
	case domain.OpInsert:
		if row.Status == domain.MembershipPending {
			return &Classification{Kind: domain.KindJoinRequestCreated, Membership: row}, nil
		}
	case domain.OpUpdate:
		if old != nil && old.Status == domain.MembershipPending && row.Status == domain.MembershipApproved {
			return &Classification{Kind: domain.KindJoinRequestApproved, Membership: row}, nil
		}
	}
	return nil, nil
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
