package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Operation is the row-level mutation type reported by the database webhook.
type Operation string

const (
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

// Table names this service reacts to. Everything else is a no-op.
const (
	TableDayAssignments   = "day_assignments"
	TableGroupMemberships = "group_memberships"
)

// ChangeEvent is the inbound webhook envelope describing one row mutation.
// Record and OldRecord stay raw until the table is known; they are decoded
// into the table-specific row type right after the table switch.
type ChangeEvent struct {
	Operation Operation       `json:"type" validate:"required,oneof=INSERT UPDATE DELETE"`
	Table     string          `json:"table" validate:"required"`
	Schema    string          `json:"schema"`
	Record    json.RawMessage `json:"record"`
	OldRecord json.RawMessage `json:"old_record"`
}

// DayAssignmentRow is the typed shape of a day_assignments row. The two role
// fields are nullable: each day has at most one assignee per role.
type DayAssignmentRow struct {
	ID            string     `json:"id"`
	Date          string     `json:"date"`
	DropOffUserID *uuid.UUID `json:"drop_off_user_id"`
	PickUpUserID  *uuid.UUID `json:"pick_up_user_id"`
}

// MembershipRow is the typed shape of a group_memberships row.
type MembershipRow struct {
	ID      string    `json:"id"`
	GroupID uuid.UUID `json:"group_id"`
	UserID  uuid.UUID `json:"user_id"`
	Status  string    `json:"status"`
}

// Membership status values relevant to classification.
const (
	MembershipPending  = "pending"
	MembershipApproved = "approved"
)

// DayAssignmentRows decodes Record and, when present, OldRecord.
// old is nil for INSERT events.
func (e ChangeEvent) DayAssignmentRows() (row *DayAssignmentRow, old *DayAssignmentRow, err error) {
	row = &DayAssignmentRow{}
	if err := json.Unmarshal(e.Record, row); err != nil {
		return nil, nil, fmt.Errorf("decode day_assignments record: %w", err)
	}
	if len(e.OldRecord) > 0 {
		old = &DayAssignmentRow{}
		if err := json.Unmarshal(e.OldRecord, old); err != nil {
			return nil, nil, fmt.Errorf("decode day_assignments old_record: %w", err)
		}
	}
	return row, old, nil
}

// MembershipRows decodes Record and, when present, OldRecord.
func (e ChangeEvent) MembershipRows() (row *MembershipRow, old *MembershipRow, err error) {
	row = &MembershipRow{}
	if err := json.Unmarshal(e.Record, row); err != nil {
		return nil, nil, fmt.Errorf("decode group_memberships record: %w", err)
	}
	if len(e.OldRecord) > 0 {
		old = &MembershipRow{}
		if err := json.Unmarshal(e.OldRecord, old); err != nil {
			return nil, nil, fmt.Errorf("decode group_memberships old_record: %w", err)
		}
	}
	return row, old, nil
}
