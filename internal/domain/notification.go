package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind is the closed set of user-facing notification types.
// The string values travel in the FCM data payload for client deep-linking.
type NotificationKind string

const (
	KindAssignmentCreated   NotificationKind = "assignment_created"
	KindJoinRequestCreated  NotificationKind = "join_request_created"
	KindJoinRequestApproved NotificationKind = "join_request_approved"
)

// AssignmentRole identifies which pickup/drop-off responsibility an
// assignment notification describes.
type AssignmentRole string

const (
	RoleDropOff AssignmentRole = "drop_off"
	RolePickUp  AssignmentRole = "pick_up"
)

// Label is the Japanese role name used in message templates.
func (r AssignmentRole) Label() string {
	if r == RolePickUp {
		return "迎え"
	}
	return "送り"
}

// NotificationIntent names who gets notified and, when the event is
// attributable to a person, who caused it. SenderUserID is nil for
// system-generated notifications.
type NotificationIntent struct {
	Kind         NotificationKind
	TargetUserID uuid.UUID
	SenderUserID *uuid.UUID
}

// RenderedMessage is the composed, ready-to-send notification content.
type RenderedMessage struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

// Profile is the directory record for one app user.
type Profile struct {
	ID          uuid.UUID `json:"id" gorm:"column:id;primaryKey"`
	DisplayName string    `json:"display_name" gorm:"column:display_name"`
	FCMToken    *string   `json:"fcm_token" gorm:"column:fcm_token"`
}

// Delivery statuses recorded in the delivery log.
const (
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
)

// Delivery is one audit record of a push dispatch attempt.
type Delivery struct {
	DeliveryID string    `json:"id" dynamodbav:"delivery_id"`
	UserID     string    `json:"user_id" dynamodbav:"user_id"`
	Kind       string    `json:"kind" dynamodbav:"kind"`
	RecordID   string    `json:"record_id" dynamodbav:"record_id"`
	Title      string    `json:"title" dynamodbav:"title"`
	Status     string    `json:"status" dynamodbav:"status"`
	CreatedAt  time.Time `json:"created_at" dynamodbav:"created_at"`
}
