package dispatch

import (
	"fmt"

	"github.com/okurimukae/dispatch/internal/domain"
)

// fallbackSenderName is used when the requester's profile row is missing;
// a display-name miss must not abort an otherwise resolvable notification.
const fallbackSenderName = "メンバー"

// Compose renders the notification content for a classified event.
// Pure: every kind is handled explicitly, no default branch.
func Compose(c *Classification, senderName string) domain.RenderedMessage {
	var title, body string

	switch c.Kind {
	case domain.KindAssignmentCreated:
		role := c.Role.Label()
		title = fmt.Sprintf("%sの%s担当", c.Assignment.Date, role)
		body = fmt.Sprintf("%sの%s担当に設定されました", c.Assignment.Date, role)

	case domain.KindJoinRequestCreated:
		if senderName == "" {
			senderName = fallbackSenderName
		}
		title = "新しい参加リクエスト"
		body = fmt.Sprintf("%sさんがグループへの参加をリクエストしています", senderName)

	case domain.KindJoinRequestApproved:
		title = "参加が承認されました"
		body = "グループへの参加が承認されました。スケジュールにアクセスできるようになりました"
	}

	return domain.RenderedMessage{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"type":      string(c.Kind),
			"record_id": c.RecordID(),
		},
	}
}
