// Package tasks 定义了通过消息队列传递的内容变更事件。
package tasks

import "time"

const (
	EntityArticle = "article"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ContentEvent 描述一次内容变更。ID 为父实体 ID。
type ContentEvent struct {
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewContentEvent 创建一个以当前时间为发生时间的事件。
func NewContentEvent(entity, action, id string) ContentEvent {
	return ContentEvent{Entity: entity, Action: action, ID: id, OccurredAt: time.Now().UTC()}
}
