package domain

import "time"

type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeWarn  NoticeLevel = "warn"
	NoticeError NoticeLevel = "error"
)

// Notice is a non-blocking message for the shopper.
type Notice struct {
	Level     NoticeLevel `json:"level"`
	Component string      `json:"component,omitempty"`
	Message   string      `json:"message"`
	At        time.Time   `json:"at"`
}
