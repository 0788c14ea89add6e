package models

import "time"

// ContentType enumerates material payload kinds.
type ContentType string

const (
	ContentVideo          ContentType = "video"
	ContentText           ContentType = "text"
	ContentAudio          ContentType = "audio"
	ContentImage          ContentType = "image"
	ContentOfficeDocument ContentType = "office_document"
	ContentScript         ContentType = "script"
	ContentDocument       ContentType = "document"
)

// Material is a learning material attached to a course. OrderPosition is the
// material's place in the course (dense 1..N per course).
type Material struct {
	ID            int64       `json:"id" db:"id"`
	CourseID      int64       `json:"courseId" db:"course_id"`
	Title         string      `json:"title" db:"title"`
	ContentType   ContentType `json:"contentType" db:"content_type"`
	ContentURL    *string     `json:"contentUrl,omitempty" db:"content_url"`
	Description   *string     `json:"description,omitempty" db:"description"`
	Caption       *string     `json:"caption,omitempty" db:"caption"`
	IsActive      bool        `json:"isActive" db:"is_active"`
	ExternalUID   *string     `json:"externalUid,omitempty" db:"external_uid"` // Unique per course, used by imports
	OrderPosition int32       `json:"orderPosition" db:"order_position"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time   `json:"updatedAt" db:"updated_at"`
}

// ValidContentType reports whether v is one of the known content types.
func ValidContentType(v ContentType) bool {
	switch v {
	case ContentVideo, ContentText, ContentAudio, ContentImage, ContentOfficeDocument, ContentScript, ContentDocument:
		return true
	}
	return false
}
