package models

type UserRole string
type ContentStatus string
type OTPPurpose string
type ModerationAction string
type ContentType string
type NotificationType string

const (
	UserRoleMember    UserRole = "member"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"

	// Статусы контента форума
	ContentStatusPending  ContentStatus = "pending"
	ContentStatusApproved ContentStatus = "approved"
	ContentStatusRejected ContentStatus = "rejected"
	ContentStatusDeleted  ContentStatus = "deleted"

	// Назначение одноразового кода
	OTPPurposeVerification OTPPurpose = "verification"
	OTPPurposeLogin        OTPPurpose = "login" // второй фактор при входе

	ModerationActionApprove ModerationAction = "approve"
	ModerationActionReject  ModerationAction = "reject"
	ModerationActionDelete  ModerationAction = "delete"

	ContentTypePost    ContentType = "post"
	ContentTypeComment ContentType = "comment"

	NotificationTypeComment NotificationType = "new_comment"
	NotificationTypeLike    NotificationType = "new_like"
	NotificationTypeReply   NotificationType = "new_reply"
	NotificationTypeSystem  NotificationType = "system"
)
