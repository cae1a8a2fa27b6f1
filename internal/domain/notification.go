package domain

type NotificationKind string

const (
	NotificationChannelCreated   NotificationKind = "channel_created"
	NotificationDMChannelCreated NotificationKind = "dm_channel_created"
	NotificationMemberAdded      NotificationKind = "member_added"
)
