package types

type SyncStatus string

const (
	SyncStatusNever   SyncStatus = "never"
	SyncStatusSyncing SyncStatus = "syncing"
	SyncStatusOk      SyncStatus = "ok"
	SyncStatusError   SyncStatus = "error"
)

type SyncRunStatus string

const (
	SyncRunOk        SyncRunStatus = "ok"
	SyncRunError     SyncRunStatus = "error"
	SyncRunCancelled SyncRunStatus = "cancelled"
)

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)
