package domain

// SyncState is the position of the sync engine in its state machine.
type SyncState int

const (
	// SyncIdle means no sync is running and no result is on display.
	SyncIdle SyncState = iota

	// SyncInProgress means a fetch is in flight.
	SyncInProgress

	// SyncSucceeded means the last sync merged and persisted.
	SyncSucceeded

	// SyncFailed means the last sync or publish did not complete.
	SyncFailed
)

// String returns a machine-friendly name for the state.
func (s SyncState) String() string {
	switch s {
	case SyncIdle:
		return "idle"
	case SyncInProgress:
		return "in_progress"
	case SyncSucceeded:
		return "succeeded"
	case SyncFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status messages shown to the user.
const (
	MessageSyncing       = "Syncing with server..."
	MessageSynced        = "Sync complete. Server data synced."
	MessageSyncFailed    = "Sync failed. Please check your connection."
	MessagePublished     = "Quote published to server."
	MessagePublishFailed = "Quote saved locally; server publish failed."
)

// SyncStatus is the transient status exposed to the UI.
type SyncStatus struct {
	State   SyncState
	Message string
}

// IdleStatus is the resting status with no message.
func IdleStatus() SyncStatus {
	return SyncStatus{State: SyncIdle}
}

// InProgressStatus is reported while a fetch is in flight.
func InProgressStatus() SyncStatus {
	return SyncStatus{State: SyncInProgress, Message: MessageSyncing}
}

// SucceededStatus is reported after a successful merge or publish.
func SucceededStatus(message string) SyncStatus {
	return SyncStatus{State: SyncSucceeded, Message: message}
}

// FailedStatus is reported after a failed fetch, persist or publish.
func FailedStatus(message string) SyncStatus {
	return SyncStatus{State: SyncFailed, Message: message}
}
