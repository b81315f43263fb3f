package upload

// File states through the batch lifecycle.
const (
	StatePending   = "pending"
	StateUploading = "uploading"
	StateSuccess   = "success"
	StateError     = "error"
)

// FileState tracks one selected file through the batch.
type FileState struct {
	OriginalName string
	State        string
	Error        string
}

// Reconcile matches server-returned original names against the batch's file
// states. Matched files move to success; unmatched files keep their prior
// state. Duplicate original names consume returned records first-unmatched in
// submission order.
func Reconcile(files []FileState, returnedNames []string) []FileState {
	out := append([]FileState(nil), files...)
	remaining := make(map[string]int, len(returnedNames))
	for _, name := range returnedNames {
		remaining[name]++
	}
	for i := range out {
		if remaining[out[i].OriginalName] > 0 {
			remaining[out[i].OriginalName]--
			out[i].State = StateSuccess
			out[i].Error = ""
		}
	}
	return out
}

// MarkAllFailed moves every in-flight file to the error state with the given
// message; used when the batch request itself fails.
func MarkAllFailed(files []FileState, message string) []FileState {
	out := append([]FileState(nil), files...)
	for i := range out {
		if out[i].State == StateUploading || out[i].State == StatePending {
			out[i].State = StateError
			out[i].Error = message
		}
	}
	return out
}
