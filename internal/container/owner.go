package container

// Account used when the workspace is owned by root.
const (
	FallbackUID = 1000
	FallbackGID = 1000
)

// WorkspaceUser decides which account runs against a workspace owned by
// uid:gid. Root ownership maps to the fallback account, and the second
// return value reports that the workspace must be handed over to it.
func WorkspaceUser(uid, gid int) (int, int, bool) {
	if uid == 0 {
		return FallbackUID, FallbackGID, true
	}
	return uid, gid, false
}
