package container

// Owner reports the fallback account; Windows paths carry no uid/gid.
func Owner(path string) (int, int, error) {
	return FallbackUID, FallbackGID, nil
}

// ChownTree is a no-op on Windows.
func ChownTree(path string, uid, gid int) error {
	return nil
}
