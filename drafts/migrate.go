package drafts

// MigrateKV copies every draft and the current-draft pointer from the
// key-value layout into a sqlite-backed store, preserving ids and
// timestamps. Existing rows with the same id are overwritten. Returns the
// number of drafts migrated.
func MigrateKV(src *KVStore, dst *BunStore) (int, error) {
	all := src.readAll()

	migrated := 0
	for _, draft := range all {
		if err := dst.restore(draft.Clone()); err != nil {
			return migrated, err
		}
		migrated++
	}

	if id, ok := src.CurrentID(); ok {
		if err := dst.SetCurrentID(id); err != nil {
			return migrated, err
		}
	}
	return migrated, nil
}
