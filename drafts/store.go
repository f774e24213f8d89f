// Package drafts persists document snapshots with metadata and tracks which
// draft is currently open. Operations are synchronous and fail soft: reads
// surface missing data through sentinel errors or empty results, writes
// report failure without panicking, and corrupted stored payloads read as
// empty rather than propagating parse errors.
package drafts

// Store is the persistence contract for drafts. Two implementations exist:
// KVStore keeps the key-value JSON layout (one entry mapping id to draft, one
// entry holding the current id), BunStore keeps drafts in sqlite.
//
// Semantics shared by all implementations:
//   - Save with a known existingID overwrites in place and keeps the id;
//     otherwise a fresh id is minted. Every successful save makes the saved
//     draft current.
//   - Load makes the loaded draft current.
//   - The current pointer, when it references a missing draft, is treated as
//     absent.
//   - Delete of the current draft clears the pointer.
type Store interface {
	Save(content string, fileName *string, existingID string) (string, error)
	Load(id string) (*Draft, error)
	LoadLast() (*Draft, error)
	List() []*Draft
	Delete(id string) bool
	CurrentID() (string, bool)
	SetCurrentID(id string) error
	ClearCurrentID()
}
