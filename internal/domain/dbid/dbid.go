package dbid

import "github.com/google/uuid"

// Ensure assigns a fresh v4 id when id is unset. Models call it from their
// BeforeCreate hooks so inserts work on engines without uuid_generate_v4().
func Ensure(id *uuid.UUID) {
	if id != nil && *id == uuid.Nil {
		*id = uuid.New()
	}
}
