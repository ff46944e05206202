package appointmentRepo

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DuplicateKeyError is the typed constraint-violation outcome of a write.
// Index names the violated unique index when the server reports one, so
// callers disambiguate on a tagged value instead of sniffing error text.
type DuplicateKeyError struct {
	Index string
}

func (e *DuplicateKeyError) Error() string {
	if e.Index == "" {
		return "appointment violates a unique constraint"
	}
	return fmt.Sprintf("appointment violates unique constraint %s", e.Index)
}

// IsDuplicate reports whether err is a constraint violation.
func IsDuplicate(err error) bool {
	var dup *DuplicateKeyError
	return errors.As(err, &dup)
}

// asDuplicate converts a raw driver error into the typed outcome, or
// returns nil when the error is not a duplicate-key failure.
func asDuplicate(err error) *DuplicateKeyError {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return &DuplicateKeyError{Index: violatedIndex(err)}
}

// violatedIndex extracts the name of the violated unique index from a
// write exception. Best effort: disambiguation re-queries regardless.
func violatedIndex(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if len(e.Details) > 0 {
				var payload struct {
					Index string `bson:"indexName"`
				}
				if bson.Unmarshal(e.Details, &payload) == nil && payload.Index != "" {
					return payload.Index
				}
			}
			for _, name := range []string{IndexUniqueSlot, IndexUniqueDateTime} {
				if strings.Contains(e.Message, name) {
					return name
				}
			}
		}
	}
	return ""
}
