package grouping

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// OperationKind says why a collection mutation was refused.
type OperationKind string

const (
	UnknownGroup               OperationKind = "unknown_group"
	InsufficientGroupsForMerge OperationKind = "insufficient_groups_for_merge"
	InsufficientPhotosForSplit OperationKind = "insufficient_photos_for_split"
	InvalidRating              OperationKind = "invalid_rating"
)

// InvalidOperation is returned for expected misuse. The collection is left
// exactly as it was.
type InvalidOperation struct {
	Kind    OperationKind
	GroupID string
}

func (e *InvalidOperation) Error() string {
	switch e.Kind {
	case UnknownGroup:
		return fmt.Sprintf("group %q not found", e.GroupID)
	case InsufficientGroupsForMerge:
		return "merge needs at least two distinct existing groups"
	case InsufficientPhotosForSplit:
		return fmt.Sprintf("group %q needs at least two photos to split", e.GroupID)
	case InvalidRating:
		return fmt.Sprintf("rating for group %q must be between 1 and 5", e.GroupID)
	default:
		return fmt.Sprintf("invalid operation %s on group %q", e.Kind, e.GroupID)
	}
}

// IsInvalidOperation reports whether err is an InvalidOperation of the given kind.
func IsInvalidOperation(err error, kind OperationKind) bool {
	var op *InvalidOperation
	return errors.As(err, &op) && op.Kind == kind
}

// ConsistencyError means the collection lost or duplicated a photo. Public
// operations cannot produce it; seeing one is a bug.
type ConsistencyError struct {
	Missing    []string
	Unexpected []string
	Duplicated []string
	Reason     string
}

func (e *ConsistencyError) Error() string {
	var parts []string
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	if len(e.Missing) > 0 {
		parts = append(parts, "missing photos "+strings.Join(e.Missing, ","))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected photos "+strings.Join(e.Unexpected, ","))
	}
	if len(e.Duplicated) > 0 {
		parts = append(parts, "duplicated photos "+strings.Join(e.Duplicated, ","))
	}
	return "group collection inconsistent: " + strings.Join(parts, "; ")
}
