package model

// UUIDFilter is a tri-state reference filter: unset (any), explicitly
// null (the "uncategorized" / "top-level only" sentinel), or a specific
// id. It keeps the list-query semantics testable instead of spreading
// conditional branches through the DAO.
type UUIDFilter struct {
	Set  bool
	Null bool
	ID   string
}

func FilterAny() UUIDFilter        { return UUIDFilter{} }
func FilterNull() UUIDFilter       { return UUIDFilter{Set: true, Null: true} }
func FilterID(id string) UUIDFilter { return UUIDFilter{Set: true, ID: id} }

// TaskListFilters is the typed query specification for listing tasks.
// Zero value lists all incomplete tasks for the owner, newest first.
type TaskListFilters struct {
	IncludeCompleted bool
	Focused          *bool
	Category         UUIDFilter
	Parent           UUIDFilter
}
