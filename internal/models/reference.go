package models

// Entity kinds, used in messages and reference audits
const (
	KindUser    = "User"
	KindForum   = "Forum"
	KindPost    = "Post"
	KindComment = "Comment"
)

// DanglingReference is a back-reference whose child record no longer exists
type DanglingReference struct {
	ParentKind string `json:"parent_kind"`
	ParentID   string `json:"parent_id"`
	ChildKind  string `json:"child_kind"`
	ChildID    string `json:"child_id"`
}
