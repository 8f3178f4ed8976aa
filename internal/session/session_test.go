package session

import (
	"reflect"
	"testing"
)

func TestSelectionIsPerCategory(t *testing.T) {
	sess := New("alice")
	if !sess.Toggle("tasks", 2) {
		t.Fatalf("expected first toggle to select")
	}
	sess.Toggle("tasks", 0)
	sess.Toggle("plans", 1)

	if got := sess.Selected("tasks"); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Fatalf("unexpected task selection %v", got)
	}
	if sess.IsSelected("plans", 0) {
		t.Fatalf("plans selection leaked from tasks")
	}
	if sess.Toggle("tasks", 2) {
		t.Fatalf("expected second toggle to deselect")
	}
	sess.ClearSelection("tasks")
	if len(sess.Selected("tasks")) != 0 {
		t.Fatalf("expected cleared selection")
	}
	if !sess.IsSelected("plans", 1) {
		t.Fatalf("clearing tasks must not touch plans")
	}
}
