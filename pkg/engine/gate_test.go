package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/cipherhq/dirgate/pkg/directory"
)

func TestMembershipGate_EmptyGroupsAllowsWithoutDirectory(t *testing.T) {
	dir := &fakeDirectory{adminErr: errors.New("should not be called")}
	gate := NewMembershipGate(dir, directory.NewIdentity("admin", "example.com"), "pw", nil)

	allowed, err := gate.Allowed(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Allowed() error: %v", err)
	}
	if !allowed {
		t.Error("Allowed() = false, want true for empty group set")
	}
	if dir.adminCalls != 0 {
		t.Errorf("admin login called %d times, want 0", dir.adminCalls)
	}
}

func TestMembershipGate_AdminLoginFailureWrapped(t *testing.T) {
	dir := &fakeDirectory{adminErr: directory.ErrBadCredential}
	gate := NewMembershipGate(dir, directory.NewIdentity("admin", "example.com"), "pw", []string{"staff"})

	allowed, err := gate.Allowed(context.Background(), "alice")
	if allowed {
		t.Error("Allowed() = true, want false when admin login fails")
	}
	if !errors.Is(err, directory.ErrBadCredential) {
		t.Errorf("Allowed() error = %v, want wrapped %v", err, directory.ErrBadCredential)
	}
}

func TestMembershipGate_StopsAtFirstMatchingGroup(t *testing.T) {
	dir := &fakeDirectory{memberOf: map[string][]string{"alice": {"admins"}}}
	gate := NewMembershipGate(dir, directory.NewIdentity("admin", "example.com"), "pw",
		[]string{"admins", "ops", "staff"})

	allowed, err := gate.Allowed(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Allowed() error: %v", err)
	}
	if !allowed {
		t.Error("Allowed() = false, want true for member of first group")
	}
}

func TestMembershipGate_NoMatchingGroup(t *testing.T) {
	dir := &fakeDirectory{memberOf: map[string][]string{"alice": {"guests"}}}
	gate := NewMembershipGate(dir, directory.NewIdentity("admin", "example.com"), "pw",
		[]string{"admins", "staff"})

	allowed, err := gate.Allowed(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Allowed() error: %v", err)
	}
	if allowed {
		t.Error("Allowed() = true, want false for non-member")
	}
}
