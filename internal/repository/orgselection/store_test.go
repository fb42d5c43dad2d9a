package orgselection

import (
	"context"
	"errors"
	"testing"
)

const testPrefix = "opsconsole:"

func TestStore_GetUnset(t *testing.T) {
	s := New(newMemKV(), testPrefix)
	got, err := s.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected unset, got %d", *got)
	}
}

func TestStore_SetGetClear(t *testing.T) {
	kv := newMemKV()
	s := New(kv, testPrefix)
	ctx := context.Background()

	if err := s.Set(ctx, "user-1", 7); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if raw := string(kv.data["opsconsole:session:user-1:current_org"]); raw != "7" {
		t.Fatalf("stored %q under the wrong key or format", raw)
	}

	got, err := s.Get(ctx, "user-1")
	if err != nil || got == nil || *got != 7 {
		t.Fatalf("Get = %v, %v; want 7", got, err)
	}

	if err := s.Clear(ctx, "user-1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got, _ := s.Get(ctx, "user-1"); got != nil {
		t.Fatalf("expected unset after clear, got %d", *got)
	}
}

func TestStore_LastWriteWins(t *testing.T) {
	s := New(newMemKV(), testPrefix)
	ctx := context.Background()
	_ = s.Set(ctx, "u", 7)
	_ = s.Set(ctx, "u", 9)
	got, _ := s.Get(ctx, "u")
	if got == nil || *got != 9 {
		t.Fatalf("expected 9, got %v", got)
	}
}

func TestStore_SubjectsIsolated(t *testing.T) {
	s := New(newMemKV(), testPrefix)
	ctx := context.Background()
	_ = s.Set(ctx, "a", 7)
	if got, _ := s.Get(ctx, "b"); got != nil {
		t.Fatalf("subject b sees %d", *got)
	}
}

func TestStore_GarbageIsUnset(t *testing.T) {
	for _, raw := range []string{"abc", "", "0", "-4", "7.5"} {
		kv := newMemKV()
		kv.data["opsconsole:session:u:current_org"] = []byte(raw)
		got, err := New(kv, testPrefix).Get(context.Background(), "u")
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", raw, err)
		}
		if got != nil {
			t.Errorf("%q: expected unset, got %d", raw, *got)
		}
	}
}

func TestStore_Errors(t *testing.T) {
	kv := newMemKV()
	boom := errors.New("boom")
	kv.getErr = boom
	kv.setErr = boom
	s := New(kv, testPrefix)

	if _, err := s.Get(context.Background(), "u"); !errors.Is(err, boom) {
		t.Errorf("Get err = %v, want wrapped boom", err)
	}
	if err := s.Set(context.Background(), "u", 1); !errors.Is(err, boom) {
		t.Errorf("Set err = %v, want wrapped boom", err)
	}
}
