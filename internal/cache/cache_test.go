package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/yakhteh/yakhteh/internal/api"
	"github.com/yakhteh/yakhteh/internal/credstore"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var _ credstore.Store = (*DB)(nil)

func TestSessionTableStore(t *testing.T) {
	db := openTestDB(t)

	if _, ok, err := db.Read(credstore.TokenKey); err != nil || ok {
		t.Fatalf("read empty = ok %v err %v", ok, err)
	}
	for _, v := range []string{"abc", "def"} {
		if err := db.Write(credstore.TokenKey, v); err != nil {
			t.Fatalf("write %q: %v", v, err)
		}
		if got, ok, _ := db.Read(credstore.TokenKey); !ok || got != v {
			t.Fatalf("read = %q ok %v, want %q", got, ok, v)
		}
	}
	for i := 0; i < 2; i++ {
		if err := db.Remove(credstore.TokenKey); err != nil {
			t.Fatalf("remove #%d: %v", i+1, err)
		}
	}
	if _, ok, _ := db.Read(credstore.TokenKey); ok {
		t.Fatal("token still present after remove")
	}
}

func TestSessionSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Write(credstore.TokenKey, "abc"); err != nil {
		t.Fatalf("write: %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if got, ok, _ := db.Read(credstore.TokenKey); !ok || got != "abc" {
		t.Fatalf("read after reopen = %q ok %v", got, ok)
	}
}

func TestProfileCache(t *testing.T) {
	db := openTestDB(t)

	if u, _, err := db.LatestProfile(time.Minute); err != nil || u != nil {
		t.Fatalf("latest on empty = %+v err %v", u, err)
	}

	want := &api.User{ID: "u1", Email: "doc@example.com", FullName: "Dr. A", Role: "doctor", IsActive: true}
	if err := db.PutProfile(want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, fresh, err := db.LatestProfile(time.Minute)
	if err != nil || got == nil {
		t.Fatalf("latest = %+v err %v", got, err)
	}
	if *got != *want || !fresh {
		t.Fatalf("got %+v fresh %v, want %+v fresh", got, fresh, want)
	}

	if _, fresh, _ := db.LatestProfile(0); fresh {
		t.Fatal("zero ttl should never be fresh")
	}

	if err := db.ClearProfiles(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if u, _, _ := db.LatestProfile(time.Minute); u != nil {
		t.Fatalf("profile survived clear: %+v", u)
	}
}
