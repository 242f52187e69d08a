package models

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, found, err := store.Get(ctx, "k"); err != nil || found {
		t.Fatalf("expected absent key, got found=%v err=%v", found, err)
	}
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	if v, found, _ := store.Get(ctx, "k"); !found || v != "v" {
		t.Fatalf("expected v, got %q found=%v", v, found)
	}
	if err := store.Remove(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := store.Get(ctx, "k"); found {
		t.Fatal("expected key to be removed")
	}
	if err := store.Remove(ctx, "missing"); err != nil {
		t.Fatalf("removing a missing key should not fail: %v", err)
	}
}

func TestKVRepoProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepo(NewMemoryStore())

	if p, err := repo.GetProfile(ctx); err != nil || p != nil {
		t.Fatalf("expected no profile, got %+v err=%v", p, err)
	}

	in := validProfile()
	in.Social = map[string]string{"github": "https://github.com/ada"}
	in.PasswordNew = "longenough1"
	in.PasswordConfirm = "longenough1"
	if err := repo.SaveProfile(ctx, in); err != nil {
		t.Fatal(err)
	}

	out, err := repo.GetProfile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := in.WithoutPasswords()
	if !reflect.DeepEqual(*out, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *out, want)
	}

	if err := repo.DeleteProfile(ctx); err != nil {
		t.Fatal(err)
	}
	if p, _ := repo.GetProfile(ctx); p != nil {
		t.Error("expected profile to be erased")
	}
}

func TestKVRepoProfileMissingKeysKeepDefaults(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Set(ctx, ProfileKey, `{"name":"Ada"}`)

	p, err := NewKVRepo(store).GetProfile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Ada" || !p.DarkMode || p.Language != LanguageEnglish {
		t.Errorf("defaults not applied: %+v", p)
	}
	if _, ok := p.Social["google"]; !ok {
		t.Errorf("expected default social links, got %v", p.Social)
	}
}

func TestKVRepoCorruptRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Set(ctx, ProfileKey, "{not json")
	_ = store.Set(ctx, CatalogKey, "[{")
	repo := NewKVRepo(store)

	if _, err := repo.GetProfile(ctx); !errors.Is(err, ErrCorruptRecord) {
		t.Errorf("expected corrupt profile error, got %v", err)
	}
	if _, err := repo.GetCatalog(ctx); !errors.Is(err, ErrCorruptRecord) {
		t.Errorf("expected corrupt catalog error, got %v", err)
	}
}

func TestKVRepoCatalogReadsLegacyComment(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Set(ctx, CatalogKey, `[{"id":1,"title":"T","reviews":[{"id":7,"rating":4,"comment":"old shape"}]},{"id":2,"title":"U"}]`)

	items, err := NewKVRepo(store).GetCatalog(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := items[0].Reviews[0].Text; got != "old shape" {
		t.Errorf("expected legacy comment to be read as text, got %q", got)
	}
	if items[1].Reviews == nil {
		t.Error("expected missing reviews to decode as an empty list")
	}
}

func TestKVRepoIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewKVRepo(store)

	tests := []struct {
		name    string
		current string
		user    string
		want    string
	}{
		{"no identity", "", "", GuestName},
		{"user record", "", `{"name":"Omar"}`, "Omar"},
		{"current user first", `{"name":"Laila"}`, `{"name":"Omar"}`, "Laila"},
		{"nameless record", `{"email":"x@y.z"}`, "", GuestName},
		{"unreadable record", `nope`, "", GuestName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_ = repo.ClearIdentity(ctx)
			if tt.current != "" {
				_ = store.Set(ctx, CurrentUserKey, tt.current)
			}
			if tt.user != "" {
				_ = store.Set(ctx, UserKey, tt.user)
			}
			id, err := repo.GetIdentity(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if id.Name != tt.want {
				t.Errorf("expected %q, got %q", tt.want, id.Name)
			}
		})
	}
}

func TestSeedCatalog(t *testing.T) {
	items := SeedCatalog()
	if len(items) != 5 {
		t.Fatalf("expected 5 seeded items, got %d", len(items))
	}
	for i, it := range items {
		if it.ID != i+1 {
			t.Errorf("item %d has id %d", i, it.ID)
		}
		if it.Reviews == nil || len(it.Reviews) != 0 {
			t.Errorf("item %d should start with an empty review list", it.ID)
		}
	}
	if items[0].Title != "أرض زيكولا" {
		t.Errorf("unexpected first title %q", items[0].Title)
	}
}

func TestSummaryAndStars(t *testing.T) {
	it := CatalogItem{Reviews: []Review{{Rating: 5}, {Rating: 2}}}
	s := it.Summary()
	if s.TotalCount != 2 || s.AverageRating != 3.5 {
		t.Errorf("unexpected summary %+v", s)
	}
	if got := RenderStars(3); got != "★★★☆☆" {
		t.Errorf("unexpected stars %q", got)
	}
	if got := RenderStars(9); got != "★★★★★" {
		t.Errorf("expected clamp, got %q", got)
	}
}
