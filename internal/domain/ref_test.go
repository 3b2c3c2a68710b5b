package domain

import (
	"encoding/json"
	"testing"
)

func TestRefUnmarshal(t *testing.T) {
	t.Run("bare id string", func(t *testing.T) {
		var r Ref[User]
		if err := json.Unmarshal([]byte(`"user-1"`), &r); err != nil {
			t.Fatal(err)
		}
		if r.ID != "user-1" || r.Resolved() {
			t.Fatalf("expected unresolved ref with id user-1, got %+v", r)
		}
	})

	t.Run("populated object", func(t *testing.T) {
		var r Ref[User]
		raw := `{"_id":"user-1","username":"annak","fullName":"Anna K"}`
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			t.Fatal(err)
		}
		if !r.Resolved() {
			t.Fatal("expected resolved ref")
		}
		if r.ID != "user-1" || r.Value.Username != "annak" {
			t.Fatalf("unexpected ref: %+v", r)
		}
	})

	t.Run("null", func(t *testing.T) {
		r := IDRef[User]("stale")
		if err := json.Unmarshal([]byte(`null`), &r); err != nil {
			t.Fatal(err)
		}
		if r.ID != "" || r.Resolved() {
			t.Fatalf("expected cleared ref, got %+v", r)
		}
	})
}

func TestRefMarshal(t *testing.T) {
	bare := IDRef[User]("user-1")
	data, err := json.Marshal(bare)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"user-1"` {
		t.Errorf("bare ref should marshal to its id, got %s", data)
	}

	resolved := ResolvedRef(User{ID: "user-1", Username: "annak"})
	data, err = json.Marshal(resolved)
	if err != nil {
		t.Fatal(err)
	}
	var back User
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.ID != "user-1" || back.Username != "annak" {
		t.Errorf("resolved ref should marshal the object, got %s", data)
	}
}

func TestMatchesQuery(t *testing.T) {
	conv := &Conversation{
		ID: "c1",
		Participants: []User{
			{ID: "u1", Username: "annak", FullName: "Anna Kowalski"},
			{ID: "u2", Username: "bdesign", FullName: "Bob Designer"},
		},
	}

	cases := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"anna", true},
		{"KOWALSKI", true},
		{"bdesign", true},
		{"  bob  ", true},
		{"charlie", false},
	}
	for _, tc := range cases {
		if got := conv.MatchesQuery(tc.query); got != tc.want {
			t.Errorf("MatchesQuery(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}
