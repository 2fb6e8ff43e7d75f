package pipeline

import (
	"testing"

	"roomstudio/internal/api"
)

func TestStore_SnapshotIsIndependent(t *testing.T) {
	s := NewStore()
	s.apply(func(st *State) {
		st.Objects = []api.RoomObject{{ID: "bed_1", Label: "bed"}}
		st.Messages = []ChatMessage{{Role: RoleUser, Text: "hi"}}
		st.ShopResult = &api.ShopResponse{Items: []api.ShopItem{{FurnitureID: "bed_1"}}}
	})

	snap := s.Snapshot()
	snap.Objects[0].ID = "mutated"
	snap.Messages[0].Text = "mutated"
	snap.ShopResult.Items[0].FurnitureID = "mutated"

	fresh := s.Snapshot()
	if fresh.Objects[0].ID != "bed_1" {
		t.Fatal("snapshot shares object storage with the store")
	}
	if fresh.Messages[0].Text != "hi" {
		t.Fatal("snapshot shares message storage with the store")
	}
	if fresh.ShopResult.Items[0].FurnitureID != "bed_1" {
		t.Fatal("snapshot shares shop result storage with the store")
	}
}

func TestStore_InitialSnapshot(t *testing.T) {
	st := NewStore().Snapshot()
	if st.Stage != StageUpload {
		t.Fatalf("initial stage = %v, want upload", st.Stage)
	}
	if st.SelectedVariation != -1 {
		t.Fatalf("initial variation = %d, want -1", st.SelectedVariation)
	}
	if st.Budget != DefaultBudget {
		t.Fatalf("initial budget = %v, want %d", st.Budget, DefaultBudget)
	}
	if st.Loading.Any() {
		t.Fatal("initial state reports an operation in flight")
	}
}

func TestClampBudget(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{-50, 100},
		{0, 100},
		{99.99, 100},
		{100, 100},
		{1500, 1500},
	}
	for _, tc := range cases {
		if got := ClampBudget(tc.in); got != tc.want {
			t.Fatalf("ClampBudget(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
