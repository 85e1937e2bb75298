package standings

import "testing"

func TestSort_ConferenceRecordFirst(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Team: "Kentucky", Wins: 22, Losses: 9, ConfWins: 10, ConfLosses: 8},
		{Team: "Auburn", Wins: 28, Losses: 3, ConfWins: 15, ConfLosses: 3},
		{Team: "Florida", Wins: 27, Losses: 4, ConfWins: 14, ConfLosses: 4},
		{Team: "Alabama", Wins: 25, Losses: 6, ConfWins: 14, ConfLosses: 4},
		{Team: "Tennessee", Wins: 25, Losses: 5, ConfWins: 14, ConfLosses: 4},
	}
	Sort(entries)

	want := []string{"Auburn", "Florida", "Tennessee", "Alabama", "Kentucky"}
	for i, name := range want {
		if entries[i].Team != name {
			t.Fatalf("unexpected order at %d: got=%s want=%s", i, entries[i].Team, name)
		}
	}
}

func TestIsAP(t *testing.T) {
	t.Parallel()

	if !IsAP("AP Top 25", "") || !IsAP("", "Associated Press") {
		t.Fatalf("expected AP poll to be recognized")
	}
	if IsAP("Coaches Poll", "USA Today") {
		t.Fatalf("coaches poll must not be recognized as AP")
	}
}
