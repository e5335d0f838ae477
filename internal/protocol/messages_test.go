package protocol

import "testing"

func TestConnectRoundTripsAuthToken(t *testing.T) {
	original := &Connect{AuthToken: "tok-123"}
	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Connect
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Type != TypeConnect || decoded.AuthToken != "tok-123" || decoded.IsBot {
		t.Errorf("got %+v", decoded)
	}
}

func TestConnectRoundTripsBotCredential(t *testing.T) {
	original := &Connect{IsBot: true, BotName: "ManiacBot-3", BotAvatar: "shark.png"}
	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Connect
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !decoded.IsBot || decoded.BotName != "ManiacBot-3" || decoded.BotAvatar != "shark.png" {
		t.Errorf("got %+v", decoded)
	}
}

func TestPeekTypeReadsTheDiscriminatorWithoutFullDecode(t *testing.T) {
	data, err := Marshal(&GameAction{Action: "raise", Amount: 40})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := PeekType(data)
	if err != nil {
		t.Fatalf("PeekType: %v", err)
	}
	if got != TypeGameAction {
		t.Errorf("PeekType = %q, want %q", got, TypeGameAction)
	}
}

func TestGameStateRoundTripsNestedSeats(t *testing.T) {
	original := &GameState{
		HandID: "h1", Street: "flop", Board: []string{"As", "Kd", "2c"}, Pot: 120, CurrentSeat: 3,
		Seats: []SeatView{
			{Seat: 0, UserID: "u1", Name: "alice", Chips: 480, Bet: 20},
			{Seat: 1, UserID: "u2", Name: "bob", Chips: 0, AllIn: true, Folded: false},
		},
	}
	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded GameState
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.HandID != "h1" || decoded.Pot != 120 || len(decoded.Board) != 3 {
		t.Fatalf("got %+v", decoded)
	}
	if len(decoded.Seats) != 2 || decoded.Seats[1].UserID != "u2" || !decoded.Seats[1].AllIn {
		t.Fatalf("seats mismatch: %+v", decoded.Seats)
	}
}

func TestGameHandCompleteRoundTripsWinnersAndShowdown(t *testing.T) {
	original := &GameHandComplete{
		HandID: "h2", Board: []string{"2c", "7d", "9h", "Ts", "Ah"},
		Winners:  []Winner{{Seat: 2, Amount: 340, HoleCards: []string{"As", "Ac", "Kd", "Kc"}, HandRank: "Two Pair, Aces and Kings"}},
		Showdown: []ShowdownHand{{Seat: 4, HoleCards: []string{"Qh", "Qd", "4c", "5s"}, HandRank: "Pair of Queens"}},
	}
	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded GameHandComplete
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded.Winners) != 1 || decoded.Winners[0].Amount != 340 {
		t.Fatalf("winners mismatch: %+v", decoded.Winners)
	}
	if len(decoded.Showdown) != 1 || decoded.Showdown[0].HandRank != "Pair of Queens" {
		t.Fatalf("showdown mismatch: %+v", decoded.Showdown)
	}
}

func TestGameAllHoleCardsRoundTripsSeatKeyedMap(t *testing.T) {
	original := &GameAllHoleCards{HandID: "h3", Hands: map[int][]string{
		0: {"As", "Ah", "Kc", "Kd"},
		3: {"2c", "2d", "7h", "9s"},
	}}
	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded GameAllHoleCards
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded.Hands[0]) != 4 || len(decoded.Hands[3]) != 4 {
		t.Fatalf("got %+v", decoded.Hands)
	}
}

func TestTableErrorRoundTrips(t *testing.T) {
	data, err := Marshal(&TableError{Code: "bad_input", Message: "not your turn"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded TableError
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Code != "bad_input" || decoded.Message != "not your turn" {
		t.Errorf("got %+v", decoded)
	}
}

func TestGameCompletedRoundTripsPlayerSummaries(t *testing.T) {
	original := &GameCompleted{
		TableID: "t1", HandsCompleted: 50, HandLimit: 50, Reason: "hand_limit", Seed: 7,
		Players: []GameCompletedPlayer{
			{UserID: "bot-1", DisplayName: "ManiacBot", Hands: 50, NetChips: -120, TotalWon: 300, TotalLost: 420},
		},
	}
	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded GameCompleted
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.HandsCompleted != 50 || decoded.Reason != "hand_limit" {
		t.Errorf("got %+v", decoded)
	}
	if len(decoded.Players) != 1 || decoded.Players[0].UserID != "bot-1" || decoded.Players[0].NetChips != -120 || decoded.Players[0].TotalLost != 420 {
		t.Errorf("players mismatch: %+v", decoded.Players)
	}
}
