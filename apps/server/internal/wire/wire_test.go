package wire

import "testing"

func TestEncodeDecodeRequestRoundTrips(t *testing.T) {
	req := Request{Type: ReqMove, GameID: "g1", Piece: "wS1", Destination: "."}
	data, err := EncodeRequest(req)
	if err != nil {
		t.Fatal(err)
	}
	cm, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if cm.Kind != KindClient || cm.Request == nil {
		t.Fatalf("expected a decoded client request, got %+v", cm)
	}
	if cm.Request.Type != ReqMove || cm.Request.GameID != "g1" || cm.Request.Piece != "wS1" {
		t.Fatalf("unexpected round-tripped request: %+v", cm.Request)
	}
}

func TestEncodeDecodeMessageRoundTrips(t *testing.T) {
	msg := Message{Type: MsgGameUpdate, GameUpdateKind: GameUpdateMove, GameID: "g1", Piece: "wS1", Destination: "."}
	data, err := EncodeMessage(msg)
	if err != nil {
		t.Fatal(err)
	}
	cm, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if cm.Kind != KindServer || cm.Message == nil {
		t.Fatalf("expected a decoded server message, got %+v", cm)
	}
	if cm.Message.Type != MsgGameUpdate || cm.Message.GameUpdateKind != GameUpdateMove {
		t.Fatalf("unexpected round-tripped message: %+v", cm.Message)
	}
}

func TestNewErrorBuildsExpectedShape(t *testing.T) {
	msg := NewError(42, "destination", "invalid move", 400)
	if msg.Type != MsgError || msg.ErrUserID != 42 || msg.ErrStatusCode != 400 {
		t.Fatalf("unexpected error message shape: %+v", msg)
	}
}
