package models

import "testing"

func TestDecodeMessages_Valid(t *testing.T) {
	msgs, ok := DecodeMessages(`["first","second"]`)
	if !ok {
		t.Fatal("expected ok for valid blob")
	}
	if len(msgs) != 2 || msgs[0] != "first" || msgs[1] != "second" {
		t.Errorf("msgs = %v", msgs)
	}
}

func TestDecodeMessages_Empty(t *testing.T) {
	msgs, ok := DecodeMessages("")
	if !ok {
		t.Fatal("empty column should be ok")
	}
	if len(msgs) != 0 {
		t.Errorf("msgs = %v, want empty", msgs)
	}
}

func TestDecodeMessages_Corrupted(t *testing.T) {
	msgs, ok := DecodeMessages(`{"not":"an array"`)
	if ok {
		t.Fatal("expected ok=false for corrupted blob")
	}
	if len(msgs) != 0 {
		t.Errorf("corrupted blob should degrade to empty, got %v", msgs)
	}
}

func TestSetMessages_RoundTrip(t *testing.T) {
	var d Drive
	d.SetMessages([]string{"Acme Corp hiring SDE", "OA on Friday"})
	got := d.Messages()
	if len(got) != 2 || got[1] != "OA on Friday" {
		t.Errorf("Messages() = %v", got)
	}
}

func TestMessages_CorruptedBlobDegrades(t *testing.T) {
	d := Drive{RawMessages: "garbage"}
	if got := d.Messages(); len(got) != 0 {
		t.Errorf("Messages() = %v, want empty", got)
	}
}
