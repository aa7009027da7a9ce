package qr

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := Encode("MKD-000007", "abc123")
	if payload != "MKD-000007:abc123" {
		t.Fatalf("unexpected payload %q", payload)
	}
	id, err := Decode(payload)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if id != "abc123" {
		t.Fatalf("expected abc123, got %s", id)
	}
}

func TestDecodeSplitsOnFirstColon(t *testing.T) {
	id, err := Decode("MKD-000001:uuid:with:colons")
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if id != "uuid:with:colons" {
		t.Fatalf("expected remainder after first colon, got %s", id)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, payload := range []string{"", "no-colon", "MKD-000001:", "MKD-000001:   "} {
		if _, err := Decode(payload); err == nil {
			t.Fatalf("expected error for %q", payload)
		}
	}
}

func TestPNG(t *testing.T) {
	png, err := PNG(Encode("MKD-000007", "abc123"), 128)
	if err != nil {
		t.Fatalf("png error: %v", err)
	}
	if len(png) == 0 {
		t.Fatalf("expected png bytes")
	}
}
