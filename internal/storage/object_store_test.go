package storage

import "testing"

func TestObjectURIRoundTrip(t *testing.T) {
	uri := ObjectURI("vox-audio", "audio/20250314/20250314_092653_ab12cd34.wav")
	if uri != "s3://vox-audio/audio/20250314/20250314_092653_ab12cd34.wav" {
		t.Fatalf("uri = %q", uri)
	}
	key, err := KeyFromURI("vox-audio", uri)
	if err != nil {
		t.Fatalf("key from uri: %v", err)
	}
	if key != "audio/20250314/20250314_092653_ab12cd34.wav" {
		t.Fatalf("key = %q", key)
	}
}

func TestKeyFromURIRejectsForeignBucket(t *testing.T) {
	if _, err := KeyFromURI("vox-audio", "s3://other-bucket/audio/x.wav"); err == nil {
		t.Fatal("expected error for foreign bucket")
	}
	if _, err := KeyFromURI("vox-audio", "s3://vox-audio/"); err == nil {
		t.Fatal("expected error for empty key")
	}
}
