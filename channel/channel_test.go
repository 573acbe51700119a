package channel

import (
	"bytes"
	"testing"
)

func TestPeekDoesNotConsume(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("RIFF1234WEBPVP8 ")))
	peeked, err := r.Peek(4)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if string(peeked) != "RIFF" {
		t.Fatalf("Peek = %q, want RIFF", peeked)
	}
	all, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(all) != "RIFF1234WEBPVP8 " {
		t.Errorf("ReadAll after Peek = %q, want the full original stream", all)
	}
}

func TestPeekPastEOFReturnsWhatItHas(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("ab")))
	b, err := r.Peek(8)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if string(b) != "ab" {
		t.Errorf("Peek past EOF = %q, want %q", b, "ab")
	}
}

func TestReadFillsBuffer(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("hello")))
	buf := make([]byte, 5)
	n, err := r.Read(buf)
	if err != nil && n != 5 {
		t.Fatalf("Read: n=%d err=%v", n, err)
	}
	if string(buf[:n]) != "hello" {
		t.Errorf("Read = %q, want hello", buf[:n])
	}
}

func TestWriterWritesThrough(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	n, err := w.Write([]byte("payload"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len("payload") {
		t.Errorf("Write returned n=%d, want %d", n, len("payload"))
	}
	if buf.String() != "payload" {
		t.Errorf("underlying buffer = %q, want payload", buf.String())
	}
}
