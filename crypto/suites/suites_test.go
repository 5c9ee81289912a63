package suites

import (
	"bytes"
	"testing"
)

func TestFromName(t *testing.T) {
	for _, cs := range All() {
		got, err := FromName(cs.Name())
		if err != nil {
			t.Fatal(err)
		} else if got.Id() != cs.Id() {
			t.Fatalf("unexpected suite: got=%v want=%v", got.Id(), cs.Id())
		}
	}
	if _, err := FromName("roster-md5-rsa"); err == nil {
		t.Fatal("expected error for unknown suite")
	}
}

func TestIdentities(t *testing.T) {
	for _, cs := range All() {
		t.Run(cs.Name(), func(t *testing.T) {
			empty := cs.EmptyIdentity()
			parsed, err := cs.ParseIdentity(empty)
			if err != nil {
				t.Fatal(err)
			} else if !bytes.Equal(parsed, empty) {
				t.Fatalf("empty identity is not canonical: %x", empty)
			}

			_, pub, err := cs.GenerateIdentity()
			if err != nil {
				t.Fatal(err)
			} else if bytes.Equal(pub, empty) {
				t.Fatal("generated identity equals the empty identity")
			}
			parsed, err = cs.ParseIdentity(pub)
			if err != nil {
				t.Fatal(err)
			} else if !bytes.Equal(parsed, pub) {
				t.Fatalf("generated identity is not canonical: %x", pub)
			}

			if _, err := cs.ParseIdentity([]byte{0x07, 0x01}); err == nil {
				t.Fatal("expected error for malformed identity")
			}
			if h := cs.Hash(); h.Size() != cs.HashSize() {
				t.Fatalf("unexpected hash size: %v", h.Size())
			}
		})
	}
}
