package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/dayanaadylkhanova/pow-miner/internal/entity"
)

func TestDigest_KnownVector(t *testing.T) {
	t.Parallel()

	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Digest("ab", "c"); got != want {
		t.Fatalf("Digest() = %s; want %s", got, want)
	}
	if got := Digest("abc", ""); got != want {
		t.Fatalf("Digest() with empty nonce = %s; want %s", got, want)
	}
}

func TestMeets_Table(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		digest string
		req    string
		want   bool
	}{
		{"empty_requirement", "ba78", "", true},
		{"exact_prefix", "00ab", "00", true},
		{"whole_digest", "00ab", "00ab", true},
		{"mismatch", "0fab", "00", false},
		{"longer_than_digest", "00", "000", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := Meets(tc.digest, tc.req); got != tc.want {
				t.Fatalf("Meets(%q, %q) = %v; want %v", tc.digest, tc.req, got, tc.want)
			}
		})
	}
}

func TestCheckRequirement_Table(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		req     string
		wantErr bool
	}{
		{"empty", "", false},
		{"zeros", "0000", false},
		{"hex", "0a9f", false},
		{"uppercase", "0A", true},
		{"non_hex", "0g", true},
		{"full_length", strings.Repeat("0", 64), false},
		{"too_long", strings.Repeat("0", 65), true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := checkRequirement(tc.req)
			if tc.wantErr {
				if !errors.Is(err, ErrUnsatisfiable) {
					t.Fatalf("checkRequirement(%q) = %v; want ErrUnsatisfiable", tc.req, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("checkRequirement(%q) unexpected error: %v", tc.req, err)
			}
		})
	}
}

func TestVerify_Table(t *testing.T) {
	t.Parallel()

	ch := entity.Challenge{Payload: "abc", Requirement: "0"}

	// brute-force a valid nonce deterministically
	var valid entity.Candidate
	for i := 0; ; i++ {
		n := strings.Repeat("x", i%7) + string(rune('a'+i%26)) + strings.Repeat("z", i/26)
		d := Digest(ch.Payload, n)
		if Meets(d, ch.Requirement) {
			valid = entity.Candidate{Nonce: n, Digest: d}
			break
		}
		if i > 1<<16 {
			t.Fatal("failed to find nonce in reasonable time")
		}
	}

	cases := []struct {
		name    string
		ch      entity.Challenge
		c       entity.Candidate
		wantErr bool
	}{
		{"ok", ch, valid, false},
		{"empty_nonce", ch, entity.Candidate{Digest: valid.Digest}, true},
		{"digest_mismatch", ch, entity.Candidate{Nonce: valid.Nonce, Digest: strings.Repeat("0", 64)}, true},
		{
			"requirement_not_met",
			entity.Challenge{Payload: ch.Payload, Requirement: valid.Digest[:1] + "x"},
			valid,
			true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := Verify(tc.ch, tc.c)
			if tc.wantErr && !errors.Is(err, ErrPowInvalid) {
				t.Fatalf("Verify() = %v; want ErrPowInvalid", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("Verify() unexpected error: %v", err)
			}
		})
	}
}
