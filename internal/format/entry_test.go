package format

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/raphi011/kvview/internal/jsonvalue"
	"github.com/raphi011/kvview/internal/kvcache"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestRelativeKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key, prefix, want string
	}{
		{"user/42", "user/", "42"},
		{"user/42", "", "user/42"},
		{"config", "config", ""},
	}
	for _, tt := range tests {
		if got := RelativeKey(tt.key, tt.prefix); got != tt.want {
			t.Errorf("RelativeKey(%q, %q) = %q, want %q", tt.key, tt.prefix, got, tt.want)
		}
	}
}

func TestExpiration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		expiration *int64
		want       string
	}{
		{name: "none", want: ""},
		{name: "rounds down", expiration: ptr(now.Add(90*time.Minute - time.Second).Unix()), want: "Expires in 1 hrs"},
		{name: "rounds up", expiration: ptr(now.Add(90 * time.Minute).Unix()), want: "Expires in 2 hrs"},
		{name: "days", expiration: ptr(now.Add(48 * time.Hour).Unix()), want: "Expires in 48 hrs"},
		{name: "past", expiration: ptr(now.Add(-time.Hour).Unix()), want: "Expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Expiration(kvcache.Entry{Key: "k", Expiration: tt.expiration}, now)
			if got != tt.want {
				t.Errorf("Expiration() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSimpleString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		json   string
		want   string
		simple bool
	}{
		{`"hi"`, `"hi"`, true},
		{`42`, `42`, true},
		{`true`, `true`, true},
		{`null`, `null`, true},
		{`{}`, `{}`, true},
		{`[]`, `[]`, true},
		{`{"a":1}`, "", false},
		{`[1]`, "", false},
	}
	for _, tt := range tests {
		got, ok := SimpleString(jsonvalue.MustParse(tt.json))
		if ok != tt.simple || got != tt.want {
			t.Errorf("SimpleString(%s) = %q, %v, want %q, %v", tt.json, got, ok, tt.want, tt.simple)
		}
	}
}

func TestMetadataLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		metadata *jsonvalue.Value
		want     []string
	}{
		{name: "absent", metadata: nil, want: nil},
		{name: "scalar", metadata: ptr(jsonvalue.MustParse(`"draft"`)), want: []string{`"draft"`}},
		{name: "empty object", metadata: ptr(jsonvalue.MustParse(`{}`)), want: []string{`{}`}},
		{
			name:     "nested",
			metadata: ptr(jsonvalue.MustParse(`{"role":"admin","tags":["a",{"x":1}],"extra":{}}`)),
			want: []string{
				`role: "admin"`,
				`tags`,
				`  0: "a"`,
				`  1`,
				`    x: 1`,
				`extra: {}`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MetadataLines(tt.metadata, "  ")
			if !slices.Equal(got, tt.want) {
				t.Errorf("MetadataLines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeysText(t *testing.T) {
	t.Parallel()

	if got := KeysText([]string{"a/1"}); got != "a/1" {
		t.Errorf("KeysText(single) = %q", got)
	}
	if got := KeysText([]string{"a/1", `b"2`}); got != `["a/1","b\"2"]` {
		t.Errorf("KeysText(multiple) = %q", got)
	}
}

func TestMetadataText(t *testing.T) {
	t.Parallel()

	meta := jsonvalue.MustParse(`{"a":1}`)
	tests := []struct {
		name     string
		metadata []*jsonvalue.Value
		want     string
	}{
		{name: "single", metadata: []*jsonvalue.Value{&meta}, want: `{"a":1}`},
		{name: "single absent", metadata: []*jsonvalue.Value{nil}, want: EmptyMetadata},
		{name: "multiple", metadata: []*jsonvalue.Value{&meta, nil, &meta}, want: `[{"a":1},{"a":1}]`},
	}
	for _, tt := range tests {
		if got := MetadataText(tt.metadata); got != tt.want {
			t.Errorf("%s: MetadataText() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestParseExpiration(t *testing.T) {
	t.Parallel()

	got, err := ParseExpiration("", now)
	if err != nil || got != nil {
		t.Errorf("ParseExpiration(\"\") = %v, %v, want nil, nil", got, err)
	}

	got, err = ParseExpiration("2024-03-02T12:00:00Z", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := now.Add(24 * time.Hour).Unix(); *got != want {
		t.Errorf("ParseExpiration() = %d, want %d", *got, want)
	}

	if _, err := ParseExpiration("2024-02-29T12:00:00Z", now); !errors.Is(err, ErrPastExpiration) {
		t.Errorf("past date error = %v, want ErrPastExpiration", err)
	}
	if _, err := ParseExpiration("tomorrow", now); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestExpirationInput(t *testing.T) {
	t.Parallel()

	if got := ExpirationInput(nil); got != "" {
		t.Errorf("ExpirationInput(nil) = %q", got)
	}
	epoch := now.Unix()
	if got := ExpirationInput(&epoch); got != "2024-03-01T12:00:00Z" {
		t.Errorf("ExpirationInput() = %q", got)
	}
}

func TestParseMetadata(t *testing.T) {
	t.Parallel()

	got, err := ParseMetadata("  ")
	if err != nil || got != nil {
		t.Errorf("ParseMetadata(blank) = %v, %v", got, err)
	}

	got, err = ParseMetadata(`{"a": [1, 2]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if MetadataInput(got) != `{"a":[1,2]}` {
		t.Errorf("MetadataInput() = %q", MetadataInput(got))
	}

	if _, err := ParseMetadata(`{nope`); !errors.Is(err, ErrInvalidMetadata) {
		t.Errorf("error = %v, want ErrInvalidMetadata", err)
	}
}
