package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"", false},
		{"   ", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{"User Name <user@example.com>", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidHTTPURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://youtube.com/watch?v=abc", true},
		{"http://localhost:3000/files/a.mp3", true},
		{"ftp://example.com", false},
		{"/relative/path", false},
		{"not-a-url", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidHTTPURL(tt.url); got != tt.want {
			t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	type giftInput struct {
		Amount float64 `validate:"gte=1,lte=100000" label:"Amount"`
		Type   string  `validate:"oneof=Tithe Offering" label:"Gift type"`
		Note   string  `validate:"notblank,max=10" label:"Note"`
	}

	tests := []struct {
		name      string
		input     giftInput
		wantErrs  bool
		wantFirst string
	}{
		{"valid", giftInput{Amount: 25, Type: "Tithe", Note: "thanks"}, false, ""},
		{"zero amount", giftInput{Amount: 0, Type: "Tithe", Note: "x"}, true, "Amount must be at least 1."},
		{"huge amount", giftInput{Amount: 200000, Type: "Tithe", Note: "x"}, true, "Amount must be at most 100000."},
		{"bad type", giftInput{Amount: 5, Type: "Other", Note: "x"}, true, "Gift type must be one of: Tithe, Offering."},
		{"blank note", giftInput{Amount: 5, Type: "Tithe", Note: "   "}, true, "Note is required."},
		{"long note", giftInput{Amount: 5, Type: "Tithe", Note: "abcdefghijklmnop"}, true, "Note must be at most 10 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.input)
			if res.HasErrors() != tt.wantErrs {
				t.Fatalf("HasErrors() = %v, want %v (%s)", res.HasErrors(), tt.wantErrs, res.All())
			}
			if tt.wantErrs && res.First() != tt.wantFirst {
				t.Errorf("First() = %q, want %q", res.First(), tt.wantFirst)
			}
		})
	}
}

func TestValidate_CustomRules(t *testing.T) {
	type mediaInput struct {
		URL string `validate:"omitempty,httpurl" label:"Media URL"`
		ID  string `validate:"objectid" label:"Thread"`
	}

	if res := Validate(mediaInput{URL: "", ID: "507f1f77bcf86cd799439011"}); res.HasErrors() {
		t.Errorf("unexpected errors: %s", res.All())
	}

	res := Validate(mediaInput{URL: "javascript:alert(1)", ID: "nope"})
	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d (%s)", len(res.Errors), res.All())
	}
	if res.Errors[0].Message != "Media URL must be a valid http(s) URL." {
		t.Errorf("unexpected first message %q", res.Errors[0].Message)
	}
	if res.Errors[1].Message != "Thread is not a valid id." {
		t.Errorf("unexpected second message %q", res.Errors[1].Message)
	}
}

func TestResult_All(t *testing.T) {
	r := &Result{Errors: []FieldError{{Message: "Error 1"}, {Message: "Error 2"}}}
	if r.All() != "Error 1; Error 2" {
		t.Errorf("All() = %q", r.All())
	}
	empty := &Result{}
	if empty.All() != "" || empty.First() != "" {
		t.Error("empty result should have no messages")
	}
}
