package appid

import "testing"

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want MatchPolicy
	}{
		{"dotted-child", PolicyDottedChild},
		{"any-prefix", PolicyAnyPrefix},
		{"ANY-PREFIX", PolicyAnyPrefix},
		{"", PolicyDottedChild},
		{"bogus", PolicyDottedChild},
	}

	for _, tt := range tests {
		if got := ParsePolicy(tt.in); got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name      string
		policy    MatchPolicy
		owner     string
		candidate string
		want      bool
	}{
		{"equal", PolicyDottedChild, "com.acme.app", "com.acme.app", true},
		{"dotted child", PolicyDottedChild, "com.acme.app", "com.acme.app.helper", true},
		{"nested dotted child", PolicyDottedChild, "com.acme.app", "com.acme.app.helper.gpu", true},
		{"sibling namespace rejected", PolicyDottedChild, "com.acme.app", "com.acme.app2", false},
		{"different vendor rejected", PolicyDottedChild, "com.acme.app", "com.other.app", false},
		{"parent namespace rejected", PolicyDottedChild, "com.acme.app", "com.acme", false},
		{"empty owner", PolicyDottedChild, "", "com.acme.app", false},
		{"empty candidate", PolicyDottedChild, "com.acme.app", "", false},

		{"any-prefix equal", PolicyAnyPrefix, "com.acme.app", "com.acme.app", true},
		{"any-prefix dotted child", PolicyAnyPrefix, "com.acme.app", "com.acme.app.helper", true},
		{"any-prefix sibling accepted", PolicyAnyPrefix, "com.acme.app", "com.acme.app2", true},
		{"any-prefix different vendor rejected", PolicyAnyPrefix, "com.acme.app", "com.other.app", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Matches(tt.owner, tt.candidate); got != tt.want {
				t.Errorf("%v.Matches(%q, %q) = %v, want %v",
					tt.policy, tt.owner, tt.candidate, got, tt.want)
			}
		})
	}
}
