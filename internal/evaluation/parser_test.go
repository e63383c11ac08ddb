package evaluation

import (
	"reflect"
	"testing"
)

func TestParseRequirementsStripsBulletsAndNumbering(t *testing.T) {
	raw := `- Must support SSO
* Must provide 24/7 support
• Must encrypt data at rest

3. Must offer an SLA of 99.9%
4) Must run in EU data centers
   Must integrate with LDAP   `

	expected := []string{
		"Must support SSO",
		"Must provide 24/7 support",
		"Must encrypt data at rest",
		"Must offer an SLA of 99.9%",
		"Must run in EU data centers",
		"Must integrate with LDAP",
	}

	got := ParseRequirements(raw)
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("unexpected requirements:\n got: %#v\nwant: %#v", got, expected)
	}
}

func TestParseRequirementsHandlesCodeFence(t *testing.T) {
	raw := "```\n- First requirement\n- Second requirement\n```"

	got := ParseRequirements(raw)
	if len(got) != 2 {
		t.Fatalf("expected 2 requirements, got %d: %#v", len(got), got)
	}
	if got[0] != "First requirement" || got[1] != "Second requirement" {
		t.Fatalf("unexpected requirements: %#v", got)
	}
}

func TestParseRequirementsEmptyResponse(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\n\n", "```\n```"} {
		if got := ParseRequirements(raw); len(got) != 0 {
			t.Fatalf("expected no requirements for %q, got %#v", raw, got)
		}
	}
}

func TestParseRequirementsKeepsLeadingNumbersWithoutSpacing(t *testing.T) {
	got := ParseRequirements("- 99.9% uptime is required")
	if len(got) != 1 || got[0] != "99.9% uptime is required" {
		t.Fatalf("numeric requirement mangled: %#v", got)
	}
}

func TestParseRequirementsPreservesOrder(t *testing.T) {
	raw := "- b\n- a\n- c"

	got := ParseRequirements(raw)
	if !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Fatalf("order not preserved: %#v", got)
	}
}

func TestParseVerdictsMatchesByIndex(t *testing.T) {
	raw := `1. Yes - SSO via SAML is described in section 2
2. No
3: Partial - only business hours`

	verdicts, missing := ParseVerdicts(raw, 3)

	if len(missing) != 0 {
		t.Fatalf("expected no missing indices, got %v", missing)
	}

	if verdicts[1] != "Yes - SSO via SAML is described in section 2" {
		t.Fatalf("unexpected verdict 1: %q", verdicts[1])
	}
	if verdicts[2] != "No" {
		t.Fatalf("unexpected verdict 2: %q", verdicts[2])
	}
	if verdicts[3] != "Partial - only business hours" {
		t.Fatalf("unexpected verdict 3: %q", verdicts[3])
	}
}

func TestParseVerdictsReportsMissingIndices(t *testing.T) {
	raw := "1. Yes\n3. No"

	verdicts, missing := ParseVerdicts(raw, 4)

	if len(verdicts) != 2 {
		t.Fatalf("expected 2 verdicts, got %d", len(verdicts))
	}
	if !reflect.DeepEqual(missing, []int{2, 4}) {
		t.Fatalf("unexpected missing indices: %v", missing)
	}
}

func TestParseVerdictsIgnoresNoise(t *testing.T) {
	raw := "```\nHere are the verdicts:\n1. Yes\n99. Yes\n0. Yes\nnot a verdict line\n2) No\n```"

	verdicts, missing := ParseVerdicts(raw, 2)

	if len(missing) != 0 {
		t.Fatalf("expected no missing indices, got %v", missing)
	}
	if verdicts[1] != "Yes" || verdicts[2] != "No" {
		t.Fatalf("unexpected verdicts: %#v", verdicts)
	}
}

func TestParseVerdictsFirstOccurrenceWins(t *testing.T) {
	raw := "1. Yes\n1. No"

	verdicts, _ := ParseVerdicts(raw, 1)
	if verdicts[1] != "Yes" {
		t.Fatalf("expected first occurrence to win, got %q", verdicts[1])
	}
}
