package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/randomtoy/lifeassist-go/internal/domain"
)

func testSelection() domain.Selection {
	return domain.Selection{
		Scenario: "居家收纳",
		Mood:     "需要治愈",
		Zodiac:   "双鱼座",
		Issue:    "如何快速整理衣柜",
	}
}

func TestBuildPrompt_ContainsSelectionFields(t *testing.T) {
	sel := testSelection()

	cases := []struct {
		kind   domain.RequestKind
		fields []string
	}{
		{domain.KindInspiration, []string{sel.Scenario, sel.Mood}},
		{domain.KindTip, []string{sel.Issue, sel.Scenario}},
		{domain.KindHealing, []string{sel.Mood, sel.Scenario}},
		{domain.KindFortune, []string{sel.Zodiac, sel.Mood}},
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			prompt, err := domain.BuildPrompt(tc.kind, sel)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, f := range tc.fields {
				if !strings.Contains(prompt, f) {
					t.Errorf("prompt does not contain %q:\n%s", f, prompt)
				}
			}
		})
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	for _, k := range domain.Kinds {
		a, _ := domain.BuildPrompt(k, testSelection())
		b, _ := domain.BuildPrompt(k, testSelection())
		if a != b {
			t.Errorf("%s: prompt differs between calls", k)
		}
	}
}

func TestBuildPrompt_TipRequiresIssue(t *testing.T) {
	for _, issue := range []string{"", "   ", "\n\t"} {
		sel := testSelection()
		sel.Issue = issue

		_, err := domain.BuildPrompt(domain.KindTip, sel)
		if !errors.Is(err, domain.ErrMissingInput) {
			t.Errorf("issue=%q: expected ErrMissingInput, got %v", issue, err)
		}
	}
}

func TestBuildPrompt_OtherKindsIgnoreIssue(t *testing.T) {
	sel := testSelection()
	sel.Issue = ""

	for _, k := range []domain.RequestKind{domain.KindInspiration, domain.KindHealing, domain.KindFortune} {
		if _, err := domain.BuildPrompt(k, sel); err != nil {
			t.Errorf("%s: unexpected error: %v", k, err)
		}
	}
}

func TestBuildPrompt_UnknownKind(t *testing.T) {
	_, err := domain.BuildPrompt(domain.RequestKind("horoscope"), testSelection())
	if !errors.Is(err, domain.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range domain.Kinds {
		got, err := domain.ParseKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := domain.ParseKind("nope"); !errors.Is(err, domain.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestCatalog_Validate(t *testing.T) {
	c := domain.Catalog{
		Scenarios: []string{"美食探店"},
		Moods:     []string{"开心"},
		Zodiac:    []string{"白羊座"},
	}

	if err := c.Validate(c.Default()); err != nil {
		t.Errorf("default selection rejected: %v", err)
	}

	bad := c.Default()
	bad.Mood = "愤怒"
	if err := c.Validate(bad); !errors.Is(err, domain.ErrInvalidSelection) {
		t.Errorf("expected ErrInvalidSelection, got %v", err)
	}
}

func TestUserMessage(t *testing.T) {
	if got := domain.UserMessage(domain.ErrMissingInput); got != "请先告诉我您的困扰~" {
		t.Errorf("unexpected warning text: %s", got)
	}

	err := errors.Join(domain.ErrRequestFailure, errors.New("status 500"))
	got := domain.UserMessage(err)
	if strings.Contains(got, "\n") {
		t.Errorf("message spans multiple lines: %q", got)
	}
	if !strings.HasPrefix(got, "获取AI响应时出错：") {
		t.Errorf("unexpected failure text: %s", got)
	}
}
