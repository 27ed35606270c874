package natsadapter

import (
	"testing"

	"github.com/samirrijal/worldreports/internal/core/domain"
)

func TestSubject(t *testing.T) {
	for _, f := range domain.Families {
		got := Subject(f)
		if got != "worldreports.reports."+string(f) {
			t.Errorf("Subject(%q) = %q", f, got)
		}
	}
	if SubjectAll != "worldreports.reports.>" {
		t.Errorf("SubjectAll = %q", SubjectAll)
	}
}
