// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

var allIds = []Id{
	JarNotFoundId,
	HostNotSupportedId,
	PackerUnavailableId,
	PermissionDeniedId,
	InterruptedId,
	ConfigLoadFailedId,
	InvalidJavaVersionId,
}

func mockRender(t *testing.T) {
	t.Helper()
	original := render
	t.Cleanup(func() { render = original })
	render = func(in string, _ string) (string, error) {
		return in, nil
	}
}

func TestId_Constants(t *testing.T) {
	seen := make(map[Id]bool)
	for _, id := range allIds {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	if JarNotFoundId != 1 {
		t.Errorf("JarNotFoundId = %d, want 1", JarNotFoundId)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{JarNotFoundId, false, "No application jar found"},
		{HostNotSupportedId, false, "Host not supported"},
		{PackerUnavailableId, false, "warp-packer could not be obtained"},
		{PermissionDeniedId, false, "Permission denied"},
		{InterruptedId, false, "Interrupted"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{InvalidJavaVersionId, false, "Invalid Java version"},
		{Id(9999), true, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("Id() = %d, want %d", issue.Id(), tt.id)
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestValues(t *testing.T) {
	issues := Values()

	if len(issues) != len(allIds) {
		t.Fatalf("Values() returned %d issues, want %d", len(issues), len(allIds))
	}
	for i, issue := range issues {
		if issue.Id() != allIds[i] {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, issue.Id(), allIds[i])
		}
		if issue.MarkdownMsg() == "" {
			t.Errorf("issue %d has empty MarkdownMsg", issue.Id())
		}
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	issue := Get(HostNotSupportedId)
	links := issue.ExtLinks()
	if len(links) == 0 {
		t.Fatal("expected external links")
	}
	links[0] = "changed"
	if issue.ExtLinks()[0] == "changed" {
		t.Error("ExtLinks() exposed the internal slice")
	}
	if len(issue.DocLinks()) != 0 {
		t.Errorf("DocLinks() = %v, want none", issue.DocLinks())
	}
}

func TestIssue_Render_WithLinks(t *testing.T) {
	mockRender(t)

	testIssue := &Issue{
		id:       Id(9999),
		mdMsg:    "# Test Issue\n\nThis is a test.",
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}

	rendered, err := testIssue.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	for _, want := range []string{"See also", "<https://docs.example.com>", "<https://external.example.com>"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Render() should contain %q, got:\n%s", want, rendered)
		}
	}
}

func TestIssue_Render_NoLinks(t *testing.T) {
	mockRender(t)

	testIssue := &Issue{
		id:    Id(9998),
		mdMsg: "# Test Issue\n\nNo links here.",
	}

	rendered, err := testIssue.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("Render() without links should not contain 'See also'")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	for _, issue := range Values() {
		rendered, err := issue.Render("notty")
		if err != nil {
			t.Errorf("issue %d failed to render: %v", issue.Id(), err)
		}
		if strings.TrimSpace(rendered) == "" {
			t.Errorf("issue %d rendered to empty string", issue.Id())
		}
	}
}
