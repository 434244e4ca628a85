package taskfile

import "testing"

func TestParseTaskLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantOK   bool
		want     Task
	}{
		{
			name:   "pending minimal",
			line:   "[] Fix the login bug",
			wantOK: true,
			want:   Task{Status: StatusPending, Description: "Fix the login bug"},
		},
		{
			name:   "in progress with id",
			line:   "[🚦, a1b2c3d4] Implement caching layer",
			wantOK: true,
			want:   Task{Status: StatusInProgress, AdwID: "a1b2c3d4", Description: "Implement caching layer"},
		},
		{
			name:   "done with id and commit",
			line:   "[✅, a1b2c3d4, deadbeef] Implement caching layer",
			wantOK: true,
			want:   Task{Status: StatusDone, AdwID: "a1b2c3d4", CommitHash: "deadbeef", Description: "Implement caching layer"},
		},
		{
			name:   "pending with tags",
			line:   "[] Refactor database layer {p0, sdlc}",
			wantOK: true,
			want:   Task{Status: StatusPending, Description: "Refactor database layer", Tags: []string{"p0", "sdlc"}},
		},
		{
			name:   "blocked",
			line:   "[⏳] Deploy to staging",
			wantOK: true,
			want:   Task{Status: StatusBlocked, Description: "Deploy to staging"},
		},
		{
			name:   "failed with error comment",
			line:   "[❌, a1b2c3d4] Wire up webhook // timeout_error: deadline exceeded",
			wantOK: true,
			want:   Task{Status: StatusFailed, AdwID: "a1b2c3d4", Description: "Wire up webhook", ErrorMessage: "timeout_error: deadline exceeded"},
		},
		{
			name:   "escaped braces in description",
			line:   `[] Support \{templated\} strings {minor}`,
			wantOK: true,
			want:   Task{Status: StatusPending, Description: "Support {templated} strings", Tags: []string{"minor"}},
		},
		{
			name:   "not a task line",
			line:   "# just a comment",
			wantOK: false,
		},
		{
			name:   "unrecognized marker is malformed",
			line:   "[???] Something",
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseTaskLine(tc.line)
			if ok != tc.wantOK {
				t.Fatalf("parseTaskLine(%q) ok = %v, want %v", tc.line, ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if got.Status != tc.want.Status {
				t.Errorf("Status = %q, want %q", got.Status, tc.want.Status)
			}
			if got.AdwID != tc.want.AdwID {
				t.Errorf("AdwID = %q, want %q", got.AdwID, tc.want.AdwID)
			}
			if got.CommitHash != tc.want.CommitHash {
				t.Errorf("CommitHash = %q, want %q", got.CommitHash, tc.want.CommitHash)
			}
			if got.Description != tc.want.Description {
				t.Errorf("Description = %q, want %q", got.Description, tc.want.Description)
			}
			if got.ErrorMessage != tc.want.ErrorMessage {
				t.Errorf("ErrorMessage = %q, want %q", got.ErrorMessage, tc.want.ErrorMessage)
			}
			if len(got.Tags) != len(tc.want.Tags) {
				t.Errorf("Tags = %v, want %v", got.Tags, tc.want.Tags)
			}
		})
	}
}

func TestTaskLineRoundTrip(t *testing.T) {
	lines := []string{
		"[] Fix the login bug",
		"[🚦, a1b2c3d4] Implement caching layer",
		"[✅, a1b2c3d4, deadbeef] Implement caching layer",
		"[] Refactor database layer {p0, sdlc}",
		"[⏳] Deploy to staging",
		"[❌, a1b2c3d4] Wire up webhook // timeout_error: deadline exceeded",
	}

	for _, line := range lines {
		task, ok := parseTaskLine(line)
		if !ok {
			t.Fatalf("parseTaskLine(%q) failed", line)
		}
		if got := task.Line(); got != line {
			t.Errorf("round trip mismatch: got %q, want %q", got, line)
		}
	}
}

func TestParseWorktreeHeader(t *testing.T) {
	name, ok := parseWorktreeHeader("## Worktree: backend-api")
	if !ok || name != "backend-api" {
		t.Fatalf("parseWorktreeHeader() = (%q, %v), want (backend-api, true)", name, ok)
	}

	if _, ok := parseWorktreeHeader("not a header"); ok {
		t.Errorf("parseWorktreeHeader() should reject non-header lines")
	}
}
