package query

import (
	"context"
	"errors"
	"testing"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{
			name:     "plain lines",
			response: "how do I reset my password\nresetting account credentials\npassword recovery steps",
			want:     []string{"how do I reset my password", "resetting account credentials", "password recovery steps"},
		},
		{
			name:     "numbering and bullets stripped",
			response: "1. first alternative phrasing\n- second alternative phrasing\n* third alternative phrasing",
			want:     []string{"first alternative phrasing", "second alternative phrasing", "third alternative phrasing"},
		},
		{
			name:     "short lines dropped",
			response: "ok\n-\na real alternative phrasing",
			want:     []string{"a real alternative phrasing"},
		},
		{
			name:     "capped at three",
			response: "alternative one\nalternative two\nalternative three\nalternative four",
			want:     []string{"alternative one", "alternative two", "alternative three"},
		},
		{
			name:     "blank response yields none",
			response: "\n\n",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExpander(&fakeCompleter{response: tt.response})
			got := e.Expand(context.Background(), "how to reset password?")
			if len(got) != len(tt.want) {
				t.Fatalf("Expand() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Expand()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExpandLLMFailure(t *testing.T) {
	e := NewExpander(&fakeCompleter{err: errors.New("down")})
	if got := e.Expand(context.Background(), "question"); got != nil {
		t.Errorf("Expand() = %v, want nil on failure", got)
	}
}
