package gemini

import (
	"testing"

	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"google.golang.org/genai"
)

func TestSplitMessages(t *testing.T) {
	system, contents := splitMessages([]commonModels.Message{
		{Role: commonModels.RoleSystem, Content: "answer from context"},
		{Role: commonModels.RoleUser, Content: "hi"},
		{Role: commonModels.RoleAssistant, Content: "hello"},
		{Role: commonModels.RoleUser, Content: "question"},
	})

	if system != "answer from context" {
		t.Errorf("system = %q", system)
	}
	wantRoles := []string{string(genai.RoleUser), string(genai.RoleModel), string(genai.RoleUser)}
	if len(contents) != len(wantRoles) {
		t.Fatalf("got %d contents, want %d", len(contents), len(wantRoles))
	}
	for i, role := range wantRoles {
		if contents[i].Role != role {
			t.Errorf("content %d role = %q; want %q", i, contents[i].Role, role)
		}
	}
	if contents[2].Parts[0].Text != "question" {
		t.Errorf("last content text = %q", contents[2].Parts[0].Text)
	}
}
