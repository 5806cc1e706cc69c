package googleEmbedding

import "testing"

func TestGetContent(t *testing.T) {
	contents := getContent([]string{"alpha", "beta"})
	if len(contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(contents))
	}
	for i, want := range []string{"alpha", "beta"} {
		if len(contents[i].Parts) != 1 || contents[i].Parts[0].Text != want {
			t.Errorf("content %d = %+v; want single part %q", i, contents[i], want)
		}
	}
}
