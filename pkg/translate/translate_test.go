package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDeepLTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "DeepL-Auth-Key test-key" {
			t.Errorf("auth header = %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("text"); got != "彼は歌う。" {
			t.Errorf("text = %q", got)
		}
		if got := r.PostForm.Get("target_lang"); got != "EN" {
			t.Errorf("target_lang = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"translations":[{"detected_source_language":"JA","text":"He sings."}]}`))
	}))
	defer srv.Close()

	d := NewDeepL("test-key", WithEndpoint(srv.URL))
	got, err := d.Translate(context.Background(), "彼は歌う。")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "He sings." {
		t.Fatalf("translation = %q", got)
	}
}

func TestDeepLTranslateErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	d := NewDeepL("bad-key", WithEndpoint(srv.URL))
	if _, err := d.Translate(context.Background(), "テスト"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestNoneTranslatesNothing(t *testing.T) {
	got, err := None{}.Translate(context.Background(), "テスト")
	if err != nil || got != "" {
		t.Fatalf("None.Translate = %q, %v", got, err)
	}
}
