package utils

import "testing"

func TestExtractYouTubeID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"watch classique", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"youtu.be", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"shorts", "https://youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"mobile", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"URL vide", "", "", true},
		{"autre site", "https://vimeo.com/123456", "", true},
		{"identifiant trop court", "https://youtu.be/abc", "", true},
		{"watch sans paramètre v", "https://www.youtube.com/watch", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractYouTubeID(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractYouTubeID() erreur = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractYouTubeID() = %v, attendu %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeYouTubeURL(t *testing.T) {
	got, err := NormalizeYouTubeURL("https://youtu.be/dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("NormalizeYouTubeURL() erreur = %v", err)
	}
	want := "https://www.youtube.com/embed/dQw4w9WgXcQ"
	if got != want {
		t.Errorf("NormalizeYouTubeURL() = %v, attendu %v", got, want)
	}
}
