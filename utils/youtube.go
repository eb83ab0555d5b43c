package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var youtubeIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ExtractYouTubeID extrait l'identifiant vidéo d'une URL YouTube.
// Formats acceptés: watch?v=, youtu.be/, embed/, shorts/
func ExtractYouTubeID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("l'URL de la vidéo est requise")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("URL invalide: %w", err)
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")

	var id string
	switch host {
	case "youtube.com", "m.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		}
	case "youtu.be":
		id = strings.TrimPrefix(u.Path, "/")
	default:
		return "", fmt.Errorf("seules les vidéos YouTube sont acceptées")
	}

	id = strings.TrimSuffix(id, "/")
	if !youtubeIDRegex.MatchString(id) {
		return "", fmt.Errorf("identifiant de vidéo YouTube invalide")
	}

	return id, nil
}

// NormalizeYouTubeURL convertit une URL YouTube en URL d'intégration
func NormalizeYouTubeURL(rawURL string) (string, error) {
	id, err := ExtractYouTubeID(rawURL)
	if err != nil {
		return "", err
	}
	return "https://www.youtube.com/embed/" + id, nil
}
