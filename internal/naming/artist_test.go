package naming

import (
	"reflect"
	"testing"

	"github.com/handiism/flacsync/internal/model"
)

func TestArtistVariations(t *testing.T) {
	tests := []struct {
		name    string
		artists string
		want    []string
	}{
		{
			name:    "parenthetical alias",
			artists: "Olly Alexander (Years & Years)",
			want:    []string{"Olly Alexander (Years & Years)", "Years & Years", "Olly Alexander"},
		},
		{
			name:    "comma separated",
			artists: "League of Legends Music, TEYA",
			want:    []string{"League of Legends Music, TEYA", "League of Legends Music", "TEYA"},
		},
		{
			name:    "single artist with dots",
			artists: "R.A.D.",
			want:    []string{"R.A.D."},
		},
		{
			name:    "featuring credit",
			artists: "Main Act feat. Guest",
			want:    []string{"Main Act feat. Guest", "Main Act", "Guest"},
		},
		{
			name:    "empty",
			artists: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArtistVariations(tt.artists); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ArtistVariations(%q) = %v, want %v", tt.artists, got, tt.want)
			}
		})
	}
}

func TestArtistFolder(t *testing.T) {
	tests := []struct {
		artists string
		want    string
	}{
		{"Olly Alexander (Years & Years)", "Years & Years"},
		{"DJ Shadow, Cut Chemist", "DJ Shadow"},
		{"R.A.D.", "R.A.D."},
		{"", "Unknown Artist"},
	}

	for _, tt := range tests {
		t.Run(tt.artists, func(t *testing.T) {
			if got := ArtistFolder(tt.artists); got != tt.want {
				t.Errorf("ArtistFolder(%q) = %q, want %q", tt.artists, got, tt.want)
			}
		})
	}
}

func TestDetectCompilations(t *testing.T) {
	tracks := []*model.Track{
		{Album: "Solo Album", Artists: "One Artist"},
		{Album: "Solo Album", Artists: "One Artist"},
		{Album: "Mix", Artists: "First"},
		{Album: "Mix", Artists: "Second"},
		{Album: "", Artists: "Anon"},
	}

	got := DetectCompilations(tracks)
	if got["Solo Album"] {
		t.Error("single-artist album flagged as compilation")
	}
	if !got["Mix"] {
		t.Error("multi-artist album not flagged as compilation")
	}
	if _, ok := got[""]; ok {
		t.Error("untitled album should be ignored")
	}
}
