package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveLinks(t *testing.T) {
	tests := []struct {
		desc string
		in   string
		want string
	}{
		{"bare url", "clip https://clips.twitch.tv/abc LUL", "clip  LUL"},
		{"www url", "go to www.example.com now", "go to  now"},
		{"markdown link", "see [the clip](https://clips.twitch.tv/abc)", "see the clip"},
		{"no links", "PogChamp", "PogChamp"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveLinks(tt.in))
		})
	}
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		desc string
		in   string
		want string
	}{
		{"emphasis", "this is **so** good", "this is so good"},
		{"heading and list", "# Title\n\n- one\n- two", "Title one two"},
		{"inline code", "run `gg` now", "run gg now"},
		{"plain", "GG that Gank was Kreygasm", "GG that Gank was Kreygasm"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkdown(tt.in))
		})
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "*nice* ", Clean("*nice* https://x.y/z", Options{}))
	assert.Equal(t, "nice", Clean("*nice* https://x.y/z", Options{StripMarkdown: true}))
}
