package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID_RoundTrip(t *testing.T) {
	// Prefix + "_" + native id must recover the native id by splitting
	// on the first underscore, for every platform.
	cases := []struct {
		source   PlatformSource
		nativeID string
		want     string
	}{
		{SourceSoundCloud, "123456789", "so_123456789"},
		{SourceSpotify, "4uLU6hMCjMI75M1A2tKUQC", "sp_4uLU6hMCjMI75M1A2tKUQC"},
		{SourceDeezer, "3135556", "dz_3135556"},
		{SourceYouTube, "dQw4w9WgXcQ", "yt_dQw4w9WgXcQ"},
		// Native ids may themselves contain underscores.
		{SourceYouTube, "a_b-c_d1234", "yt_a_b-c_d1234"},
	}

	for _, tc := range cases {
		id := GenerateID(tc.source, tc.nativeID)
		assert.Equal(t, tc.want, id)
		assert.Equal(t, tc.nativeID, NativeID(id))
		assert.True(t, HasPrefix(id, tc.source))
	}
}

func TestNativeID_NoPrefix(t *testing.T) {
	assert.Equal(t, "dQw4w9WgXcQ", NativeID("dQw4w9WgXcQ"))
	assert.Equal(t, "3135556", NativeID("3135556"))
}

func TestParsePlatformSource(t *testing.T) {
	for _, s := range AllSources {
		got, err := ParsePlatformSource(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParsePlatformSource("  Spotify ")
	require.NoError(t, err)
	assert.Equal(t, SourceSpotify, got)

	_, err = ParsePlatformSource("napster")
	assert.Error(t, err)

	_, err = ParsePlatformSource("")
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Daft Punk - One More Time", "Daft Punk - One More Time"},
		{`AC/DC - Back In Black`, "AC_DC - Back In Black"},
		{`What? <Is> "This": A\Test|*`, `What_ _Is_ _This__ A_Test__`},
		{"  padded  ", "padded"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeFilename(tc.in))
	}
}

func TestArtifactBase(t *testing.T) {
	assert.Equal(t, "Daft Punk - Around the World", ArtifactBase("Daft Punk", "Around the World"))
	// Same artist+title collides onto the same key regardless of platform.
	assert.Equal(t,
		ArtifactBase("Daft Punk", "Around the World"),
		ArtifactBase("Daft Punk", "Around the World"))
	assert.Equal(t, "AC_DC - T.N.T.", ArtifactBase("AC/DC", "T.N.T."))
}
