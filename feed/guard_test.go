package feed_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promofeed/feed"
)

func generate(t *testing.T, description string, buildTime time.Time) string {
	t.Helper()

	generator, err := feed.NewGenerator("T", "https://x", "D")
	require.NoError(t, err)

	entries := []feed.Entry{testEntry{
		id:      "42",
		title:   "Game",
		link:    "https://y",
		pubDate: time.Date(2025, 11, 17, 10, 0, 0, 0, time.UTC),
	}}

	out, err := generator.Generate(entries, staticRenderer(description), buildTime)
	require.NoError(t, err)
	return out
}

func TestExtractLastBuildDate(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want time.Time
		ok   bool
	}{
		{
			name: "valid",
			xml:  "<channel>\n  <lastBuildDate>Mon, 17 Nov 2025 10:37:41 +0000</lastBuildDate>\n</channel>",
			want: time.Date(2025, 11, 17, 10, 37, 41, 0, time.UTC),
			ok:   true,
		},
		{
			name: "missing element",
			xml:  "<channel><title>T</title></channel>",
			ok:   false,
		},
		{
			name: "unparseable value",
			xml:  "<channel><lastBuildDate>not a date</lastBuildDate></channel>",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := feed.ExtractLastBuildDate(tt.xml)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want))
			}
		})
	}
}

func TestExtractLastBuildDateRoundTrip(t *testing.T) {
	// Whatever Generate emits must come back out of the guard bit-exact.
	buildTime := time.Date(2025, 11, 17, 10, 37, 41, 0, time.UTC)
	out := generate(t, "<p>hi</p>", buildTime)

	got, ok := feed.ExtractLastBuildDate(out)
	require.True(t, ok)
	assert.True(t, got.Equal(buildTime))
}

func TestShouldPublish(t *testing.T) {
	earlier := time.Date(2025, 11, 17, 10, 0, 0, 0, time.UTC)
	later := time.Date(2025, 11, 17, 11, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		old  string
		new  string
		want bool
	}{
		{
			name: "no prior artifact",
			old:  "",
			new:  generate(t, "<p>hi</p>", earlier),
			want: true,
		},
		{
			name: "only lastBuildDate differs",
			old:  generate(t, "<p>hi</p>", earlier),
			new:  generate(t, "<p>hi</p>", later),
			want: false,
		},
		{
			name: "only key count differs",
			old:  generate(t, "<p><strong>17 keys Available:</strong></p>", earlier),
			new:  generate(t, "<p><strong>3 keys Available:</strong></p>", later),
			want: false,
		},
		{
			name: "content differs",
			old:  generate(t, "<p>old text</p>", earlier),
			new:  generate(t, "<p>new text</p>", later),
			want: true,
		},
		{
			name: "only line endings differ",
			old:  strings.ReplaceAll(generate(t, "<p>hi</p>", earlier), "\n", "\r\n"),
			new:  generate(t, "<p>hi</p>", earlier),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalizer, err := feed.NewNormalizer(nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, normalizer.ShouldPublish(tt.old, tt.new))
		})
	}
}

func TestNormalizerExtraPatterns(t *testing.T) {
	normalizer, err := feed.NewNormalizer([]string{`updated [0-9]+ minutes ago`})
	require.NoError(t, err)

	prior := "<description>updated 5 minutes ago</description>"
	fresh := "<description>updated 90 minutes ago</description>"
	assert.False(t, normalizer.ShouldPublish(prior, fresh))
}

func TestNormalizerRejectsInvalidPattern(t *testing.T) {
	_, err := feed.NewNormalizer([]string{`[`})
	assert.Error(t, err)
}

func TestWriteIfChanged(t *testing.T) {
	earlier := time.Date(2025, 11, 17, 10, 0, 0, 0, time.UTC)
	later := time.Date(2025, 11, 17, 11, 0, 0, 0, time.UTC)

	normalizer, err := feed.NewNormalizer(nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "feed.rss")

	// No prior artifact: always publish
	first := generate(t, "<p>hi</p>", earlier)
	written, err := normalizer.WriteIfChanged(path, first)
	require.NoError(t, err)
	assert.True(t, written)

	// Same content, fresh build time: skip and leave the file untouched
	second := generate(t, "<p>hi</p>", later)
	written, err = normalizer.WriteIfChanged(path, second)
	require.NoError(t, err)
	assert.False(t, written)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, string(onDisk))

	// Substantive change: publish the fresh text including its build time
	third := generate(t, "<p>changed</p>", later)
	written, err = normalizer.WriteIfChanged(path, third)
	require.NoError(t, err)
	assert.True(t, written)

	onDisk, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, third, string(onDisk))
}
