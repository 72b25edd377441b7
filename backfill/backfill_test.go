package backfill_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promofeed/backfill"
)

func TestParseLog(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []backfill.Commit
	}{
		{
			name: "empty output",
			out:  "",
			want: nil,
		},
		{
			name: "single commit",
			out:  "abc123|1763373600\n",
			want: []backfill.Commit{
				{SHA: "abc123", Timestamp: time.Unix(1763373600, 0).UTC()},
			},
		},
		{
			name: "multiple commits",
			out:  "abc123|1763373600\ndef456|1763287200\n",
			want: []backfill.Commit{
				{SHA: "abc123", Timestamp: time.Unix(1763373600, 0).UTC()},
				{SHA: "def456", Timestamp: time.Unix(1763287200, 0).UTC()},
			},
		},
		{
			name: "malformed lines skipped",
			out:  "garbage\nabc123|notanumber\ndef456|1763287200\n\n",
			want: []backfill.Commit{
				{SHA: "def456", Timestamp: time.Unix(1763287200, 0).UTC()},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := backfill.ParseLog(tt.out)
			require.Len(t, got, len(tt.want))
			assert.Equal(t, tt.want, got)
		})
	}
}
