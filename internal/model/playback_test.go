package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestPlaybackDirective_Validate(t *testing.T) {
	cases := []struct {
		name    string
		d       PlaybackDirective
		wantErr bool
	}{
		{"play", PlaybackDirective{Type: PlaybackPlay}, false},
		{"pause at time", PlaybackDirective{Type: PlaybackPause, VideoTime: ptr(4)}, false},
		{"seek", PlaybackDirective{Type: PlaybackSeek, VideoTime: ptr(0)}, false},
		{"seek without time", PlaybackDirective{Type: PlaybackSeek}, true},
		{"negative time", PlaybackDirective{Type: PlaybackPlay, VideoTime: ptr(-1)}, true},
		{"unknown", PlaybackDirective{Type: "rewind"}, true},
		{"empty", PlaybackDirective{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.d.Validate()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSyncRequest_Directive(t *testing.T) {
	req := require.New(t)

	d := SyncRequest{Type: PlaybackSeek, Timestamp: ptr(42)}.Directive()
	req.Equal(PlaybackSeek, d.Type)
	req.Equal(42.0, *d.VideoTime)

	d = SyncRequest{Type: PlaybackSeek, VideoTime: ptr(7), Timestamp: ptr(42)}.Directive()
	req.Equal(7.0, *d.VideoTime)

	d = SyncRequest{Type: PlaybackPlay}.Directive()
	req.Nil(d.VideoTime)
}
