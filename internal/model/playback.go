package model

import (
	"fmt"
	"time"
)

type PlaybackAction string

const (
	PlaybackPlay  PlaybackAction = "play"
	PlaybackPause PlaybackAction = "pause"
	PlaybackSeek  PlaybackAction = "seek"
)

// SeekTolerance is the minimum drift, in seconds, before a follower applies a seek.
const SeekTolerance = 0.3

// PlaybackDirective is a host playback command applied by every participant.
type PlaybackDirective struct {
	Type      PlaybackAction `json:"type"`
	VideoTime *float64       `json:"videoTime,omitempty"`
}

func (d PlaybackDirective) Validate() error {
	switch d.Type {
	case PlaybackPlay, PlaybackPause:
	case PlaybackSeek:
		if d.VideoTime == nil {
			return fmt.Errorf("seek requires videoTime")
		}
	default:
		return fmt.Errorf("unknown playback type %q", d.Type)
	}
	if d.VideoTime != nil && *d.VideoTime < 0 {
		return fmt.Errorf("videoTime must not be negative")
	}
	return nil
}

// PlaybackRecord is a directive as kept in the short-lived catch-up log.
type PlaybackRecord struct {
	Type      PlaybackAction `json:"type"`
	VideoTime *float64       `json:"videoTime,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func (r PlaybackRecord) Directive() PlaybackDirective {
	return PlaybackDirective{Type: r.Type, VideoTime: r.VideoTime}
}

// SyncRequest is the body of POST /api/rooms/{id}/sync. Browser clients
// send the video position as "timestamp"; "videoTime" is accepted too.
type SyncRequest struct {
	Type      PlaybackAction `json:"type"`
	VideoTime *float64       `json:"videoTime,omitempty"`
	Timestamp *float64       `json:"timestamp,omitempty"`
}

func (r SyncRequest) Directive() PlaybackDirective {
	d := PlaybackDirective{Type: r.Type, VideoTime: r.VideoTime}
	if d.VideoTime == nil {
		d.VideoTime = r.Timestamp
	}
	return d
}
