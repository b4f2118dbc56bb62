package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// FlexTime tolerates the timestamp shapes the catalog source emits:
// RFC3339 strings, "2006-01-02 15:04:05" strings, and epoch milliseconds.
// It always marshals back out as RFC3339.
type FlexTime struct {
	time.Time
}

func (f FlexTime) MarshalJSON() ([]byte, error) {
	if f.Time.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(f.Time.UTC().Format(time.RFC3339))
}

func (f *FlexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		f.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			f.Time = time.Time{}
			return nil
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				f.Time = t
				return nil
			}
		}
		// Unparseable upstream timestamp, keep the pipeline moving.
		f.Time = time.Time{}
		return nil
	}

	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		var fl float64
		if ferr := json.Unmarshal(data, &fl); ferr != nil {
			return err
		}
		ms = int64(fl)
	}
	f.Time = time.UnixMilli(ms).UTC()
	return nil
}

// Canonical returns the RFC3339 string form used everywhere downstream,
// empty when the source never supplied a timestamp.
func (f FlexTime) Canonical() string {
	if f.Time.IsZero() {
		return ""
	}
	return f.Time.UTC().Format(time.RFC3339)
}

// RawReview is one review as returned by the catalog source. Transient;
// it only lives long enough to pass through the analysis pipeline.
type RawReview struct {
	ReviewID     string   `json:"id"`
	UserName     string   `json:"userName,omitempty"`
	UserImage    string   `json:"userImage,omitempty"`
	Content      string   `json:"text"`
	StarRating   int      `json:"score"`
	ThumbsUp     int      `json:"thumbsUp"`
	AppVersion   string   `json:"version,omitempty"`
	CreatedAt    FlexTime `json:"date"`
	ReplyContent string   `json:"replyText,omitempty"`
	ReplyAt      FlexTime `json:"replyDate,omitempty"`
}
