package trigger

import "testing"

func TestParseTrigger(t *testing.T) {
	trig, err := ParseTrigger([]byte(`{"video_id":"vid1","channel_id":"UCchan","title":"stream title"}`))
	if err != nil {
		t.Fatalf("ParseTrigger: %v", err)
	}
	if trig.VideoID != "vid1" || trig.ChannelID != "UCchan" || trig.Title != "stream title" {
		t.Fatalf("unexpected trigger: %+v", trig)
	}
}

func TestParseTriggerTrimsWhitespace(t *testing.T) {
	trig, err := ParseTrigger([]byte(`{"video_id":" vid1 ","channel_id":" UCchan "}`))
	if err != nil {
		t.Fatalf("ParseTrigger: %v", err)
	}
	if trig.VideoID != "vid1" || trig.ChannelID != "UCchan" {
		t.Fatalf("expected trimmed ids, got %+v", trig)
	}
}

func TestParseTriggerRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `trigger!`},
		{"missing video", `{"channel_id":"UCchan"}`},
		{"missing channel", `{"video_id":"vid1"}`},
		{"blank ids", `{"video_id":"  ","channel_id":""}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseTrigger([]byte(tc.body)); err == nil {
				t.Fatalf("expected error for %q", tc.body)
			}
		})
	}
}
