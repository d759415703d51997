package input

import "testing"

func TestPressedIsEdgeTriggered(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		key    Key
		want   bool
	}{
		{"down", []Event{{Type: EventKeyDown, Key: KeySpace}}, KeySpace, true},
		{"repeat only", []Event{{Type: EventKeyDown, Key: KeySpace, Repeat: true}}, KeySpace, false},
		{"up only", []Event{{Type: EventKeyUp, Key: KeySpace}}, KeySpace, false},
		{"other key", []Event{{Type: EventKeyDown, Key: KeyV}}, KeySpace, false},
		{"no events", nil, KeyF12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := New()
			for _, e := range tt.events {
				in.Push(e)
			}
			if got := in.Pressed(tt.key); got != tt.want {
				t.Errorf("Pressed(%v) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestBeginClearsFrame(t *testing.T) {
	in := New()
	in.Push(Event{Type: EventKeyDown, Key: KeyV})
	in.Begin()

	if in.Pressed(KeyV) {
		t.Error("key press survived Begin")
	}
	if len(in.Events()) != 0 {
		t.Errorf("expected no events, got %d", len(in.Events()))
	}
}

func TestQuitRequested(t *testing.T) {
	in := New()
	if in.QuitRequested() {
		t.Fatal("quit without events")
	}
	in.Push(Event{Type: EventKeyDown, Key: KeyEscape})
	if !in.QuitRequested() {
		t.Error("Escape should request quit")
	}

	in.Begin()
	in.Push(Event{Type: EventQuit})
	if !in.QuitRequested() {
		t.Error("window close should request quit")
	}
}

func TestResizedReturnsLast(t *testing.T) {
	in := New()
	if _, _, ok := in.Resized(); ok {
		t.Fatal("resize reported without events")
	}
	in.Push(Event{Type: EventWindowResize, Width: 800, Height: 600})
	in.Push(Event{Type: EventWindowResize, Width: 1024, Height: 768})

	w, h, ok := in.Resized()
	if !ok || w != 1024 || h != 768 {
		t.Errorf("Resized = %d, %d, %v; want 1024, 768, true", w, h, ok)
	}
}
