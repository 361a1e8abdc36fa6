package server

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/muurk/androidlens/internal/device"
	"github.com/muurk/androidlens/internal/loader"
)

func TestRegisterClient_SnapshotFirst(t *testing.T) {
	ts := newTestServer(t, &loader.StaticSource{})

	c := &client{id: "snapshot", send: make(chan []byte, sendBuffer)}
	if n := ts.registerClient(c); n != 1 {
		t.Fatalf("registerClient() = %d, want 1", n)
	}

	want := []MessageType{MessageRecord, MessageTheme, MessageSidebar}
	for i, typ := range want {
		var msg struct {
			Type MessageType `json:"type"`
		}
		if err := json.Unmarshal(<-c.send, &msg); err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
		if msg.Type != typ {
			t.Errorf("message %d type = %s, want %s", i, msg.Type, typ)
		}
	}

	if n := ts.GetActiveConnections(); n != 1 {
		t.Errorf("GetActiveConnections() = %d, want 1", n)
	}
}

// A record change racing with a connecting client must reach it either in
// the snapshot or as a later push.
func TestRegisterClient_NoLostRecord(t *testing.T) {
	for round := 0; round < 20; round++ {
		ts := newTestServer(t, &loader.StaticSource{})
		c := &client{id: fmt.Sprintf("race-%d", round), send: make(chan []byte, sendBuffer)}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 8; i++ {
				payload := device.SamplePayload()
				payload["deviceName"] = fmt.Sprintf("Device %d", i)
				ts.Loader().Set(device.FromPayload(payload, time.Now()))
			}
		}()
		go func() {
			defer wg.Done()
			ts.registerClient(c)
		}()
		wg.Wait()

		last := ""
		for done := false; !done; {
			select {
			case data := <-c.send:
				var msg struct {
					Type MessageType `json:"type"`
					Data apiModel    `json:"data"`
				}
				if err := json.Unmarshal(data, &msg); err != nil {
					t.Fatalf("decode push: %v", err)
				}
				if msg.Type == MessageRecord {
					last, _, _ = msg.Data.item(device.KeyName)
				}
			default:
				done = true
			}
		}

		if last != "Device 7" {
			t.Fatalf("round %d: last pushed name = %q, want Device 7", round, last)
		}
	}
}
