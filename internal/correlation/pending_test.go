package correlation_test

import (
	"testing"
	"time"

	"jira-telegram-bridge/internal/correlation"
	"jira-telegram-bridge/internal/model"
)

func TestPendingCache(t *testing.T) {
	t.Run("take removes the entry", func(t *testing.T) {
		p := correlation.NewPendingCache(time.Minute, 10)
		p.Put(model.PendingAttachment{AttachmentID: "42", Filename: "f.txt"})

		got, ok := p.Take("42")
		if !ok || got.AttachmentID != "42" {
			t.Fatalf("Take(42) = %+v, %v", got, ok)
		}
		if _, ok := p.Get("42"); ok {
			t.Error("entry still reachable after Take")
		}
		if _, ok := p.TakeByFilename("f.txt", false); ok {
			t.Error("filename index still points at taken entry")
		}
	})

	t.Run("take by filename prefers newest exact match", func(t *testing.T) {
		p := correlation.NewPendingCache(time.Minute, 10)
		now := time.Now()
		p.Put(model.PendingAttachment{AttachmentID: "1", Filename: "Report.pdf", ReceivedAt: now.Add(-2 * time.Second)})
		p.Put(model.PendingAttachment{AttachmentID: "2", Filename: "report.pdf", ReceivedAt: now})

		got, ok := p.TakeByFilename("REPORT.PDF", false)
		if !ok || got.AttachmentID != "2" {
			t.Fatalf("TakeByFilename = %+v, %v; want id 2", got, ok)
		}
		if p.Len() != 1 {
			t.Errorf("Len = %d, want 1", p.Len())
		}
	})

	t.Run("substring match only when allowed", func(t *testing.T) {
		p := correlation.NewPendingCache(time.Minute, 10)
		p.Put(model.PendingAttachment{AttachmentID: "9", Filename: "image-20240101.png"})

		if _, ok := p.TakeByFilename("image", false); ok {
			t.Fatal("substring match without policy")
		}
		got, ok := p.TakeByFilename("image", true)
		if !ok || got.AttachmentID != "9" {
			t.Fatalf("TakeByFilename substring = %+v, %v", got, ok)
		}
	})

	t.Run("upsert replaces filename index", func(t *testing.T) {
		p := correlation.NewPendingCache(time.Minute, 10)
		p.Put(model.PendingAttachment{AttachmentID: "5", Filename: "old.txt"})
		p.Put(model.PendingAttachment{AttachmentID: "5", Filename: "new.txt"})

		if _, ok := p.TakeByFilename("old.txt", false); ok {
			t.Error("stale filename still indexed")
		}
		if got, ok := p.TakeByFilename("new.txt", false); !ok || got.AttachmentID != "5" {
			t.Errorf("TakeByFilename(new.txt) = %+v, %v", got, ok)
		}
	})

	t.Run("put unless skips reported ids", func(t *testing.T) {
		p := correlation.NewPendingCache(time.Minute, 10)
		delivered := map[string]bool{"42": true}
		skip := func(id string) bool { return delivered[id] }

		if p.PutUnless(model.PendingAttachment{AttachmentID: "42", Filename: "f.txt"}, skip) {
			t.Error("PutUnless stored a skipped id")
		}
		if !p.PutUnless(model.PendingAttachment{AttachmentID: "43", Filename: "g.txt"}, skip) {
			t.Error("PutUnless refused a fresh id")
		}
		if p.Len() != 1 {
			t.Errorf("Len = %d, want 1", p.Len())
		}
		if _, ok := p.TakeByFilename("f.txt", false); ok {
			t.Error("skipped entry is indexed by filename")
		}
	})

	t.Run("expired entry does not shadow a fresh one with the same name", func(t *testing.T) {
		p := correlation.NewPendingCache(time.Minute, 10)
		p.Put(model.PendingAttachment{AttachmentID: "1", Filename: "f.txt", ReceivedAt: time.Now().Add(-2 * time.Minute)})
		p.Put(model.PendingAttachment{AttachmentID: "2", Filename: "f.txt"})

		got, ok := p.TakeByFilename("f.txt", false)
		if !ok || got.AttachmentID != "2" {
			t.Fatalf("TakeByFilename = %+v, %v; want id 2", got, ok)
		}
		if _, ok := p.TakeByFilename("f.txt", false); ok {
			t.Error("expired entry reachable by filename")
		}
	})

	t.Run("entries are unreachable after ttl", func(t *testing.T) {
		p := correlation.NewPendingCache(50*time.Millisecond, 10)
		p.Put(model.PendingAttachment{AttachmentID: "42", Filename: "f.txt"})
		if _, ok := p.Get("42"); !ok {
			t.Fatal("entry missing before ttl")
		}

		time.Sleep(120 * time.Millisecond)

		if _, ok := p.Get("42"); ok {
			t.Error("Get found expired entry")
		}
		if _, ok := p.Take("42"); ok {
			t.Error("Take found expired entry")
		}
		if _, ok := p.TakeByFilename("f.txt", true); ok {
			t.Error("TakeByFilename found expired entry")
		}
		if p.Len() != 0 {
			t.Errorf("Len = %d after expiry", p.Len())
		}
	})

	t.Run("entry received long ago is already expired", func(t *testing.T) {
		p := correlation.NewPendingCache(time.Minute, 10)
		p.Put(model.PendingAttachment{AttachmentID: "7", ReceivedAt: time.Now().Add(-2 * time.Minute)})
		if _, ok := p.Get("7"); ok {
			t.Error("entry older than ttl is reachable")
		}
	})
}
