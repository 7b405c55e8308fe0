package main

import (
	"strings"
	"sync"
	"time"
)

const maxNotices = 4

// notice is a user-visible message shown in the HUD banner.
type notice struct {
	Text  string
	Since time.Time
	Count int
}

// noticeList keeps the most recent distinct messages. Repeating a message
// bumps its count instead of adding a line.
type noticeList struct {
	mu    sync.Mutex
	items []notice
	now   func() time.Time
}

func newNoticeList() *noticeList {
	return &noticeList{now: time.Now}
}

func (n *noticeList) Add(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.items {
		if n.items[i].Text == text {
			n.items[i].Count++
			n.items[i].Since = n.now()
			return
		}
	}
	n.items = append(n.items, notice{Text: text, Since: n.now(), Count: 1})
	if len(n.items) > maxNotices {
		n.items = n.items[len(n.items)-maxNotices:]
	}
}

// Expire drops notices older than ttl.
func (n *noticeList) Expire(ttl time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	cut := n.now().Add(-ttl)
	kept := n.items[:0]
	for _, it := range n.items {
		if it.Since.After(cut) {
			kept = append(kept, it)
		}
	}
	n.items = kept
}

func (n *noticeList) Items() []notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notice(nil), n.items...)
}

func (n *noticeList) Clear() {
	n.mu.Lock()
	n.items = nil
	n.mu.Unlock()
}
