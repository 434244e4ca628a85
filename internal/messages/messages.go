// Package messages implements the message channel (C9): an append-only
// per-task JSONL queue that lets a human inject out-of-band instructions
// an agent's pre-turn hook surfaces on its next turn, with exactly-once
// delivery via a processed-ledger. Grounded on the atomic-write persistence
// convention used by internal/taskfile and internal/state, generalized from rewrite-whole-file to append-one-line
// since messages are single-writer and never mutated once appended.
package messages

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/adw-dev/adw/pkg/filesystem"
)

// Priority is a message's urgency, per spec.md §4.8.
type Priority string

const (
	PriorityNormal    Priority = "normal"
	PriorityHigh      Priority = "high"
	PriorityInterrupt Priority = "interrupt"
)

var stopWord = regexp.MustCompile(`(?i)\bstop\b`)

// Message is one entry of the per-task inbound queue.
type Message struct {
	Text      string    `json:"message"`
	Priority  Priority  `json:"priority"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage builds a Message, auto-promoting to PriorityInterrupt if text
// contains the literal word "stop" (case-insensitive, word-matched).
func NewMessage(text string, priority Priority) Message {
	if priority == "" {
		priority = PriorityNormal
	}
	if stopWord.MatchString(text) {
		priority = PriorityInterrupt
	}
	return Message{Text: text, Priority: priority, Timestamp: time.Now()}
}

// canonicalJSON renders m in a stable field order so its hash is a
// well-defined exactly-once identity (spec.md §4.8 "processed-ledger hash
// of the canonical JSON form").
func canonicalJSON(m Message) ([]byte, error) {
	return json.Marshal(struct {
		Message   string   `json:"message"`
		Priority  Priority `json:"priority"`
		Timestamp string   `json:"timestamp"`
	}{
		Message:   m.Text,
		Priority:  m.Priority,
		Timestamp: m.Timestamp.UTC().Format(time.RFC3339Nano),
	})
}

func hashOf(m Message) (string, error) {
	data, err := canonicalJSON(m)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Channel is the message queue for one adw_id.
type Channel struct {
	dir string
	fs  filesystem.FileSystemInterface
	mu  sync.Mutex
}

// New creates a Channel at agentsDir/<adw_id>/ using the standard filesystem.
func New(agentsDir, adwID string) *Channel {
	return NewWithFS(agentsDir, adwID, filesystem.NewStandardFileSystem())
}

// NewWithFS creates a Channel with an injected filesystem, for tests.
func NewWithFS(agentsDir, adwID string, fs filesystem.FileSystemInterface) *Channel {
	return &Channel{dir: filepath.Join(agentsDir, adwID), fs: fs}
}

func (c *Channel) messagesPath() string  { return filepath.Join(c.dir, "adw_messages.jsonl") }
func (c *Channel) processedPath() string { return filepath.Join(c.dir, "adw_messages_processed.jsonl") }

// Append writes msg to the inbound ledger. The channel never blocks the
// supervisor: Append only ever does one O_APPEND write.
func (c *Channel) Append(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.fs.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating agent directory: %w", err)
	}

	line, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	f, err := c.fs.OpenFile(c.messagesPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening message ledger: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(string(line) + "\n"); err != nil {
		return fmt.Errorf("appending message: %w", err)
	}
	return nil
}

// Pending returns the messages not yet recorded in the processed ledger,
// in ledger order, without marking them processed.
func (c *Channel) Pending() ([]Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingLocked()
}

func (c *Channel) pendingLocked() ([]Message, error) {
	all, err := c.readLedger(c.messagesPath())
	if err != nil {
		return nil, err
	}
	processed, err := c.readProcessedHashes()
	if err != nil {
		return nil, err
	}

	var pending []Message
	for _, m := range all {
		h, err := hashOf(m)
		if err != nil {
			return nil, err
		}
		if !processed[h] {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// Surface returns the pending messages and marks them processed, giving
// exactly-once delivery to the caller (the agent's pre-turn hook).
func (c *Channel) Surface() ([]Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending, err := c.pendingLocked()
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}

	f, err := c.fs.OpenFile(c.processedPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening processed ledger: %w", err)
	}
	defer f.Close()

	for _, m := range pending {
		h, err := hashOf(m)
		if err != nil {
			return nil, err
		}
		if _, err := f.WriteString(h + "\n"); err != nil {
			return nil, fmt.Errorf("appending to processed ledger: %w", err)
		}
	}
	return pending, nil
}

func (c *Channel) readLedger(path string) ([]Message, error) {
	if !c.fs.Exists(path) {
		return nil, nil
	}
	data, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var messages []Message
	scanner := bufio.NewScanner(bufio.NewReader(bytes.NewReader(data)))
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var m Message
		if err := json.Unmarshal(line, &m); err != nil {
			return nil, fmt.Errorf("parsing message line: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (c *Channel) readProcessedHashes() (map[string]bool, error) {
	if !c.fs.Exists(c.processedPath()) {
		return map[string]bool{}, nil
	}
	data, err := c.fs.ReadFile(c.processedPath())
	if err != nil {
		return nil, fmt.Errorf("reading processed ledger: %w", err)
	}

	hashes := map[string]bool{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		h := scanner.Text()
		if h != "" {
			hashes[h] = true
		}
	}
	return hashes, nil
}
