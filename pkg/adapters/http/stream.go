package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

// HostEvent names the SSE events carrying messages for the host application.
const HostEvent = "host"

// frame is one SSE event. An empty event is a document view.
type frame struct {
	event string
	data  string
}

// StreamManager handles active SSE connections per document.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- frame]struct{} // Document -> Set of Channels
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- frame]struct{}),
		logger:      logger,
	}
}

func (sm *StreamManager) Subscribe(document string) (<-chan frame, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan frame, 10)
	if _, ok := sm.subscribers[document]; !ok {
		sm.subscribers[document] = make(map[chan<- frame]struct{})
	}
	sm.subscribers[document][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[document]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, document)
			}
		}
	}
}

// Broadcast pushes a document view to every subscriber of document.
func (sm *StreamManager) Broadcast(document string, msg string) {
	sm.Publish(document, "", msg)
}

// Publish pushes a named event to every subscriber of document.
func (sm *StreamManager) Publish(document, event, data string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[document] {
		select {
		case ch <- frame{event: event, data: data}:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "document", document)
		}
	}
}

// serveStream writes initial, then every event on ch, until the client leaves.
func (sm *StreamManager) serveStream(w http.ResponseWriter, r *http.Request, document string, ch <-chan frame, initial string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	fmt.Fprintf(w, "data: %s\n\n", initial)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			sm.logger.Debug("SSE Client Disconnected", "document", document)
			return
		case f, ok := <-ch:
			if !ok {
				return
			}
			if f.event != "" {
				fmt.Fprintf(w, "event: %s\n", f.event)
			}
			fmt.Fprintf(w, "data: %s\n\n", f.data)
			flusher.Flush()
		}
	}
}
