package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/output"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// SSEEvent is one server-sent event queued for the writer goroutine
type SSEEvent struct {
	Type string
	Data string
}

// PassUpdate is sent when a pass completes
type PassUpdate struct {
	PassNumber     int     `json:"passNumber"`
	TotalPasses    int     `json:"totalPasses"`
	ElapsedMs      int64   `json:"elapsedMs"`
	AverageSamples float64 `json:"averageSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamples     int     `json:"maxSamples"`
	IsComplete     bool    `json:"isComplete"`
	ImageData      string  `json:"imageData"` // Base64 PNG of the whole image
}

// TileUpdate is sent when a tile completes within a pass
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`
	TotalTiles  int    `json:"totalTiles"`
	TotalPasses int    `json:"totalPasses"`
	ImageData   string `json:"imageData"` // Base64 PNG of the tile
}

// CompleteUpdate is the last event of a successful render
type CompleteUpdate struct {
	TotalTimeMs int64  `json:"totalTimeMs"`
	Passes      int    `json:"passes"`
	PublishedAs string `json:"publishedAs,omitempty"`
}

// renderSession tracks one render request
type renderSession struct {
	server    *Server
	request   *RenderRequest
	renderID  string
	events    chan<- SSEEvent
	startTime time.Time
}

// handleRender streams a progressive render as server-sent events
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ctx := r.Context()

	// A single goroutine owns the response writer. It keeps draining after a
	// write failure so senders never block.
	events := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		failed := false
		for event := range events {
			if failed || ctx.Err() != nil {
				continue
			}
			if err := sendSSEEvent(w, flusher, event); err != nil {
				log.Printf("SSE write failed: %v", err)
				failed = true
			}
		}
	}()
	defer func() {
		close(events)
		<-writerDone
	}()

	session := &renderSession{
		server:    s,
		renderID:  fmt.Sprintf("render_%d", time.Now().UnixNano()),
		events:    events,
		startTime: time.Now(),
	}

	req, err := s.parseRenderRequest(r)
	if err != nil {
		session.sendError(ctx, err)
		return
	}
	session.request = req

	if err := session.run(ctx); err != nil {
		session.sendError(ctx, err)
	}
}

// run renders the requested scene and forwards its results as events.
// It returns only after the render goroutine has stopped.
func (rs *renderSession) run(ctx context.Context) error {
	req := rs.request

	s, err := scene.Lookup(req.Scene, req.Seed, scene.AspectOverride(req.Width, req.Height))
	if err != nil {
		return err
	}
	s.SamplingConfig = renderer.SamplingConfig{
		SamplesPerPixel: req.MaxSamples,
		MaxDepth:        req.MaxDepth,
	}

	config := renderer.ProgressiveConfig{
		TileSize:           req.TileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: req.MaxSamples,
		MaxPasses:          min(req.MaxPasses, req.MaxSamples),
		NumWorkers:         0,
		Seed:               req.Seed,
	}

	logger := NewWebLogger(rs.renderID, rs.events)
	raytracer, err := renderer.NewProgressiveRaytracer(s, req.Width, req.Height, config, logger)
	if err != nil {
		return err
	}

	passChan, tileChan, errChan := raytracer.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: req.TileUpdates})

	// Drain every channel so the render goroutine, which logs into the event
	// queue, is finished before the queue is closed.
	var final renderer.PassResult
	var renderErr error
	for passChan != nil || tileChan != nil || errChan != nil {
		select {
		case pass, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			final = pass
			rs.handlePassComplete(ctx, pass, config.MaxPasses)
		case tile, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			rs.handleTileUpdate(ctx, tile)
		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			renderErr = err
		}
	}

	if renderErr != nil {
		return fmt.Errorf("render failed: %w", renderErr)
	}
	if final.Image == nil {
		return fmt.Errorf("render produced no image")
	}

	complete := CompleteUpdate{
		TotalTimeMs: time.Since(rs.startTime).Milliseconds(),
		Passes:      final.PassNumber,
	}
	if req.Publish {
		if rs.server.publisher == nil {
			return fmt.Errorf("publishing is not configured")
		}
		name := fmt.Sprintf("%s_%d.png", req.Scene, rs.startTime.Unix())
		key, err := rs.server.publisher.Publish(ctx, name, final.Image, output.FormatPNG)
		if err != nil {
			return err
		}
		complete.PublishedAs = key
	}

	rs.send(ctx, "complete", complete)
	return nil
}

func (rs *renderSession) handlePassComplete(ctx context.Context, pass renderer.PassResult, totalPasses int) {
	imageData, err := imageToBase64PNG(pass.Image)
	if err != nil {
		log.Printf("Failed to encode pass %d: %v", pass.PassNumber, err)
		return
	}

	rs.send(ctx, "passComplete", PassUpdate{
		PassNumber:     pass.PassNumber,
		TotalPasses:    totalPasses,
		ElapsedMs:      time.Since(rs.startTime).Milliseconds(),
		AverageSamples: pass.Stats.AverageSamples,
		MinSamples:     pass.Stats.MinSamples,
		MaxSamples:     pass.Stats.MaxSamplesUsed,
		IsComplete:     pass.IsLast,
		ImageData:      imageData,
	})
}

func (rs *renderSession) handleTileUpdate(ctx context.Context, tile renderer.TileCompletionResult) {
	imageData, err := imageToBase64PNG(tile.TileImage)
	if err != nil {
		log.Printf("Failed to encode tile (%d,%d): %v", tile.TileX, tile.TileY, err)
		return
	}

	rs.send(ctx, "tile", TileUpdate{
		TileX:       tile.TileX,
		TileY:       tile.TileY,
		PassNumber:  tile.PassNumber,
		TileNumber:  tile.TileNumber,
		TotalTiles:  tile.TotalTiles,
		TotalPasses: tile.TotalPasses,
		ImageData:   imageData,
	})
}

func (rs *renderSession) sendError(ctx context.Context, err error) {
	log.Printf("Render error: %v", err)
	rs.send(ctx, "error", map[string]string{"error": err.Error()})
}

// send queues an event, giving up if the client has gone away
func (rs *renderSession) send(ctx context.Context, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}

	select {
	case rs.events <- SSEEvent{Type: eventType, Data: string(data)}:
	case <-ctx.Done():
	}
}
