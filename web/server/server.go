package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"

	"github.com/df07/go-sphere-pathtracer/pkg/output"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/df07/go-sphere-pathtracer/pkg/scene"
)

// Request limits
const (
	minImageSize   = 8
	maxImageSize   = 2000
	maxSamples     = 10000
	maxPasses      = 100
	maxRenderDepth = 200
)

// Publisher uploads finished renders
type Publisher interface {
	Publish(ctx context.Context, name string, img image.Image, format output.Format) (string, error)
}

// Server represents the web server
type Server struct {
	port      int
	staticDir string
	publisher Publisher
}

// NewServer creates a new web server instance
func NewServer(port int) *Server {
	return &Server{port: port}
}

// SetStaticDir serves files from dir at the root path
func (s *Server) SetStaticDir(dir string) {
	s.staticDir = dir
}

// SetPublisher enables uploading of finished renders requested with publish=true
func (s *Server) SetPublisher(p Publisher) {
	s.publisher = p
}

// Handler returns the routes served by s
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	if s.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	}
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// ScenesResponse lists the renderable scenes and request limits
type ScenesResponse struct {
	Scenes []scene.SceneInfo `json:"scenes"`
	Limits RequestLimits     `json:"limits"`
}

// RequestLimits are the bounds enforced on render parameters
type RequestLimits struct {
	MinSize    int `json:"minSize"`
	MaxSize    int `json:"maxSize"`
	MaxSamples int `json:"maxSamples"`
	MaxPasses  int `json:"maxPasses"`
	MaxDepth   int `json:"maxDepth"`
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, ScenesResponse{
		Scenes: scene.ListScenes(),
		Limits: RequestLimits{
			MinSize:    minImageSize,
			MaxSize:    maxImageSize,
			MaxSamples: maxSamples,
			MaxPasses:  maxPasses,
			MaxDepth:   maxRenderDepth,
		},
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode response: %v", err), http.StatusInternalServerError)
	}
}

// RenderRequest holds the parameters of a render
type RenderRequest struct {
	Scene       string `json:"scene"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	MaxSamples  int    `json:"maxSamples"`
	MaxPasses   int    `json:"maxPasses"`
	MaxDepth    int    `json:"maxDepth"`
	TileSize    int    `json:"tileSize"`
	Seed        int64  `json:"seed"`
	TileUpdates bool   `json:"tileUpdates"`
	Publish     bool   `json:"publish"`
}

// parseRenderRequest parses render parameters from the query string.
// Width and height default to the scene's suggested size.
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{
		Scene:       query.Get("scene"),
		TileUpdates: query.Get("tileUpdates") != "false",
		Publish:     query.Get("publish") == "true",
	}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var info *scene.SceneInfo
	for _, candidate := range scene.ListScenes() {
		if candidate.ID == req.Scene {
			info = &candidate
			break
		}
	}
	if info == nil {
		return nil, fmt.Errorf("unknown scene %q", req.Scene)
	}

	var err error
	if req.Width, err = parseIntParam(query.Get("width"), info.Width, minImageSize, maxImageSize); err != nil {
		return nil, fmt.Errorf("invalid width: %w", err)
	}
	if req.Height, err = parseIntParam(query.Get("height"), info.Height, minImageSize, maxImageSize); err != nil {
		return nil, fmt.Errorf("invalid height: %w", err)
	}
	if req.MaxSamples, err = parseIntParam(query.Get("maxSamples"), 50, 1, maxSamples); err != nil {
		return nil, fmt.Errorf("invalid maxSamples: %w", err)
	}
	if req.MaxPasses, err = parseIntParam(query.Get("maxPasses"), 7, 1, maxPasses); err != nil {
		return nil, fmt.Errorf("invalid maxPasses: %w", err)
	}
	if req.MaxDepth, err = parseIntParam(query.Get("maxDepth"), renderer.DefaultSamplingConfig().MaxDepth, 1, maxRenderDepth); err != nil {
		return nil, fmt.Errorf("invalid maxDepth: %w", err)
	}
	if req.TileSize, err = parseIntParam(query.Get("tileSize"), renderer.DefaultProgressiveConfig().TileSize, 4, 512); err != nil {
		return nil, fmt.Errorf("invalid tileSize: %w", err)
	}

	req.Seed = renderer.DefaultProgressiveConfig().Seed
	if seedStr := query.Get("seed"); seedStr != "" {
		if req.Seed, err = strconv.ParseInt(seedStr, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %w", err)
		}
	}

	return req, nil
}

// parseIntParam parses an integer parameter with a default and range validation
func parseIntParam(value string, defaultValue, min, max int) (int, error) {
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("must be a valid integer")
	}
	if parsed < min || parsed > max {
		return 0, fmt.Errorf("must be between %d and %d", min, max)
	}

	return parsed, nil
}

// imageToBase64PNG converts an image to a base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.Encode(&buf, img, output.FormatPNG); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEEvent writes one server-sent event and flushes it
func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event SSEEvent) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
