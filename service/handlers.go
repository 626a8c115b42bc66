// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"axonflow/diagrams/agent"
	"axonflow/diagrams/diagram"
	"axonflow/diagrams/llm"
	"axonflow/diagrams/shared/logger"
)

// maxRequestBody bounds JSON request bodies well above the description limit.
const maxRequestBody = 64 * 1024

// Server holds the handler dependencies for one service instance.
type Server struct {
	agent    *agent.Agent
	provider llm.Provider // nil in heuristic-only mode
	log      *logger.Logger
	started  time.Time
}

// NewServer creates the HTTP handler set around a configured agent.
func NewServer(a *agent.Agent, provider llm.Provider) *Server {
	return &Server{
		agent:    a,
		provider: provider,
		log:      logger.New("diagram-service"),
		started:  time.Now(),
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.Handle("/prometheus", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/generate-diagram", s.handleGenerate).Methods("POST")
	r.HandleFunc("/diagrams/{filename}", s.handleGetDiagram).Methods("GET")
	r.HandleFunc("/assistant", s.handleAssistant).Methods("POST")
	return r
}

// Request and response shapes

type diagramRequest struct {
	Description   string `json:"description"`
	Provider      string `json:"provider,omitempty"`
	Direction     string `json:"direction,omitempty"`
	Title         string `json:"title,omitempty"`
	IncludeLabels *bool  `json:"include_labels,omitempty"` // Defaults to true
}

type diagramResponse struct {
	Success               bool          `json:"success"`
	Filename              string        `json:"filename"`
	DiagramURL            string        `json:"diagram_url"`
	Structure             *diagram.Spec `json:"structure"`
	GenerationTimeSeconds float64       `json:"generation_time_seconds"`
}

type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}

type assistantMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

type assistantRequest struct {
	Message string             `json:"message"`
	Context []assistantMessage `json:"context,omitempty"`
}

type assistantResponse struct {
	Response   string             `json:"response"`
	DiagramURL string             `json:"diagram_url,omitempty"`
	Context    []assistantMessage `json:"context"`
}

// handleHealth reports component health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	components := map[string]bool{
		"catalog":        true,
		"artifact_store": true,
	}
	if s.provider != nil {
		components["completion_provider"] = s.provider.IsHealthy()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"service":        "diagram-architect",
		"version":        "1.0.0",
		"timestamp":      time.Now().UTC(),
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
		"components":     components,
	})
}

// handleGenerate runs one synthesis request.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	requestID := newRequestID()

	var req diagramRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "input_error", "request body is not valid JSON")
		promDiagramsTotal.WithLabelValues("input_error").Inc()
		return
	}

	showLabels := true
	if req.IncludeLabels != nil {
		showLabels = *req.IncludeLabels
	}

	result, err := s.agent.Synthesize(r.Context(), requestID, agent.Request{
		Description: req.Description,
		Provider:    req.Provider,
		Direction:   req.Direction,
		Title:       req.Title,
		ShowLabels:  showLabels,
	})
	if err != nil {
		status, errType := classifyResponse(err)
		s.log.ErrorWithErr(requestID, "diagram synthesis failed", err, map[string]interface{}{
			"error_type": errType,
		})
		writeError(w, status, errType, err.Error())
		promDiagramsTotal.WithLabelValues(errType).Inc()
		return
	}

	promDiagramsTotal.WithLabelValues("success").Inc()
	promSynthesisDuration.WithLabelValues(string(result.Spec.Provider)).
		Observe(float64(result.Duration.Milliseconds()))

	writeJSON(w, http.StatusOK, diagramResponse{
		Success:               true,
		Filename:              result.Filename,
		DiagramURL:            "/diagrams/" + result.Filename,
		Structure:             result.Spec,
		GenerationTimeSeconds: result.Duration.Seconds(),
	})
}

// handleGetDiagram streams a rendered artifact. The reader pins the file
// against sweeps for the duration of the download.
func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	reader, err := s.agent.FetchArtifact(filename)
	if err != nil {
		status, errType := classifyResponse(err)
		writeError(w, status, errType, err.Error())
		promDownloadsTotal.WithLabelValues(errType).Inc()
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentTypeFor(filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", reader.Artifact.Size))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	if _, err := io.Copy(w, reader); err != nil {
		// Headers are gone; all we can do is record it.
		s.log.Warn("", "diagram download aborted", map[string]interface{}{
			"filename": filename, "error": err.Error(),
		})
		promDownloadsTotal.WithLabelValues("aborted").Inc()
		return
	}
	promDownloadsTotal.WithLabelValues("success").Inc()
}

// Keywords that signal the assistant message is asking for a diagram.
var diagramIntentKeywords = []string{"diagram", "architecture", "infrastructure", "draw", "create", "show"}

// handleAssistant is a minimal chat wrapper around synthesis: messages that
// look like diagram requests run the pipeline, everything else gets a
// capability description.
func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	requestID := newRequestID()

	var req assistantRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "input_error", "request body is not valid JSON")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "input_error", "message is required")
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	updated := append(req.Context, assistantMessage{Role: "user", Content: req.Message, Timestamp: now})

	reply := func(text, diagramURL string) {
		updated = append(updated, assistantMessage{Role: "assistant", Content: text, Timestamp: now})
		writeJSON(w, http.StatusOK, assistantResponse{Response: text, DiagramURL: diagramURL, Context: updated})
	}

	if !hasDiagramIntent(req.Message) {
		reply("I'm a diagram architect assistant. I can help you create infrastructure diagrams "+
			"from natural language descriptions. Just describe the system you want to visualize!", "")
		return
	}

	result, err := s.agent.Synthesize(r.Context(), requestID, agent.Request{
		Description: extractDescription(req.Message),
		ShowLabels:  true,
	})
	if err != nil {
		s.log.ErrorWithErr(requestID, "assistant synthesis failed", err, nil)
		reply(fmt.Sprintf("I couldn't generate the diagram: %v", err), "")
		return
	}
	reply("I've created an infrastructure diagram based on your description. "+
		"The diagram shows the main components and their relationships.",
		"/diagrams/"+result.Filename)
}

func hasDiagramIntent(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range diagramIntentKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// extractDescription strips the "draw me a diagram of" framing so the
// interpreter sees only the infrastructure description.
func extractDescription(message string) string {
	lower := strings.ToLower(message)
	if i := strings.Index(lower, "diagram"); i >= 0 {
		rest := strings.TrimSpace(message[i+len("diagram"):])
		rest = strings.TrimPrefix(rest, "of ")
		rest = strings.TrimPrefix(rest, "for ")
		rest = strings.TrimPrefix(rest, ": ")
		rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		if rest != "" {
			return rest
		}
	}
	return message
}

// classifyResponse maps a pipeline error to an HTTP status and error type.
func classifyResponse(err error) (int, string) {
	switch agent.Classify(err) {
	case agent.ClassInput:
		return http.StatusBadRequest, "input_error"
	case agent.ClassNotFound:
		return http.StatusNotFound, "not_found"
	case agent.ClassDependency:
		return http.StatusServiceUnavailable, "dependency_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func contentTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".png"):
		return "image/png"
	case strings.HasSuffix(filename, ".svg"):
		return "image/svg+xml"
	case strings.HasSuffix(filename, ".pdf"):
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

func newRequestID() string {
	return "req_" + uuid.NewString()
}

func writeJSON(w http.ResponseWriter, statusCode int, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, statusCode int, errType, message string) {
	writeJSON(w, statusCode, errorResponse{Success: false, Error: message, ErrorType: errType})
}
