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
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"axonflow/diagrams/agent"
	"axonflow/diagrams/artifact"
	"axonflow/diagrams/catalog"
	"axonflow/diagrams/interpreter"
	"axonflow/diagrams/llm"
	"axonflow/diagrams/llm/gemini"
	"axonflow/diagrams/render"
)

// Run is the exported entry point for the diagram service.
//
// It loads the catalog, builds the artifact store, selects the
// interpretation strategy, sets up HTTP routes, and starts the server.
// The function blocks until the process receives SIGINT or SIGTERM, then
// drains in-flight downloads and sweeps the artifact directory once more
// before returning.
func Run() {
	log.Println("Starting Diagram Architect service...")
	cfg := LoadConfig()

	cat, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("Failed to load service catalog: %v", err)
	}

	store, err := artifact.NewStore(cfg.TempDir, cfg.Retention)
	if err != nil {
		log.Fatalf("Failed to initialize artifact store: %v", err)
	}
	store.SweepObserver = func(removed int) {
		promArtifactsSwept.Add(float64(removed))
	}

	provider := buildProvider(cfg)
	strategy := interpreter.New(interpreter.Config{
		Catalog:         cat,
		Provider:        provider,
		DefaultProvider: defaultProvider(cfg),
		LLMTimeout:      cfg.LLMTimeout,
	})

	a := agent.New(agent.Config{
		Catalog:  cat,
		Strategy: strategy,
		Engine:   render.NewGraphviz(),
		Store:    store,
	})
	server := NewServer(a, provider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go a.RunSweeps(ctx, cfg.SweepInterval)

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Configure for production
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      c.Handler(server.Router()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout,
	}

	go func() {
		log.Printf("Diagram Architect listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received, draining...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.DrainGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown incomplete: %v", err)
	}
	a.Shutdown(cfg.DrainGrace)
	log.Println("Service shutdown complete")
}

func loadCatalog(cfg Config) (*catalog.Catalog, error) {
	if cfg.CatalogFile != "" {
		return catalog.LoadFile(cfg.CatalogFile)
	}
	return catalog.Load()
}

// buildProvider returns the completion provider, or nil when the service
// runs heuristic-only (mock mode, or no API key configured).
func buildProvider(cfg Config) llm.Provider {
	if cfg.MockMode {
		log.Println("MOCK_MODE enabled, using heuristic strategy only")
		return nil
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY not set, using heuristic strategy only")
		return nil
	}
	p, err := gemini.NewProvider(gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.LLMTimeout,
	})
	if err != nil {
		log.Printf("Gemini provider unavailable (%v), using heuristic strategy only", err)
		return nil
	}
	return p
}

func defaultProvider(cfg Config) catalog.Provider {
	if p, ok := catalog.ParseProvider(cfg.DefaultProvider); ok {
		return p
	}
	log.Printf("Unknown DEFAULT_PROVIDER %q, falling back to aws", cfg.DefaultProvider)
	return catalog.ProviderAWS
}
