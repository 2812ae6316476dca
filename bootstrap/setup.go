package bootstrap

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/firebase/genkit/go/plugins/ollama"
	"github.com/va6996/tickerdesk/agents"
	"github.com/va6996/tickerdesk/bootstrap/groq"
	"github.com/va6996/tickerdesk/cache"
	"github.com/va6996/tickerdesk/config"
	"github.com/va6996/tickerdesk/log"
	"github.com/va6996/tickerdesk/orm"
	"github.com/va6996/tickerdesk/plugins/core"
	"github.com/va6996/tickerdesk/plugins/duckduckgo"
	"github.com/va6996/tickerdesk/plugins/nager"
	"github.com/va6996/tickerdesk/plugins/tavily"
	"github.com/va6996/tickerdesk/plugins/yfinance"
	"github.com/va6996/tickerdesk/tools"
	"gorm.io/gorm"
)

// App holds the initialized components of the application
type App struct {
	Genkit     *genkit.Genkit
	Model      ai.Model
	Registry   *tools.Registry
	Cache      cache.Store
	SearchTool string

	WebSearchAgent *agents.Agent
	FinanceAgent   *agents.Agent

	db *gorm.DB
}

// Setup initializes the model, tools and agents based on the configuration
func Setup(ctx context.Context, cfg *config.Config) (*App, error) {
	gk, model, err := setupModel(ctx, cfg.AI)
	if err != nil {
		return nil, err
	}
	app, err := setupTools(ctx, gk, cfg)
	if err != nil {
		return nil, err
	}
	app.Model = model

	log.Info(ctx, "Initializing agents...")
	app.WebSearchAgent, err = agents.New(gk, model, app.Registry, agents.WebSearchDefinition(app.SearchTool), cfg.Agent)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.FinanceAgent, err = agents.New(gk, model, app.Registry, agents.FinanceDefinition(), cfg.Agent)
	if err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// SetupTools initializes the tools without a model, for calling them directly
func SetupTools(ctx context.Context, cfg *config.Config) (*App, error) {
	return setupTools(ctx, genkit.Init(ctx), cfg)
}

// Agent returns the agent for a short name: "finance" or "web"
func (a *App) Agent(name string) (*agents.Agent, error) {
	switch name {
	case "finance", "":
		if a.FinanceAgent != nil {
			return a.FinanceAgent, nil
		}
	case "web", "search":
		if a.WebSearchAgent != nil {
			return a.WebSearchAgent, nil
		}
	default:
		return nil, fmt.Errorf("unknown agent %q (want finance or web)", name)
	}
	return nil, fmt.Errorf("agent %q is not initialized", name)
}

// Close releases the cache database, if any
func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func setupModel(ctx context.Context, cfg config.AIConfig) (*genkit.Genkit, ai.Model, error) {
	var gk *genkit.Genkit
	var model ai.Model

	switch cfg.Plugin {
	case "ollama":
		log.Infof(ctx, "Using Ollama Plugin (Model: %s)...", cfg.Ollama.Model)
		ollamaPlugin := &ollama.Ollama{
			ServerAddress: cfg.Ollama.BaseURL,
		}
		gk = genkit.Init(ctx, genkit.WithPlugins(ollamaPlugin))

		// explicitly enable tool support
		model = ollamaPlugin.DefineModel(gk, ollama.ModelDefinition{
			Name: cfg.Ollama.Model,
			Type: "chat",
		}, &ai.ModelOptions{
			Supports: &ai.ModelSupports{
				Multiturn:  true,
				SystemRole: true,
				Tools:      true,
				Media:      false,
			},
		})
	case "gemini":
		log.Infof(ctx, "Using Gemini Plugin (Model: %s)...", cfg.Gemini.Model)
		if cfg.Gemini.APIKey == "" {
			return nil, nil, fmt.Errorf("GEMINI_API_KEY must be set (or set AI_PLUGIN=groq|ollama)")
		}
		gk = genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{
			APIKey: cfg.Gemini.APIKey,
		}))
		model = googlegenai.GoogleAIModel(gk, cfg.Gemini.Model)
	default:
		log.Infof(ctx, "Using Groq Plugin (Model: %s)...", cfg.Groq.Model)
		if cfg.Groq.APIKey == "" {
			return nil, nil, fmt.Errorf("GROQ_API_KEY must be set (or set AI_PLUGIN=gemini|ollama)")
		}
		groqPlugin := &groq.Groq{
			APIKey:  cfg.Groq.APIKey,
			BaseURL: cfg.Groq.BaseURL,
			Models:  []string{cfg.Groq.Model},
		}
		gk = genkit.Init(ctx, genkit.WithPlugins(groqPlugin))
		model = groqPlugin.Model(gk, cfg.Groq.Model)
	}

	if model == nil {
		return nil, nil, fmt.Errorf("model not available for plugin %q", cfg.Plugin)
	}
	return gk, model, nil
}

func setupTools(ctx context.Context, gk *genkit.Genkit, cfg *config.Config) (*App, error) {
	app := &App{Genkit: gk}

	store, db, err := setupCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	app.Cache = store
	app.db = db

	search, searchTool := searchPlugin(cfg.Search)
	app.SearchTool = searchTool

	app.Registry = tools.NewRegistry()
	plugins := []tools.ToolPlugin{
		yfinance.NewClient(cfg.Market, store),
		nager.NewClient(cfg.Market, store),
		search,
		core.NewClient(),
	}
	for _, p := range plugins {
		p.RegisterTools(gk, app.Registry)
	}
	log.Infof(ctx, "Registered %d tools: %v", len(app.Registry.Names()), app.Registry.Names())
	return app, nil
}

func searchPlugin(cfg config.SearchConfig) (tools.ToolPlugin, string) {
	if cfg.Provider == "tavily" {
		return tavily.NewClient(cfg), tavily.ToolSearch
	}
	return duckduckgo.NewClient(cfg), duckduckgo.ToolSearch
}

// newCacheStore is replaced in tests
var newCacheStore = orm.NewCacheStore

func setupCache(ctx context.Context, cfg config.CacheConfig) (cache.Store, *gorm.DB, error) {
	var store cache.Store
	var db *gorm.DB

	if cfg.Driver == "" || cfg.Driver == "memory" {
		store = cache.NewMemoryStore()
	} else {
		var err error
		db, err = orm.Open(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s cache: %w", cfg.Driver, err)
		}
		store, err = newCacheStore(db)
		if err != nil {
			closeDB(ctx, db)
			return nil, nil, fmt.Errorf("failed to migrate %s cache: %w", cfg.Driver, err)
		}
	}

	if err := cache.Cleanup(ctx, store); err != nil {
		log.Warnf(ctx, "cache cleanup failed: %v", err)
	}
	if db != nil {
		log.Infof(ctx, "Using %s response cache", cfg.Driver)
	}
	return store, db, nil
}

func closeDB(ctx context.Context, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warnf(ctx, "cache database handle unavailable: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warnf(ctx, "failed to close cache database: %v", err)
	}
}
