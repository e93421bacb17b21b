package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adda-Baaj/metrics-harvester/internal/config"
	"github.com/Adda-Baaj/metrics-harvester/internal/domain"
	"github.com/Adda-Baaj/metrics-harvester/internal/harvest"
	"github.com/Adda-Baaj/metrics-harvester/internal/logger"
	"github.com/Adda-Baaj/metrics-harvester/internal/storage"
	"github.com/Adda-Baaj/metrics-harvester/pkg/endpoints"
	"github.com/Adda-Baaj/metrics-harvester/pkg/httpclient"
	"github.com/Adda-Baaj/metrics-harvester/pkg/publishers"
)

// Harvester runs one download batch over the endpoint catalog. It owns the
// HTTP session, the download manifest and the publishers for the duration of
// Run.
type Harvester struct {
	cfg     *config.Config
	catalog *endpoints.Catalog
	client  *harvest.Client
	fanout  *publishers.Fanout
	store   storage.Store
	log     logger.Logger
}

// Deps lets callers substitute the session, store and publishers.
type Deps struct {
	Session httpclient.Client
	Store   storage.Store
	Fanout  *publishers.Fanout
}

// NewHarvester builds a harvester runtime from config.
func NewHarvester(ctx context.Context, cfg *config.Config, log logger.Logger) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type": cfg.StorageType,
		"path": cfg.BBoltPath,
	})

	session := httpclient.NewSession(cfg.HTTPTimeout, cfg.UserAgent)
	h, err := NewHarvesterWithDeps(cfg, log, Deps{
		Session: session,
		Store:   store,
		Fanout:  fanout,
	})
	if err != nil {
		_ = session.Close()
		_ = store.Close()
		_ = fanout.Close()
		return nil, err
	}
	return h, nil
}

// NewHarvesterWithDeps builds a harvester around caller-supplied dependencies.
func NewHarvesterWithDeps(cfg *config.Config, log logger.Logger, deps Deps) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if deps.Session == nil {
		return nil, fmt.Errorf("http session must not be nil")
	}
	log = logger.Ensure(log)

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	log.InfoObj("endpoint catalog loaded", "endpoints_meta", map[string]any{
		"count":    catalog.Len(),
		"names":    catalog.Names(),
		"base_url": cfg.BaseURL,
	})

	client, err := harvest.NewClient(deps.Session, harvest.Options{
		Start:           cfg.Start,
		End:             cfg.End,
		Catalog:         catalog,
		ContinueOnError: cfg.ContinueOnError,
		Log:             log,
	})
	if err != nil {
		return nil, fmt.Errorf("init harvest client: %w", err)
	}

	store := deps.Store
	if store == nil {
		store, _ = storage.NewStore("none", "")
	}

	return &Harvester{
		cfg:     cfg,
		catalog: catalog,
		client:  client,
		fanout:  deps.Fanout,
		store:   store,
		log:     log,
	}, nil
}

func loadCatalog(cfg *config.Config) (*endpoints.Catalog, error) {
	specs := endpoints.DefaultSpecs()
	if cfg.EndpointsFile != "" {
		loaded, err := endpoints.LoadFile(cfg.EndpointsFile)
		if err != nil {
			return nil, fmt.Errorf("load endpoints: %w", err)
		}
		specs = loaded
	}

	catalog, err := endpoints.NewCatalog(cfg.BaseURL, specs)
	if err != nil {
		return nil, fmt.Errorf("build endpoint catalog: %w", err)
	}
	return catalog, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := publisherReg.Enabled()
	pubClients, err := publishers.DefaultBuilders().Build(ctx, enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Run downloads every endpoint once. The HTTP session, store and publishers
// are released before Run returns, whatever the outcome.
func (h *Harvester) Run(ctx context.Context) ([]domain.Result, error) {
	if h == nil || h.client == nil {
		return nil, fmt.Errorf("harvester is not initialized")
	}
	defer h.release()

	start := time.Now()
	h.log.InfoObj("batch started", "batch_meta", map[string]any{
		"endpoints_count":  h.catalog.Len(),
		"publishers_count": h.fanout.Size(),
		"output_dir":       h.cfg.OutputDir,
		"start":            h.cfg.Start.Format(config.DateLayout),
		"end":              h.cfg.End.Format(config.DateLayout),
	})

	results, err := h.client.SaveAll(ctx, h.cfg.OutputDir, func(res domain.Result) {
		h.afterSave(ctx, res)
	})

	h.log.InfoObj("batch finished", "batch_meta", map[string]any{
		"endpoints_count": h.catalog.Len(),
		"saved_count":     len(results),
		"failed":          err != nil,
		"elapsed_ms":      time.Since(start).Milliseconds(),
	})
	if err != nil {
		return results, fmt.Errorf("download batch: %w", err)
	}
	return results, nil
}

// afterSave records the download and notifies publishers; failures are logged only.
func (h *Harvester) afterSave(ctx context.Context, res domain.Result) {
	if err := h.store.Record(res); err != nil {
		h.log.WarnObj("manifest record failed", "storage_error", map[string]any{
			"endpoint": res.Endpoint,
			"error":    err.Error(),
		})
	}

	if h.fanout.Size() == 0 {
		return
	}
	if _, err := h.fanout.Publish(ctx, publishers.NewEvent(res)); err != nil {
		h.log.WarnObj("dataset event publish failed", "publish_error", map[string]any{
			"endpoint": res.Endpoint,
			"error":    err.Error(),
		})
	}
}

func (h *Harvester) release() {
	var errs []error
	if err := h.client.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close http session: %w", err))
	}
	if h.store != nil {
		if err := h.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	if err := h.fanout.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publishers: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		h.log.ErrorObj("resource release failed", "error", err.Error())
	}
}
