package market

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/commodity-dashboard/internal/observability"
)

// ErrNoSource is returned by Refresh when no source is configured.
var ErrNoSource = errors.New("no dataset source configured")

// UploadSource is the source label of datasets submitted by users.
const UploadSource = "upload"

// Selection lists what can be filtered on in the active dataset.
type Selection struct {
	DatasetID string   `json:"datasetId"`
	Products  []string `json:"products"`
	Regions   []string `json:"regions"`
}

// Service loads datasets into the store and builds filtered views over the
// active one. Every view is computed from scratch.
type Service struct {
	store   Store
	source  Source
	logger  *logrus.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for dataset and view timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService creates a new Service.
func NewService(store Store, source Source, logger *logrus.Logger, metrics *observability.Metrics, opts ...Option) *Service {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	if metrics == nil {
		metrics = observability.NewMetrics(nil)
	}
	s := &Service{
		store:   store,
		source:  source,
		logger:  logger,
		metrics: metrics,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SourceName returns the name of the configured source, or "" if there is none.
func (s *Service) SourceName() string {
	if s.source == nil {
		return ""
	}
	return s.source.Name()
}

// Refresh loads a new table from the configured source and makes it active.
// On failure the previously active dataset is kept.
func (s *Service) Refresh(ctx context.Context) (Dataset, error) {
	if s.source == nil {
		return Dataset{}, ErrNoSource
	}
	name := s.source.Name()
	log := s.logger.WithField("source", name)

	start := s.clock.Now()
	table, err := s.source.Load(ctx)
	s.metrics.LoadDuration.WithLabelValues(name).Observe(s.clock.Since(start).Seconds())
	if err != nil {
		s.metrics.DatasetLoads.WithLabelValues(name, outcome(err)).Inc()
		log.WithError(err).Warn("dataset refresh failed; keeping active dataset")
		return Dataset{}, fmt.Errorf("load from %s: %w", name, err)
	}

	ds := s.save(name, table)
	log.WithFields(logrus.Fields{"dataset": ds.ID, "rows": len(table)}).Info("dataset refreshed")
	return ds, nil
}

// Upload parses a CSV file and, if it is valid, makes it the active dataset.
// A *SchemaError is returned for files that do not match the expected layout.
func (s *Service) Upload(_ context.Context, filename string, r io.Reader) (Dataset, error) {
	log := s.logger.WithFields(logrus.Fields{"source": UploadSource, "file": filename})

	table, err := ParseCSV(r)
	if err != nil {
		s.metrics.DatasetLoads.WithLabelValues(UploadSource, outcome(err)).Inc()
		log.WithError(err).Warn("upload rejected")
		return Dataset{}, err
	}

	ds := s.save(UploadSource, table)
	log.WithFields(logrus.Fields{"dataset": ds.ID, "rows": len(table)}).Info("dataset uploaded")
	return ds, nil
}

func (s *Service) save(source string, table Table) Dataset {
	ds := Dataset{
		ID:       uuid.NewString(),
		Source:   source,
		LoadedAt: s.clock.Now().UTC(),
		Table:    table,
	}
	s.store.Save(ds)
	s.metrics.DatasetLoads.WithLabelValues(source, "success").Inc()
	s.metrics.DatasetRows.Set(float64(len(table)))
	return ds
}

func outcome(err error) string {
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return "rejected"
	}
	return "error"
}

// Active returns the most recently loaded dataset.
func (s *Service) Active() (Dataset, error) {
	return s.store.Latest()
}

// Dataset returns a dataset from the history by id.
func (s *Service) Dataset(id string) (Dataset, error) {
	return s.store.Get(id)
}

// History lists retained datasets, oldest first.
func (s *Service) History() []DatasetInfo {
	datasets := s.store.List()
	infos := make([]DatasetInfo, 0, len(datasets))
	for _, ds := range datasets {
		infos = append(infos, ds.Info())
	}
	return infos
}

// Selection returns the products and regions available in the active dataset.
func (s *Service) Selection() (Selection, error) {
	ds, err := s.store.Latest()
	if err != nil {
		return Selection{}, err
	}
	return Selection{
		DatasetID: ds.ID,
		Products:  ds.Table.Products(),
		Regions:   ds.Table.Regions(),
	}, nil
}

// View filters the active dataset to product and regions and derives the
// display columns. An empty result is not an error.
func (s *Service) View(product string, regions []string) (View, error) {
	ds, err := s.store.Latest()
	if err != nil {
		return View{}, err
	}

	view := BuildView(ds.Table, product, regions)
	view.GeneratedAt = s.clock.Now().UTC()

	result := "rows"
	if !view.Summary.HasData() {
		result = "empty"
	}
	s.metrics.ViewRequests.WithLabelValues(result).Inc()
	s.logger.WithFields(logrus.Fields{
		"dataset": ds.ID,
		"product": product,
		"regions": len(regions),
		"rows":    len(view.Rows),
	}).Debug("view computed")

	return view, nil
}

// RecordReport counts an exported document.
func (s *Service) RecordReport(format string) {
	s.metrics.ReportsGenerated.WithLabelValues(format).Inc()
}

// loadTimeout bounds a single scheduled refresh.
const loadTimeout = 30 * time.Second

// RefreshWithTimeout runs Refresh under a bounded context derived from parent.
func (s *Service) RefreshWithTimeout(parent context.Context) (Dataset, error) {
	ctx, cancel := context.WithTimeout(parent, loadTimeout)
	defer cancel()
	return s.Refresh(ctx)
}
