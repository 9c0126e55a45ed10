package unflatten

import (
	"iter"

	"go.uber.org/zap"

	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/models"
)

// Option configures an Unflattener.
type Option func(*Unflattener)

// WithWarningHandler adds a function receiving every warning as it is raised.
func WithWarningHandler(h func(models.Warning)) Option {
	return func(u *Unflattener) {
		if h != nil {
			u.handlers = append(u.handlers, h)
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(u *Unflattener) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// Unflattener rebuilds records from workbooks using one configuration.
// It holds no state between calls.
type Unflattener struct {
	cfg      Config
	logger   *zap.Logger
	handlers []func(models.Warning)
}

// New creates an Unflattener.
func New(cfg Config, opts ...Option) *Unflattener {
	u := &Unflattener{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Records validates wb and returns its records as a lazy sequence.
//
// Configuration problems and malformed column names are returned here,
// before anything is yielded. Sub-sheets are grouped when iteration starts;
// records are then built one by one in main-sheet order. The sequence can
// be ranged over once; later ranges yield nothing.
func (u *Unflattener) Records(wb models.Workbook) (iter.Seq[*models.Record], error) {
	r, err := u.prepare(wb)
	if err != nil {
		return nil, err
	}
	return r.records, nil
}

// Unflatten is shorthand for New(cfg, opts...).Records(wb).
func Unflatten(wb models.Workbook, cfg Config, opts ...Option) (iter.Seq[*models.Record], error) {
	return New(cfg, opts...).Records(wb)
}

// Result bundles every record with the warnings raised building them.
type Result struct {
	Records  []*models.Record
	Warnings []models.Warning
}

// Collect runs Unflatten to completion.
func Collect(wb models.Workbook, cfg Config, opts ...Option) (*Result, error) {
	res := &Result{}
	opts = append(opts[:len(opts):len(opts)], WithWarningHandler(func(w models.Warning) {
		res.Warnings = append(res.Warnings, w)
	}))
	seq, err := Unflatten(wb, cfg, opts...)
	if err != nil {
		return nil, err
	}
	for rec := range seq {
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// run is the state of one Records call.
type run struct {
	cfg      Config
	logger   *zap.Logger
	sheets   map[string]models.Sheet
	children map[string][]string
	mergers  map[string]*rowMerger
	rec      *reconciler
	consumed bool
}

func (u *Unflattener) prepare(wb models.Workbook) (*run, error) {
	if err := u.cfg.validate(wb); err != nil {
		return nil, err
	}

	r := &run{
		cfg:      u.cfg,
		logger:   u.logger,
		sheets:   make(map[string]models.Sheet),
		children: make(map[string][]string),
		mergers:  make(map[string]*rowMerger),
	}
	r.rec = &reconciler{
		mainSheet: u.cfg.MainSheetName,
		rootID:    u.cfg.RootIDColumn(),
		idName:    u.cfg.IDColumn(),
		report:    u.report,
	}

	for _, sheet := range wb.Sheets {
		if _, dup := r.sheets[sheet.Name]; dup {
			continue
		}
		m, err := newRowMerger(sheet, u.cfg, r.rec)
		if err != nil {
			return nil, err
		}
		r.sheets[sheet.Name] = sheet
		r.mergers[sheet.Name] = m
		if sheet.Name != u.cfg.MainSheetName {
			parent := u.cfg.ParentOf(sheet.Name)
			r.children[parent] = append(r.children[parent], sheet.Name)
		}
	}
	return r, nil
}

func (u *Unflattener) report(w models.Warning) {
	for _, h := range u.handlers {
		h(w)
	}
}

// records yields one record per main-sheet identity. Groups of sub-sheets
// that match no main-sheet identity are dropped without a warning.
func (r *run) records(yield func(*models.Record) bool) {
	if r.consumed {
		return
	}
	r.consumed = true

	main := r.sheets[r.cfg.MainSheetName]
	mainGroups := r.index(main)

	var subs []*groupSet
	for _, child := range r.children[main.Name] {
		subs = append(subs, r.resolve(child))
	}

	for _, g := range mainGroups.order {
		root := r.build(main, g)
		for _, set := range subs {
			if sub, ok := set.get(g.key); ok {
				r.rec.merge(root, sub.node, nil)
				sub.claimed = true
			}
		}
		rec := &models.Record{RootID: g.key.root, ID: g.key.local, Line: g.line, Root: root}
		if !yield(rec) {
			return
		}
	}

	dropped := 0
	for _, set := range subs {
		for _, g := range set.order {
			if !g.claimed {
				dropped++
			}
		}
	}
	r.logger.Debug("unflattened workbook",
		zap.String("main_sheet", main.Name),
		zap.Int("records", len(mainGroups.order)),
		zap.Int("dropped_groups", dropped))
}
