package measure

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/chewxy/math32"
	"golang.org/x/exp/slices"

	"github.com/dshills/textcore/internal/diag"
	"github.com/dshills/textcore/internal/engine/bounds"
	"github.com/dshills/textcore/internal/engine/textmodel"
)

// WidthProvider measures characters. Widths writes the advance width of
// each character of text[start:end] into out[0:end-start].
type WidthProvider interface {
	Widths(text []rune, start, end int, out []float32)
}

// Cache keeps one Row of character widths per line of a text model and
// patches it on every edit, measuring only the inserted characters.
//
// After every edit, row N holds exactly as many widths as line N has
// characters.
//
// Row totals are summed lazily: an edited row is marked dirty and summed
// again the first time its offset is requested.
type Cache struct {
	mu sync.RWMutex

	model    *textmodel.Model
	listener textmodel.ListenerID
	provider WidthProvider

	rows  []*Row
	dirty *bitset.BitSet // rows whose cached offset is stale
	built bool

	tabWidth         int
	tabAsWhitespace  bool
	spaceWidth       float32
	maxOffsetEnabled bool
	maxOffset        float32
	maxStale         bool

	busy      atomic.Bool
	destroyed bool
	logger    *diag.Logger
}

// New measures every line of model and keeps the result in sync with its
// edits.
func New(model *textmodel.Model, provider WidthProvider, opts ...Option) *Cache {
	c := &Cache{
		provider:        provider,
		dirty:           bitset.New(0),
		tabWidth:        DefaultTabWidth,
		tabAsWhitespace: true,
		logger:          diag.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithComponent("measure")

	space := make([]float32, 1)
	provider.Widths([]rune{' '}, 0, 1, space)
	c.spaceWidth = space[0]

	c.attach(model)
	return c
}

// attach registers with model, then measures it under its read lock. Edits
// arriving before the build completes are ignored; the build sees them.
func (c *Cache) attach(model *textmodel.Model) {
	c.mu.Lock()
	c.model = model
	c.built = false
	c.mu.Unlock()

	id := model.AddListener(c)

	model.Read(func(v textmodel.View) {
		rows, _ := c.measureAll(context.Background(), v)
		c.mu.Lock()
		c.listener = id
		c.install(rows)
		c.mu.Unlock()
	})
}

func (c *Cache) measureAll(ctx context.Context, v textmodel.View) ([]*Row, error) {
	rows := make([]*Row, v.LineCount())
	for line := 1; line <= v.LineCount(); line++ {
		if line%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		runes := v.LineRunes(line)
		rows[line-1] = newRow(c.measure(runes, 0, len(runes)))
	}
	return rows, nil
}

func (c *Cache) install(rows []*Row) {
	c.rows = rows
	c.dirty = bitset.New(uint(len(rows)))
	for i := range rows {
		c.dirty.Set(uint(i))
	}
	c.maxStale = true
	c.built = true
}

func (c *Cache) measure(text []rune, start, end int) []float32 {
	out := make([]float32, end-start)
	if end > start {
		c.provider.Widths(text, start, end, out)
	}
	return out
}

func (c *Cache) markDirty(i int) {
	c.dirty.Set(uint(i))
	c.maxStale = true
}

// Model returns the text model the cache follows.
func (c *Cache) Model() *textmodel.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// Busy reports whether a full rebuild is in flight. Queries fail with
// ErrBusy while it is.
func (c *Cache) Busy() bool {
	return c.busy.Load()
}

// Rebuild remeasures the whole model synchronously.
func (c *Cache) Rebuild() error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.busy.Store(false)
	return c.rebuild(context.Background())
}

// RebuildAsync remeasures the whole model on a new goroutine. The returned
// channel receives the result and is then closed. Busy reports true until
// the rebuild finishes or ctx is cancelled; a cancelled rebuild leaves the
// existing rows in place.
func (c *Cache) RebuildAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	if !c.busy.CompareAndSwap(false, true) {
		done <- ErrBusy
		close(done)
		return done
	}
	go func() {
		defer close(done)
		err := c.rebuild(ctx)
		c.busy.Store(false)
		done <- err
	}()
	return done
}

func (c *Cache) rebuild(ctx context.Context) error {
	c.mu.RLock()
	m, destroyed := c.model, c.destroyed
	c.mu.RUnlock()
	if destroyed {
		return ErrDetached
	}

	start := time.Now()
	var (
		n   int
		err error
	)
	m.Read(func(v textmodel.View) {
		var rows []*Row
		if rows, err = c.measureAll(ctx, v); err != nil {
			return
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.model != m || c.destroyed {
			err = ErrDetached
			return
		}
		c.install(rows)
		n = len(rows)
	})
	if err != nil {
		c.logger.Warn("rebuild abandoned: %v", err)
		return err
	}
	c.logger.Debug("rebuilt %d rows in %s", n, time.Since(start))
	return nil
}

// SetTextModel detaches from the current model and rebuilds from model.
func (c *Cache) SetTextModel(model *textmodel.Model) error {
	c.mu.RLock()
	old, id, destroyed := c.model, c.listener, c.destroyed
	c.mu.RUnlock()
	if destroyed {
		return ErrDetached
	}
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.busy.Store(false)

	old.RemoveListener(id)
	start := time.Now()
	c.attach(model)
	c.logger.Info("switched text model: %d rows in %s", model.LineCount(), time.Since(start))
	return nil
}

// Destroy detaches the cache from its model and drops every row.
func (c *Cache) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	c.built = false
	for _, r := range c.rows {
		r.release()
	}
	c.rows = nil
	c.dirty.ClearAll()
	m, id := c.model, c.listener
	c.mu.Unlock()

	m.RemoveListener(id)
}

// usable reports why queries cannot run, if they cannot. Called with c.mu
// held.
func (c *Cache) usable() error {
	if c.destroyed {
		return ErrDetached
	}
	if c.busy.Load() || !c.built {
		return ErrBusy
	}
	return nil
}

// Settings

// TabWidth returns the tab width multiplier.
func (c *Cache) TabWidth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tabWidth
}

// SetTabWidth sets the tab width multiplier. Values below 1 become 1.
func (c *Cache) SetTabWidth(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tabWidth = max(n, 1)
}

// TabAsWhitespace reports whether tabs measure as spaces.
func (c *Cache) TabAsWhitespace() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tabAsWhitespace
}

// SetTabAsWhitespace selects how tabs are measured at query time. Stored
// widths are unaffected.
func (c *Cache) SetTabAsWhitespace(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tabAsWhitespace = enabled
}

// MaxOffsetEnabled reports whether the widest row is tracked.
func (c *Cache) MaxOffsetEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxOffsetEnabled
}

// SetMaxOffsetEnabled turns widest-row tracking on or off.
func (c *Cache) SetMaxOffsetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxOffsetEnabled = enabled
	c.maxStale = true
}

// Queries

// LineCount returns the number of rows.
func (c *Cache) LineCount() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.usable(); err != nil {
		return 0, err
	}
	return len(c.rows), nil
}

// RowLen returns the number of widths stored for line.
func (c *Cache) RowLen(line int) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	row, err := c.row(line)
	if err != nil {
		return 0, err
	}
	return row.Len(), nil
}

// RowWidths returns a copy of the stored widths of line.
func (c *Cache) RowWidths(line int) ([]float32, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	row, err := c.row(line)
	if err != nil {
		return nil, err
	}
	return row.Widths(), nil
}

// RowOffset returns the total stored width of line. Tabs count with the
// width the provider gave them; the tab settings applied by CharWidth are
// not reflected, so the total can differ from summing CharWidth over the
// line.
func (c *Cache) RowOffset(line int) (float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.row(line); err != nil {
		return 0, err
	}
	return c.rowOffset(line - 1), nil
}

// OffsetAt returns the summed stored width of the characters of line
// before column. Like RowOffset it ignores TabWidth and TabAsWhitespace.
func (c *Cache) OffsetAt(line, column int) (float32, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	row, err := c.row(line)
	if err != nil {
		return 0, err
	}
	if err := bounds.Column(column, row.Len(), true); err != nil {
		return 0, err
	}
	return row.OffsetAt(column)
}

// MaxOffset returns the widest RowOffset, or 0 when tracking is disabled.
// It reflects stored widths only.
func (c *Cache) MaxOffset() (float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.usable(); err != nil {
		return 0, err
	}
	if !c.maxOffsetEnabled {
		return 0, nil
	}
	if c.maxStale {
		var widest float32
		for i := range c.rows {
			widest = math32.Max(widest, c.rowOffset(i))
		}
		c.maxOffset = widest
		c.maxStale = false
	}
	return c.maxOffset, nil
}

// CharWidth returns the display width of the character at (line, column).
// A tab measures as tab-width spaces when TabAsWhitespace is set and as
// tab-width copies of its stored width otherwise.
func (c *Cache) CharWidth(line, column int) (float32, error) {
	m := c.Model()
	var (
		w   float32
		err error
	)
	m.Read(func(v textmodel.View) {
		c.mu.RLock()
		defer c.mu.RUnlock()

		if c.model != m {
			err = ErrBusy
			return
		}
		var row *Row
		if row, err = c.row(line); err != nil {
			return
		}
		if err = bounds.Column(column, row.Len(), false); err != nil {
			return
		}
		w = row.widths.Values()[column]
		if v.LineRunes(line)[column] == '\t' {
			w = c.tabAdvance(w)
		}
	})
	return w, err
}

func (c *Cache) tabAdvance(stored float32) float32 {
	if c.tabAsWhitespace {
		return c.spaceWidth * float32(c.tabWidth)
	}
	return stored * float32(c.tabWidth)
}

// row returns the row of line. Called with c.mu held.
func (c *Cache) row(line int) (*Row, error) {
	if err := c.usable(); err != nil {
		return nil, err
	}
	if err := bounds.Line(line, len(c.rows)); err != nil {
		return nil, err
	}
	return c.rows[line-1], nil
}

// rowOffset returns the cached total of row i, summing it if dirty. Called
// with c.mu held for writing.
func (c *Cache) rowOffset(i int) float32 {
	r := c.rows[i]
	if c.dirty.Test(uint(i)) {
		r.offset = r.total()
		c.dirty.Clear(uint(i))
	}
	return r.offset
}

// Edit notifications

// BeforeInsert implements textmodel.Listener.
func (c *Cache) BeforeInsert(textmodel.Event) {}

// BeforeDelete implements textmodel.Listener.
func (c *Cache) BeforeDelete(textmodel.Event) {}

// AfterInsert measures the inserted characters and splices them in. A
// multi-line insert creates rows for the new lines and carries the stored
// widths of the split line's tail onto the last one.
func (c *Cache) AfterInsert(ev textmodel.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.built {
		return
	}

	s := ev.Span
	if s.SingleLine() {
		runes := ev.Doc.LineRunes(s.StartLine)
		c.rows[s.StartLine-1].insert(s.StartColumn, c.measure(runes, s.StartColumn, s.EndColumn))
		c.markDirty(s.StartLine - 1)
		return
	}

	first := c.rows[s.StartLine-1]
	tail := first.split(s.StartColumn)
	runes := ev.Doc.LineRunes(s.StartLine)
	first.append(c.measure(runes, s.StartColumn, len(runes)))

	added := make([]*Row, 0, s.Lines())
	for line := s.StartLine + 1; line < s.EndLine; line++ {
		runes := ev.Doc.LineRunes(line)
		added = append(added, newRow(c.measure(runes, 0, len(runes))))
	}
	last := newRow(c.measure(ev.Doc.LineRunes(s.EndLine), 0, s.EndColumn))
	last.append(tail)
	added = append(added, last)

	c.rows = slices.Insert(c.rows, s.StartLine, added...)
	for range added {
		c.dirty.InsertAt(uint(s.StartLine))
	}
	for i := s.StartLine - 1; i < s.EndLine; i++ {
		c.markDirty(i)
	}
}

// AfterDelete removes the deleted widths. A multi-line delete appends the
// stored widths of the end row's survivors onto the start row and drops the
// rows in between.
func (c *Cache) AfterDelete(ev textmodel.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.built {
		return
	}

	s := ev.Span
	first := c.rows[s.StartLine-1]
	if s.SingleLine() {
		first.delete(s.StartColumn, s.EndColumn)
		c.markDirty(s.StartLine - 1)
		return
	}

	last := c.rows[s.EndLine-1]
	first.delete(s.StartColumn, first.Len())
	first.append(last.widths.Values()[s.EndColumn:])
	for _, r := range c.rows[s.StartLine:s.EndLine] {
		r.release()
	}
	c.rows = slices.Delete(c.rows, s.StartLine, s.EndLine)
	for i := s.StartLine; i < s.EndLine; i++ {
		c.dirty.DeleteAt(uint(s.StartLine))
	}
	c.markDirty(s.StartLine - 1)
}
